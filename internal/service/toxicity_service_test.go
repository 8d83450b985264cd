package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-forum-web/internal/models"
	"ai-forum-web/pkg/cache"
)

type stubClassifier struct {
	probability float64
	err         error
	calls       []string
}

func (s *stubClassifier) Classify(_ context.Context, text string) (*ClassifierScore, error) {
	s.calls = append(s.calls, text)
	if s.err != nil {
		return nil, s.err
	}
	return &ClassifierScore{ToxicityProbability: s.probability}, nil
}

type memoryCache struct {
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) GetCachedPrediction(_ context.Context, digest string, dest interface{}) error {
	data, ok := m.entries[digest]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *memoryCache) CachePrediction(_ context.Context, digest string, prediction interface{}, _ time.Duration) error {
	data, err := json.Marshal(prediction)
	if err != nil {
		return err
	}
	m.entries[digest] = data
	return nil
}

func TestPredictThreshold(t *testing.T) {
	cases := []struct {
		name        string
		probability float64
		expected    models.Prediction
	}{
		{name: "below", probability: 0.49999, expected: models.Prediction{ToxicityProbability: 0.5, Prediction: models.LabelNonToxic}},
		{name: "exact", probability: 0.5, expected: models.Prediction{ToxicityProbability: 0.5, Prediction: models.LabelToxic}},
		{name: "above", probability: 0.912345, expected: models.Prediction{ToxicityProbability: 0.9123, Prediction: models.LabelToxic}},
		{name: "zero", probability: 0, expected: models.Prediction{ToxicityProbability: 0, Prediction: models.LabelNonToxic}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewToxicityService(&stubClassifier{probability: tc.probability}, nil, ToxicityOptions{})

			prediction, err := svc.Predict(context.Background(), "some text")
			require.NoError(t, err)
			assert.Equal(t, tc.expected, *prediction)
		})
	}
}

func TestPredictSendsMarkupToClassifier(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "you are an <idiot>", expected: "you are an <idiot>"},
		{input: "<script>kill yourself</script>", expected: "<script>kill yourself</script>"},
		{input: "<stupid loser>", expected: "<stupid loser>"},
		{input: "  <b>you</b>   are\nfine ", expected: "<b>you</b> are fine"},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			classifier := &stubClassifier{probability: 0.9}
			svc := NewToxicityService(classifier, nil, ToxicityOptions{})

			prediction, err := svc.Predict(context.Background(), tc.input)
			require.NoError(t, err)
			assert.Equal(t, models.LabelToxic, prediction.Prediction)
			assert.Equal(t, []string{tc.expected}, classifier.calls)
		})
	}
}

func TestPredictKeepsMarkupInCacheKey(t *testing.T) {
	classifier := &stubClassifier{probability: 0.9}
	svc := NewToxicityService(classifier, newMemoryCache(), ToxicityOptions{})

	_, err := svc.Predict(context.Background(), "you are an <idiot>")
	require.NoError(t, err)
	_, err = svc.Predict(context.Background(), "you are an")
	require.NoError(t, err)

	assert.Equal(t, []string{"you are an <idiot>", "you are an"}, classifier.calls)
}

func TestPredictRejectsInvalidText(t *testing.T) {
	classifier := &stubClassifier{}
	svc := NewToxicityService(classifier, nil, ToxicityOptions{MaxTextLength: 5})

	_, err := svc.Predict(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.Predict(context.Background(), "\n\t")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = svc.Predict(context.Background(), "too long")
	assert.ErrorIs(t, err, ErrTextTooLong)

	assert.Empty(t, classifier.calls)
}

func TestPredictUsesCache(t *testing.T) {
	classifier := &stubClassifier{probability: 0.8}
	svc := NewToxicityService(classifier, newMemoryCache(), ToxicityOptions{})

	first, err := svc.Predict(context.Background(), "same text")
	require.NoError(t, err)
	second, err := svc.Predict(context.Background(), "  same   text ")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, classifier.calls, 1)
}

func TestPredictAppliesCurrentThresholdToCachedScore(t *testing.T) {
	shared := newMemoryCache()

	classifier := &stubClassifier{probability: 0.6}
	lenient := NewToxicityService(classifier, shared, ToxicityOptions{Threshold: 0.5})
	first, err := lenient.Predict(context.Background(), "borderline remark")
	require.NoError(t, err)
	assert.Equal(t, models.LabelToxic, first.Prediction)

	strict := NewToxicityService(classifier, shared, ToxicityOptions{Threshold: 0.7})
	second, err := strict.Predict(context.Background(), "borderline remark")
	require.NoError(t, err)
	assert.Equal(t, models.LabelNonToxic, second.Prediction)
	assert.Equal(t, 0.6, second.ToxicityProbability)

	assert.Len(t, classifier.calls, 1)
}

func TestPredictWithDisabledRedisCache(t *testing.T) {
	disabled, err := cache.NewCache("", false)
	require.NoError(t, err)

	classifier := &stubClassifier{probability: 0.2}
	svc := NewToxicityService(classifier, disabled, ToxicityOptions{})

	for i := 0; i < 2; i++ {
		_, err := svc.Predict(context.Background(), "hello")
		require.NoError(t, err)
	}
	assert.Len(t, classifier.calls, 2)
}

func TestPredictWrapsClassifierErrors(t *testing.T) {
	svc := NewToxicityService(&stubClassifier{err: errors.New("connection refused")}, nil, ToxicityOptions{})

	_, err := svc.Predict(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrClassifierUnavailable)

	var nilService *ToxicityService
	_, err = nilService.Predict(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrClassifierUnavailable)
}

func TestNewToxicityServiceDefaults(t *testing.T) {
	svc := NewToxicityService(&stubClassifier{}, nil, ToxicityOptions{Threshold: 3})
	assert.Equal(t, 0.5, svc.Threshold())
	assert.Equal(t, 5000, svc.MaxTextLength())
}

func TestHTTPClassifier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(body["text"], "idiot") {
			_, _ = w.Write([]byte(`{"toxicity_probability": 0.97, "prediction": "Toxic"}`))
			return
		}
		_, _ = w.Write([]byte(`{"toxicity_probability": 0.03, "prediction": "Non-Toxic"}`))
	}))
	defer server.Close()

	classifier := NewHTTPClassifier(HTTPClassifierOptions{Endpoint: server.URL, Timeout: time.Second})
	assert.Equal(t, server.URL, classifier.Endpoint())

	score, err := classifier.Classify(context.Background(), "you idiot")
	require.NoError(t, err)
	assert.Equal(t, 0.97, score.ToxicityProbability)

	score, err = classifier.Classify(context.Background(), "thank you")
	require.NoError(t, err)
	assert.Equal(t, 0.03, score.ToxicityProbability)
}

func TestHTTPClassifierErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "model not loaded"},
		{name: "bad json", status: http.StatusOK, body: "not json"},
		{name: "out of range", status: http.StatusOK, body: `{"toxicity_probability": 1.5}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			classifier := NewHTTPClassifier(HTTPClassifierOptions{Endpoint: server.URL})
			_, err := classifier.Classify(context.Background(), "text")
			assert.Error(t, err)
		})
	}
}
