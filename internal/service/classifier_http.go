package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultClassifierEndpoint = "http://localhost:8000/predict"

// ClassifierScore is the raw answer of a classifier for a single text.
type ClassifierScore struct {
	ToxicityProbability float64 `json:"toxicity_probability"`
	Prediction          string  `json:"prediction,omitempty"`
}

// Classifier scores a text for toxicity.
type Classifier interface {
	Classify(ctx context.Context, text string) (*ClassifierScore, error)
}

type HTTPClassifierOptions struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClassifier calls a model server exposing POST {"text": "..."} and
// answering {"toxicity_probability": p}.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClassifier(opts HTTPClassifierOptions) *HTTPClassifier {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		endpoint = defaultClassifierEndpoint
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTPClassifier{endpoint: endpoint, client: client}
}

func (c *HTTPClassifier) Endpoint() string {
	return c.endpoint
}

func (c *HTTPClassifier) Classify(ctx context.Context, text string) (*ClassifierScore, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("classifier is not configured")
	}

	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("classifier: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("classifier: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classifier: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("classifier: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := strings.TrimSpace(string(body))
		if len(message) > 200 {
			message = message[:200]
		}
		return nil, fmt.Errorf("classifier: unexpected status %d: %s", resp.StatusCode, message)
	}

	var score ClassifierScore
	if err := json.Unmarshal(body, &score); err != nil {
		return nil, fmt.Errorf("classifier: failed to decode response: %w", err)
	}
	if score.ToxicityProbability < 0 || score.ToxicityProbability > 1 {
		return nil, fmt.Errorf("classifier: probability %v out of range", score.ToxicityProbability)
	}

	return &score, nil
}
