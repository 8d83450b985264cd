package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"ai-forum-web/internal/models"
	"ai-forum-web/pkg/cache"
	"ai-forum-web/pkg/logger"
	"ai-forum-web/pkg/validator"
)

const (
	defaultToxicityThreshold = 0.5
	defaultMaxTextLength     = 5000
)

type ToxicityOptions struct {
	Threshold     float64
	MaxTextLength int
	CacheTTL      time.Duration
}

// PredictionCache stores classifier scores keyed by the digest of the
// normalized text.
type PredictionCache interface {
	GetCachedPrediction(ctx context.Context, digest string, dest interface{}) error
	CachePrediction(ctx context.Context, digest string, prediction interface{}, ttl time.Duration) error
}

type ToxicityService struct {
	classifier    Classifier
	cache         PredictionCache
	threshold     float64
	maxTextLength int
	cacheTTL      time.Duration
}

func NewToxicityService(classifier Classifier, cacheService PredictionCache, opts ToxicityOptions) *ToxicityService {
	threshold := opts.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = defaultToxicityThreshold
	}

	maxLength := opts.MaxTextLength
	if maxLength <= 0 {
		maxLength = defaultMaxTextLength
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &ToxicityService{
		classifier:    classifier,
		cache:         cacheService,
		threshold:     threshold,
		maxTextLength: maxLength,
		cacheTTL:      ttl,
	}
}

func (s *ToxicityService) Threshold() float64 {
	return s.threshold
}

func (s *ToxicityService) MaxTextLength() int {
	return s.maxTextLength
}

// Predict normalizes whitespace in text, consults the cache and falls back to
// the classifier. The threshold is applied on every call, so cached scores
// follow threshold changes.
func (s *ToxicityService) Predict(ctx context.Context, text string) (*models.Prediction, error) {
	if s == nil || s.classifier == nil {
		return nil, ErrClassifierUnavailable
	}

	normalized := validator.NormalizeText(text)
	if normalized == "" {
		return nil, ErrEmptyText
	}
	if utf8.RuneCountInString(normalized) > s.maxTextLength {
		return nil, ErrTextTooLong
	}

	digest := textDigest(normalized)
	log := logger.FromContext(ctx).WithField("digest", digest[:12])

	if s.cache != nil {
		var cached ClassifierScore
		if err := s.cache.GetCachedPrediction(ctx, digest, &cached); err == nil {
			log.Debug("Score served from cache")
			prediction := s.label(cached.ToxicityProbability)
			return &prediction, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) && !errors.Is(err, cache.ErrCacheDisabled) {
			log.WithError(err).Warn("Failed to read prediction cache")
		}
	}

	score, err := s.classifier.Classify(ctx, normalized)
	if err != nil {
		log.WithError(err).Error("Classifier request failed")
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	if s.cache != nil {
		entry := ClassifierScore{ToxicityProbability: score.ToxicityProbability}
		if err := s.cache.CachePrediction(ctx, digest, entry, s.cacheTTL); err != nil {
			log.WithError(err).Warn("Failed to cache score")
		}
	}

	prediction := s.label(score.ToxicityProbability)
	return &prediction, nil
}

func (s *ToxicityService) label(probability float64) models.Prediction {
	result := models.Prediction{
		ToxicityProbability: roundProbability(probability),
		Prediction:          models.LabelNonToxic,
	}
	if probability >= s.threshold {
		result.Prediction = models.LabelToxic
	}
	return result
}

func roundProbability(value float64) float64 {
	return math.Round(value*10000) / 10000
}

func textDigest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
