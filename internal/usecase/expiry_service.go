package usecase

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Result sources reported in ExpiryResult.Source
const (
	SourceEngine = "engine"
	SourceCache  = "cache"
)

// ExpiryServiceConfig holds configuration for the expiry service
type ExpiryServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
	// Clock returns the current time; defaults to time.Now
	Clock func() time.Time
}

// ExpiryService runs expiry detection requests with caching and metrics
type ExpiryService struct {
	detector           *ExpiryDetector
	cache              domain.CacheRepository
	recognizer         domain.TextRecognizer
	captureDates       domain.CaptureDateReader
	metrics            domain.MetricsRecorder
	cacheTTL           time.Duration
	clock              func() time.Time
	enableDebugLogging bool
	log                *logrus.Entry
}

// NewExpiryService creates a new expiry service. cache, recognizer,
// captureDates and metrics may be nil.
func NewExpiryService(
	detector *ExpiryDetector,
	cache domain.CacheRepository,
	recognizer domain.TextRecognizer,
	captureDates domain.CaptureDateReader,
	metrics domain.MetricsRecorder,
	config ExpiryServiceConfig,
) *ExpiryService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	clock := config.Clock
	if clock == nil {
		clock = time.Now
	}

	return &ExpiryService{
		detector:           detector,
		cache:              cache,
		recognizer:         recognizer,
		captureDates:       captureDates,
		metrics:            metrics,
		cacheTTL:           cacheTTL,
		clock:              clock,
		enableDebugLogging: config.EnableDebugLogging,
		log:                logrus.WithField("component", "expiry_service"),
	}
}

// HasTextRecognizer reports whether image detection is available
func (s *ExpiryService) HasTextRecognizer() bool {
	return s.recognizer != nil
}

// DetectExpiry extracts an expiry date from already-recognized OCR words.
// Flow: capture clock -> check cache -> run detector -> cache -> return.
// Not finding a date is reported through ExpiryResult.Status, not as an error.
func (s *ExpiryService) DetectExpiry(ctx context.Context, request *domain.DetectRequest) (*domain.ExpiryResult, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	start := time.Now()

	// Captured once so every window and default year in this request agree
	now := s.clock().Truncate(time.Minute)
	threshold := now
	if request.CaptureDate != nil {
		// Candidates are parsed in the clock's location; the capture date is
		// read as a wall clock in that same location.
		threshold = inLocation(*request.CaptureDate, now.Location())
	}

	category := domain.NormalizeCategory(request.Category)
	if _, ok := domain.ShelfLife(category); category != "" && !ok {
		s.log.WithField("category", category).Warn("unknown category, selecting without shelf life")
		category = ""
	}

	cacheKey := generateCacheKey(request.Texts, category, threshold, now)

	// Try cache first
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil && cached != nil {
		cached.Source = SourceCache
		s.observe(cached.Status, SourceCache, start)
		return cached, nil
	}

	date, candidates, err := s.detector.Extract(request.Texts, category, threshold, now)

	result := &domain.ExpiryResult{
		Category:   category,
		Threshold:  threshold,
		Candidates: candidates,
		Source:     SourceEngine,
	}

	switch {
	case err == nil:
		result.ExpiryDate = &date
		result.Status = domain.StatusFound
	case errors.Is(err, domain.ErrNoExpiryDate):
		result.Status = domain.StatusNotFound
		result.Message = err.Error()
	case errors.Is(err, domain.ErrNoFutureExpiryDate):
		result.Status = domain.StatusNoFuture
		result.Message = err.Error()
	default:
		return nil, err
	}

	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		// Caching is best effort
		s.log.WithError(err).Warn("failed to cache expiry result")
	}

	s.observe(result.Status, SourceEngine, start)

	if s.enableDebugLogging {
		s.log.WithFields(logrus.Fields{
			"status":     result.Status,
			"candidates": len(candidates),
			"threshold":  threshold.Format(time.RFC3339),
		}).Debug("expiry detection finished")
	}

	return result, nil
}

// DetectExpiryFromImage recognizes text in an encoded image and detects its
// expiry date. The image capture date, when present in EXIF, becomes the threshold.
func (s *ExpiryService) DetectExpiryFromImage(ctx context.Context, image []byte, category string) (*domain.ExpiryResult, error) {
	if s.recognizer == nil {
		return nil, domain.ErrOCRUnavailable
	}
	if len(image) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	request := &domain.DetectRequest{Category: category}

	if s.captureDates != nil {
		captured, err := s.captureDates.CaptureDate(bytes.NewReader(image))
		if err == nil {
			request.CaptureDate = &captured
		} else if s.enableDebugLogging {
			s.log.WithError(err).Debug("no capture date, using current date as threshold")
		}
	}

	regions, err := s.recognizer.RecognizeText(ctx, image)
	if err != nil {
		return nil, errors.Wrap(err, "recognize text")
	}

	request.Texts = make([]string, 0, len(regions))
	for _, region := range regions {
		request.Texts = append(request.Texts, region.Text)
	}

	return s.DetectExpiry(ctx, request)
}

// inLocation keeps t's wall clock and moves it to loc
func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}

func (s *ExpiryService) observe(status, source string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveDetection(status, source, time.Since(start))
	}
}

// generateCacheKey creates a cache key from everything the result depends on.
// Format: "expiry:{sha256 of texts, category, threshold, now}"
func generateCacheKey(texts []string, category string, threshold, now time.Time) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(texts, "\x1f")))
	h.Write([]byte{0})
	h.Write([]byte(category))
	h.Write([]byte{0})
	h.Write([]byte(threshold.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte{0})
	h.Write([]byte(now.UTC().Format(time.RFC3339Nano)))
	return "expiry:" + hex.EncodeToString(h.Sum(nil))
}

// getFromCache retrieves a detection result from cache
func (s *ExpiryService) getFromCache(ctx context.Context, key string) (*domain.ExpiryResult, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case *domain.ExpiryResult:
		copied := *v
		return &copied, nil
	case json.RawMessage:
		return decodeResult(v)
	case []byte:
		return decodeResult(v)
	}

	return nil, domain.ErrCacheMiss
}

func decodeResult(data []byte) (*domain.ExpiryResult, error) {
	var result domain.ExpiryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(domain.ErrCacheMiss, err.Error())
	}
	return &result, nil
}

// setInCache stores a detection result in cache
func (s *ExpiryService) setInCache(ctx context.Context, key string, result *domain.ExpiryResult) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, result, s.cacheTTL)
}
