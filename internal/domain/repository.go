package domain

import (
	"context"
	"io"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// DateParser turns an assembled day-month-year string into a date.
// A missing year is taken from reference.
type DateParser interface {
	Parse(text string, reference time.Time) (time.Time, error)
}

// TextRecognizer runs OCR over an encoded image
type TextRecognizer interface {
	RecognizeText(ctx context.Context, image []byte) ([]TextRegion, error)
}

// CaptureDateReader extracts the capture timestamp from image metadata
type CaptureDateReader interface {
	CaptureDate(r io.Reader) (time.Time, error)
}

// MetricsRecorder records detection outcomes
type MetricsRecorder interface {
	ObserveDetection(status, source string, elapsed time.Duration)
}
