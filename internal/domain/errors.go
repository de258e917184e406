package domain

import "github.com/pkg/errors"

var (
	// ErrNoExpiryDate is returned when no month or year evidence produced a candidate
	ErrNoExpiryDate = errors.New("No expiration date found")

	// ErrNoFutureExpiryDate is returned when every candidate was rejected by the threshold/category filter
	ErrNoFutureExpiryDate = errors.New("No future expiration date found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnparseableDate is returned by a DateParser when assembled components do not form a date
	ErrUnparseableDate = errors.New("unparseable date")

	// ErrNoCaptureDate is returned when an image carries no capture timestamp
	ErrNoCaptureDate = errors.New("capture date not available")

	// ErrOCRUnavailable is returned when no text recognizer is configured
	ErrOCRUnavailable = errors.New("text recognition not configured")

	// ErrOCRFailure is returned when the text recognition service fails
	ErrOCRFailure = errors.New("text recognition request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
