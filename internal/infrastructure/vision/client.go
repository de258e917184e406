package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// maxAttempts is the number of tries for transient failures
const maxAttempts = 3

// Client handles communication with the Google Cloud Vision text detection API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	debug       bool
	log         *logrus.Entry
}

// NewClient creates a new Vision API client allowing requestsPerMinute calls
func NewClient(apiKey, baseURL string, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 600
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60), 10) // burst of 10 requests

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		backoff:     exponentialBackoff,
		log:         logrus.WithField("component", "vision"),
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// retryable reports whether a status code is worth another attempt
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// doRequest executes an HTTP POST request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ExpiryLens/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(domain.ErrOCRFailure, err.Error())
	}

	return resp, nil
}

// RecognizeText sends an encoded image for TEXT_DETECTION and returns the detected words
func (c *Client) RecognizeText(ctx context.Context, image []byte) ([]domain.TextRegion, error) {
	payload, err := json.Marshal(annotateRequest{
		Requests: []imageRequest{{
			Image:    imageContent{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []feature{{Type: "TEXT_DETECTION"}},
		}},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request")
	}

	params := url.Values{}
	params.Add("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/images:annotate?%s", c.baseURL, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, errors.Wrap(err, "rate limiter")
		}

		resp, err := c.doRequest(ctx, reqURL, payload)
		if err != nil {
			c.log.WithError(err).Warnf("request error (attempt %d)", attempt)
			lastErr = err
			if !c.sleep(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = errors.Wrap(domain.ErrOCRFailure, readErr.Error())
			continue
		}

		if c.debug {
			c.log.Debugf("status %d, %d bytes (attempt %d)", resp.StatusCode, len(body), attempt)
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = errors.Wrapf(domain.ErrOCRFailure, "status %d: %s", resp.StatusCode, truncate(body, 200))
			if resp.StatusCode == http.StatusTooManyRequests {
				lastErr = errors.Wrap(domain.ErrRateLimited, truncate(body, 200))
			}
			if !retryable(resp.StatusCode) {
				return nil, lastErr
			}
			c.log.Warnf("API error (attempt %d): status %d", attempt, resp.StatusCode)
			if !c.sleep(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		var annotated annotateResponse
		if err := json.Unmarshal(body, &annotated); err != nil {
			return nil, errors.Wrap(domain.ErrOCRFailure, "failed to decode response: "+err.Error())
		}

		regions, err := MapToTextRegions(&annotated)
		if err != nil {
			return nil, err
		}

		c.log.Debugf("recognized %d words", len(regions))
		return regions, nil
	}

	c.log.Warn("all retries failed")
	return nil, lastErr
}

// sleep waits out the backoff for attempt; false if ctx ended first
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return true
	}

	timer := time.NewTimer(c.backoff(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func truncate(body []byte, n int) string {
	if len(body) > n {
		return string(body[:n]) + "..."
	}
	return string(body)
}
