package http

import (
	"io"
	"net/http"
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/expirylens/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	dateLayout = "2006-01-02"

	// maxImageBytes bounds the multipart image read into memory
	maxImageBytes = 10 << 20
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	expiryService *usecase.ExpiryService
}

// NewHandler creates a new HTTP handler
func NewHandler(expiryService *usecase.ExpiryService) *Handler {
	return &Handler{
		expiryService: expiryService,
	}
}

// DetectRequest is the JSON body of POST /api/v1/expiry/detect
type DetectRequest struct {
	Texts       []string `json:"texts"`
	Category    string   `json:"category"`
	CaptureDate string   `json:"captureDate"` // YYYY-MM-DD
}

// DetectResponse is the JSON body returned by both detect endpoints
type DetectResponse struct {
	ExpiryDate *string  `json:"expiryDate"`
	Status     string   `json:"status"`
	Message    string   `json:"message,omitempty"`
	Category   string   `json:"category,omitempty"`
	Threshold  string   `json:"threshold"`
	Candidates []string `json:"candidates"`
	Source     string   `json:"source"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	ocr := "disabled"
	if h.expiryService != nil && h.expiryService.HasTextRecognizer() {
		ocr = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"service":    "expirylens-backend",
		"version":    "1.0.0",
		"ocr":        ocr,
		"categories": domain.Categories(),
	})
}

// DetectExpiry handles expiry detection over already-recognized words
func (h *Handler) DetectExpiry(c *gin.Context) {
	if h.expiryService == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Expiry detection service not configured",
		})
		return
	}

	var req DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if req.Texts == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "texts is required",
		})
		return
	}

	request := &domain.DetectRequest{
		Texts:    req.Texts,
		Category: req.Category,
	}

	// A calendar date; the service places it in its own clock's zone
	if req.CaptureDate != "" {
		captured, err := time.Parse(dateLayout, req.CaptureDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "captureDate must be formatted as YYYY-MM-DD",
				"details": err.Error(),
			})
			return
		}
		request.CaptureDate = &captured
	}

	result, err := h.expiryService.DetectExpiry(c.Request.Context(), request)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

// DetectExpiryImage handles expiry detection over an uploaded label photo
func (h *Handler) DetectExpiryImage(c *gin.Context) {
	if h.expiryService == nil || !h.expiryService.HasTextRecognizer() {
		h.handleError(c, domain.ErrOCRUnavailable)
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "image file is required",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		h.handleError(c, errors.Wrap(err, "read image"))
		return
	}
	if len(image) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "image exceeds 10 MiB",
		})
		return
	}

	result, err := h.expiryService.DetectExpiryFromImage(c.Request.Context(), image, c.PostForm("category"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResponse(result))
}

func toResponse(result *domain.ExpiryResult) DetectResponse {
	response := DetectResponse{
		Status:     result.Status,
		Message:    result.Message,
		Category:   result.Category,
		Threshold:  result.Threshold.Format(time.RFC3339),
		Candidates: make([]string, 0, len(result.Candidates)),
		Source:     result.Source,
	}

	if result.ExpiryDate != nil {
		formatted := result.ExpiryDate.Format(dateLayout)
		response.ExpiryDate = &formatted
	}

	for _, candidate := range result.Candidates {
		response.Candidates = append(response.Candidates, candidate.Format(dateLayout))
	}

	return response
}

// handleError maps domain errors to HTTP responses
func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request parameters",
		})
	case errors.Is(err, domain.ErrOCRUnavailable):
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "Image detection not configured",
		})
	case errors.Is(err, domain.ErrOCRFailure):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Text recognition service error",
			"details": "Failed to read text from the image",
		})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit exceeded, please try again later",
		})
	default:
		logrus.WithError(err).WithField("component", "http").Error("expiry detection failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
