package domain

import "time"

// MonthMatch is a fuzzy hit of a token against the month vocabulary
type MonthMatch struct {
	Index    int    `json:"index"`
	Month    string `json:"month"`
	Distance int    `json:"distance"`
}

// ScoredDate is a month-first candidate tagged with the edit distance of its anchoring month
type ScoredDate struct {
	Date     time.Time
	Distance int
}

// Detection outcomes reported in ExpiryResult.Status
const (
	StatusFound    = "found"
	StatusNotFound = "not_found"
	StatusNoFuture = "no_future"
)

// TextRegion is one recognized word and its bounding polygon
type TextRegion struct {
	Text    string  `json:"text"`
	Polygon []Point `json:"polygon,omitempty"`
}

// Point is a polygon vertex in image pixel coordinates
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DetectRequest represents an expiry detection request over already-recognized text
type DetectRequest struct {
	Texts       []string   `json:"texts"`
	Category    string     `json:"category,omitempty"`
	CaptureDate *time.Time `json:"captureDate,omitempty"`
}

// ExpiryResult is the outcome of one detection request
type ExpiryResult struct {
	ExpiryDate *time.Time  `json:"expiryDate"`
	Status     string      `json:"status"`
	Message    string      `json:"message,omitempty"`
	Category   string      `json:"category,omitempty"`
	Threshold  time.Time   `json:"threshold"`
	Candidates []time.Time `json:"candidates,omitempty"`
	Source     string      `json:"source"` // "engine" or "cache"
}
