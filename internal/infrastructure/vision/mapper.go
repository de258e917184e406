package vision

import (
	"strings"

	"github.com/expirylens/backend/internal/domain"
	"github.com/pkg/errors"
)

type annotateRequest struct {
	Requests []imageRequest `json:"requests"`
}

type imageRequest struct {
	Image    imageContent `json:"image"`
	Features []feature    `json:"features"`
}

type imageContent struct {
	Content string `json:"content"`
}

type feature struct {
	Type string `json:"type"`
}

type annotateResponse struct {
	Responses []imageResponse `json:"responses"`
}

type imageResponse struct {
	TextAnnotations []textAnnotation `json:"textAnnotations"`
	Error           *status          `json:"error,omitempty"`
}

type textAnnotation struct {
	Description  string       `json:"description"`
	BoundingPoly boundingPoly `json:"boundingPoly"`
}

type boundingPoly struct {
	Vertices []vertex `json:"vertices"`
}

type vertex struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type status struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MapToTextRegions converts an annotate response into lowercase words with polygons.
// The first annotation is the whole-image text block and is skipped. Words are
// keyed by text, so a repeated word keeps its first position and polygon.
func MapToTextRegions(response *annotateResponse) ([]domain.TextRegion, error) {
	if len(response.Responses) == 0 {
		return []domain.TextRegion{}, nil
	}

	first := response.Responses[0]
	if first.Error != nil && first.Error.Message != "" {
		return nil, errors.Wrapf(domain.ErrOCRFailure, "vision error %d: %s", first.Error.Code, first.Error.Message)
	}

	regions := make([]domain.TextRegion, 0, len(first.TextAnnotations))
	seen := make(map[string]bool, len(first.TextAnnotations))

	for index, annotation := range first.TextAnnotations {
		if index == 0 {
			continue
		}

		text := strings.ToLower(annotation.Description)
		if text == "" || seen[text] {
			continue
		}
		seen[text] = true

		polygon := make([]domain.Point, 0, len(annotation.BoundingPoly.Vertices))
		for _, v := range annotation.BoundingPoly.Vertices {
			polygon = append(polygon, domain.Point{X: v.X, Y: v.Y})
		}

		regions = append(regions, domain.TextRegion{Text: text, Polygon: polygon})
	}

	return regions, nil
}
