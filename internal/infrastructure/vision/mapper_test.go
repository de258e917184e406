package vision

import (
	"testing"

	"github.com/expirylens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapToTextRegions(t *testing.T) {
	response := &annotateResponse{
		Responses: []imageResponse{{
			TextAnnotations: []textAnnotation{
				{Description: "BEST BEFORE\n20 JUN 21"},
				{Description: "BEST", BoundingPoly: boundingPoly{Vertices: []vertex{{1, 2}, {3, 4}}}},
				{Description: "Before"},
				{Description: "best", BoundingPoly: boundingPoly{Vertices: []vertex{{9, 9}}}},
				{Description: ""},
				{Description: "20"},
			},
		}},
	}

	regions, err := MapToTextRegions(response)

	require.NoError(t, err)
	require.Len(t, regions, 3)
	assert.Equal(t, "best", regions[0].Text)
	assert.Equal(t, []domain.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}, regions[0].Polygon)
	assert.Equal(t, "before", regions[1].Text)
	assert.Equal(t, "20", regions[2].Text)
}

func TestMapToTextRegions_Empty(t *testing.T) {
	t.Run("no responses", func(t *testing.T) {
		regions, err := MapToTextRegions(&annotateResponse{})
		require.NoError(t, err)
		assert.Empty(t, regions)
	})

	t.Run("only the full text block", func(t *testing.T) {
		regions, err := MapToTextRegions(&annotateResponse{
			Responses: []imageResponse{{TextAnnotations: []textAnnotation{{Description: "x"}}}},
		})
		require.NoError(t, err)
		assert.Empty(t, regions)
	})
}

func TestMapToTextRegions_Error(t *testing.T) {
	_, err := MapToTextRegions(&annotateResponse{
		Responses: []imageResponse{{Error: &status{Code: 7, Message: "permission denied"}}},
	})

	assert.ErrorIs(t, err, domain.ErrOCRFailure)
}
