package exif

import (
	"io"
	"time"

	"github.com/expirylens/backend/internal/domain"
	"github.com/pkg/errors"
	goexif "github.com/rwcarlsen/goexif/exif"
)

// Reader reads capture timestamps from JPEG/TIFF EXIF metadata
type Reader struct{}

// NewReader creates a new EXIF capture date reader
func NewReader() *Reader {
	return &Reader{}
}

// CaptureDate returns the DateTimeOriginal of the image, truncated to the day.
// Images without EXIF or without a timestamp yield domain.ErrNoCaptureDate.
func (r *Reader) CaptureDate(image io.Reader) (time.Time, error) {
	x, err := goexif.Decode(image)
	if err != nil {
		return time.Time{}, errors.Wrap(domain.ErrNoCaptureDate, err.Error())
	}

	taken, err := x.DateTime()
	if err != nil {
		return time.Time{}, errors.Wrap(domain.ErrNoCaptureDate, err.Error())
	}

	return time.Date(taken.Year(), taken.Month(), taken.Day(), 0, 0, 0, 0, taken.Location()), nil
}
