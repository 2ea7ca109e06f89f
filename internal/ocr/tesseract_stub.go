//go:build !ocr

package ocr

import (
	"context"
	"image"
)

// Tesseract is unavailable without the "ocr" build tag.
type Tesseract struct{}

// New always returns ErrNotEnabled.
func New(languages ...string) (*Tesseract, error) {
	return nil, ErrNotEnabled
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize always returns ErrNotEnabled.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Recognition, error) {
	return nil, ErrNotEnabled
}
