//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"image"
	"testing"
)

func TestStubNotEnabled(t *testing.T) {
	if _, err := New("eng"); !errors.Is(err, ErrNotEnabled) {
		t.Fatalf("New() error = %v, want ErrNotEnabled", err)
	}

	var rec Tesseract
	if _, err := rec.Recognize(context.Background(), image.NewGray(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrNotEnabled) {
		t.Fatalf("Recognize() error = %v, want ErrNotEnabled", err)
	}
}
