// Package ocr wraps a learned text recognizer. The Tesseract engine is only
// linked in with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without the tag New returns ErrNotEnabled and callers fall back to the
// heuristic detector.
package ocr

import (
	"errors"
	"image"
)

// ErrNotEnabled is returned when the binary was built without recognizer support.
var ErrNotEnabled = errors.New("ocr: recognizer not enabled (build with -tags ocr)")

// DefaultLanguages are loaded when no languages are configured.
var DefaultLanguages = []string{"eng"}

// Recognition is one detected text span.
type Recognition struct {
	// Polygon lists the corners of the span in image coordinates.
	Polygon    []image.Point
	Text       string
	Confidence float64 // 0.0-1.0
}

// Bounds returns the axis-aligned box enclosing the polygon as
// (min x, min y, max x, max y).
func (r Recognition) Bounds() image.Rectangle {
	if len(r.Polygon) == 0 {
		return image.Rectangle{}
	}
	b := image.Rectangle{Min: r.Polygon[0], Max: r.Polygon[0]}
	for _, p := range r.Polygon[1:] {
		b.Min.X = min(b.Min.X, p.X)
		b.Min.Y = min(b.Min.Y, p.Y)
		b.Max.X = max(b.Max.X, p.X)
		b.Max.Y = max(b.Max.Y, p.Y)
	}
	return b
}

func quad(r image.Rectangle) []image.Point {
	return []image.Point{
		r.Min,
		{X: r.Max.X, Y: r.Min.Y},
		r.Max,
		{X: r.Min.X, Y: r.Max.Y},
	}
}
