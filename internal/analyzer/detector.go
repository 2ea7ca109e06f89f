package analyzer

import (
	"context"
	"image"
)

// Region is a rectangle likely to contain text, in source image coordinates.
type Region struct {
	BBox       image.Rectangle
	Text       string  // empty when the detector does not read text
	Confidence float64 // 0.0-1.0
}

// Detector is the interface for text localisation strategies
type Detector interface {
	Name() string
	Detect(ctx context.Context, img image.Image) ([]Region, error)
}

// Boxes returns the bounding boxes of regions.
func Boxes(regions []Region) []image.Rectangle {
	boxes := make([]image.Rectangle, len(regions))
	for i, r := range regions {
		boxes[i] = r.BBox
	}
	return boxes
}
