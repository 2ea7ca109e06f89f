package analyzer

import (
	"context"
	"fmt"
	"image"

	"github.com/ivlev/textscrub/internal/ocr"
)

// Recognizer is a learned text recognition capability.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]ocr.Recognition, error)
}

// ModelDetector turns recognizer output into regions, keeping the
// recognized text and discarding low-confidence spans.
type ModelDetector struct {
	Recognizer    Recognizer
	MinConfidence float64 // detections at or below this are dropped
}

// NewModelDetector creates a model-backed detector with default settings
func NewModelDetector(rec Recognizer) *ModelDetector {
	return &ModelDetector{Recognizer: rec, MinConfidence: 0.5}
}

func (d *ModelDetector) Name() string { return "model" }

func (d *ModelDetector) Detect(ctx context.Context, img image.Image) ([]Region, error) {
	recs, err := d.Recognizer.Recognize(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	regions := []Region{}
	for _, r := range recs {
		if r.Confidence <= d.MinConfidence || len(r.Polygon) == 0 {
			continue
		}
		regions = append(regions, Region{
			BBox:       r.Bounds(),
			Text:       r.Text,
			Confidence: r.Confidence,
		})
	}
	return regions, nil
}
