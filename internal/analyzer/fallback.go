package analyzer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/rs/zerolog"
)

// Fallback tries its detectors in order and returns the first result that
// is not an error. An empty result counts as success.
type Fallback struct {
	Detectors []Detector
	Log       zerolog.Logger
}

// NewFallback creates a fallback chain over detectors
func NewFallback(log zerolog.Logger, detectors ...Detector) *Fallback {
	return &Fallback{Detectors: detectors, Log: log}
}

func (f *Fallback) Name() string {
	names := make([]string, len(f.Detectors))
	for i, d := range f.Detectors {
		names[i] = d.Name()
	}
	return "fallback(" + strings.Join(names, ",") + ")"
}

func (f *Fallback) Detect(ctx context.Context, img image.Image) ([]Region, error) {
	var errs []error
	for _, d := range f.Detectors {
		regions, err := d.Detect(ctx, img)
		if err == nil {
			return regions, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
		if ctx.Err() != nil {
			break
		}
		f.Log.Warn().Err(err).Str("detector", d.Name()).Msg("detector failed, trying next")
	}
	if len(errs) == 0 {
		return nil, errors.New("no detectors configured")
	}
	return nil, errors.Join(errs...)
}
