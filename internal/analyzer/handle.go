package analyzer

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ivlev/textscrub/internal/ocr"
)

// ModelState records whether the learned recognizer was loaded.
type ModelState int

const (
	ModelAbsent ModelState = iota
	ModelPresent
)

func (s ModelState) String() string {
	if s == ModelPresent {
		return "present"
	}
	return "absent"
}

// Handle is the detector chosen at startup. It is immutable and safe to
// share between goroutines.
type Handle struct {
	detector Detector
	state    ModelState
}

func NewHandle(d Detector, state ModelState) *Handle {
	return &Handle{detector: d, state: state}
}

func (h *Handle) Detector() Detector { return h.detector }

func (h *Handle) State() ModelState { return h.state }

func (h *Handle) Detect(ctx context.Context, img image.Image) ([]Region, error) {
	return h.detector.Detect(ctx, img)
}

// Options configures Setup.
type Options struct {
	Variant   string
	Languages []string
	Log       zerolog.Logger
	// NewRecognizer loads the learned model. Defaults to the Tesseract engine.
	NewRecognizer func(languages ...string) (Recognizer, error)
}

// Setup picks the detector once. A recognizer that fails to load degrades
// the handle to the heuristic detector instead of failing.
func Setup(opts Options) (*Handle, error) {
	switch opts.Variant {
	case VariantHeuristic, "contrast":
		return NewHandle(NewHeuristicDetector(), ModelAbsent), nil
	case VariantModel, VariantAuto, "":
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", opts.Variant)
	}

	newRec := opts.NewRecognizer
	if newRec == nil {
		newRec = newTesseract
	}

	rec, err := newRec(opts.Languages...)
	if err != nil {
		opts.Log.Warn().Err(err).Str("variant", opts.Variant).Msg("text model unavailable, using heuristic detector")
		return NewHandle(NewHeuristicDetector(), ModelAbsent), nil
	}

	d, err := NewDetector(opts.Variant, rec, opts.Log)
	if err != nil {
		return nil, err
	}
	opts.Log.Info().Str("detector", d.Name()).Msg("text model loaded")
	return NewHandle(d, ModelPresent), nil
}

var (
	initOnce   sync.Once
	initHandle *Handle
	initErr    error
)

// Init runs Setup on the first call and returns the same handle afterwards.
func Init(opts Options) (*Handle, error) {
	initOnce.Do(func() {
		initHandle, initErr = Setup(opts)
	})
	return initHandle, initErr
}

func newTesseract(languages ...string) (Recognizer, error) {
	t, err := ocr.New(languages...)
	if err != nil {
		return nil, err
	}
	return t, nil
}
