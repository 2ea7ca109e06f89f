package analyzer

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Detector variants accepted by NewDetector.
const (
	VariantAuto      = "auto"
	VariantModel     = "model"
	VariantHeuristic = "heuristic"
)

// NewDetector creates a detector based on the specified variant. rec may be
// nil, in which case "auto" resolves to the heuristic detector.
func NewDetector(variant string, rec Recognizer, log zerolog.Logger) (Detector, error) {
	switch variant {
	case VariantHeuristic, "contrast":
		return NewHeuristicDetector(), nil
	case VariantModel:
		if rec == nil {
			return nil, fmt.Errorf("model detector requires a recognizer")
		}
		return NewModelDetector(rec), nil
	case VariantAuto, "":
		if rec == nil {
			return NewHeuristicDetector(), nil
		}
		return NewFallback(log, NewModelDetector(rec), NewHeuristicDetector()), nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
