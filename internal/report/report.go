// Package report stores detected text regions as YAML so a detection pass
// can be reviewed, edited and fed back as a mask source.
package report

import (
	"image"
	"path/filepath"

	"github.com/ivlev/textscrub/internal/analyzer"
)

// Version of the report layout.
const Version = "1.0"

// Report lists the regions found in one run
type Report struct {
	Version  string  `yaml:"version"`
	Detector string  `yaml:"detector"`
	Images   []Entry `yaml:"images"`
}

// Entry is one processed raster: a file, or a page of a PDF
type Entry struct {
	Input   string   `yaml:"input"`
	Page    int      `yaml:"page,omitempty"` // 1-based, PDF input only
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Regions []Region `yaml:"regions"`
}

// Region is a text box as x_min, y_min, x_max, y_max
type Region struct {
	BBox       [4]int  `yaml:"bbox,flow"`
	Text       string  `yaml:"text,omitempty"`
	Confidence float64 `yaml:"confidence"`
}

// New creates an empty report for the named detector
func New(detector string) *Report {
	return &Report{Version: Version, Detector: detector}
}

// Add appends an entry built from detector output.
func (r *Report) Add(input string, page int, bounds image.Rectangle, regions []analyzer.Region) {
	r.Images = append(r.Images, Entry{
		Input:   input,
		Page:    page,
		Width:   bounds.Dx(),
		Height:  bounds.Dy(),
		Regions: FromRegions(regions),
	})
}

// Lookup finds the entry for input and page. Inputs match by base name so
// a report stays usable after files move.
func (r *Report) Lookup(input string, page int) (Entry, bool) {
	base := filepath.Base(input)
	for _, e := range r.Images {
		if e.Page == page && (e.Input == input || filepath.Base(e.Input) == base) {
			return e, true
		}
	}
	return Entry{}, false
}

// FromRegions converts detector output for storage.
func FromRegions(regions []analyzer.Region) []Region {
	out := make([]Region, 0, len(regions))
	for _, r := range regions {
		out = append(out, Region{
			BBox:       [4]int{r.BBox.Min.X, r.BBox.Min.Y, r.BBox.Max.X, r.BBox.Max.Y},
			Text:       r.Text,
			Confidence: r.Confidence,
		})
	}
	return out
}

// AnalyzerRegions converts stored regions back to detector output.
func (e Entry) AnalyzerRegions() []analyzer.Region {
	out := make([]analyzer.Region, 0, len(e.Regions))
	for _, r := range e.Regions {
		out = append(out, analyzer.Region{
			BBox:       image.Rect(r.BBox[0], r.BBox[1], r.BBox[2], r.BBox[3]),
			Text:       r.Text,
			Confidence: r.Confidence,
		})
	}
	return out
}
