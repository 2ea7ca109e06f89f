package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/textscrub/internal/analyzer"
	"github.com/ivlev/textscrub/internal/effects"
	"github.com/ivlev/textscrub/internal/raster"
	"github.com/ivlev/textscrub/internal/report"
	"github.com/ivlev/textscrub/internal/source"
	"github.com/ivlev/textscrub/internal/system"
)

// Mode selects what a batch does with each raster.
type Mode int

const (
	// ModeTransform writes a processed copy of every raster.
	ModeTransform Mode = iota
	// ModeDetect only records regions.
	ModeDetect
)

// bytesPerPixel approximates the working set of one transform: the input,
// its clone, a pooled blur buffer and the float row pass.
const bytesPerPixel = 4 + 4 + 4 + 12

// Batch processes every raster of a source concurrently.
type Batch struct {
	Pipeline *Pipeline
	Source   source.Source
	Mode     Mode
	Op       effects.Operation
	// Brush replaces detection for every raster when set.
	Brush *image.Gray
	// Saved supplies regions per raster instead of running detection.
	Saved     *report.Report
	OutputDir string
	Workers   int
	Log       zerolog.Logger
}

// Result describes one processed raster.
type Result struct {
	Input   string
	Page    int
	Output  string
	Bounds  image.Rectangle
	Regions []analyzer.Region
	Err     error
}

// Run processes all rasters and returns a report of the regions used.
// Failed rasters are logged and skipped; their errors are joined into the
// returned error alongside a complete report of the rest.
func (b *Batch) Run(ctx context.Context) (*report.Report, []Result, error) {
	pageCount := b.Source.PageCount()
	if pageCount == 0 {
		return nil, nil, fmt.Errorf("source has no images")
	}

	if b.Mode == ModeTransform {
		if err := os.MkdirAll(b.OutputDir, 0755); err != nil {
			return nil, nil, err
		}
	}

	workers := system.MaxWorkers(b.Workers, b.estimateBytes())
	workers = min(workers, pageCount)
	b.Log.Info().Int("images", pageCount).Int("workers", workers).Str("op", b.describe()).Msg("batch started")

	startTime := time.Now()
	results := make([]Result, pageCount)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < pageCount; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = b.process(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, results, err
	}

	rep := report.New(b.Pipeline.Handle().Detector().Name())
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", label(r.Input, r.Page), r.Err))
			continue
		}
		rep.Add(r.Input, r.Page, r.Bounds, r.Regions)
	}

	b.Log.Info().Int("ok", len(rep.Images)).Int("failed", len(errs)).Dur("elapsed", time.Since(startTime)).Msg("batch finished")
	return rep, results, errors.Join(errs...)
}

func (b *Batch) process(ctx context.Context, i int) Result {
	start := time.Now()
	path, page := b.Source.Origin(i)
	res := Result{Input: path, Page: page}
	log := b.Log.With().Str("input", label(path, page)).Logger()

	img, err := b.Source.RenderPage(i)
	if err != nil {
		log.Error().Err(err).Msg("could not load image")
		res.Err = err
		return res
	}
	res.Bounds = img.Bounds()

	var out *image.NRGBA
	switch {
	case b.Brush != nil && b.Mode == ModeTransform:
		out, err = b.Pipeline.Apply(ctx, b.Op, img, b.Brush)
	default:
		res.Regions = b.regions(ctx, img, path, page)
		if b.Mode == ModeTransform {
			out, err = b.Pipeline.ApplyRegions(b.Op, img, res.Regions)
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("transform failed")
		res.Err = err
		return res
	}

	if out != nil {
		res.Output = filepath.Join(b.OutputDir, OutputName(path, page))
		if err := raster.Save(out, res.Output); err != nil {
			log.Error().Err(err).Msg("could not save result")
			res.Err = err
			return res
		}
	}

	log.Debug().Int("regions", len(res.Regions)).Str("output", res.Output).Dur("elapsed", time.Since(start)).Msg("image done")
	return res
}

func (b *Batch) regions(ctx context.Context, img *image.NRGBA, path string, page int) []analyzer.Region {
	if b.Saved != nil {
		if entry, ok := b.Saved.Lookup(path, page); ok {
			return entry.AnalyzerRegions()
		}
		b.Log.Warn().Str("input", label(path, page)).Msg("no saved regions, detecting")
	}
	return b.Pipeline.Detect(ctx, img)
}

func (b *Batch) estimateBytes() uint64 {
	w, h, err := b.Source.GetPageDimensions(0)
	if err != nil || w <= 0 || h <= 0 {
		return 0
	}
	return uint64(w) * uint64(h) * bytesPerPixel
}

func (b *Batch) describe() string {
	if b.Mode == ModeDetect {
		return "detect"
	}
	return b.Op.String()
}

// OutputName returns processed_<name>_<ksuid>.<ext> for an input. PDF pages
// are written as PNG with the page number in the name.
func OutputName(input string, page int) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := raster.OutputExt(base)
	if page > 0 {
		stem = fmt.Sprintf("%s_p%d", stem, page)
		ext = ".png"
	}
	return fmt.Sprintf("processed_%s_%s%s", stem, ksuid.New().String(), ext)
}

func label(path string, page int) string {
	if page > 0 {
		return fmt.Sprintf("%s#%d", filepath.Base(path), page)
	}
	return filepath.Base(path)
}
