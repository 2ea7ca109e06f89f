package engine

import (
	"context"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ivlev/textscrub/internal/analyzer"
	"github.com/ivlev/textscrub/internal/effects"
	"github.com/ivlev/textscrub/internal/mask"
	"github.com/ivlev/textscrub/internal/raster"
)

// Pipeline связывает детектор, построение маски и эффекты.
// Безопасен для параллельного использования.
type Pipeline struct {
	handle  *analyzer.Handle
	effects map[effects.Operation]effects.Effect
	log     zerolog.Logger
}

func NewPipeline(h *analyzer.Handle, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		handle: h,
		effects: map[effects.Operation]effects.Effect{
			effects.OpRemove: effects.NewRemoval(),
			effects.OpBlur:   effects.NewBlur(),
		},
		log: log,
	}
}

// Handle returns the detector handle the pipeline was built with.
func (p *Pipeline) Handle() *analyzer.Handle { return p.handle }

// Detect never fails: detector errors are logged and yield no regions.
func (p *Pipeline) Detect(ctx context.Context, img image.Image) []analyzer.Region {
	regions, err := p.handle.Detect(ctx, img)
	if err != nil {
		p.log.Warn().Err(err).Str("detector", p.handle.Detector().Name()).Msg("text detection failed")
		return []analyzer.Region{}
	}
	if regions == nil {
		regions = []analyzer.Region{}
	}
	return regions
}

// RemoveText inpaints detected text, or the brush selection when one is given.
func (p *Pipeline) RemoveText(ctx context.Context, img *image.NRGBA, brush *image.Gray) (*image.NRGBA, error) {
	return p.Apply(ctx, effects.OpRemove, img, brush)
}

// BlurText blurs detected text, or the brush selection when one is given.
func (p *Pipeline) BlurText(ctx context.Context, img *image.NRGBA, brush *image.Gray) (*image.NRGBA, error) {
	return p.Apply(ctx, effects.OpBlur, img, brush)
}

// Apply builds the mask from brush, or from detection when brush is nil,
// and runs op over it. Detection is skipped when a brush is supplied.
func (p *Pipeline) Apply(ctx context.Context, op effects.Operation, img *image.NRGBA, brush *image.Gray) (*image.NRGBA, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	if brush != nil {
		m, err := mask.FromBrush(img.Bounds(), brush)
		if err != nil {
			return nil, err
		}
		return p.ApplyMask(op, img, m)
	}
	return p.ApplyRegions(op, img, p.Detect(ctx, img))
}

// ApplyRegions runs op over regions the caller already holds.
func (p *Pipeline) ApplyRegions(op effects.Operation, img *image.NRGBA, regions []analyzer.Region) (*image.NRGBA, error) {
	if err := checkImage(img); err != nil {
		return nil, err
	}
	return p.ApplyMask(op, img, mask.FromRegions(img.Bounds(), analyzer.Boxes(regions)))
}

// ApplyMask runs op over a prepared mask.
func (p *Pipeline) ApplyMask(op effects.Operation, img *image.NRGBA, m *mask.Mask) (*image.NRGBA, error) {
	eff, ok := p.effects[op]
	if !ok {
		return nil, fmt.Errorf("unknown operation: %v", op)
	}
	out, err := eff.Apply(img, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", eff.Name(), err)
	}
	return out, nil
}

func checkImage(img *image.NRGBA) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: empty image", raster.ErrLoad)
	}
	return nil
}
