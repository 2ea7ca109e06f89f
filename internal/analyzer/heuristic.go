package analyzer

import (
	"context"
	"errors"
	"image"

	"golang.org/x/image/draw"

	"github.com/ivlev/textscrub/internal/raster"
)

// FrameSize is the side of the square analysis frame.
const FrameSize = 320

var errEmptyImage = errors.New("empty image")

// HeuristicDetector finds text-like blocks with a morphological gradient,
// Otsu binarisation and a horizontal closing that joins glyphs into lines.
// It needs no model and is always available.
type HeuristicDetector struct {
	MinWidth    int     // boxes must be wider than this, in frame pixels
	MinHeight   int     // boxes must be taller than this, in frame pixels
	MaxCoverage float64 // boxes must span less than this share of the frame
	CloseWidth  int
	Confidence  float64
}

// NewHeuristicDetector creates a heuristic detector with default settings
func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{
		MinWidth:    15,
		MinHeight:   8,
		MaxCoverage: 0.8,
		CloseWidth:  9,
		Confidence:  0.7,
	}
}

func (d *HeuristicDetector) Name() string { return "heuristic" }

// Detect analyses a FrameSize×FrameSize copy of img and maps the surviving
// boxes back to img's coordinates.
func (d *HeuristicDetector) Detect(ctx context.Context, img image.Image) ([]Region, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errEmptyImage
	}
	b := img.Bounds()
	rW := float64(b.Dx()) / FrameSize
	rH := float64(b.Dy()) / FrameSize

	// Step 1: analysis frame
	frame := toFrame(img)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 2: gradient highlights stroke edges
	grad := gradient(frame)

	// Step 3: binarise
	threshold(grad, otsu(grad))

	// Step 4: join neighbouring glyphs
	closed := erode(dilate(grad, d.CloseWidth, 1), d.CloseWidth, 1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Step 5: outer contours, filtered by size
	maxSide := d.MaxCoverage * FrameSize
	regions := []Region{}
	for _, r := range externalBoxes(closed) {
		w, h := r.Dx(), r.Dy()
		if w <= d.MinWidth || h <= d.MinHeight || float64(w) >= maxSide || float64(h) >= maxSide {
			continue
		}

		x := int(float64(r.Min.X) * rW)
		y := int(float64(r.Min.Y) * rH)
		box := image.Rect(x, y, x+int(float64(w)*rW), y+int(float64(h)*rH)).Add(b.Min)
		regions = append(regions, Region{BBox: box, Confidence: d.Confidence})
	}

	return regions, nil
}

func toFrame(img image.Image) *image.Gray {
	if img.Bounds().Dx() == FrameSize && img.Bounds().Dy() == FrameSize {
		return raster.Gray(img)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, FrameSize, FrameSize))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return raster.Gray(dst)
}

// otsu returns the threshold maximising between-class variance.
func otsu(g *image.Gray) uint8 {
	var hist [256]int
	for _, v := range g.Pix {
		hist[v]++
	}

	const eps = 1.1920929e-07
	n := float64(len(g.Pix))
	mu := 0.0
	for i, c := range hist {
		mu += float64(i) * float64(c) / n
	}

	var mu1, q1, maxSigma float64
	best := 0
	for i, c := range hist {
		p := float64(c) / n
		mu1 *= q1
		q1 += p
		q2 := 1 - q1

		if min(q1, q2) < eps || max(q1, q2) > 1-eps {
			continue
		}

		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma = sigma
			best = i
		}
	}
	return uint8(best)
}

// threshold sets values above t to 255 and the rest to 0, in place.
func threshold(g *image.Gray, t uint8) {
	for i, v := range g.Pix {
		if v > t {
			g.Pix[i] = 255
		} else {
			g.Pix[i] = 0
		}
	}
}
