// Package mask builds single-channel masks sized to a target image, either
// from detected text boxes or from an externally drawn brush selection.
package mask

import (
	"errors"
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

const (
	// Padding grows every detected box on all sides before it is filled.
	Padding = 5
	// Threshold splits a grey selection into binary: values above it become 255.
	Threshold = 127
)

// ErrValidation is returned for mask content that cannot be reconciled with
// the target image.
var ErrValidation = errors.New("validation failure")

// Provenance records where a mask came from, which decides how consumers read it.
type Provenance int

const (
	// Regions masks are binary and carry the rectangles they were drawn from.
	Regions Provenance = iota
	// Brush masks keep raw grey levels: binary for removal, alpha for blur.
	Brush
)

func (p Provenance) String() string {
	if p == Brush {
		return "brush"
	}
	return "regions"
}

// Mask is a single-channel grid with the target image's dimensions.
type Mask struct {
	*image.Gray
	Provenance Provenance
	// Rects holds the padded, clamped boxes of a Regions mask.
	Rects []image.Rectangle
}

// Pad expands box by Padding and clamps it to bounds.
func Pad(box, bounds image.Rectangle) image.Rectangle {
	clampX := func(v int) int { return min(max(v, bounds.Min.X), bounds.Max.X) }
	clampY := func(v int) int { return min(max(v, bounds.Min.Y), bounds.Max.Y) }

	r := image.Rectangle{
		Min: image.Pt(clampX(box.Min.X-Padding), clampY(box.Min.Y-Padding)),
		Max: image.Pt(clampX(box.Max.X+Padding), clampY(box.Max.Y+Padding)),
	}
	r.Max.X = max(r.Max.X, r.Min.X)
	r.Max.Y = max(r.Max.Y, r.Min.Y)
	return r
}

// FromRegions allocates a zero mask for bounds and fills every padded box
// with 255. The fill includes the far corner, the way a filled rectangle
// primitive draws, and is clipped to the image.
func FromRegions(bounds image.Rectangle, boxes []image.Rectangle) *Mask {
	m := &Mask{Gray: image.NewGray(bounds), Provenance: Regions}
	for _, box := range boxes {
		r := Pad(box, bounds)
		m.Rects = append(m.Rects, r)
		if r.Empty() {
			// box lies wholly outside the image
			continue
		}

		fill := image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1).Intersect(bounds)
		for y := fill.Min.Y; y < fill.Max.Y; y++ {
			row := m.PixOffset(fill.Min.X, y)
			for i := 0; i < fill.Dx(); i++ {
				m.Pix[row+i] = 255
			}
		}
	}
	return m
}

// FromBrush fits a brush selection to bounds, resizing when the dimensions
// differ. Raw values are kept so callers can pick Binary or Alpha.
func FromBrush(bounds image.Rectangle, selection *image.Gray) (*Mask, error) {
	if selection == nil || selection.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty brush selection", ErrValidation)
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty target image", ErrValidation)
	}

	var src image.Image = selection
	if selection.Bounds().Size() != bounds.Size() {
		src = resize.Resize(uint(bounds.Dx()), uint(bounds.Dy()), selection, resize.Bilinear)
	}
	if src.Bounds().Size() != bounds.Size() {
		return nil, fmt.Errorf("%w: selection is %v after resize, want %v", ErrValidation, src.Bounds().Size(), bounds.Size())
	}

	out := image.NewGray(bounds)
	sb := src.Bounds()
	if g, ok := src.(*image.Gray); ok {
		for y := 0; y < bounds.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+bounds.Dx()], g.Pix[g.PixOffset(sb.Min.X, sb.Min.Y+y):])
		}
	} else {
		for y := 0; y < bounds.Dy(); y++ {
			for x := 0; x < bounds.Dx(); x++ {
				r, _, _, _ := src.At(sb.Min.X+x, sb.Min.Y+y).RGBA()
				out.Pix[y*out.Stride+x] = uint8(r >> 8)
			}
		}
	}
	return &Mask{Gray: out, Provenance: Brush}, nil
}

// Empty reports whether every mask value is zero.
func (m *Mask) Empty() bool {
	return m == nil || m.Gray == nil || IsZero(m.Gray)
}

// Binary returns the mask as {0,255}, thresholding at Threshold unless it
// already is strictly binary.
func (m *Mask) Binary() *image.Gray {
	if isBinary(m.Gray) {
		return m.Gray
	}
	out := image.NewGray(m.Bounds())
	for i, v := range m.Pix {
		if v > Threshold {
			out.Pix[i] = 255
		}
	}
	return out
}

// Alpha returns the mask normalised to [0,1], row-major over its bounds.
func (m *Mask) Alpha() []float32 {
	b := m.Bounds()
	alpha := make([]float32, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := m.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < b.Dx(); x++ {
			alpha[y*b.Dx()+x] = float32(m.Pix[row+x]) / 255
		}
	}
	return alpha
}

// IsZero reports whether g holds only zeros.
func IsZero(g *image.Gray) bool {
	for _, v := range g.Pix {
		if v != 0 {
			return false
		}
	}
	return true
}

func isBinary(g *image.Gray) bool {
	for _, v := range g.Pix {
		if v != 0 && v != 255 {
			return false
		}
	}
	return true
}
