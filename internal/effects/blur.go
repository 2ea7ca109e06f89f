package effects

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/ivlev/textscrub/internal/mask"
	"github.com/ivlev/textscrub/internal/raster"
	"github.com/ivlev/textscrub/internal/system"
)

// Blur redacts masked pixels with a Gaussian blur. Brush masks blend the
// blurred image in by alpha, so edges feather. Region masks blur each
// rectangle as an isolated crop and paste it back, leaving hard seams.
type Blur struct {
	KernelSize int
}

func NewBlur() *Blur {
	return &Blur{KernelSize: 15}
}

func (b *Blur) Name() string { return "blur" }

// Apply returns img itself when the mask is empty and a new image otherwise.
func (b *Blur) Apply(img *image.NRGBA, m *mask.Mask) (*image.NRGBA, error) {
	if err := check(img, m); err != nil {
		return nil, err
	}
	if m.Empty() {
		return img, nil
	}

	if m.Provenance == mask.Regions && len(m.Rects) == 0 {
		return nil, fmt.Errorf("%w: region mask has pixels but no rectangles", mask.ErrValidation)
	}

	kernel := gaussianKernel(b.KernelSize)
	if m.Provenance == mask.Brush {
		return b.feather(img, m, kernel), nil
	}
	return b.regions(img, m, kernel), nil
}

func (b *Blur) feather(img *image.NRGBA, m *mask.Mask, kernel []float32) *image.NRGBA {
	bounds := img.Bounds()
	blurred := system.GetImage(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	defer system.PutImage(blurred)
	blurInto(blurred, img, bounds, kernel)

	out := raster.Clone(img)
	alpha := m.Alpha()
	w := bounds.Dx()
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < w; x++ {
			a := alpha[y*w+x]
			if a == 0 {
				continue
			}
			o := out.PixOffset(x, y)
			s := blurred.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				v := (1-a)*float32(out.Pix[o+c]) + a*float32(blurred.Pix[s+c])
				out.Pix[o+c] = uint8(v) // truncates
			}
		}
	}
	return out
}

// regions blurs the padded rectangles one after another on the evolving image.
func (b *Blur) regions(img *image.NRGBA, m *mask.Mask, kernel []float32) *image.NRGBA {
	out := raster.Clone(img)
	for _, r := range m.Rects {
		r = r.Sub(m.Bounds().Min).Intersect(out.Bounds())
		if r.Empty() {
			continue
		}

		crop := system.GetImage(image.Rect(0, 0, r.Dx(), r.Dy()))
		blurInto(crop, out, r, kernel)
		draw.Draw(out, r, crop, image.Point{}, draw.Src)
		system.PutImage(crop)
	}
	return out
}

// GaussianBlur blurs the whole image with a size×size kernel whose sigma is
// derived from the size. Borders reflect without repeating the edge pixel.
func GaussianBlur(img *image.NRGBA, size int) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	blurInto(dst, img, b, gaussianKernel(size))
	return dst
}

// gaussianKernel returns normalised weights for an odd size.
func gaussianKernel(size int) []float32 {
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	half := size / 2

	k := make([]float64, size)
	sum := 0.0
	for i := range k {
		x := float64(i - half)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}

	out := make([]float32, size)
	for i := range k {
		out[i] = float32(k[i] / sum)
	}
	return out
}

// blurInto convolves the r part of src with kernel horizontally then
// vertically, treating r as the whole image, and writes it to dst from (0,0).
func blurInto(dst, src *image.NRGBA, r image.Rectangle, kernel []float32) {
	w, h := r.Dx(), r.Dy()
	half := len(kernel) / 2
	tmp := make([]float32, w*h*3)

	for y := 0; y < h; y++ {
		row := src.PixOffset(r.Min.X, r.Min.Y+y)
		for x := 0; x < w; x++ {
			var acc [3]float32
			for k, kv := range kernel {
				i := row + reflect101(x+k-half, w)*4
				acc[0] += kv * float32(src.Pix[i])
				acc[1] += kv * float32(src.Pix[i+1])
				acc[2] += kv * float32(src.Pix[i+2])
			}
			copy(tmp[(y*w+x)*3:], acc[:])
		}
	}

	for y := 0; y < h; y++ {
		o := dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y)
		for x := 0; x < w; x++ {
			var acc [3]float32
			for k, kv := range kernel {
				i := (reflect101(y+k-half, h)*w + x) * 3
				acc[0] += kv * tmp[i]
				acc[1] += kv * tmp[i+1]
				acc[2] += kv * tmp[i+2]
			}
			for c := 0; c < 3; c++ {
				dst.Pix[o+x*4+c] = uint8(min(max(math.Round(float64(acc[c])), 0), 255))
			}
			dst.Pix[o+x*4+3] = 255
		}
	}
}

// reflect101 maps i into [0, n) mirroring about the edge pixels (gfedcb|abcdefgh|gfedcba).
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
