package effects

import (
	"container/heap"
	"image"
	"math"

	"github.com/ivlev/textscrub/internal/mask"
	"github.com/ivlev/textscrub/internal/raster"
)

// Removal fills masked pixels by fast-marching inpainting (Telea 2004):
// pixels are restored from the band inward, each from a weighted average of
// already known neighbours within Radius.
type Removal struct {
	Radius int
}

func NewRemoval() *Removal {
	return &Removal{Radius: 3}
}

func (r *Removal) Name() string { return "remove" }

// Apply returns img itself when the mask is empty and a new image otherwise.
func (r *Removal) Apply(img *image.NRGBA, m *mask.Mask) (*image.NRGBA, error) {
	if err := check(img, m); err != nil {
		return nil, err
	}
	if m.Empty() {
		return img, nil
	}

	out := raster.Clone(img)
	newTelea(out, m.Binary(), max(r.Radius, 1)).run()
	return out, nil
}

const (
	known uint8 = iota
	band
	inside
)

const unreached = 1e6

type telea struct {
	img    *image.NRGBA
	w, h   int
	radius int
	flag   []uint8
	t      []float32
	queue  narrowBand
}

func newTelea(img *image.NRGBA, bin *image.Gray, radius int) *telea {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	tl := &telea{
		img:    img,
		w:      w,
		h:      h,
		radius: radius,
		flag:   make([]uint8, w*h),
		t:      make([]float32, w*h),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if bin.Pix[y*bin.Stride+x] != 0 {
				tl.flag[y*w+x] = inside
				tl.t[y*w+x] = unreached
			}
		}
	}

	// Known pixels next to the hole form the initial band.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if tl.flag[i] != known {
				continue
			}
			if tl.isInside(x-1, y) || tl.isInside(x+1, y) || tl.isInside(x, y-1) || tl.isInside(x, y+1) {
				tl.flag[i] = band
				heap.Push(&tl.queue, bandPixel{t: 0, x: x, y: y})
			}
		}
	}
	return tl
}

func (tl *telea) run() {
	for tl.queue.Len() > 0 {
		p := heap.Pop(&tl.queue).(bandPixel)
		tl.flag[p.y*tl.w+p.x] = known

		for _, n := range [4]image.Point{{X: p.x, Y: p.y - 1}, {X: p.x - 1, Y: p.y}, {X: p.x, Y: p.y + 1}, {X: p.x + 1, Y: p.y}} {
			if !tl.isInside(n.X, n.Y) {
				continue
			}
			i := n.Y*tl.w + n.X

			d := min(
				tl.solve(n.X, n.Y-1, n.X-1, n.Y),
				tl.solve(n.X, n.Y+1, n.X-1, n.Y),
				tl.solve(n.X, n.Y-1, n.X+1, n.Y),
				tl.solve(n.X, n.Y+1, n.X+1, n.Y),
			)
			tl.t[i] = d
			tl.fill(n.X, n.Y)

			tl.flag[i] = band
			heap.Push(&tl.queue, bandPixel{t: d, x: n.X, y: n.Y})
		}
	}
}

// fill restores pixel (x, y) from known neighbours within the radius.
func (tl *telea) fill(x, y int) {
	gx, gy := tl.gradT(x, y)
	tp := tl.t[y*tl.w+x]
	r2 := tl.radius * tl.radius

	var sum [3]float64
	s := 1e-20
	for ky := y - tl.radius; ky <= y+tl.radius; ky++ {
		for kx := x - tl.radius; kx <= x+tl.radius; kx++ {
			if !tl.inBounds(kx, ky) || tl.flag[ky*tl.w+kx] == inside {
				continue
			}
			rx, ry := x-kx, y-ky
			d2 := rx*rx + ry*ry
			if d2 > r2 || d2 == 0 {
				continue
			}

			dst := 1 / (float64(d2) * math.Sqrt(float64(d2)))
			lev := 1 / (1 + math.Abs(float64(tl.t[ky*tl.w+kx]-tp)))
			dir := float64(rx)*gx + float64(ry)*gy
			if math.Abs(dir) <= 0.01 {
				dir = 0.000001
			}
			w := math.Abs(dst * lev * dir)

			for c := 0; c < 3; c++ {
				ix, iy := tl.gradI(kx, ky, c)
				sum[c] += w * (tl.at(kx, ky, c) + ix*float64(rx) + iy*float64(ry))
			}
			s += w
		}
	}

	o := tl.img.PixOffset(tl.img.Rect.Min.X+x, tl.img.Rect.Min.Y+y)
	for c := 0; c < 3; c++ {
		v := math.Round(sum[c] / s)
		tl.img.Pix[o+c] = uint8(min(max(v, 0), 255))
	}
}

// solve returns the arrival time at a pixel from two of its neighbours.
func (tl *telea) solve(x1, y1, x2, y2 int) float32 {
	a, okA := tl.arrival(x1, y1)
	b, okB := tl.arrival(x2, y2)
	switch {
	case okA && okB:
		if d := a - b; d >= 1 || d <= -1 {
			return 1 + min(a, b)
		}
		r := float32(math.Sqrt(float64(2 - (a-b)*(a-b))))
		return (a + b + r) * 0.5
	case okA:
		return 1 + a
	case okB:
		return 1 + b
	default:
		return 1 + min(a, b)
	}
}

// arrival reports the time at (x, y) and whether it is settled. Pixels past
// the border count as settled at time zero.
func (tl *telea) arrival(x, y int) (float32, bool) {
	if !tl.inBounds(x, y) {
		return 0, true
	}
	i := y*tl.w + x
	return tl.t[i], tl.flag[i] != inside
}

func (tl *telea) gradT(x, y int) (float64, float64) {
	return tl.diff(x, y, 1, 0, tl.time), tl.diff(x, y, 0, 1, tl.time)
}

func (tl *telea) gradI(x, y, c int) (float64, float64) {
	value := func(x, y int) float64 { return tl.at(x, y, c) }
	return tl.diff(x, y, 1, 0, value), tl.diff(x, y, 0, 1, value)
}

// diff takes a central difference along (dx, dy) when both neighbours are
// usable and a one-sided difference when only one is.
func (tl *telea) diff(x, y, dx, dy int, v func(x, y int) float64) float64 {
	next := tl.usable(x+dx, y+dy)
	prev := tl.usable(x-dx, y-dy)
	switch {
	case next && prev:
		return (v(x+dx, y+dy) - v(x-dx, y-dy)) * 0.5
	case next:
		return v(x+dx, y+dy) - v(x, y)
	case prev:
		return v(x, y) - v(x-dx, y-dy)
	default:
		return 0
	}
}

func (tl *telea) time(x, y int) float64 { return float64(tl.t[y*tl.w+x]) }

func (tl *telea) at(x, y, c int) float64 {
	return float64(tl.img.Pix[tl.img.PixOffset(tl.img.Rect.Min.X+x, tl.img.Rect.Min.Y+y)+c])
}

func (tl *telea) usable(x, y int) bool {
	return tl.inBounds(x, y) && tl.flag[y*tl.w+x] != inside
}

func (tl *telea) isInside(x, y int) bool {
	return tl.inBounds(x, y) && tl.flag[y*tl.w+x] == inside
}

func (tl *telea) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < tl.w && y < tl.h
}

type bandPixel struct {
	t    float32
	x, y int
}

// narrowBand is a min-heap of band pixels ordered by arrival time.
type narrowBand []bandPixel

func (b narrowBand) Len() int { return len(b) }

func (b narrowBand) Less(i, j int) bool { return b[i].t < b[j].t }

func (b narrowBand) Swap(i, j int) { b[i], b[j] = b[j], b[i] }

func (b *narrowBand) Push(x any) { *b = append(*b, x.(bandPixel)) }

func (b *narrowBand) Pop() any {
	old := *b
	n := len(old)
	p := old[n-1]
	*b = old[:n-1]
	return p
}
