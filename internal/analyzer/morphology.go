package analyzer

import "image"

// gradient returns dilate(g) - erode(g) with a 3×3 rectangle.
func gradient(g *image.Gray) *image.Gray {
	d := dilate(g, 3, 3)
	e := erode(g, 3, 3)
	for i := range d.Pix {
		d.Pix[i] -= e.Pix[i]
	}
	return d
}

// dilate takes the maximum over a kw×kh rectangle anchored at its centre.
// Pixels outside the image are ignored.
func dilate(g *image.Gray, kw, kh int) *image.Gray {
	return morph(g, kw, kh, func(a, b uint8) uint8 { return max(a, b) })
}

// erode takes the minimum over a kw×kh rectangle anchored at its centre.
func erode(g *image.Gray, kw, kh int) *image.Gray {
	return morph(g, kw, kh, func(a, b uint8) uint8 { return min(a, b) })
}

// morph applies a rectangular kernel as a row pass followed by a column pass.
func morph(g *image.Gray, kw, kh int, pick func(a, b uint8) uint8) *image.Gray {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	tmp := image.NewGray(g.Rect)
	out := image.NewGray(g.Rect)

	ax, ay := kw/2, kh/2
	for y := 0; y < h; y++ {
		src := g.Pix[y*g.Stride : y*g.Stride+w]
		dst := tmp.Pix[y*tmp.Stride : y*tmp.Stride+w]
		for x := 0; x < w; x++ {
			lo, hi := max(x-ax, 0), min(x-ax+kw, w)
			v := src[lo]
			for _, s := range src[lo+1 : hi] {
				v = pick(v, s)
			}
			dst[x] = v
		}
	}

	for y := 0; y < h; y++ {
		lo, hi := max(y-ay, 0), min(y-ay+kh, h)
		for x := 0; x < w; x++ {
			v := tmp.Pix[lo*tmp.Stride+x]
			for yy := lo + 1; yy < hi; yy++ {
				v = pick(v, tmp.Pix[yy*tmp.Stride+x])
			}
			out.Pix[y*out.Stride+x] = v
		}
	}
	return out
}

// externalBoxes returns the bounding rectangles of 8-connected foreground
// components that are not nested inside another component. A component is
// outer when it touches the image border or borders background that is
// 4-connected to the border.
func externalBoxes(g *image.Gray) []image.Rectangle {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	fg := func(x, y int) bool { return g.Pix[y*g.Stride+x] > 0 }

	// Background reachable from the border.
	outside := make([]bool, w*h)
	queue := []image.Point{}
	seed := func(x, y int) {
		if !fg(x, y) && !outside[y*w+x] {
			outside[y*w+x] = true
			queue = append(queue, image.Point{X: x, Y: y})
		}
	}
	for x := 0; x < w; x++ {
		seed(x, 0)
		seed(x, h-1)
	}
	for y := 0; y < h; y++ {
		seed(0, y)
		seed(w-1, y)
	}
	for len(queue) > 0 {
		p := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		for _, n := range [4]image.Point{{X: p.X + 1, Y: p.Y}, {X: p.X - 1, Y: p.Y}, {X: p.X, Y: p.Y + 1}, {X: p.X, Y: p.Y - 1}} {
			if n.X >= 0 && n.X < w && n.Y >= 0 && n.Y < h {
				seed(n.X, n.Y)
			}
		}
	}

	visited := make([]bool, w*h)
	boxes := []image.Rectangle{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !fg(x, y) || visited[y*w+x] {
				continue
			}
			box, outer := floodFill(g, visited, outside, x, y)
			if outer {
				boxes = append(boxes, box)
			}
		}
	}
	return boxes
}

// floodFill marks the 8-connected component at (sx, sy) and returns its
// bounding rectangle and whether it is an outer component.
func floodFill(g *image.Gray, visited, outside []bool, sx, sy int) (image.Rectangle, bool) {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	minX, minY, maxX, maxY := sx, sy, sx, sy
	outer := false

	visited[sy*w+sx] = true
	stack := []image.Point{{X: sx, Y: sy}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					outer = true
					continue
				}
				i := ny*w + nx
				if g.Pix[ny*g.Stride+nx] == 0 {
					if (dx == 0 || dy == 0) && outside[i] {
						outer = true
					}
					continue
				}
				if !visited[i] {
					visited[i] = true
					stack = append(stack, image.Point{X: nx, Y: ny})
				}
			}
		}
	}

	return image.Rect(minX, minY, maxX+1, maxY+1), outer
}
