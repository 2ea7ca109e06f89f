package mask

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRegionsPadsBox(t *testing.T) {
	bounds := image.Rect(0, 0, 400, 300)
	m := FromRegions(bounds, []image.Rectangle{image.Rect(50, 50, 150, 70)})

	require.Equal(t, bounds, m.Bounds())
	require.Len(t, m.Rects, 1)
	assert.Equal(t, image.Rect(45, 45, 155, 75), m.Rects[0])
	assert.Equal(t, Regions, m.Provenance)

	for y := 0; y < 300; y++ {
		for x := 0; x < 400; x++ {
			inside := x >= 45 && x <= 155 && y >= 45 && y <= 75
			v := m.GrayAt(x, y).Y
			if inside && v != 255 {
				t.Fatalf("pixel (%d,%d) = %d, want 255", x, y, v)
			}
			if !inside && v != 0 {
				t.Fatalf("pixel (%d,%d) = %d, want 0", x, y, v)
			}
		}
	}
}

func TestPadClampsToBounds(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)
	tests := []struct {
		name string
		box  image.Rectangle
		want image.Rectangle
	}{
		{"interior", image.Rect(20, 20, 40, 30), image.Rect(15, 15, 45, 35)},
		{"top-left corner", image.Rect(0, 2, 10, 10), image.Rect(0, 0, 15, 15)},
		{"bottom-right corner", image.Rect(90, 70, 100, 80), image.Rect(85, 65, 100, 80)},
		{"outside", image.Rect(-30, -30, -20, -20), image.Rect(0, 0, 0, 0)},
		{"past right edge", image.Rect(200, 10, 220, 20), image.Rect(100, 5, 100, 25)},
		{"past bottom edge", image.Rect(10, 120, 30, 140), image.Rect(5, 80, 35, 80)},
		{"straddles right edge", image.Rect(97, 10, 130, 20), image.Rect(92, 5, 100, 25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pad(tt.box, bounds)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.In(bounds) || got.Empty(), "%v not within %v", got, bounds)
			assert.True(t, got.Min.X >= 0 && got.Min.Y >= 0 && got.Max.X <= 100 && got.Max.Y <= 80)
			assert.True(t, got.Min.X <= 100 && got.Min.Y <= 80)
		})
	}
}

func TestFromRegionsEdgeFillIsClipped(t *testing.T) {
	bounds := image.Rect(0, 0, 20, 20)
	m := FromRegions(bounds, []image.Rectangle{image.Rect(10, 10, 20, 20)})

	assert.Equal(t, image.Rect(5, 5, 20, 20), m.Rects[0])
	assert.Equal(t, uint8(255), m.GrayAt(19, 19).Y)
	assert.Equal(t, uint8(0), m.GrayAt(4, 4).Y)
}

func TestFromRegionsSkipsBoxesOutsideImage(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 80)
	m := FromRegions(bounds, []image.Rectangle{
		image.Rect(200, 10, 220, 20),
		image.Rect(10, 120, 30, 140),
		image.Rect(-30, -30, -20, -20),
	})

	require.Len(t, m.Rects, 3)
	for _, r := range m.Rects {
		assert.True(t, r.Min.In(bounds.Inset(-1)), "rect %v starts outside %v", r, bounds)
		assert.True(t, r.Empty())
	}
	assert.True(t, m.Empty())
}

func TestFromRegionsEmpty(t *testing.T) {
	m := FromRegions(image.Rect(0, 0, 10, 10), nil)
	assert.True(t, m.Empty())
	assert.Empty(t, m.Rects)
}

func TestFromBrushResizes(t *testing.T) {
	sel := image.NewGray(image.Rect(0, 0, 50, 40))
	for i := range sel.Pix {
		sel.Pix[i] = 200
	}

	m, err := FromBrush(image.Rect(0, 0, 100, 80), sel)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 80), m.Bounds())
	assert.Equal(t, Brush, m.Provenance)
	assert.Equal(t, uint8(200), m.GrayAt(50, 40).Y)
}

func TestFromBrushKeepsRawValues(t *testing.T) {
	sel := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(sel.Pix, []uint8{0, 100, 128, 255})

	m, err := FromBrush(sel.Bounds(), sel)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 100, 128, 255}, m.Pix)
	assert.Equal(t, []uint8{0, 0, 255, 255}, m.Binary().Pix)

	alpha := m.Alpha()
	assert.InDelta(t, 0.0, alpha[0], 1e-6)
	assert.InDelta(t, 100.0/255, alpha[1], 1e-6)
	assert.InDelta(t, 1.0, alpha[3], 1e-6)
}

func TestFromBrushRejectsEmpty(t *testing.T) {
	_, err := FromBrush(image.Rect(0, 0, 10, 10), nil)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = FromBrush(image.Rect(0, 0, 10, 10), image.NewGray(image.Rectangle{}))
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestBinaryKeepsStrictMask(t *testing.T) {
	m := FromRegions(image.Rect(0, 0, 30, 30), []image.Rectangle{image.Rect(10, 10, 12, 12)})
	assert.Same(t, m.Gray, m.Binary())
}
