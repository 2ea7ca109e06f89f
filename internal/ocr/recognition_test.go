package ocr

import (
	"image"
	"testing"
)

func TestBounds(t *testing.T) {
	tests := []struct {
		name    string
		polygon []image.Point
		want    image.Rectangle
	}{
		{"empty", nil, image.Rectangle{}},
		{"axis aligned", quad(image.Rect(10, 20, 30, 40)), image.Rect(10, 20, 30, 40)},
		{
			"skewed",
			[]image.Point{{12, 20}, {60, 18}, {62, 35}, {10, 37}},
			image.Rect(10, 18, 62, 37),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Recognition{Polygon: tt.polygon}).Bounds(); got != tt.want {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}
}
