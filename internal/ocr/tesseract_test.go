//go:build ocr

package ocr

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"os/exec"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

func TestTesseractFindsLine(t *testing.T) {
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed")
	}

	rec, err := New("eng")
	if err != nil {
		t.Skipf("tesseract languages unavailable: %v", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, 320, 60))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Black),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(20, 35),
	}
	d.DrawString("HELLO WORLD 2024")

	got, err := rec.Recognize(context.Background(), img)
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	for _, r := range got {
		if r.Confidence < 0 || r.Confidence > 1 {
			t.Errorf("confidence %v out of range", r.Confidence)
		}
		if len(r.Polygon) != 4 {
			t.Errorf("polygon has %d points, want 4", len(r.Polygon))
		}
	}
	t.Logf("recognized %d lines", len(got))
}
