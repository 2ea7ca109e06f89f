// Package raster holds the in-memory image model shared by the detector,
// mask builder and transforms: an opaque 8-bit RGB grid stored as *image.NRGBA.
package raster

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrLoad is returned when an image or brush selection cannot be decoded.
var ErrLoad = errors.New("load failure")

// Extensions accepted as raster input.
var Extensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// Decode reads an encoded image and returns it as an opaque RGB raster.
func Decode(r io.Reader) (*image.NRGBA, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode image: %v", ErrLoad, err)
	}
	return Opaque(img), nil
}

// Open decodes the image stored at path.
func Open(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()

	return Decode(f)
}

// DecodeGray reads an encoded single-channel selection. Colour input is
// reduced to luma.
func DecodeGray(r io.Reader) (*image.Gray, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: decode selection: %v", ErrLoad, err)
	}
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g, nil
	}
	return Gray(img), nil
}

// OpenGray decodes the single-channel selection stored at path.
func OpenGray(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer f.Close()

	return DecodeGray(f)
}

// Opaque copies img into a zero-origin NRGBA with every alpha set to 255.
func Opaque(img image.Image) *image.NRGBA {
	dst := imaging.Clone(img)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 255
	}
	return dst
}

// Clone returns an independent copy of img.
func Clone(img *image.NRGBA) *image.NRGBA {
	return imaging.Clone(img)
}

// Gray converts img to 8-bit luma (0.299R + 0.587G + 0.114B).
func Gray(img image.Image) *image.Gray {
	src := imaging.Clone(img)
	b := src.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := y * src.Stride
		for x := 0; x < b.Dx(); x++ {
			i := row + x*4
			v := (299*uint32(src.Pix[i]) + 587*uint32(src.Pix[i+1]) + 114*uint32(src.Pix[i+2]) + 500) / 1000
			gray.Pix[y*gray.Stride+x] = uint8(v)
		}
	}
	return gray
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format imaging.Format) error {
	return imaging.Encode(w, img, format)
}

// Save writes img to path, choosing the encoder from the extension. Formats
// without an encoder are written as PNG.
func Save(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		format = imaging.PNG
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// OutputExt maps an input file name to the extension its processed output is
// written with.
func OutputExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if _, err := imaging.FormatFromExtension(ext); err != nil {
		return ".png"
	}
	return ext
}

// Supported reports whether name carries an accepted raster extension.
func Supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
