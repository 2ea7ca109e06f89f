package source

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/ivlev/textscrub/internal/raster"
)

// ErrTooLarge is returned for input files above the configured size cap.
var ErrTooLarge = errors.New("input too large")

// Source yields the rasters of one input: image files or the pages of a PDF.
type Source interface {
	PageCount() int
	// Origin names the file behind index and, for PDFs, its 1-based page.
	Origin(index int) (path string, page int)
	GetPageDimensions(index int) (width, height int, err error)
	RenderPage(index int) (*image.NRGBA, error)
	Close() error
}

// Options bound what a source will load.
type Options struct {
	MaxBytes int64 // per file, 0 disables the check
	DPI      int   // PDF render resolution
}

// Open picks a PDF or image source for path.
func Open(path string, opts Options) (Source, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return NewFitzPDFSource(path, opts)
	}
	return NewImageSource(path, opts)
}

type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  float64
}

func NewFitzPDFSource(path string, opts Options) (*FitzPDFSource, error) {
	if err := checkSize(path, opts.MaxBytes); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrLoad, err)
	}
	dpi := float64(opts.DPI)
	if dpi <= 0 {
		dpi = 150
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) PageCount() int {
	return f.doc.NumPage()
}

func (f *FitzPDFSource) Origin(index int) (string, int) {
	return f.path, index + 1
}

func (f *FitzPDFSource) GetPageDimensions(index int) (int, int, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	// Bound is in points (1/72 inch)
	scale := f.dpi / 72
	return int(float64(rect.Dx()) * scale), int(float64(rect.Dy()) * scale), nil
}

// RenderPage opens its own document so pages can render concurrently.
func (f *FitzPDFSource) RenderPage(index int) (*image.NRGBA, error) {
	workerDoc, err := fitz.New(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", raster.ErrLoad, err)
	}
	defer workerDoc.Close()

	img, err := workerDoc.ImageDPI(index, f.dpi)
	if err != nil {
		return nil, fmt.Errorf("%w: render page %d: %v", raster.ErrLoad, index+1, err)
	}
	return raster.Opaque(img), nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
