package source

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/textscrub/internal/raster"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	require.NoError(t, raster.Save(img, path))
}

func TestImageSourceDirectory(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "b.png"), 20, 10)
	writeImage(t, filepath.Join(dir, "a.jpg"), 8, 6)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0644))

	src, err := Open(dir, Options{MaxBytes: 16 << 20})
	require.NoError(t, err)
	defer src.Close()

	require.Equal(t, 2, src.PageCount())
	path, page := src.Origin(0)
	assert.Equal(t, "a.jpg", filepath.Base(path))
	assert.Equal(t, 0, page)

	w, h, err := src.GetPageDimensions(1)
	require.NoError(t, err)
	assert.Equal(t, 20, w)
	assert.Equal(t, 10, h)

	img, err := src.RenderPage(1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 10), img.Bounds())
	assert.Equal(t, uint8(255), img.Pix[3])
}

func TestImageSourceTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	writeImage(t, path, 64, 64)

	src, err := Open(path, Options{MaxBytes: 10})
	require.NoError(t, err)

	_, err = src.RenderPage(0)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestImageSourceRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := Open(dir, Options{})
	assert.Error(t, err, "empty directory")

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0644))
	_, err = Open(txt, Options{})
	assert.Error(t, err, "unsupported extension")

	_, err = Open(filepath.Join(dir, "missing.png"), Options{})
	assert.Error(t, err)
}

func TestPDFSourceMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.pdf"), Options{DPI: 72})
	assert.Error(t, err)
}
