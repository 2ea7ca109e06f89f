package source

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"

	"github.com/ivlev/textscrub/internal/raster"
)

type ImageSource struct {
	paths    []string
	maxBytes int64
}

// NewImageSource accepts one image file or a directory of them.
func NewImageSource(path string, opts Options) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && raster.Supported(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("no images in %s", path)
		}
	} else {
		if !raster.Supported(path) {
			return nil, fmt.Errorf("unsupported file type %q (accepted: %v)", filepath.Ext(path), raster.Extensions)
		}
		paths = []string{path}
	}

	return &ImageSource{paths: paths, maxBytes: opts.MaxBytes}, nil
}

func (s *ImageSource) PageCount() int {
	return len(s.paths)
}

func (s *ImageSource) Origin(index int) (string, int) {
	return s.paths[index], 0
}

func (s *ImageSource) GetPageDimensions(index int) (int, int, error) {
	f, err := os.Open(s.paths[index])
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", raster.ErrLoad, err)
	}
	return cfg.Width, cfg.Height, nil
}

func (s *ImageSource) RenderPage(index int) (*image.NRGBA, error) {
	if err := checkSize(s.paths[index], s.maxBytes); err != nil {
		return nil, err
	}
	return raster.Open(s.paths[index])
}

func (s *ImageSource) Close() error {
	return nil
}

func checkSize(path string, maxBytes int64) error {
	if maxBytes <= 0 {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", raster.ErrLoad, err)
	}
	if fi.Size() > maxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, filepath.Base(path), fi.Size(), maxBytes)
	}
	return nil
}
