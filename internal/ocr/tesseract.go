//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes text lines with a Tesseract client created per call.
type Tesseract struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// New checks that the requested languages load and returns a recognizer.
func New(languages ...string) (*Tesseract, error) {
	if len(languages) == 0 {
		languages = DefaultLanguages
	}
	t := &Tesseract{languages: languages, clientFactory: gosseract.NewClient}

	c := t.clientFactory()
	defer c.Close()
	if err := c.SetLanguage(languages...); err != nil {
		return nil, fmt.Errorf("set languages %s: %w", strings.Join(languages, "+"), err)
	}
	return t, nil
}

func (t *Tesseract) Name() string { return "tesseract" }

// Recognize returns every text line Tesseract finds in img.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) ([]Recognition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	c := t.clientFactory()
	defer c.Close()
	if err := c.SetLanguage(t.languages...); err != nil {
		return nil, fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	offset := img.Bounds().Min
	out := make([]Recognition, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, Recognition{
			Polygon:    quad(b.Box.Add(offset)),
			Text:       strings.TrimSpace(b.Word),
			Confidence: b.Confidence / 100.0,
		})
	}
	return out, nil
}
