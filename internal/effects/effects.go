package effects

import (
	"fmt"
	"image"
	"strings"

	"github.com/ivlev/textscrub/internal/mask"
	"github.com/ivlev/textscrub/internal/raster"
)

// Effect is a mask-confined transform. Output always has the input's bounds.
type Effect interface {
	Name() string
	Apply(img *image.NRGBA, m *mask.Mask) (*image.NRGBA, error)
}

// Operation selects the transform applied to masked pixels.
type Operation int

const (
	OpRemove Operation = iota
	OpBlur
)

func (o Operation) String() string {
	switch o {
	case OpRemove:
		return "remove"
	case OpBlur:
		return "blur"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// ParseOperation maps "remove" or "blur" to an Operation.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "remove", "removal", "inpaint":
		return OpRemove, nil
	case "blur":
		return OpBlur, nil
	default:
		return 0, fmt.Errorf("unknown operation: %q", s)
	}
}

// New returns the effect for op with default settings.
func New(op Operation) (Effect, error) {
	switch op {
	case OpRemove:
		return NewRemoval(), nil
	case OpBlur:
		return NewBlur(), nil
	default:
		return nil, fmt.Errorf("unknown operation: %v", op)
	}
}

func check(img *image.NRGBA, m *mask.Mask) error {
	if img == nil || img.Bounds().Empty() {
		return fmt.Errorf("%w: empty image", raster.ErrLoad)
	}
	if m == nil || m.Gray == nil {
		return fmt.Errorf("%w: missing mask", raster.ErrLoad)
	}
	if m.Bounds().Size() != img.Bounds().Size() {
		return fmt.Errorf("%w: mask is %v, image is %v", mask.ErrValidation, m.Bounds().Size(), img.Bounds().Size())
	}
	return nil
}
