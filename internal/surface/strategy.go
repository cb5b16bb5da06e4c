package surface

import (
	"fmt"

	"github.com/gogpu/gg"
)

// Strategy adapts a drawing context to a new framebuffer size.
type Strategy interface {
	Name() string
	// Adapt returns the context to draw with at width x height. It may
	// return dc itself or a replacement; a replaced dc is closed.
	Adapt(dc *gg.Context, width, height int) (*gg.Context, error)
}

// Resize reallocates the pixel buffer of the existing context.
type Resize struct{}

func (Resize) Name() string { return "resize" }

func (Resize) Adapt(dc *gg.Context, width, height int) (*gg.Context, error) {
	if err := dc.Resize(width, height); err != nil {
		return nil, err
	}
	return dc, nil
}

// Recreate closes the context and creates a new one. It suits targets whose
// surfaces cannot change size once allocated.
type Recreate struct{}

func (Recreate) Name() string { return "recreate" }

func (Recreate) Adapt(dc *gg.Context, width, height int) (*gg.Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid dimensions: width=%d, height=%d", width, height)
	}
	if dc != nil {
		_ = dc.Close()
	}
	return gg.NewContext(width, height), nil
}

// StrategyByName maps "resize" and "recreate" to a Strategy.
func StrategyByName(name string) (Strategy, error) {
	switch name {
	case "resize":
		return Resize{}, nil
	case "recreate":
		return Recreate{}, nil
	default:
		return nil, fmt.Errorf("surface: unknown strategy %q", name)
	}
}
