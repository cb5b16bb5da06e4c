// Package color decodes packed integer colors into normalized channels.
package color

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

const (
	// MaxRGB is the largest value read as 0xRRGGBB (opaque).
	MaxRGB = 0xFFFFFF
	// MaxRGBA is the largest value read as 0xRRGGBBAA.
	MaxRGBA = 0xFFFFFFFF
)

// ErrInvalidColor is returned for values that do not fit in 32 bits.
var ErrInvalidColor = errors.New("an invalid hexadecimal color value was passed")

// Painter is the part of a drawing context that receives the active paint color.
// *gg.Context satisfies it.
type Painter interface {
	SetRGBA(r, g, b, a float64)
}

// Decode maps v to normalized channels.
// Values up to MaxRGB are 0xRRGGBB with alpha 1, values up to MaxRGBA are
// 0xRRGGBBAA. Anything larger returns ErrInvalidColor.
func Decode(v uint64) (gg.RGBA, error) {
	switch {
	case v <= MaxRGB:
		return gg.RGBA{
			R: float64((v>>16)&0xFF) / 255,
			G: float64((v>>8)&0xFF) / 255,
			B: float64(v&0xFF) / 255,
			A: 1,
		}, nil
	case v <= MaxRGBA:
		return gg.RGBA{
			R: float64((v>>24)&0xFF) / 255,
			G: float64((v>>16)&0xFF) / 255,
			B: float64((v>>8)&0xFF) / 255,
			A: float64(v&0xFF) / 255,
		}, nil
	default:
		return gg.RGBA{}, fmt.Errorf("%w: %#x", ErrInvalidColor, v)
	}
}

// Apply decodes v and makes it the active paint color of p.
// On ErrInvalidColor p is left untouched.
func Apply(p Painter, v uint64) (gg.RGBA, error) {
	c, err := Decode(v)
	if err != nil {
		return gg.RGBA{}, err
	}
	p.SetRGBA(c.R, c.G, c.B, c.A)
	return c, nil
}

// Parse reads a packed color written as "0xRRGGBB", "#RRGGBBAA" or a plain
// decimal number. The result is checked against MaxRGBA.
func Parse(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidColor)
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	if v > MaxRGBA {
		return 0, fmt.Errorf("%w: %#x", ErrInvalidColor, v)
	}
	return v, nil
}
