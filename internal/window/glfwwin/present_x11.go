//go:build linux || freebsd

package glfwwin

import (
	"fmt"
	"image"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// x11Presenter blits frames into the window through its own X connection.
// The server-side pixmap has a fixed size, so it is recreated whenever the
// frame size changes.
type x11Presenter struct {
	xu  *xgbutil.XUtil
	win xproto.Window
	img *xgraphics.Image
}

func newPresenter(w *glfw.Window) (presenter, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11 connect: %w", err)
	}
	return &x11Presenter{xu: xu, win: xproto.Window(w.GetX11Window())}, nil
}

func (p *x11Presenter) present(src *image.RGBA) error {
	r := src.Bounds()
	if p.img == nil || !p.img.Rect.Eq(r) {
		if p.img != nil {
			p.img.Destroy()
		}
		p.img = xgraphics.New(p.xu, r)
		if err := p.img.XSurfaceSet(p.win); err != nil {
			p.img.Destroy()
			p.img = nil
			return fmt.Errorf("x11 surface: %w", err)
		}
	}

	// xgraphics stores BGRA.
	dst := p.img.Pix
	for y := 0; y < r.Dy(); y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+r.Dx()*4]
		d := dst[y*p.img.Stride : y*p.img.Stride+r.Dx()*4]
		for i := 0; i < len(s); i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}

	p.img.XDraw()
	p.img.XPaint(p.win)
	return nil
}

func (p *x11Presenter) close() {
	if p.img != nil {
		p.img.Destroy()
		p.img = nil
	}
	p.xu.Conn().Close()
}
