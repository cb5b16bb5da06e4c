//go:build !linux && !freebsd

package glfwwin

import (
	"errors"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func newPresenter(*glfw.Window) (presenter, error) {
	return nil, errors.New("no native presenter on this platform")
}
