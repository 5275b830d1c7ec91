package graphics

import (
	"image"

	"github.com/richinsley/golinedraw/style"
)

// Backend is the render protocol the drawing core needs: clear the frame and
// draw a flat-colored triangle strip from x,y float pairs.
type Backend interface {
	Clear(c style.Color)
	DrawStrip(vertices []float32, c style.Color)
}

// Snapshotter is implemented by backends that can read the current frame back.
// The returned image has its origin at the top-left.
type Snapshotter interface {
	Snapshot() (*image.RGBA, error)
}

// Context defines the interface for a window hosting an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	EndFrame()
	WaitEvents()
	IsGLES() bool
	GetFramebufferSize() (int, int)
}
