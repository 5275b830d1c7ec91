package glfwcontext

import (
	"log"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/graphics"
)

var _ graphics.Context = (*Context)(nil)

// PointerHandler receives pointer events in canvas pixel coordinates.
type PointerHandler interface {
	Press(x, y float64)
	Move(x, y float64) error
	Release(x, y float64) error
}

// Context wraps a GLFW window whose client area shows the canvas.
type Context struct {
	window  *glfw.Window
	canvas  geometry.Canvas
	pointer PointerHandler
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()
}

// New creates a window sized like the canvas. A hidden window still provides
// a GL context, which is how headless rendering works.
func New(c geometry.Canvas, title string, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	if !visible {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(c.Width, c.Height, title, nil, nil)
	if err != nil {
		return nil, err
	}

	ctx := &Context{
		window:       win,
		canvas:       c,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.SetKeyCallback(ctx.glfwKeyCallback)
	win.SetMouseButtonCallback(ctx.glfwMouseButtonCallback)
	win.SetCursorPosCallback(ctx.glfwCursorPosCallback)

	return ctx, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// SetPointerHandler routes mouse input to h.
func (c *Context) SetPointerHandler(h PointerHandler) {
	c.pointer = h
}

// glfwKeyCallback is the function that will be called by GLFW on a key event.
// It now dispatches to our registered custom callbacks.
func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	// Handle the default Escape key behavior
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	if action == glfw.Press || action == glfw.Repeat {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwMouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if c.pointer == nil || button != glfw.MouseButtonLeft {
		return
	}
	x, y := c.canvasPos(w.GetCursorPos())
	switch action {
	case glfw.Press:
		c.pointer.Press(x, y)
	case glfw.Release:
		if err := c.pointer.Release(x, y); err != nil {
			log.Printf("Ignoring click: %v", err)
		}
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	if c.pointer == nil {
		return
	}
	x, y := c.canvasPos(xpos, ypos)
	if err := c.pointer.Move(x, y); err != nil {
		log.Printf("Ignoring drag point: %v", err)
	}
}

// canvasPos maps window coordinates to canvas pixels. The canvas is stretched
// over the whole client area, so HiDPI scaling cancels out.
func (c *Context) canvasPos(wx, wy float64) (float64, float64) {
	winWidth, winHeight := c.window.GetSize()
	if winWidth <= 0 || winHeight <= 0 {
		return wx, wy
	}
	return wx * float64(c.canvas.Width) / float64(winWidth),
		wy * float64(c.canvas.Height) / float64(winHeight)
}

func (c *Context) IsGLES() bool {
	// GLFW does not provide a direct way to check if the context is GLES.
	return false
}

// SetTitle updates the window title, used to show the current style.
func (c *Context) SetTitle(title string) {
	c.window.SetTitle(title)
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown now only destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

// RequestClose makes ShouldClose return true.
func (c *Context) RequestClose() {
	c.window.SetShouldClose(true)
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
}

// WaitEvents blocks until at least one event arrives and runs its callbacks.
func (c *Context) WaitEvents() {
	glfw.WaitEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

// Wake interrupts WaitEvents. Safe to call from any goroutine, but only
// between InitGraphics and TerminateGraphics.
func Wake() {
	glfw.PostEmptyEvent()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	log.Printf("GLFW Initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Printf("GLFW Terminated")
}
