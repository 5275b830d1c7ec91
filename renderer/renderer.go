package renderer

import (
	"fmt"
	"image"
	"log"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/graphics"
	"github.com/richinsley/golinedraw/shader"
	"github.com/richinsley/golinedraw/style"
)

var glInitOnce sync.Once

// Renderer draws line strips with OpenGL into an offscreen framebuffer and
// presents that framebuffer in the host window.
type Renderer struct {
	context           graphics.Context
	canvas            geometry.Canvas
	lineProgram       uint32
	colorLoc          int32
	lineVAO           uint32
	lineVBO           uint32
	vboCapacity       int
	blitProgram       uint32
	textureLoc        int32
	quadVAO           uint32
	quadVBO           uint32
	offscreenRenderer *OffscreenRenderer
}

var quadVertices = []float32{
	-1.0, 1.0, -1.0, -1.0, 1.0, -1.0,
	-1.0, 1.0, 1.0, -1.0, 1.0, 1.0,
}

// NewRenderer compiles the line and blit programs and allocates the canvas
// framebuffer. The context is made current on the calling thread.
func NewRenderer(c geometry.Canvas, ctx graphics.Context) (*Renderer, error) {
	r := &Renderer{
		context:  ctx,
		canvas:   c,
		colorLoc: -1,
	}

	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	log.Printf("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))

	var err error
	r.lineProgram, err = newProgram(shader.Line(ctx.IsGLES()))
	if err != nil {
		return nil, fmt.Errorf("failed to create line program: %w", err)
	}
	r.colorLoc, err = uniformLocation(r.lineProgram, shader.ColorUniform)
	if err != nil {
		r.Shutdown()
		return nil, err
	}

	r.blitProgram, err = newProgram(shader.Blit(ctx.IsGLES()))
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create blit program: %w", err)
	}
	r.textureLoc, err = uniformLocation(r.blitProgram, shader.TextureUniform)
	if err != nil {
		r.Shutdown()
		return nil, err
	}

	// Line strip: one vec2 float attribute at location 0, refilled every draw.
	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.GenBuffers(1, &r.quadVBO)
	gl.BindVertexArray(r.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	r.offscreenRenderer, err = NewOffscreenRenderer(c.Width, c.Height)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create offscreen renderer: %w", err)
	}
	return r, nil
}

func (r *Renderer) Shutdown() {
	if r.offscreenRenderer != nil {
		r.offscreenRenderer.Destroy()
		r.offscreenRenderer = nil
	}
	gl.DeleteProgram(r.lineProgram)
	gl.DeleteProgram(r.blitProgram)
	gl.DeleteBuffers(1, &r.lineVBO)
	gl.DeleteBuffers(1, &r.quadVBO)
	gl.DeleteVertexArrays(1, &r.lineVAO)
	gl.DeleteVertexArrays(1, &r.quadVAO)
}

// Clear fills the canvas framebuffer with c.
func (r *Renderer) Clear(c style.Color) {
	r.offscreenRenderer.Bind()
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	r.offscreenRenderer.Unbind()
}

// DrawStrip uploads vertices and draws them as one GL_TRIANGLE_STRIP with a
// uniform color. An empty buffer is uploaded but not drawn.
func (r *Renderer) DrawStrip(vertices []float32, c style.Color) {
	count := len(vertices) / 2

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	if count == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.DYNAMIC_DRAW)
		r.vboCapacity = 0
	} else if len(vertices) > r.vboCapacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
		r.vboCapacity = len(vertices)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	}

	if count > 0 {
		r.offscreenRenderer.Bind()
		gl.UseProgram(r.lineProgram)
		col := c.Array()
		gl.Uniform4fv(r.colorLoc, 1, &col[0])
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, int32(count))
		r.offscreenRenderer.Unbind()
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Snapshot reads the canvas framebuffer back.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	if r.offscreenRenderer == nil {
		return nil, fmt.Errorf("renderer is shut down")
	}
	return r.offscreenRenderer.ReadPixels(), nil
}

// Present copies the canvas to the window framebuffer and swaps buffers.
func (r *Renderer) Present() {
	fbWidth, fbHeight := r.context.GetFramebufferSize()
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(fbWidth), int32(fbHeight))
	gl.ClearColor(style.Background.R, style.Background.G, style.Background.B, style.Background.A)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(r.blitProgram)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.offscreenRenderer.textureID)
	gl.Uniform1i(r.textureLoc, 0)
	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindVertexArray(0)
	r.context.EndFrame()
}
