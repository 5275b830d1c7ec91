// Package software implements the drawing backend on the CPU. It rasterizes
// the same triangle strips the OpenGL renderer draws, which makes it usable
// without a display and as a reference in tests.
package software

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/style"
	"golang.org/x/image/vector"
)

// Stats counts the work done by the backend since creation.
type Stats struct {
	Clears       int
	Draws        int
	LastVertices int
}

// Renderer rasterizes triangle strips into an RGBA image.
type Renderer struct {
	canvas geometry.Canvas
	img    *image.RGBA
	raster *vector.Rasterizer
	// cover is the coverage of the strip being drawn. Triangles add into it
	// and the frame is composited from it once.
	cover *image.Alpha16
	tile  []uint8
	stats Stats
}

// New returns a renderer with a transparent canvas of the given size.
func New(c geometry.Canvas) *Renderer {
	bounds := image.Rect(0, 0, c.Width, c.Height)
	return &Renderer{
		canvas: c,
		img:    image.NewRGBA(bounds),
		raster: vector.NewRasterizer(c.Width, c.Height),
		cover:  image.NewAlpha16(bounds),
	}
}

func (r *Renderer) Clear(c style.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
	r.stats.Clears++
}

// DrawStrip fills each triangle (v[i], v[i+1], v[i+2]) of the strip.
//
// Coverage is summed over all triangles before the color is applied, so
// the partial coverages of two triangles sharing an edge add up to a solid
// pixel instead of being blended with the background twice.
func (r *Renderer) DrawStrip(vertices []float32, c style.Color) {
	n := len(vertices) / 2
	r.stats.LastVertices = n
	if n < 3 {
		return
	}
	r.stats.Draws++

	clear(r.cover.Pix)
	for i := 0; i+2 < n; i++ {
		var tri [3][2]float32
		for k := range tri {
			tri[k][0], tri[k][1] = r.toPixel(vertices[2*(i+k)], vertices[2*(i+k)+1])
		}
		r.addTriangle(tri)
	}
	draw.DrawMask(r.img, r.img.Bounds(), image.NewUniform(c.NRGBA()), image.Point{},
		r.cover, image.Point{}, draw.Over)
}

// addTriangle rasterizes one triangle inside its bounding box and adds the
// result to r.cover, saturating at full coverage.
func (r *Renderer) addTriangle(tri [3][2]float32) {
	minX, minY := float32(math.Inf(1)), float32(math.Inf(1))
	maxX, maxY := float32(math.Inf(-1)), float32(math.Inf(-1))
	for _, v := range tri {
		if !finite(v[0]) || !finite(v[1]) {
			return
		}
		minX, maxX = min(minX, v[0]), max(maxX, v[0])
		minY, maxY = min(minY, v[1]), max(maxY, v[1])
	}
	box := image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX))), int(math.Ceil(float64(maxY))),
	).Intersect(r.cover.Rect)
	if box.Empty() {
		return
	}

	w, h := box.Dx(), box.Dy()
	if need := 2 * w * h; cap(r.tile) < need {
		r.tile = make([]uint8, need)
	}
	tile := &image.Alpha16{Pix: r.tile[:2*w*h], Stride: 2 * w, Rect: image.Rect(0, 0, w, h)}

	ox, oy := float32(box.Min.X), float32(box.Min.Y)
	r.raster.Reset(w, h)
	r.raster.DrawOp = draw.Src
	r.raster.MoveTo(tri[0][0]-ox, tri[0][1]-oy)
	r.raster.LineTo(tri[1][0]-ox, tri[1][1]-oy)
	r.raster.LineTo(tri[2][0]-ox, tri[2][1]-oy)
	r.raster.ClosePath()
	r.raster.Draw(tile, tile.Rect, image.Opaque, image.Point{})

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := tile.Alpha16At(x, y).A
			if a == 0 {
				continue
			}
			px, py := box.Min.X+x, box.Min.Y+y
			sum := uint32(r.cover.Alpha16At(px, py).A) + uint32(a)
			r.cover.SetAlpha16(px, py, color.Alpha16{A: uint16(min(sum, 0xffff))})
		}
	}
}

func (r *Renderer) toPixel(x, y float32) (float32, float32) {
	px, py := geometry.NDCToPixel(r.canvas, geometry.Point{X: x, Y: y})
	return float32(px), float32(py)
}

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

// Snapshot returns a copy of the current frame.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out, nil
}

// Stats returns the draw counters.
func (r *Renderer) Stats() Stats {
	return r.stats
}
