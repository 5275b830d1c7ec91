package geometry

import "math"

// VertexCount returns the number of strip vertices BuildStrip emits for n points.
func VertexCount(n int) int {
	if n < 2 {
		return 0
	}
	return 4 * (n - 1)
}

// BuildStrip turns a polyline into a flat x,y list meant to be drawn as one
// triangle strip. Every segment becomes an independent quad of the given pixel
// width; segments are not joined.
//
// The perpendicular is (y2-y1, x1-x2) and is scaled by width/Width on x and
// width/Height on y, so offsets are anisotropic on non-square canvases.
// A zero-length segment gets a zero offset and collapses onto its point.
func BuildStrip(points []Point, width float32, c Canvas) []float32 {
	n := VertexCount(len(points))
	if n == 0 {
		return []float32{}
	}
	vertices := make([]float32, 0, n*2)

	sx := float64(width) / float64(c.Width)
	sy := float64(width) / float64(c.Height)

	for i := 0; i < len(points)-1; i++ {
		x1, y1 := float64(points[i].X), float64(points[i].Y)
		x2, y2 := float64(points[i+1].X), float64(points[i+1].Y)

		dx := y2 - y1
		dy := x1 - x2
		length := math.Sqrt(dx*dx + dy*dy)

		var offX, offY float64
		if length > 0 {
			offX = dx / length * sx
			offY = dy / length * sy
		}

		vertices = append(vertices,
			float32(x1-offX), float32(y1-offY),
			float32(x1+offX), float32(y1+offY),
			float32(x2-offX), float32(y2-offY),
			float32(x2+offX), float32(y2+offY),
		)
	}
	return vertices
}
