package geometry

// Point is a position in normalized device coordinates, both axes in [-1, 1]
// with +y pointing up.
type Point struct {
	X, Y float32
}

// Canvas is the pixel size of the drawing surface.
type Canvas struct {
	Width  int
	Height int
}

// DefaultCanvas is the fixed surface the program draws on.
var DefaultCanvas = Canvas{Width: 800, Height: 400}

// Contains reports whether the pixel coordinate lies on the canvas, edges included.
func (c Canvas) Contains(x, y float64) bool {
	return x >= 0 && x <= float64(c.Width) && y >= 0 && y <= float64(c.Height)
}

// PixelToNDC maps a pixel coordinate (origin top-left, y down) to normalized
// device coordinates. No clamping is done; callers reject off-canvas input first.
func PixelToNDC(c Canvas, x, y float64) Point {
	return Point{
		X: float32((x/float64(c.Width))*2 - 1),
		Y: float32(-((y/float64(c.Height))*2 - 1)),
	}
}

// NDCToPixel is the inverse of PixelToNDC.
func NDCToPixel(c Canvas, p Point) (x, y float64) {
	x = (float64(p.X) + 1) / 2 * float64(c.Width)
	y = (1 - float64(p.Y)) / 2 * float64(c.Height)
	return x, y
}
