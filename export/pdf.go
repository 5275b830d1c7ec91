package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/style"
)

func newPDF(d Drawing) *gofpdf.Fpdf {
	c := d.Canvas()
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: float64(c.Width), Ht: float64(c.Height)},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	bg := style.Background.NRGBA()
	p.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	p.Rect(0, 0, float64(c.Width), float64(c.Height), "F")

	ls := d.Style()
	fg := ls.Color.NRGBA()
	p.SetFillColor(int(fg.R), int(fg.G), int(fg.B))
	if ls.Color.A < 1 {
		p.SetAlpha(float64(ls.Color.A), "Normal")
	}

	// One polygon per strip triangle, the same coverage the GL strip produces.
	v := d.Vertices()
	n := len(v) / 2
	for i := 0; i+2 < n; i++ {
		tri := make([]gofpdf.PointType, 3)
		for k := 0; k < 3; k++ {
			x, y := geometry.NDCToPixel(c, geometry.Point{X: v[2*(i+k)], Y: v[2*(i+k)+1]})
			tri[k] = gofpdf.PointType{X: x, Y: y}
		}
		p.Polygon(tri, "F")
	}
	return p
}

// PDF writes the drawing as a single page sized like the canvas, one point per pixel.
func PDF(w io.Writer, d Drawing) error {
	p := newPDF(d)
	if err := p.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// SavePDF writes the drawing to a PDF file at path.
func SavePDF(path string, d Drawing) error {
	p := newPDF(d)
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
