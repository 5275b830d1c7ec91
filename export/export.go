// Package export writes the current drawing to PNG and PDF files.
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"

	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/graphics"
	"github.com/richinsley/golinedraw/style"
)

// Drawing is the state an exporter reads.
type Drawing interface {
	ID() string
	Canvas() geometry.Canvas
	Style() style.LineStyle
	Vertices() []float32
}

// PNG encodes img to w.
func PNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// SavePNG writes img to a PNG file at path.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := PNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// Files exports a drawing and the frame its backend last rendered.
type Files struct {
	Drawing Drawing
	Frames  graphics.Snapshotter
}

// DefaultName returns drawing-<session id>.<ext>.
func (f *Files) DefaultName(ext string) string {
	return fmt.Sprintf("drawing-%s.%s", f.Drawing.ID(), ext)
}

// ExportPNG saves the current frame. An empty path uses DefaultName.
func (f *Files) ExportPNG(path string) error {
	if f.Frames == nil {
		return fmt.Errorf("backend cannot read frames back")
	}
	if path == "" {
		path = f.DefaultName("png")
	}
	img, err := f.Frames.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}
	if err := SavePNG(path, img); err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}

// ExportPDF writes the drawing as vector triangles. An empty path uses DefaultName.
func (f *Files) ExportPDF(path string) error {
	if path == "" {
		path = f.DefaultName("pdf")
	}
	if err := SavePDF(path, f.Drawing); err != nil {
		return err
	}
	log.Printf("Wrote %s", path)
	return nil
}
