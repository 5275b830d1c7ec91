package session

import (
	"fmt"
	"image"
	"log"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/graphics"
	"github.com/richinsley/golinedraw/style"
)

// FrameSink receives every frame the session renders, e.g. a video recorder.
type FrameSink interface {
	WriteFrame(img *image.RGBA) error
}

// Session owns the point sequence and line style of one drawing and pushes
// every change through the mesh builder to its backend.
type Session struct {
	id       string
	canvas   geometry.Canvas
	backend  graphics.Backend
	points   []geometry.Point
	style    style.LineStyle
	vertices []float32
	state    InputState
	rng      *rand.Rand
	sinks    []FrameSink
}

// Option configures a Session.
type Option func(*Session)

// WithStyle sets the initial line style. New fails if its width is not a
// positive number.
func WithStyle(ls style.LineStyle) Option {
	return func(s *Session) { s.style = ls }
}

// WithRand sets the source used by AddRandom.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// New creates a session on the given canvas and clears the backend to the background.
func New(c geometry.Canvas, backend graphics.Backend, opts ...Option) (*Session, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return nil, fmt.Errorf("canvas must have a positive size, got %dx%d", c.Width, c.Height)
	}
	if backend == nil {
		return nil, fmt.Errorf("no render backend")
	}
	s := &Session{
		id:       uuid.NewString(),
		canvas:   c,
		backend:  backend,
		style:    style.Default(),
		vertices: []float32{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := checkWidth(s.style.Width); err != nil {
		return nil, err
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.backend.Clear(style.Background)
	return s, nil
}

// ID identifies the session in logs and default export names.
func (s *Session) ID() string { return s.id }

func (s *Session) Canvas() geometry.Canvas { return s.canvas }

func (s *Session) Style() style.LineStyle { return s.style }

// Points returns a copy of the point sequence.
func (s *Session) Points() []geometry.Point {
	out := make([]geometry.Point, len(s.points))
	copy(out, s.points)
	return out
}

// Vertices returns the strip produced by the last render.
func (s *Session) Vertices() []float32 {
	out := make([]float32, len(s.vertices))
	copy(out, s.vertices)
	return out
}

// AddSink registers a receiver for rendered frames. Frames are only produced
// when the backend implements graphics.Snapshotter.
func (s *Session) AddSink(sink FrameSink) {
	s.sinks = append(s.sinks, sink)
}

// AddPixel appends the pixel coordinate (x, y) to the drawing and re-renders.
// Off-canvas or non-finite input is rejected with a *ValidationError.
func (s *Session) AddPixel(x, y float64) error {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return invalid("point", fmt.Sprintf("(%v, %v)", x, y), "coordinates must be numbers")
	}
	if !s.canvas.Contains(x, y) {
		return invalid("point", fmt.Sprintf("(%v, %v)", x, y),
			"x must be within [0, %d] and y within [0, %d]", s.canvas.Width, s.canvas.Height)
	}
	s.points = append(s.points, geometry.PixelToNDC(s.canvas, x, y))
	s.Render()
	return nil
}

// AddRandom appends a uniformly random point on the canvas.
func (s *Session) AddRandom() (geometry.Point, error) {
	x := s.rng.Float64() * float64(s.canvas.Width)
	y := s.rng.Float64() * float64(s.canvas.Height)
	if err := s.AddPixel(x, y); err != nil {
		return geometry.Point{}, err
	}
	return s.points[len(s.points)-1], nil
}

// Clear drops every point and clears the frame. The mesh is not rebuilt.
func (s *Session) Clear() {
	s.points = nil
	s.vertices = []float32{}
	s.backend.Clear(style.Background)
	s.emit()
}

// SetWidth changes the stroke width in pixels and re-renders.
func (s *Session) SetWidth(w float32) error {
	if err := checkWidth(w); err != nil {
		return err
	}
	s.style.Width = w
	s.Render()
	return nil
}

func checkWidth(w float32) error {
	if math.IsNaN(float64(w)) || math.IsInf(float64(w), 0) || w <= 0 {
		return invalid("line width", w, "must be a positive number")
	}
	return nil
}

// SetColor changes the stroke color and re-renders.
func (s *Session) SetColor(c style.Color) {
	s.style.Color = c
	s.Render()
}

// SetColorHex parses a hex color such as "#FF0000" and applies it.
func (s *Session) SetColorHex(hex string) error {
	c, err := style.ParseHex(hex)
	if err != nil {
		return &ValidationError{Field: "color", Value: hex, Reason: err.Error()}
	}
	s.SetColor(c)
	return nil
}

// Render rebuilds the strip from all points and draws it over the background.
func (s *Session) Render() {
	s.vertices = geometry.BuildStrip(s.points, s.style.Width, s.canvas)
	s.backend.Clear(style.Background)
	s.backend.DrawStrip(s.vertices, s.style.Color)
	s.emit()
}

func (s *Session) emit() {
	if len(s.sinks) == 0 {
		return
	}
	snap, ok := s.backend.(graphics.Snapshotter)
	if !ok {
		return
	}
	img, err := snap.Snapshot()
	if err != nil {
		log.Printf("session %s: snapshot failed: %v", s.id, err)
		return
	}
	for _, sink := range s.sinks {
		if err := sink.WriteFrame(img); err != nil {
			log.Printf("session %s: frame sink: %v", s.id, err)
		}
	}
}
