package session

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/software"
	"github.com/richinsley/golinedraw/style"
)

type call struct {
	Op       string
	Vertices int
	Color    style.Color
}

// recorder is a graphics.Backend that logs every call.
type recorder struct {
	calls []call
	last  []float32
}

func (r *recorder) Clear(c style.Color) {
	r.calls = append(r.calls, call{Op: "clear", Color: c})
}

func (r *recorder) DrawStrip(v []float32, c style.Color) {
	r.last = v
	r.calls = append(r.calls, call{Op: "draw", Vertices: len(v) / 2, Color: c})
}

func (r *recorder) draws() []call {
	var out []call
	for _, c := range r.calls {
		if c.Op == "draw" {
			out = append(out, c)
		}
	}
	return out
}

func newTestSession(t *testing.T) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := New(geometry.DefaultCanvas, rec, WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatal(err)
	}
	return s, rec
}

func TestNewClearsBackground(t *testing.T) {
	_, rec := newTestSession(t)
	want := []call{{Op: "clear", Color: style.White}}
	if d := cmp.Diff(want, rec.calls); d != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", d)
	}
}

func TestNewRejectsBadCanvas(t *testing.T) {
	if _, err := New(geometry.Canvas{Width: 0, Height: 10}, &recorder{}); err == nil {
		t.Error("expected error for zero width canvas")
	}
	if _, err := New(geometry.DefaultCanvas, nil); err == nil {
		t.Error("expected error for nil backend")
	}
}

func TestNewRejectsBadStyleWidth(t *testing.T) {
	tests := []struct {
		name  string
		width float32
		ok    bool
	}{
		{"default", style.DefaultWidth, true},
		{"fractional", 0.5, true},
		{"zero", 0, false},
		{"negative", -1, false},
		{"nan", float32(math.NaN()), false},
		{"inf", float32(math.Inf(1)), false},
		{"negative inf", float32(math.Inf(-1)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{}
			s, err := New(geometry.DefaultCanvas, rec, WithStyle(style.LineStyle{Width: tt.width, Color: style.Black}))
			if tt.ok {
				if err != nil {
					t.Fatalf("New() = %v", err)
				}
				if s.Style().Width != tt.width {
					t.Errorf("width = %v, want %v", s.Style().Width, tt.width)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "line width" {
				t.Fatalf("New() error = %v, want *ValidationError for line width", err)
			}
			if s != nil {
				t.Error("New returned a session along with the error")
			}
			if len(rec.calls) != 0 {
				t.Errorf("backend touched by a rejected session: %v", rec.calls)
			}
		})
	}
}

func TestScenarioThreePoints(t *testing.T) {
	s, rec := newTestSession(t)
	if err := s.SetWidth(2); err != nil {
		t.Fatal(err)
	}
	for _, p := range [][2]float64{{0, 0}, {800, 0}, {800, 400}} {
		if err := s.AddPixel(p[0], p[1]); err != nil {
			t.Fatalf("AddPixel(%v): %v", p, err)
		}
	}

	wantPts := []geometry.Point{{-1, 1}, {1, 1}, {1, -1}}
	if d := cmp.Diff(wantPts, s.Points()); d != "" {
		t.Errorf("points mismatch (-want +got):\n%s", d)
	}
	if got := len(s.Vertices()); got != 16 {
		t.Errorf("len(vertices) = %d, want 16", got)
	}
	draws := rec.draws()
	last := draws[len(draws)-1]
	if last.Vertices != 8 {
		t.Errorf("last draw has %d vertices, want 8", last.Vertices)
	}
	// The last render is exactly one clear followed by one draw.
	n := len(rec.calls)
	if rec.calls[n-2].Op != "clear" || rec.calls[n-2].Color != style.White {
		t.Errorf("render did not clear to white first: %+v", rec.calls[n-2])
	}
}

func TestSetColorHexAppliesToNextDraw(t *testing.T) {
	s, rec := newTestSession(t)
	_ = s.AddPixel(10, 10)
	_ = s.AddPixel(100, 100)
	if err := s.SetColorHex("#FF0000"); err != nil {
		t.Fatal(err)
	}
	red := style.Color{R: 1, G: 0, B: 0, A: 1}
	if s.Style().Color != red {
		t.Errorf("style color = %v, want %v", s.Style().Color, red)
	}
	draws := rec.draws()
	if got := draws[len(draws)-1].Color; got != red {
		t.Errorf("draw color = %v, want %v", got, red)
	}
}

func TestSetColorHexInvalid(t *testing.T) {
	s, rec := newTestSession(t)
	before := len(rec.calls)
	err := s.SetColorHex("#zz0000")
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "color" {
		t.Fatalf("err = %v, want color ValidationError", err)
	}
	if s.Style().Color != style.Black {
		t.Errorf("color changed to %v", s.Style().Color)
	}
	if len(rec.calls) != before {
		t.Errorf("invalid color triggered a render")
	}
}

func TestSinglePointRendersNothing(t *testing.T) {
	s, rec := newTestSession(t)
	if err := s.AddPixel(400, 200); err != nil {
		t.Fatal(err)
	}
	if got := s.Vertices(); len(got) != 0 {
		t.Errorf("vertices = %v, want empty", got)
	}
	draws := rec.draws()
	if len(draws) != 1 || draws[0].Vertices != 0 {
		t.Errorf("draws = %+v, want one draw of 0 vertices", draws)
	}
}

func TestAddPixelValidation(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
	}{
		{"negative x", -1, 10},
		{"x past width", 800.5, 10},
		{"negative y", 10, -0.1},
		{"y past height", 10, 401},
		{"nan", math.NaN(), 10},
		{"inf", 10, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := newTestSession(t)
			_ = s.AddPixel(1, 1)
			calls := len(rec.calls)

			err := s.AddPixel(tt.x, tt.y)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != "point" {
				t.Errorf("field = %q, want point", verr.Field)
			}
			if len(s.Points()) != 1 {
				t.Errorf("points changed: %v", s.Points())
			}
			if len(rec.calls) != calls {
				t.Errorf("rejected point triggered a render")
			}
		})
	}
}

func TestAddPixelEdgesAccepted(t *testing.T) {
	s, _ := newTestSession(t)
	for _, p := range [][2]float64{{0, 0}, {800, 400}, {0, 400}, {800, 0}} {
		if err := s.AddPixel(p[0], p[1]); err != nil {
			t.Errorf("AddPixel(%v) = %v", p, err)
		}
	}
}

func TestSetWidth(t *testing.T) {
	s, rec := newTestSession(t)
	_ = s.AddPixel(0, 0)
	_ = s.AddPixel(800, 0)
	narrow := s.Vertices()

	if err := s.SetWidth(10); err != nil {
		t.Fatal(err)
	}
	wide := s.Vertices()
	if s.Style().Width != 10 {
		t.Errorf("width = %v", s.Style().Width)
	}
	// Horizontal segment: y offset is width/height.
	if got := wide[1] - wide[3]; math.Abs(float64(got)-2*10.0/400) > 1e-6 {
		t.Errorf("quad thickness = %v", got)
	}
	if cmp.Equal(narrow, wide) {
		t.Error("width change did not rebuild the mesh")
	}

	calls := len(rec.calls)
	for _, w := range []float32{0, -3, float32(math.NaN()), float32(math.Inf(1))} {
		var verr *ValidationError
		if err := s.SetWidth(w); !errors.As(err, &verr) {
			t.Errorf("SetWidth(%v) = %v, want *ValidationError", w, err)
		}
	}
	if s.Style().Width != 10 || len(rec.calls) != calls {
		t.Error("rejected width mutated the session")
	}
}

func TestClear(t *testing.T) {
	s, rec := newTestSession(t)
	_ = s.AddPixel(0, 0)
	_ = s.AddPixel(100, 100)
	draws := len(rec.draws())

	s.Clear()
	if len(s.Points()) != 0 || len(s.Vertices()) != 0 {
		t.Fatalf("clear left state: %v %v", s.Points(), s.Vertices())
	}
	last := rec.calls[len(rec.calls)-1]
	if last.Op != "clear" || last.Color != style.White {
		t.Errorf("last call = %+v, want clear to white", last)
	}
	if len(rec.draws()) != draws {
		t.Error("clear ran a draw")
	}
}

func TestClearShowsOnlyBackground(t *testing.T) {
	c := geometry.Canvas{Width: 80, Height: 40}
	sw := software.New(c)
	s, err := New(c, sw)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.SetWidth(8)
	_ = s.AddPixel(0, 20)
	_ = s.AddPixel(80, 20)

	img, _ := sw.Snapshot()
	if img.RGBAAt(40, 20) == (color.RGBA{255, 255, 255, 255}) {
		t.Fatal("line was not drawn")
	}

	s.Clear()
	s.Render()
	img, _ = sw.Snapshot()
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{255, 255, 255, 255}) {
				t.Fatalf("pixel (%d,%d) = %v after clear, want white", x, y, got)
			}
		}
	}
}

func TestAddRandom(t *testing.T) {
	s, _ := newTestSession(t)
	for i := 0; i < 50; i++ {
		p, err := s.AddRandom()
		if err != nil {
			t.Fatal(err)
		}
		if p.X < -1 || p.X > 1 || p.Y < -1 || p.Y > 1 {
			t.Fatalf("random point %v outside NDC range", p)
		}
	}
	if got := len(s.Vertices()); got != 8*49 {
		t.Errorf("len(vertices) = %d, want %d", got, 8*49)
	}
}

func TestAddRandomDeterministicWithSeed(t *testing.T) {
	a, _ := New(geometry.DefaultCanvas, &recorder{}, WithRand(rand.New(rand.NewPCG(7, 7))))
	b, _ := New(geometry.DefaultCanvas, &recorder{}, WithRand(rand.New(rand.NewPCG(7, 7))))
	pa, _ := a.AddRandom()
	pb, _ := b.AddRandom()
	if pa != pb {
		t.Errorf("same seed gave %v and %v", pa, pb)
	}
}

type frameCounter struct {
	frames []image.Rectangle
}

func (f *frameCounter) WriteFrame(img *image.RGBA) error {
	f.frames = append(f.frames, img.Bounds())
	return nil
}

func TestSinksReceiveFrames(t *testing.T) {
	c := geometry.Canvas{Width: 16, Height: 8}
	s, _ := New(c, software.New(c))
	fc := &frameCounter{}
	s.AddSink(fc)

	_ = s.AddPixel(1, 1)
	_ = s.AddPixel(2, 2)
	s.Clear()
	if len(fc.frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(fc.frames))
	}
	if fc.frames[0] != image.Rect(0, 0, 16, 8) {
		t.Errorf("frame bounds = %v", fc.frames[0])
	}
}

func TestSinksIgnoredWithoutSnapshotter(t *testing.T) {
	s, _ := newTestSession(t)
	fc := &frameCounter{}
	s.AddSink(fc)
	_ = s.AddPixel(1, 1)
	if len(fc.frames) != 0 {
		t.Errorf("got %d frames from a backend without snapshots", len(fc.frames))
	}
}

func TestUniqueIDs(t *testing.T) {
	a, _ := newTestSession(t)
	b, _ := newTestSession(t)
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("ids %q and %q", a.ID(), b.ID())
	}
}
