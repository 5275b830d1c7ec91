package options

import (
	"flag"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/richinsley/golinedraw/style"
)

type DrawOptions struct {
	Help       *bool
	Width      *int
	Height     *int
	LineWidth  *float64
	Color      *string
	Backend    *string // "gl" or "software"
	Headless   *bool   // render without showing a window, then exit
	Points     *string // "x,y x,y ..." in canvas pixels
	Script     *string // console command file, "-" for stdin
	Snapshot   *string // PNG written on exit
	PDF        *string // PDF written on exit
	OutputFile *string // video recording, one frame per render
	FPS        *int
	Codec      *string
	FFMPEGPath *string
	Seed       *uint64 // random point seed, 0 picks one
}

// Bind registers every option on fs with its default.
func Bind(fs *flag.FlagSet) *DrawOptions {
	return &DrawOptions{
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 800, "Canvas width in pixels"),
		Height:     fs.Int("height", 400, "Canvas height in pixels"),
		LineWidth:  fs.Float64("line-width", style.DefaultWidth, "Initial line width in pixels"),
		Color:      fs.String("color", "#000000", "Initial line color (hex)"),
		Backend:    fs.String("backend", "gl", "Render backend: gl or software"),
		Headless:   fs.Bool("headless", false, "Render without a visible window and exit"),
		Points:     fs.String("points", "", "Initial points as \"x,y x,y ...\" in pixels"),
		Script:     fs.String("script", "", "File of console commands to run, - for stdin"),
		Snapshot:   fs.String("snapshot", "", "Write the final frame to this PNG file"),
		PDF:        fs.String("pdf", "", "Write the final drawing to this PDF file"),
		OutputFile: fs.String("record", "", "Record every rendered frame to this video file"),
		FPS:        fs.Int("fps", 30, "Frame rate of the recording"),
		Codec:      fs.String("codec", "h264", "Recording codec: h264 or hevc"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Seed:       fs.Uint64("seed", 0, "Seed for random points"),
	}
}

// Validate checks option values that flag parsing cannot.
func (o *DrawOptions) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %dx%d", *o.Width, *o.Height)
	}
	if lw := *o.LineWidth; math.IsNaN(lw) || lw <= 0 || lw > math.MaxFloat32 {
		return fmt.Errorf("line width must be a positive number, got %v", lw)
	}
	if _, err := style.ParseHex(*o.Color); err != nil {
		return err
	}
	switch *o.Backend {
	case "gl":
	case "software":
		if !*o.Headless {
			return fmt.Errorf("the software backend has no window; use it with -headless")
		}
	default:
		return fmt.Errorf("unknown backend %q", *o.Backend)
	}
	if *o.OutputFile != "" && *o.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", *o.FPS)
	}
	if _, err := ParsePoints(*o.Points); err != nil {
		return err
	}
	return nil
}

// ParsePoints parses "x,y x,y ..." into pixel pairs. Coordinates are only
// checked for being numbers; range checks belong to the session.
func ParsePoints(s string) ([][2]float64, error) {
	var out [][2]float64
	for _, field := range strings.Fields(s) {
		xs, ys, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", field)
		}
		x, err := strconv.ParseFloat(xs, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: bad x: %w", field, err)
		}
		y, err := strconv.ParseFloat(ys, 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: bad y: %w", field, err)
		}
		out = append(out, [2]float64{x, y})
	}
	return out, nil
}
