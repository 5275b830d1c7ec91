// Package console parses typed drawing commands, the keyboard counterpart of
// pointer input: "120 80" adds a point, "width 5" sets the stroke and so on.
package console

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/richinsley/golinedraw/session"
)

// Verb identifies a console command.
type Verb string

const (
	VerbAdd    Verb = "add"
	VerbRandom Verb = "random"
	VerbClear  Verb = "clear"
	VerbWidth  Verb = "width"
	VerbColor  Verb = "color"
	VerbPNG    Verb = "png"
	VerbPDF    Verb = "pdf"
	VerbQuit   Verb = "quit"
)

// Command is one parsed console line.
type Command struct {
	Verb  Verb
	X, Y  float64
	Width float32
	Arg   string // color or output path
}

// Exporter writes the current drawing to a file.
type Exporter interface {
	ExportPNG(path string) error
	ExportPDF(path string) error
}

// Parse reads a single command. Blank lines and lines starting with '#' parse
// to a zero Command with a nil error. Bad input yields a *session.ValidationError.
func Parse(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return Command{}, nil
	}

	verb := Verb(strings.ToLower(fields[0]))
	args := fields[1:]

	// A bare "x y" pair is shorthand for add.
	if _, err := strconv.ParseFloat(fields[0], 64); err == nil {
		verb = VerbAdd
		args = fields
	}

	switch verb {
	case VerbAdd:
		if len(args) != 2 {
			return Command{}, &session.ValidationError{Field: "point", Value: line, Reason: "want two coordinates"}
		}
		x, err := parseCoord(args[0])
		if err != nil {
			return Command{}, err
		}
		y, err := parseCoord(args[1])
		if err != nil {
			return Command{}, err
		}
		return Command{Verb: VerbAdd, X: x, Y: y}, nil
	case VerbWidth:
		if len(args) != 1 {
			return Command{}, &session.ValidationError{Field: "line width", Value: line, Reason: "want one number"}
		}
		w, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return Command{}, &session.ValidationError{Field: "line width", Value: args[0], Reason: "not a number"}
		}
		return Command{Verb: VerbWidth, Width: float32(w)}, nil
	case VerbColor, VerbPNG, VerbPDF:
		if len(args) != 1 {
			return Command{}, &session.ValidationError{Field: string(verb), Value: line, Reason: "want one argument"}
		}
		return Command{Verb: verb, Arg: args[0]}, nil
	case VerbRandom, VerbClear, VerbQuit:
		if len(args) != 0 {
			return Command{}, &session.ValidationError{Field: string(verb), Value: line, Reason: "takes no arguments"}
		}
		return Command{Verb: verb}, nil
	}
	return Command{}, &session.ValidationError{Field: "command", Value: fields[0], Reason: "unknown command"}
}

func parseCoord(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &session.ValidationError{Field: "coordinate", Value: s, Reason: "not a number"}
	}
	return v, nil
}

// Apply runs the command against the session. It reports whether the command
// asked to quit.
func (c Command) Apply(s *session.Session, ex Exporter) (quit bool, err error) {
	switch c.Verb {
	case "":
	case VerbAdd:
		err = s.AddPixel(c.X, c.Y)
	case VerbRandom:
		_, err = s.AddRandom()
	case VerbClear:
		s.Clear()
	case VerbWidth:
		err = s.SetWidth(c.Width)
	case VerbColor:
		err = s.SetColorHex(c.Arg)
	case VerbPNG, VerbPDF:
		if ex == nil {
			return false, fmt.Errorf("%s export is not available", c.Verb)
		}
		if c.Verb == VerbPNG {
			err = ex.ExportPNG(c.Arg)
		} else {
			err = ex.ExportPDF(c.Arg)
		}
	case VerbQuit:
		quit = true
	default:
		err = fmt.Errorf("unhandled command %q", c.Verb)
	}
	return quit, err
}

// Line is a parsed command together with its source line.
type Line struct {
	Text    string
	Command Command
	Err     error
}

// Scan reads r line by line and sends parsed commands on the returned channel,
// which is closed at EOF. It runs in its own goroutine and never touches a
// session; the receiver applies commands on its own thread. wake, if not nil,
// is called after each send.
func Scan(r io.Reader, wake func()) <-chan Line {
	out := make(chan Line, 16)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			text := sc.Text()
			cmd, err := Parse(text)
			out <- Line{Text: text, Command: cmd, Err: err}
			if wake != nil {
				wake()
			}
		}
		if err := sc.Err(); err != nil {
			log.Printf("console: read error: %v", err)
		}
		if wake != nil {
			wake()
		}
	}()
	return out
}

// Waker forwards wake-ups from the scanning goroutine to fn until Stop is
// called. After Stop returns fn is never called again, so the event loop can
// tear down whatever fn pokes.
type Waker struct {
	mu      sync.Mutex
	fn      func()
	stopped bool
}

func NewWaker(fn func()) *Waker {
	return &Waker{fn: fn}
}

// Wake calls fn unless the waker has been stopped.
func (w *Waker) Wake() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.fn()
	}
}

// Stop waits for a running Wake to finish and disables later ones.
func (w *Waker) Stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
}

// Run parses every line of r and applies it in order, stopping at quit or the
// first read error. Validation errors are logged and the run continues.
func Run(r io.Reader, s *session.Session, ex Exporter) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		cmd, err := Parse(sc.Text())
		if err == nil {
			var quit bool
			quit, err = cmd.Apply(s, ex)
			if quit {
				return nil
			}
		}
		if err != nil {
			log.Printf("line %d: %v", lineNo, err)
		}
	}
	return sc.Err()
}
