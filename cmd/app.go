package main

import (
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/golinedraw/console"
	"github.com/richinsley/golinedraw/encoder"
	"github.com/richinsley/golinedraw/export"
	"github.com/richinsley/golinedraw/geometry"
	"github.com/richinsley/golinedraw/glfwcontext"
	"github.com/richinsley/golinedraw/graphics"
	"github.com/richinsley/golinedraw/options"
	"github.com/richinsley/golinedraw/renderer"
	"github.com/richinsley/golinedraw/session"
	"github.com/richinsley/golinedraw/software"
	"github.com/richinsley/golinedraw/style"
)

type app struct {
	opts     *options.DrawOptions
	canvas   geometry.Canvas
	session  *session.Session
	frames   graphics.Snapshotter
	exporter *export.Files
	recorder *encoder.Recorder

	// Only set for the gl backend.
	window   *glfwcontext.Context
	renderer *renderer.Renderer
}

func newApp(opts *options.DrawOptions) (*app, error) {
	a := &app{
		opts:   opts,
		canvas: geometry.Canvas{Width: *opts.Width, Height: *opts.Height},
	}

	var backend graphics.Backend
	switch *opts.Backend {
	case "software":
		sw := software.New(a.canvas)
		backend, a.frames = sw, sw
	default:
		if err := glfwcontext.InitGraphics(); err != nil {
			return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
		}
		win, err := glfwcontext.New(a.canvas, "golinedraw", !*opts.Headless)
		if err != nil {
			glfwcontext.TerminateGraphics()
			return nil, fmt.Errorf("failed to create window: %w", err)
		}
		a.window = win
		a.renderer, err = renderer.NewRenderer(a.canvas, win)
		if err != nil {
			a.shutdown()
			return nil, fmt.Errorf("failed to create renderer: %w", err)
		}
		backend, a.frames = a.renderer, a.renderer
	}

	color, _ := style.ParseHex(*opts.Color)
	sessOpts := []session.Option{
		session.WithStyle(style.LineStyle{Width: float32(*opts.LineWidth), Color: color}),
	}
	if *opts.Seed != 0 {
		sessOpts = append(sessOpts, session.WithRand(rand.New(rand.NewPCG(*opts.Seed, *opts.Seed))))
	}
	s, err := session.New(a.canvas, backend, sessOpts...)
	if err != nil {
		a.shutdown()
		return nil, err
	}
	a.session = s
	a.exporter = &export.Files{Drawing: s, Frames: a.frames}
	log.Printf("Session %s on a %dx%d canvas (%s backend)", s.ID(), a.canvas.Width, a.canvas.Height, *opts.Backend)

	if *opts.OutputFile != "" {
		a.recorder, err = encoder.NewRecorder(encoder.Config{
			Width:      a.canvas.Width,
			Height:     a.canvas.Height,
			FPS:        *opts.FPS,
			Codec:      *opts.Codec,
			OutputFile: *opts.OutputFile,
			FFMPEGPath: *opts.FFMPEGPath,
		})
		if err != nil {
			a.shutdown()
			return nil, fmt.Errorf("failed to start recorder: %w", err)
		}
		s.AddSink(a.recorder)
	}
	return a, nil
}

func (a *app) run() error {
	points, _ := options.ParsePoints(*a.opts.Points)
	for _, p := range points {
		if err := a.session.AddPixel(p[0], p[1]); err != nil {
			log.Printf("Skipping point: %v", err)
		}
	}

	script, closeScript, err := a.openScript()
	if err != nil {
		return err
	}
	defer closeScript()

	if *a.opts.Headless {
		if script != nil {
			if err := console.Run(script, a.session, a.exporter); err != nil {
				return fmt.Errorf("script: %w", err)
			}
		}
	} else {
		if script == nil {
			script = os.Stdin
		}
		waker := console.NewWaker(glfwcontext.Wake)
		a.interactive(console.Scan(script, waker.Wake))
		// The scanner may outlive the window; GLFW must not be poked once
		// shutdown terminates it.
		waker.Stop()
	}

	return a.finalExports()
}

func (a *app) openScript() (io.Reader, func(), error) {
	switch *a.opts.Script {
	case "":
		return nil, func() {}, nil
	case "-":
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(*a.opts.Script)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open script: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func (a *app) interactive(commands <-chan console.Line) {
	a.registerKeys()
	a.window.SetPointerHandler(a.session)

	for !a.window.ShouldClose() {
		a.updateTitle()
		a.renderer.Present()
		a.window.WaitEvents()

	drain:
		for {
			select {
			case line, ok := <-commands:
				if !ok {
					commands = nil
					break drain
				}
				a.apply(line)
			default:
				break drain
			}
		}
	}
}

func (a *app) apply(line console.Line) {
	if line.Err != nil {
		log.Printf("%q: %v", line.Text, line.Err)
		return
	}
	quit, err := line.Command.Apply(a.session, a.exporter)
	if err != nil {
		log.Printf("%q: %v", line.Text, err)
	}
	if quit {
		a.window.RequestClose()
	}
}

func (a *app) registerKeys() {
	s := a.session
	a.window.RegisterKeyCallback(glfw.KeyC, s.Clear)
	a.window.RegisterKeyCallback(glfw.KeyR, func() {
		if _, err := s.AddRandom(); err != nil {
			log.Printf("Random point: %v", err)
		}
	})

	widen := func(delta float32) func() {
		return func() {
			if err := s.SetWidth(style.ClampWidth(s.Style().Width + delta)); err != nil {
				log.Printf("Line width: %v", err)
			}
		}
	}
	a.window.RegisterKeyCallback(glfw.KeyEqual, widen(1))
	a.window.RegisterKeyCallback(glfw.KeyKPAdd, widen(1))
	a.window.RegisterKeyCallback(glfw.KeyMinus, widen(-1))
	a.window.RegisterKeyCallback(glfw.KeyKPSubtract, widen(-1))

	for i, c := range style.Palette {
		a.window.RegisterKeyCallback(glfw.Key1+glfw.Key(i), func() { s.SetColor(c) })
	}

	a.window.RegisterKeyCallback(glfw.KeyS, func() {
		if err := a.exporter.ExportPNG(""); err != nil {
			log.Printf("PNG export: %v", err)
		}
	})
	a.window.RegisterKeyCallback(glfw.KeyP, func() {
		if err := a.exporter.ExportPDF(""); err != nil {
			log.Printf("PDF export: %v", err)
		}
	})
}

func (a *app) updateTitle() {
	ls := a.session.Style()
	a.window.SetTitle(fmt.Sprintf("golinedraw - width %g, color %s, %d points",
		ls.Width, ls.Color.Hex(), len(a.session.Points())))
}

func (a *app) finalExports() error {
	if p := *a.opts.Snapshot; p != "" {
		if err := a.exporter.ExportPNG(p); err != nil {
			return err
		}
	}
	if p := *a.opts.PDF; p != "" {
		if err := a.exporter.ExportPDF(p); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) shutdown() {
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			log.Printf("Recording failed: %v", err)
		} else {
			log.Printf("Successfully recorded to %s", *a.opts.OutputFile)
		}
		a.recorder = nil
	}
	if a.renderer != nil {
		a.renderer.Shutdown()
		a.renderer = nil
	}
	if a.window != nil {
		a.window.Shutdown()
		a.window = nil
		glfwcontext.TerminateGraphics()
	}
}
