// Package encoder records rendered frames to a video file by piping raw RGBA
// frames into an ffmpeg process.
package encoder

import (
	"fmt"
	"image"
	"io"
	"log"
	"runtime"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// frame is one packed RGBA video frame, ready for the ffmpeg pipe.
type frame struct {
	pixels []byte
	pts    int64
}

// Config describes the output video.
type Config struct {
	Width      int
	Height     int
	FPS        int
	Codec      string // "h264" or "hevc"
	OutputFile string
	FFMPEGPath string
}

// Recorder encodes one video frame per call to WriteFrame. It implements
// session.FrameSink.
type Recorder struct {
	cfg    Config
	frames chan *frame
	done   chan error
	pts    int64

	closeOnce sync.Once
	closeErr  error
}

// getArgs builds the ffmpeg input and output arguments for cfg.
func getArgs(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": cfg.FPS,
	}

	outputArgs = ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	switch runtime.GOOS {
	case "darwin":
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
	default:
		if cfg.Codec == "hevc" {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
	}

	if cfg.Codec == "hevc" && strings.HasSuffix(cfg.OutputFile, ".mp4") {
		outputArgs["tag:v"] = "hvc1"
	}
	return
}

// NewRecorder starts ffmpeg and returns a recorder feeding it.
func NewRecorder(cfg Config) (*Recorder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := getArgs(cfg)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}

	run := func() error {
		err := ffmpegCmd.Run()
		// Unblock the writer if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		return err
	}
	log.Printf("Recording %dx%d@%d to %s", cfg.Width, cfg.Height, cfg.FPS, cfg.OutputFile)
	return newRecorder(cfg, pipeWriter, run), nil
}

func (cfg Config) validate() error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("invalid video size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", cfg.FPS)
	}
	if cfg.OutputFile == "" {
		return fmt.Errorf("no output file")
	}
	switch cfg.Codec {
	case "", "h264", "hevc":
	default:
		return fmt.Errorf("unsupported codec %q", cfg.Codec)
	}
	return nil
}

// newRecorder wires the frame pump to an arbitrary process. run is started in
// its own goroutine and must consume everything written to w.
func newRecorder(cfg Config, w io.WriteCloser, run func() error) *Recorder {
	r := &Recorder{
		cfg:    cfg,
		frames: make(chan *frame, 5),
		done:   make(chan error, 1),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- run()
	}()

	go func() {
		var writeErr error
		for f := range r.frames {
			if writeErr != nil {
				continue
			}
			if _, err := w.Write(f.pixels); err != nil {
				writeErr = fmt.Errorf("failed to write frame %d: %w", f.pts, err)
				log.Printf("Recorder: %v", writeErr)
			}
		}
		w.Close()
		runErr := <-errc
		if runErr != nil {
			r.done <- fmt.Errorf("ffmpeg failed: %w", runErr)
			return
		}
		r.done <- writeErr
	}()
	return r
}

// WriteFrame queues img for encoding. The image must match the configured size.
func (r *Recorder) WriteFrame(img *image.RGBA) error {
	b := img.Bounds()
	if b.Dx() != r.cfg.Width || b.Dy() != r.cfg.Height {
		return fmt.Errorf("frame is %dx%d, recorder expects %dx%d", b.Dx(), b.Dy(), r.cfg.Width, r.cfg.Height)
	}
	r.sendVideo(&frame{pixels: packRGBA(img), pts: r.pts})
	r.pts++
	return nil
}

// sendVideo queues a packed frame, blocking while the queue is full.
func (r *Recorder) sendVideo(f *frame) {
	r.frames <- f
}

// Frames returns the number of frames queued so far.
func (r *Recorder) Frames() int64 { return r.pts }

// Close flushes queued frames and waits for the encoder to exit.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		close(r.frames)
		r.closeErr = <-r.done
		log.Printf("Recorder finished after %d frames", r.pts)
	})
	return r.closeErr
}

// packRGBA returns the pixels of img without row padding.
func packRGBA(img *image.RGBA) []byte {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	out := make([]byte, rowLen*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		start := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*rowLen:], img.Pix[start:start+rowLen])
	}
	return out
}
