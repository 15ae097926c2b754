// Package bench drives conversions from configured inputs to an output,
// timing every frame and optionally checking it against the CPU reference.
package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/converter"
	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/glcontext"
	"github.com/fosdem/glconvert/lib/rawfile"
	"github.com/fosdem/glconvert/lib/stats"
)

type Bench struct {
	Inputs []Input
	Output Output
	Stats  *stats.Stats

	// NewConverter opens a conversion session for one resolution
	NewConverter func(cfg *converter.Config) (converter.Converter, error)

	cfg      *config.Config
	alloc    encdec.FrameAllocator
	sessions map[encdec.FrameCfg]converter.Converter
	listener map[string][]EventListener
	log      *slog.Logger
}

type Result struct {
	Input      string        `json:"input"`
	Clip       string        `json:"clip"`
	Resolution string        `json:"resolution"`
	Frames     int           `json:"frames"`
	Iterations int           `json:"iterations"`
	Verified   bool          `json:"verified"`
	FrameTime  stats.Summary `json:"frame_time_ms"`
}

type VerifyError struct {
	Clip   string
	Frame  int
	Offset int
	Got    byte
	Want   byte
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s frame %d differs from the reference at byte %d: got %#x, want %#x", e.Clip, e.Frame, e.Offset, e.Got, e.Want)
}

func New(cfg *config.Config, provider glcontext.Provider, st *stats.Stats) (*Bench, error) {
	inputs, err := buildInputs(cfg)
	if err != nil {
		return nil, err
	}
	output, err := buildOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	b := &Bench{
		Inputs:   inputs,
		Output:   output,
		Stats:    st,
		cfg:      cfg,
		alloc:    &encdec.DumbFrameAllocator{},
		sessions: make(map[encdec.FrameCfg]converter.Converter),
		listener: make(map[string][]EventListener),
		log:      slog.With("module", "bench"),
	}

	switch cfg.Backend {
	case "cpu":
		b.NewConverter = func(c *converter.Config) (converter.Converter, error) {
			return converter.NewCPU(c)
		}
	default:
		b.NewConverter = func(c *converter.Config) (converter.Converter, error) {
			return converter.New(provider, c)
		}
	}
	return b, nil
}

func (b *Bench) converterConfig(frames encdec.FrameCfg) *converter.Config {
	return &converter.Config{
		FrameCfg:        frames,
		TileSize:        b.cfg.TileSize,
		GLSLVersion:     b.cfg.GLSLVersion,
		DispatchTimeout: b.cfg.DispatchTimeout(),
		Debug:           b.cfg.Debug,
		ShaderDumpDir:   b.cfg.ShaderDumpDir.String(),
	}
}

// session returns the cached session for a resolution, opening it first if
// needed.
func (b *Bench) session(frames encdec.FrameCfg) (converter.Converter, error) {
	if s, ok := b.sessions[frames]; ok {
		return s, nil
	}
	s, err := b.NewConverter(b.converterConfig(frames))
	if err != nil {
		return nil, fmt.Errorf("could not open %s session: %w", frames, err)
	}
	b.sessions[frames] = s
	return s, nil
}

// Run converts every clip of every input once, in input name order.
func (b *Bench) Run(ctx context.Context) ([]Result, error) {
	var results []Result
	for _, input := range b.Inputs {
		clips, err := input.Load()
		if err != nil {
			return results, fmt.Errorf("could not load input %s: %w", input.Name(), err)
		}
		if len(clips) == 0 {
			b.log.Warn(fmt.Sprintf("Input %s has no frames", input.Name()))
		}
		for i, clip := range clips {
			if ctx.Err() != nil {
				closeAll(clips[i:])
				return results, ctx.Err()
			}
			res, err := b.convertAndClose(ctx, input.Name(), clip)
			if err != nil {
				closeAll(clips[i+1:])
				return results, err
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func closeAll(clips []*Clip) {
	for _, c := range clips {
		_ = c.Close()
	}
}

func (b *Bench) convertAndClose(ctx context.Context, input string, clip *Clip) (Result, error) {
	defer func() {
		if err := clip.Close(); err != nil {
			b.log.Warn("Could not release clip", "clip", clip.Name, "err", err)
		}
	}()
	return b.ConvertClip(ctx, input, clip)
}

// ConvertClip runs the warmup and the timed iterations for one clip and
// hands the output of the first iteration to the output.
func (b *Bench) ConvertClip(ctx context.Context, input string, clip *Clip) (Result, error) {
	res := Result{
		Input:      input,
		Clip:       clip.Name,
		Resolution: clip.FrameCfg.String(),
		Frames:     len(clip.Frames),
		Iterations: b.cfg.Benchmark.Iterations,
	}
	if len(clip.Frames) == 0 {
		return res, nil
	}

	s, err := b.session(clip.FrameCfg)
	if err != nil {
		return res, err
	}

	var scratch []byte
	for range b.cfg.Benchmark.Warmup {
		scratch, err = s.ConvertInto(scratch[:0], clip.Frames[0])
		if err != nil {
			return res, fmt.Errorf("warmup of %s failed: %w", clip.Name, err)
		}
	}

	output := make([]byte, 0, len(clip.Frames)*s.Info().OutputSize)
	var samples []time.Duration
	for it := range b.cfg.Benchmark.Iterations {
		for i, frame := range clip.Frames {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}

			start := time.Now()
			var out []byte
			if it == 0 {
				output, err = s.ConvertInto(output, frame)
				if err == nil {
					out = output[len(output)-s.Info().OutputSize:]
				}
			} else {
				scratch, err = s.ConvertInto(scratch[:0], frame)
				out = scratch
			}
			took := time.Since(start)
			if err != nil {
				b.Stats.Failed()
				return res, fmt.Errorf("could not convert %s frame %d: %w", clip.Name, i, err)
			}
			b.Stats.Update(len(frame), took)
			samples = append(samples, took)

			if it == 0 {
				b.invoke(EventConverted, EventDataConverted{
					Clip:   clip.Name,
					Index:  i,
					Input:  &encdec.Frame{Data: frame, Width: clip.Width, Height: clip.Height, Type: encdec.YUY2Frames},
					Output: &encdec.Frame{Data: out, Width: clip.Width, Height: clip.Height, Type: encdec.NV12Frames},
					Took:   took,
				})
			}
		}
	}

	if b.cfg.Benchmark.Verify {
		if err := b.verify(clip, output); err != nil {
			return res, err
		}
		res.Verified = true
	}

	b.Stats.SetSession(s.Info())
	res.FrameTime = stats.Summarize(samples)

	if err := b.Output.Write(clip, output); err != nil {
		return res, fmt.Errorf("could not write output for %s: %w", clip.Name, err)
	}

	b.log.Info(fmt.Sprintf("Converted %s: %d frames x %d, mean %.3fms, median %.3fms",
		clip.Name, res.Frames, res.Iterations, res.FrameTime.Mean, res.FrameTime.Median))
	return res, nil
}

func (b *Bench) verify(clip *Clip, output []byte) error {
	ref, err := b.alloc.NewFrame(&encdec.FrameInfo{FrameCfg: clip.FrameCfg, FrameType: encdec.NV12Frames})
	if err != nil {
		return err
	}
	l, err := encdec.NewPlaneLayout(clip.Width, clip.Height)
	if err != nil {
		return err
	}

	size := l.TotalByteCount()
	for i, frame := range clip.Frames {
		want, err := encdec.ConvertYUY2ToNV12(ref.Data[:0], frame, l)
		if err != nil {
			return err
		}
		got := output[i*size : (i+1)*size]
		if bytes.Equal(got, want) {
			continue
		}
		for j := range got {
			if got[j] != want[j] {
				return &VerifyError{Clip: clip.Name, Frame: i, Offset: j, Got: got[j], Want: want[j]}
			}
		}
	}
	return nil
}

// Watch converts files that appear in inputs with inotify enabled until
// ctx is cancelled. Conversion happens on the calling goroutine.
func (b *Bench) Watch(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type event struct {
		input string
		file  *rawfile.File
	}
	events := make(chan event)
	watching := 0
	for _, input := range b.Inputs {
		d, ok := input.(*DirInput)
		if !ok || !d.Watching() {
			continue
		}
		files, err := rawfile.Watch(ctx, d.Dir())
		if err != nil {
			return fmt.Errorf("could not watch input %s: %w", d.Name(), err)
		}
		watching++
		b.log.Info(fmt.Sprintf("Watching %s for new frame files", d.Dir()))
		go func(name string) {
			for f := range files {
				select {
				case events <- event{input: name, file: f}:
				case <-ctx.Done():
					return
				}
			}
		}(d.Name())
	}
	if watching == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			clip, err := LoadFile(ev.file)
			if err != nil {
				b.log.Warn("Could not load new frame file", "name", ev.file.Name(), "err", err)
				continue
			}
			_, err = b.convertAndClose(ctx, ev.input, clip)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if err != nil {
				b.log.Error("Conversion failed", "name", ev.file.Name(), "err", err)
			}
		}
	}
}

func (b *Bench) Close() {
	for frames, s := range b.sessions {
		s.Close()
		delete(b.sessions, frames)
	}
}
