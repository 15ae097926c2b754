package converter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/glcontext"
	"github.com/fosdem/glconvert/lib/metrics"
	"github.com/fosdem/glconvert/lib/rendering"
	"github.com/fosdem/glconvert/lib/rendering/shaders"
	"github.com/fosdem/glconvert/lib/stats"
	"github.com/google/uuid"
)

var ErrClosed = errors.New("conversion session is closed")

type Config struct {
	encdec.FrameCfg
	TileSize        int
	GLSLVersion     string
	DispatchTimeout time.Duration
	Debug           bool
	ShaderDumpDir   string
}

// Session owns one GL context, the Y and UV programs and the buffers they
// run on. It converts frames of a single resolution, one at a time, on the
// thread that created it.
type Session struct {
	ID     uuid.UUID
	Layout encdec.PlaneLayout
	cfg    Config

	ctx    glcontext.Context
	logger *slog.Logger
	debug  *rendering.DebugOutput

	yProgram  *rendering.Program
	uvProgram *rendering.Program

	// the input buffer is shared by both passes
	input    *rendering.StorageBuffer
	yOutput  *rendering.StorageBuffer
	uvOutput *rendering.StorageBuffer

	dispatcher rendering.Dispatcher
	metrics    metrics.SessionMetrics
	active     bool

	mutex  sync.Mutex
	closed bool
	frames uint64
}

// New acquires a context from the provider and builds everything a
// conversion needs. On failure every resource acquired so far, including
// the context, is released before returning.
func New(provider glcontext.Provider, cfg *Config) (_ *Session, err error) {
	layout, err := encdec.NewPlaneLayout(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("could not compute plane layout: %w", err)
	}
	if cfg.TileSize < 1 {
		return nil, fmt.Errorf("tile size must be at least 1, got %d", cfg.TileSize)
	}

	shaderer, err := shaders.NewShaderer()
	if err != nil {
		return nil, fmt.Errorf("could not get shaders: %w", err)
	}
	ySource, err := shaderer.PlaneSource(layout, encdec.PlaneY, cfg.TileSize, cfg.GLSLVersion)
	if err != nil {
		return nil, fmt.Errorf("could not generate y shader: %w", err)
	}
	uvSource, err := shaderer.PlaneSource(layout, encdec.PlaneUV, cfg.TileSize, cfg.GLSLVersion)
	if err != nil {
		return nil, fmt.Errorf("could not generate uv shader: %w", err)
	}

	ctx, err := provider.NewContext()
	if err != nil {
		return nil, fmt.Errorf("could not acquire GPU context: %w", err)
	}

	s := &Session{
		ID:     uuid.New(),
		Layout: layout,
		cfg:    *cfg,
		ctx:    ctx,
		dispatcher: rendering.Dispatcher{
			TileSize: cfg.TileSize,
			Timeout:  cfg.DispatchTimeout,
		},
	}
	s.logger = slog.With("module", "converter", "session", s.ID.String()[:8])
	defer func() {
		if err != nil {
			s.release()
		}
	}()

	if err = ctx.MakeCurrent(); err != nil {
		return nil, err
	}
	if err = rendering.Init(); err != nil {
		return nil, &glcontext.ContextError{Op: "load OpenGL entry points", Err: err}
	}
	if cfg.Debug {
		s.debug = rendering.EnableDebugOutput(s.logger)
	}

	if err = s.checkLimits(); err != nil {
		return nil, err
	}

	s.logger.Debug("Generated shaders", "y", ySource, "uv", uvSource)
	if cfg.ShaderDumpDir != "" {
		prefix := layout.String() + "_"
		if err = shaders.DumpSource(cfg.ShaderDumpDir, prefix+shaders.TemplateName(encdec.PlaneY), ySource); err != nil {
			return nil, err
		}
		if err = shaders.DumpSource(cfg.ShaderDumpDir, prefix+shaders.TemplateName(encdec.PlaneUV), uvSource); err != nil {
			return nil, err
		}
	}

	if s.yProgram, err = shaders.BuildComputeProgram(encdec.PlaneY, ySource); err != nil {
		return nil, err
	}
	if s.uvProgram, err = shaders.BuildComputeProgram(encdec.PlaneUV, uvSource); err != nil {
		return nil, err
	}

	if s.input, err = rendering.NewStorageBuffer(rendering.InputBinding, layout.InputByteCount()); err != nil {
		return nil, err
	}
	if s.yOutput, err = rendering.NewStorageBuffer(rendering.OutputBinding, layout.Y.ByteCount); err != nil {
		return nil, err
	}
	if s.uvOutput, err = rendering.NewStorageBuffer(rendering.OutputBinding, layout.UV.ByteCount); err != nil {
		return nil, err
	}

	s.metrics = metrics.NewSessionMetrics(layout.String())
	metrics.ActiveSessions.Inc()
	s.active = true

	s.logger.Info(fmt.Sprintf("Session ready for %s frames with %dx%d tiles", layout, cfg.TileSize, cfg.TileSize))
	return s, nil
}

func (s *Session) checkLimits() error {
	limits, err := rendering.QueryComputeLimits()
	if err != nil {
		return err
	}
	if err := limits.CheckTile(s.cfg.TileSize); err != nil {
		return err
	}
	if err := limits.CheckDispatch(0, 0, s.Layout.InputByteCount()); err != nil {
		return err
	}
	for _, p := range []encdec.Plane{s.Layout.Y, s.Layout.UV} {
		x, y, _ := encdec.WorkGroups(p, s.cfg.TileSize)
		if err := limits.CheckDispatch(x, y, p.ByteCount); err != nil {
			return fmt.Errorf("%s plane: %w", p.Kind, err)
		}
	}
	return nil
}

// Convert returns a newly allocated NV12 frame.
func (s *Session) Convert(frame []byte) ([]byte, error) {
	return s.ConvertInto(make([]byte, 0, s.Layout.TotalByteCount()), frame)
}

// ConvertInto appends the NV12 frame to dst. The frame length is checked
// before the GPU is touched.
func (s *Session) ConvertInto(dst []byte, frame []byte) ([]byte, error) {
	if err := encdec.ValidateFrame(encdec.YUY2Frames, s.Layout, frame); err != nil {
		return dst, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return dst, ErrClosed
	}

	out, err := s.convert(dst, frame)
	if err != nil {
		s.metrics.FramesFailed.Inc()
		return dst, fmt.Errorf("could not convert frame %d: %w", s.frames, err)
	}
	s.frames++
	s.metrics.FramesConverted.Inc()
	s.metrics.BytesUploaded.Add(float64(len(frame)))
	s.metrics.BytesRead.Add(float64(s.Layout.TotalByteCount()))
	return out, nil
}

func (s *Session) convert(dst []byte, frame []byte) ([]byte, error) {
	if err := s.ctx.MakeCurrent(); err != nil {
		return dst, err
	}

	start := time.Now()
	if err := s.input.Upload(frame); err != nil {
		return dst, fmt.Errorf("could not upload frame: %w", err)
	}
	s.metrics.UploadSeconds.Observe(time.Since(start).Seconds())

	// Y must be read back before the UV pass reuses the input binding
	start = time.Now()
	out, err := s.dispatcher.Run(s.yProgram, s.input, s.yOutput, s.Layout.Y, dst)
	if err != nil {
		return dst, fmt.Errorf("y pass failed: %w", err)
	}
	s.metrics.YPassSeconds.Observe(time.Since(start).Seconds())

	start = time.Now()
	out, err = s.dispatcher.Run(s.uvProgram, s.input, s.uvOutput, s.Layout.UV, out)
	if err != nil {
		return dst, fmt.Errorf("uv pass failed: %w", err)
	}
	s.metrics.UVPassSeconds.Observe(time.Since(start).Seconds())

	return out, nil
}

func (s *Session) Info() stats.SessionInfo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return stats.SessionInfo{
		ID:         s.ID.String(),
		Resolution: s.Layout.String(),
		TileSize:   s.cfg.TileSize,
		Frames:     s.frames,
		InputSize:  s.Layout.InputByteCount(),
		OutputSize: s.Layout.TotalByteCount(),
	}
}

// Close releases the GPU resources and the context. It is safe to call
// more than once.
func (s *Session) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.release()
	s.logger.Info(fmt.Sprintf("Session closed after %d frames", s.frames))
}

func (s *Session) release() {
	if s.ctx == nil {
		return
	}
	if err := s.ctx.MakeCurrent(); err == nil {
		s.uvOutput.Delete()
		s.yOutput.Delete()
		s.input.Delete()
		s.uvProgram.Delete()
		s.yProgram.Delete()
		s.debug.Disable()
	}
	s.ctx.Destroy()
	s.ctx = nil

	if s.active {
		metrics.ActiveSessions.Dec()
		s.active = false
	}
}
