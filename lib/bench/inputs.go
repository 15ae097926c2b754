package bench

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/rawfile"
	"github.com/fosdem/glconvert/lib/testpattern"
	"github.com/fosdem/glconvert/lib/utils"
)

// Clip is a run of same-sized YUY2 frames from one file or pattern.
type Clip struct {
	Name   string
	Path   string
	Frames [][]byte
	encdec.FrameCfg

	release func() error
}

func (c *Clip) Close() error {
	if c.release == nil {
		return nil
	}
	release := c.release
	c.release = nil
	c.Frames = nil
	return release()
}

// Input produces clips for conversion.
type Input interface {
	Name() string
	Load() ([]*Clip, error)
}

type DirInput struct {
	name string
	cfg  *config.DirInputCfg
}

func NewDirInput(name string, cfg *config.DirInputCfg) *DirInput {
	return &DirInput{name: name, cfg: cfg}
}

func (d *DirInput) Name() string {
	return d.name
}

func (d *DirInput) Watching() bool {
	return d.cfg.Inotify
}

func (d *DirInput) Dir() string {
	return d.cfg.Path.String()
}

func (d *DirInput) Load() ([]*Clip, error) {
	files, err := rawfile.Discover(d.Dir())
	if err != nil {
		return nil, err
	}
	var clips []*Clip
	for _, f := range files {
		clip, err := LoadFile(f)
		if err != nil {
			slog.Warn("Skipping frame file", "module", "bench", "input", d.name, "err", err)
			continue
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

// LoadFile maps a frame file and splits it into frames. The frames point
// into the mapping, so they are only valid until the clip is closed.
func LoadFile(f *rawfile.File) (*Clip, error) {
	m, err := rawfile.Open(f.Path)
	if err != nil {
		return nil, err
	}
	n, err := f.FrameCount(len(m.Data))
	if err != nil {
		_ = m.Close()
		return nil, err
	}

	size := len(m.Data) / n
	frames := make([][]byte, n)
	for i := range frames {
		frames[i] = m.Data[i*size : (i+1)*size]
	}
	return &Clip{
		Name:     f.Name(),
		Path:     f.Path,
		Frames:   frames,
		FrameCfg: f.FrameCfg,
		release:  m.Close,
	}, nil
}

type PatternInput struct {
	name string
	cfg  *config.PatternInputCfg
}

func NewPatternInput(name string, cfg *config.PatternInputCfg) *PatternInput {
	return &PatternInput{name: name, cfg: cfg}
}

func (p *PatternInput) Name() string {
	return p.name
}

func (p *PatternInput) Load() ([]*Clip, error) {
	w, h := p.cfg.Width, p.cfg.Height
	var frame []byte
	switch p.cfg.Pattern {
	case "uniform":
		y, u, v := uint8(0x80), uint8(0x80), uint8(0x80)
		if p.cfg.Colour != "" {
			y, u, v = testpattern.RGBToYCbCr(utils.ColourParse(p.cfg.Colour))
		}
		frame = testpattern.Uniform(w, h, y, u, v)
	case "ramp":
		frame = testpattern.LumaRamp(w, h, 0x80, 0x80)
	case "bars":
		frame = testpattern.ColorBars(w, h)
	case "noise":
		frame = testpattern.Noise(w, h, p.cfg.Seed)
	default:
		return nil, fmt.Errorf("unknown pattern %s", p.cfg.Pattern)
	}
	return []*Clip{{
		Name:     fmt.Sprintf("%s_%s.yuy2", p.cfg.FrameCfg, p.cfg.Pattern),
		Frames:   [][]byte{frame},
		FrameCfg: p.cfg.FrameCfg,
	}}, nil
}

func buildInputs(cfg *config.Config) ([]Input, error) {
	var inputs []Input
	for _, name := range cfg.InputNames() {
		switch c := cfg.Inputs[name].Cfg.(type) {
		case *config.DirInputCfg:
			inputs = append(inputs, NewDirInput(name, c))
		case *config.PatternInputCfg:
			inputs = append(inputs, NewPatternInput(name, c))
		default:
			return nil, fmt.Errorf("input %s has unsupported type %T", name, c)
		}
	}
	return inputs, nil
}
