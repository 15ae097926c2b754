package bench

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fosdem/glconvert/lib/config"
	"github.com/fosdem/glconvert/lib/rawfile"
)

// Output receives the NV12 frames of one clip, in order.
type Output interface {
	Write(clip *Clip, nv12 []byte) error
}

type DirOutput struct {
	cfg *config.DirOutputCfg
}

func (d *DirOutput) Write(clip *Clip, nv12 []byte) error {
	path := rawfile.OutputPath(clip.Name, d.cfg.Path.String())
	if err := rawfile.WriteOutput(path, nv12); err != nil {
		return err
	}
	slog.Debug(fmt.Sprintf("Wrote %d bytes to %s", len(nv12), filepath.Base(path)), "module", "bench")
	return nil
}

// NullOutput drops everything, for pure benchmarks.
type NullOutput struct {
}

func (n *NullOutput) Write(clip *Clip, nv12 []byte) error {
	return nil
}

func buildOutput(cfg *config.OutputCfg) (Output, error) {
	switch c := cfg.Cfg.(type) {
	case *config.DirOutputCfg:
		return &DirOutput{cfg: c}, nil
	case *config.NullOutputCfg:
		return &NullOutput{}, nil
	default:
		return nil, fmt.Errorf("unsupported output type %T", c)
	}
}
