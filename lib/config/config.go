package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

const (
	DefaultTileSize    = 16
	DefaultGLSLVersion = "430 core"
)

type Config struct {
	Inputs            map[string]*InputCfg
	Output            *OutputCfg
	Backend           string
	TileSize          int    `yaml:"tile_size"`
	GLSLVersion       string `yaml:"glsl_version"`
	DispatchTimeoutMs int    `yaml:"dispatch_timeout_ms"`
	Debug             bool
	ShaderDumpDir     CfgPath `yaml:"shader_dump_dir"`
	LogLevel          string  `yaml:"log_level"`
	Benchmark         *BenchmarkCfg
	Api               *ApiCfg
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			slog.Warn("Could not close config file", "module", "config", "name", filename, "err", err)
		}
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f)
	cfg := &Config{}
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	cfg.setDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, err
}

func (c *Config) setDefaults() {
	if c.Backend == "" {
		c.Backend = "gpu"
	}
	if c.TileSize == 0 {
		c.TileSize = DefaultTileSize
	}
	if c.GLSLVersion == "" {
		c.GLSLVersion = DefaultGLSLVersion
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Output == nil {
		c.Output = &OutputCfg{OutputCfgStub: OutputCfgStub{Type: "null"}, Cfg: &NullOutputCfg{}}
	}
	if c.Benchmark == nil {
		c.Benchmark = &BenchmarkCfg{Iterations: 1}
	}
}

func (c *Config) Validate() error {
	var err error
	if len(c.Inputs) < 1 {
		return fmt.Errorf("at least one input should be defined")
	}
	for k, v := range c.Inputs {
		err = v.Validate()
		if err != nil {
			return fmt.Errorf("input %s is invalid: %w", k, err)
		}
	}
	if c.Output == nil {
		return fmt.Errorf("an output should be defined")
	}
	err = c.Output.Validate()
	if err != nil {
		return fmt.Errorf("output is invalid: %w", err)
	}

	if !slices.Contains(Backends, c.Backend) {
		return fmt.Errorf("backend must be one of %s, not %q", strings.Join(Backends, ", "), c.Backend)
	}
	if c.TileSize < 1 || c.TileSize > 32 {
		return fmt.Errorf("tile_size must be between 1 and 32, got %d", c.TileSize)
	}
	if c.GLSLVersion == "" {
		return fmt.Errorf("please set glsl_version in the config")
	}
	if c.DispatchTimeoutMs < 0 {
		return fmt.Errorf("dispatch_timeout_ms must be nonnegative")
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("%s is not a valid log_level", c.LogLevel)
	}

	if c.Benchmark != nil {
		err = c.Benchmark.Validate()
		if err != nil {
			return fmt.Errorf("benchmark settings are invalid: %w", err)
		}
	}
	if c.Api != nil {
		err = c.Api.Validate()
		if err != nil {
			return fmt.Errorf("api settings are invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) DispatchTimeout() time.Duration {
	return time.Duration(c.DispatchTimeoutMs) * time.Millisecond
}

// InputNames returns the input names in a stable order.
func (c *Config) InputNames() []string {
	names := make([]string, 0, len(c.Inputs))
	for k := range c.Inputs {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Inputs:\n")

	for _, k := range c.InputNames() {
		b.WriteString(fmt.Sprintf("  %s (%s)\n", k, c.Inputs[k].Type))
	}

	b.WriteString(fmt.Sprintf("\nOutput: %s\n", c.Output.Type))
	b.WriteString(fmt.Sprintf("\nBackend: %s\n", c.Backend))
	b.WriteString(fmt.Sprintf("Tiles: %dx%d, GLSL %s\n", c.TileSize, c.TileSize, c.GLSLVersion))
	if c.Benchmark != nil {
		b.WriteString(fmt.Sprintf("Benchmark: %d iterations after %d warmup\n", c.Benchmark.Iterations, c.Benchmark.Warmup))
	}
	if c.Api != nil {
		b.WriteString(fmt.Sprintf("API: %s\n", c.Api.Bind))
	}

	return b.String()
}

type Valid interface {
	Validate() error
}

type InputCfgStub struct {
	Type string
}

type InputCfg struct {
	InputCfgStub
	Cfg Valid
}

// DirInputCfg reads every <width>x<height> file in a directory.
type DirInputCfg struct {
	Path    CfgPath
	Inotify bool
}

// PatternInputCfg generates a synthetic frame.
type PatternInputCfg struct {
	encdec.FrameCfg `yaml:"frames"`
	Pattern         string
	Seed            uint32
	Colour          string
}

var Backends = []string{"gpu", "cpu"}

var Patterns = []string{"uniform", "ramp", "bars", "noise"}

type OutputCfgStub struct {
	Type string
}

type OutputCfg struct {
	OutputCfgStub
	Cfg Valid
}

type DirOutputCfg struct {
	Path CfgPath
}

type NullOutputCfg struct {
}

type BenchmarkCfg struct {
	Iterations int
	Warmup     int
	Verify     bool
}

type ApiCfg struct {
	Bind           string
	EnableProfiler bool `yaml:"enable_profiler"`
}

func (s *InputCfg) UnmarshalYAML(b []byte) error {
	err := yaml.Unmarshal(b, &s.InputCfgStub)
	if err != nil {
		return err
	}

	switch s.Type {
	case "dir":
		cfg := DirInputCfg{}
		s.Cfg = &cfg
		return yaml.Unmarshal(b, &cfg)
	case "pattern":
		cfg := PatternInputCfg{}
		s.Cfg = &cfg
		return yaml.Unmarshal(b, &cfg)
	default:
		return fmt.Errorf("unknown input type: %s", s.Type)
	}
}

func (s *OutputCfg) UnmarshalYAML(b []byte) error {
	err := yaml.Unmarshal(b, &s.OutputCfgStub)
	if err != nil {
		return err
	}

	switch s.Type {
	case "dir":
		cfg := DirOutputCfg{}
		s.Cfg = &cfg
		return yaml.Unmarshal(b, &cfg)
	case "null":
		cfg := NullOutputCfg{}
		s.Cfg = &cfg
		return yaml.Unmarshal(b, &cfg)
	default:
		return fmt.Errorf("unknown output type: %s", s.Type)
	}
}

func (s *InputCfg) Validate() error {
	return s.Cfg.Validate()
}

func (s *OutputCfg) Validate() error {
	return s.Cfg.Validate()
}

func (s *DirInputCfg) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("input directory must be specified")
	}
	return nil
}

func (s *PatternInputCfg) Validate() error {
	if !slices.Contains(Patterns, s.Pattern) {
		return fmt.Errorf("pattern must be one of %s, not %q", strings.Join(Patterns, ", "), s.Pattern)
	}
	if s.Colour != "" {
		if s.Pattern != "uniform" {
			return fmt.Errorf("colour only applies to the uniform pattern")
		}
		if !utils.ColourValidate(s.Colour) {
			return fmt.Errorf("%s is not a valid RGB hex colour", s.Colour)
		}
	}
	err := s.FrameCfg.Validate()
	if err != nil {
		return fmt.Errorf("invalid frame config: %w", err)
	}
	return nil
}

func (s *DirOutputCfg) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("output directory must be specified")
	}
	return nil
}

func (s *NullOutputCfg) Validate() error {
	return nil
}

func (s *BenchmarkCfg) Validate() error {
	if s.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1")
	}
	if s.Warmup < 0 {
		return fmt.Errorf("warmup must be nonnegative")
	}
	return nil
}

func (s *ApiCfg) Validate() error {
	if s.Bind == "" {
		return fmt.Errorf("bind address must be specified")
	}
	return nil
}
