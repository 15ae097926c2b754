package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glconvert.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const fullConfig = `
inputs:
  captures:
    type: dir
    path: frames
    inotify: true
  bars:
    type: pattern
    pattern: bars
    frames:
      width: 1920
      height: 1080
output:
  type: dir
  path: /tmp/out
backend: cpu
tile_size: 8
glsl_version: 430 core
dispatch_timeout_ms: 250
debug: true
shader_dump_dir: shaders
log_level: debug
benchmark:
  iterations: 100
  warmup: 5
  verify: true
api:
  bind: 127.0.0.1:8000
  enable_profiler: true
`

func TestParseFull(t *testing.T) {
	path := writeConfig(t, fullConfig)
	dir := filepath.Dir(path)

	cfg, err := Parse(path)
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}

	if cfg.Backend != "cpu" {
		t.Errorf("Backend = %s", cfg.Backend)
	}
	if cfg.TileSize != 8 || cfg.GLSLVersion != "430 core" || !cfg.Debug || cfg.LogLevel != "debug" {
		t.Errorf("top level settings: %+v", cfg)
	}
	if cfg.DispatchTimeout() != 250*time.Millisecond {
		t.Errorf("DispatchTimeout = %s", cfg.DispatchTimeout())
	}
	if want := filepath.Join(dir, "shaders"); string(cfg.ShaderDumpDir) != want {
		t.Errorf("ShaderDumpDir = %s, want %s", cfg.ShaderDumpDir, want)
	}

	captures, ok := cfg.Inputs["captures"].Cfg.(*DirInputCfg)
	if !ok {
		t.Fatalf("captures is %T", cfg.Inputs["captures"].Cfg)
	}
	if want := filepath.Join(dir, "frames"); string(captures.Path) != want || !captures.Inotify {
		t.Errorf("captures = %+v, want path %s with inotify", captures, want)
	}

	bars, ok := cfg.Inputs["bars"].Cfg.(*PatternInputCfg)
	if !ok {
		t.Fatalf("bars is %T", cfg.Inputs["bars"].Cfg)
	}
	if bars.Width != 1920 || bars.Height != 1080 || bars.Pattern != "bars" {
		t.Errorf("bars = %+v", bars)
	}

	out, ok := cfg.Output.Cfg.(*DirOutputCfg)
	if !ok || out.Path != "/tmp/out" {
		t.Errorf("output = %+v", cfg.Output)
	}

	if cfg.Benchmark.Iterations != 100 || cfg.Benchmark.Warmup != 5 || !cfg.Benchmark.Verify {
		t.Errorf("benchmark = %+v", cfg.Benchmark)
	}
	if cfg.Api == nil || cfg.Api.Bind != "127.0.0.1:8000" || !cfg.Api.EnableProfiler {
		t.Errorf("api = %+v", cfg.Api)
	}

	if names := cfg.InputNames(); len(names) != 2 || names[0] != "bars" || names[1] != "captures" {
		t.Errorf("InputNames = %v", names)
	}
	if s := cfg.String(); !strings.Contains(s, "captures (dir)") || !strings.Contains(s, "Output: dir") {
		t.Errorf("String() = %q", s)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(writeConfig(t, `
inputs:
  grey:
    type: pattern
    pattern: uniform
    frames:
      width: 64
      height: 32
`))
	if err != nil {
		t.Fatalf("Parse: %s", err)
	}
	if cfg.Backend != "gpu" {
		t.Errorf("default backend = %s", cfg.Backend)
	}
	if cfg.TileSize != DefaultTileSize || cfg.GLSLVersion != DefaultGLSLVersion || cfg.LogLevel != "info" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if _, ok := cfg.Output.Cfg.(*NullOutputCfg); !ok {
		t.Errorf("default output is %T, want null", cfg.Output.Cfg)
	}
	if cfg.Benchmark.Iterations != 1 {
		t.Errorf("default iterations = %d", cfg.Benchmark.Iterations)
	}
	if cfg.Api != nil {
		t.Errorf("api enabled without configuration")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no inputs", "tile_size: 16\n", "at least one input"},
		{"unknown input", "inputs:\n  a:\n    type: camera\n", "unknown input type"},
		{"unknown output", "inputs:\n  a:\n    type: dir\n    path: x\noutput:\n  type: s3\n", "unknown output type"},
		{"dir without path", "inputs:\n  a:\n    type: dir\n", "input directory"},
		{"bad pattern", "inputs:\n  a:\n    type: pattern\n    pattern: zebra\n    frames: {width: 64, height: 32}\n", "pattern must be one of"},
		{"odd height", "inputs:\n  a:\n    type: pattern\n    pattern: bars\n    frames: {width: 64, height: 31}\n", "invalid frame config"},
		{"bad colour", "inputs:\n  a:\n    type: pattern\n    pattern: uniform\n    colour: red\n    frames: {width: 64, height: 32}\n", "not a valid RGB hex colour"},
		{"colour on bars", "inputs:\n  a:\n    type: pattern\n    pattern: bars\n    colour: \"#ff0000\"\n    frames: {width: 64, height: 32}\n", "only applies to the uniform"},
		{"bad backend", "inputs:\n  a:\n    type: dir\n    path: x\nbackend: tpu\n", "backend must be one of"},
		{"big tile", "inputs:\n  a:\n    type: dir\n    path: x\ntile_size: 64\n", "tile_size"},
		{"negative timeout", "inputs:\n  a:\n    type: dir\n    path: x\ndispatch_timeout_ms: -1\n", "dispatch_timeout_ms"},
		{"bad level", "inputs:\n  a:\n    type: dir\n    path: x\nlog_level: chatty\n", "log_level"},
		{"no iterations", "inputs:\n  a:\n    type: dir\n    path: x\nbenchmark:\n  iterations: 0\n", "iterations"},
		{"api without bind", "inputs:\n  a:\n    type: dir\n    path: x\napi:\n  enable_profiler: true\n", "bind address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	if _, err := Parse(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected an error")
	}
}
