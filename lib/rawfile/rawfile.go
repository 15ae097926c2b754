// Package rawfile finds, loads and writes headerless frame files. The frame
// size is taken from the file name, which must start with <width>x<height>,
// for example 1920x1080.raw or 1280x720_bars.yuy2.
package rawfile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/fosdem/glconvert/lib/encdec"
)

const OutputExtension = ".nv12"

var resolutionPattern = regexp.MustCompile(`^(\d{2,})x(\d{2,})`)

type File struct {
	Path string
	encdec.FrameCfg
}

func (f *File) Name() string {
	return filepath.Base(f.Path)
}

// FrameCount is the number of whole frames a file of size bytes holds.
func (f *File) FrameCount(size int) (int, error) {
	l, err := encdec.NewPlaneLayout(f.Width, f.Height)
	if err != nil {
		return 0, err
	}
	frame := l.InputByteCount()
	if size == 0 || size%frame != 0 {
		return 0, fmt.Errorf("%s holds %d bytes, not a whole number of %d byte frames", f.Name(), size, frame)
	}
	return size / frame, nil
}

// ParseResolution reads the frame size from the start of a file's base name.
// The name must also carry an extension.
func ParseResolution(path string) (encdec.FrameCfg, error) {
	name := filepath.Base(path)
	if filepath.Ext(name) == "" {
		return encdec.FrameCfg{}, fmt.Errorf("%s has no extension", name)
	}
	m := resolutionPattern.FindStringSubmatch(name)
	if m == nil {
		return encdec.FrameCfg{}, fmt.Errorf("could not parse resolution from %s", name)
	}
	w, err := strconv.Atoi(m[1])
	if err != nil {
		return encdec.FrameCfg{}, fmt.Errorf("bad width in %s: %w", name, err)
	}
	h, err := strconv.Atoi(m[2])
	if err != nil {
		return encdec.FrameCfg{}, fmt.Errorf("bad height in %s: %w", name, err)
	}
	return encdec.FrameCfg{Width: w, Height: h}, nil
}

func NewFile(path string) (*File, error) {
	cfg, err := ParseResolution(path)
	if err != nil {
		return nil, err
	}
	return &File{Path: path, FrameCfg: cfg}, nil
}

// Discover lists the frame files in dir, sorted by name. Files whose name
// does not carry a resolution, and our own outputs, are skipped.
func Discover(dir string) ([]*File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list %s: %w", dir, err)
	}

	var files []*File
	for _, e := range entries {
		if !e.Type().IsRegular() || IsOutput(e.Name()) {
			continue
		}
		f, err := NewFile(filepath.Join(dir, e.Name()))
		if err != nil {
			slog.Debug("Skipping file", "module", "rawfile", "name", e.Name(), "reason", err)
			continue
		}
		slog.Info(fmt.Sprintf("Found %s frame file %s", f.FrameCfg, e.Name()), "module", "rawfile")
		files = append(files, f)
	}
	slices.SortFunc(files, func(a, b *File) int {
		return strings.Compare(a.Path, b.Path)
	})
	return files, nil
}

func IsOutput(name string) bool {
	return strings.HasSuffix(name, OutputExtension) || strings.HasSuffix(name, OutputExtension+".tmp")
}

// OutputPath names the NV12 file for input in dir, or next to the input
// when dir is empty.
func OutputPath(input string, dir string) string {
	name := filepath.Base(input)
	name = strings.TrimSuffix(name, filepath.Ext(name)) + OutputExtension
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// WriteOutput writes data through a temporary file so watchers never see a
// half written frame.
func WriteOutput(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("could not move %s into place: %w", path, err)
	}
	return nil
}
