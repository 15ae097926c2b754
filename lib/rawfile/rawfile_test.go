package rawfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fosdem/glconvert/lib/encdec"
)

func TestParseResolution(t *testing.T) {
	tests := []struct {
		name    string
		want    encdec.FrameCfg
		wantErr bool
	}{
		{"1920x1080.raw", encdec.FrameCfg{Width: 1920, Height: 1080}, false},
		{"/some/dir/1280x720_bars.yuy2", encdec.FrameCfg{Width: 1280, Height: 720}, false},
		{"64x32x2.raw", encdec.FrameCfg{Width: 64, Height: 32}, false},
		{"1920x1080", encdec.FrameCfg{}, true},
		{"frame_1920x1080.raw", encdec.FrameCfg{}, true},
		{"8x8.raw", encdec.FrameCfg{}, true},
		{"x1080.raw", encdec.FrameCfg{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseResolution(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		dir   string
		want  string
	}{
		{"/in/1920x1080.raw", "", "/in/1920x1080.nv12"},
		{"/in/1920x1080.raw", "/out", "/out/1920x1080.nv12"},
		{"640x480.test.yuy2", "out", "out/640x480.test.nv12"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.input, tt.dir); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.input, tt.dir, got, tt.want)
		}
	}
}

func TestFrameCount(t *testing.T) {
	f := &File{Path: "64x32.raw", FrameCfg: encdec.FrameCfg{Width: 64, Height: 32}}
	frame := 64 * 32 * 2

	if n, err := f.FrameCount(3 * frame); err != nil || n != 3 {
		t.Errorf("FrameCount(3 frames) = %d, %v", n, err)
	}
	for _, size := range []int{0, frame - 1, frame + 2} {
		if _, err := f.FrameCount(size); err == nil {
			t.Errorf("FrameCount(%d) accepted a partial frame", size)
		}
	}
}

func TestFrameCountOversizedName(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "4294967296x2147483648.raw"))
	if err != nil {
		t.Fatalf("NewFile: %s", err)
	}
	_, err = f.FrameCount(4096)
	var layoutErr *encdec.LayoutError
	if !errors.As(err, &layoutErr) {
		t.Errorf("FrameCount error = %v, want *encdec.LayoutError", err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"64x32.raw", "1280x720_b.raw", "notes.txt", "64x32.nv12", "64x32.nv12.tmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{0}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "32x32.d"), 0o755); err != nil {
		t.Fatal(err)
	}

	files, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.Name())
	}
	want := []string{"1280x720_b.raw", "64x32.raw"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("got %v, want %v", names, want)
		}
	}
}

func TestOpenAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "64x32.nv12")
	data := bytes.Repeat([]byte{1, 2, 3}, 1024)

	if err := WriteOutput(path, data); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind")
	}

	m, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(m.Data, data) {
		t.Errorf("mapped data differs from written data")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %s", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close: %s", err)
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "64x32.raw")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if len(m.Data) != 0 {
		t.Errorf("len = %d, want 0", len(m.Data))
	}
}
