package converter

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/testpattern"
)

func TestCPUSession(t *testing.T) {
	s, err := NewCPU(testConfig(64, 32, 16))
	if err != nil {
		t.Fatal(err)
	}
	src := testpattern.Noise(64, 32, 3)

	got, err := s.Convert(src)
	if err != nil {
		t.Fatal(err)
	}
	want, err := encdec.ConvertYUY2ToNV12(nil, src, s.Layout)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("CPU session output differs from the reference")
	}

	if _, err := s.Convert(src[:10]); err == nil {
		t.Errorf("short frame accepted")
	}
	if info := s.Info(); info.Frames != 1 || info.Resolution != "64x32" {
		t.Errorf("Info() = %+v", info)
	}

	s.Close()
	if _, err := s.Convert(src); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

func TestNewCPURejectsBadLayout(t *testing.T) {
	if _, err := NewCPU(testConfig(1366, 768, 16)); err == nil {
		t.Errorf("expected an error")
	}
}
