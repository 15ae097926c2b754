package testpattern

import (
	"bytes"
	"image/color"
	"testing"
)

func TestRGBToYCbCr(t *testing.T) {
	tests := []struct {
		c       color.RGBA
		y, u, v uint8
	}{
		{color.RGBA{0, 0, 0, 255}, 16, 128, 128},
		{color.RGBA{255, 255, 255, 255}, 235, 128, 128},
		{color.RGBA{255, 0, 0, 255}, 81, 90, 240},
		{color.RGBA{0, 0, 255, 255}, 41, 240, 110},
	}
	for _, tt := range tests {
		y, u, v := RGBToYCbCr(tt.c)
		if y != tt.y || u != tt.u || v != tt.v {
			t.Errorf("RGBToYCbCr(%v) = (%d, %d, %d), want (%d, %d, %d)", tt.c, y, u, v, tt.y, tt.u, tt.v)
		}
	}
}

func TestUniform(t *testing.T) {
	buf := Uniform(4, 2, 0x80, 0x80, 0x80)
	if len(buf) != 16 {
		t.Fatalf("len = %d, want 16", len(buf))
	}
	if !bytes.Equal(buf, bytes.Repeat([]byte{0x80}, 16)) {
		t.Errorf("unexpected content %x", buf)
	}

	buf = Uniform(2, 1, 1, 2, 3)
	if !bytes.Equal(buf, []byte{1, 2, 1, 3}) {
		t.Errorf("Uniform(2, 1, 1, 2, 3) = %v", buf)
	}
}

func TestLumaRamp(t *testing.T) {
	buf := LumaRamp(8, 2, 10, 20)
	want := []byte{0, 10, 1, 20, 2, 10, 3, 20, 4, 10, 5, 20, 6, 10, 7, 20}
	if !bytes.Equal(buf[:16], want) || !bytes.Equal(buf[16:], want) {
		t.Errorf("LumaRamp(8, 2) = %v", buf)
	}
}

func TestColorBars(t *testing.T) {
	width := 16
	buf := ColorBars(width, 2)
	if len(buf) != width*2*2 {
		t.Fatalf("len = %d", len(buf))
	}
	// first bar is white, last bar is black
	if buf[0] != 235 || buf[1] != 128 || buf[3] != 128 {
		t.Errorf("first word = %v, want white", buf[:4])
	}
	last := buf[width*2-4 : width*2]
	if last[0] != 16 || last[2] != 16 {
		t.Errorf("last word = %v, want black", last)
	}
	if !bytes.Equal(buf[:width*2], buf[width*2:]) {
		t.Errorf("rows differ")
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a := Noise(64, 4, 42)
	b := Noise(64, 4, 42)
	if !bytes.Equal(a, b) {
		t.Errorf("same seed produced different frames")
	}
	if bytes.Equal(a, Noise(64, 4, 43)) {
		t.Errorf("different seeds produced the same frame")
	}
}
