package utils

import (
	"image/color"
	"testing"
)

func TestColourValidate(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#ff0000", true},
		{"#FF0000ff", true},
		{"ff0000", false},
		{"#ff00", false},
		{"#ff0000ff00", false},
		{"#gg0000", false},
	}
	for _, tt := range tests {
		if got := ColourValidate(tt.in); got != tt.want {
			t.Errorf("ColourValidate(%q) = %t, want %t", tt.in, got, tt.want)
		}
	}
}

func TestColourParse(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}},
		{"#10203040", color.RGBA{R: 16, G: 32, B: 48, A: 64}},
	}
	for _, tt := range tests {
		if got := ColourParse(tt.in); got != tt.want {
			t.Errorf("ColourParse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
