// Package testpattern generates synthetic YUY2 frames for tests and for
// benchmarking without capture files.
package testpattern

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// BT.601 limited range, RGB in [0, 1]
var rgbToYCbCr = mgl32.Mat3FromRows(
	mgl32.Vec3{65.481, 128.553, 24.966},
	mgl32.Vec3{-37.797, -74.203, 112.0},
	mgl32.Vec3{112.0, -93.786, -18.214},
)

var yCbCrOffset = mgl32.Vec3{16, 128, 128}

var barColours = []color.RGBA{
	{R: 255, G: 255, B: 255, A: 255},
	{R: 255, G: 255, B: 0, A: 255},
	{R: 0, G: 255, B: 255, A: 255},
	{R: 0, G: 255, B: 0, A: 255},
	{R: 255, G: 0, B: 255, A: 255},
	{R: 255, G: 0, B: 0, A: 255},
	{R: 0, G: 0, B: 255, A: 255},
	{R: 0, G: 0, B: 0, A: 255},
}

func RGBToYCbCr(c color.RGBA) (uint8, uint8, uint8) {
	rgb := mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
	ycc := rgbToYCbCr.Mul3x1(rgb).Add(yCbCrOffset)
	return clamp(ycc.X()), clamp(ycc.Y()), clamp(ycc.Z())
}

func clamp(v float32) uint8 {
	r := math.Round(float64(v))
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

// Uniform fills every word with Y0=y, U=u, Y1=y, V=v.
func Uniform(width, height int, y, u, v uint8) []byte {
	buf := make([]byte, width*height*2)
	for j := 0; j < len(buf); j += 4 {
		buf[j] = y
		buf[j+1] = u
		buf[j+2] = y
		buf[j+3] = v
	}
	return buf
}

// LumaRamp puts luma x%256 at column x of every row, chroma constant.
func LumaRamp(width, height int, u, v uint8) []byte {
	buf := make([]byte, width*height*2)
	for row := 0; row < height; row++ {
		line := buf[row*width*2 : (row+1)*width*2]
		for x := 0; x < width; x += 2 {
			j := x * 2
			line[j] = uint8(x)
			line[j+1] = u
			line[j+2] = uint8(x + 1)
			line[j+3] = v
		}
	}
	return buf
}

// ColorBars renders eight vertical bars. Chroma of each pixel pair is the
// mean of its two pixels.
func ColorBars(width, height int) []byte {
	buf := make([]byte, width*height*2)
	line := make([]byte, width*2)
	for x := 0; x < width; x += 2 {
		y0, u0, v0 := RGBToYCbCr(barAt(x, width))
		y1, u1, v1 := RGBToYCbCr(barAt(x+1, width))
		j := x * 2
		line[j] = y0
		line[j+1] = uint8((int(u0) + int(u1) + 1) / 2)
		line[j+2] = y1
		line[j+3] = uint8((int(v0) + int(v1) + 1) / 2)
	}
	for row := 0; row < height; row++ {
		copy(buf[row*width*2:], line)
	}
	return buf
}

func barAt(x, width int) color.RGBA {
	idx := x * len(barColours) / width
	if idx >= len(barColours) {
		idx = len(barColours) - 1
	}
	return barColours[idx]
}

// Noise is a deterministic xorshift fill, useful to catch stride mistakes
// that uniform patterns hide.
func Noise(width, height int, seed uint32) []byte {
	buf := make([]byte, width*height*2)
	s := seed
	if s == 0 {
		s = 0x9e3779b9
	}
	for i := range buf {
		s ^= s << 13
		s ^= s >> 17
		s ^= s << 5
		buf[i] = uint8(s >> 24)
	}
	return buf
}
