package encdec

import (
	"fmt"
)

const wordSize = 4

// MaxDimension bounds width and height so that a packed frame stays well
// inside a 32-bit byte count.
const MaxDimension = 1 << 15

type PlaneKind int

const (
	PlaneY PlaneKind = iota
	PlaneUV
)

func (k PlaneKind) String() string {
	switch k {
	case PlaneY:
		return "y"
	case PlaneUV:
		return "uv"
	default:
		panic("unknown plane kind")
	}
}

// Plane describes how one output plane is addressed, both in the packed
// YUY2 input and in the word array the compute program writes.
type Plane struct {
	Kind PlaneKind

	InHeight     int
	InWordStride int

	OutWidth      int
	OutHeight     int
	OutWordStride int
	OutPxPerWord  int
	BytesPerPx    int

	ByteCount int
}

func (p Plane) OutWordCount() int {
	return p.OutHeight * p.OutWordStride
}

// PlaneLayout is derived from the frame dimensions only and never changes
// for the lifetime of a session.
type PlaneLayout struct {
	Width  int
	Height int

	Y  Plane
	UV Plane
}

type LayoutError struct {
	Width  int
	Height int
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("invalid frame dimensions %dx%d: %s", e.Width, e.Height, e.Reason)
}

// NewPlaneLayout computes strides and byte counts for both NV12 planes.
// Width must be a multiple of 4 so that every output row packs into whole
// 32-bit words, height must be even for the 2:1 vertical chroma subsampling.
func NewPlaneLayout(width int, height int) (PlaneLayout, error) {
	if width < 1 || height < 1 {
		return PlaneLayout{}, &LayoutError{width, height, "dimensions must be positive"}
	}
	if width > MaxDimension || height > MaxDimension {
		return PlaneLayout{}, &LayoutError{width, height, fmt.Sprintf("dimensions must not exceed %d", MaxDimension)}
	}
	if height%2 != 0 {
		return PlaneLayout{}, &LayoutError{width, height, "height must be even"}
	}
	if width%wordSize != 0 {
		return PlaneLayout{}, &LayoutError{width, height, "width must be a multiple of 4"}
	}

	l := PlaneLayout{Width: width, Height: height}

	// two luma samples per YUY2 word, four luma bytes per output word
	l.Y = Plane{
		Kind:         PlaneY,
		InHeight:     height,
		InWordStride: width / 2,
		OutWidth:     width,
		OutHeight:    height,
		OutPxPerWord: wordSize,
		BytesPerPx:   1,
	}
	l.Y.OutWordStride = l.Y.OutWidth / l.Y.OutPxPerWord
	l.Y.ByteCount = l.Y.OutWordCount() * wordSize

	// chroma is subsampled 2:1 on both axes, one U,V pair per output pixel
	l.UV = Plane{
		Kind:       PlaneUV,
		InHeight:   height,
		OutWidth:   width / 2,
		OutHeight:  height / 2,
		BytesPerPx: 2,
	}
	l.UV.OutPxPerWord = wordSize / l.UV.BytesPerPx
	l.UV.InWordStride = width / l.UV.OutPxPerWord
	l.UV.OutWordStride = l.UV.OutWidth / l.UV.OutPxPerWord
	l.UV.ByteCount = l.UV.OutWordCount() * wordSize

	return l, nil
}

func (l PlaneLayout) Plane(kind PlaneKind) Plane {
	switch kind {
	case PlaneY:
		return l.Y
	case PlaneUV:
		return l.UV
	default:
		panic("unknown plane kind")
	}
}

// InputByteCount is the size of one packed YUY2 frame.
func (l PlaneLayout) InputByteCount() int {
	return l.Width * l.Height * 2
}

// TotalByteCount is the size of one NV12 frame, 1.5 bytes per pixel.
func (l PlaneLayout) TotalByteCount() int {
	return l.Y.ByteCount + l.UV.ByteCount
}

func (l PlaneLayout) String() string {
	return fmt.Sprintf("%dx%d", l.Width, l.Height)
}

// WorkGroups returns the dispatch size covering every output cell of the
// plane with square tiles. Rows map to the x axis and output words to y.
func WorkGroups(p Plane, tile int) (uint32, uint32, uint32) {
	if tile < 1 {
		panic("tile size must be positive")
	}
	x := (p.OutHeight + tile - 1) / tile
	y := (p.OutWordStride + tile - 1) / tile
	return uint32(x), uint32(y), 1
}
