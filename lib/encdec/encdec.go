package encdec

import (
	"fmt"
)

type FrameType int

const (
	YUY2Frames FrameType = iota
	NV12Frames
)

func (f FrameType) String() string {
	switch f {
	case YUY2Frames:
		return "YUY2"
	case NV12Frames:
		return "NV12"
	default:
		panic("unknown frame type")
	}
}

// FrameSize returns the byte size of a frame of the given type.
func (f FrameType) FrameSize(l PlaneLayout) int {
	switch f {
	case YUY2Frames:
		return l.InputByteCount()
	case NV12Frames:
		return l.TotalByteCount()
	default:
		panic("unknown frame type")
	}
}

type FrameSizeError struct {
	Type     FrameType
	Expected int
	Got      int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("expected %s buffer of size %d but got %d", e.Type, e.Expected, e.Got)
}

func ValidateFrame(t FrameType, l PlaneLayout, buf []byte) error {
	expected := t.FrameSize(l)
	if len(buf) != expected {
		return &FrameSizeError{Type: t, Expected: expected, Got: len(buf)}
	}
	return nil
}

type Frame struct {
	Data   []byte
	Width  int
	Height int
	Type   FrameType
	ID     uint64
}

// Planes splits an NV12 frame into its Y and interleaved UV planes.
func (i *Frame) Planes() ([]byte, []byte, error) {
	if i.Type != NV12Frames {
		return nil, nil, fmt.Errorf("%s frames are not planar", i.Type)
	}
	l, err := NewPlaneLayout(i.Width, i.Height)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateFrame(NV12Frames, l, i.Data); err != nil {
		return nil, nil, err
	}
	return i.Data[:l.Y.ByteCount], i.Data[l.Y.ByteCount:], nil
}

// ConvertYUY2ToNV12 is the CPU rendition of the two compute programs. It
// follows the same sampling rules (chroma taken from even rows only) so that
// GPU output can be compared byte for byte.
func ConvertYUY2ToNV12(dst []byte, src []byte, l PlaneLayout) ([]byte, error) {
	if err := ValidateFrame(YUY2Frames, l, src); err != nil {
		return dst, err
	}

	start := len(dst)
	dst = append(dst, make([]byte, l.TotalByteCount())...)
	Y := dst[start : start+l.Y.ByteCount]
	UV := dst[start+l.Y.ByteCount:]

	rowBytes := l.Width * 2
	for y := 0; y < l.Height; y++ {
		row := src[y*rowBytes : (y+1)*rowBytes]
		out := Y[y*l.Width : (y+1)*l.Width]
		for i := 0; i < l.Width/2; i++ {
			j := i * 4
			out[i*2] = row[j]
			out[i*2+1] = row[j+2]
		}
	}

	uvRowBytes := l.UV.OutWidth * l.UV.BytesPerPx
	for y := 0; y < l.UV.OutHeight; y++ {
		row := src[(y*2)*rowBytes : (y*2+1)*rowBytes]
		out := UV[y*uvRowBytes : (y+1)*uvRowBytes]
		for i := 0; i < l.UV.OutWidth; i++ {
			j := i * 4
			out[i*2] = row[j+1]
			out[i*2+1] = row[j+3]
		}
	}

	return dst, nil
}
