package encdec

import (
	"fmt"
)

type FrameCfg struct {
	Width  int
	Height int
}

type FrameInfo struct {
	FrameCfg
	FrameType FrameType
}

type FrameAllocator interface {
	NewFrame(info *FrameInfo) (*Frame, error)
}

type DumbFrameAllocator struct {
	LastID uint64
}

func (d *DumbFrameAllocator) NewFrame(info *FrameInfo) (*Frame, error) {
	l, err := NewPlaneLayout(info.Width, info.Height)
	if err != nil {
		return nil, err
	}

	f := &Frame{
		Data:   make([]byte, info.FrameType.FrameSize(l)),
		Width:  info.Width,
		Height: info.Height,
		Type:   info.FrameType,
		ID:     d.LastID,
	}
	d.LastID += 1

	return f, nil
}

func (f *FrameCfg) Validate() error {
	if f.Width < 1 {
		return fmt.Errorf("width must be at least 1")
	}
	if f.Height < 1 {
		return fmt.Errorf("height must be at least 1")
	}
	_, err := NewPlaneLayout(f.Width, f.Height)
	return err
}

func (f FrameCfg) String() string {
	return fmt.Sprintf("%dx%d", f.Width, f.Height)
}
