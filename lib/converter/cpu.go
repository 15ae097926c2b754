package converter

import (
	"sync"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/stats"
	"github.com/google/uuid"
)

// Converter is what Session and CPUSession have in common.
type Converter interface {
	Convert(frame []byte) ([]byte, error)
	ConvertInto(dst []byte, frame []byte) ([]byte, error)
	Info() stats.SessionInfo
	Close()
}

var (
	_ Converter = (*Session)(nil)
	_ Converter = (*CPUSession)(nil)
)

// CPUSession converts on the CPU with the same sampling rules as the GPU
// programs. It serves as a baseline and as a stand-in where no GPU exists.
type CPUSession struct {
	ID     uuid.UUID
	Layout encdec.PlaneLayout

	mutex  sync.Mutex
	closed bool
	frames uint64
}

func NewCPU(cfg *Config) (*CPUSession, error) {
	layout, err := encdec.NewPlaneLayout(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	return &CPUSession{ID: uuid.New(), Layout: layout}, nil
}

func (s *CPUSession) Convert(frame []byte) ([]byte, error) {
	return s.ConvertInto(make([]byte, 0, s.Layout.TotalByteCount()), frame)
}

func (s *CPUSession) ConvertInto(dst []byte, frame []byte) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return dst, ErrClosed
	}
	out, err := encdec.ConvertYUY2ToNV12(dst, frame, s.Layout)
	if err != nil {
		return dst, err
	}
	s.frames++
	return out, nil
}

func (s *CPUSession) Info() stats.SessionInfo {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return stats.SessionInfo{
		ID:         s.ID.String(),
		Resolution: s.Layout.String(),
		Frames:     s.frames,
		InputSize:  s.Layout.InputByteCount(),
		OutputSize: s.Layout.TotalByteCount(),
	}
}

func (s *CPUSession) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
}
