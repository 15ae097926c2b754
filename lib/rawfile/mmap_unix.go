//go:build unix

package rawfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is a read-only view of a frame file.
type Mapping struct {
	Data   []byte
	mapped bool
}

func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if st.Size() == 0 {
		return &Mapping{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(st.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("could not map %s: %w", path, err)
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return &Mapping{Data: data, mapped: true}, nil
}

func (m *Mapping) Close() error {
	if !m.mapped {
		return nil
	}
	m.mapped = false
	data := m.Data
	m.Data = nil
	return unix.Munmap(data)
}
