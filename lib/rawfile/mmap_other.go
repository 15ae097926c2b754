//go:build !unix

package rawfile

import (
	"os"
)

type Mapping struct {
	Data []byte
}

func Open(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &Mapping{Data: data}, nil
}

func (m *Mapping) Close() error {
	m.Data = nil
	return nil
}
