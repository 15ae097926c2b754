//go:build !linux

package rawfile

import (
	"context"
	"errors"
)

func Watch(ctx context.Context, dir string) (<-chan *File, error) {
	return nil, errors.New("watching directories needs inotify, which is linux only")
}
