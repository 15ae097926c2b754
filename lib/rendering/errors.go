package rendering

import (
	"errors"
	"fmt"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/go-gl/gl/v4.3-core/gl"
)

var ErrDispatchTimeout = errors.New("timed out waiting for compute dispatch")

type CompileError struct {
	Kind encdec.PlaneKind
	Log  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s compute shader: %s", e.Kind, e.Log)
}

type LinkError struct {
	Kind encdec.PlaneKind
	Log  string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link %s compute program: %s", e.Kind, e.Log)
}

type ResourceError struct {
	What string
	Err  error
}

func (e *ResourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not allocate %s: %s", e.What, e.Err)
	}
	return fmt.Sprintf("could not allocate %s", e.What)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

type DriverError struct {
	Op   string
	Code uint32
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("OpenGL error after %s: %s", e.Op, ErrorCodeString(e.Code))
}

func ErrorCodeString(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "invalid enum"
	case gl.INVALID_VALUE:
		return "invalid value"
	case gl.INVALID_OPERATION:
		return "invalid operation"
	case gl.OUT_OF_MEMORY:
		return "out of memory"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "invalid framebuffer operation"
	default:
		return fmt.Sprintf("unknown %#x", code)
	}
}

// CheckError reports the first pending GL error and drains the rest so the
// next check only sees errors from later calls.
func CheckError(op string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	clearError()
	return &DriverError{Op: op, Code: code}
}

func clearError() {
	for gl.GetError() != gl.NO_ERROR {
	}
}
