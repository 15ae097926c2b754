package rendering

import (
	"context"
	"log/slog"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
	gopointer "github.com/mattn/go-pointer"
)

// DebugOutput forwards KHR_debug messages of the current context to a
// logger. The logger travels through the driver as a go-pointer token
// because the driver keeps the user parameter on the C side.
type DebugOutput struct {
	token unsafe.Pointer
}

func EnableDebugOutput(logger *slog.Logger) *DebugOutput {
	d := &DebugOutput{token: gopointer.Save(logger)}

	gl.Enable(gl.DEBUG_OUTPUT)
	gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
	gl.DebugMessageCallback(debugCallback, d.token)

	return d
}

func (d *DebugOutput) Disable() {
	if d == nil || d.token == nil {
		return
	}
	gl.Disable(gl.DEBUG_OUTPUT)
	gopointer.Unref(d.token)
	d.token = nil
}

func debugCallback(source uint32, gltype uint32, id uint32, severity uint32, length int32, message string, userParam unsafe.Pointer) {
	logger, ok := gopointer.Restore(userParam).(*slog.Logger)
	if !ok {
		return
	}
	logger.Log(context.Background(), DebugSeverityLevel(severity), message, "gl_source", source, "gl_type", gltype, "gl_id", id)
}

func DebugSeverityLevel(severity uint32) slog.Level {
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		return slog.LevelError
	case gl.DEBUG_SEVERITY_MEDIUM:
		return slog.LevelWarn
	case gl.DEBUG_SEVERITY_LOW:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
