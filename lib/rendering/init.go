package rendering

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// Init loads the GL entry points for the context that is current on the
// calling thread.
func Init() error {
	err := gl.Init()
	if err != nil {
		return fmt.Errorf("could not initialise OpenGL context: %w", err)
	}

	slog.Debug("OpenGL ready",
		"module", "rendering",
		"vendor", gl.GoStr(gl.GetString(gl.VENDOR)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)),
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
	)

	return nil
}

type ComputeLimits struct {
	MaxWorkGroupSize        [3]int32
	MaxWorkGroupCount       [3]int32
	MaxWorkGroupInvocations int32
	MaxStorageBlockSize     int64
}

func QueryComputeLimits() (ComputeLimits, error) {
	var l ComputeLimits
	for i := range 3 {
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_SIZE, uint32(i), &l.MaxWorkGroupSize[i])
		gl.GetIntegeri_v(gl.MAX_COMPUTE_WORK_GROUP_COUNT, uint32(i), &l.MaxWorkGroupCount[i])
	}
	gl.GetIntegerv(gl.MAX_COMPUTE_WORK_GROUP_INVOCATIONS, &l.MaxWorkGroupInvocations)
	gl.GetInteger64v(gl.MAX_SHADER_STORAGE_BLOCK_SIZE, &l.MaxStorageBlockSize)
	return l, CheckError("glGetIntegerv")
}

// CheckTile reports whether square tiles of the given size fit the driver.
func (l ComputeLimits) CheckTile(tile int) error {
	if tile < 1 {
		return fmt.Errorf("tile size must be at least 1, got %d", tile)
	}
	if int32(tile) > l.MaxWorkGroupSize[0] || int32(tile) > l.MaxWorkGroupSize[1] {
		return fmt.Errorf("tile size %d exceeds the maximum work group size %dx%d", tile, l.MaxWorkGroupSize[0], l.MaxWorkGroupSize[1])
	}
	if int64(tile)*int64(tile) > int64(l.MaxWorkGroupInvocations) {
		return fmt.Errorf("tile size %d needs %d invocations per work group, driver allows %d", tile, tile*tile, l.MaxWorkGroupInvocations)
	}
	return nil
}

// CheckDispatch reports whether groups x/y fit and a buffer of size bytes
// can be declared as one storage block.
func (l ComputeLimits) CheckDispatch(x, y uint32, size int) error {
	if int64(x) > int64(l.MaxWorkGroupCount[0]) || int64(y) > int64(l.MaxWorkGroupCount[1]) {
		return fmt.Errorf("dispatch of %dx%d work groups exceeds driver limit %dx%d", x, y, l.MaxWorkGroupCount[0], l.MaxWorkGroupCount[1])
	}
	if int64(size) > l.MaxStorageBlockSize {
		return fmt.Errorf("storage block of %d bytes exceeds driver limit of %d", size, l.MaxStorageBlockSize)
	}
	return nil
}
