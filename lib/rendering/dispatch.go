package rendering

import (
	"fmt"
	"time"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/go-gl/gl/v4.3-core/gl"
)

// Dispatcher runs one compute pass at a time and reads its result back.
// From the caller's point of view every Run is synchronous: mapping the
// output buffer waits for the GPU to finish writing it.
type Dispatcher struct {
	TileSize int

	// Timeout bounds the wait for the GPU before mapping. Zero leaves the
	// wait to the driver's map call, which never gives up.
	Timeout time.Duration
}

// Run appends exactly plane.ByteCount bytes produced by program to dst.
func (d *Dispatcher) Run(program *Program, in *StorageBuffer, out *StorageBuffer, plane encdec.Plane, dst []byte) ([]byte, error) {
	if in.Role != InputBinding || out.Role != OutputBinding {
		return dst, fmt.Errorf("buffers bound as %s/%s, want input/output", in.Role, out.Role)
	}
	if program.Kind != plane.Kind {
		return dst, fmt.Errorf("%s program cannot produce the %s plane", program.Kind, plane.Kind)
	}
	if out.Size < plane.ByteCount {
		return dst, fmt.Errorf("%s output buffer holds %d bytes, plane needs %d", plane.Kind, out.Size, plane.ByteCount)
	}

	x, y, z := encdec.WorkGroups(plane, d.TileSize)

	in.Bind()
	out.Bind()
	program.Use()
	defer func() {
		gl.UseProgram(0)
		gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, InputBinding.Index(), 0)
		gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, OutputBinding.Index(), 0)
	}()

	gl.DispatchCompute(x, y, z)
	if err := CheckError("glDispatchCompute"); err != nil {
		return dst, err
	}

	// make shader storage writes visible to the mapping below
	gl.MemoryBarrier(gl.SHADER_STORAGE_BARRIER_BIT | gl.BUFFER_UPDATE_BARRIER_BIT)

	if d.Timeout > 0 {
		if err := waitForGPU(d.Timeout); err != nil {
			return dst, err
		}
	}

	return out.ReadInto(dst, plane.ByteCount)
}

func waitForGPU(timeout time.Duration) error {
	fence := gl.FenceSync(gl.SYNC_GPU_COMMANDS_COMPLETE, 0)
	if fence == 0 {
		return CheckError("glFenceSync")
	}
	defer gl.DeleteSync(fence)

	switch gl.ClientWaitSync(fence, gl.SYNC_FLUSH_COMMANDS_BIT, uint64(timeout.Nanoseconds())) {
	case gl.ALREADY_SIGNALED, gl.CONDITION_SATISFIED:
		return nil
	case gl.TIMEOUT_EXPIRED:
		return fmt.Errorf("%w after %s", ErrDispatchTimeout, timeout)
	default:
		if err := CheckError("glClientWaitSync"); err != nil {
			return err
		}
		return fmt.Errorf("waiting for compute dispatch failed")
	}
}
