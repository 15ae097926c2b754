package rendering

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.3-core/gl"
)

// StorageBuffer is a shader storage buffer sized for exactly one plane (or
// one input frame). Input buffers are streamed into by the host, output
// buffers are mapped back for reading.
type StorageBuffer struct {
	ID   uint32
	Size int
	Role BindingRole
}

func NewStorageBuffer(role BindingRole, size int) (*StorageBuffer, error) {
	if size < 1 {
		return nil, &ResourceError{What: fmt.Sprintf("%s buffer of %d bytes", role, size)}
	}
	b := &StorageBuffer{Size: size, Role: role}

	gl.GenBuffers(1, &b.ID)
	if b.ID == 0 {
		return nil, &ResourceError{What: fmt.Sprintf("%s buffer", role), Err: CheckError("glGenBuffers")}
	}
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ID)
	gl.BufferData(gl.SHADER_STORAGE_BUFFER, size, gl.Ptr(nil), role.usage())
	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)

	if err := CheckError("glBufferData"); err != nil {
		b.Delete()
		return nil, &ResourceError{What: fmt.Sprintf("%s buffer of %d bytes", role, size), Err: err}
	}
	return b, nil
}

// Bind attaches the buffer to the binding point of its role.
func (b *StorageBuffer) Bind() {
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, b.Role.Index(), b.ID)
}

// Upload overwrites the whole buffer. The previous contents are invalidated
// so the driver does not have to wait for earlier dispatches reading them.
func (b *StorageBuffer) Upload(data []byte) error {
	if b.Role != InputBinding {
		return fmt.Errorf("cannot upload into %s buffer", b.Role)
	}
	if len(data) != b.Size {
		return fmt.Errorf("upload of %d bytes into buffer of %d bytes", len(data), b.Size)
	}

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ID)
	defer gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)

	ptr := gl.MapBufferRange(gl.SHADER_STORAGE_BUFFER, 0, len(data), gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	if ptr == nil {
		if err := CheckError("glMapBufferRange(write)"); err != nil {
			return err
		}
		return fmt.Errorf("could not map %s buffer for writing", b.Role)
	}
	copy(unsafe.Slice((*byte)(ptr), len(data)), data)
	if !gl.UnmapBuffer(gl.SHADER_STORAGE_BUFFER) {
		return fmt.Errorf("%s buffer contents were lost during upload", b.Role)
	}
	return CheckError("glUnmapBuffer")
}

// ReadInto appends the first n bytes of the buffer to dst.
func (b *StorageBuffer) ReadInto(dst []byte, n int) ([]byte, error) {
	if n > b.Size {
		return dst, fmt.Errorf("read of %d bytes from buffer of %d bytes", n, b.Size)
	}

	gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, b.ID)
	defer gl.BindBuffer(gl.SHADER_STORAGE_BUFFER, 0)

	ptr := gl.MapBufferRange(gl.SHADER_STORAGE_BUFFER, 0, n, gl.MAP_READ_BIT)
	if ptr == nil {
		if err := CheckError("glMapBufferRange(read)"); err != nil {
			return dst, err
		}
		return dst, fmt.Errorf("could not map %s buffer for reading", b.Role)
	}
	dst = append(dst, unsafe.Slice((*byte)(ptr), n)...)
	if !gl.UnmapBuffer(gl.SHADER_STORAGE_BUFFER) {
		return dst, fmt.Errorf("%s buffer contents were lost during readback", b.Role)
	}
	return dst, CheckError("glUnmapBuffer")
}

func (b *StorageBuffer) Delete() {
	if b == nil || b.ID == 0 {
		return
	}
	gl.DeleteBuffers(1, &b.ID)
	b.ID = 0
}
