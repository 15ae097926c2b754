package rendering

import (
	"github.com/go-gl/gl/v4.3-core/gl"
)

// BindingRole names a storage buffer binding point. Shader generation,
// buffer creation and dispatch all take a role, never a raw index.
type BindingRole int

const (
	InputBinding BindingRole = iota
	OutputBinding
)

func (r BindingRole) Index() uint32 {
	switch r {
	case InputBinding:
		return 0
	case OutputBinding:
		return 1
	default:
		panic("unknown binding role")
	}
}

func (r BindingRole) String() string {
	switch r {
	case InputBinding:
		return "input"
	case OutputBinding:
		return "output"
	default:
		panic("unknown binding role")
	}
}

func (r BindingRole) usage() uint32 {
	if r == InputBinding {
		return gl.STREAM_DRAW
	}
	return gl.STREAM_READ
}
