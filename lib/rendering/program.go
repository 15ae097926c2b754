package rendering

import (
	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/go-gl/gl/v4.3-core/gl"
)

// Program is a linked compute program extracting one plane.
type Program struct {
	ID     uint32
	Kind   encdec.PlaneKind
	Source string
}

func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

func (p *Program) Delete() {
	if p == nil || p.ID == 0 {
		return
	}
	gl.DeleteProgram(p.ID)
	p.ID = 0
}
