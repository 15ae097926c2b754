package shaders

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/rendering"
	"github.com/go-gl/gl/v4.3-core/gl"
)

// BuildComputeProgram compiles and links a single compute shader. Failures
// carry the driver's info log and are never worth retrying: they mean the
// generated source is wrong for this driver.
func BuildComputeProgram(kind encdec.PlaneKind, source string) (*rendering.Program, error) {
	shader, err := compileShader(kind, source)
	if err != nil {
		return nil, err
	}
	defer gl.DeleteShader(shader)

	program := gl.CreateProgram()
	if program == 0 {
		return nil, &rendering.ResourceError{
			What: fmt.Sprintf("%s program", kind),
			Err:  rendering.CheckError("glCreateProgram"),
		}
	}

	gl.AttachShader(program, shader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		logmsg := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logmsg))

		gl.DeleteProgram(program)
		return nil, &rendering.LinkError{Kind: kind, Log: strings.TrimRight(logmsg, "\x00")}
	}
	gl.DetachShader(program, shader)

	return &rendering.Program{ID: program, Kind: kind, Source: source}, nil
}

func compileShader(kind encdec.PlaneKind, source string) (uint32, error) {
	shader := gl.CreateShader(gl.COMPUTE_SHADER)
	if shader == 0 {
		return 0, &rendering.ResourceError{
			What: fmt.Sprintf("%s compute shader", kind),
			Err:  rendering.CheckError("glCreateShader"),
		}
	}

	csources, free := gl.Strs(source)
	size := int32(len(source))
	gl.ShaderSource(shader, 1, csources, &size)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		clog := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(clog))

		gl.DeleteShader(shader)
		return 0, &rendering.CompileError{Kind: kind, Log: strings.TrimRight(clog, "\x00")}
	}

	return shader, nil
}

// DumpSource writes a generated shader next to its siblings in dir so it can
// be fed to glslangValidator by hand.
func DumpSource(dir string, name string, source string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("could not create shader dump dir %s: %w", dir, err)
	}
	filename := filepath.Join(dir, name)
	err := os.WriteFile(filename, []byte(source), 0o644)
	if err != nil {
		return fmt.Errorf("could not write shader dump %s: %w", filename, err)
	}
	return nil
}
