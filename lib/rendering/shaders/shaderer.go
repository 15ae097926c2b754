package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/fosdem/glconvert/lib/encdec"
	"github.com/fosdem/glconvert/lib/rendering"
)

//go:embed *.comp
var templateDir embed.FS

const DefaultGLSLVersion = "430 core"

type Shaderer struct {
	templates *template.Template
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error

	s.templates, err = template.ParseFS(templateDir, "*.comp")

	return s, err
}

// ShaderData contains stuff that gets passed to the compute templates.
// Array bounds come from the same Plane that sizes the GPU buffers.
type ShaderData struct {
	GLSLVersion string

	LocalSizeX int
	LocalSizeY int

	InputBinding  uint32
	OutputBinding uint32

	InHeight      int
	InWordStride  int
	OutHeight     int
	OutWordStride int
	OutPxPerWord  int
}

func NewShaderData(p encdec.Plane, tile int, glslVersion string) *ShaderData {
	if glslVersion == "" {
		glslVersion = DefaultGLSLVersion
	}
	return &ShaderData{
		GLSLVersion:   glslVersion,
		LocalSizeX:    tile,
		LocalSizeY:    tile,
		InputBinding:  rendering.InputBinding.Index(),
		OutputBinding: rendering.OutputBinding.Index(),
		InHeight:      p.InHeight,
		InWordStride:  p.InWordStride,
		OutHeight:     p.OutHeight,
		OutWordStride: p.OutWordStride,
		OutPxPerWord:  p.OutPxPerWord,
	}
}

func TemplateName(kind encdec.PlaneKind) string {
	switch kind {
	case encdec.PlaneY:
		return "yuy2_to_y8.comp"
	case encdec.PlaneUV:
		return "yuy2_to_uv.comp"
	default:
		panic("unknown plane kind")
	}
}

func (s *Shaderer) ComputeSource(kind encdec.PlaneKind, data *ShaderData) (string, error) {
	if data.LocalSizeX < 1 || data.LocalSizeY < 1 {
		return "", fmt.Errorf("work group size %dx%d is not positive", data.LocalSizeX, data.LocalSizeY)
	}

	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, TemplateName(kind), data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %s", err)
	}

	return b.String(), nil
}

// PlaneSource renders the compute program for one plane of the layout.
func (s *Shaderer) PlaneSource(l encdec.PlaneLayout, kind encdec.PlaneKind, tile int, glslVersion string) (string, error) {
	return s.ComputeSource(kind, NewShaderData(l.Plane(kind), tile, glslVersion))
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		names = append(names, t.Name())
	}
	return names
}
