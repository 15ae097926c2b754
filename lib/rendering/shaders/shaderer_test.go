package shaders

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/fosdem/glconvert/lib/encdec"
)

func renderPlane(t *testing.T, w, h, tile int, kind encdec.PlaneKind) (string, encdec.Plane) {
	t.Helper()
	l, err := encdec.NewPlaneLayout(w, h)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewShaderer()
	if err != nil {
		t.Fatalf("NewShaderer: %s", err)
	}
	src, err := s.PlaneSource(l, kind, tile, "")
	if err != nil {
		t.Fatalf("PlaneSource(%s): %s", kind, err)
	}
	return src, l.Plane(kind)
}

func TestTemplatesEmbedded(t *testing.T) {
	s, err := NewShaderer()
	if err != nil {
		t.Fatal(err)
	}
	names := s.TemplateNames()
	for _, kind := range []encdec.PlaneKind{encdec.PlaneY, encdec.PlaneUV} {
		if !slices.Contains(names, TemplateName(kind)) {
			t.Errorf("template %s missing from %v", TemplateName(kind), names)
		}
	}
}

func TestArrayBoundsMatchLayout(t *testing.T) {
	for _, kind := range []encdec.PlaneKind{encdec.PlaneY, encdec.PlaneUV} {
		src, p := renderPlane(t, 1920, 1080, 16, kind)

		in := fmt.Sprintf("uint elements[%d][%d];", p.InHeight, p.InWordStride)
		out := fmt.Sprintf("uint elements[%d][%d];", p.OutHeight, p.OutWordStride)
		if !strings.Contains(src, in) {
			t.Errorf("%s: input declaration %q not found", kind, in)
		}
		if !strings.Contains(src, out) {
			t.Errorf("%s: output declaration %q not found", kind, out)
		}
	}
}

func TestExpectedDeclarations(t *testing.T) {
	tests := []struct {
		kind encdec.PlaneKind
		want []string
	}{
		{encdec.PlaneY, []string{
			"#version 430 core\n",
			"layout(local_size_x = 16, local_size_y = 16) in;",
			"layout(binding = 0) readonly buffer YUY2Frame",
			"layout(binding = 1) writeonly buffer Plane",
			"uint elements[1080][960];",
			"uint elements[1080][480];",
			"if (y >= 1080u || g >= 480u)",
		}},
		{encdec.PlaneUV, []string{
			"layout(binding = 0) readonly buffer YUY2Frame",
			"layout(binding = 1) writeonly buffer Plane",
			"uint elements[1080][960];",
			"uint elements[540][480];",
			"if (out_y >= 540u || out_g >= 480u)",
			"uint in_x = out_g * 2u;",
		}},
	}
	for _, tt := range tests {
		src, _ := renderPlane(t, 1920, 1080, 16, tt.kind)
		for _, w := range tt.want {
			if !strings.Contains(src, w) {
				t.Errorf("%s source lacks %q", tt.kind, w)
			}
		}
		if strings.Contains(src, "{{") || strings.Contains(src, "<no value>") {
			t.Errorf("%s source has unrendered fields", tt.kind)
		}
	}
}

func TestTileSizeIsNotRestrictedToPowersOfTwo(t *testing.T) {
	src, _ := renderPlane(t, 640, 480, 12, encdec.PlaneY)
	if !strings.Contains(src, "local_size_x = 12, local_size_y = 12") {
		t.Errorf("tile size 12 not rendered")
	}
}

func TestCustomGLSLVersion(t *testing.T) {
	l, err := encdec.NewPlaneLayout(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewShaderer()
	if err != nil {
		t.Fatal(err)
	}
	src, err := s.PlaneSource(l, encdec.PlaneUV, 8, "310 es")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(src, "#version 310 es\n") {
		t.Errorf("unexpected header %q", strings.SplitN(src, "\n", 2)[0])
	}
}

func TestRejectsNonPositiveTile(t *testing.T) {
	l, err := encdec.NewPlaneLayout(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewShaderer()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.PlaneSource(l, encdec.PlaneY, 0, ""); err == nil {
		t.Errorf("tile size 0 should be rejected")
	}
}

func TestDumpSource(t *testing.T) {
	dir := t.TempDir()
	if err := DumpSource(dir+"/nested", "y.comp", "void main() {}"); err != nil {
		t.Fatal(err)
	}
}
