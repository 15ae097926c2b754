package glcontext

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// GLFWProvider creates contexts backed by invisible 1x1 windows. GLFW must
// be driven from the main thread, so callers lock it with
// runtime.LockOSThread before using the provider.
type GLFWProvider struct {
	Major int
	Minor int

	// Debug requests a debug context, needed for driver debug output.
	Debug bool
}

var (
	glfwMutex sync.Mutex
	glfwUsers int
)

func NewGLFWProvider() *GLFWProvider {
	return &GLFWProvider{Major: 4, Minor: 3}
}

func (p *GLFWProvider) NewContext() (Context, error) {
	if err := acquireGLFW(); err != nil {
		return nil, &ContextError{Op: "initialize glfw", Err: err}
	}

	glfw.DefaultWindowHints()
	for _, h := range p.windowHints() {
		glfw.WindowHint(h.target, h.value)
	}

	window, err := glfw.CreateWindow(1, 1, "glconvert", nil, nil)
	if err != nil {
		releaseGLFW()
		return nil, &ContextError{Op: fmt.Sprintf("create OpenGL %d.%d context", p.Major, p.Minor), Err: err}
	}

	slog.Debug("Created hidden GL window", "module", "glcontext", "version", fmt.Sprintf("%d.%d", p.Major, p.Minor), "debug", p.Debug)
	return &glfwContext{window: window}, nil
}

type windowHint struct {
	target glfw.Hint
	value  int
}

func (p *GLFWProvider) windowHints() []windowHint {
	debug := glfw.False
	if p.Debug {
		debug = glfw.True
	}
	return []windowHint{
		{glfw.Visible, glfw.False},
		{glfw.Resizable, glfw.False},
		{glfw.ContextVersionMajor, p.Major},
		{glfw.ContextVersionMinor, p.Minor},
		{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
		{glfw.OpenGLForwardCompatible, glfw.True},
		{glfw.OpenGLDebugContext, debug},
	}
}

type glfwContext struct {
	window *glfw.Window
}

func (c *glfwContext) MakeCurrent() error {
	if c.window == nil {
		return &ContextError{Op: "make context current", Err: fmt.Errorf("context was destroyed")}
	}
	if glfw.GetCurrentContext() != c.window {
		c.window.MakeContextCurrent()
	}
	return nil
}

func (c *glfwContext) Destroy() {
	if c.window == nil {
		return
	}
	if glfw.GetCurrentContext() == c.window {
		glfw.DetachCurrentContext()
	}
	c.window.Destroy()
	c.window = nil
	releaseGLFW()
}

func acquireGLFW() error {
	glfwMutex.Lock()
	defer glfwMutex.Unlock()

	if glfwUsers == 0 {
		if err := glfw.Init(); err != nil {
			return err
		}
	}
	glfwUsers++
	return nil
}

// releaseGLFW terminates the library once the last context is gone.
func releaseGLFW() {
	glfwMutex.Lock()
	defer glfwMutex.Unlock()

	glfwUsers--
	if glfwUsers == 0 {
		glfw.Terminate()
	}
}
