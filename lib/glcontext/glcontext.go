// Package glcontext hands out compute-capable OpenGL contexts. The
// converter only ever asks for a context, makes it current and destroys it;
// how the context comes to exist is up to the Provider.
package glcontext

import (
	"fmt"
)

type Provider interface {
	NewContext() (Context, error)
}

type Context interface {
	// MakeCurrent binds the context to the calling OS thread.
	MakeCurrent() error
	Destroy()
}

type ContextError struct {
	Op  string
	Err error
}

func (e *ContextError) Error() string {
	return fmt.Sprintf("could not %s: %s", e.Op, e.Err)
}

func (e *ContextError) Unwrap() error {
	return e.Err
}
