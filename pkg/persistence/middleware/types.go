package middleware

import "github.com/aretw0/bazi/pkg/ports"

// Middleware allows wrapping a ReadingRecorder to add behavior.
type Middleware func(ports.ReadingRecorder) ports.ReadingRecorder

// Chain applies middlewares so the first one is outermost.
func Chain(r ports.ReadingRecorder, mws ...Middleware) ports.ReadingRecorder {
	for i := len(mws) - 1; i >= 0; i-- {
		r = mws[i](r)
	}
	return r
}
