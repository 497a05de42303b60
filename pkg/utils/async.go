package utils

import (
	"context"
	"log"
	"runtime/debug"

	"golang-stock-movers/pkg/logger"
)

// GoSafe runs fn in a goroutine and absorbs panics so a single bad worker
// cannot take the process down.
func GoSafe(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("recovered from panic: %v\n%s", r, debug.Stack())
			}
		}()
		fn()
	}()
}

// ShouldContinue reports whether ctx is still live, for loop bodies that
// need to bail out between units of work.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Warn("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
