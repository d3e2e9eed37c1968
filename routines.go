package main

import (
	"fmt"
	"runtime"
)

// safely runs f and turns a panic into an error carrying the stack.
func safely(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	return f()
}

func panicError(p any) error {
	buf := make([]byte, 64<<10)
	n := runtime.Stack(buf, false)
	return fmt.Errorf("panic: %v\n\n%s", p, buf[:n])
}
