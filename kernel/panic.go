package kernel

import "runtime/debug"

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	Source string
	Value  any
	Stack  []byte
}

// Capture runs fn and recovers a panic instead of letting it unwind the frame
// loop.
func Capture(source string, fn func()) (info PanicInfo, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			info = PanicInfo{Source: source, Value: r, Stack: debug.Stack()}
			panicked = true
		}
	}()
	fn()
	return PanicInfo{}, false
}
