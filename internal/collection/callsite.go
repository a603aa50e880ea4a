package collection

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

var packageDir = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}()

// callSite returns file:line of the first caller outside this package
func callSite() (string, bool) {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !internalFrame(frame) {
			return fmt.Sprintf("%s:%d", frame.File, frame.Line), true
		}
		if !more {
			return "", false
		}
	}
}

func internalFrame(frame runtime.Frame) bool {
	if frame.File == "" || strings.HasPrefix(frame.Function, "runtime.") || strings.HasPrefix(frame.Function, "reflect.") {
		return true
	}
	return filepath.Dir(frame.File) == packageDir && !strings.HasSuffix(frame.File, "_test.go")
}
