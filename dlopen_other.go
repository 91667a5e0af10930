//go:build !linux && !darwin && !windows

package nativeload

import (
	"fmt"
	"runtime"
)

// openLibrary fails on platforms without dynamic-loader support.
func openLibrary(path string) (uintptr, error) {
	return 0, fmt.Errorf("dynamic loading is not supported on %s", runtime.GOOS)
}
