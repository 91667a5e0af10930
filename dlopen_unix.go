//go:build linux || darwin

package nativeload

import "github.com/ebitengine/purego"

// openLibrary loads the shared object at path into the process.
func openLibrary(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}
