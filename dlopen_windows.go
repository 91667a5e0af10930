//go:build windows

package nativeload

import "golang.org/x/sys/windows"

// openLibrary loads the DLL at path into the process. The altered
// search path lets the DLL resolve siblings relative to its own
// location rather than the process directory.
func openLibrary(path string) (uintptr, error) {
	handle, err := windows.LoadLibraryEx(path, 0, windows.LOAD_WITH_ALTERED_SEARCH_PATH)
	if err != nil {
		return 0, err
	}
	return uintptr(handle), nil
}
