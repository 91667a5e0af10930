// Package extract materializes bundled native-library resources into
// freshly created private temporary files.
//
// Each call produces a new uniquely named file containing an exact copy
// of the resource bytes, or fails outright; a partial file is never
// left behind as apparent content. Every created file is registered for
// best-effort deletion (see Cleanup) before anything else can fail.
package extract

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// copyBufferSize bounds the memory used per copy. Resources are
// streamed, never read whole.
const copyBufferSize = 2048

// Error reports a failed materialization. It names the resource that
// was being extracted and wraps the underlying cause.
type Error struct {
	Resource string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Resource, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Materialize copies the bundled resource addressed by resourceID into
// a new temporary file and returns the file's path. The file is private
// to this call and already registered for cleanup; on any failure the
// file is removed and an *Error is returned.
func Materialize(fsys fs.FS, resourceID string) (string, error) {
	tmp, err := os.CreateTemp("", "nativeload-*")
	if err != nil {
		return "", &Error{Resource: resourceID, Err: fmt.Errorf("create temp file: %w", err)}
	}
	path := tmp.Name()
	MarkForCleanup(path)

	// Guard against sandboxed or read-only environments where file
	// creation silently no-ops.
	if _, err := os.Stat(path); err != nil {
		tmp.Close()
		return "", &Error{Resource: resourceID, Err: fmt.Errorf("failed to create temp file: %w", err)}
	}

	if err := copyResource(fsys, resourceID, tmp); err != nil {
		tmp.Close()
		os.Remove(path)
		return "", err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(path)
		return "", &Error{Resource: resourceID, Err: fmt.Errorf("close temp file: %w", err)}
	}

	return path, nil
}

// copyResource streams the resource bytes into dst with a bounded
// buffer. The resource stream is closed on every path; a close failure
// after a copy failure is attached as a secondary cause rather than
// replacing it.
func copyResource(fsys fs.FS, resourceID string, dst io.Writer) error {
	src, err := fsys.Open(resourceID)
	if err != nil {
		return &Error{Resource: resourceID, Err: fmt.Errorf("open resource %s: %w", resourceID, err)}
	}

	buf := make([]byte, copyBufferSize)
	_, copyErr := io.CopyBuffer(dst, src, buf)

	closeErr := src.Close()
	if copyErr != nil {
		if closeErr != nil {
			copyErr = errors.Join(copyErr, closeErr)
		}
		return &Error{Resource: resourceID, Err: fmt.Errorf("copy resource: %w", copyErr)}
	}
	if closeErr != nil {
		return &Error{Resource: resourceID, Err: fmt.Errorf("close resource: %w", closeErr)}
	}

	return nil
}
