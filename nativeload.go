// Package nativeload selects, materializes, and loads the native
// shared-library variant matching the running host from a bundled
// fs.FS.
//
// A load is a single linear attempt: classify the host platform, build
// the resource path, copy the matching bundled variant into a private
// temporary file, verify it when the bundle carries integrity
// material, and hand the file to the OS dynamic loader. A failed load
// is fatal to the caller; nothing is retried or cached, and there is
// no unload.
//
// The loading strategy is process-wide and swappable: hosts that
// manage native code themselves (a plugin runtime, a module system)
// install their own Loader — or NoopLoader — before the first load is
// triggered. The registry is an atomic reference, so a replacement
// racing an in-flight load does not affect that load; it only governs
// subsequent calls.
package nativeload

import (
	"context"
	"errors"
	"io/fs"
	"sync/atomic"
)

// Loader loads a bundle's native library into the process. The fs.FS
// anchors resource lookup to the requesting module's bundle.
type Loader interface {
	Load(ctx context.Context, bundle fs.FS) error
}

// ErrNilLoader is returned by SetLoader for a nil strategy.
var ErrNilLoader = errors.New("loader must not be nil")

// activeLoader holds the process-wide strategy. Never nil.
var activeLoader atomic.Pointer[Loader]

func init() {
	var l Loader = NewDefaultLoader(Config{})
	activeLoader.Store(&l)
}

// GetLoader returns the active loading strategy.
func GetLoader() Loader {
	return *activeLoader.Load()
}

// SetLoader replaces the active loading strategy. Replacement is meant
// to happen during initialization, before any Load; a nil loader is
// rejected and leaves the active strategy unchanged.
func SetLoader(l Loader) error {
	if l == nil {
		return ErrNilLoader
	}
	activeLoader.Store(&l)
	return nil
}

// Load invokes the active strategy on bundle.
func Load(ctx context.Context, bundle fs.FS) error {
	return GetLoader().Load(ctx, bundle)
}

// NoopLoader is a strategy that loads nothing. Hosts whose runtime
// loads the native library itself install this to turn Load into a
// no-op.
type NoopLoader struct{}

// Load does nothing and reports success.
func (NoopLoader) Load(ctx context.Context, bundle fs.FS) error {
	return nil
}
