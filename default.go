package nativeload

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"github.com/tnsc4502/nativeload/bundle"
	"github.com/tnsc4502/nativeload/extract"
	"github.com/tnsc4502/nativeload/platform"
)

// Config holds construction options for the default loader.
type Config struct {
	// Namespace overrides the bundle's variant directory. Empty means
	// the bundle manifest's namespace or bundle.DefaultNamespace.
	Namespace string
	// Detector overrides host descriptor reading. Nil means real host
	// detection.
	Detector platform.Detector
	// Logger receives debug records. Nil disables logging.
	Logger *slog.Logger
}

// DefaultLoader is the stock strategy: classify the host, materialize
// the matching bundled variant, verify it when the bundle carries
// integrity material, and hand it to the OS dynamic loader.
type DefaultLoader struct {
	namespace string
	detector  platform.Detector
	logger    *slog.Logger
	openLib   func(path string) (uintptr, error) // swapped in tests
}

// NewDefaultLoader creates a default loader.
func NewDefaultLoader(config Config) *DefaultLoader {
	detector := config.Detector
	if detector == nil {
		detector = platform.NewDetector()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &DefaultLoader{
		namespace: config.Namespace,
		detector:  detector,
		logger:    logger,
		openLib:   openLibrary,
	}
}

// Load performs one complete load attempt against fsys.
func (l *DefaultLoader) Load(ctx context.Context, fsys fs.FS) error {
	desc, err := l.detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}

	tag := platform.Classify(desc.Arch, desc.OS)
	l.logger.Debug("classified host",
		"raw_arch", desc.Arch, "raw_os", desc.OS,
		"arch", tag.Arch, "os", tag.OS)

	b, err := bundle.New(bundle.Config{FS: fsys, Namespace: l.namespace})
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}

	resourceID := b.ResourcePath(tag)
	libPath, err := extract.Materialize(fsys, resourceID)
	if err != nil {
		return err
	}
	l.logger.Debug("materialized library", "resource", resourceID, "path", libPath)

	method, err := b.Verify(libPath, bundle.ResourceName(tag))
	if err != nil {
		return err
	}
	if method != bundle.MethodNone {
		l.logger.Debug("verified library", "resource", resourceID, "method", method.String())
	}

	handle, err := l.openLib(libPath)
	if err != nil {
		return &LinkError{Path: libPath, Err: err}
	}
	l.logger.Debug("loaded native library", "path", libPath, "handle", handle)

	// On unix the mapping stays alive after unlink; the temp file can
	// go now instead of waiting for Cleanup. Windows keeps the file
	// locked while loaded.
	if runtime.GOOS != "windows" {
		if os.Remove(libPath) == nil {
			extract.Unmark(libPath)
		}
	}

	return nil
}
