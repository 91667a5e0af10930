package bundle

import (
	"fmt"
	"io/fs"
	"path"

	"github.com/tnsc4502/nativeload/platform"
)

// DefaultNamespace is the directory prefix holding native-library
// variants when neither the manifest nor the caller overrides it.
const DefaultNamespace = "native"

// Bundle is a read-only view of one application's native resources.
type Bundle struct {
	fsys      fs.FS
	namespace string
	manifest  *Manifest
}

// Config holds configuration for opening a bundle.
type Config struct {
	// FS is the resource filesystem. Required.
	FS fs.FS
	// Namespace overrides the variant directory. Empty means the
	// manifest's namespace, or DefaultNamespace.
	Namespace string
}

// New opens a bundle, loading its manifest if one is present.
func New(config Config) (*Bundle, error) {
	if config.FS == nil {
		return nil, fmt.Errorf("FS is required")
	}

	manifest, err := LoadManifest(config.FS)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}

	namespace := config.Namespace
	if namespace == "" && manifest != nil {
		namespace = manifest.Namespace
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if !fs.ValidPath(namespace) {
		return nil, fmt.Errorf("invalid namespace %q", namespace)
	}

	return &Bundle{
		fsys:      config.FS,
		namespace: namespace,
		manifest:  manifest,
	}, nil
}

// Namespace returns the variant directory in effect.
func (b *Bundle) Namespace() string {
	return b.namespace
}

// Manifest returns the parsed manifest, or nil if the bundle has none.
func (b *Bundle) Manifest() *Manifest {
	return b.manifest
}

// ResourceName builds the file name of the variant for tag:
// "<arch>-<os>.<ext>", or "<arch>-<os>" when the OS was not recognized
// and carries no extension.
func ResourceName(tag platform.Tag) string {
	name := fmt.Sprintf("%s-%s", tag.Arch, tag.OS)
	if tag.Ext != "" {
		name += "." + tag.Ext
	}
	return name
}

// ResourcePath builds the bundle-relative path of the variant for tag.
func (b *Bundle) ResourcePath(tag platform.Tag) string {
	return path.Join(b.namespace, ResourceName(tag))
}

// Open opens the resource at the bundle-relative path resourceID.
func (b *Bundle) Open(resourceID string) (fs.File, error) {
	return b.fsys.Open(resourceID)
}

// Has reports whether the bundle contains a variant for tag.
func (b *Bundle) Has(tag platform.Tag) bool {
	info, err := fs.Stat(b.fsys, b.ResourcePath(tag))
	return err == nil && !info.IsDir()
}

// Variants lists the resource file names present in the namespace
// directory, excluding verification material.
func (b *Bundle) Variants() ([]string, error) {
	entries, err := fs.ReadDir(b.fsys, b.namespace)
	if err != nil {
		return nil, fmt.Errorf("read namespace %s: %w", b.namespace, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == checksumsFile || path.Ext(name) == ".sig" {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
