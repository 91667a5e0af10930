// Package platform classifies host descriptors into the canonical
// architecture and OS tags used to name bundled native libraries.
//
// Classification is a pure string mapping: raw descriptors such as
// "x86_64" or "Linux 5.15.0-91-generic" go in, canonical tags such as
// (amd64, linux) come out. Unrecognized descriptors are never an error;
// they degrade to a sentinel tag carrying the raw text, so that the
// eventual failure happens at resource lookup with a traceable name.
//
// The package also provides host detection: reading the raw descriptors
// from the running system. Detection uses gopsutil for the kernel
// architecture and OS description and falls back to runtime.GOOS and
// runtime.GOARCH when that fails.
package platform

import "context"

// ArchTag is a canonical CPU architecture tag.
type ArchTag string

// Canonical architecture tags. Unrecognized architectures produce a tag
// of the form "raw<descriptor>".
const (
	ArchAMD64   ArchTag = "amd64"
	ArchAarch64 ArchTag = "aarch64"
	ArchARM     ArchTag = "arm"
	ArchX86     ArchTag = "x86"
)

// OSTag is a canonical operating system tag.
type OSTag string

// Canonical OS tags. Unrecognized operating systems produce a tag of the
// form "raw<descriptor>".
const (
	OSLinux   OSTag = "linux"
	OSWindows OSTag = "windows"
	OSMac     OSTag = "mac"
)

// Native shared-library extensions per OS family.
const (
	ExtLinux   = "so"
	ExtWindows = "dll"
	ExtMac     = "dylib"
)

// Tag identifies the native-library variant for one platform.
// Ext is empty when the OS was not recognized.
type Tag struct {
	Arch ArchTag
	OS   OSTag
	Ext  string
}

// IsLinux returns true if the OS tag is linux.
func (t Tag) IsLinux() bool {
	return t.OS == OSLinux
}

// IsWindows returns true if the OS tag is windows.
func (t Tag) IsWindows() bool {
	return t.OS == OSWindows
}

// IsMac returns true if the OS tag is mac.
func (t Tag) IsMac() bool {
	return t.OS == OSMac
}

// Recognized returns true if both the architecture and the OS mapped to
// canonical tags rather than raw sentinels.
func (t Tag) Recognized() bool {
	switch t.Arch {
	case ArchAMD64, ArchAarch64, ArchARM, ArchX86:
	default:
		return false
	}
	switch t.OS {
	case OSLinux, OSWindows, OSMac:
		return true
	}
	return false
}

// Descriptors are the raw platform strings fed to Classify.
type Descriptors struct {
	Arch string // hardware naming, e.g. "x86_64", "aarch64"
	OS   string // OS description, e.g. "Linux 5.15.0-91-generic", "macOS 14.2"
}

// Detector is the interface for reading raw host descriptors.
type Detector interface {
	Detect(ctx context.Context) (Descriptors, error)
}
