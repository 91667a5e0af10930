package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// HostDetector implements Detector using actual host inspection.
type HostDetector struct{}

// NewDetector creates a new host detector.
func NewDetector() Detector {
	return &HostDetector{}
}

// Detect reads the raw platform descriptors from the running host.
//
// The architecture descriptor comes from the kernel (uname -m style,
// e.g. "x86_64", "aarch64"), which is the hardware naming Classify
// expects. The OS descriptor is an os-name style description such as
// "Linux 5.15.0-91-generic" or "macOS 14.2", deliberately not
// runtime.GOOS, because Classify matches by substring and "darwin"
// would hit the "win" branch.
//
// If host inspection fails, Detect falls back to descriptors derived
// from runtime.GOOS and runtime.GOARCH and does not return an error;
// only context cancellation is a hard failure.
func (d *HostDetector) Detect(ctx context.Context) (Descriptors, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return Descriptors{}, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return Descriptors{
			Arch: goarchDescriptor(runtime.GOARCH),
			OS:   osDescriptor(runtime.GOOS, "", ""),
		}, nil
	}

	arch := info.KernelArch
	if arch == "" {
		arch = goarchDescriptor(runtime.GOARCH)
	}

	return Descriptors{
		Arch: arch,
		OS:   osDescriptor(runtime.GOOS, info.Platform, versionFor(runtime.GOOS, info)),
	}, nil
}

// versionFor picks the version string that best describes the OS to a
// human: the kernel version on Linux, the platform version elsewhere.
func versionFor(goos string, info *host.InfoStat) string {
	if goos == "linux" {
		return info.KernelVersion
	}
	return info.PlatformVersion
}

// osDescriptor synthesizes an os-name style description from GOOS plus
// whatever detail host inspection provided.
func osDescriptor(goos, platform, version string) string {
	switch goos {
	case "linux":
		if version != "" {
			return "Linux " + version
		}
		return "Linux"
	case "darwin":
		if version != "" {
			return "macOS " + version
		}
		return "macOS"
	case "windows":
		if platform != "" {
			return platform // e.g. "Microsoft Windows 10 Pro"
		}
		return "Windows"
	case "aix":
		return "AIX"
	default:
		return goos
	}
}

// goarchDescriptor maps GOARCH values to the hardware naming used by
// the classifier, mirroring how release artifacts are named.
func goarchDescriptor(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "arm64":
		return "aarch64"
	case "arm":
		return "arm"
	case "386":
		return "x86"
	default:
		return goarch
	}
}
