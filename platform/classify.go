package platform

import "strings"

// rawPrefix marks tags derived from unrecognized descriptors. The raw
// text is kept behind the prefix so a failed resource lookup names the
// platform that produced it.
const rawPrefix = "raw"

// Classify maps raw architecture and OS descriptors to a platform tag.
// It is pure, total, and case-insensitive; unrecognized input yields
// sentinel tags instead of an error.
func Classify(rawArch, rawOS string) Tag {
	osTag, ext := classifyOS(rawOS)
	return Tag{
		Arch: classifyArch(rawArch),
		OS:   osTag,
		Ext:  ext,
	}
}

// classifyArch maps a raw architecture descriptor by exact match on the
// lower-cased value.
func classifyArch(raw string) ArchTag {
	switch arch := strings.ToLower(raw); arch {
	case "x86_64", "amd64":
		return ArchAMD64
	case "aarch64":
		return ArchAarch64
	case "arm":
		return ArchARM
	case "x86":
		return ArchX86
	default:
		return ArchTag(rawPrefix + arch)
	}
}

// classifyOS maps a raw OS descriptor by substring containment on the
// lower-cased value. The substrings are mutually exclusive in practice;
// the branch order below is the fixed priority. Unrecognized systems get
// a sentinel tag and no extension.
func classifyOS(raw string) (OSTag, string) {
	os := strings.ToLower(raw)
	switch {
	case strings.Contains(os, "nix"), strings.Contains(os, "nux"), strings.Contains(os, "aix"):
		return OSLinux, ExtLinux
	case strings.Contains(os, "win"):
		return OSWindows, ExtWindows
	case strings.Contains(os, "mac"):
		return OSMac, ExtMac
	default:
		return OSTag(rawPrefix + os), ""
	}
}
