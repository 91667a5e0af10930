// Package bundle provides read access to an application's bundled
// native-library resources.
//
// A bundle is any fs.FS (typically a //go:embed filesystem) with a
// namespace directory holding one shared-library file per supported
// platform, named "<arch>-<os>.<ext>" from canonical platform tags.
//
// # Manifest
//
// A bundle may carry an optional manifest.lua at its root, evaluated in
// a sandboxed Lua VM, declaring the namespace, a keyring path, and
// per-resource SHA256 checksums:
//
//	bundle = {
//	    namespace = "native",
//	    keyring = "keyring.gpg",
//	    checksums = {
//	        ["amd64-linux.so"] = "9f86d081884c7d65...",
//	    },
//	}
//
// Absent manifest means defaults; a malformed manifest is an error.
//
// # Integrity
//
// Verification material is optional and checked only when present:
//
//  1. GPG detached signature ("<resource>.sig" next to the resource,
//     verified against the bundle keyring) — preferred.
//  2. SHA256 checksum (manifest table or "checksums.txt" in the
//     namespace directory) — fallback, integrity only.
//
// A bundle with neither loads unverified.
package bundle
