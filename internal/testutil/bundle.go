// Package testutil provides helpers for building fixture resource
// bundles in tests.
package testutil

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// FixtureLib returns size bytes of deterministic pseudo-random content,
// so checksum expectations stay stable across runs.
func FixtureLib(size int) []byte {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte((i*7 + 13) % 251)
	}
	return data
}

// SHA256Hex returns the hex-encoded SHA256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// BundleFS builds an in-memory bundle from file name to content.
func BundleFS(files map[string][]byte) fs.FS {
	m := fstest.MapFS{}
	for name, data := range files {
		m[name] = &fstest.MapFile{Data: data}
	}
	return m
}

// ChecksumLine formats one checksums.txt entry.
func ChecksumLine(data []byte, filename string) string {
	return fmt.Sprintf("%s  %s\n", SHA256Hex(data), filename)
}

// SignedBundleFS builds an in-memory bundle holding the library at
// namespace/name together with a binary keyring at the bundle root and
// a detached signature created with a throwaway key.
func SignedBundleFS(t *testing.T, namespace, name string, lib []byte) fs.FS {
	t.Helper()

	entity, err := openpgp.NewEntity("nativeload test", "", "test@example.invalid", nil)
	if err != nil {
		t.Fatalf("generate test key: %v", err)
	}

	var keyring bytes.Buffer
	if err := entity.Serialize(&keyring); err != nil {
		t.Fatalf("serialize test key: %v", err)
	}

	var sig bytes.Buffer
	if err := openpgp.DetachSign(&sig, entity, bytes.NewReader(lib), nil); err != nil {
		t.Fatalf("sign fixture library: %v", err)
	}

	return BundleFS(map[string][]byte{
		namespace + "/" + name:          lib,
		namespace + "/" + name + ".sig": sig.Bytes(),
		"keyring.gpg":                   keyring.Bytes(),
	})
}

// TamperedCopy returns data with its first byte flipped, for
// verification-mismatch tests.
func TamperedCopy(data []byte) []byte {
	out := append([]byte(nil), data...)
	if len(out) > 0 {
		out[0] ^= 0xff
	}
	return out
}
