package bundle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tnsc4502/nativeload/internal/testutil"
)

// materialize writes lib to a throwaway file, standing in for the
// extract step.
func materialize(t *testing.T, lib []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "materialized")
	if err := os.WriteFile(path, lib, 0o600); err != nil {
		t.Fatalf("write materialized fixture: %v", err)
	}
	return path
}

func TestVerify_NoMaterial(t *testing.T) {
	lib := testutil.FixtureLib(4096)
	fsys := testutil.BundleFS(map[string][]byte{
		"native/amd64-linux.so": lib,
	})
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	method, err := b.Verify(materialize(t, lib), "amd64-linux.so")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if method != MethodNone {
		t.Errorf("Verify() method = %v, want MethodNone", method)
	}
}

func TestVerify_ManifestChecksum(t *testing.T) {
	lib := testutil.FixtureLib(4096)
	manifest := `
bundle = {
    checksums = { ["amd64-linux.so"] = "` + testutil.SHA256Hex(lib) + `" },
}
`
	fsys := testutil.BundleFS(map[string][]byte{
		"manifest.lua":          []byte(manifest),
		"native/amd64-linux.so": lib,
	})
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	method, err := b.Verify(materialize(t, lib), "amd64-linux.so")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if method != MethodSHA256 {
		t.Errorf("Verify() method = %v, want MethodSHA256", method)
	}
}

func TestVerify_ManifestChecksumMismatch(t *testing.T) {
	lib := testutil.FixtureLib(4096)
	manifest := `
bundle = {
    checksums = { ["amd64-linux.so"] = "` + testutil.SHA256Hex(lib) + `" },
}
`
	fsys := testutil.BundleFS(map[string][]byte{
		"manifest.lua":          []byte(manifest),
		"native/amd64-linux.so": lib,
	})
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = b.Verify(materialize(t, testutil.TamperedCopy(lib)), "amd64-linux.so")
	if err == nil {
		t.Fatal("Verify() accepted tampered content")
	}

	var verr *VerificationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *VerificationError", err)
	}
	if verr.Method != MethodSHA256 {
		t.Errorf("VerificationError.Method = %v, want MethodSHA256", verr.Method)
	}
	if verr.Resource != "amd64-linux.so" {
		t.Errorf("VerificationError.Resource = %q, want %q", verr.Resource, "amd64-linux.so")
	}
}

func TestVerify_ChecksumFile(t *testing.T) {
	lib := testutil.FixtureLib(2048)
	fsys := testutil.BundleFS(map[string][]byte{
		"native/amd64-linux.so": lib,
		"native/checksums.txt": []byte(
			testutil.ChecksumLine([]byte("other"), "aarch64-mac.dylib") +
				testutil.ChecksumLine(lib, "amd64-linux.so"),
		),
	})
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	method, err := b.Verify(materialize(t, lib), "amd64-linux.so")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if method != MethodSHA256 {
		t.Errorf("Verify() method = %v, want MethodSHA256", method)
	}
}

func TestVerify_ChecksumFileUppercaseDigest(t *testing.T) {
	lib := testutil.FixtureLib(128)
	line := strings.ToUpper(testutil.SHA256Hex(lib)) + "  amd64-linux.so\n"
	fsys := testutil.BundleFS(map[string][]byte{
		"native/amd64-linux.so": lib,
		"native/checksums.txt":  []byte(line),
	})
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	method, err := b.Verify(materialize(t, lib), "amd64-linux.so")
	if err != nil {
		t.Errorf("Verify() rejected case-differing digest: %v", err)
	}
	if method != MethodSHA256 {
		t.Errorf("Verify() method = %v, want MethodSHA256", method)
	}
}

func TestVerify_GPG(t *testing.T) {
	lib := testutil.FixtureLib(4096)
	fsys := testutil.SignedBundleFS(t, "native", "amd64-linux.so", lib)
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	method, err := b.Verify(materialize(t, lib), "amd64-linux.so")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if method != MethodGPG {
		t.Errorf("Verify() method = %v, want MethodGPG", method)
	}
}

func TestVerify_GPGTampered(t *testing.T) {
	lib := testutil.FixtureLib(4096)
	fsys := testutil.SignedBundleFS(t, "native", "amd64-linux.so", lib)
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = b.Verify(materialize(t, testutil.TamperedCopy(lib)), "amd64-linux.so")
	if err == nil {
		t.Fatal("Verify() accepted tampered content against signature")
	}

	var verr *VerificationError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T, want *VerificationError", err)
	}
	if verr.Method != MethodGPG {
		t.Errorf("VerificationError.Method = %v, want MethodGPG", verr.Method)
	}
}

func TestVerify_SignatureWithoutKeyringFallsBack(t *testing.T) {
	// A stray .sig with no keyring anywhere cannot be checked; the
	// bundle still verifies by checksum when one is available.
	lib := testutil.FixtureLib(512)
	fsys := testutil.BundleFS(map[string][]byte{
		"native/amd64-linux.so":     lib,
		"native/amd64-linux.so.sig": []byte("not checkable"),
		"native/checksums.txt":      []byte(testutil.ChecksumLine(lib, "amd64-linux.so")),
	})
	b, err := New(Config{FS: fsys})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	method, err := b.Verify(materialize(t, lib), "amd64-linux.so")
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if method != MethodSHA256 {
		t.Errorf("Verify() method = %v, want MethodSHA256", method)
	}
}

func TestMethodString(t *testing.T) {
	tests := []struct {
		method Method
		want   string
	}{
		{MethodNone, "None"},
		{MethodGPG, "GPG"},
		{MethodSHA256, "SHA256"},
		{Method(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("Method(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestFindChecksum(t *testing.T) {
	input := strings.NewReader(
		"abc123  amd64-linux.so\n" +
			"malformed-line\n" +
			"def456  dist/aarch64-mac.dylib\n",
	)

	digest, found, err := findChecksum(input, "amd64-linux.so")
	if err != nil || !found || digest != "abc123" {
		t.Errorf("findChecksum() = (%q, %v, %v), want (abc123, true, nil)", digest, found, err)
	}

	digest, found, err = findChecksum(strings.NewReader("def456  dist/aarch64-mac.dylib\n"), "aarch64-mac.dylib")
	if err != nil || !found || digest != "def456" {
		t.Errorf("basename match = (%q, %v, %v), want (def456, true, nil)", digest, found, err)
	}

	_, found, err = findChecksum(strings.NewReader("abc123  other.so\n"), "amd64-linux.so")
	if err != nil || found {
		t.Errorf("missing entry = (found=%v, err=%v), want (false, nil)", found, err)
	}
}
