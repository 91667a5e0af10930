package bundle

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// checksumsFile is the optional checksum list in the namespace
// directory. Format: "<hex digest>  <filename>" per line.
const checksumsFile = "checksums.txt"

// defaultKeyring is the keyring path used when the manifest names none.
const defaultKeyring = "keyring.gpg"

// Method indicates how a materialized library was verified.
type Method int

const (
	// MethodNone indicates the bundle carried no verification material.
	MethodNone Method = iota
	// MethodGPG indicates detached-signature verification was used.
	MethodGPG
	// MethodSHA256 indicates checksum verification was used.
	MethodSHA256
)

// String returns the string representation of the verification method.
func (m Method) String() string {
	switch m {
	case MethodGPG:
		return "GPG"
	case MethodSHA256:
		return "SHA256"
	case MethodNone:
		return "None"
	default:
		return "Unknown"
	}
}

// VerificationError reports integrity material that did not match the
// materialized file.
type VerificationError struct {
	Resource string
	Method   Method
	Err      error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("verify %s (%s): %v", e.Resource, e.Method, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Verify checks the materialized file at filePath against the bundle's
// integrity material for resourceName. GPG is preferred when a
// signature and keyring are present, SHA256 is the fallback; a bundle
// with neither yields MethodNone and no error. A mismatch is always a
// *VerificationError.
func (b *Bundle) Verify(filePath, resourceName string) (Method, error) {
	if b.hasSignature(resourceName) {
		if err := b.verifyGPG(filePath, resourceName); err != nil {
			return MethodGPG, err
		}
		return MethodGPG, nil
	}

	expected, ok, err := b.expectedChecksum(resourceName)
	if err != nil {
		return MethodSHA256, err
	}
	if !ok {
		return MethodNone, nil
	}

	if err := verifySHA256(filePath, resourceName, expected); err != nil {
		return MethodSHA256, err
	}
	return MethodSHA256, nil
}

// hasSignature reports whether both a detached signature for the
// resource and a keyring are present in the bundle.
func (b *Bundle) hasSignature(resourceName string) bool {
	if _, err := fs.Stat(b.fsys, b.signaturePath(resourceName)); err != nil {
		return false
	}
	_, err := fs.Stat(b.fsys, b.keyringPath())
	return err == nil
}

func (b *Bundle) signaturePath(resourceName string) string {
	return path.Join(b.namespace, resourceName+".sig")
}

func (b *Bundle) keyringPath() string {
	if b.manifest != nil && b.manifest.Keyring != "" {
		return b.manifest.Keyring
	}
	return defaultKeyring
}

// verifyGPG verifies the materialized file against its detached
// signature, trying the armored form first and the binary form second.
func (b *Bundle) verifyGPG(filePath, resourceName string) error {
	keyring, err := b.loadKeyring()
	if err != nil {
		return &VerificationError{
			Resource: resourceName,
			Method:   MethodGPG,
			Err:      fmt.Errorf("load keyring: %w", err),
		}
	}

	sigData, err := fs.ReadFile(b.fsys, b.signaturePath(resourceName))
	if err != nil {
		return &VerificationError{
			Resource: resourceName,
			Method:   MethodGPG,
			Err:      fmt.Errorf("read signature: %w", err),
		}
	}

	libFile, err := os.Open(filePath)
	if err != nil {
		return &VerificationError{
			Resource: resourceName,
			Method:   MethodGPG,
			Err:      fmt.Errorf("open materialized file: %w", err),
		}
	}
	defer libFile.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, libFile, bytes.NewReader(sigData), nil)
	if err != nil {
		// Try non-armored signature
		if _, seekErr := libFile.Seek(0, io.SeekStart); seekErr != nil {
			return &VerificationError{
				Resource: resourceName,
				Method:   MethodGPG,
				Err:      fmt.Errorf("rewind materialized file: %w", seekErr),
			}
		}
		_, err = openpgp.CheckDetachedSignature(keyring, libFile, bytes.NewReader(sigData), nil)
	}
	if err != nil {
		return &VerificationError{
			Resource: resourceName,
			Method:   MethodGPG,
			Err:      fmt.Errorf("verify signature: %w", err),
		}
	}

	return nil
}

// loadKeyring reads the bundle keyring, armored first, then binary.
func (b *Bundle) loadKeyring() (openpgp.EntityList, error) {
	data, err := fs.ReadFile(b.fsys, b.keyringPath())
	if err != nil {
		return nil, fmt.Errorf("read keyring: %w", err)
	}

	keyring, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		keyring, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}

// expectedChecksum finds the expected digest for resourceName in the
// manifest or the checksum file. ok is false when neither carries one.
func (b *Bundle) expectedChecksum(resourceName string) (digest string, ok bool, err error) {
	if b.manifest != nil {
		if digest, ok = b.manifest.Checksums[resourceName]; ok {
			return digest, true, nil
		}
	}

	data, err := fs.ReadFile(b.fsys, path.Join(b.namespace, checksumsFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read checksum file: %w", err)
	}

	digest, found, err := findChecksum(bytes.NewReader(data), resourceName)
	if err != nil {
		return "", false, err
	}
	return digest, found, nil
}

// verifySHA256 compares the file's digest against the expected one.
func verifySHA256(filePath, resourceName, expected string) error {
	actual, err := calculateSHA256(filePath)
	if err != nil {
		return &VerificationError{
			Resource: resourceName,
			Method:   MethodSHA256,
			Err:      fmt.Errorf("calculate checksum: %w", err),
		}
	}

	if !strings.EqualFold(actual, expected) {
		return &VerificationError{
			Resource: resourceName,
			Method:   MethodSHA256,
			Err:      fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s", actual, expected),
		}
	}

	return nil
}

// calculateSHA256 calculates the SHA256 checksum of a file.
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum scans checksum lines ("<hex>  <filename>") for filename.
func findChecksum(r io.Reader, filename string) (string, bool, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) < 2 {
			continue
		}

		// Exact match first, then basename for entries with paths.
		if parts[1] == filename || path.Base(parts[1]) == filename {
			return parts[0], true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("scan checksum file: %w", err)
	}

	return "", false, nil
}
