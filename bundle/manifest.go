package bundle

import (
	"errors"
	"fmt"
	"io/fs"

	lua "github.com/yuin/gopher-lua"
)

// manifestFile is the optional manifest at the bundle root.
const manifestFile = "manifest.lua"

// Manifest holds the declarative metadata a bundle may carry.
type Manifest struct {
	// Namespace overrides DefaultNamespace.
	Namespace string
	// Keyring is the bundle-relative path of an OpenPGP keyring used
	// for signature verification.
	Keyring string
	// Checksums maps resource file names to expected SHA256 hex digests.
	Checksums map[string]string
}

// ManifestError represents a manifest parsing error.
type ManifestError struct {
	Message string // user-friendly message
	Detail  string // raw Lua error or field detail
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// LoadManifest reads and evaluates the bundle manifest. A bundle
// without a manifest yields (nil, nil); a malformed manifest is an
// error.
func LoadManifest(fsys fs.FS) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, manifestFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", manifestFile, err)
	}
	return ParseManifest(string(data))
}

// ParseManifest evaluates manifest code in a sandboxed VM and extracts
// the global "bundle" table.
func ParseManifest(luaCode string) (*Manifest, error) {
	L := newSandboxedVM()
	defer L.Close()

	if err := L.DoString(luaCode); err != nil {
		return nil, &ManifestError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractManifest(L)
}

// extractManifest pulls the manifest out of the Lua state.
func extractManifest(L *lua.LState) (*Manifest, error) {
	bundleTable := L.GetGlobal("bundle")
	if bundleTable.Type() != lua.LTTable {
		return nil, &ManifestError{
			Message: "missing or invalid 'bundle' table",
			Detail:  fmt.Sprintf("expected table, got %s", bundleTable.Type()),
		}
	}

	manifest := &Manifest{}
	table := bundleTable.(*lua.LTable)

	if nsVal := table.RawGetString("namespace"); nsVal != lua.LNil {
		if nsVal.Type() != lua.LTString {
			return nil, &ManifestError{
				Message: "invalid 'namespace' field",
				Detail:  fmt.Sprintf("expected string, got %s", nsVal.Type()),
			}
		}
		manifest.Namespace = nsVal.String()
	}

	if keyringVal := table.RawGetString("keyring"); keyringVal != lua.LNil {
		if keyringVal.Type() != lua.LTString {
			return nil, &ManifestError{
				Message: "invalid 'keyring' field",
				Detail:  fmt.Sprintf("expected string, got %s", keyringVal.Type()),
			}
		}
		manifest.Keyring = keyringVal.String()
	}

	if checksumsVal := table.RawGetString("checksums"); checksumsVal != lua.LNil {
		if checksumsVal.Type() != lua.LTTable {
			return nil, &ManifestError{
				Message: "invalid 'checksums' field",
				Detail:  fmt.Sprintf("expected table, got %s", checksumsVal.Type()),
			}
		}
		checksums, err := extractChecksums(checksumsVal.(*lua.LTable))
		if err != nil {
			return nil, err
		}
		manifest.Checksums = checksums
	}

	if err := manifest.validate(); err != nil {
		return nil, err
	}

	return manifest, nil
}

// extractChecksums reads the resource→digest table.
func extractChecksums(table *lua.LTable) (map[string]string, error) {
	checksums := make(map[string]string)
	var extractErr error

	table.ForEach(func(key, value lua.LValue) {
		if extractErr != nil {
			return
		}
		if key.Type() != lua.LTString || value.Type() != lua.LTString {
			extractErr = &ManifestError{
				Message: "invalid 'checksums' entry",
				Detail:  fmt.Sprintf("expected string keys and values, got %s=%s", key.Type(), value.Type()),
			}
			return
		}
		checksums[key.String()] = value.String()
	})

	if extractErr != nil {
		return nil, extractErr
	}
	return checksums, nil
}

// validate rejects manifest values that cannot address bundle files.
func (m *Manifest) validate() error {
	if m.Namespace != "" && !fs.ValidPath(m.Namespace) {
		return &ManifestError{
			Message: "invalid 'namespace' field",
			Detail:  fmt.Sprintf("%q is not a valid bundle path", m.Namespace),
		}
	}
	if m.Keyring != "" && !fs.ValidPath(m.Keyring) {
		return &ManifestError{
			Message: "invalid 'keyring' field",
			Detail:  fmt.Sprintf("%q is not a valid bundle path", m.Keyring),
		}
	}
	return nil
}
