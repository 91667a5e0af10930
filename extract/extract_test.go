package extract

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"testing"
	"testing/fstest"
)

func fixtureFS(name string, data []byte) fs.FS {
	return fstest.MapFS{
		name: &fstest.MapFile{Data: data},
	}
}

// registrySnapshot copies the cleanup registry, so a test can find the
// temp paths a Materialize call touched.
func registrySnapshot() []string {
	cleanupMu.Lock()
	defer cleanupMu.Unlock()
	return append([]string(nil), cleanupFiles...)
}

// assertNoLeftovers fails if any registry entry added after before still
// exists on disk.
func assertNoLeftovers(t *testing.T, before []string) {
	t.Helper()
	for _, path := range registrySnapshot()[len(before):] {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			os.Remove(path)
			t.Errorf("temp file %s left behind after failed materialization", path)
		}
	}
}

func TestMaterialize_RoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 1024) // 4096 bytes
	fsys := fixtureFS("native/amd64-linux.so", data)

	path, err := Materialize(fsys, "native/amd64-linux.so")
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read materialized file: %v", err)
	}
	if len(got) != len(data) {
		t.Fatalf("materialized %d bytes, want %d", len(got), len(data))
	}
	if !bytes.Equal(got, data) {
		t.Error("materialized bytes differ from resource bytes")
	}
}

func TestMaterialize_LargerThanBuffer(t *testing.T) {
	// Three full buffers plus a remainder, so the copy must loop.
	data := make([]byte, copyBufferSize*3+17)
	for i := range data {
		data[i] = byte(i % 251)
	}
	fsys := fixtureFS("native/amd64-linux.so", data)

	path, err := Materialize(fsys, "native/amd64-linux.so")
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read materialized file: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("materialized bytes differ from resource bytes")
	}
}

func TestMaterialize_MissingResource(t *testing.T) {
	fsys := fixtureFS("native/amd64-linux.so", []byte("lib"))

	before := registrySnapshot()
	_, err := Materialize(fsys, "native/rawppc64le-linux.so")
	if err == nil {
		t.Fatal("Materialize() succeeded for missing resource")
	}

	var extErr *Error
	if !errors.As(err, &extErr) {
		t.Fatalf("error type = %T, want *extract.Error", err)
	}
	if extErr.Resource != "native/rawppc64le-linux.so" {
		t.Errorf("Error.Resource = %q, want the missing path", extErr.Resource)
	}
	assertNoLeftovers(t, before)
}

func TestMaterialize_DistinctPaths(t *testing.T) {
	fsys := fixtureFS("native/amd64-linux.so", []byte("lib"))

	first, err := Materialize(fsys, "native/amd64-linux.so")
	if err != nil {
		t.Fatalf("first Materialize() error = %v", err)
	}
	t.Cleanup(func() { os.Remove(first) })

	second, err := Materialize(fsys, "native/amd64-linux.so")
	if err != nil {
		t.Fatalf("second Materialize() error = %v", err)
	}
	t.Cleanup(func() { os.Remove(second) })

	if first == second {
		t.Errorf("both calls returned %q, want distinct paths", first)
	}
}

// failingFile returns some bytes and then an error mid-stream, with an
// optional close failure on top.
type failingFile struct {
	readErr  error
	closeErr error
	served   bool
}

func (f *failingFile) Read(p []byte) (int, error) {
	if !f.served {
		f.served = true
		n := copy(p, []byte("partial"))
		return n, nil
	}
	return 0, f.readErr
}

func (f *failingFile) Close() error               { return f.closeErr }
func (f *failingFile) Stat() (fs.FileInfo, error) { return nil, errors.New("not supported") }

type failingFS struct {
	file fs.File
}

func (f *failingFS) Open(name string) (fs.File, error) { return f.file, nil }

func TestMaterialize_CopyFailureLeavesNoFile(t *testing.T) {
	readErr := errors.New("stream broke")
	fsys := &failingFS{file: &failingFile{readErr: readErr}}

	before := registrySnapshot()
	_, err := Materialize(fsys, "native/amd64-linux.so")
	if err == nil {
		t.Fatal("Materialize() succeeded despite copy failure")
	}

	var extErr *Error
	if !errors.As(err, &extErr) {
		t.Fatalf("error type = %T, want *extract.Error", err)
	}
	if !errors.Is(err, readErr) {
		t.Errorf("error chain does not contain the copy failure: %v", err)
	}
	assertNoLeftovers(t, before)
}

func TestMaterialize_CloseFailureAttachedAsSecondary(t *testing.T) {
	readErr := errors.New("stream broke")
	closeErr := errors.New("close broke")
	fsys := &failingFS{file: &failingFile{readErr: readErr, closeErr: closeErr}}

	_, err := Materialize(fsys, "native/amd64-linux.so")
	if err == nil {
		t.Fatal("Materialize() succeeded despite copy failure")
	}

	// The copy failure stays primary, the close failure rides along.
	if !errors.Is(err, readErr) {
		t.Errorf("error chain lost the primary copy failure: %v", err)
	}
	if !errors.Is(err, closeErr) {
		t.Errorf("error chain lost the secondary close failure: %v", err)
	}
}

func TestMaterialize_CloseFailureAloneIsError(t *testing.T) {
	closeErr := errors.New("close broke")
	// Read serves its bytes and then a clean EOF; only Close fails.
	file := &failingFile{readErr: io.EOF, closeErr: closeErr}
	fsys := &failingFS{file: file}

	_, err := Materialize(fsys, "native/amd64-linux.so")
	if err == nil {
		t.Fatal("Materialize() ignored input close failure")
	}
	if !errors.Is(err, closeErr) {
		t.Errorf("error chain does not contain the close failure: %v", err)
	}
}
