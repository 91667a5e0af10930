package extract

import (
	"os"
	"sync"
)

// The cleanup registry tracks every temp file Materialize creates.
// Go has no process-exit hook, so hosts call Cleanup themselves,
// typically deferred from main.
var (
	cleanupMu    sync.Mutex
	cleanupFiles []string
)

// MarkForCleanup registers path for removal by Cleanup.
func MarkForCleanup(path string) {
	cleanupMu.Lock()
	defer cleanupMu.Unlock()
	cleanupFiles = append(cleanupFiles, path)
}

// Unmark removes path from the registry. Callers that delete a
// materialized file themselves use this to avoid a stale entry.
func Unmark(path string) {
	cleanupMu.Lock()
	defer cleanupMu.Unlock()
	for i, f := range cleanupFiles {
		if f == path {
			cleanupFiles = append(cleanupFiles[:i], cleanupFiles[i+1:]...)
			return
		}
	}
}

// Cleanup removes every registered file best-effort and empties the
// registry. Missing files and removal failures are ignored; this runs
// at process exit where there is nothing left to report to.
func Cleanup() {
	cleanupMu.Lock()
	files := cleanupFiles
	cleanupFiles = nil
	cleanupMu.Unlock()

	for _, f := range files {
		_ = os.Remove(f)
	}
}
