package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tnsc4502/nativeload/bundle"
	"github.com/tnsc4502/nativeload/extract"
	"github.com/tnsc4502/nativeload/platform"
)

// runExtract handles the `nativeload extract` subcommand: materialize
// the variant matching the current host from an on-disk bundle.
func runExtract(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: nativeload extract <bundle-dir> [dest-file]")
	}
	bundleDir := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	desc, err := platform.NewDetector().Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	tag := platform.Classify(desc.Arch, desc.OS)

	fsys := os.DirFS(bundleDir)
	b, err := bundle.New(bundle.Config{FS: fsys})
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}

	resourceID := b.ResourcePath(tag)
	libPath, err := extract.Materialize(fsys, resourceID)
	if err != nil {
		return err
	}

	if len(args) < 2 {
		// Keep the temp file for the caller; report where it went.
		extract.Unmark(libPath)
		fmt.Println(libPath)
		return nil
	}

	dest := args[1]
	if err := copyFile(libPath, dest); err != nil {
		return fmt.Errorf("copy to %s: %w", dest, err)
	}
	fmt.Println(dest)
	return nil
}

// copyFile copies src to dst with library permissions.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
