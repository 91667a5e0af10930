package main

import (
	"fmt"
	"os"
	"path"

	"github.com/tnsc4502/nativeload/bundle"
	"github.com/tnsc4502/nativeload/extract"
)

// runVerify handles the `nativeload verify` subcommand: check every
// variant in a bundle against its integrity material.
func runVerify(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: nativeload verify <bundle-dir>")
	}
	bundleDir := args[0]

	fsys := os.DirFS(bundleDir)
	b, err := bundle.New(bundle.Config{FS: fsys})
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}

	variants, err := b.Variants()
	if err != nil {
		return err
	}
	if len(variants) == 0 {
		return fmt.Errorf("bundle %s has no variants under %s/", bundleDir, b.Namespace())
	}

	failures := 0
	for _, name := range variants {
		resourceID := path.Join(b.Namespace(), name)

		libPath, err := extract.Materialize(fsys, resourceID)
		if err != nil {
			fmt.Printf("%-30s FAIL (%v)\n", name, err)
			failures++
			continue
		}

		method, err := b.Verify(libPath, name)
		os.Remove(libPath)
		extract.Unmark(libPath)

		switch {
		case err != nil:
			fmt.Printf("%-30s FAIL (%v)\n", name, err)
			failures++
		case method == bundle.MethodNone:
			fmt.Printf("%-30s unverified (no integrity material)\n", name)
		default:
			fmt.Printf("%-30s OK (%s)\n", name, method)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d variants failed verification", failures, len(variants))
	}
	return nil
}
