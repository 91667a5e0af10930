package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tnsc4502/nativeload"
)

// runLoad handles the `nativeload load` subcommand: a full end-to-end
// load of an on-disk bundle, for smoke-testing bundles before they are
// embedded.
func runLoad(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: nativeload load <bundle-dir>")
	}
	bundleDir := args[0]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	config := nativeload.Config{}
	if os.Getenv(EnvDebug) != "" {
		config.Logger = slog.Default()
	}

	loader := nativeload.NewDefaultLoader(config)
	if err := loader.Load(ctx, os.DirFS(bundleDir)); err != nil {
		return err
	}

	fmt.Println("Native library loaded.")
	return nil
}
