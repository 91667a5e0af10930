package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"time"

	"github.com/tnsc4502/nativeload/bundle"
	"github.com/tnsc4502/nativeload/platform"
)

// runInspect handles the `nativeload inspect` subcommand.
func runInspect(args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.Default()

	detector := platform.NewDetector()
	desc, err := detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	if os.Getenv(EnvDebug) != "" {
		logger.Debug("detected host", "raw_arch", desc.Arch, "raw_os", desc.OS)
	}

	tag := platform.Classify(desc.Arch, desc.OS)

	fmt.Printf("Raw architecture: %s\n", desc.Arch)
	fmt.Printf("Raw OS:           %s\n", desc.OS)
	fmt.Printf("Arch tag:         %s\n", tag.Arch)
	fmt.Printf("OS tag:           %s\n", tag.OS)
	if tag.Ext != "" {
		fmt.Printf("Extension:        %s\n", tag.Ext)
	} else {
		fmt.Printf("Extension:        (none, unrecognized OS)\n")
	}
	fmt.Printf("Resource:         %s\n", path.Join(bundle.DefaultNamespace, bundle.ResourceName(tag)))
	if !tag.Recognized() {
		fmt.Println()
		fmt.Println("This platform is not recognized; a bundle is unlikely to ship a variant for it.")
	}

	return nil
}
