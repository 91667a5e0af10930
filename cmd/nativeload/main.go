package main

import (
	"fmt"
	"os"

	"github.com/tnsc4502/nativeload/extract"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

// EnvDebug enables slog debug output in subcommands.
const EnvDebug = "NATIVELOAD_DEBUG"

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches subcommands and always sweeps materialized temp files
// before the process exits.
func run(args []string) int {
	defer extract.Cleanup()

	if len(args) > 0 {
		switch args[0] {
		case "--version":
			fmt.Printf("nativeload %s\n", Version)
			return 0
		case "inspect":
			return report(runInspect(args[1:]))
		case "extract":
			return report(runExtract(args[1:]))
		case "verify":
			return report(runVerify(args[1:]))
		case "load":
			return report(runLoad(args[1:]))
		}
	}

	// Default: show help
	fmt.Println("nativeload - bundled native shared-library loader")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  nativeload --version              Show version information")
	fmt.Println("  nativeload inspect                Show the host platform classification")
	fmt.Println("  nativeload extract <bundle> [dest]  Extract the matching library variant")
	fmt.Println("  nativeload verify <bundle>        Verify every variant in a bundle")
	fmt.Println("  nativeload load <bundle>          Load the matching variant into this process")
	fmt.Println()
	fmt.Println("A <bundle> is a directory laid out like an embedded resource bundle:")
	fmt.Println("a namespace directory (default \"native\") holding <arch>-<os>.<ext>")
	fmt.Println("files, optionally with manifest.lua, checksums.txt, and signatures.")
	return 0
}

func report(err error) int {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
