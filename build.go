//go:build ignore

// Build script for ohcrab
// Usage: go run build.go [flags]
//
// Examples:
//   go run build.go                 # Build to build/<os>/ohcrab
//   go run build.go -o bin/ohcrab   # Build to custom path
//   go run build.go -v              # Print version info
//   go run build.go -install        # Build and copy to ~/.local/bin

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

func main() {
	output := flag.String("o", "", "output path (default build/<os>/ohcrab)")
	verbose := flag.Bool("v", false, "print version info during build")
	install := flag.Bool("install", false, "copy the binary to ~/.local/bin")
	flag.Parse()

	version, commit := gitInfo()
	if *output == "" {
		*output = defaultOutput()
	}
	if err := os.MkdirAll(filepath.Dir(*output), 0o755); err != nil {
		fail("create output directory", err)
	}

	ldflags := fmt.Sprintf("-s -w -X main.Version=%s -X main.Commit=%s", version, commit)
	if *verbose {
		fmt.Printf("Building ohcrab %s (%s) -> %s\n", version, commit, *output)
	}

	build := exec.Command("go", "build", "-trimpath", "-ldflags", ldflags, "-o", *output, ".")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		fail("build", err)
	}

	if !*install {
		return
	}
	dest := filepath.Join(os.Getenv("HOME"), ".local", "bin", "ohcrab")
	data, err := os.ReadFile(*output)
	if err != nil {
		fail("read binary", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		fail("create install directory", err)
	}
	if err := os.WriteFile(dest, data, 0o755); err != nil {
		fail("install", err)
	}
	if *verbose {
		fmt.Printf("Installed to %s\n", dest)
		fmt.Println(`Add  eval "$(ohcrab --alias)"  to your shell init file.`)
	}
}

func defaultOutput() string {
	name := "ohcrab"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join("build", runtime.GOOS, name)
}

func gitInfo() (version, commit string) {
	version, commit = "dev", "unknown"
	if out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output(); err == nil {
		version = strings.TrimSpace(string(out))
	}
	if out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output(); err == nil {
		commit = strings.TrimSpace(string(out))
	}
	return version, commit
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}
