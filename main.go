// ohcrab corrects the previous console command.
package main

import (
	"os"

	"ohcrab/cmd"
)

var (
	// Version is set during build via ldflags
	Version = "dev"
	// Commit is set during build via ldflags
	Commit = "unknown"
)

func main() {
	cmd.Version = Version
	cmd.Commit = Commit
	os.Exit(cmd.Execute(os.Args[1:]))
}
