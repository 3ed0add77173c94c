// Command bte drives scenario files through the deterministic terminal
// testing engine and reports results, mirroring the teacher's root
// command entrypoint (internal/cmd.NewRootCmd) collapsed into a single
// binary since this tool has no other subsystem to share a command tree
// with.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
