package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bte",
		Short: "Deterministic PTY-based terminal behavior testing engine",
		Long:  "bte drives terminal applications under a simulated PTY and checks their behavior against scenario files.",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newReplayCmd())
	return root
}
