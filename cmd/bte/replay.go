package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bte/internal/trace"
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace-file>",
		Short: "Replay a recorded trace and report any divergence from its checkpoints",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := trace.Load(args[0])
			if err != nil {
				return fmt.Errorf("load trace: %w", err)
			}

			divergences, err := trace.Replay(t)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}

			profile := colorProfile()
			if len(divergences) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), renderColored(profile, "2", fmt.Sprintf("%s: no divergence", t.Scenario.Name)))
				return nil
			}

			for _, d := range divergences {
				fmt.Fprintln(cmd.OutOrStdout(), renderColored(profile, "1", d.Error()))
			}
			os.Exit(1)
			return nil
		},
	}
	return cmd
}
