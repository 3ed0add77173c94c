package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"bte/internal/clock"
	"bte/internal/ptybackend"
	"bte/internal/runtime"
	"bte/internal/scenario"
	"bte/internal/scenarioyaml"
	"bte/internal/trace"
)

func newRunCmd() *cobra.Command {
	var tracePath string
	var sparseTrace bool
	var globalTimeoutMs int64
	var seedOverride uint64
	var hasSeedOverride bool

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml|dir> [more...]",
		Short: "Run one or more scenarios and report pass/fail",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := loadScenarios(args)
			if err != nil {
				return err
			}

			cfg := clock.DefaultRunnerConfig()
			if globalTimeoutMs > 0 {
				cfg.GlobalTimeoutMs = globalTimeoutMs
			}

			profile := colorProfile()
			start := time.Now()
			passed := 0
			worstExit := 0

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, sc := range scenarios {
				if hasSeedOverride {
					s := seedOverride
					sc.Seed = &s
				}

				var tracer *trace.Builder
				if tracePath != "" {
					version := trace.VersionFull
					if sparseTrace {
						version = trace.VersionSparse
					}
					seed := clock.DefaultSeed
					if sc.Seed != nil {
						seed = *sc.Seed
					}
					tracer = trace.NewBuilder(sc, seed, version)
				}

				backend := ptybackend.New(0)
				runner, err := runtime.NewRunner(sc, backend, cfg, tracer)
				if err != nil {
					return fmt.Errorf("scenario %q: %w", sc.Name, err)
				}

				stepStart := time.Now()
				res := runner.Run(ctx)
				renderResult(cmd.OutOrStdout(), profile, sc, res, time.Since(stepStart))

				if res.Outcome == runtime.OutcomeSuccess {
					passed++
				} else if res.ExitCode < worstExit || worstExit == 0 {
					worstExit = res.ExitCode
				}

				if tracer != nil && res.Trace != nil {
					if err := trace.Save(tracePathFor(tracePath, sc.Name, len(scenarios)), res.Trace); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: saving trace for %q: %v\n", sc.Name, err)
					}
				}
			}

			renderTotals(cmd.OutOrStdout(), profile, len(scenarios), passed, time.Since(start))
			if worstExit != 0 {
				os.Exit(worstExit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tracePath, "trace", "", "write an execution trace to this path (or directory, for multiple scenarios)")
	cmd.Flags().BoolVar(&sparseTrace, "sparse-trace", false, "record a sparse checkpoint/event trace instead of a full per-step trace")
	cmd.Flags().Int64Var(&globalTimeoutMs, "global-timeout-ms", 0, "override the engine's default global timeout")
	cmd.Flags().Uint64Var(&seedOverride, "seed", 0, "override every scenario's deterministic seed")
	cmd.Flags().Lookup("seed").DefValue = ""
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		hasSeedOverride = cmd.Flags().Changed("seed")
	}

	return cmd
}

func loadScenarios(paths []string) ([]*scenario.Scenario, error) {
	var out []*scenario.Scenario
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if info.IsDir() {
			scs, err := scenarioyaml.LoadDir(p)
			if err != nil {
				return nil, err
			}
			out = append(out, scs...)
			continue
		}
		sc, err := scenarioyaml.Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, nil
}

// tracePathFor derives a per-scenario trace path when more than one
// scenario is being run against a single --trace target, the same way a
// single output file would otherwise be overwritten by every run.
func tracePathFor(base, scenarioName string, total int) string {
	if total <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	safe := strings.ReplaceAll(scenarioName, string(os.PathSeparator), "_")
	return fmt.Sprintf("%s.%s%s", stem, safe, ext)
}
