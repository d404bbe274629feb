package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/LeJamon/goDoomsday/internal/core/tx"
	"github.com/LeJamon/goDoomsday/internal/scenario"
	"github.com/spf13/cobra"
)

// ErrScenarioFailed is returned when a replayed scenario does not pass.
var ErrScenarioFailed = errors.New("scenario failed")

func newReplayCmd(opts *options) *cobra.Command {
	var parallel int
	cmd := &cobra.Command{
		Use:   "replay PATH...",
		Short: "Run YAML scenarios on fresh in-memory ledgers",
		Long: `Replay runs scripted scenarios. Each file lists accounts with their
starting balances and a sequence of signed steps with expected results.
Directories are expanded to the .yaml and .yml files they contain.

Every scenario runs on its own in-memory ledger, concurrently.

Example:
    doomsdayd replay ./scenarios
    doomsdayd replay swap.yaml payout.yaml --parallel 1`,
		Args: cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, args []string, a *app) error {
			paths, err := expandScenarioPaths(args)
			if err != nil {
				return err
			}
			metrics, err := a.provider.GetMetrics()
			if err != nil {
				return err
			}
			results, err := scenario.RunFiles(cmd.Context(), paths, scenario.Options{
				Logger:    a.logger,
				Observers: []tx.Observer{metrics},
				Parallel:  parallel,
			})
			if err != nil {
				return err
			}
			if err := scenario.WriteReport(a.out, results); err != nil {
				return err
			}
			if s := scenario.Summarize(results); s.Passed != s.Scenarios {
				return fmt.Errorf("%w: %d of %d", ErrScenarioFailed, s.Scenarios-s.Passed, s.Scenarios)
			}
			return nil
		}),
	}
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "scenarios run at once, 0 for no limit")
	return cmd
}

// expandScenarioPaths replaces directories with their scenario files.
func expandScenarioPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		var found []string
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			matches, err := filepath.Glob(filepath.Join(arg, pattern))
			if err != nil {
				return nil, err
			}
			found = append(found, matches...)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no scenarios in %s", arg)
		}
		sort.Strings(found)
		paths = append(paths, found...)
	}
	return paths, nil
}
