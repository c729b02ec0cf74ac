package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/miosa/osa-scroll/logging"
	"github.com/miosa/osa-scroll/scenario"
)

var errScenariosFailed = errors.New("scenarios failed")

func newSimulateCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <file>...",
		Short: "Replay scripted scroll sessions",
		Long: `Simulate runs YAML scenarios against a scroller attached to an offscreen
list and prints the state after every step. It exits non-zero when any
expectation fails.`,
		Example: `
# Replay every bundled scenario
osa-scroll simulate scenario/testdata/*.yaml
  `,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var logger *slog.Logger
			if g.debug {
				var closer io.Closer
				logger, closer = logging.Setup(logging.Options{Stderr: true, Debug: true})
				defer closer.Close()
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				sc, err := scenario.Load(path)
				if err != nil {
					return err
				}
				if sc.Strategy == "" && g.strategy != "" {
					sc.Strategy = g.strategy
				}
				fmt.Fprintf(out, "== %s\n", sc.Name)
				trace, err := scenario.Run(sc, logger)
				for _, t := range trace {
					fmt.Fprintln(out, t)
				}
				if err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %v\n", err)
					continue
				}
				fmt.Fprintln(out, "ok")
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d: %w", failed, len(args), errScenariosFailed)
			}
			return nil
		},
	}
}
