package cli

import (
	"github.com/spf13/cobra"

	"github.com/miosa/osa-scroll/logging"
	"github.com/miosa/osa-scroll/scroller"
	"github.com/miosa/osa-scroll/sidecar"
)

func newServeCommand(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scroller as a JSON-RPC sidecar on stdin/stdout",
		Long: `Serve reads one JSON request per line from stdin and writes responses and
scroll_top notifications to stdout. The host mirrors its rows into the
sidecar and applies every scroll_top it receives. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy := scroller.Boundary
			if g.strategy != "" {
				s, err := scroller.ParseStrategy(g.strategy)
				if err != nil {
					return err
				}
				strategy = s
			}
			logger, closer := logging.Setup(logging.Options{Stderr: true, Debug: g.debug})
			defer closer.Close()

			srv := sidecar.New(cmd.OutOrStdout(), strategy, logger)
			return srv.Serve(cmd.Context(), cmd.InOrStdin())
		},
	}
}
