// Package cli holds the osa-scroll commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/miosa/osa-scroll/config"
)

// Build metadata, set with -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// flags shared by every command.
type globalFlags struct {
	debug    bool
	profile  string
	strategy string
	source   string
	path     string
	theme    string
}

// NewRootCommand builds the command tree. Without a subcommand it runs the
// feed viewer.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "osa-scroll",
		Short: "Endless feed that keeps its place while pages come and go",
		Long: `osa-scroll shows a paged feed in the terminal. Pages are dropped from the
top as new ones load below, and the scroll offset is corrected so the
rows on screen stay where they are.`,
		Example: `
# Scroll a synthetic feed
osa-scroll

# Scroll the commit log of the current repository
osa-scroll --source git --path .

# Replay a scripted session
osa-scroll simulate scenario/testdata/downward_shift.yaml
  `,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFeed(cmd, g)
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&g.debug, "debug", false, "Log at debug level")
	pf.StringVar(&g.profile, "profile", "", "Named profile under ~/.osa-scroll/profiles")
	pf.StringVar(&g.strategy, "strategy", "", "Measurement strategy: boundary or summation")

	f := root.Flags()
	f.StringVar(&g.source, "source", "", fmt.Sprintf("Feed source %v", config.Sources))
	f.StringVar(&g.path, "path", "", "Repository (git) or document (html) for the source")
	f.StringVar(&g.theme, "theme", "", "Color theme; detected from the terminal when unset")

	root.AddCommand(
		newServeCommand(g),
		newSimulateCommand(g),
		newVersionCommand(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "osa-scroll: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the profile's config and lays the flags over it.
func loadConfig(g *globalFlags) (config.Config, string, error) {
	if g.profile != "" {
		os.Setenv("OSA_SCROLL_PROFILE", g.profile)
	}
	dir, err := config.ProfileDir()
	if err != nil {
		return config.Config{}, "", err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return cfg, dir, err
	}
	if g.strategy != "" {
		cfg.Strategy = g.strategy
	}
	if g.source != "" {
		cfg.Source = g.source
	}
	if g.path != "" {
		cfg.SourcePath = g.path
	}
	if g.theme != "" {
		cfg.Theme = g.theme
	}
	return cfg, dir, cfg.Validate()
}
