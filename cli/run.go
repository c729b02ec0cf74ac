package cli

import (
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/miosa/osa-scroll/app"
	"github.com/miosa/osa-scroll/config"
	"github.com/miosa/osa-scroll/feed"
	"github.com/miosa/osa-scroll/logging"
	"github.com/miosa/osa-scroll/markdown"
	"github.com/miosa/osa-scroll/scroller"
	"github.com/miosa/osa-scroll/style"
)

func runFeed(cmd *cobra.Command, g *globalFlags) error {
	cfg, dir, err := loadConfig(g)
	if err != nil {
		return err
	}

	logger, closer := logging.Setup(logging.Options{Dir: filepath.Join(dir, "logs"), Debug: g.debug})
	defer closer.Close()

	src, err := openSource(cfg)
	if err != nil {
		return err
	}
	strategy, _ := scroller.ParseStrategy(cfg.Strategy)

	// Pick the theme before any rendering.
	if err := applyTheme(cfg.Theme, func() bool {
		return lipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	}); err != nil {
		return err
	}

	logger.Info("starting",
		"version", Version,
		"source", src.Name(),
		"strategy", strategy,
		"theme", style.CurrentThemeName,
	)

	m := app.New(cmd.Context(), app.Options{
		Source:   src,
		Strategy: strategy,
		Marker:   cfg.Marker,
		PageSize: cfg.PageSize,
		MaxPages: cfg.MaxPages,
		Gap:      cfg.Gap,
		Renderer: markdown.New(cfg.MarkdownStyle),
		Logger:   logger,
	})

	// Alt screen and mouse mode are set on the View.
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	return nil
}

// applyTheme switches to the named theme, or to dark or light by the
// terminal background when name is empty.
func applyTheme(name string, darkBackground func() bool) error {
	switch {
	case name != "":
		if !style.SetTheme(name) {
			return fmt.Errorf("unknown theme %q", name)
		}
	case darkBackground():
		style.SetTheme("dark")
	default:
		style.SetTheme("light")
	}
	return nil
}

// openSource builds the feed source named by cfg.
func openSource(cfg config.Config) (feed.Source, error) {
	switch cfg.Source {
	case "synthetic":
		return feed.Synthetic{}, nil
	case "git":
		return feed.GitLog{Path: cfg.SourcePath}, nil
	case "processes":
		return feed.Processes{}, nil
	case "html":
		f, err := os.Open(cfg.SourcePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return feed.ParseHTML(f, feed.HTMLOptions{Container: cfg.Container, Marker: cfg.Marker})
	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source)
	}
}
