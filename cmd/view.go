package cmd

import (
	"fmt"

	"github.com/nconklindev/capview/internal/log"
	"github.com/nconklindev/capview/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [workbook.xlsx]",
	Short: "Browse the summary tables in a tabbed viewer (default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(_ *cobra.Command, args []string) error {
	// The terminal belongs to the TUI, so logs only go to a file.
	logger := log.Discard()
	if cfg.Log.File != "" {
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		f, err := tea.LogToFile(cfg.Log.File, "capview")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logCfg := log.DefaultConfig()
		logCfg.Level = level
		logCfg.Output = f
		logger = log.New(logCfg)
	}

	opts := ui.Options{
		StartDir: cfg.Display.StartDir,
		Decimals: cfg.Display.Decimals,
		Reshape:  reshapeOptions(logger),
		Logger:   logger,
	}
	if len(args) == 1 {
		opts.Path = args[0]
	}

	p := tea.NewProgram(ui.InitialModel(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
