package cmd

import (
	"fmt"
	"os"

	"github.com/nconklindev/capview/internal/config"
	"github.com/nconklindev/capview/internal/log"
	"github.com/nconklindev/capview/internal/reshape"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

// cfg is loaded once per invocation by the root PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "capview [workbook.xlsx]",
	Short: "Capital activity workbook viewer",
	Long: "Load a workbook with cap_activity and partner_capital sheets and view\n" +
		"contributions, redemptions and partner capital pivoted by break period.",
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              runView,
	SilenceUsage:      true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the string printed by --version.
func SetVersion(version, commit, date string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("capview %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "Config file (default "+config.ConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	if flagLogFile != "" {
		loaded.Log.File = flagLogFile
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// newLogger returns a stderr logger for the non-interactive commands.
// The returned close func must always be called.
func newLogger() (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	logCfg := log.DefaultConfig()
	logCfg.Level = level
	if cfg.Log.File == "" {
		return log.New(logCfg), func() {}, nil
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logCfg.Output = f
	return log.New(logCfg), func() { f.Close() }, nil
}

func reshapeOptions(logger *log.Logger) []reshape.Option {
	return []reshape.Option{
		reshape.WithLogger(logger),
		reshape.WithSheetNames(cfg.Sheets.Activity, cfg.Sheets.PartnerCapital),
	}
}
