package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nconklindev/capview/internal/log"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all capview configuration.
type Config struct {
	Sheets  SheetsConfig  `toml:"sheets"`
	Display DisplayConfig `toml:"display"`
	Log     LogConfig     `toml:"log"`
}

// SheetsConfig names the workbook sheets the pipeline reads.
type SheetsConfig struct {
	Activity       string `toml:"activity"`
	PartnerCapital string `toml:"partner_capital"`
}

// DisplayConfig holds viewer preferences.
type DisplayConfig struct {
	StartDir string `toml:"start_dir,omitempty"`
	Decimals int    `toml:"decimals"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Sheets: SheetsConfig{
			Activity:       "cap_activity",
			PartnerCapital: "partner_capital",
		},
		Display: DisplayConfig{
			Decimals: 2,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "capview")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "capview")
}

// ConfigPath returns the full path to the default config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path (ConfigPath when empty), then applies
// a local .env file and CAPVIEW_* environment overrides. A missing default
// file yields the defaults; a missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		path = ConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	case explicit || !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("CAPVIEW_ACTIVITY_SHEET"); v != "" {
		cfg.Sheets.Activity = v
	}
	if v := os.Getenv("CAPVIEW_PARTNER_CAPITAL_SHEET"); v != "" {
		cfg.Sheets.PartnerCapital = v
	}
	if v := os.Getenv("CAPVIEW_START_DIR"); v != "" {
		cfg.Display.StartDir = v
	}
	if v := os.Getenv("CAPVIEW_DECIMALS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CAPVIEW_DECIMALS: %w", err)
		}
		cfg.Display.Decimals = n
	}
	if v := os.Getenv("CAPVIEW_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CAPVIEW_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Sheets.Activity) == "" {
		problems = append(problems, "sheets.activity must not be empty")
	}
	if strings.TrimSpace(c.Sheets.PartnerCapital) == "" {
		problems = append(problems, "sheets.partner_capital must not be empty")
	}
	if c.Display.Decimals < 0 || c.Display.Decimals > 6 {
		problems = append(problems, fmt.Sprintf("display.decimals %d: must be between 0 and 6", c.Display.Decimals))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level: %v", err))
	}
	if c.Display.StartDir != "" {
		if info, err := os.Stat(c.Display.StartDir); err != nil || !info.IsDir() {
			problems = append(problems, fmt.Sprintf("display.start_dir %q is not a directory", c.Display.StartDir))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Save writes the config to path (ConfigPath when empty).
func Save(cfg Config, path string) error {
	if path == "" {
		path = ConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	return Encode(f, cfg)
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
