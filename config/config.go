package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete game configuration.
type Config struct {
	Game    GameConfig    `json:"game" yaml:"game"`
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Server  ServerConfig  `json:"server" yaml:"server"`
}

// GameConfig sets the economics of a round.
type GameConfig struct {
	StartingCash   float64 `json:"starting_cash" yaml:"starting_cash"`
	FeeRate        float64 `json:"fee_rate" yaml:"fee_rate"`
	SurvivalRounds int     `json:"survival_rounds" yaml:"survival_rounds"`
	Autoplay       string  `json:"autoplay" yaml:"autoplay"` // e.g. "500ms"
}

// ParseAutoplay converts the autoplay cadence to a duration.
func (g GameConfig) ParseAutoplay() (time.Duration, error) {
	if g.Autoplay == "" {
		return 500 * time.Millisecond, nil
	}
	return time.ParseDuration(g.Autoplay)
}

// FeedConfig selects and tunes the bar source.
type FeedConfig struct {
	Source   string            `json:"source" yaml:"source"` // "http" or "csv"
	BaseURL  string            `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	CSVDir   string            `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
	Lookback string            `json:"lookback" yaml:"lookback"`
	Interval string            `json:"interval" yaml:"interval"`
	MinBars  int               `json:"min_bars" yaml:"min_bars"`
	Retries  int               `json:"retries" yaml:"retries"`
	Symbols  map[string]string `json:"symbols" yaml:"symbols"`
}

// JournalConfig selects the leaderboard/feedback backend.
type JournalConfig struct {
	Type         string `json:"type" yaml:"type"` // "csv" or "sqlite"
	ScoresFile   string `json:"scores_file,omitempty" yaml:"scores_file,omitempty"`
	FeedbackFile string `json:"feedback_file,omitempty" yaml:"feedback_file,omitempty"`
	DBPath       string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig tunes the HTTP front door.
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, picking the format by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Game.StartingCash <= 0 {
		return fmt.Errorf("game.starting_cash must be positive")
	}
	if c.Game.FeeRate < 0 || c.Game.FeeRate >= 1 {
		return fmt.Errorf("game.fee_rate must be in [0, 1)")
	}
	if c.Game.SurvivalRounds < 0 {
		return fmt.Errorf("game.survival_rounds must not be negative")
	}
	if _, err := c.Game.ParseAutoplay(); err != nil {
		return fmt.Errorf("game.autoplay: %w", err)
	}
	switch c.Feed.Source {
	case "http":
	case "csv":
		if c.Feed.CSVDir == "" {
			return fmt.Errorf("feed.csv_dir required for csv source")
		}
	default:
		return fmt.Errorf("feed.source must be 'http' or 'csv'")
	}
	if len(c.Feed.Symbols) == 0 {
		return fmt.Errorf("feed.symbols must not be empty")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.ScoresFile == "" || c.Journal.FeedbackFile == "" {
			return fmt.Errorf("journal scores_file and feedback_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Default returns a playable configuration: the momentum-stock watchlist, a
// ten-million bankroll and the standard 0.2% fee.
func Default() *Config {
	return &Config{
		Game: GameConfig{
			StartingCash:   10_000_000,
			FeeRate:        0.002,
			SurvivalRounds: 3,
			Autoplay:       "500ms",
		},
		Feed: FeedConfig{
			Source:   "http",
			Lookback: "1mo",
			Interval: "5m",
			MinBars:  300,
			Retries:  15,
			Symbols: map[string]string{
				"3661.TW":  "世芯-KY",
				"3035.TW":  "智原",
				"3443.TW":  "創意",
				"1519.TW":  "華城",
				"1513.TW":  "中興電",
				"1503.TW":  "士電",
				"3017.TW":  "奇鋐",
				"3324.TWO": "雙鴻",
				"8996.TWO": "高力",
				"8069.TWO": "元太",
				"3529.TWO": "力旺",
				"6531.TW":  "愛普",
				"1605.TW":  "華新",
				"4979.TW":  "華星光",
				"3217.TWO": "優群",
				"6472.TWO": "保瑞",
				"4763.TWO": "材料-KY",
				"6274.TWO": "台燿",
				"2383.TW":  "台光電",
				"3583.TW":  "辛耘",
				"3131.TW":  "弘塑",
				"2609.TW":  "陽明",
				"2615.TW":  "萬海",
				"3037.TW":  "欣興",
				"2368.TW":  "金像電",
				"9958.TW":  "世紀鋼",
			},
		},
		Journal: JournalConfig{
			Type:         "csv",
			ScoresFile:   "./leaderboard.csv",
			FeedbackFile: "./feedback.txt",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
