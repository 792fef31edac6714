package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/spiketrade/spiketrade/config"
	"github.com/spiketrade/spiketrade/feed"
	"github.com/spiketrade/spiketrade/game"
	"github.com/spiketrade/spiketrade/journal"
)

var rootCmd = &cobra.Command{
	Use:   "spiketrade",
	Short: "A guess-the-chart paper trading game on real historical bars",
	Long: `Spiketrade replays random slices of real intraday price history with the
symbol masked, and lets you trade them with virtual money.

It provides:
  - An HTTP API for a browser chart frontend
  - Random symbol picks from a configurable watchlist
  - Long/short order accounting with fees and average cost
  - Moving average, MACD and KD indicators with trading hints
  - Classic and survival game modes
  - A persistent leaderboard (CSV or SQLite)`,
}

var (
	cfgPath  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "f", "", "path to config file (YAML or JSON); defaults apply when omitted")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

func initEnv() {
	// Optional; a missing .env is not an error.
	_ = godotenv.Load()

	if lvl, err := logrus.ParseLevel(logLevel); err == nil {
		logrus.SetLevel(lvl)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.NewCSV(cfg.Journal.ScoresFile, cfg.Journal.FeedbackFile)
	}
}

func buildProvider(cfg *config.Config) feed.Provider {
	if cfg.Feed.Source == "csv" {
		return feed.NewCSVProvider(cfg.Feed.CSVDir)
	}
	return feed.NewClient(cfg.Feed.BaseURL)
}

// newPickerFactory returns a constructor so every session draws from its own
// random stream.
func newPickerFactory(cfg *config.Config) func() *feed.Picker {
	provider := buildProvider(cfg)
	return func() *feed.Picker {
		pk := feed.NewPicker(provider, cfg.Feed.Symbols, cfg.Feed.Lookback, cfg.Feed.Interval)
		if cfg.Feed.MinBars > 0 {
			pk.MinBars = cfg.Feed.MinBars
		}
		if cfg.Feed.Retries > 0 {
			pk.Retries = cfg.Feed.Retries
		}
		return pk
	}
}

func gameOptions(cfg *config.Config) (game.Options, error) {
	autoplay, err := cfg.Game.ParseAutoplay()
	if err != nil {
		return game.Options{}, fmt.Errorf("autoplay: %w", err)
	}
	return game.Options{
		StartingCash:     cfg.Game.StartingCash,
		FeeRate:          cfg.Game.FeeRate,
		SurvivalRounds:   cfg.Game.SurvivalRounds,
		AutoplayInterval: autoplay,
	}, nil
}
