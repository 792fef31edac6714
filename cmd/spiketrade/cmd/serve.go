package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiketrade/spiketrade/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the game HTTP server",
	Long: `Start the HTTP server the browser frontend talks to.

Example:
  spiketrade serve -f config.yaml`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := gameOptions(cfg)
	if err != nil {
		return err
	}

	j, err := buildJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(addr, cfg.Server.AllowedOrigins, opts, newPickerFactory(cfg), j)
	return srv.Run()
}
