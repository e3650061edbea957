package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gwalsh/redsift/internal/config"
	"github.com/gwalsh/redsift/internal/dashboard"
	"github.com/gwalsh/redsift/internal/history"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [basic]",
	Short: "Serve the dashboard over collected history",
	Long: "serve starts the charts dashboard over the accumulated search history.\n" +
		"Pass 'basic' to serve a plain table instead of the charts page.",
	Args: cobra.MaximumNArgs(1),
	RunE: serveAction,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func serveAction(cmd *cobra.Command, args []string) error {
	basic := false
	if len(args) == 1 {
		if args[0] != "basic" {
			return fmt.Errorf("unknown UI %q (only 'basic' is accepted)", args[0])
		}
		basic = true
	}

	// Pre-flight: required files must exist before any server starts.
	cfgPath := filepath.Join(configDir, config.DefaultConfigFile)
	if _, err := os.Stat(cfgPath); err != nil {
		return fmt.Errorf("missing config file %s: run a search first or create it", cfgPath)
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if _, err := os.Stat(cfg.Storage.Path); err != nil {
		return fmt.Errorf("no search history at %s: run 'redsift search' first", cfg.Storage.Path)
	}

	store, err := history.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Serve.Addr
	}

	ui := "charts"
	if basic {
		ui = "basic"
	}
	slog.Info("starting dashboard", "addr", addr, "ui", ui)

	return dashboard.New(store, basic).ListenAndServe(addr)
}
