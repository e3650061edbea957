package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/gwalsh/redsift/internal/config"
	"github.com/gwalsh/redsift/internal/domain"
	"github.com/gwalsh/redsift/internal/export"
	"github.com/gwalsh/redsift/internal/history"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	format string
	out    string
}

var exportCmd = &cobra.Command{
	Use:   "export [search-id]",
	Short: "Export a recorded search as CSV or JSON (latest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  exportAction,
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.format, "format", "csv", "export format: csv or json")
	f.StringVarP(&exportFlags.out, "out", "o", "redsift_export", "output base filename, or '-' for stdout")
	rootCmd.AddCommand(exportCmd)
}

func exportAction(cmd *cobra.Command, args []string) error {
	format, err := export.ParseFormat(exportFlags.format)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := history.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()

	var res domain.SearchResult
	if len(args) == 1 {
		res, err = store.Get(ctx, args[0])
	} else {
		res, err = store.Latest(ctx)
	}
	if err != nil {
		return err
	}

	if exportFlags.out == "-" {
		return export.Write(os.Stdout, format, res)
	}

	path, err := export.ToFile(exportFlags.out, format, res, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d posts to %s\n", len(res.Posts), path)
	return nil
}
