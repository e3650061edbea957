package cli

import (
	"fmt"
	"strings"

	"github.com/gwalsh/redsift/internal/config"
	"github.com/gwalsh/redsift/internal/history"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [search-id]",
	Short: "List past searches, or show one in detail",
	Args:  cobra.MaximumNArgs(1),
	RunE:  historyAction,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func historyAction(cmd *cobra.Command, args []string) error {
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

	if len(args) == 1 {
		res, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Search %s at %s\n", res.ID, res.Timestamp.Format("2006-01-02 15:04:05"))
		fmt.Printf("  subreddits: %s\n", strings.Join(res.Request.Subreddits, ", "))
		fmt.Printf("  keywords:   %s\n", strings.Join(res.Request.Keywords, ", "))
		fmt.Printf("  sort=%s limit=%d min-score=%d\n", res.Request.Sort, res.Request.Limit, res.Request.MinScore)
		fmt.Printf("  %d posts\n", len(res.Posts))
		for _, p := range res.Posts {
			fmt.Printf("    [%d] r/%s: %s (%s)\n", p.Score, p.Subreddit, p.Title, strings.Join(p.KeywordsHit, ","))
		}
		return nil
	}

	entries, err := store.Entries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No search history yet.")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %3d posts  r/%s  [%s]\n",
			e.ID,
			e.ExecutedAt.Format("2006-01-02 15:04"),
			e.TotalPosts,
			strings.Join(e.Subreddits, " r/"),
			strings.Join(e.Keywords, ", "),
		)
	}
	return nil
}
