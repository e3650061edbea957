package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gwalsh/redsift/internal/collector"
	"github.com/gwalsh/redsift/internal/config"
	"github.com/gwalsh/redsift/internal/credentials"
	"github.com/gwalsh/redsift/internal/domain"
	"github.com/gwalsh/redsift/internal/export"
	"github.com/gwalsh/redsift/internal/history"
	"github.com/gwalsh/redsift/internal/search"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	subreddits []string
	keywords   []string
	limit      int
	sort       string
	minScore   int
	parallel   int
	exportBase string
	format     string
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a keyword search across subreddits",
	RunE:  searchAction,
}

func init() {
	f := searchCmd.Flags()
	f.StringSliceVarP(&searchFlags.subreddits, "subreddit", "r", nil, "subreddit to search (repeatable)")
	f.StringSliceVarP(&searchFlags.keywords, "keyword", "k", nil, "keyword to match (repeatable)")
	f.IntVarP(&searchFlags.limit, "limit", "l", 0, "posts to scan per subreddit")
	f.StringVarP(&searchFlags.sort, "sort", "s", "", "sort order: hot, new, top, rising")
	f.IntVar(&searchFlags.minScore, "min-score", 0, "minimum post score")
	f.IntVar(&searchFlags.parallel, "parallel", 0, "concurrent subreddit fetches (default sequential)")
	f.StringVar(&searchFlags.exportBase, "export", "", "export results to this base filename")
	f.StringVar(&searchFlags.format, "format", "csv", "export format: csv or json")
	rootCmd.AddCommand(searchCmd)
}

func searchAction(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	req := buildRequest(cmd, cfg)
	if err := search.Validate(req); err != nil {
		return err
	}

	creds := resolveCredentials()

	col, err := collector.New(creds)
	if err != nil {
		return fmt.Errorf("initialize collector: %w", err)
	}

	store, err := history.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer func() { _ = store.Close() }()

	svc := search.NewService(col, store, slog.Default())
	res, err := svc.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	fmt.Printf("Found %d matching posts across %d subreddits (search %s)\n",
		len(res.Posts), len(req.Subreddits), res.ID)

	if searchFlags.exportBase != "" {
		format, err := export.ParseFormat(searchFlags.format)
		if err != nil {
			return err
		}
		path, err := export.ToFile(searchFlags.exportBase, format, res, time.Now())
		if err != nil {
			return err
		}
		fmt.Printf("Results saved to %s\n", path)
	}
	return nil
}

// buildRequest starts from config.yaml and lets any flag the user set on the
// command line win, including explicit zero values like --min-score 0.
func buildRequest(cmd *cobra.Command, cfg *config.Config) domain.SearchRequest {
	req := domain.SearchRequest{
		Subreddits:  cfg.Search.Subreddits,
		Keywords:    cfg.Search.Keywords,
		Limit:       cfg.Search.Limit,
		Sort:        domain.Sort(cfg.Search.Sort),
		MinScore:    cfg.Search.MinScore,
		Parallelism: cfg.Search.Parallelism,
	}
	f := cmd.Flags()
	if f.Changed("subreddit") {
		req.Subreddits = searchFlags.subreddits
	}
	if f.Changed("keyword") {
		req.Keywords = searchFlags.keywords
	}
	if f.Changed("limit") {
		req.Limit = searchFlags.limit
	}
	if f.Changed("sort") {
		req.Sort = domain.Sort(searchFlags.sort)
	}
	if f.Changed("min-score") {
		req.MinScore = searchFlags.minScore
	}
	if f.Changed("parallel") {
		req.Parallelism = searchFlags.parallel
	}
	return req
}

// resolveCredentials falls back to anonymous public access when no
// credentials can be found. Searching still works, just slower.
func resolveCredentials() domain.Credentials {
	resolver := &credentials.Resolver{Dir: configDir}
	creds, err := resolver.Resolve()
	if errors.Is(err, domain.ErrMissingCredentials) {
		slog.Info("no credentials found, using public listings (run 'redsift login' to authenticate)")
		return domain.Credentials{UserAgent: "redsift/" + Version}
	}
	if err != nil {
		slog.Warn("credential resolution failed, using public listings", "err", err)
		return domain.Credentials{UserAgent: "redsift/" + Version}
	}
	return creds
}
