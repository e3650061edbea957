// Package dashboard serves charts over the accumulated search history.
package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/gwalsh/redsift/internal/domain"
)

// Data is the slice of the history store the dashboard reads.
type Data interface {
	AllPosts(ctx context.Context) ([]domain.Post, error)
}

type Server struct {
	data  Data
	basic bool
}

// New builds a dashboard over data. With basic set, a plain table is served
// instead of the charts page.
func New(data Data, basic bool) *Server {
	return &Server{data: data, basic: basic}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.basic {
		mux.HandleFunc("/", s.handleBasic)
	} else {
		mux.HandleFunc("/", s.handleCharts)
	}
	return mux
}

func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleCharts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.data.AllPosts(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// 1. Subreddit Dominance
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Subreddit Dominance"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	subCounts := make(map[string]int)
	for _, p := range posts {
		subCounts[p.Subreddit]++
	}

	var pieItems []opts.PieData
	for _, k := range sortedKeys(subCounts) {
		pieItems = append(pieItems, opts.PieData{Name: k, Value: subCounts[k]})
	}
	pie.AddSeries("Posts", pieItems)

	// 2. Keyword Hits
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Keyword Hits"}))

	kwCounts := make(map[string]int)
	for _, p := range posts {
		for _, k := range p.KeywordsHit {
			kwCounts[k]++
		}
	}

	var barX []string
	var barY []opts.BarData
	for _, k := range sortedKeys(kwCounts) {
		barX = append(barX, k)
		barY = append(barY, opts.BarData{Value: kwCounts[k]})
	}
	bar.SetXAxis(barX).AddSeries("Mentions", barY)

	// 3. Posts by Hour of Day (UTC)
	hourBar := charts.NewBar()
	hourBar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Posts by Hour of Day (UTC)"}))

	var hourCounts [24]int
	for _, p := range posts {
		hourCounts[p.CreatedAt.UTC().Hour()]++
	}

	var hourX []string
	var hourY []opts.BarData
	for h := 0; h < 24; h++ {
		hourX = append(hourX, fmt.Sprintf("%02d:00", h))
		hourY = append(hourY, opts.BarData{Value: hourCounts[h]})
	}
	hourBar.SetXAxis(hourX).AddSeries("Posts", hourY)

	pie.Render(w)
	bar.Render(w)
	hourBar.Render(w)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
