package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gwalsh/redsift/internal/collector"
	"github.com/gwalsh/redsift/internal/config"
	"github.com/gwalsh/redsift/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags clears flag values and Changed state left over from earlier
// invocations; pflag keeps both across Execute calls.
func resetFlags(t *testing.T) {
	t.Helper()
	configDir = ""
	searchFlags.subreddits = nil
	searchFlags.keywords = nil
	searchFlags.limit = 0
	searchFlags.sort = ""
	searchFlags.minScore = 0
	searchFlags.parallel = 0
	searchFlags.exportBase = ""
	searchFlags.format = "csv"
	exportFlags.format = "csv"
	exportFlags.out = "redsift_export"
	for _, cmd := range []*cobra.Command{rootCmd, searchCmd, exportCmd, serveCmd} {
		cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	resetFlags(t)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// TestServe_MissingConfig verifies serve fails before starting any server
// when the required config file is absent.
func TestServe_MissingConfig(t *testing.T) {
	dir := t.TempDir()

	err := runCLI(t, "serve", "--config-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing config file")
}

// TestServe_MissingHistory verifies serve refuses to start without collected
// data.
func TestServe_MissingHistory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.DefaultConfigFile), []byte("{}\n"), 0o644))

	err := runCLI(t, "serve", "--config-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no search history")
}

// TestServe_UnknownUI verifies only 'basic' is accepted as a UI selector.
func TestServe_UnknownUI(t *testing.T) {
	dir := t.TempDir()

	err := runCLI(t, "serve", "fancy", "--config-dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown UI")
}

// TestSearchThenExport exercises the pipeline end to end in mock mode.
func TestSearchThenExport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(collector.ModeEnv, "mock")

	err := runCLI(t, "search",
		"--config-dir", dir,
		"-r", "cuny",
		"-k", "simulated",
		"-l", "5",
	)
	require.NoError(t, err)

	// the history db was created under the config dir
	_, statErr := os.Stat(filepath.Join(dir, config.DefaultStoragePath))
	require.NoError(t, statErr)

	out := filepath.Join(t.TempDir(), "results")
	err = runCLI(t, "export", "--config-dir", dir, "--format", "json", "-o", out)
	require.NoError(t, err)

	matches, err := filepath.Glob(out + "_*.json")
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

// TestBuildRequest_ZeroFlagOverridesConfig verifies an explicitly passed zero
// value beats a non-zero config default, while unset flags still fall back.
func TestBuildRequest_ZeroFlagOverridesConfig(t *testing.T) {
	resetFlags(t)
	require.NoError(t, searchCmd.Flags().Parse([]string{"--min-score", "0", "--parallel", "0"}))

	cfg := &config.Config{Search: config.SearchConfig{
		Subreddits:  []string{"cuny"},
		Keywords:    []string{"help"},
		Limit:       25,
		Sort:        "new",
		MinScore:    10,
		Parallelism: 4,
	}}
	req := buildRequest(searchCmd, cfg)

	assert.Equal(t, 0, req.MinScore)
	assert.Equal(t, 0, req.Parallelism)
	assert.Equal(t, []string{"cuny"}, req.Subreddits)
	assert.Equal(t, []string{"help"}, req.Keywords)
	assert.Equal(t, 25, req.Limit)
	assert.Equal(t, domain.SortNew, req.Sort)
}

// TestSearch_NoKeywords verifies the non-empty keyword requirement reaches
// the CLI surface.
func TestSearch_NoKeywords(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(collector.ModeEnv, "mock")

	err := runCLI(t, "search", "--config-dir", dir, "-r", "cuny")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword")
}
