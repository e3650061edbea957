package credentials

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gwalsh/redsift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvUserAgent, "")
	os.Unsetenv(EnvClientID)
	os.Unsetenv(EnvClientSecret)
	os.Unsetenv(EnvUserAgent)
}

// TestResolve_EnvFirst verifies environment values beat a persisted file.
func TestResolve_EnvFirst(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, domain.Credentials{ClientID: "file-id", ClientSecret: "file-secret"}))

	t.Setenv(EnvClientID, "env-id")
	t.Setenv(EnvClientSecret, "env-secret")
	t.Setenv(EnvUserAgent, "env-agent")

	r := &Resolver{Dir: dir}
	creds, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "env-id", creds.ClientID)
	assert.Equal(t, "env-secret", creds.ClientSecret)
	assert.Equal(t, "env-agent", creds.UserAgent)
}

// TestResolve_FileFallback verifies the persisted file is used when the
// environment is empty.
func TestResolve_FileFallback(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, Save(dir, domain.Credentials{ClientID: "file-id", ClientSecret: "file-secret"}))

	r := &Resolver{Dir: dir}
	creds, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "file-id", creds.ClientID)
	assert.Equal(t, defaultUserAgent, creds.UserAgent, "missing user agent is defaulted")
}

// TestResolve_PromptFallback verifies the interactive prompt is the last
// resort after env and file.
func TestResolve_PromptFallback(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	in := strings.NewReader("typed-id\ntyped-secret\n\n")
	var out bytes.Buffer
	r := &Resolver{Dir: dir, Input: in, Output: &out}

	creds, err := r.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "typed-id", creds.ClientID)
	assert.Equal(t, "typed-secret", creds.ClientSecret)
	assert.Equal(t, defaultUserAgent, creds.UserAgent)
	assert.Contains(t, out.String(), "client ID")
}

// TestResolve_AllExhausted verifies ErrMissingCredentials when nothing is
// available and prompting is disabled.
func TestResolve_AllExhausted(t *testing.T) {
	clearEnv(t)
	r := &Resolver{Dir: t.TempDir()}

	_, err := r.Resolve()
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

// TestResolve_EmptyPromptInput verifies an empty interactive answer still
// fails with ErrMissingCredentials.
func TestResolve_EmptyPromptInput(t *testing.T) {
	clearEnv(t)
	r := &Resolver{Dir: t.TempDir(), Input: strings.NewReader("\n\n\n"), Output: &bytes.Buffer{}}

	_, err := r.Resolve()
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

// TestSaveRead verifies the persisted file round-trips and is user-only.
func TestSaveRead(t *testing.T) {
	dir := t.TempDir()
	want := domain.Credentials{ClientID: "id", ClientSecret: "secret", UserAgent: "agent"}
	require.NoError(t, Save(dir, want))

	got, err := Read(dir)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	info, err := os.Stat(filepath.Join(dir, CredentialsFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
