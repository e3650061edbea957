// Package credentials resolves Reddit API credentials from the environment,
// a persisted file, or an interactive prompt, in that order.
package credentials

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gwalsh/redsift/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	EnvClientID     = "REDDIT_CLIENT_ID"
	EnvClientSecret = "REDDIT_CLIENT_SECRET"
	EnvUserAgent    = "REDDIT_USER_AGENT"

	// CredentialsFile is the persisted credentials file name inside the
	// config dir.
	CredentialsFile = "credentials.yaml"

	defaultUserAgent = "redsift/1.0"
)

// Resolver resolves credentials once per session. Input/Output are used only
// for the interactive fallback; a nil Input disables prompting.
type Resolver struct {
	Dir    string
	Input  io.Reader
	Output io.Writer
}

// Resolve checks the environment first, then the persisted file, then prompts.
// Returns domain.ErrMissingCredentials when everything comes up empty.
func (r *Resolver) Resolve() (domain.Credentials, error) {
	if creds, ok := fromEnv(); ok {
		return withDefaults(creds), nil
	}

	creds, err := Read(r.Dir)
	if err == nil && creds.ClientID != "" && creds.ClientSecret != "" {
		return withDefaults(creds), nil
	}
	if err != nil && !os.IsNotExist(err) {
		return domain.Credentials{}, err
	}

	if r.Input == nil {
		return domain.Credentials{}, domain.ErrMissingCredentials
	}
	return Prompt(r.Input, r.Output)
}

func fromEnv() (domain.Credentials, bool) {
	creds := domain.Credentials{
		ClientID:     strings.TrimSpace(os.Getenv(EnvClientID)),
		ClientSecret: strings.TrimSpace(os.Getenv(EnvClientSecret)),
		UserAgent:    strings.TrimSpace(os.Getenv(EnvUserAgent)),
	}
	return creds, creds.ClientID != "" && creds.ClientSecret != ""
}

// Read loads the persisted credentials file from dir. The error from a missing
// file satisfies os.IsNotExist.
func Read(dir string) (domain.Credentials, error) {
	data, err := os.ReadFile(filepath.Join(dir, CredentialsFile))
	if err != nil {
		return domain.Credentials{}, err
	}
	var creds domain.Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return domain.Credentials{}, fmt.Errorf("parse credentials file: %w", err)
	}
	return creds, nil
}

// Save persists credentials to dir. Callers must obtain explicit user consent
// before calling; Resolve never writes on its own.
func Save(dir string, creds domain.Credentials) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	path := filepath.Join(dir, CredentialsFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}

// Prompt reads credentials interactively from in.
func Prompt(in io.Reader, out io.Writer) (domain.Credentials, error) {
	if out == nil {
		out = os.Stderr
	}
	scanner := bufio.NewScanner(in)

	readField := func(label string) string {
		fmt.Fprintf(out, "%s: ", label)
		if !scanner.Scan() {
			return ""
		}
		return strings.TrimSpace(scanner.Text())
	}

	creds := domain.Credentials{
		ClientID:     readField("Reddit client ID"),
		ClientSecret: readField("Reddit client secret"),
		UserAgent:    readField(fmt.Sprintf("User agent (default %s)", defaultUserAgent)),
	}
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return domain.Credentials{}, domain.ErrMissingCredentials
	}
	return withDefaults(creds), nil
}

func withDefaults(creds domain.Credentials) domain.Credentials {
	if creds.UserAgent == "" {
		creds.UserAgent = defaultUserAgent
	}
	return creds
}
