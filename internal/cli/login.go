package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gwalsh/redsift/internal/credentials"
	"github.com/spf13/cobra"
)

var loginSave bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Enter Reddit API credentials interactively",
	Long: "login prompts for a Reddit client ID and secret. Credentials are only\n" +
		"written to disk when you confirm, or when --save is passed.",
	RunE: loginAction,
}

func init() {
	loginCmd.Flags().BoolVar(&loginSave, "save", false, "persist credentials without asking")
	rootCmd.AddCommand(loginCmd)
}

func loginAction(_ *cobra.Command, _ []string) error {
	creds, err := credentials.Prompt(os.Stdin, os.Stderr)
	if err != nil {
		return err
	}

	save := loginSave
	if !save {
		fmt.Fprintf(os.Stderr, "Save credentials to %s? [y/N]: ",
			filepath.Join(configDir, credentials.CredentialsFile))
		scanner := bufio.NewScanner(os.Stdin)
		if scanner.Scan() {
			answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
			save = answer == "y" || answer == "yes"
		}
	}

	if !save {
		fmt.Println("Credentials not saved. Export REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET to use them.")
		return nil
	}

	if err := credentials.Save(configDir, creds); err != nil {
		return err
	}
	fmt.Printf("Credentials saved to %s\n", filepath.Join(configDir, credentials.CredentialsFile))
	return nil
}
