package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/auth"
	"github.com/oss-atlas/ghcensus-cli/internal/adapters/driven/config/file"
	"github.com/oss-atlas/ghcensus-cli/internal/connectors/github"
	"github.com/oss-atlas/ghcensus-cli/internal/core/domain"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the GitHub token",
	Long: `Store and inspect the GitHub personal access token used for API calls.

The token is resolved in order: --token flag, ` + auth.EnvToken + ` environment
variable, then the stored config value.

Examples:
  # Store a token (hidden prompt)
  ghcensus auth login

  # Store a token non-interactively
  ghcensus auth login --token ghp_xxx

  # Check the stored token against the API
  ghcensus auth status

  # Remove the stored token
  ghcensus auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the resolved token against the API",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	RunE:  runAuthLogout,
}

var authLoginToken string

// validateToken checks a token against the API. Test seam.
var validateToken = func(ctx context.Context, token string) error {
	return github.NewClientWithToken(ctx, token).ValidateCredentials(ctx)
}

func init() {
	authLoginCmd.Flags().StringVar(
		&authLoginToken, "token", "", "token value (prompts when omitted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	token := authLoginToken
	if token == "" {
		cmd.Print("GitHub token: ")
		token = readPassword()
		cmd.Println()
	}
	if token == "" {
		return errors.New("token is required")
	}

	cmd.Print("Validating token... ")
	if err := validateToken(context.Background(), token); err != nil {
		cmd.Println("FAILED")
		if errors.Is(err, domain.ErrAuthInvalid) {
			return errors.New("token was rejected by GitHub")
		}
		return fmt.Errorf("token validation failed: %w", err)
	}
	cmd.Println("OK")

	if err := configStore.Set(file.KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	cmd.Printf("Token stored in %s\n", configStore.Path())
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	provider := auth.NewTokenProvider("", configStore)
	token, err := provider.GetToken(context.Background())
	if err != nil {
		cmd.Println("No token configured.")
		cmd.Printf("Run 'ghcensus auth login' or set %s.\n", auth.EnvToken)
		return nil
	}

	cmd.Printf("Token: %s\n", maskToken(token))

	cmd.Print("Checking against the API... ")
	if err := validateToken(context.Background(), token); err != nil {
		cmd.Println("FAILED")
		if errors.Is(err, domain.ErrAuthInvalid) {
			return errors.New("token was rejected by GitHub")
		}
		return fmt.Errorf("token validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	if configStore.GetString(file.KeyToken) == "" {
		cmd.Println("No stored token.")
		return nil
	}

	if err := configStore.Delete(file.KeyToken); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}

	cmd.Println("Token removed.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
