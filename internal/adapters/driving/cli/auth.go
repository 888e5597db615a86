package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var authLoginKey string

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the provider credential",
	Long: `Store, check and remove the imagery provider credential.

The API key is kept in the scenefetch config file with owner-only
permissions. The PL_API_KEY environment variable overrides the stored
key without touching it. OAuth client credentials can be configured in
the config file directly; see the auth.oauth.* keys.

Examples:
  scenefetch auth login          # prompted, input hidden
  scenefetch auth status
  scenefetch auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the provider API key",
	Long: `Store the provider API key in the config file and verify it
against the provider.

Without --api-key the key is read from an interactive prompt with
echo disabled. The key is never printed back in full.`,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a working credential is configured",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	RunE:  runAuthLogout,
}

func init() {
	authLoginCmd.Flags().StringVar(&authLoginKey, "api-key", "", "API key (omit to be prompted)")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if credentialManager == nil {
		return errors.New("credential service not configured")
	}

	key := authLoginKey
	if key == "" {
		cmd.Print("API key: ")
		key = readPassword()
		cmd.Println()
	}

	if err := credentialManager.SaveAPIKey(cmd.Context(), key); err != nil {
		return err
	}
	cmd.Printf("Stored API key %s.\n", maskAPIKey(strings.TrimSpace(key)))

	cmd.Print("Verifying credential... ")
	status, err := credentialManager.Status(cmd.Context())
	if err != nil {
		return err
	}
	if !status.Valid {
		cmd.Println("FAILED")
		return fmt.Errorf("credential verification failed: %s", status.Detail)
	}
	cmd.Println("OK")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if credentialManager == nil {
		return errors.New("credential service not configured")
	}

	status, err := credentialManager.Status(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Method:      %s\n", status.Method)
	cmd.Printf("Configured:  %s\n", yesNo(status.Configured))
	if !status.Configured {
		cmd.Println("\nNo credential found. Run 'scenefetch auth login' or set PL_API_KEY.")
		return nil
	}
	cmd.Printf("Valid:       %s\n", yesNo(status.Valid))
	if status.Detail != "" {
		cmd.Printf("Detail:      %s\n", status.Detail)
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if credentialManager == nil {
		return errors.New("credential service not configured")
	}

	if err := credentialManager.Clear(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Credential removed.")
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

// readPassword reads a line from stdin without echo when stdin is a
// terminal, falling back to plain buffered input otherwise.
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// maskAPIKey hides the middle of a key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
