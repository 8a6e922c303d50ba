package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/veldt-labs/boxrag-cli/internal/adapters/driven/auth"
	"github.com/veldt-labs/boxrag-cli/internal/adapters/driving/oauth"
	"github.com/veldt-labs/boxrag-cli/internal/core/domain"
	"github.com/veldt-labs/boxrag-cli/internal/logger"
)

// loginTimeout bounds how long we wait for the browser round trip.
const loginTimeout = 3 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Box authentication",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with Box",
	Long: `Runs the OAuth authorization code flow against Box. A local callback
server receives the redirect, the code is exchanged for tokens, and the
tokens are stored locally so later commands can use them.`,
	RunE: runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authentication state",
	RunE:  runAuthStatus,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored Box credentials",
	RunE:  runAuthLogout,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if credentialsStore == nil {
		return errors.New("credentials store not configured")
	}
	if authConfig.ClientID == "" || authConfig.ClientSecret == "" {
		return errors.New("Box OAuth app not configured, set BOX_CLIENT_ID and BOX_CLIENT_SECRET")
	}

	port, err := oauth.FindAvailablePort(8700, 8799)
	if err != nil {
		return fmt.Errorf("no port for callback server: %w", err)
	}

	cfg := authConfig
	cfg.RedirectURL = fmt.Sprintf("http://localhost:%d/callback", port)

	flow, err := auth.NewFlow(cfg)
	if err != nil {
		return err
	}

	server := oauth.NewCallbackServer(port, flow.State())
	if err := server.Start(); err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer server.Stop()

	authURL := flow.AuthURL()
	cmd.Println("Opening browser for Box authorization...")
	cmd.Printf("If the browser does not open, visit:\n\n  %s\n\n", authURL)
	if err := oauth.OpenBrowser(authURL); err != nil {
		logger.Debug("Could not open browser: %v", err)
	}

	code, err := server.WaitForCode(loginTimeout)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	ctx := context.Background()
	creds, err := flow.Exchange(ctx, code, flow.State())
	if err != nil {
		return err
	}

	if err := credentialsStore.Save(ctx, creds); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	// Tokens are stored; now resolve who we authenticated as. The user
	// ID doubles as the index namespace, so it has to be on record.
	if storageProvider != nil {
		account, err := storageProvider.CurrentUser(ctx)
		if err != nil {
			return fmt.Errorf("fetch account identity: %w", err)
		}
		creds.UserID = account.ID
		creds.Login = account.Login
		if err := credentialsStore.Save(ctx, creds); err != nil {
			return fmt.Errorf("store credentials: %w", err)
		}
		cmd.Printf("Logged in as %s\n", account.Login)
		return nil
	}

	cmd.Println("Logged in.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if credentialsStore == nil {
		return errors.New("credentials store not configured")
	}

	ctx := context.Background()
	creds, err := credentialsStore.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		cmd.Println("Not authenticated. Run: boxrag auth login")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	cmd.Printf("Logged in as: %s (user %s)\n", creds.Login, creds.UserID)
	if !creds.Expiry.IsZero() {
		if creds.IsExpired() {
			if creds.HasRefreshToken() {
				cmd.Println("Access token expired; it will be refreshed on next use.")
			} else {
				cmd.Println("Access token expired. Run: boxrag auth login")
			}
		} else {
			cmd.Printf("Token valid until: %s\n", creds.Expiry.Format(time.RFC3339))
		}
	}
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if credentialsStore == nil {
		return errors.New("credentials store not configured")
	}

	if err := credentialsStore.Clear(context.Background()); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	cmd.Println("Logged out.")
	return nil
}
