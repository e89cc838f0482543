package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dirportal-dev/dirportal/internal/api"
	"github.com/dirportal-dev/dirportal/internal/cli/config"
	"github.com/dirportal-dev/dirportal/internal/cli/serverselect"
	"github.com/dirportal-dev/dirportal/internal/credstore"
	"github.com/dirportal-dev/dirportal/internal/logger"
	"github.com/dirportal-dev/dirportal/internal/router"
	"github.com/dirportal-dev/dirportal/internal/session"
)

// App bundles the wired console components shared by every command.
type App struct {
	Config   *config.Config
	Server   *config.Server
	Mode     session.Mode
	Client   *api.Client
	Sessions *session.Store
	Nav      *router.Navigator
	State    *credstore.Store
	Log      zerolog.Logger
}

// NewApp wires the console for the server selected by flag, sticky selection
// or prompt. The session store is registered as the pipeline's first 401
// observer so de-authentication always precedes the navigator's reaction.
func NewApp(serverAlias string) (*App, error) {
	env := config.LoadEnv()
	logger.Init(env.LogLevel, env.LogFormat)
	log := logger.GetLogger()

	cfg, err := config.LoadFromCurrentDir()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w\nRun 'dirportal init' to create a configuration file", err)
	}

	statePath, err := credstore.DefaultPath()
	if err != nil {
		return nil, err
	}
	state, err := credstore.Open(statePath, log)
	if err != nil {
		return nil, err
	}

	server, err := serverselect.ResolveServer(cfg, serverAlias, state)
	if err != nil {
		return nil, err
	}
	if server.URL == "" {
		return nil, fmt.Errorf("server URL is empty. Please edit %s and add a valid URL", config.ConfigFileName)
	}
	state.SetServer(server.URL)

	mode := session.Mode(cfg.AuthModeFor(server))
	var transport api.Transport
	if mode == session.ModeCookie {
		transport = &api.CookieTransport{}
	} else {
		transport = &api.BearerTransport{Tokens: state}
	}

	client, err := api.New(server.URL, transport, log)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(mode, client, state, log)
	client.OnUnauthorized(sessions.Invalidate)

	nav := router.NewNavigator(router.NewGuard(sessions), sessions, state, log)
	nav.Bind(client)

	return &App{
		Config:   cfg,
		Server:   server,
		Mode:     mode,
		Client:   client,
		Sessions: sessions,
		Nav:      nav,
		State:    state,
		Log:      log,
	}, nil
}

// newApp builds the App for a command invocation, honoring the root
// --server flag.
func newApp(cmd *cobra.Command) (*App, error) {
	alias, _ := cmd.Root().PersistentFlags().GetString("server")
	return NewApp(alias)
}

// navigate runs dest through the guard. When an interactive session is
// redirected to /login, it prompts for credentials and then continues to the
// destination the redirect carried.
func navigate(ctx context.Context, app *App, dest string, render router.RenderFunc) error {
	err := app.Nav.Go(ctx, dest, render)
	if err == nil {
		return nil
	}

	if target, ok := router.LoginTarget(err); ok {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("authentication required. Run 'dirportal login' first")
		}
		fmt.Println("Authentication required.")
		if loginErr := promptLogin(ctx, app, "", ""); loginErr != nil {
			return loginErr
		}
		if target == "" {
			target = dest
		}
		return app.Nav.Go(ctx, target, render)
	}

	var redirect *router.Redirect
	if errors.As(err, &redirect) {
		return fmt.Errorf("not allowed to open %s (requires superadmin), use %s instead", dest, redirect.To)
	}

	return err
}

// promptLogin collects credentials (flags and env take precedence over the
// terminal prompt) and logs in through the session store.
func promptLogin(ctx context.Context, app *App, username, password string) error {
	if username == "" {
		username = os.Getenv("DIRPORTAL_USERNAME")
	}
	if password == "" {
		password = os.Getenv("DIRPORTAL_PASSWORD")
	}

	if username == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("username is required (use --username flag or DIRPORTAL_USERNAME env var)")
		}
		fmt.Print("Username: ")
		if _, err := fmt.Scanln(&username); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	if password == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or DIRPORTAL_PASSWORD env var)")
		}
		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
		fmt.Println()
	}

	if err := app.Sessions.Login(ctx, username, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("✓ Logged in as %s\n", app.Sessions.Username())
	return nil
}

// printJSON renders a value as indented JSON on stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// directoryFlag reads the required --directory flag.
func directoryFlag(cmd *cobra.Command) (int64, error) {
	raw, err := cmd.Flags().GetString("directory")
	if err != nil || raw == "" {
		return 0, fmt.Errorf("--directory is required")
	}
	dirID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid directory id %q", raw)
	}
	return dirID, nil
}

// tenantFor resolves the tenant scope: explicit flag first, then the
// logged-in principal's tenant.
func tenantFor(app *App, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if principal, ok := app.Sessions.Principal(); ok && principal.TenantID != "" {
		return principal.TenantID, nil
	}
	return "", fmt.Errorf("--tenant is required")
}
