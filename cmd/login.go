package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/iksnae/lead-dashboard/internal"
	"github.com/spf13/cobra"
)

// readCredentials collects credentials for a one-shot command
func readCredentials(cmd *cobra.Command) (internal.Credentials, error) {
	email := strings.TrimSpace(loginEmail)

	if passwordStdin {
		if email == "" {
			return internal.Credentials{}, errors.New("--email is required with --password-stdin")
		}
		password, err := readPasswordLine(cmd.InOrStdin())
		if err != nil {
			return internal.Credentials{}, err
		}
		return internal.Credentials{Identity: email, Secret: password}, nil
	}

	if !internal.IsTerminal(os.Stdin) {
		return internal.Credentials{}, errors.New("stdin is not a terminal; use --email with --password-stdin")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "Username: ",
		InterruptPrompt: "^C",
	})
	if err != nil {
		return internal.Credentials{}, fmt.Errorf("failed to open terminal: %w", err)
	}
	defer func() { _ = rl.Close() }()

	return promptCredentials(rl, email)
}

// promptCredentials asks for whatever is missing on an open readline instance
func promptCredentials(rl *readline.Instance, email string) (internal.Credentials, error) {
	if email == "" {
		rl.SetPrompt("Username: ")
		line, err := rl.Readline()
		if err != nil {
			return internal.Credentials{}, err
		}
		email = strings.TrimSpace(line)
	}

	password, err := rl.ReadPassword("Password: ")
	if err != nil {
		return internal.Credentials{}, err
	}

	return internal.Credentials{Identity: email, Secret: string(password)}, nil
}

// readPasswordLine reads the first line of r without its line ending
func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// loginDashboard logs in on a fresh dashboard and loads the leads
func loginDashboard(ctx context.Context, creds internal.Credentials) (*internal.Dashboard, error) {
	dashboard := internal.NewDashboardFromConfig(cfg)
	if err := submitLogin(ctx, dashboard, creds); err != nil {
		return nil, err
	}
	return dashboard, nil
}

// submitLogin dispatches a login and maps failures to operator-facing errors.
// Login succeeds before leads are loaded, so a failure after that point is a
// retrieval problem and is reported as such.
func submitLogin(ctx context.Context, dashboard *internal.Dashboard, creds internal.Credentials) error {
	err := internal.ShowProgress(ctx, "Logging in...", func(ctx context.Context) error {
		return dashboard.Dispatch(ctx, internal.LoginSubmitted{Credentials: creds})
	})
	if err == nil {
		return nil
	}
	if dashboard.IsAuthenticated() {
		return fmt.Errorf("failed to load leads: %w", err)
	}
	internal.LogDebug("Login failed: %v", err)
	return errors.New(internal.LoginFailureMessage(err))
}
