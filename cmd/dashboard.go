package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/iksnae/lead-dashboard/internal"
	"github.com/iksnae/lead-dashboard/internal/export"
	"github.com/spf13/cobra"
)

const shellHelp = `Commands:
  login [username]           Log in (password is read without echo)
  leads                      Reload and show the lead table
  journey <session-id|row#>  Show one lead's journey
  export <format> [file]     Export the loaded leads (jsonl, json, yaml, md, sqlite)
  whoami                     Show the session state
  logout                     End the session
  help                       Show this help
  quit                       Leave the dashboard`

// shell is the interactive dashboard loop. Input comes through readLine and
// readPassword so it can be driven without a terminal.
type shell struct {
	dashboard    *internal.Dashboard
	out          io.Writer
	readLine     func(prompt string) (string, error)
	readPassword func(prompt string) (string, error)
}

// dashboardCmd represents the dashboard command
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Start the interactive dashboard",
	Long: `Start an interactive dashboard session.

The session holds your login token in memory only; it is discarded on
logout or when the dashboard exits.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          promptFor(""),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			return fmt.Errorf("failed to open terminal: %w", err)
		}
		defer func() { _ = rl.Close() }()

		sh := &shell{
			dashboard: internal.NewDashboardFromConfig(cfg),
			out:       rl.Stdout(),
			readLine: func(prompt string) (string, error) {
				rl.SetPrompt(prompt)
				return rl.Readline()
			},
			readPassword: func(prompt string) (string, error) {
				pw, err := rl.ReadPassword(prompt)
				return string(pw), err
			},
		}
		sh.dashboard.OnTransition(func(from, to internal.State) {
			internal.LogDebug("State %s -> %s", from, to)
		})

		_, _ = fmt.Fprintln(sh.out, titleStyle.Render("🔐 Lead Dashboard")+" "+idStyle.Render(cfg.APIBase))
		_, _ = fmt.Fprintln(sh.out, idStyle.Render("Type `login` to begin, `help` for commands."))

		if loginEmail != "" {
			sh.login(cmd.Context(), loginEmail)
		}
		return sh.run(cmd.Context())
	},
}

// run reads commands until quit or EOF
func (s *shell) run(ctx context.Context) error {
	for {
		line, err := s.readLine(promptFor(s.dashboard.Session().Identity))
		if errors.Is(err, readline.ErrInterrupt) {
			if strings.TrimSpace(line) == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := s.execute(ctx, line); quit {
			return nil
		}
	}
}

// execute handles one input line and reports whether the shell should exit
func (s *shell) execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "login":
		email := ""
		if len(fields) > 1 {
			email = fields[1]
		}
		s.login(ctx, email)
	case "leads", "refresh":
		s.leads(ctx)
	case "journey", "select", "show":
		if len(fields) < 2 {
			s.errorf("usage: journey <session-id|row#>")
			return false
		}
		s.journey(ctx, fields[1])
	case "export":
		if len(fields) < 2 {
			s.errorf("usage: export <format> [file]")
			return false
		}
		path := ""
		if len(fields) > 2 {
			path = fields[2]
		}
		s.export(fields[1], path)
	case "whoami", "status":
		s.whoami()
	case "logout":
		_ = s.dashboard.Dispatch(ctx, internal.LogoutClicked{})
		_, _ = fmt.Fprintln(s.out, "Logged out.")
	case "help", "?":
		_, _ = fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit", "q":
		return true
	default:
		s.errorf("unknown command %q (try `help`)", fields[0])
	}
	return false
}

func (s *shell) login(ctx context.Context, email string) {
	if s.dashboard.IsAuthenticated() {
		s.errorf("already logged in as %s; log out first", s.dashboard.Session().Identity)
		return
	}

	if email == "" {
		line, err := s.readLine("Username: ")
		if err != nil {
			return
		}
		email = strings.TrimSpace(line)
	}
	password, err := s.readPassword("Password: ")
	if err != nil {
		return
	}

	creds := internal.Credentials{Identity: email, Secret: password}
	if err := submitLogin(ctx, s.dashboard, creds); err != nil {
		s.errorf("%v", err)
		if !s.dashboard.IsAuthenticated() {
			return
		}
	} else {
		_, _ = fmt.Fprintln(s.out, successStyle.Render("Logged in successfully!"))
	}
	renderLeads(s.out, s.dashboard.LeadsResult())
}

func (s *shell) leads(ctx context.Context) {
	err := internal.ShowProgress(ctx, "Loading leads...", func(ctx context.Context) error {
		return s.dashboard.Dispatch(ctx, internal.LeadsRequested{})
	})
	if err != nil {
		s.reportErr(err)
		return
	}
	renderLeads(s.out, s.dashboard.LeadsResult())
}

func (s *shell) journey(ctx context.Context, arg string) {
	sessionID := s.resolveSession(arg)
	err := internal.ShowProgress(ctx, "Loading journey...", func(ctx context.Context) error {
		return s.dashboard.Dispatch(ctx, internal.SessionSelected{SessionID: sessionID})
	})
	if err != nil {
		s.reportErr(err)
		return
	}
	if err := renderJourney(s.out, s.dashboard.Journey(), "json"); err != nil {
		s.errorf("%v", err)
	}
}

func (s *shell) export(formatName, path string) {
	if !s.dashboard.IsAuthenticated() {
		s.reportErr(internal.ErrNotAuthenticated)
		return
	}
	exporter, err := export.NewExporter(formatName)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	if path == "" {
		path = fmt.Sprintf("leads-%s.%s", time.Now().Format("20060102-150405"), exporter.Extension())
	}
	if err := exportLeads(s.dashboard, exporter, formatName, path, s.out); err != nil {
		s.errorf("%v", err)
		return
	}
	_, _ = fmt.Fprintln(s.out, successStyle.Render(fmt.Sprintf("Exported %d lead(s) to %s", len(s.dashboard.Leads()), path)))
}

func (s *shell) whoami() {
	session := s.dashboard.Session()
	if !s.dashboard.IsAuthenticated() {
		_, _ = fmt.Fprintf(s.out, "Not logged in (state %s)\n", s.dashboard.State())
		return
	}
	_, _ = fmt.Fprintf(s.out, "Logged in as %s (state %s)\n", session.Identity, s.dashboard.State())
	if exp, ok := session.ExpiresAt(); ok {
		_, _ = fmt.Fprintf(s.out, "Token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	if leads := s.dashboard.Leads(); leads != nil {
		_, _ = fmt.Fprintf(s.out, "%d lead(s) loaded\n", len(leads))
	}
}

// resolveSession maps a 1-based row number to its session id; anything else is used as-is
func (s *shell) resolveSession(arg string) string {
	leads := s.dashboard.Leads()
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(leads) {
		if !containsSession(leads, arg) {
			return leads[n-1].SessionID
		}
	}
	return arg
}

func (s *shell) reportErr(err error) {
	if errors.Is(err, internal.ErrNotAuthenticated) {
		s.errorf("Please log in first.")
		return
	}
	s.errorf("%v", err)
}

func (s *shell) errorf(format string, args ...interface{}) {
	_, _ = fmt.Fprintln(s.out, errorStyle.Render("✗ "+fmt.Sprintf(format, args...)))
}

func promptFor(identity string) string {
	if identity == "" {
		return "leads> "
	}
	return fmt.Sprintf("leads(%s)> ", identity)
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
