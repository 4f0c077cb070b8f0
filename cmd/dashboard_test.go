package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/iksnae/lead-dashboard/internal"
	"github.com/iksnae/lead-dashboard/testutil"
)

// scriptedShell returns a shell reading lines from script and answering every
// password prompt with password
func scriptedShell(ts *testutil.TrackerServer, password string, script ...string) (*shell, *bytes.Buffer) {
	var out bytes.Buffer
	lines := script
	sh := &shell{
		dashboard: internal.NewDashboardFromConfig(&internal.Config{APIBase: ts.BaseURL()}),
		out:       &out,
		readLine: func(prompt string) (string, error) {
			if len(lines) == 0 {
				return "", io.EOF
			}
			line := lines[0]
			lines = lines[1:]
			return line, nil
		},
		readPassword: func(prompt string) (string, error) {
			return password, nil
		},
	}
	return sh, &out
}

func TestShell_Session(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	ctx := context.Background()
	sh, out := scriptedShell(ts, testutil.OperatorPassword)

	steps := []struct {
		line  string
		want  []string
		state internal.State
	}{
		{"whoami", []string{"Not logged in (state LoggedOut)"}, internal.StateLoggedOut},
		{"leads", []string{"Please log in first."}, internal.StateLoggedOut},
		{"journey s1", []string{"Please log in first."}, internal.StateLoggedOut},
		{"login " + testutil.OperatorEmail, []string{"Logged in successfully!", "3 lead(s)"}, internal.StateLeadsLoaded},
		{"whoami", []string{"Logged in as " + testutil.OperatorEmail, "Token expires", "3 lead(s) loaded"}, internal.StateLeadsLoaded},
		{"login " + testutil.OperatorEmail, []string{"already logged in"}, internal.StateLeadsLoaded},
		{"journey 1", []string{"Lead Journey s1", `"type": "page_view"`}, internal.StateJourneyShown},
		{"journey s/3", []string{"Lead Journey s/3", `"events": []`}, internal.StateJourneyShown},
		{"journey", []string{"usage: journey"}, internal.StateJourneyShown},
		{"refresh", []string{"3 lead(s)"}, internal.StateLeadsLoaded},
		{"logout", []string{"Logged out."}, internal.StateLoggedOut},
		{"leads", []string{"Please log in first."}, internal.StateLoggedOut},
	}

	for _, step := range steps {
		out.Reset()
		if quit := sh.execute(ctx, step.line); quit {
			t.Fatalf("execute(%q) asked to quit", step.line)
		}
		for _, want := range step.want {
			if !strings.Contains(out.String(), want) {
				t.Errorf("execute(%q) output missing %q:\n%s", step.line, want, out.String())
			}
		}
		if got := sh.dashboard.State(); got != step.state {
			t.Errorf("after %q state = %s, want %s", step.line, got, step.state)
		}
	}

	if n := ts.Requests("login"); n != 1 {
		t.Errorf("login requests = %d, want 1", n)
	}
}

func TestShell_LoginFailure(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	sh, out := scriptedShell(ts, "wrong-pw", testutil.OperatorEmail)

	sh.execute(context.Background(), "login")

	if !strings.Contains(out.String(), "Invalid username or password.") {
		t.Errorf("output missing login failure:\n%s", out.String())
	}
	if strings.Contains(out.String(), "No leads data available.") {
		t.Errorf("a failed login should not render the lead table:\n%s", out.String())
	}
	if sh.dashboard.IsAuthenticated() {
		t.Error("shell should stay logged out")
	}
}

func TestShell_LeadsUnavailable(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	ts.SetLeadsStatus(503)
	sh, out := scriptedShell(ts, testutil.OperatorPassword)

	sh.execute(context.Background(), "login "+testutil.OperatorEmail)

	for _, want := range []string{"Logged in successfully!", "No leads data available.", "status 503"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestShell_Export(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	ctx := context.Background()
	sh, out := scriptedShell(ts, testutil.OperatorPassword)
	path := filepath.Join(t.TempDir(), "leads.md")

	sh.execute(ctx, "export md "+path)
	if !strings.Contains(out.String(), "Please log in first.") {
		t.Errorf("export before login output:\n%s", out.String())
	}

	sh.execute(ctx, "login "+testutil.OperatorEmail)
	out.Reset()
	sh.execute(ctx, "export md "+path)
	if !strings.Contains(out.String(), "Exported 3 lead(s) to "+path) {
		t.Errorf("export output:\n%s", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if !strings.Contains(string(data), "**Leads:** 3") {
		t.Errorf("export content:\n%s", data)
	}

	out.Reset()
	sh.execute(ctx, "export xml")
	if !strings.Contains(out.String(), "unsupported format") {
		t.Errorf("export xml output:\n%s", out.String())
	}
}

func TestShell_Commands(t *testing.T) {
	ts := testutil.NewTrackerServer(t)

	tests := []struct {
		line     string
		want     string
		wantQuit bool
	}{
		{"", "", false},
		{"   ", "", false},
		{"help", "Commands:", false},
		{"?", "Commands:", false},
		{"HELP", "Commands:", false},
		{"bogus", `unknown command "bogus"`, false},
		{"export", "usage: export", false},
		{"quit", "", true},
		{"exit", "", true},
		{"q", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sh, out := scriptedShell(ts, "")
			quit := sh.execute(context.Background(), tt.line)
			if quit != tt.wantQuit {
				t.Errorf("execute(%q) quit = %v, want %v", tt.line, quit, tt.wantQuit)
			}
			if tt.want != "" && !strings.Contains(out.String(), tt.want) {
				t.Errorf("execute(%q) output missing %q:\n%s", tt.line, tt.want, out.String())
			}
			if tt.want == "" && out.Len() != 0 {
				t.Errorf("execute(%q) output = %q, want none", tt.line, out.String())
			}
		})
	}
}

func TestShell_Run(t *testing.T) {
	ts := testutil.NewTrackerServer(t)

	t.Run("stops at EOF", func(t *testing.T) {
		sh, out := scriptedShell(ts, testutil.OperatorPassword, "login "+testutil.OperatorEmail, "whoami")
		if err := sh.run(context.Background()); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if !strings.Contains(out.String(), "Logged in as") {
			t.Errorf("output:\n%s", out.String())
		}
	})

	t.Run("stops at quit", func(t *testing.T) {
		sh, out := scriptedShell(ts, "", "quit", "help")
		if err := sh.run(context.Background()); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if strings.Contains(out.String(), "Commands:") {
			t.Error("run() kept reading after quit")
		}
	})

	t.Run("interrupt on empty line exits", func(t *testing.T) {
		sh, _ := scriptedShell(ts, "")
		calls := 0
		sh.readLine = func(prompt string) (string, error) {
			calls++
			return "", readline.ErrInterrupt
		}
		if err := sh.run(context.Background()); err != nil {
			t.Fatalf("run() error = %v", err)
		}
		if calls != 1 {
			t.Errorf("readLine calls = %d, want 1", calls)
		}
	})

	t.Run("read error", func(t *testing.T) {
		sh, _ := scriptedShell(ts, "")
		boom := errors.New("terminal gone")
		sh.readLine = func(prompt string) (string, error) {
			return "", boom
		}
		if err := sh.run(context.Background()); !errors.Is(err, boom) {
			t.Errorf("run() error = %v, want %v", err, boom)
		}
	})
}

func TestShell_ResolveSession(t *testing.T) {
	ts := testutil.NewTrackerServer(t)
	ts.SetLeads(`[
		{"session_id":"alpha","created_at":"2024-01-01"},
		{"session_id":"1","created_at":"2024-01-01"},
		{"session_id":"gamma","created_at":"2024-01-01"}
	]`)
	sh, _ := scriptedShell(ts, testutil.OperatorPassword)
	sh.execute(context.Background(), "login "+testutil.OperatorEmail)

	tests := []struct {
		arg  string
		want string
	}{
		{"3", "gamma"},
		{"1", "1"},
		{"alpha", "alpha"},
		{"0", "0"},
		{"4", "4"},
		{"-1", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			if got := sh.resolveSession(tt.arg); got != tt.want {
				t.Errorf("resolveSession(%q) = %q, want %q", tt.arg, got, tt.want)
			}
		})
	}
}

func TestPromptFor(t *testing.T) {
	if got := promptFor(""); got != "leads> " {
		t.Errorf("promptFor(\"\") = %q", got)
	}
	if got := promptFor("ops@example.com"); got != "leads(ops@example.com)> " {
		t.Errorf("promptFor(identity) = %q", got)
	}
}
