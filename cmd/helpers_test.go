package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/iksnae/lead-dashboard/testutil"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// resetFlags restores every flag to its default; cobra keeps values between Execute calls
func resetFlags() {
	verbose = false
	apiBase = ""
	loginEmail = ""
	passwordStdin = false
	format = "jsonl"
	outputPath = ""
	showFormat = "json"
	healthcheckTimeout = 10 * time.Second
	cfg = nil

	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)
}

// runCommand executes the root command with args, feeding stdin, and returns stdout
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.Execute()
	return stdout.String(), err
}

// loginArgs returns the flags for a scripted login against ts
func loginArgs(ts *testutil.TrackerServer) []string {
	return []string{"--api-base", ts.BaseURL(), "--email", testutil.OperatorEmail, "--password-stdin"}
}

// withLogin prefixes a command with scripted login flags
func withLogin(ts *testutil.TrackerServer, args ...string) []string {
	return append(args, loginArgs(ts)...)
}
