package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

var testNow = time.Date(2024, time.March, 15, 16, 0, 0, 0, time.UTC)

// executeCommand runs a cobra command with the given args and captures combined output.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	resetFlags()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(normalizeArgs(root, args))
	_, err = root.ExecuteC()
	return buf.String(), err
}

// resetFlags restores flag variables; pflag keeps values between runs.
func resetFlags() {
	atFlag = ""
	verbose = false
	writeForce, writeBranch, writeLog = false, false, false
	watchView = false
	pathDir = false
	listWeek = false
	exportFormat, exportWeek, exportOutput = "json", false, ""
}

// isolate points HOME and the sessions directory at temp dirs, fixes the
// clock at testNow and returns the sessions directory.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	dir := filepath.Join(t.TempDir(), "sessions")
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	t.Setenv("TIMETRACKER_SESSIONS_PATH", dir)
	t.Setenv("TIMETRACKER_LOG_FILE", "")
	t.Setenv("TIMETRACKER_LOG_LEVEL", "")

	prev := now
	now = func() time.Time { return testNow }
	t.Cleanup(func() { now = prev })
	return dir
}

// run executes args and fails the test on error.
func run(t *testing.T, args ...string) string {
	t.Helper()
	out, err := executeCommand(rootCmd, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func readSession(t *testing.T, dir string, start time.Time) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, start.Format("2006-01-02T15:04:05-07:00")+".md"))
	if err != nil {
		t.Fatalf("reading session file: %v", err)
	}
	return string(data)
}
