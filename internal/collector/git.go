// Package collector reads repository state to annotate marks.
package collector

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// ErrNotGitRepo is returned when the working directory is not inside a git
// repository.
var ErrNotGitRepo = errors.New("not a git repository")

// GitRunner executes a git command and returns its output.
// This abstraction allows mocking in tests.
type GitRunner func(ctx context.Context, workDir string, args ...string) (string, error)

// GitCollector reads git repository state.
type GitCollector struct {
	WorkDir string
	Runner  GitRunner // if nil, uses the real git subprocess
}

// defaultGitRunner runs git as a real subprocess.
func defaultGitRunner(ctx context.Context, workDir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = workDir
	out, err := cmd.Output()
	return string(out), err
}

func (g *GitCollector) run(ctx context.Context, args ...string) (string, error) {
	runner := g.Runner
	if runner == nil {
		runner = defaultGitRunner
	}
	out, err := runner(ctx, g.WorkDir, args...)
	if err != nil {
		if isExitCode128(err) {
			return "", ErrNotGitRepo
		}
		return "", err
	}
	return out, nil
}

// Branch returns the name of the checked out branch.
func (g *GitCollector) Branch(ctx context.Context) (string, error) {
	out, err := g.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// RecentLog returns one-line summaries of the commits made since since,
// newest first.
func (g *GitCollector) RecentLog(ctx context.Context, since time.Time) ([]string, error) {
	out, err := g.run(ctx, "log", "--oneline", "--since="+since.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return parseLogLines(out), nil
}

// isExitCode128 reports whether err is an *exec.ExitError with exit code 128.
func isExitCode128(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode() == 128
	}
	return false
}

// parseLogLines splits git log output into individual commit lines,
// discarding empty lines.
func parseLogLines(output string) []string {
	lines := strings.Split(output, "\n")
	result := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimRight(l, "\r"); l != "" {
			result = append(result, l)
		}
	}
	return result
}
