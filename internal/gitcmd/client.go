// Package gitcmd provides functions for interacting with the git command-line tool.
//
// It is the only package that builds git argument lists or reads git output; callers
// get typed results back.
package gitcmd

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Client runs git against one repository and one remote.
type Client struct {
	dir    string
	remote string
	logger *slog.Logger
}

// NewClient returns a Client for the work tree at dir. A nil logger discards diagnostics.
func NewClient(dir, remote string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{dir: dir, remote: remote, logger: logger}
}

// Remote returns the remote name the client targets.
func (c *Client) Remote() string { return c.remote }

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	c.logger.Debug("running git", "dir", c.dir, "args", strings.Join(args, " "))
	out, err := RunGitCommand(ctx, append([]string{"-C", c.dir}, args...)...)
	if err != nil {
		c.logger.Debug("git failed", "args", strings.Join(args, " "), "exit", exitCode(err))
	}
	return out, err
}

// Checker answers the environment questions asked before a sweep starts.
type Checker struct{}

// CheckInstalled reports an error when no git executable is on PATH.
func (Checker) CheckInstalled() error {
	_, err := LookPath("git")
	return err
}

// IsInsideWorkTree checks if dir is within a Git working tree.
// A git exit status other than zero means "no"; only a failure to run git is an error.
func (Checker) IsInsideWorkTree(ctx context.Context, dir string) (bool, error) {
	output, err := RunGitCommand(ctx, "-C", dir, "rev-parse", "--is-inside-work-tree")
	if err != nil {
		var cmdErr *CommandError
		if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
			return false, nil
		}
		return false, err
	}
	return output == "true", nil
}
