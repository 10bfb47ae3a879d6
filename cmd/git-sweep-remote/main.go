package main

import (
	"context"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/bral/git-sweep-remote/internal/config"
	"github.com/bral/git-sweep-remote/internal/gitcmd"
	"github.com/bral/git-sweep-remote/internal/tui"
)

func main() {
	a := app{
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()),
		checker:     gitcmd.Checker{},
	}
	os.Exit(execute(context.Background(), a, os.Args[1:]))
}

// execute runs the command and returns the process exit status.
func execute(ctx context.Context, a app, args []string) int {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		reportError(a.stderr, err)
		return 1
	}
	return 0
}

func reportError(w io.Writer, err error) {
	p := tui.NewPrinter(w)
	p.Error("Error: %v", err)
	if config.IsUsageError(err) {
		p.Detail("Run '%s --help' for usage.", commandName)
	}
}
