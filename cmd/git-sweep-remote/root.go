package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/bral/git-sweep-remote/internal/config"
	"github.com/bral/git-sweep-remote/internal/gitcmd"
	"github.com/bral/git-sweep-remote/internal/logging"
	"github.com/bral/git-sweep-remote/internal/sweep"
	"github.com/bral/git-sweep-remote/internal/tui"
	"github.com/bral/git-sweep-remote/internal/types"
	"github.com/bral/git-sweep-remote/internal/version"
)

const commandName = "git-sweep-remote"

// app holds the process environment the command runs in.
type app struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive bool // stdin and stdout are terminals
	checker     config.RepositoryChecker
	now         func() time.Time // nil means time.Now
}

func newRootCmd(a app) *cobra.Command {
	var (
		configPath string
		days       string
		protected  string
		remote     string
		execute    bool
		debug      bool
		confirm    bool
	)
	filter := config.DefaultMergeFilter

	cmd := &cobra.Command{
		Use:     commandName + " [options] <repo-dir>",
		Version: version.String(),
		Short:   "Delete stale branches from a repository's remote",
		Long: `git-sweep-remote deletes branches on a remote whose last commit is older than
a number of days. Branches are selected by whether they are merged into the
protected branch (default) or not merged into it. The protected branch itself
is never touched.

Nothing is deleted unless --execute is given; the default is a dry run that
only lists what would be removed. With --execute each stale branch is deleted
locally (if present) and on the remote.`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			opts := config.Options{
				ConfigPath: configPath,
				Args:       args,
				Execute:    execute,
				Debug:      debug,
				Confirm:    confirm,
			}
			if flags.Changed("days") {
				opts.Days = &days
			}
			if flags.Changed("merged") || flags.Changed("no-merged") {
				opts.MergeFilter = &filter
			}
			if flags.Changed("protected") {
				opts.Protected = &protected
			}
			if flags.Changed("remote") {
				opts.Remote = &remote
			}
			return a.run(cmd.Context(), opts)
		},
	}

	cmd.SetIn(a.stdin)
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", config.ErrInvalidOption, err)
	})

	flags := cmd.Flags()
	flags.StringVarP(&days, "days", "d", "", fmt.Sprintf("age threshold in days, positive integer (default %d)", config.DefaultDays))
	flags.VarPF(&mergeFilterFlag{target: &filter, value: types.MergeFilterMerged},
		"merged", "m", "select branches merged into the protected branch").NoOptDefVal = "true"
	flags.VarPF(&mergeFilterFlag{target: &filter, value: types.MergeFilterNonMerged},
		"no-merged", "n", "select branches not merged into the protected branch").NoOptDefVal = "true"
	flags.BoolVarP(&execute, "execute", "e", false, "perform real deletions (default: dry run)")
	flags.BoolVar(&debug, "debug", false, "emit verbose diagnostic output")
	flags.StringVarP(&protected, "protected", "p", "", fmt.Sprintf("protected branch (default %q)", config.DefaultProtectedBranch))
	flags.StringVarP(&remote, "remote", "r", "", fmt.Sprintf("remote to sweep (default %q)", config.DefaultRemote))
	flags.BoolVar(&confirm, "confirm", false, "ask before deleting each branch (with --execute)")
	flags.StringVarP(&configPath, "config", "c", "", "path to defaults file (default: ~/.config/git-sweep-remote/config.toml)")

	return cmd
}

func (a app) run(ctx context.Context, opts config.Options) error {
	cfg, err := config.Resolve(ctx, opts, a.checker)
	if err != nil {
		return err
	}

	logger := logging.New(a.stderr, cfg.Debug)
	client := gitcmd.NewClient(cfg.RepoPath, cfg.Remote, logger)

	var sweepOpts []sweep.Option
	if a.now != nil {
		sweepOpts = append(sweepOpts, sweep.WithClock(a.now))
	}
	if cfg.Confirm {
		switch {
		case cfg.DryRun:
			logger.Warn("--confirm only applies together with --execute")
		case !a.interactive:
			return fmt.Errorf("%w: --confirm needs an interactive terminal", config.ErrInvalidOption)
		default:
			sweepOpts = append(sweepOpts, sweep.WithConfirmer(tui.Confirmer{In: a.stdin, Out: a.stdout}))
		}
	}

	_, err = sweep.New(cfg, client, tui.NewPrinter(a.stdout), logger, sweepOpts...).Run(ctx)
	return err
}
