// Package sweep runs the cleanup workflow: refresh remote refs, list branches by merge
// status, and delete the ones whose last commit is older than the threshold.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/bral/git-sweep-remote/internal/config"
	"github.com/bral/git-sweep-remote/internal/gitcmd"
	"github.com/bral/git-sweep-remote/internal/tui"
	"github.com/bral/git-sweep-remote/internal/types"
)

// ErrDeletionFailed is returned by Run when at least one delete command failed.
// The other stale branches are still processed.
var ErrDeletionFailed = errors.New("branch deletion failed")

// Git is the subset of gitcmd.Client the sweep needs.
type Git interface {
	FetchAndPrune(ctx context.Context) error
	ListRemoteBranches(ctx context.Context, protected string, filter types.MergeFilter) ([]string, error)
	LastCommitDate(ctx context.Context, branch string) (time.Time, error)
	HasLocalBranch(ctx context.Context, branch string) (bool, error)
	Checkout(ctx context.Context, branch string) error
	DeleteBranches(ctx context.Context, branches []gitcmd.BranchToDelete) []types.DeleteResult
}

// Confirmer asks whether a stale branch should really be deleted.
type Confirmer interface {
	Confirm(ctx context.Context, branch, remote string, ageDays int) (bool, error)
}

// Report summarises one run.
type Report struct {
	Matched     int // branches that passed the merge filter
	Stale       []types.Candidate
	Deleted     []string
	WouldDelete []string
	Declined    []string
	Failures    []types.DeleteResult
}

// Sweeper executes the workflow once for a resolved configuration.
type Sweeper struct {
	cfg       config.Config
	git       Git
	out       *tui.Printer
	logger    *slog.Logger
	confirmer Confirmer
	now       func() time.Time
}

// Option customises a Sweeper.
type Option func(*Sweeper)

// WithConfirmer makes the sweep ask before each real deletion.
func WithConfirmer(c Confirmer) Option {
	return func(s *Sweeper) { s.confirmer = c }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// New returns a Sweeper. A nil logger discards diagnostics.
func New(cfg config.Config, git Git, out *tui.Printer, logger *slog.Logger, opts ...Option) *Sweeper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Sweeper{cfg: cfg, git: git, out: out, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs the sweep. Failures of fetch, listing, checkout or date lookups abort the
// run. Failed deletions are reported and the run continues; Run then returns
// ErrDeletionFailed after the final refresh.
func (s *Sweeper) Run(ctx context.Context) (Report, error) {
	var report Report
	cfg := s.cfg

	s.logger.Debug("configuration",
		"repo", cfg.RepoPath,
		"days", cfg.Days,
		"filter", cfg.MergeFilter,
		"dry_run", cfg.DryRun,
		"protected", cfg.ProtectedBranch,
		"remote", cfg.Remote,
	)

	if cfg.DryRun {
		s.out.Banner("DRY RUN started: nothing will be deleted")
	}

	s.out.Info("Fetching %s with prune...", cfg.Remote)
	if err := s.git.FetchAndPrune(ctx); err != nil {
		return report, fmt.Errorf("refresh remote branches: %w", err)
	}

	names, err := s.git.ListRemoteBranches(ctx, cfg.ProtectedBranch, cfg.MergeFilter)
	if err != nil {
		return report, fmt.Errorf("list remote branches: %w", err)
	}
	names = slices.DeleteFunc(names, func(name string) bool { return name == cfg.ProtectedBranch })
	report.Matched = len(names)
	s.logger.Debug("branches matching filter", "filter", cfg.MergeFilter, "count", len(names), "branches", names)

	if len(names) == 0 {
		s.out.Success("No branches to delete.")
		s.finish(report)
		return report, nil
	}

	// A checked-out branch cannot be deleted, so move to the protected branch first.
	if !cfg.DryRun {
		s.out.Info("Checking out %s...", cfg.ProtectedBranch)
		if err := s.git.Checkout(ctx, cfg.ProtectedBranch); err != nil {
			return report, fmt.Errorf("switch to protected branch: %w", err)
		}
	}

	s.out.Info("Looking for %s branches older than %d days...", cfg.MergeFilter, cfg.Days)
	for _, name := range names {
		commitDate, err := s.git.LastCommitDate(ctx, name)
		if err != nil {
			return report, fmt.Errorf("evaluate branch %q: %w", name, err)
		}

		age := AgeInDays(s.now(), commitDate)
		if !IsStale(age, cfg.Days) {
			s.logger.Debug("keeping branch", "branch", name, "age_days", age, "threshold", cfg.Days)
			continue
		}

		candidate := types.Candidate{Name: name, LastCommitDate: commitDate, AgeDays: age}
		report.Stale = append(report.Stale, candidate)
		s.out.Candidate(name, age)

		if err := s.delete(ctx, candidate, &report); err != nil {
			return report, err
		}
	}

	s.out.Info("Fetching %s with prune...", cfg.Remote)
	if err := s.git.FetchAndPrune(ctx); err != nil {
		return report, fmt.Errorf("refresh remote branches after cleanup: %w", err)
	}

	s.finish(report)

	if len(report.Failures) > 0 {
		return report, fmt.Errorf("%w: %d command(s) failed", ErrDeletionFailed, len(report.Failures))
	}
	return report, nil
}

// delete removes one stale branch locally and on the remote, or only reports it in dry-run.
// The returned error aborts the run; failed delete commands are recorded in report instead.
func (s *Sweeper) delete(ctx context.Context, candidate types.Candidate, report *Report) error {
	cfg := s.cfg

	if cfg.DryRun {
		s.out.Warn("  would delete %s (local and %s/%s)", candidate.Name, cfg.Remote, candidate.Name)
		report.WouldDelete = append(report.WouldDelete, candidate.Name)
		return nil
	}

	if s.confirmer != nil {
		ok, err := s.confirmer.Confirm(ctx, candidate.Name, cfg.Remote, candidate.AgeDays)
		if err != nil {
			return fmt.Errorf("confirm deletion of %q: %w", candidate.Name, err)
		}
		if !ok {
			s.out.Warn("  kept %s", candidate.Name)
			report.Declined = append(report.Declined, candidate.Name)
			return nil
		}
	}

	hasLocal, err := s.git.HasLocalBranch(ctx, candidate.Name)
	if err != nil {
		return fmt.Errorf("evaluate branch %q: %w", candidate.Name, err)
	}

	targets := make([]gitcmd.BranchToDelete, 0, 2)
	if hasLocal {
		targets = append(targets, gitcmd.BranchToDelete{Name: candidate.Name})
	} else {
		s.logger.Debug("no local branch, deleting on remote only", "branch", candidate.Name)
	}
	targets = append(targets, gitcmd.BranchToDelete{Name: candidate.Name, IsRemote: true})

	failed := false
	for _, result := range s.git.DeleteBranches(ctx, targets) {
		where := "local"
		if result.IsRemote {
			where = result.RemoteName
		}
		if result.Success {
			s.out.Success("  deleted %s (%s)", result.BranchName, where)
			continue
		}
		failed = true
		report.Failures = append(report.Failures, result)
		s.out.Error("  failed to delete %s (%s): %s", result.BranchName, where, result.Message)
		s.logger.Warn("deletion failed", "branch", result.BranchName, "cmd", result.Cmd, "message", result.Message)
	}
	if !failed {
		report.Deleted = append(report.Deleted, candidate.Name)
	}
	return nil
}

func (s *Sweeper) finish(report Report) {
	switch {
	case s.cfg.DryRun:
		s.out.Success("Done: %d of %d %s branch(es) would be deleted.",
			len(report.WouldDelete), report.Matched, s.cfg.MergeFilter)
	default:
		s.out.Success("Done: %d of %d %s branch(es) deleted.",
			len(report.Deleted), report.Matched, s.cfg.MergeFilter)
	}
	if len(report.Declined) > 0 {
		s.out.Detail("kept on request: %d", len(report.Declined))
	}
	if len(report.Failures) > 0 {
		s.out.Error("%d deletion command(s) failed:", len(report.Failures))
		for _, failure := range report.Failures {
			s.out.Detail("%s", failure)
		}
	}
	if s.cfg.DryRun {
		s.out.Banner("DRY RUN finished")
	}
}
