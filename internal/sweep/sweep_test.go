package sweep

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bral/git-sweep-remote/internal/config"
	"github.com/bral/git-sweep-remote/internal/gitcmd"
	"github.com/bral/git-sweep-remote/internal/tui"
	"github.com/bral/git-sweep-remote/internal/types"
)

var testNow = time.Date(2026, time.October, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	d := testNow.AddDate(0, 0, -n)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// fakeGit simulates a repository whose remote branches carry a merge status and a commit date.
type fakeGit struct {
	merged      map[string]time.Time
	nonMerged   map[string]time.Time
	local       map[string]bool
	failDeletes map[string]bool // "local:<name>" or "remote:<name>"

	fetchErr    error
	fetchErrAt  int // fail on the n-th fetch (1-based); 0 = every fetch when fetchErr is set
	listErr     error
	checkoutErr error
	dateErr     error

	fetches int
	calls   []string
}

func newFakeGit() *fakeGit {
	return &fakeGit{
		merged:      map[string]time.Time{},
		nonMerged:   map[string]time.Time{},
		local:       map[string]bool{},
		failDeletes: map[string]bool{},
	}
}

func (f *fakeGit) FetchAndPrune(context.Context) error {
	f.fetches++
	f.calls = append(f.calls, "fetch")
	if f.fetchErr != nil && (f.fetchErrAt == 0 || f.fetchErrAt == f.fetches) {
		return f.fetchErr
	}
	return nil
}

// ListRemoteBranches returns the protected branch too, so the sweep's own exclusion is exercised.
func (f *fakeGit) ListRemoteBranches(_ context.Context, _ string, filter types.MergeFilter) ([]string, error) {
	f.calls = append(f.calls, "list:"+string(filter))
	if f.listErr != nil {
		return nil, f.listErr
	}
	source := f.merged
	if filter == types.MergeFilterNonMerged {
		source = f.nonMerged
	}
	return slices.Sorted(maps.Keys(source)), nil
}

func (f *fakeGit) LastCommitDate(_ context.Context, branch string) (time.Time, error) {
	f.calls = append(f.calls, "date:"+branch)
	if f.dateErr != nil {
		return time.Time{}, f.dateErr
	}
	if d, ok := f.merged[branch]; ok {
		return d, nil
	}
	if d, ok := f.nonMerged[branch]; ok {
		return d, nil
	}
	return time.Time{}, fmt.Errorf("unknown branch %q", branch)
}

func (f *fakeGit) HasLocalBranch(_ context.Context, branch string) (bool, error) {
	f.calls = append(f.calls, "has-local:"+branch)
	return f.local[branch], nil
}

func (f *fakeGit) Checkout(_ context.Context, branch string) error {
	f.calls = append(f.calls, "checkout:"+branch)
	return f.checkoutErr
}

func (f *fakeGit) DeleteBranches(_ context.Context, branches []gitcmd.BranchToDelete) []types.DeleteResult {
	results := make([]types.DeleteResult, 0, len(branches))
	for _, b := range branches {
		kind := "local"
		if b.IsRemote {
			kind = "remote"
		}
		f.calls = append(f.calls, "delete-"+kind+":"+b.Name)
		result := types.DeleteResult{BranchName: b.Name, IsRemote: b.IsRemote, Success: true, Message: "Successfully deleted"}
		if b.IsRemote {
			result.RemoteName = "origin"
		}
		if f.failDeletes[kind+":"+b.Name] {
			result.Success = false
			result.Message = "Failed: rejected"
		}
		results = append(results, result)
	}
	return results
}

func (f *fakeGit) deleteCalls() []string {
	var out []string
	for _, c := range f.calls {
		if strings.HasPrefix(c, "delete-") {
			out = append(out, c)
		}
	}
	return out
}

type fakeConfirmer struct {
	answers map[string]bool
	err     error
	asked   []string
}

func (c *fakeConfirmer) Confirm(_ context.Context, branch, _ string, _ int) (bool, error) {
	c.asked = append(c.asked, branch)
	if c.err != nil {
		return false, c.err
	}
	return c.answers[branch], nil
}

func testConfig(dryRun bool) config.Config {
	return config.Config{
		RepoPath:        "/repo",
		Days:            91,
		MergeFilter:     types.MergeFilterMerged,
		DryRun:          dryRun,
		ProtectedBranch: "main",
		Remote:          "origin",
	}
}

func runSweep(t *testing.T, cfg config.Config, git *fakeGit, opts ...Option) (Report, string, error) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	report, err := New(cfg, git, tui.NewPrinter(&out), nil, opts...).Run(context.Background())
	return report, out.String(), err
}

func TestRun_DryRunIssuesNoMutatingCommands(t *testing.T) {
	git := newFakeGit()
	for i := 0; i < 5; i++ {
		name := fmt.Sprintf("stale-%d", i)
		git.merged[name] = daysAgo(200 + i)
		git.local[name] = true
	}

	report, out, err := runSweep(t, testConfig(true), git)

	require.NoError(t, err)
	require.Len(t, report.WouldDelete, 5)
	require.Empty(t, report.Deleted)
	require.Empty(t, git.deleteCalls())
	require.NotContains(t, git.calls, "checkout:main")
	require.Contains(t, out, "DRY RUN started")
	require.Contains(t, out, "DRY RUN finished")
	require.Contains(t, out, "would delete stale-0")
}

func TestRun_ProtectedBranchNeverDeleted(t *testing.T) {
	git := newFakeGit()
	git.merged["main"] = daysAgo(500)
	git.merged["old"] = daysAgo(500)
	git.local["main"] = true
	git.local["old"] = true

	report, _, err := runSweep(t, testConfig(false), git)

	require.NoError(t, err)
	require.Equal(t, []string{"old"}, report.Deleted)
	require.NotContains(t, git.calls, "date:main")
	require.NotContains(t, git.calls, "delete-local:main")
	require.NotContains(t, git.calls, "delete-remote:main")
}

func TestRun_ThresholdBoundary(t *testing.T) {
	git := newFakeGit()
	git.merged["exactly-91"] = daysAgo(91)
	git.merged["exactly-92"] = daysAgo(92)

	report, out, err := runSweep(t, testConfig(true), git)

	require.NoError(t, err)
	require.Equal(t, []string{"exactly-92"}, report.WouldDelete)
	require.Len(t, report.Stale, 1)
	require.Equal(t, 92, report.Stale[0].AgeDays)
	require.NotContains(t, out, "exactly-91")
}

func TestRun_MergeFiltersAreDisjoint(t *testing.T) {
	git := newFakeGit()
	git.merged["merged-old"] = daysAgo(120)
	git.nonMerged["wip-old"] = daysAgo(120)

	mergedCfg := testConfig(true)
	nonMergedCfg := testConfig(true)
	nonMergedCfg.MergeFilter = types.MergeFilterNonMerged

	mergedReport, _, err := runSweep(t, mergedCfg, git)
	require.NoError(t, err)
	nonMergedReport, _, err := runSweep(t, nonMergedCfg, git)
	require.NoError(t, err)

	require.Equal(t, []string{"merged-old"}, mergedReport.WouldDelete)
	require.Equal(t, []string{"wip-old"}, nonMergedReport.WouldDelete)
	for _, name := range mergedReport.WouldDelete {
		require.NotContains(t, nonMergedReport.WouldDelete, name)
	}
}

func TestRun_EmptyCandidatesShortCircuit(t *testing.T) {
	git := newFakeGit()
	git.nonMerged["wip"] = daysAgo(300)

	report, out, err := runSweep(t, testConfig(false), git)

	require.NoError(t, err)
	require.Equal(t, 0, report.Matched)
	require.Equal(t, []string{"fetch", "list:merged"}, git.calls)
	require.Contains(t, out, "No branches to delete.")
}

func TestRun_OnlyProtectedMatches(t *testing.T) {
	git := newFakeGit()
	git.merged["main"] = daysAgo(400)

	report, out, err := runSweep(t, testConfig(false), git)

	require.NoError(t, err)
	require.Equal(t, 0, report.Matched)
	require.NotContains(t, git.calls, "checkout:main")
	require.Contains(t, out, "No branches to delete.")
}

func TestRun_ScenarioA_DryRun(t *testing.T) {
	git := newFakeGit()
	git.merged["feature-x"] = daysAgo(120)
	git.merged["feature-y"] = daysAgo(10)
	git.local["feature-x"] = true

	report, out, err := runSweep(t, testConfig(true), git)

	require.NoError(t, err)
	require.Equal(t, []string{"feature-x"}, report.WouldDelete)
	require.Contains(t, out, "feature-x (120 days old)")
	require.NotContains(t, out, "feature-y")
	require.Empty(t, git.deleteCalls())
}

func TestRun_ScenarioB_Execute(t *testing.T) {
	git := newFakeGit()
	git.merged["feature-x"] = daysAgo(120)
	git.merged["feature-y"] = daysAgo(10)
	git.local["feature-x"] = true

	report, out, err := runSweep(t, testConfig(false), git)

	require.NoError(t, err)
	require.Equal(t, []string{"feature-x"}, report.Deleted)
	require.Equal(t, []string{
		"fetch",
		"list:merged",
		"checkout:main",
		"date:feature-x",
		"has-local:feature-x",
		"delete-local:feature-x",
		"delete-remote:feature-x",
		"date:feature-y",
		"fetch",
	}, git.calls)
	require.NotContains(t, out, "DRY RUN")
}

func TestRun_RemoteOnlyBranch(t *testing.T) {
	git := newFakeGit()
	git.merged["remote-only"] = daysAgo(100)

	report, _, err := runSweep(t, testConfig(false), git)

	require.NoError(t, err)
	require.Equal(t, []string{"remote-only"}, report.Deleted)
	require.Equal(t, []string{"delete-remote:remote-only"}, git.deleteCalls())
}

func TestRun_DeletionFailureContinues(t *testing.T) {
	git := newFakeGit()
	git.merged["a-protected-on-server"] = daysAgo(100)
	git.merged["b-fine"] = daysAgo(100)
	git.local["a-protected-on-server"] = true
	git.local["b-fine"] = true
	git.failDeletes["remote:a-protected-on-server"] = true

	report, out, err := runSweep(t, testConfig(false), git)

	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDeletionFailed))
	require.Equal(t, []string{"b-fine"}, report.Deleted)
	require.Len(t, report.Failures, 1)
	require.True(t, report.Failures[0].IsRemote)
	require.Equal(t, "fetch", git.calls[len(git.calls)-1], "final refresh still runs")
	require.Contains(t, out, "failed to delete a-protected-on-server")
	require.Contains(t, out, "1 deletion command(s) failed")
}

func TestRun_FatalErrors(t *testing.T) {
	boom := errors.New("boom")

	testCases := []struct {
		name          string
		setup         func(*fakeGit)
		expectedCalls []string
	}{
		{
			name:          "initial fetch",
			setup:         func(g *fakeGit) { g.fetchErr = boom },
			expectedCalls: []string{"fetch"},
		},
		{
			name:          "listing",
			setup:         func(g *fakeGit) { g.listErr = boom },
			expectedCalls: []string{"fetch", "list:merged"},
		},
		{
			name:          "checkout",
			setup:         func(g *fakeGit) { g.checkoutErr = boom },
			expectedCalls: []string{"fetch", "list:merged", "checkout:main"},
		},
		{
			name:          "commit date",
			setup:         func(g *fakeGit) { g.dateErr = boom },
			expectedCalls: []string{"fetch", "list:merged", "checkout:main", "date:old"},
		},
		{
			name: "final fetch",
			setup: func(g *fakeGit) {
				g.fetchErr = boom
				g.fetchErrAt = 2
			},
			expectedCalls: []string{
				"fetch", "list:merged", "checkout:main", "date:old",
				"has-local:old", "delete-remote:old", "fetch",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			git := newFakeGit()
			git.merged["old"] = daysAgo(100)
			tc.setup(git)

			_, _, err := runSweep(t, testConfig(false), git)

			require.Error(t, err)
			require.True(t, errors.Is(err, boom))
			require.Equal(t, tc.expectedCalls, git.calls)
		})
	}
}

func TestRun_Confirmation(t *testing.T) {
	git := newFakeGit()
	git.merged["keep-me"] = daysAgo(100)
	git.merged["zap-me"] = daysAgo(100)
	confirmer := &fakeConfirmer{answers: map[string]bool{"zap-me": true}}

	report, _, err := runSweep(t, testConfig(false), git, WithConfirmer(confirmer))

	require.NoError(t, err)
	require.Equal(t, []string{"keep-me", "zap-me"}, confirmer.asked)
	require.Equal(t, []string{"keep-me"}, report.Declined)
	require.Equal(t, []string{"zap-me"}, report.Deleted)
	require.Equal(t, []string{"delete-remote:zap-me"}, git.deleteCalls())
}

func TestRun_ConfirmationNotAskedInDryRun(t *testing.T) {
	git := newFakeGit()
	git.merged["old"] = daysAgo(100)
	confirmer := &fakeConfirmer{}

	_, _, err := runSweep(t, testConfig(true), git, WithConfirmer(confirmer))

	require.NoError(t, err)
	require.Empty(t, confirmer.asked)
}

func TestRun_ConfirmationAbortStopsRun(t *testing.T) {
	git := newFakeGit()
	git.merged["a"] = daysAgo(100)
	git.merged["b"] = daysAgo(100)
	confirmer := &fakeConfirmer{err: tui.ErrAborted}

	_, _, err := runSweep(t, testConfig(false), git, WithConfirmer(confirmer))

	require.True(t, errors.Is(err, tui.ErrAborted))
	require.Equal(t, []string{"a"}, confirmer.asked)
	require.Empty(t, git.deleteCalls())
}
