package gitcmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bral/git-sweep-remote/internal/types"
)

const commitDateLayout = "2006-01-02"

func (c *Client) remoteRefPrefix() string {
	return "refs/remotes/" + c.remote + "/"
}

// ListRemoteBranches returns the short names of the remote's branches that are merged
// (or not merged, per filter) into <remote>/<protected>. The protected branch and the
// remote's symbolic HEAD are never part of the result.
func (c *Client) ListRemoteBranches(ctx context.Context, protected string, filter types.MergeFilter) ([]string, error) {
	if protected == "" {
		return nil, fmt.Errorf("protected branch name cannot be empty")
	}

	var mergeArg string
	switch filter {
	case types.MergeFilterMerged:
		mergeArg = "--merged="
	case types.MergeFilterNonMerged:
		mergeArg = "--no-merged="
	default:
		return nil, fmt.Errorf("unsupported merge filter %q", filter)
	}

	prefix := c.remoteRefPrefix()
	output, err := c.run(ctx,
		"for-each-ref",
		"--format=%(refname)",
		mergeArg+prefix+protected,
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s branches of %q against %q: %w", filter, c.remote, protected, err)
	}

	branches := make([]string, 0)
	for _, line := range strings.Split(output, "\n") {
		ref := strings.TrimSpace(line)
		if ref == "" {
			continue
		}
		name, ok := strings.CutPrefix(ref, prefix)
		if !ok || name == "" || name == "HEAD" || name == protected {
			continue
		}
		branches = append(branches, name)
	}

	return branches, nil
}

// LastCommitDate returns the calendar date of the latest commit on <remote>/<branch>.
// git prints "YYYY-MM-DD HH:MM:SS +ZZZZ"; only the date token is kept, so the result
// is midnight UTC of that date and the time-of-day and offset are discarded.
func (c *Client) LastCommitDate(ctx context.Context, branch string) (time.Time, error) {
	output, err := c.run(ctx, "log", "-1", "--format=%ci", c.remoteRefPrefix()+branch)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read last commit date of %s/%s: %w", c.remote, branch, err)
	}

	dateToken, _, _ := strings.Cut(strings.TrimSpace(output), " ")
	if dateToken == "" {
		return time.Time{}, fmt.Errorf("no commit date returned for %s/%s", c.remote, branch)
	}

	date, err := time.Parse(commitDateLayout, dateToken)
	if err != nil {
		return time.Time{}, fmt.Errorf("unexpected commit date %q for %s/%s: %w", output, c.remote, branch, err)
	}
	return date, nil
}

// HasLocalBranch reports whether refs/heads/<branch> exists.
func (c *Client) HasLocalBranch(ctx context.Context, branch string) (bool, error) {
	_, err := c.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	if err == nil {
		return true, nil
	}
	if exitCode(err) == 1 {
		return false, nil
	}
	return false, fmt.Errorf("failed to look up local branch %q: %w", branch, err)
}
