package types

import (
	"fmt"
	"time"
)

// MergeFilter selects remote branches by their merge status relative to the protected branch.
type MergeFilter string

const (
	MergeFilterMerged    MergeFilter = "merged"
	MergeFilterNonMerged MergeFilter = "non-merged"
)

// ParseMergeFilter converts a config/flag value into a MergeFilter.
func ParseMergeFilter(s string) (MergeFilter, error) {
	switch MergeFilter(s) {
	case MergeFilterMerged, MergeFilterNonMerged:
		return MergeFilter(s), nil
	}
	return "", fmt.Errorf("unknown merge filter %q (want %q or %q)", s, MergeFilterMerged, MergeFilterNonMerged)
}

// Candidate is a remote branch that passed the merge filter and protected-branch exclusion.
// It lives for a single loop iteration of the sweep.
type Candidate struct {
	Name           string
	LastCommitDate time.Time // calendar date, midnight in the evaluating clock's location
	AgeDays        int
}

// DeleteResult holds outcome of one delete attempt.
type DeleteResult struct {
	BranchName string
	IsRemote   bool
	RemoteName string // Only if IsRemote is true
	Success    bool
	Message    string // Success message or error details
	Cmd        string // The command attempted
}

func (r DeleteResult) String() string {
	where := "local"
	if r.IsRemote {
		where = "remote " + r.RemoteName
	}
	return fmt.Sprintf("%s (%s): %s", r.BranchName, where, r.Message)
}
