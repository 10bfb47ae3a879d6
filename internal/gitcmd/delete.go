package gitcmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/bral/git-sweep-remote/internal/types"
)

// BranchToDelete holds information needed to delete a specific branch.
type BranchToDelete struct {
	Name     string
	IsRemote bool
}

// Checkout switches the work tree to branch.
func (c *Client) Checkout(ctx context.Context, branch string) error {
	if _, err := c.run(ctx, "checkout", branch); err != nil {
		return fmt.Errorf("failed to check out %q: %w", branch, err)
	}
	return nil
}

// DeleteBranches deletes the given refs in order and reports one result per entry.
// Local branches are removed with "git branch -D" since the merge filter already
// expresses what the user wants gone; remote branches with "git push <remote> --delete".
// A failure does not stop the remaining entries.
func (c *Client) DeleteBranches(ctx context.Context, branches []BranchToDelete) []types.DeleteResult {
	results := make([]types.DeleteResult, 0, len(branches))

	for _, branch := range branches {
		var cmdArgs []string
		result := types.DeleteResult{
			BranchName: branch.Name,
			IsRemote:   branch.IsRemote,
		}

		if branch.IsRemote {
			result.RemoteName = c.remote
			if c.remote == "" {
				result.Message = "Cannot delete remote branch: remote name is empty"
				results = append(results, result)
				continue
			}
			cmdArgs = []string{"push", c.remote, "--delete", branch.Name}
		} else {
			cmdArgs = []string{"branch", "-D", branch.Name}
		}
		result.Cmd = "git " + strings.Join(cmdArgs, " ")

		if _, err := c.run(ctx, cmdArgs...); err != nil {
			result.Message = fmt.Sprintf("Failed: %s", stderrOf(err))
		} else {
			result.Success = true
			result.Message = "Successfully deleted"
		}
		results = append(results, result)
	}

	return results
}
