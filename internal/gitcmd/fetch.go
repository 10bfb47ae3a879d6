package gitcmd

import (
	"context"
	"fmt"
)

// FetchAndPrune runs 'git fetch <remote> --prune' to update remote-tracking refs
// and remove any that no longer exist on the remote.
func (c *Client) FetchAndPrune(ctx context.Context) error {
	if c.remote == "" {
		return fmt.Errorf("remote name cannot be empty for fetch --prune")
	}

	if _, err := c.run(ctx, "fetch", c.remote, "--prune"); err != nil {
		return fmt.Errorf("failed to fetch and prune remote %q: %w", c.remote, err)
	}

	return nil
}
