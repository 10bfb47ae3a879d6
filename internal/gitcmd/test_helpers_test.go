package gitcmd

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

const testDir = "/repo"

// mockRunner is a helper for tests to mock git command execution.
type mockRunner struct {
	mock  func(ctx context.Context, args ...string) (string, error)
	calls [][]string
}

func (m *mockRunner) run(ctx context.Context, args ...string) (string, error) {
	m.calls = append(m.calls, append([]string(nil), args...))
	if m.mock != nil {
		return m.mock(ctx, args...)
	}
	return "", errors.New("mockRunner not implemented")
}

// setupMockRunner sets the package Runner to the mock and restores it when the test ends.
// The mock receives the git arguments without the leading "-C <dir>".
func setupMockRunner(t *testing.T, mockFunc func(ctx context.Context, args ...string) (string, error)) *mockRunner {
	t.Helper()
	originalRunner := Runner
	mock := &mockRunner{mock: func(ctx context.Context, args ...string) (string, error) {
		if len(args) >= 2 && args[0] == "-C" {
			args = args[2:]
		}
		return mockFunc(ctx, args...)
	}}
	Runner = mock.run
	t.Cleanup(func() { Runner = originalRunner })
	return mock
}

// gitFailure builds the error the real runner returns for a non-zero git exit.
func gitFailure(code int, stderr string, args ...string) error {
	return &CommandError{Args: args, ExitCode: code, Stderr: stderr, Err: fmt.Errorf("exit status %d", code)}
}

func newTestClient() *Client {
	return NewClient(testDir, "origin", nil)
}
