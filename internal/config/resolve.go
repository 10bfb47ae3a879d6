package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bral/git-sweep-remote/internal/types"
)

// Config is the validated configuration of one invocation. It is built once by Resolve
// and passed by value; nothing modifies it afterwards.
type Config struct {
	RepoPath        string // absolute
	Days            int
	MergeFilter     types.MergeFilter
	DryRun          bool
	Debug           bool
	Confirm         bool
	ProtectedBranch string
	Remote          string
}

// Options carries the raw command-line input. Nil pointers mean "flag not given".
type Options struct {
	ConfigPath  string
	Args        []string
	Days        *string
	MergeFilter *types.MergeFilter
	Protected   *string
	Remote      *string
	Execute     bool
	Debug       bool
	Confirm     bool
}

// RepositoryChecker performs the checks that need the git executable.
type RepositoryChecker interface {
	CheckInstalled() error
	IsInsideWorkTree(ctx context.Context, dir string) (bool, error)
}

// Resolve validates opts in a fixed order and returns the resulting Config:
// positional argument, defaults file, repository directory, days, merge filter,
// branch names, git availability, work tree. The checker is not consulted until
// every check before it has passed.
func Resolve(ctx context.Context, opts Options, checker RepositoryChecker) (Config, error) {
	if len(opts.Args) > 1 {
		return Config{}, fmt.Errorf("%w: unexpected argument %q", ErrInvalidOption, opts.Args[1])
	}
	if len(opts.Args) == 0 || strings.TrimSpace(opts.Args[0]) == "" {
		return Config{}, ErrInvalidRepoPath
	}

	file, err := LoadFile(opts.ConfigPath)
	switch {
	case err == nil:
	case errors.Is(err, ErrConfigNotFound) && opts.ConfigPath == "":
		// No defaults file; built-in defaults apply.
	case errors.Is(err, ErrConfigNotFound):
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigPath)
	default:
		return Config{}, err
	}

	repoPath, err := resolveRepoPath(opts.Args[0])
	if err != nil {
		return Config{}, err
	}

	days := file.Days
	if opts.Days != nil {
		days, err = strconv.Atoi(strings.TrimSpace(*opts.Days))
		if err != nil {
			return Config{}, fmt.Errorf("%w: %q", ErrInvalidDays, *opts.Days)
		}
	}
	if days <= 0 {
		return Config{}, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}

	filter, err := types.ParseMergeFilter(file.MergeFilter)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidMergeFilter, err)
	}
	if opts.MergeFilter != nil {
		filter = *opts.MergeFilter
	}

	protected := pick(opts.Protected, file.ProtectedBranch)
	remote := pick(opts.Remote, file.Remote)
	if err := validateName("protected branch", protected); err != nil {
		return Config{}, err
	}
	if err := validateName("remote", remote); err != nil {
		return Config{}, err
	}

	if err := checker.CheckInstalled(); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrGitUnavailable, err)
	}
	inside, err := checker.IsInsideWorkTree(ctx, repoPath)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s: %v", ErrNotRepository, repoPath, err)
	}
	if !inside {
		return Config{}, fmt.Errorf("%w: %s", ErrNotRepository, repoPath)
	}

	return Config{
		RepoPath:        repoPath,
		Days:            days,
		MergeFilter:     filter,
		DryRun:          !opts.Execute,
		Debug:           opts.Debug,
		Confirm:         opts.Confirm,
		ProtectedBranch: protected,
		Remote:          remote,
	}, nil
}

func resolveRepoPath(raw string) (string, error) {
	info, err := os.Stat(raw)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrInvalidRepoPath, raw)
	}
	abs, err := filepath.Abs(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidRepoPath, raw, err)
	}
	return abs, nil
}

func pick(override *string, fallback string) string {
	if override != nil {
		return strings.TrimSpace(*override)
	}
	return strings.TrimSpace(fallback)
}

// validateName rejects values git would read as an option or that cannot be a ref name.
func validateName(what, name string) error {
	if name == "" || strings.HasPrefix(name, "-") || strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("%w: %s %q", ErrInvalidBranch, what, name)
	}
	return nil
}
