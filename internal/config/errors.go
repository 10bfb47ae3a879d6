package config

import "errors"

var (
	// ErrConfigNotFound is returned by LoadFile when no defaults file is found.
	ErrConfigNotFound = errors.New("configuration file not found")
	// ErrConfigDecode is returned when the defaults file is not valid TOML.
	ErrConfigDecode = errors.New("error decoding config file")

	ErrInvalidOption      = errors.New("invalid option")
	ErrInvalidRepoPath    = errors.New("repository path invalid or not specified")
	ErrInvalidDays        = errors.New("invalid number of days")
	ErrInvalidMergeFilter = errors.New("invalid merge filter")
	ErrInvalidBranch      = errors.New("invalid branch or remote name")
	ErrGitUnavailable     = errors.New("git is not installed or not on PATH")
	ErrNotRepository      = errors.New("not a valid repository")
)

var usageErrors = []error{
	ErrConfigNotFound,
	ErrConfigDecode,
	ErrInvalidOption,
	ErrInvalidRepoPath,
	ErrInvalidDays,
	ErrInvalidMergeFilter,
	ErrInvalidBranch,
	ErrGitUnavailable,
	ErrNotRepository,
}

// IsUsageError reports whether err comes from configuration or precondition checks,
// the class of errors that is printed together with a pointer to --help.
func IsUsageError(err error) bool {
	for _, target := range usageErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
