package main

import (
	"strconv"

	"github.com/bral/git-sweep-remote/internal/types"
)

// mergeFilterFlag is a boolean pflag.Value that writes a fixed filter into a shared target.
// --merged and --no-merged each get one, so whichever appears last on the command line wins.
type mergeFilterFlag struct {
	target *types.MergeFilter
	value  types.MergeFilter
}

func (f *mergeFilterFlag) String() string {
	if f.target != nil && *f.target == f.value {
		return "true"
	}
	return "false"
}

func (f *mergeFilterFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if on {
		*f.target = f.value
	}
	return nil
}

func (f *mergeFilterFlag) Type() string { return "bool" }
