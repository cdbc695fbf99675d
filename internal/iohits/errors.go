package iohits

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// HitTableError creates an error for a hit table that cannot be read.
func HitTableError(path string, err error) error {
	msg := `Cannot read hit table

<em>File:</em> %s

<em>Expected:</em> tab-separated file with a header containing
  hit_id replicon position strand gene score coverage profile_coverage`

	vars := []any{path}
	return &gn.Error{
		Code: errcode.HitTableReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read hit table %s: %w", path, err),
	}
}

// RowError creates an error for one malformed row of a hit table.
func RowError(path string, line int, err error) error {
	msg := "Skipped malformed hit at <em>%s:%d</em>"
	vars := []any{path, line}
	return &gn.Error{
		Code: errcode.HitTableReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("line %d: %w", line, err),
	}
}

// TopologyError creates an error for a topology table that cannot be read.
func TopologyError(path string, line int, err error) error {
	msg := `Cannot read topology table

<em>File:</em> %s, line %d

<em>Expected:</em> replicon, linear|circular, and optional min and max`

	vars := []any{path, line}
	return &gn.Error{
		Code: errcode.TopologyReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read topology %s: %w", path, err),
	}
}
