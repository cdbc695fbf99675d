package ioreport

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// WriteError creates an error for a report that cannot be written.
func WriteError(path string, err error) error {
	msg := "Cannot write report <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.ReportWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write report %s: %w", path, err),
	}
}
