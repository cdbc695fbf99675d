package iometrics

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// WriteError creates an error for a metrics file that cannot be written.
func WriteError(path string, err error) error {
	msg := "Cannot write metrics file <em>%s</em>"
	vars := []any{path}
	return &gn.Error{
		Code: errcode.MetricsWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to write metrics %s: %w", path, err),
	}
}
