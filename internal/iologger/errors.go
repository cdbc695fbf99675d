package iologger

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// CreateLogFileError is returned when the log file cannot be opened for
// writing. Logging can still go to the console.
func CreateLogFileError(path string, err error) error {
	msg := `Cannot open log file <em>%s</em>

Set <em>log.destination</em> to stderr or stdout to log to the console`
	vars := []any{path}
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("iologger: open %s: %w", path, err),
	}
}
