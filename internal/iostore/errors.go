package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// ConnectionError is returned when a store cannot be reached.
func ConnectionError(target string, err error) error {
	msg := `Cannot connect to result store

<em>Target:</em> %s

<em>Possible causes:</em>
  - Database server is not running
  - Database settings in config.yaml are wrong
  - Output directory is not writable`

	vars := []any{target}
	return &gn.Error{
		Code: errcode.StoreConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to connect to %s: %w", target, err),
	}
}

// NotOpenError is returned when Save is called before Open.
func NotOpenError(target string) error {
	msg := "Result store <em>%s</em> is not open"
	vars := []any{target}
	return &gn.Error{
		Code: errcode.StoreConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("store %s is not open", target),
	}
}

// SchemaError is returned when result tables cannot be created.
func SchemaError(target string, err error) error {
	msg := "Cannot create result tables in <em>%s</em>"
	vars := []any{target}
	return &gn.Error{
		Code: errcode.StoreSchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to create tables in %s: %w", target, err),
	}
}

// SaveError is returned when rows cannot be written.
func SaveError(table string, err error) error {
	msg := "Cannot save results to table <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.StoreSaveError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to save %s: %w", table, err),
	}
}
