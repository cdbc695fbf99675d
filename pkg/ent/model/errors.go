package model

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// ValidationError creates an error for a malformed model definition.
func ValidationError(id, reason string) error {
	msg := "Model <em>%s</em> skipped: %s"
	vars := []any{id, reason}
	return &gn.Error{
		Code: errcode.ModelValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid model %q: %s", id, reason),
	}
}

// ConsistencyError creates an error for a model with contradictory or
// cyclic exchangeable groups.
func ConsistencyError(id, reason string) error {
	msg := "Model <em>%s</em> is inconsistent: %s"
	vars := []any{id, reason}
	return &gn.Error{
		Code: errcode.ModelConsistencyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("inconsistent model %q: %s", id, reason),
	}
}

// DuplicateError creates an error for a model id declared twice.
func DuplicateError(id string) error {
	msg := "Model <em>%s</em> is defined more than once, the first one is used"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.ModelDuplicateError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("duplicate model %q", id),
	}
}

// NotFoundError creates an error for a requested model that is not in the
// catalog.
func NotFoundError(id string) error {
	msg := "Model <em>%s</em> not found"
	vars := []any{id}
	return &gn.Error{
		Code: errcode.ModelNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("model %q not found", id),
	}
}
