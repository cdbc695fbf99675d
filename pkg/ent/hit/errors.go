package hit

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// ValidationError creates an error for a malformed hit record.
func ValidationError(h Hit, field, reason string) error {
	msg := "Hit <em>%s</em> (%s) skipped: %s"
	vars := []any{h.ID, h.GeneName, reason}
	return &gn.Error{
		Code: errcode.HitValidationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("invalid hit %s/%s field %s: %s",
			h.ID, h.GeneName, field, reason),
	}
}

// UnknownGeneError creates an error for a hit that references a gene name
// absent from every loaded model.
func UnknownGeneError(h Hit) error {
	msg := "Hit <em>%s</em> references gene <em>%s</em> unknown to all models"
	vars := []any{h.ID, h.GeneName}
	return &gn.Error{
		Code: errcode.HitUnknownGeneError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("hit %s: gene %s is not used by any model",
			h.ID, h.GeneName),
	}
}

// BelowThresholdError creates an error for a hit filtered out by the
// minimal profile coverage.
func BelowThresholdError(h Hit, minCoverage float64) error {
	msg := "Hit <em>%s</em> (%s) profile coverage %.2f is below %.2f"
	vars := []any{h.ID, h.GeneName, h.ProfileCoverage, minCoverage}
	return &gn.Error{
		Code: errcode.HitBelowThresholdError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("hit %s/%s: profile coverage %v < %v",
			h.ID, h.GeneName, h.ProfileCoverage, minCoverage),
	}
}

// OutOfBoundsError creates an error for a hit placed outside the known
// gene positions of its replicon.
func OutOfBoundsError(h Hit, lo, hi int) error {
	msg := "Hit <em>%s</em> (%s) position %d is outside replicon bounds %d..%d"
	vars := []any{h.ID, h.GeneName, h.Position, lo, hi}
	return &gn.Error{
		Code: errcode.HitValidationError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("hit %s/%s: position %d not in %d..%d",
			h.ID, h.GeneName, h.Position, lo, hi),
	}
}
