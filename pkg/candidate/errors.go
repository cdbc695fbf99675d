package candidate

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// StateError creates an error for a forbidden life cycle transition.
func StateError(c *Candidate, to State) error {
	msg := "Candidate <em>%s</em> cannot go from %s to %s"
	vars := []any{c.ID(), c.state, to}
	return &gn.Error{
		Code: errcode.CandidateStateError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("candidate %s: invalid transition %s -> %s",
			c.ID(), c.state, to),
	}
}

// TruncatedError creates an error for an enumeration that hit its bound.
func TruncatedError(modelID, repID string, limit int) error {
	msg := "Candidates of <em>%s</em> on <em>%s</em> truncated at %d"
	vars := []any{modelID, repID, limit}
	return &gn.Error{
		Code: errcode.EnumerationTruncatedError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("enumeration of %s on %s stopped after %d candidates",
			modelID, repID, limit),
	}
}
