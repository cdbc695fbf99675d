// Package diag keeps the records that explain why a hit, a model or a
// candidate system did not make it into the final result.
package diag

import (
	"cmp"
	"errors"
	"slices"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// Kind is the error class of a diagnostic.
type Kind int

const (
	// Validation is a malformed hit or model; the item was skipped.
	Validation Kind = iota
	// Consistency is a contradictory model definition; the model was skipped.
	Consistency
	// ResourceExhaustion is a truncated candidate enumeration.
	ResourceExhaustion
	// Rejection is a candidate that failed quorum or lost a conflict.
	Rejection
)

var kindNames = map[Kind]string{
	Validation:         "validation_error",
	Consistency:        "consistency_error",
	ResourceExhaustion: "resource_exhaustion",
	Rejection:          "rejected",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText lets Kind serialize as its name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Reason is a short machine-readable cause.
type Reason string

const (
	ForbiddenGenePresent Reason = "forbidden_gene_present"
	QuorumNotMet         Reason = "quorum_not_met"
	LostToConflict       Reason = "lost_to_conflict"
	FailedRecheck        Reason = "failed_recheck"
	InvalidHit           Reason = "invalid_hit"
	UnknownGene          Reason = "unknown_gene"
	BelowThreshold       Reason = "below_threshold"
	InvalidModel         Reason = "invalid_model"
	InconsistentModel    Reason = "inconsistent_model"
	DuplicateModel       Reason = "duplicate_model"
	ModelExcluded        Reason = "model_excluded"
	EnumerationTruncated Reason = "enumeration_truncated"
)

// Diagnostic describes one exclusion.
type Diagnostic struct {
	Kind       Kind         `json:"kind"`
	Reason     Reason       `json:"reason"`
	Code       gn.ErrorCode `json:"code"`
	ModelID    string       `json:"model,omitempty"`
	RepliconID string       `json:"replicon,omitempty"`
	// Subject is the hit key, candidate id or record that the diagnostic is
	// about.
	Subject string `json:"subject,omitempty"`
	Details string `json:"details"`
}

// FromError builds a diagnostic out of an error. When the error is a
// *gn.Error its code is kept.
func FromError(kind Kind, reason Reason, err error) Diagnostic {
	res := Diagnostic{
		Kind:   kind,
		Reason: reason,
		Code:   errcode.UnknownError,
	}
	if err == nil {
		return res
	}
	res.Details = err.Error()
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		res.Code = gnErr.Code
		if gnErr.Err != nil {
			res.Details = gnErr.Err.Error()
		}
	}
	return res
}

// Compare gives diagnostics a total order, so reports do not depend on the
// order in which concurrent workers produced them.
func Compare(a, b Diagnostic) int {
	return cmp.Or(
		cmp.Compare(a.Kind, b.Kind),
		cmp.Compare(a.RepliconID, b.RepliconID),
		cmp.Compare(a.ModelID, b.ModelID),
		cmp.Compare(a.Subject, b.Subject),
		cmp.Compare(a.Reason, b.Reason),
		cmp.Compare(a.Details, b.Details),
	)
}

// Sort orders diagnostics in place.
func Sort(ds []Diagnostic) {
	slices.SortStableFunc(ds, Compare)
}
