// Package hit describes a normalized similarity-search hit: a match between
// a gene profile and a protein located at some position of a replicon.
package hit

import (
	"fmt"
	"math"
	"strings"
)

// Strand is the coding strand of the matched protein.
type Strand int8

const (
	// UnknownStrand is used when the hit table does not provide a strand.
	UnknownStrand Strand = 0
	// Forward is the '+' strand.
	Forward Strand = 1
	// Reverse is the '-' strand.
	Reverse Strand = -1
)

// NewStrand converts strand notations used in hit tables
// ("+", "-", "1", "-1", ".", "") into a Strand.
func NewStrand(s string) (Strand, error) {
	switch strings.TrimSpace(s) {
	case "+", "1", "+1":
		return Forward, nil
	case "-", "-1":
		return Reverse, nil
	case ".", "", "0", "?":
		return UnknownStrand, nil
	default:
		return UnknownStrand, fmt.Errorf("unknown strand notation %q", s)
	}
}

// String returns the conventional one-character notation.
func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	default:
		return "."
	}
}

// Hit is one retained similarity-search match. It is treated as immutable
// once produced.
type Hit struct {
	// ID is the protein (sequence) identifier.
	ID string `json:"id"`

	// GeneName is the name of the profile that matched the protein.
	GeneName string `json:"gene"`

	// RepliconID is the replicon the protein belongs to.
	RepliconID string `json:"replicon"`

	// Position is the rank of the protein in its replicon.
	Position int `json:"position"`

	Strand Strand `json:"strand"`

	// Score is the similarity score reported by the search tool.
	Score float64 `json:"score"`

	// Coverage is the fraction of the protein covered by the alignment.
	Coverage float64 `json:"coverage"`

	// ProfileCoverage is the fraction of the profile covered by the alignment.
	ProfileCoverage float64 `json:"profile_coverage"`

	// IEvalue is the independent e-value. It is informational only.
	IEvalue float64 `json:"i_evalue,omitempty"`
}

// Key identifies a hit in conflict detection: the same protein matched by
// the same profile.
type Key struct {
	RepliconID string
	ID         string
	GeneName   string
}

// Key returns the identity key of the hit.
func (h Hit) Key() Key {
	return Key{RepliconID: h.RepliconID, ID: h.ID, GeneName: h.GeneName}
}

// String renders a key as "replicon:protein:gene".
func (k Key) String() string {
	return k.RepliconID + ":" + k.ID + ":" + k.GeneName
}

// Validate checks that all fields of a hit are usable by the engine.
// It returns a ValidationError describing the first offending field.
func (h Hit) Validate() error {
	switch {
	case strings.TrimSpace(h.ID) == "":
		return ValidationError(h, "id", "protein id is empty")
	case strings.TrimSpace(h.GeneName) == "":
		return ValidationError(h, "gene", "gene name is empty")
	case strings.TrimSpace(h.RepliconID) == "":
		return ValidationError(h, "replicon", "replicon id is empty")
	case h.Position < 0:
		return ValidationError(h, "position",
			fmt.Sprintf("position %d is negative", h.Position))
	case !finite(h.Score):
		return ValidationError(h, "score", "score is not a finite number")
	case !finite(h.Coverage) || h.Coverage < 0 || h.Coverage > 1:
		return ValidationError(h, "coverage",
			fmt.Sprintf("coverage %v is outside of [0,1]", h.Coverage))
	case !finite(h.ProfileCoverage) ||
		h.ProfileCoverage < 0 || h.ProfileCoverage > 1:
		return ValidationError(h, "profile_coverage",
			fmt.Sprintf("profile coverage %v is outside of [0,1]",
				h.ProfileCoverage))
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Less orders hits by position, then gene name, then protein id.
// Replicon is compared first so hits from several replicons sort stably.
func Less(a, b Hit) bool {
	if a.RepliconID != b.RepliconID {
		return a.RepliconID < b.RepliconID
	}
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	if a.GeneName != b.GeneName {
		return a.GeneName < b.GeneName
	}
	return a.ID < b.ID
}

// Compare is the three-way form of Less, usable with slices.SortFunc.
func Compare(a, b Hit) int {
	switch {
	case Less(a, b):
		return -1
	case Less(b, a):
		return 1
	default:
		return 0
	}
}

// Better reports whether a dominates b when both compete for the same slot:
// higher score first, then higher coverage. Equal hits are not better, so the
// earlier one is kept.
func Better(a, b Hit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Coverage > b.Coverage
}
