package model

import (
	"fmt"
	"strings"
)

// Role is the part a gene plays in a model.
type Role int

const (
	UnknownRole Role = iota
	Mandatory
	Accessory
	Neutral
	Forbidden
)

var roleNames = map[Role]string{
	UnknownRole: "unknown",
	Mandatory:   "mandatory",
	Accessory:   "accessory",
	Neutral:     "neutral",
	Forbidden:   "forbidden",
}

// NewRole parses the presence keyword of a model definition. "allowed" is
// accepted as a synonym of "accessory", as in older definitions.
func NewRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mandatory":
		return Mandatory, nil
	case "accessory", "allowed":
		return Accessory, nil
	case "neutral":
		return Neutral, nil
	case "forbidden":
		return Forbidden, nil
	default:
		return UnknownRole, fmt.Errorf("unknown gene presence %q", s)
	}
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return roleNames[UnknownRole]
}

// MarshalText lets Role serialize as its keyword.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Gene is a gene role of a model.
type Gene struct {
	// Name is the profile name hits refer to.
	Name string

	Role Role

	// Group is the exchangeable-group identifier. Genes sharing a group
	// satisfy the same role. Empty means the gene is its own group.
	Group string

	// Loner genes do not need to be clustered with other genes.
	Loner bool

	// MultiSystem genes may be claimed by several occurrences.
	MultiSystem bool

	// InterGeneMaxSpace overrides the model spacing for this gene when set.
	InterGeneMaxSpace *int
}

// GroupID returns the exchangeable group of the gene.
func (g Gene) GroupID() string {
	if g.Group == "" {
		return g.Name
	}
	return g.Group
}

// Group is a set of interchangeable genes filling one role slot.
type Group struct {
	ID   string
	Role Role
	// Reference is the first gene declared in the group; other members are
	// exchangeable variants.
	Reference string
	Members   []string
}
