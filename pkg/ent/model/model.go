// Package model holds the declarative definitions of macromolecular systems:
// the genes a system is made of, the role each gene plays, the quorum that
// must be reached and the co-localization constraints.
package model

import (
	"fmt"
	"slices"
	"strings"
)

// DistanceGenes is the only supported distance unit: distances are counted
// in gene positions.
const DistanceGenes = "genes"

// Model is a system definition. Use New to get a validated model; the zero
// value is only a definition template.
type Model struct {
	// ID is the fully qualified name, for example "TXSS/T2SS".
	ID string

	// Genes are listed in definition order.
	Genes []Gene

	// MinMandatory is the minimal number of distinct mandatory roles.
	MinMandatory int

	// MinTotal is the minimal number of distinct mandatory and accessory
	// roles.
	MinTotal int

	// InterGeneMaxSpace is the maximal number of genes allowed between two
	// consecutive clustered hits.
	InterGeneMaxSpace int

	// MultiLocus allows an occurrence to be built from several clusters.
	MultiLocus bool

	// MaxLoci caps the number of clusters of a multi-locus occurrence.
	// Zero means no cap.
	MaxLoci int

	// DistanceUnit must be empty or "genes".
	DistanceUnit string

	byName   map[string]int
	groups   []Group
	groupIdx map[string]int
	loners   bool
}

// New validates a definition and returns a ready to use copy of it.
// Malformed definitions return a ValidationError, contradictory exchangeable
// groups return a ConsistencyError.
func New(def Model) (*Model, error) {
	m := def
	m.Genes = slices.Clone(def.Genes)
	if err := m.validate(); err != nil {
		return nil, err
	}
	if err := m.prepare(); err != nil {
		return nil, err
	}
	if err := m.validateQuorum(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Model) validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return ValidationError(m.ID, "model id is empty")
	}
	if m.DistanceUnit != "" && m.DistanceUnit != DistanceGenes {
		return ValidationError(m.ID,
			fmt.Sprintf("unknown distance unit %q", m.DistanceUnit))
	}
	if m.InterGeneMaxSpace < 0 {
		return ValidationError(m.ID, "inter_gene_max_space is negative")
	}
	if m.MaxLoci < 0 {
		return ValidationError(m.ID, "max_loci is negative")
	}
	if m.MinMandatory < 0 || m.MinTotal < 0 {
		return ValidationError(m.ID, "quorum values cannot be negative")
	}
	if m.MinTotal < m.MinMandatory {
		return ValidationError(m.ID, fmt.Sprintf(
			"min_genes_required %d must be greater or equal than "+
				"min_mandatory_genes_required %d", m.MinTotal, m.MinMandatory))
	}
	if m.MinTotal == 0 {
		return ValidationError(m.ID, "quorum must require at least one gene")
	}
	if len(m.Genes) == 0 {
		return ValidationError(m.ID, "model has no genes")
	}
	for _, g := range m.Genes {
		if strings.TrimSpace(g.Name) == "" {
			return ValidationError(m.ID, "gene without name")
		}
		if g.Role == UnknownRole {
			return ValidationError(m.ID,
				fmt.Sprintf("gene %s has no valid presence", g.Name))
		}
		if g.InterGeneMaxSpace != nil && *g.InterGeneMaxSpace < 0 {
			return ValidationError(m.ID,
				fmt.Sprintf("gene %s inter_gene_max_space is negative", g.Name))
		}
	}
	return nil
}

// prepare indexes genes and exchangeable groups, checking that the
// grouping is consistent.
func (m *Model) prepare() error {
	m.byName = make(map[string]int, len(m.Genes))
	m.groupIdx = make(map[string]int)
	m.groups = nil
	m.loners = false

	for i, g := range m.Genes {
		if _, ok := m.byName[g.Name]; ok {
			return ConsistencyError(m.ID,
				fmt.Sprintf("gene %s is declared more than once", g.Name))
		}
		m.byName[g.Name] = i
		if g.Loner {
			m.loners = true
		}
	}

	for _, g := range m.Genes {
		gid := g.GroupID()
		if gid != g.Name {
			// a group named after another gene must be that gene's own group,
			// otherwise the grouping chains or loops.
			if j, ok := m.byName[gid]; ok && m.Genes[j].GroupID() != gid {
				return ConsistencyError(m.ID, fmt.Sprintf(
					"gene %s points to group %s, but gene %s belongs to group %s",
					g.Name, gid, gid, m.Genes[j].GroupID()))
			}
		}
		idx, ok := m.groupIdx[gid]
		if !ok {
			m.groupIdx[gid] = len(m.groups)
			m.groups = append(m.groups, Group{
				ID:        gid,
				Role:      g.Role,
				Reference: g.Name,
				Members:   []string{g.Name},
			})
			continue
		}
		grp := &m.groups[idx]
		if grp.Role != g.Role {
			return ConsistencyError(m.ID, fmt.Sprintf(
				"exchangeable group %s mixes %s gene %s and %s gene %s",
				gid, grp.Role, grp.Reference, g.Role, g.Name))
		}
		grp.Members = append(grp.Members, g.Name)
	}

	// the gene a group is named after is its reference.
	for i := range m.groups {
		if _, ok := m.byName[m.groups[i].ID]; ok {
			m.groups[i].Reference = m.groups[i].ID
		}
	}
	return nil
}

func (m *Model) validateQuorum() error {
	mand := m.GroupCount(Mandatory)
	acc := m.GroupCount(Accessory)
	if mand+acc == 0 {
		return ValidationError(m.ID, "model has no mandatory or accessory genes")
	}
	if m.MinMandatory > mand {
		return ValidationError(m.ID, fmt.Sprintf(
			"min_mandatory_genes_required %d exceeds the %d mandatory roles",
			m.MinMandatory, mand))
	}
	if m.MinTotal > mand+acc {
		return ValidationError(m.ID, fmt.Sprintf(
			"min_genes_required %d exceeds the %d mandatory and accessory roles",
			m.MinTotal, mand+acc))
	}
	return nil
}

// Name returns the last component of the fully qualified ID.
func (m *Model) Name() string {
	if i := strings.LastIndex(m.ID, "/"); i >= 0 {
		return m.ID[i+1:]
	}
	return m.ID
}

// Gene returns the gene with the given name.
func (m *Model) Gene(name string) (Gene, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Gene{}, false
	}
	return m.Genes[i], true
}

// Has reports whether the model references the gene.
func (m *Model) Has(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Groups returns exchangeable groups in definition order.
func (m *Model) Groups() []Group {
	return m.groups
}

// GroupOf returns the group a gene belongs to.
func (m *Model) GroupOf(name string) (Group, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Group{}, false
	}
	return m.groups[m.groupIdx[m.Genes[i].GroupID()]], true
}

// IsExchangeable reports whether the gene is a variant rather than the
// reference of its group.
func (m *Model) IsExchangeable(name string) bool {
	grp, ok := m.GroupOf(name)
	return ok && grp.Reference != name
}

// GroupCount returns the number of groups with the given role.
func (m *Model) GroupCount(r Role) int {
	var res int
	for _, g := range m.groups {
		if g.Role == r {
			res++
		}
	}
	return res
}

// HasLoners reports whether at least one gene is flagged loner.
func (m *Model) HasLoners() bool {
	return m.loners
}

// IsLoner reports whether the gene is flagged loner in this model.
func (m *Model) IsLoner(name string) bool {
	g, ok := m.Gene(name)
	return ok && g.Loner
}

// IsMultiSystem reports whether the gene is flagged multi_system in this
// model.
func (m *Model) IsMultiSystem(name string) bool {
	g, ok := m.Gene(name)
	return ok && g.MultiSystem
}

// MaxSpace returns the inter-gene distance allowed between hits of genes a
// and b. Gene overrides win over the model value; when both genes carry an
// override the smaller one is used.
func (m *Model) MaxSpace(a, b string) int {
	ga, okA := m.Gene(a)
	gb, okB := m.Gene(b)
	var da, db *int
	if okA {
		da = ga.InterGeneMaxSpace
	}
	if okB {
		db = gb.InterGeneMaxSpace
	}
	switch {
	case da != nil && db != nil:
		return min(*da, *db)
	case da != nil:
		return *da
	case db != nil:
		return *db
	default:
		return m.InterGeneMaxSpace
	}
}
