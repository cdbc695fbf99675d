package iomodels

import (
	"log/slog"

	"github.com/gnames/gnmsf/pkg/ent/model"
)

type modelsYAML struct {
	Models []modelYAML `yaml:"models"`
}

// modelYAML is one entry of the models list. Pointers distinguish absent
// values from zeros.
type modelYAML struct {
	ID                string     `yaml:"id"`
	InterGeneMaxSpace int        `yaml:"inter_gene_max_space"`
	MinMandatory      *int       `yaml:"min_mandatory_genes_required"`
	MinTotal          *int       `yaml:"min_genes_required"`
	MultiLoci         bool       `yaml:"multi_loci"`
	MaxLoci           int        `yaml:"max_loci"`
	DistanceUnit      string     `yaml:"distance_unit"`
	Genes             []geneYAML `yaml:"genes"`
}

// geneYAML describes a gene. Exchangeables are variants of the gene: they
// share its group and inherit its attributes unless they set their own.
type geneYAML struct {
	Name              string     `yaml:"name"`
	Presence          string     `yaml:"presence"`
	ExchangeableGroup string     `yaml:"exchangeable_group"`
	Exchangeables     []geneYAML `yaml:"exchangeables"`
	Loner             *bool      `yaml:"loner"`
	MultiSystem       *bool      `yaml:"multi_system"`
	InterGeneMaxSpace *int       `yaml:"inter_gene_max_space"`
}

func (m modelYAML) toModel() model.Model {
	res := model.Model{
		ID:                m.ID,
		InterGeneMaxSpace: m.InterGeneMaxSpace,
		MultiLocus:        m.MultiLoci,
		MaxLoci:           m.MaxLoci,
		DistanceUnit:      m.DistanceUnit,
	}

	for _, g := range m.Genes {
		gene := g.toGene(nil)
		res.Genes = append(res.Genes, gene)
		for _, ex := range g.Exchangeables {
			res.Genes = append(res.Genes, ex.toGene(&gene))
		}
	}

	mandatory := mandatoryGroups(res.Genes)
	res.MinMandatory = mandatory
	if m.MinMandatory != nil {
		res.MinMandatory = *m.MinMandatory
	}
	res.MinTotal = max(mandatory, 1)
	if m.MinTotal != nil {
		res.MinTotal = *m.MinTotal
	}
	return res
}

func (g geneYAML) toGene(parent *model.Gene) model.Gene {
	res := model.Gene{
		Name:              g.Name,
		Group:             g.ExchangeableGroup,
		InterGeneMaxSpace: g.InterGeneMaxSpace,
	}
	if parent != nil {
		res.Role = parent.Role
		res.Group = parent.GroupID()
		res.Loner = parent.Loner
		res.MultiSystem = parent.MultiSystem
		if res.InterGeneMaxSpace == nil {
			res.InterGeneMaxSpace = parent.InterGeneMaxSpace
		}
	}

	if g.Presence != "" || parent == nil {
		role, err := model.NewRole(g.Presence)
		if err != nil {
			// UnknownRole makes the catalog reject the model with a diagnostic.
			slog.Debug("Bad gene presence", "gene", g.Name, "error", err)
		}
		res.Role = role
	}
	if g.Loner != nil {
		res.Loner = *g.Loner
	}
	if g.MultiSystem != nil {
		res.MultiSystem = *g.MultiSystem
	}
	return res
}

func mandatoryGroups(genes []model.Gene) int {
	seen := make(map[string]struct{})
	for _, g := range genes {
		if g.Role == model.Mandatory {
			seen[g.GroupID()] = struct{}{}
		}
	}
	return len(seen)
}
