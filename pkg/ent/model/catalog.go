package model

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/errcode"
)

// Catalog is an immutable set of validated models. It is safe for
// concurrent reads.
type Catalog struct {
	models []*Model
	byID   map[string]*Model
	genes  map[string]struct{}
}

// NewCatalog validates definitions and keeps the valid ones. Every skipped
// definition is explained by a diagnostic; a bad model never prevents the
// others from loading.
func NewCatalog(defs []Model) (*Catalog, []diag.Diagnostic) {
	var ds []diag.Diagnostic
	res := &Catalog{
		byID:  make(map[string]*Model),
		genes: make(map[string]struct{}),
	}
	for _, def := range defs {
		if _, ok := res.byID[def.ID]; ok {
			d := diag.FromError(diag.Validation, diag.DuplicateModel,
				DuplicateError(def.ID))
			d.ModelID = def.ID
			ds = append(ds, d)
			continue
		}
		m, err := New(def)
		if err != nil {
			ds = append(ds, modelDiagnostic(def.ID, err))
			continue
		}
		res.byID[m.ID] = m
		res.models = append(res.models, m)
		for _, g := range m.Genes {
			res.genes[g.Name] = struct{}{}
		}
	}
	slices.SortFunc(res.models, func(a, b *Model) int {
		return cmp.Compare(a.ID, b.ID)
	})
	diag.Sort(ds)
	return res, ds
}

func modelDiagnostic(id string, err error) diag.Diagnostic {
	kind, reason := diag.Validation, diag.InvalidModel
	var gnErr *gn.Error
	if errors.As(err, &gnErr) && gnErr.Code == errcode.ModelConsistencyError {
		kind, reason = diag.Consistency, diag.InconsistentModel
	}
	d := diag.FromError(kind, reason, err)
	d.ModelID = id
	return d
}

// Models returns models sorted by id.
func (c *Catalog) Models() []*Model {
	return c.models
}

// Len returns the number of valid models.
func (c *Catalog) Len() int {
	return len(c.models)
}

// Model returns a model by its fully qualified id.
func (c *Catalog) Model(id string) (*Model, bool) {
	m, ok := c.byID[id]
	return m, ok
}

// KnownGene reports whether at least one model uses the gene.
func (c *Catalog) KnownGene(name string) bool {
	_, ok := c.genes[name]
	return ok
}

// Select returns a catalog restricted to the given ids. An id matches a
// model either exactly or as a family prefix ("TXSS" selects "TXSS/T2SS").
// Ids matching nothing produce an error. An empty list selects everything.
func (c *Catalog) Select(ids []string) (*Catalog, error) {
	if len(ids) == 0 {
		return c, nil
	}
	keep := make([]*Model, 0, len(ids))
	seen := make(map[string]struct{})
	for _, id := range ids {
		var found bool
		for _, m := range c.models {
			if m.ID != id && !strings.HasPrefix(m.ID, id+"/") {
				continue
			}
			found = true
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			keep = append(keep, m)
		}
		if !found {
			return nil, NotFoundError(id)
		}
	}
	res := &Catalog{
		byID:  make(map[string]*Model, len(keep)),
		genes: make(map[string]struct{}),
	}
	for _, m := range keep {
		res.models = append(res.models, m)
		res.byID[m.ID] = m
		for _, g := range m.Genes {
			res.genes[g.Name] = struct{}{}
		}
	}
	slices.SortFunc(res.models, func(a, b *Model) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return res, nil
}

// Loader reads model definitions from some storage.
type Loader interface {
	// Load returns raw definitions. Definitions are validated later by
	// NewCatalog, so a malformed model does not stop the load.
	Load() ([]Model, error)
}
