package ioreport

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/engine"
	"github.com/gnames/gnmsf/pkg/quorum"
)

var systemsHeader = []string{
	"sys_id", "replicon", "model", "hit_id", "gene", "position", "strand",
	"score", "coverage", "profile_coverage", "group", "role",
	"sys_score", "sys_wholeness", "sys_loci", "sys_occ", "used_in",
}

var diagnosticsHeader = []string{
	"kind", "reason", "code", "model", "replicon", "subject", "details",
}

// SystemsTable writes one row per claimed hit of every occurrence. The
// used_in column lists the occurrences of other models sharing the hit.
func SystemsTable(cw *csv.Writer, occs []engine.Occurrence) error {
	if err := cw.Write(systemsHeader); err != nil {
		return err
	}
	for _, o := range occs {
		fills := fillsByGene(o.Roles)
		for _, h := range o.Hits {
			f := fills[h.GeneName]
			var role string
			if f.Group != "" {
				role = f.Role.String()
			}
			row := []string{
				o.ID, o.RepliconID, o.ModelID, h.ID, h.GeneName,
				strconv.Itoa(h.Position), h.Strand.String(),
				ftoa(h.Score), ftoa(h.Coverage), ftoa(h.ProfileCoverage),
				f.Group, role,
				ftoa(o.Score), ftoa(o.Wholeness), strconv.Itoa(o.Loci),
				strconv.Itoa(o.Copies), strings.Join(o.UsedIn[h.Key().String()], ","),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func fillsByGene(fills []quorum.Fill) map[string]quorum.Fill {
	res := make(map[string]quorum.Fill)
	for _, f := range fills {
		for _, g := range f.Genes {
			res[g] = f
		}
	}
	return res
}

// DiagnosticsTable writes one row per diagnostic.
func DiagnosticsTable(cw *csv.Writer, ds []diag.Diagnostic) error {
	if err := cw.Write(diagnosticsHeader); err != nil {
		return err
	}
	for _, d := range ds {
		row := []string{
			d.Kind.String(), string(d.Reason), strconv.Itoa(int(d.Code)),
			d.ModelID, d.RepliconID, d.Subject, d.Details,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
