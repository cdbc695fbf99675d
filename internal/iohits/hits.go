// Package iohits reads normalized hit tables and replicon topology tables.
package iohits

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gnmsf/pkg/ent/diag"
	"github.com/gnames/gnmsf/pkg/ent/hit"
)

// Columns of the hit table. IEvalue is optional.
const (
	colID              = "hit_id"
	colReplicon        = "replicon"
	colPosition        = "position"
	colStrand          = "strand"
	colGene            = "gene"
	colScore           = "score"
	colCoverage        = "coverage"
	colProfileCoverage = "profile_coverage"
	colIEvalue         = "i_evalue"
)

var requiredColumns = []string{
	colID, colReplicon, colPosition, colStrand, colGene,
	colScore, colCoverage, colProfileCoverage,
}

// ReadHits reads a tab-separated hit table from a file.
func ReadHits(path string) ([]hit.Hit, []diag.Diagnostic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, HitTableError(path, err)
	}
	defer f.Close()

	return ParseHits(f, path)
}

// ParseHits reads a tab-separated hit table. The first non-comment line is
// the header; columns may come in any order. Rows that cannot be converted
// become diagnostics; unreadable tables or missing columns are errors.
func ParseHits(r io.Reader, name string) ([]hit.Hit, []diag.Diagnostic, error) {
	cr := newReader(r)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("hit table is empty")
		}
		return nil, nil, HitTableError(name, err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, nil, HitTableError(name, err)
	}

	var res []hit.Hit
	var ds []diag.Diagnostic
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, nil, HitTableError(name, err)
			}
			ds = append(ds, rowDiagnostic(name, perr.StartLine, "", err))
			continue
		}
		line, _ := cr.FieldPos(0)
		h, err := parseRow(row, idx)
		if err != nil {
			ds = append(ds, rowDiagnostic(name, line, h.RepliconID, err))
			continue
		}
		res = append(res, h)
	}

	slog.Debug("Read hit table", "file", name,
		"hits", len(res), "malformed", len(ds))
	return res, ds, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

func columnIndex(header []string) (map[string]int, error) {
	res := make(map[string]int, len(header))
	for i, v := range header {
		res[strings.ToLower(strings.TrimSpace(v))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := res[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return res, nil
}

func parseRow(row []string, idx map[string]int) (hit.Hit, error) {
	var res hit.Hit
	field := func(col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	res.ID = field(colID)
	res.RepliconID = field(colReplicon)
	res.GeneName = field(colGene)

	var err error
	if res.Position, err = strconv.Atoi(field(colPosition)); err != nil {
		return res, fmt.Errorf("column %s: %w", colPosition, err)
	}
	if res.Strand, err = hit.NewStrand(field(colStrand)); err != nil {
		return res, fmt.Errorf("column %s: %w", colStrand, err)
	}
	if res.Score, err = parseFloat(field(colScore)); err != nil {
		return res, fmt.Errorf("column %s: %w", colScore, err)
	}
	if res.Coverage, err = parseFloat(field(colCoverage)); err != nil {
		return res, fmt.Errorf("column %s: %w", colCoverage, err)
	}
	if res.ProfileCoverage, err = parseFloat(field(colProfileCoverage)); err != nil {
		return res, fmt.Errorf("column %s: %w", colProfileCoverage, err)
	}
	if v := field(colIEvalue); v != "" {
		if res.IEvalue, err = parseFloat(v); err != nil {
			return res, fmt.Errorf("column %s: %w", colIEvalue, err)
		}
	}
	return res, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func rowDiagnostic(name string, line int, rep string, err error) diag.Diagnostic {
	d := diag.FromError(diag.Validation, diag.InvalidHit,
		RowError(name, line, err))
	d.RepliconID = rep
	d.Subject = fmt.Sprintf("%s:%d", name, line)
	return d
}
