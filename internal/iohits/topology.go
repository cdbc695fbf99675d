package iohits

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gnames/gnmsf/pkg/cluster"
)

// ReadTopology reads a topology table from a file.
func ReadTopology(path string) (map[string]cluster.Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, TopologyError(path, 0, err)
	}
	defer f.Close()

	return ParseTopology(f, path)
}

// ParseTopology reads lines of "replicon<TAB>linear|circular[<TAB>min<TAB>max]".
// There is no header. Unlike hit rows, a bad line fails the whole table,
// because a wrong topology silently changes clustering.
func ParseTopology(r io.Reader, name string) (map[string]cluster.Topology, error) {
	cr := newReader(r)
	res := make(map[string]cluster.Topology)

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, TopologyError(name, lineOf(err), err)
		}
		line, _ := cr.FieldPos(0)

		rep, topo, err := parseTopologyRow(row)
		if err != nil {
			return nil, TopologyError(name, line, err)
		}
		if _, ok := res[rep]; ok {
			return nil, TopologyError(name, line,
				fmt.Errorf("replicon %s is listed twice", rep))
		}
		res[rep] = topo
	}
	return res, nil
}

func parseTopologyRow(row []string) (string, cluster.Topology, error) {
	var topo cluster.Topology
	switch len(row) {
	case 2, 4:
	default:
		return "", topo, fmt.Errorf("expected 2 or 4 fields, got %d", len(row))
	}

	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	rep := row[0]
	if rep == "" {
		return "", topo, errors.New("replicon id is empty")
	}
	topo, err := cluster.NewTopology(row[1])
	if err != nil {
		return "", topo, err
	}
	if len(row) == 2 {
		return rep, topo, nil
	}

	if topo.Min, err = strconv.Atoi(row[2]); err != nil {
		return "", topo, fmt.Errorf("min: %w", err)
	}
	if topo.Max, err = strconv.Atoi(row[3]); err != nil {
		return "", topo, fmt.Errorf("max: %w", err)
	}
	if topo.Min < 0 || topo.Max < topo.Min {
		return "", topo, fmt.Errorf("bad bounds %d..%d", topo.Min, topo.Max)
	}
	return rep, topo, nil
}

func lineOf(err error) int {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return perr.StartLine
	}
	return 0
}
