// Package hierarchical implements a layered DAG layout: dependency
// levels become rows, rows are ordered with barycenter sweeps plus a
// transpose pass to reduce edge crossings, and coordinates fall on a
// regular grid of LinkDistance spacing. Nodes on cycles, which have no
// well-defined level, are appended as a final row.
package hierarchical

import (
	"sort"

	"github.com/matzehuels/forcefield/pkg/analyze"
	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
	"github.com/matzehuels/forcefield/pkg/layout"
)

const (
	// MaxNodes and MaxEdges bound the graphs CanHandle accepts.
	MaxNodes = 2000
	MaxEdges = 10000

	// orderingPasses is the number of alternating barycenter sweeps.
	orderingPasses = 12
)

// Algorithm is the layered layout.
type Algorithm struct{}

// New returns the hierarchical layout algorithm.
func New() *Algorithm { return &Algorithm{} }

func init() { layout.Register(New()) }

func (a *Algorithm) Name() string { return "hierarchical" }

func (a *Algorithm) Capabilities() layout.Capabilities {
	return layout.Capabilities{
		Deterministic: true,
		MaxNodes:      MaxNodes,
		MaxEdges:      MaxEdges,
	}
}

func (a *Algorithm) CanHandle(g *graph.Graph) bool {
	return g != nil && a.Capabilities().Fits(g)
}

func (a *Algorithm) Apply(g *graph.Graph, cfg layout.Config) (layout.Positions, error) {
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "hierarchical layout")
	}
	if g == nil || g.NodeCount() == 0 {
		return layout.Positions{}, nil
	}

	levels, cycles := analyze.Levels(g, analyze.Options{})
	rows := buildRows(g, levels, cycles)
	orderRows(g, rows)

	spacing := cfg.LinkDistance
	pos := make(layout.Positions, g.NodeCount())
	for level, row := range rows {
		for slot, id := range row {
			pos[id] = layout.Point{
				X: (float64(slot) - float64(len(row)-1)/2) * spacing,
				Y: float64(level) * spacing,
			}
		}
	}
	return pos, nil
}

// buildRows groups nodes by level in insertion order. Cycle-bound
// nodes form one extra row below the leveled ones.
func buildRows(g *graph.Graph, levels map[string]int, cycles []string) map[int][]string {
	rows := map[int][]string{}
	maxLevel := -1
	for _, n := range g.Nodes() {
		lvl, ok := levels[n.ID]
		if !ok {
			continue
		}
		rows[lvl] = append(rows[lvl], n.ID)
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}
	if len(cycles) > 0 {
		rows[maxLevel+1] = append([]string{}, cycles...)
	}
	return rows
}

// orderRows runs alternating top-down and bottom-up barycenter sweeps,
// sorting every row by the mean slot of its neighbors in adjacent
// rows, then one transpose pass that keeps adjacent swaps which lower
// the crossing count.
func orderRows(g *graph.Graph, rows map[int][]string) {
	maxLevel := 0
	for lvl := range rows {
		if lvl > maxLevel {
			maxLevel = lvl
		}
	}

	slot := map[string]float64{}
	reindex := func(row []string) {
		for i, id := range row {
			slot[id] = float64(i)
		}
	}
	for _, row := range rows {
		reindex(row)
	}

	sortRow := func(row []string, neighbors func(string) []string) {
		keys := make(map[string]float64, len(row))
		for _, id := range row {
			ns := neighbors(id)
			if len(ns) == 0 {
				keys[id] = slot[id]
				continue
			}
			var sum float64
			for _, n := range ns {
				sum += slot[n]
			}
			keys[id] = sum / float64(len(ns))
		}
		sort.SliceStable(row, func(i, j int) bool { return keys[row[i]] < keys[row[j]] })
		reindex(row)
	}

	for pass := 0; pass < orderingPasses; pass++ {
		if pass%2 == 0 {
			for lvl := 1; lvl <= maxLevel; lvl++ {
				sortRow(rows[lvl], g.Parents)
			}
		} else {
			for lvl := maxLevel - 1; lvl >= 0; lvl-- {
				sortRow(rows[lvl], g.Children)
			}
		}
	}

	for lvl := 0; lvl < maxLevel; lvl++ {
		transpose(g, rows[lvl], rows[lvl+1])
	}
}

// transpose swaps adjacent nodes in the lower row whenever the swap
// strictly reduces crossings against the upper row.
func transpose(g *graph.Graph, upper, lower []string) {
	if len(upper) == 0 || len(lower) < 2 {
		return
	}
	best := analyze.CountLayerCrossings(g, upper, lower)
	for i := 0; i < len(lower)-1; i++ {
		lower[i], lower[i+1] = lower[i+1], lower[i]
		if c := analyze.CountLayerCrossings(g, upper, lower); c < best {
			best = c
		} else {
			lower[i], lower[i+1] = lower[i+1], lower[i]
		}
	}
}
