// Copyright (C) 2026 GR Compiler Contributors.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package depgraph

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/symtab"
)

type color int

const (
	white color = iota
	gray
	black
)

// CheckCausality performs tri-color DFS on g restricted to the Weight(0)
// subgraph (spec.md §4.D step 3): a gray->gray back-edge is reported as
// NotCausalSignal at the offending target's location. Iteration order
// over ids is sorted for determinism.
func CheckCausality(t *symtab.Table, g *Graph, sink *diag.Sink) {
	colors := make(map[symtab.ID]color, len(g.Edges))
	ids := sortedIDs(g.Edges)

	var dfs func(id symtab.ID) bool
	dfs = func(id symtab.ID) bool {
		colors[id] = gray
		tos := sortedTargets(g.Edges[id])
		for _, to := range tos {
			label := g.Edges[id][to]
			if label.IsTop() || label.N() != 0 {
				continue
			}
			switch colors[to] {
			case gray:
				sym := t.Symbol(to)
				sink.Errorf(diag.NotCausalSignal, diag.Loc(sym.Loc), "signal %q is not causal", sym.Name)
				return false
			case white:
				if !dfs(to) {
					return false
				}
			}
		}
		colors[id] = black
		return true
	}

	for _, id := range ids {
		if colors[id] == white {
			if !dfs(id) {
				// spec.md §4.D: "the first causality error per component
				// is surfaced; subsequent components are still analyzed."
				// Within one component we likewise stop at the first cycle
				// found rather than reporting every node on it.
				return
			}
		}
	}
}

func sortedIDs(m map[symtab.ID]map[symtab.ID]Label) []symtab.ID {
	ids := maps.Keys(m)
	slices.Sort(ids)
	return ids
}

func sortedTargets(m map[symtab.ID]Label) []symtab.ID {
	ids := maps.Keys(m)
	slices.Sort(ids)
	return ids
}
