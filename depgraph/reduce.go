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

import "github.com/langrust/grust-sub007/symtab"

// Reduced is a component's dependency graph restricted to its boundary:
// for each output, the label of its most direct path to each input
// (spec.md §4.D step 4 / §8 invariant 6).
type Reduced struct {
	ComponentID symtab.ID
	Edges       map[symtab.ID]map[symtab.ID]Label
}

// ReduceComponent computes comp's Reduced graph from its already
// causality-checked Graph.
func ReduceComponent(t *symtab.Table, compID symtab.ID, g *Graph) *Reduced {
	outputs := t.NodeOutputsOf(compID)
	inputs := t.NodeInputsOf(compID)
	inputSet := make(map[symtab.ID]bool, len(inputs))
	for _, in := range inputs {
		inputSet[in] = true
	}

	r := &Reduced{ComponentID: compID, Edges: map[symtab.ID]map[symtab.ID]Label{}}
	for _, out := range outputs {
		dist := reachLabels(g, out.ID)
		m := map[symtab.ID]Label{}
		for id, l := range dist {
			if id != out.ID && inputSet[id] {
				m[id] = l
			}
		}
		r.Edges[out.ID] = m
	}
	return r
}

// reachLabels computes, for every id reachable from start, the label of
// its most direct (minimum-sum) path — a Bellman-Ford-style relaxation
// over the Add/Join lattice operations. Finite because every edge
// carries a non-negative weight and the graph is finite.
func reachLabels(g *Graph, start symtab.ID) map[symtab.ID]Label {
	dist := map[symtab.ID]Label{start: Weight(0)}
	queue := []symtab.ID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		cur := dist[id]
		for to, lbl := range g.Edges[id] {
			cand := cur.Add(lbl)
			if existing, ok := dist[to]; !ok || cand.Less(existing) {
				dist[to] = cand
				queue = append(queue, to)
			}
		}
	}
	return dist
}
