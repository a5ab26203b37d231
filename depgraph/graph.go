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

// Graph is a labeled adjacency map over symbol ids: Edges[from][to] is
// the most direct (Join-combined) label of every contribution the
// analyzer found from `from` to `to` within one component.
type Graph struct {
	Edges map[symtab.ID]map[symtab.ID]Label
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{Edges: map[symtab.ID]map[symtab.ID]Label{}}
}

// AddEdge records a contribution from -> to, combining with any
// previously recorded label for the same pair via Join.
func (g *Graph) AddEdge(from, to symtab.ID, label Label) {
	m, ok := g.Edges[from]
	if !ok {
		m = map[symtab.ID]Label{}
		g.Edges[from] = m
	}
	if existing, ok := m[to]; ok {
		m[to] = existing.Join(label)
	} else {
		m[to] = label
	}
}

// EnsureNode registers id with no outgoing edges if it isn't already
// present, so isolated ids still appear in traversals.
func (g *Graph) EnsureNode(id symtab.ID) {
	if _, ok := g.Edges[id]; !ok {
		g.Edges[id] = map[symtab.ID]Label{}
	}
}
