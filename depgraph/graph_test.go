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
	"testing"

	"github.com/langrust/grust-sub007/symtab"
)

func TestAddEdgeJoinsRepeatedContributions(t *testing.T) {
	g := NewGraph()
	var a, b symtab.ID = 1, 2
	g.AddEdge(a, b, Weight(3))
	g.AddEdge(a, b, Weight(0))
	if got := g.Edges[a][b]; got != Weight(0) {
		t.Fatalf("AddEdge should Join to the more direct label, got %v", got)
	}
}

func TestEnsureNodeRegistersIsolatedIds(t *testing.T) {
	g := NewGraph()
	var id symtab.ID = 7
	g.EnsureNode(id)
	if _, ok := g.Edges[id]; !ok {
		t.Fatal("EnsureNode should register id even with no outgoing edges")
	}
	g.EnsureNode(id)
	if len(g.Edges) != 1 {
		t.Fatal("EnsureNode should be idempotent")
	}
}
