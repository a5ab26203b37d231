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

	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

func insertComponent(t *testing.T, tbl *symtab.Table, name string) symtab.ID {
	t.Helper()
	id, err := tbl.Insert(symtab.KindComponent, name, &symtab.Symbol{Component: &symtab.ComponentInfo{}})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestBuildCallGraphAndTopoSortOrdersCalleesBeforeCallers(t *testing.T) {
	tbl := symtab.New()
	leaf := insertComponent(t, tbl, "Leaf")
	mid := insertComponent(t, tbl, "Mid")
	top := insertComponent(t, tbl, "Top")

	prog := &ir0.Program{
		Components: []ir0.Component{
			{ID: top, Statements: []ir0.Statement{{
				Expr: ir0.NewNodeCallAt(ir0.Loc{}, mid, nil, nil),
			}}},
			{ID: mid, Statements: []ir0.Statement{{
				Expr: ir0.NewNodeCallAt(ir0.Loc{}, leaf, nil, nil),
			}}},
			{ID: leaf, Statements: nil},
		},
	}

	cg := BuildCallGraph(prog)
	sink := diag.NewSink()
	order := cg.TopoSort(tbl, sink)
	if sink.Failed() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errs())
	}
	pos := map[symtab.ID]int{}
	for i, id := range order {
		pos[id] = i
	}
	if pos[leaf] > pos[mid] || pos[mid] > pos[top] {
		t.Fatalf("expected order Leaf, Mid, Top; got %v", order)
	}
}

func TestTopoSortReportsACallCycle(t *testing.T) {
	tbl := symtab.New()
	a := insertComponent(t, tbl, "A")
	b := insertComponent(t, tbl, "B")

	prog := &ir0.Program{
		Components: []ir0.Component{
			{ID: a, Statements: []ir0.Statement{{Expr: ir0.NewNodeCallAt(ir0.Loc{}, b, nil, nil)}}},
			{ID: b, Statements: []ir0.Statement{{Expr: ir0.NewNodeCallAt(ir0.Loc{}, a, nil, nil)}}},
		},
	}

	cg := BuildCallGraph(prog)
	sink := diag.NewSink()
	cg.TopoSort(tbl, sink)
	if !sink.Failed() {
		t.Fatal("expected a NotCausalComponent diagnostic for a call cycle")
	}
	if got := sink.Errs()[0].Kind; got != diag.NotCausalComponent {
		t.Fatalf("got diagnostic kind %s, want NotCausalComponent", got)
	}
}
