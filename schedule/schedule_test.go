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

package schedule

import (
	"testing"

	"github.com/langrust/grust-sub007/depgraph"
	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

// buildUnusedSignalFixture installs a component with two inputs (x used, y unused),
// one local (mid) and one output (o = x via mid), matching scenario S3 of
// spec.md §8.
func buildUnusedSignalFixture(t *testing.T) (*symtab.Table, *ir0.Component, *depgraph.Graph) {
	t.Helper()
	tbl := symtab.New()
	x, err := tbl.Insert(symtab.KindSignal, "x", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Input}})
	if err != nil {
		t.Fatal(err)
	}
	y, err := tbl.Insert(symtab.KindSignal, "y", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Input}})
	if err != nil {
		t.Fatal(err)
	}
	mid, err := tbl.Insert(symtab.KindSignal, "mid", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Local}})
	if err != nil {
		t.Fatal(err)
	}
	o, err := tbl.Insert(symtab.KindSignal, "o", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Output}})
	if err != nil {
		t.Fatal(err)
	}
	comp, err := tbl.Insert(symtab.KindComponent, "n", &symtab.Symbol{
		Component: &symtab.ComponentInfo{
			Inputs:  []symtab.ID{x, y},
			Outputs: []symtab.NamedID{{Name: "o", ID: o}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	g := depgraph.NewGraph()
	g.AddEdge(o, mid, depgraph.Weight(0))
	g.AddEdge(mid, x, depgraph.Weight(0))
	g.EnsureNode(y)

	ic := &ir0.Component{
		ID: comp,
		Statements: []ir0.Statement{
			{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, o), Expr: ir0.NewIdentAt(ir0.Loc{}, mid)},
			{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, mid), Expr: ir0.NewIdentAt(ir0.Loc{}, x)},
		},
	}
	return tbl, ic, g
}

func TestProjectDropsUnreachableInputAndReportsUnusedSignal(t *testing.T) {
	tbl, comp, g := buildUnusedSignalFixture(t)
	sink := diag.NewSink()

	units := Project(tbl, comp, g, sink)
	if len(units) != 1 {
		t.Fatalf("len(units) = %d, want 1", len(units))
	}
	u := units[0]
	if u.Output.Name != "o" {
		t.Fatalf("Output.Name = %q, want %q", u.Output.Name, "o")
	}
	if len(u.Inputs) != 1 || tbl.NameOf(u.Inputs[0]) != "x" {
		t.Fatalf("Inputs = %v, want just [x]", u.Inputs)
	}
	if len(u.Statements) != 2 {
		t.Fatalf("Statements = %d, want both the o and mid equations", len(u.Statements))
	}

	if !sink.Failed() {
		t.Fatal("expected UnusedSignal diagnostic for y")
	}
	found := false
	for _, e := range sink.Errs() {
		if e.Kind == diag.UnusedSignal {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diag.UnusedSignal diagnostic, got %v", sink.Errs())
	}
}

func TestProjectAssignsStableShortIDs(t *testing.T) {
	tbl, comp, g := buildUnusedSignalFixture(t)
	sink := diag.NewSink()

	u1 := Project(tbl, comp, g, sink)
	u2 := Project(tbl, comp, g, diag.NewSink())
	if u1[0].ShortID != u2[0].ShortID {
		t.Fatalf("ShortID not deterministic: %q vs %q", u1[0].ShortID, u2[0].ShortID)
	}
	if u1[0].ShortID == "" {
		t.Fatal("ShortID should not be empty")
	}
}

// TestTopoSortOrdersWeight0Dependents checks that a statement is always
// ordered after the statements its Weight(0) dependencies are bound by,
// per spec.md §4.E, regardless of declaration order.
func TestTopoSortOrdersWeight0Dependents(t *testing.T) {
	tbl := symtab.New()
	x, err := tbl.Insert(symtab.KindSignal, "x", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Input}})
	if err != nil {
		t.Fatal(err)
	}
	mid, err := tbl.Insert(symtab.KindSignal, "mid", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Local}})
	if err != nil {
		t.Fatal(err)
	}
	o, err := tbl.Insert(symtab.KindSignal, "o", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Output}})
	if err != nil {
		t.Fatal(err)
	}

	g := depgraph.NewGraph()
	g.AddEdge(o, mid, depgraph.Weight(0))
	g.AddEdge(mid, x, depgraph.Weight(0))

	// declared out-of-dependency-order: o's equation comes first in the
	// slice even though it depends on mid's.
	stmts := []ir0.Statement{
		{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, o), Expr: ir0.NewIdentAt(ir0.Loc{}, mid)},
		{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, mid), Expr: ir0.NewIdentAt(ir0.Loc{}, x)},
	}

	sorted := TopoSort(g, stmts)
	if len(sorted) != 2 {
		t.Fatalf("len(sorted) = %d, want 2", len(sorted))
	}
	first := sorted[0].Pattern.Ids()[0]
	second := sorted[1].Pattern.Ids()[0]
	if first != mid || second != o {
		t.Fatalf("TopoSort order = [%v, %v], want [mid, o] (mid has no unresolved Weight(0) dep, o depends on mid)", tbl.NameOf(first), tbl.NameOf(second))
	}
}

// TestTopoSortIgnoresDelayedEdges checks that a Weight(>=1) (fby) edge
// imposes no ordering constraint within a single step (spec.md §4.E).
func TestTopoSortIgnoresDelayedEdges(t *testing.T) {
	tbl := symtab.New()
	y, err := tbl.Insert(symtab.KindSignal, "y", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Output}})
	if err != nil {
		t.Fatal(err)
	}
	z, err := tbl.Insert(symtab.KindSignal, "z", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Local}})
	if err != nil {
		t.Fatal(err)
	}

	// y = 0 fby z; z = y + x  -- y->z is Weight(1) (scenario S1).
	g := depgraph.NewGraph()
	g.AddEdge(y, z, depgraph.Weight(1))

	stmts := []ir0.Statement{
		{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, y), Expr: ir0.NewFbyAt(ir0.Loc{}, z, ir0.NewIntLitAt(ir0.Loc{}, 0))},
		{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, z), Expr: ir0.NewIdentAt(ir0.Loc{}, y)},
	}
	sorted := TopoSort(g, stmts)
	// the Weight(1) edge must not force z before y; original declaration
	// order (y then z) should be preserved since there is no Weight(0) tie.
	if sorted[0].Pattern.Ids()[0] != y || sorted[1].Pattern.Ids()[0] != z {
		t.Fatalf("declaration order should survive when only Weight(>=1) edges connect statements")
	}
}
