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

package types

import (
	"testing"

	"github.com/langrust/grust-sub007/ast"
	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

func newChecker() (*symtab.Table, *diag.Sink, *Checker) {
	t := symtab.New()
	InstallSchemes(t)
	sink := diag.NewSink()
	return t, sink, NewChecker(t, sink)
}

// freshSignal inserts a bare input signal symbol with no type yet set, the
// shape produced by ir0.Lowerer for every component/function parameter.
func freshSignal(t *symtab.Table, name string) symtab.ID {
	id, err := t.Insert(symtab.KindSignal, name, &symtab.Symbol{
		Signal: &symtab.SignalInfo{Scope: symtab.Input},
	})
	if err != nil {
		panic(err)
	}
	return id
}

func TestSampleConvertsEventToSignal(t *testing.T) {
	tbl, sink, c := newChecker()
	src := freshSignal(tbl, "e")
	if err := tbl.SetType(src, Event{Elem: Int}); err != nil {
		t.Fatal(err)
	}
	expr := ir0.NewSampleAt(ir0.Loc{}, ir0.NewIdentAt(ir0.Loc{}, src), 100)
	got := c.checkExpr(expr)
	if sink.Failed() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errs())
	}
	if want := (Signal{Elem: Int}); !Equal(got, want) {
		t.Fatalf("sample(event<int>) = %s, want %s", got.TypString(), want.TypString())
	}
}

func TestSampleRejectsSignalSource(t *testing.T) {
	tbl, sink, c := newChecker()
	src := freshSignal(tbl, "s")
	if err := tbl.SetType(src, Signal{Elem: Int}); err != nil {
		t.Fatal(err)
	}
	expr := ir0.NewSampleAt(ir0.Loc{}, ir0.NewIdentAt(ir0.Loc{}, src), 100)
	c.checkExpr(expr)
	if !sink.Failed() {
		t.Fatal("expected a diagnostic for sampling a non-event source")
	}
	if got := sink.Errs()[0].Kind; got != diag.ExpectEvent {
		t.Fatalf("got diagnostic kind %s, want ExpectEvent", got)
	}
}

func TestScanConvertsSignalToEvent(t *testing.T) {
	tbl, sink, c := newChecker()
	src := freshSignal(tbl, "s")
	if err := tbl.SetType(src, Signal{Elem: Bool}); err != nil {
		t.Fatal(err)
	}
	expr := ir0.NewScanAt(ir0.Loc{}, ir0.NewIdentAt(ir0.Loc{}, src), 50)
	got := c.checkExpr(expr)
	if sink.Failed() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errs())
	}
	if want := (Event{Elem: Bool}); !Equal(got, want) {
		t.Fatalf("scan(signal<bool>) = %s, want %s", got.TypString(), want.TypString())
	}
}

func TestThrottleRequiresMatchingDeltaType(t *testing.T) {
	tbl, sink, c := newChecker()
	src := freshSignal(tbl, "s")
	if err := tbl.SetType(src, Signal{Elem: Int}); err != nil {
		t.Fatal(err)
	}
	expr := ir0.NewThrottleAt(ir0.Loc{}, ir0.NewIdentAt(ir0.Loc{}, src), ir0.NewBoolLitAt(ir0.Loc{}, true))
	c.checkExpr(expr)
	if !sink.Failed() {
		t.Fatal("expected a type mismatch between the signal element and the delta")
	}
	if got := sink.Errs()[0].Kind; got != diag.TypeMismatch {
		t.Fatalf("got diagnostic kind %s, want TypeMismatch", got)
	}
}

func TestMergeRequiresTwoEventsOfTheSameType(t *testing.T) {
	tbl, sink, c := newChecker()
	a := freshSignal(tbl, "a")
	b := freshSignal(tbl, "b")
	if err := tbl.SetType(a, Event{Elem: Int}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.SetType(b, Event{Elem: Float}); err != nil {
		t.Fatal(err)
	}
	expr := ir0.NewMergeAt(ir0.Loc{}, ir0.NewIdentAt(ir0.Loc{}, a), ir0.NewIdentAt(ir0.Loc{}, b))
	c.checkExpr(expr)
	if !sink.Failed() {
		t.Fatal("expected a type mismatch between differently-typed merge operands")
	}
	if got := sink.Errs()[0].Kind; got != diag.TypeMismatch {
		t.Fatalf("got diagnostic kind %s, want TypeMismatch", got)
	}
}

func TestTimeoutAlwaysProducesUnitEvent(t *testing.T) {
	tbl, sink, c := newChecker()
	src := freshSignal(tbl, "e")
	if err := tbl.SetType(src, Event{Elem: Int}); err != nil {
		t.Fatal(err)
	}
	expr := ir0.NewTimeoutAt(ir0.Loc{}, ir0.NewIdentAt(ir0.Loc{}, src), 2000)
	got := c.checkExpr(expr)
	if sink.Failed() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errs())
	}
	if want := (Event{Elem: Unit}); !Equal(got, want) {
		t.Fatalf("timeout(event<int>) = %s, want %s", got.TypString(), want.TypString())
	}
}

// TestFbyRejectsVeryLocalTarget covers spec.md §3/§8 invariant 2: a
// VeryLocal signal (one only bound inside a match arm) has no slot to
// persist across steps, so it can never be the delayed id of an fby.
func TestFbyRejectsVeryLocalTarget(t *testing.T) {
	tbl, sink, c := newChecker()
	id, err := tbl.Insert(symtab.KindSignal, "m", &symtab.Symbol{
		Signal: &symtab.SignalInfo{Scope: symtab.VeryLocal},
	})
	if err != nil {
		t.Fatal(err)
	}
	expr := ir0.NewFbyAt(ir0.Loc{}, id, ir0.NewIntLitAt(ir0.Loc{}, 0))
	c.checkExpr(expr)
	if !sink.Failed() {
		t.Fatal("expected a diagnostic for an fby target bound VeryLocal")
	}
	if got := sink.Errs()[0].Kind; got != diag.FbyOnVeryLocal {
		t.Fatalf("got diagnostic kind %s, want FbyOnVeryLocal", got)
	}
}

func TestResolveTypeExprPrimitivesAndWrappers(t *testing.T) {
	_, sink, c := newChecker()
	cases := []struct {
		name string
		te   ast.TypeExpr
		want Typ
	}{
		{"int", ast.NamedType{Name: "int"}, Int},
		{"signal<float>", ast.SignalType{Elem: ast.NamedType{Name: "float"}}, Signal{Elem: Float}},
		{"event<bool>", ast.EventType{Elem: ast.NamedType{Name: "bool"}}, Event{Elem: Bool}},
		{
			"tuple(int,bool)",
			ast.TupleType{Elems: []ast.TypeExpr{ast.NamedType{Name: "int"}, ast.NamedType{Name: "bool"}}},
			Tuple{Elems: []Typ{Int, Bool}},
		},
		{
			"[int; 4]",
			ast.ArrayType{Elem: ast.NamedType{Name: "int"}, Size: 4},
			Array{Elem: Int, Size: 4},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.ResolveTypeExpr(tc.te)
			if !Equal(got, tc.want) {
				t.Fatalf("ResolveTypeExpr(%s) = %s, want %s", tc.name, got.TypString(), tc.want.TypString())
			}
		})
	}
	if sink.Failed() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errs())
	}
}

func TestResolveTypeExprUnknownNameReportsUnknownType(t *testing.T) {
	_, sink, c := newChecker()
	got := c.ResolveTypeExpr(ast.NamedType{Name: "no_such_type"})
	if got != AnyType {
		t.Fatalf("got %s, want AnyType fallback", got.TypString())
	}
	if !sink.Failed() || sink.Errs()[0].Kind != diag.UnknownType {
		t.Fatal("expected an UnknownType diagnostic")
	}
}

func TestResolveTypeExprFindsDeclaredStructure(t *testing.T) {
	tbl, sink, c := newChecker()
	id, err := tbl.Insert(symtab.KindStructure, "Point", &symtab.Symbol{Structure: &symtab.StructureInfo{}})
	if err != nil {
		t.Fatal(err)
	}
	got := c.ResolveTypeExpr(ast.NamedType{Name: "Point"})
	if sink.Failed() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errs())
	}
	st, ok := got.(Structure)
	if !ok || st.ID != id {
		t.Fatalf("ResolveTypeExpr(Point) = %#v, want Structure{ID: %d}", got, id)
	}
}

// TestCheckProgramResolvesDeclaredParameterTypes exercises the annotation
// pre-pass end to end: a component input that no equation ever assigns a
// type to must still resolve from its declared ast.TypeExpr before the
// component body is checked, rather than reporting UntypedReference.
func TestCheckProgramResolvesDeclaredParameterTypes(t *testing.T) {
	tbl := symtab.New()
	InstallSchemes(tbl)
	sink := diag.NewSink()

	inID, err := tbl.Insert(symtab.KindSignal, "in", &symtab.Symbol{
		Signal: &symtab.SignalInfo{Scope: symtab.Input},
	})
	if err != nil {
		t.Fatal(err)
	}
	outID, err := tbl.Insert(symtab.KindSignal, "out", &symtab.Symbol{
		Signal: &symtab.SignalInfo{Scope: symtab.Output},
	})
	if err != nil {
		t.Fatal(err)
	}
	compID, err := tbl.Insert(symtab.KindComponent, "Identity", &symtab.Symbol{
		Component: &symtab.ComponentInfo{
			Inputs:  []symtab.ID{inID},
			Outputs: []symtab.NamedID{{Name: "out", ID: outID}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	prog := &ir0.Program{
		Components: []ir0.Component{{
			ID: compID,
			Statements: []ir0.Statement{{
				Pattern: ir0.NewPatIdentAt(ir0.Loc{}, outID),
				Expr:    ir0.NewIdentAt(ir0.Loc{}, inID),
			}},
		}},
		TypeAnnotations: []ir0.TypeAnnotation{
			{ID: inID, Typ: ast.SignalType{Elem: ast.NamedType{Name: "int"}}},
		},
	}

	c := NewChecker(tbl, sink)
	c.CheckProgram(prog)
	if sink.Failed() {
		t.Fatalf("unexpected diagnostics: %v", sink.Errs())
	}
	out := tbl.TypeOf(outID)
	if out == nil {
		t.Fatal("output signal was never typed")
	}
	if want := (Signal{Elem: Int}); !Equal(out.(Typ), want) {
		t.Fatalf("out : %s, want %s", out.TypString(), want.TypString())
	}
}
