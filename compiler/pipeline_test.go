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

package compiler

import (
	"context"
	"strings"
	"testing"

	"github.com/langrust/grust-sub007/ast"
)

// nComponent builds `node n(x: int) { out y: int = <fby or plain> z; z: int = y + x; }`
// so both S1 and S2 can share the same scaffolding and differ only in y's equation.
func nComponent(yExpr ast.Expr) *ast.Program {
	intT := ast.NamedType{Name: "int"}
	return &ast.Program{
		Components: []ast.Component{
			{
				Name:    "n",
				Inputs:  []ast.Param{{Name: "x", Typ: intT}},
				Outputs: []ast.Param{{Name: "y", Typ: intT}},
				Statements: []ast.Statement{
					{Pattern: ast.PatIdent{Name: "y"}, Expr: yExpr},
					{
						Pattern: ast.PatIdent{Name: "z"},
						Expr: ast.Call{Name: "+", Args: []ast.Expr{
							ast.Ident{Name: "y"},
							ast.Ident{Name: "x"},
						}},
					},
				},
			},
		},
	}
}

// TestCompileBreaksFbyCycle exercises scenario S1 (spec.md §8):
// `node n(x: int) { out y: int = 0 fby z; z: int = y + x; }` must compile
// cleanly end to end, with z's fby target y surfacing as persistent memory
// on the component's step function.
func TestCompileBreaksFbyCycle(t *testing.T) {
	prog := nComponent(ast.Fby{ID: "z", Init: ast.IntLit{Val: 0}})

	p := New()
	proj, err := p.Compile(context.Background(), prog)
	if err != nil {
		t.Fatalf("Compile returned an error for a legal fby cycle-break: %v\n%v", err, p.Sink.Errs())
	}
	if len(proj.Components) != 1 {
		t.Fatalf("Components = %v, want exactly one (n)", proj.Components)
	}
	model := proj.Components[0]
	if model.Name != "n" {
		t.Fatalf("Name = %q, want %q", model.Name, "n")
	}
	if len(model.State.Memory) != 1 || model.State.Memory[0].Name != "y" {
		t.Fatalf("State.Memory = %v, want the fby target [y]", model.State.Memory)
	}
	if len(model.State.Step) != 1 || model.State.Step[0].Output != "y" {
		t.Fatalf("State.Step = %v, want one unitary program for output y", model.State.Step)
	}
}

// TestCompileRejectsDirectCycle exercises scenario S2: without the fby's
// Weight(1) edge to break the cycle, `y = z; z = y + x;` is a genuine
// zero-delay cycle and must fail with NotCausalSignal, not a panic or a
// silently wrong codemodel.Project.
func TestCompileRejectsDirectCycle(t *testing.T) {
	prog := nComponent(ast.Ident{Name: "z"})

	p := New()
	proj, err := p.Compile(context.Background(), prog)
	if err == nil {
		t.Fatalf("Compile succeeded on a zero-delay cycle, want NotCausalSignal; got %+v", proj)
	}
	if !strings.Contains(err.Error(), "y") {
		t.Fatalf("error %q should name the culprit signal y", err.Error())
	}
}

// TestCompileCancelsBetweenPasses confirms Compile honors ctx cancellation
// checked between passes (not mid-pass), per the pipeline's own contract.
func TestCompileCancelsBetweenPasses(t *testing.T) {
	prog := nComponent(ast.Fby{ID: "z", Init: ast.IntLit{Val: 0}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New()
	_, err := p.Compile(ctx, prog)
	if err == nil {
		t.Fatal("Compile with an already-canceled context should return an error")
	}
}
