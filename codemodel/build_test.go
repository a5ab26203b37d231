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

package codemodel

import (
	"testing"

	"github.com/langrust/grust-sub007/depgraph"
	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/schedule"
	"github.com/langrust/grust-sub007/service"
	"github.com/langrust/grust-sub007/symtab"
	"github.com/langrust/grust-sub007/types"
)

// TestBuildComponentCollectsFbyMemory exercises scenario S1 (spec.md §8):
// `node n(x: int) { out y: int = 0 fby z; z: int = y + x; }` must surface
// z's fby target y as persistent memory with its init expression kept.
func TestBuildComponentCollectsFbyMemory(t *testing.T) {
	tbl := symtab.New()
	x, err := tbl.Insert(symtab.KindSignal, "x", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Input, Typ: types.Int}})
	if err != nil {
		t.Fatal(err)
	}
	y, err := tbl.Insert(symtab.KindSignal, "y", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Output, Typ: types.Int}})
	if err != nil {
		t.Fatal(err)
	}
	z, err := tbl.Insert(symtab.KindSignal, "z", &symtab.Symbol{Signal: &symtab.SignalInfo{Scope: symtab.Local, Typ: types.Int}})
	if err != nil {
		t.Fatal(err)
	}
	comp, err := tbl.Insert(symtab.KindComponent, "n", &symtab.Symbol{
		Component: &symtab.ComponentInfo{
			Inputs:  []symtab.ID{x},
			Outputs: []symtab.NamedID{{Name: "y", ID: y}},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	ic := &ir0.Component{
		ID: comp,
		Statements: []ir0.Statement{
			{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, y), Expr: ir0.NewFbyAt(ir0.Loc{}, z, ir0.NewIntLitAt(ir0.Loc{}, 0))},
			{Pattern: ir0.NewPatIdentAt(ir0.Loc{}, z), Expr: ir0.NewIdentAt(ir0.Loc{}, x)},
		},
	}

	g := depgraph.NewGraph()
	g.AddEdge(y, z, depgraph.Weight(1))
	g.AddEdge(z, x, depgraph.Weight(0))

	units := schedule.Project(tbl, ic, g, diag.NewSink())
	model := BuildComponent(tbl, ic, units)

	if model.Name != "n" {
		t.Fatalf("Name = %q, want %q", model.Name, "n")
	}
	if len(model.Input.Fields) != 1 || model.Input.Fields[0].Name != "x" {
		t.Fatalf("Input.Fields = %v, want just [x]", model.Input.Fields)
	}
	if len(model.State.Memory) != 1 || model.State.Memory[0].Name != "y" {
		t.Fatalf("State.Memory = %v, want the fby target [y]", model.State.Memory)
	}
	if len(model.State.Init) != 1 {
		t.Fatalf("State.Init = %v, want one initializer (0)", model.State.Init)
	}
	if lit, ok := model.State.Init[0].(*ir0.IntLit); !ok || lit.Val != 0 {
		t.Fatalf("State.Init[0] = %v, want the literal 0", model.State.Init[0])
	}
	if len(model.State.Step) != 1 {
		t.Fatalf("State.Step = %v, want one unitary program (output y)", model.State.Step)
	}
	if model.State.Step[0].Output != "y" {
		t.Fatalf("Step[0].Output = %q, want %q", model.State.Step[0].Output, "y")
	}
}

// TestBuildRuntimeRendersTimersAndHandlers exercises the §4.G packaging of
// a synthesized service: one timer variant per TimingEvent, folded into
// the input sum type alongside every imported flow, plus a rendered
// instruction tree per handler.
func TestBuildRuntimeRendersTimersAndHandlers(t *testing.T) {
	tbl := symtab.New()
	evt, err := tbl.Insert(symtab.KindFlow, "evt", &symtab.Symbol{Flow: &symtab.FlowInfo{Kind: symtab.FlowEvent, Typ: types.Int}})
	if err != nil {
		t.Fatal(err)
	}
	sig, err := tbl.Insert(symtab.KindFlow, "sig", &symtab.Symbol{Flow: &symtab.FlowInfo{Kind: symtab.FlowSignal, Typ: types.Int}})
	if err != nil {
		t.Fatal(err)
	}

	svc := &ir0.Service{
		Name: "svc",
		Statements: []ir0.FlowStmt{
			ir0.NewFlowImportAt(ir0.Loc{}, evt, false),
			ir0.NewFlowDeclarationAt(ir0.Loc{}, ir0.NewPatIdentAt(ir0.Loc{}, sig), ir0.NewFlowSampleAt(ir0.Loc{}, ir0.NewFlowIdentAt(ir0.Loc{}, evt), 50)),
			ir0.NewFlowExportAt(ir0.Loc{}, sig, ir0.NewPatIdentAt(ir0.Loc{}, sig)),
		},
	}

	synth := service.NewSynthesizer(tbl, diag.NewSink())
	handlers, ctx, timers := synth.Synthesize(svc)
	rt := BuildRuntime(tbl, svc, handlers, ctx, timers)

	if rt.Name != "svc" {
		t.Fatalf("Name = %q, want %q", rt.Name, "svc")
	}
	if len(rt.Timers) != 1 || rt.Timers[0].GetDuration != 50 || rt.Timers[0].DoReset {
		t.Fatalf("Timers = %+v, want one Period(50) timer with DoReset=false", rt.Timers)
	}

	var sawFlowInput, sawTimerInput bool
	for _, in := range rt.Inputs {
		if in.Name == "evt" && !in.Timer {
			sawFlowInput = true
		}
		if in.Timer {
			sawTimerInput = true
		}
	}
	if !sawFlowInput {
		t.Fatal("Inputs must include the imported flow evt as a non-timer variant")
	}
	if !sawTimerInput {
		t.Fatal("Inputs must include the synthesized timer as a timer variant")
	}

	if len(rt.Outputs) != 1 || rt.Outputs[0].Name != "sig" {
		t.Fatalf("Outputs = %v, want just [sig]", rt.Outputs)
	}
	if len(rt.Handlers) != len(handlers) {
		t.Fatalf("len(Handlers) = %d, want %d (one per synthesized handler)", len(rt.Handlers), len(handlers))
	}
}
