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

// Package compiler drives the seven lowering/analysis/synthesis passes
// (spec.md §4.A-G) over a parsed program, owning the shared symbol table
// and diagnostic sink.
package compiler

import (
	"context"

	"github.com/langrust/grust-sub007/ast"
	"github.com/langrust/grust-sub007/codemodel"
	"github.com/langrust/grust-sub007/depgraph"
	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/schedule"
	"github.com/langrust/grust-sub007/service"
	"github.com/langrust/grust-sub007/symtab"
	"github.com/langrust/grust-sub007/types"
)

// Pipeline owns the state threaded through one compile: the symbol table
// built up across every pass and the diagnostic sink every pass reports
// into.
type Pipeline struct {
	Table *symtab.Table
	Sink  *diag.Sink
}

// New creates a Pipeline with a fresh symbol table (built-in operators
// installed, their schemes attached) and a fresh diagnostic sink tagged
// with a new build id.
func New() *Pipeline {
	t := symtab.New()
	types.InstallSchemes(t)
	return &Pipeline{Table: t, Sink: diag.NewSink()}
}

// Compile runs stages B through G over an already-parsed program,
// returning the packaged codemodel.Project. It checks ctx for
// cancellation between passes, never mid-pass, so an embedding caller
// (e.g. a build daemon) can cancel a compile that hasn't started a pass
// yet without tearing down one in progress.
func (p *Pipeline) Compile(ctx context.Context, prog *ast.Program) (*codemodel.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ir0prog, err := p.lower(prog)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.check(ir0prog)
	if p.Sink.Failed() {
		return nil, p.Sink.Combine()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, graphs, order := p.analyze(ir0prog)
	if p.Sink.Failed() {
		return nil, p.Sink.Combine()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	proj := p.synthesize(ir0prog, graphs, order)
	if p.Sink.Failed() {
		return nil, p.Sink.Combine()
	}
	return proj, nil
}

func (p *Pipeline) lower(prog *ast.Program) (*ir0.Program, error) {
	l := ir0.NewLowerer(p.Table)
	out := l.LowerProgram(prog)
	for _, e := range l.Errs() {
		p.Sink.Errorf(diag.Internal, diag.Loc{}, "%s", e)
	}
	if p.Sink.Failed() {
		return nil, p.Sink.Combine()
	}
	return out, nil
}

func (p *Pipeline) check(prog *ir0.Program) {
	c := types.NewChecker(p.Table, p.Sink)
	c.CheckProgram(prog)
}

// analyze runs depgraph stages in the order spec.md §4.D requires: the
// inter-component call graph is toposorted first so that every callee's
// Reduced graph is available before its callers are analyzed.
func (p *Pipeline) analyze(prog *ir0.Program) (map[symtab.ID]*depgraph.Reduced, map[symtab.ID]*depgraph.Graph, []symtab.ID) {
	byID := make(map[symtab.ID]*ir0.Component, len(prog.Components))
	for i := range prog.Components {
		byID[prog.Components[i].ID] = &prog.Components[i]
	}

	cg := depgraph.BuildCallGraph(prog)
	order := cg.TopoSort(p.Table, p.Sink)
	if p.Sink.Failed() {
		return nil, nil, nil
	}

	reduced := make(map[symtab.ID]*depgraph.Reduced, len(order))
	graphs := make(map[symtab.ID]*depgraph.Graph, len(order))
	for _, id := range order {
		comp := byID[id]
		if comp == nil {
			continue
		}
		g := depgraph.AnalyzeComponent(p.Table, comp, reduced, p.Sink)
		graphs[id] = g
		reduced[id] = depgraph.ReduceComponent(p.Table, id, g)
	}
	return reduced, graphs, order
}

func (p *Pipeline) synthesize(prog *ir0.Program, graphs map[symtab.ID]*depgraph.Graph, order []symtab.ID) *codemodel.Project {
	byID := make(map[symtab.ID]*ir0.Component, len(prog.Components))
	for i := range prog.Components {
		byID[prog.Components[i].ID] = &prog.Components[i]
	}

	components := make([]codemodel.ComponentModel, 0, len(order))
	for _, id := range order {
		comp := byID[id]
		if comp == nil {
			continue
		}
		units := schedule.Project(p.Table, comp, graphs[id], p.Sink)
		components = append(components, codemodel.BuildComponent(p.Table, comp, units))
	}

	services := make([]codemodel.Runtime, 0, len(prog.Services))
	for i := range prog.Services {
		svc := &prog.Services[i]
		synth := service.NewSynthesizer(p.Table, p.Sink)
		handlers, fctx, timers := synth.Synthesize(svc)
		services = append(services, codemodel.BuildRuntime(p.Table, svc, handlers, fctx, timers))
	}

	return &codemodel.Project{Components: components, Services: services}
}
