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
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

// CallGraph is the inter-component DAG of spec.md §4.D pass 1: an edge
// A->B iff A statically calls B.
type CallGraph struct {
	edges map[symtab.ID]map[symtab.ID]bool
}

// BuildCallGraph scans every component body for NodeCall expressions.
func BuildCallGraph(p *ir0.Program) *CallGraph {
	cg := &CallGraph{edges: map[symtab.ID]map[symtab.ID]bool{}}
	for _, c := range p.Components {
		cg.edges[c.ID] = map[symtab.ID]bool{}
		for _, s := range c.Statements {
			collectCalls(s.Expr, func(callee symtab.ID) { cg.edges[c.ID][callee] = true })
		}
	}
	return cg
}

func collectCalls(x ir0.Expr, emit func(symtab.ID)) {
	switch v := x.(type) {
	case *ir0.NodeCall:
		emit(v.Component)
		for _, a := range v.Args {
			collectCalls(a, emit)
		}
		if v.EventArg != nil {
			collectCalls(v.EventArg, emit)
		}
	case *ir0.Call:
		for _, a := range v.Args {
			collectCalls(a, emit)
		}
	case *ir0.Fby:
		collectCalls(v.Init, emit)
	case *ir0.Sample:
		collectCalls(v.Src, emit)
	case *ir0.Scan:
		collectCalls(v.Src, emit)
	case *ir0.Throttle:
		collectCalls(v.Src, emit)
		collectCalls(v.Delta, emit)
	case *ir0.Timeout:
		collectCalls(v.Src, emit)
	case *ir0.OnChange:
		collectCalls(v.Src, emit)
	case *ir0.Merge:
		collectCalls(v.Left, emit)
		collectCalls(v.Right, emit)
	case *ir0.RisingEdge:
		collectCalls(v.Src, emit)
	case *ir0.TupleExpr:
		for _, el := range v.Elems {
			collectCalls(el, emit)
		}
	case *ir0.ArrayExpr:
		for _, el := range v.Elems {
			collectCalls(el, emit)
		}
	case *ir0.Zip:
		for _, a := range v.Arrays {
			collectCalls(a, emit)
		}
	case *ir0.FieldAccess:
		collectCalls(v.Base, emit)
	case *ir0.Index:
		collectCalls(v.Base, emit)
		collectCalls(v.Idx, emit)
	case *ir0.StructLit:
		for _, fe := range v.Fields {
			collectCalls(fe, emit)
		}
	case *ir0.EnumLit:
		if v.Value != nil {
			collectCalls(v.Value, emit)
		}
	case *ir0.Match:
		collectCalls(v.Scrutinee, emit)
		for _, arm := range v.Arms {
			if arm.Guard != nil {
				collectCalls(arm.Guard, emit)
			}
			collectCalls(arm.Body, emit)
		}
	case *ir0.Lambda:
		collectCalls(v.Body, emit)
	}
}

// TopoSort orders component ids so that every callee precedes its
// callers, failing with NotCausalComponent if the call graph is cyclic
// (spec.md §4.D pass 1).
func (cg *CallGraph) TopoSort(t *symtab.Table, sink *diag.Sink) []symtab.ID {
	ids := maps.Keys(cg.edges)
	slices.Sort(ids)

	colors := map[symtab.ID]color{}
	var order []symtab.ID
	var cyclic bool

	var dfs func(id symtab.ID)
	dfs = func(id symtab.ID) {
		colors[id] = gray
		tos := maps.Keys(cg.edges[id])
		slices.Sort(tos)
		for _, to := range tos {
			if cyclic {
				return
			}
			switch colors[to] {
			case gray:
				sink.Errorf(diag.NotCausalComponent, diag.Loc{}, "component %q participates in a call cycle", t.NameOf(to))
				cyclic = true
				return
			case white:
				dfs(to)
			}
		}
		colors[id] = black
		order = append(order, id)
	}

	for _, id := range ids {
		if cyclic {
			break
		}
		if colors[id] == white {
			dfs(id)
		}
	}
	return order
}
