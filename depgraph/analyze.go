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
	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

// AnalyzeComponent builds the labeled dependency graph of comp (spec.md
// §4.D step 2) and checks its causality (step 3), reporting into sink.
// reduced carries the already-computed Reduced graphs of every component
// comp may call, keyed by component id — the caller is expected to walk
// components in the CallGraph's topological order so every callee's
// Reduced graph is available by the time its caller is analyzed.
func AnalyzeComponent(t *symtab.Table, comp *ir0.Component, reduced map[symtab.ID]*Reduced, sink *diag.Sink) *Graph {
	g := NewGraph()
	for _, in := range t.NodeInputsOf(comp.ID) {
		g.EnsureNode(in)
	}

	for _, stmt := range comp.Statements {
		patIDs := stmt.Pattern.Ids()
		if call, ok := stmt.Expr.(*ir0.NodeCall); ok {
			addNodeCallEdges(t, g, patIDs, call, reduced)
			continue
		}
		deps := exprDeps(stmt.Expr)
		for _, pid := range patIDs {
			for depID, label := range deps {
				g.AddEdge(pid, depID, label)
			}
		}
	}

	// Contract supplement (SPEC_FULL.md §4.B): every signal referenced in
	// an `ensures` clause is folded into the graph as depending, at
	// Weight(0), on every signal referenced in the component's `requires`
	// clauses, so causality analysis treats a postcondition as only
	// decidable once its preconditions are.
	var reqDeps map[symtab.ID]Label
	for _, req := range comp.Contract.Requires {
		if reqDeps == nil {
			reqDeps = map[symtab.ID]Label{}
		}
		for id, l := range exprDeps(req) {
			if ex, ok := reqDeps[id]; ok {
				reqDeps[id] = ex.Join(l)
			} else {
				reqDeps[id] = l
			}
		}
	}
	for _, ens := range comp.Contract.Ensures {
		for eid := range exprDeps(ens) {
			for rid := range reqDeps {
				g.AddEdge(eid, rid, Weight(0))
			}
		}
	}

	CheckCausality(t, g, sink)
	return g
}

func addNodeCallEdges(t *symtab.Table, g *Graph, patIDs []symtab.ID, call *ir0.NodeCall, reduced map[symtab.ID]*Reduced) {
	outputs := t.NodeOutputsOf(call.Component)
	inputs := t.NodeInputsOf(call.Component)
	red := reduced[call.Component]

	for oi, out := range outputs {
		if oi >= len(patIDs) {
			break
		}
		patID := patIDs[oi]
		for ai, arg := range call.Args {
			if ai >= len(inputs) {
				continue
			}
			inputID := inputs[ai]
			var callLabel Label
			if red != nil {
				m, ok := red.Edges[out.ID]
				if !ok {
					continue
				}
				l, ok := m[inputID]
				if !ok {
					continue
				}
				callLabel = l
			} else {
				// comp hasn't been reduced yet (shouldn't happen when
				// callers are walked in CallGraph toposort order); fall
				// back to treating the call boundary itself as free.
				callLabel = Weight(0)
			}
			for depID, l := range exprDeps(arg) {
				g.AddEdge(patID, depID, callLabel.Add(l))
			}
		}
		if call.EventArg != nil {
			for depID, l := range exprDeps(call.EventArg) {
				g.AddEdge(patID, depID, l)
			}
		}
	}
}

// exprDeps computes the flat (id -> label) contribution of an
// expression per spec.md §4.D's edge rules. It does not special-case
// NodeCall's per-output reduced-graph composition — that only applies
// when a NodeCall is itself a statement's top-level expression, handled
// by addNodeCallEdges; a NodeCall nested as a subexpression (not
// currently reachable from the grammar, but handled defensively) falls
// back to a flat union of its arguments' deps.
func exprDeps(x ir0.Expr) map[symtab.ID]Label {
	out := map[symtab.ID]Label{}
	merge := func(id symtab.ID, l Label) {
		if cur, ok := out[id]; ok {
			out[id] = cur.Join(l)
		} else {
			out[id] = l
		}
	}
	mergeAll := func(m map[symtab.ID]Label) {
		for id, l := range m {
			merge(id, l)
		}
	}

	switch v := x.(type) {
	case *ir0.IntLit, *ir0.FloatLit, *ir0.BoolLit, *ir0.UnitLit:
		// constants contribute nothing.
	case *ir0.Ident:
		merge(v.ID, Weight(0))
	case *ir0.Call:
		for _, a := range v.Args {
			mergeAll(exprDeps(a))
		}
	case *ir0.NodeCall:
		for _, a := range v.Args {
			mergeAll(exprDeps(a))
		}
		if v.EventArg != nil {
			mergeAll(exprDeps(v.EventArg))
		}
	case *ir0.Fby:
		merge(v.ID, Weight(1))
		mergeAll(exprDeps(v.Init))
	case *ir0.Sample:
		mergeAll(exprDeps(v.Src))
	case *ir0.Scan:
		mergeAll(exprDeps(v.Src))
	case *ir0.Throttle:
		mergeAll(exprDeps(v.Src))
		mergeAll(exprDeps(v.Delta))
	case *ir0.Timeout:
		mergeAll(exprDeps(v.Src))
	case *ir0.OnChange:
		mergeAll(exprDeps(v.Src))
	case *ir0.Merge:
		mergeAll(exprDeps(v.Left))
		mergeAll(exprDeps(v.Right))
	case *ir0.RisingEdge:
		inner := exprDeps(v.Src)
		mergeAll(inner)
		for id, l := range inner {
			merge(id, l.Inc())
		}
	case *ir0.TupleExpr:
		for _, el := range v.Elems {
			mergeAll(exprDeps(el))
		}
	case *ir0.ArrayExpr:
		for _, el := range v.Elems {
			mergeAll(exprDeps(el))
		}
	case *ir0.Zip:
		for _, a := range v.Arrays {
			mergeAll(exprDeps(a))
		}
	case *ir0.FieldAccess:
		mergeAll(exprDeps(v.Base))
	case *ir0.Index:
		mergeAll(exprDeps(v.Base))
		mergeAll(exprDeps(v.Idx))
	case *ir0.StructLit:
		for _, fe := range v.Fields {
			mergeAll(exprDeps(fe))
		}
	case *ir0.EnumLit:
		if v.Value != nil {
			mergeAll(exprDeps(v.Value))
		}
	case *ir0.Match:
		mergeAll(exprDeps(v.Scrutinee))
		for _, arm := range v.Arms {
			if arm.Guard != nil {
				mergeAll(exprDeps(arm.Guard))
			}
			mergeAll(exprDeps(arm.Body))
		}
	case *ir0.Lambda:
		for _, id := range v.Captured {
			merge(id, Weight(0))
		}
	}
	return out
}
