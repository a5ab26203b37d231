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

// Package schedule implements spec.md §4.E: per-component statement
// ordering by the Weight(0) subgraph, and per-output unitary-component
// projection (the backward-reachable slice of a component that computes
// exactly one of its outputs).
package schedule

import (
	"fmt"

	"github.com/dchest/siphash"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/langrust/grust-sub007/depgraph"
	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

// siphash key pair for deterministic unitary-component naming. Fixed
// rather than random: the same program must always synthesize the same
// short ids across compiler invocations (cache keys, generated file
// names).
const (
	sipK0 = 0x6772757374636f6d
	sipK1 = 0x756e69746172793f
)

// TopoSort orders statements so that, within one execution step, every
// statement that one of its Weight(0) dependencies feeds runs first.
// Statements tied only by Weight(>=1) edges keep their original relative
// order (spec.md §4.E: "no ordering constraint in the current step").
func TopoSort(g *depgraph.Graph, stmts []ir0.Statement) []ir0.Statement {
	// index statements by every id each one's pattern binds, since a
	// pattern may introduce several ids and the graph's Weight(0) edges
	// are defined over ids, not statement indices.
	owner := map[symtab.ID]int{}
	for i, s := range stmts {
		for _, id := range s.Pattern.Ids() {
			owner[id] = i
		}
	}

	n := len(stmts)
	colors := make([]int, n) // 0 white, 1 gray, 2 black
	var order []int

	var dfs func(i int)
	dfs = func(i int) {
		colors[i] = 1
		ids := stmts[i].Pattern.Ids()
		// collect the statements this one's bound ids weight-0-depend on.
		deps := map[int]bool{}
		for _, id := range ids {
			for to, label := range g.Edges[id] {
				if label.IsTop() || label.N() != 0 {
					continue
				}
				if j, ok := owner[to]; ok && j != i {
					deps[j] = true
				}
			}
		}
		js := maps.Keys(deps)
		slices.Sort(js)
		for _, j := range js {
			if colors[j] == 0 {
				dfs(j)
			}
		}
		colors[i] = 2
		order = append(order, i)
	}

	for i := 0; i < n; i++ {
		if colors[i] == 0 {
			dfs(i)
		}
	}

	out := make([]ir0.Statement, len(order))
	for k, i := range order {
		out[k] = stmts[i]
	}
	return out
}

// Unitary is one component's projection onto a single output: the
// backward-reachable slice of statements, with unused inputs dropped.
type Unitary struct {
	ShortID    string
	Component  symtab.ID
	Output     symtab.NamedID
	Inputs     []symtab.ID
	Statements []ir0.Statement
}

// Project computes the unitary component c#o for each declared output
// of comp (spec.md §4.E), and reports UnusedSignal for any input that is
// backward-unreachable from every output.
func Project(t *symtab.Table, comp *ir0.Component, g *depgraph.Graph, sink *diag.Sink) []Unitary {
	outputs := t.NodeOutputsOf(comp.ID)
	inputs := t.NodeInputsOf(comp.ID)

	owner := map[symtab.ID]int{}
	for i, s := range comp.Statements {
		for _, id := range s.Pattern.Ids() {
			owner[id] = i
		}
	}

	reachableAny := map[symtab.ID]bool{}
	units := make([]Unitary, 0, len(outputs))
	for _, out := range outputs {
		reach := backwardReachable(g, out.ID)
		for id := range reach {
			reachableAny[id] = true
		}

		stmtSet := map[int]bool{}
		for id := range reach {
			if i, ok := owner[id]; ok {
				stmtSet[i] = true
			}
		}
		var stmts []ir0.Statement
		for i, s := range comp.Statements {
			if stmtSet[i] {
				stmts = append(stmts, s)
			}
		}

		var usedInputs []symtab.ID
		for _, in := range inputs {
			if reach[in] {
				usedInputs = append(usedInputs, in)
			}
		}

		units = append(units, Unitary{
			ShortID:    shortID(t.NameOf(comp.ID), out.Name, usedInputs),
			Component:  comp.ID,
			Output:     out,
			Inputs:     usedInputs,
			Statements: TopoSort(g, stmts),
		})
	}

	for _, in := range inputs {
		if !reachableAny[in] {
			sym := t.Symbol(in)
			sink.Errorf(diag.UnusedSignal, diag.Loc(sym.Loc), "signal %q of component %q is unused", sym.Name, t.NameOf(comp.ID))
		}
	}
	return units
}

// backwardReachable returns every id (including start) reachable by
// following edges of g forward from start, i.e. the set of ids start
// transitively depends on. This must not also walk edges in reverse: a
// sibling statement that happens to depend on one of start's
// dependencies is not part of start's own cone, and pulling it in would
// over-include unrelated statements and inputs in the unitary
// projection (spec.md §4.E).
func backwardReachable(g *depgraph.Graph, start symtab.ID) map[symtab.ID]bool {
	visited := map[symtab.ID]bool{start: true}
	queue := []symtab.ID{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for to := range g.Edges[id] {
			if !visited[to] {
				visited[to] = true
				queue = append(queue, to)
			}
		}
	}
	return visited
}

// shortID derives a deterministic, content-addressed short identifier
// for a unitary component from its owning component, output name and
// used-input set, via siphash, so regenerating the same program always
// yields the same generated names.
func shortID(component, output string, inputs []symtab.ID) string {
	ids := slices.Clone(inputs)
	slices.Sort(ids)
	key := component + "#" + output
	for _, id := range ids {
		key += fmt.Sprintf(",%d", id)
	}
	h := siphash.Hash(sipK0, sipK1, []byte(key))
	return fmt.Sprintf("%s_%08x", output, uint32(h))
}
