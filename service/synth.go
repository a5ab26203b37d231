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

package service

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

// maxOnChangeDepth bounds nested on_change branching (SPEC_FULL.md §9,
// resolving spec.md's open question): each on_change on a single
// top-to-bottom walk doubles the remaining continuation, so depth is
// capped rather than left to blow up exponentially.
const maxOnChangeDepth = 16

// Synthesizer builds the per-service FlowsContext, TimingEvents and
// FlowHandlers from a lowered service interface.
type Synthesizer struct {
	t    *symtab.Table
	sink *diag.Sink

	ctx     *FlowsContext
	timers  []TimingEvent
	timerOf map[string]string // flow id name -> timer name, for timeout/sample/scan sources

	stmts         []ir0.FlowStmt
	owner         map[symtab.ID]int // flow id -> defining statement index
	fwdDeps       map[int][]int     // statement index -> statement indices that read one of its bound ids
	periodTimerOf map[int]string    // instantiation statement index -> its fabricated period timer name, for periodic components

	// site-keyed timer names, so the handler walk can tell which timer
	// firing corresponds to which sample/scan/timeout occurrence: several
	// occurrences in one service each fabricate their own timer (spec.md
	// §4.F), and the source-flow handler must not mistake an unrelated
	// timer for "this site's" period/deadline firing.
	sampleTimerOf  map[*ir0.FlowSample]string
	scanTimerOf    map[*ir0.FlowScan]string
	timeoutTimerOf map[*ir0.FlowTimeout]string
}

// NewSynthesizer creates a Synthesizer reporting into sink.
func NewSynthesizer(t *symtab.Table, sink *diag.Sink) *Synthesizer {
	return &Synthesizer{
		t: t, sink: sink, ctx: NewFlowsContext(),
		timerOf:        map[string]string{},
		periodTimerOf:  map[int]string{},
		sampleTimerOf:  map[*ir0.FlowSample]string{},
		scanTimerOf:    map[*ir0.FlowScan]string{},
		timeoutTimerOf: map[*ir0.FlowTimeout]string{},
	}
}

// Synthesize runs the full algorithm of spec.md §4.F over svc.
func (s *Synthesizer) Synthesize(svc *ir0.Service) ([]Handler, *FlowsContext, []TimingEvent) {
	s.stmts = svc.Statements
	s.owner = map[symtab.ID]int{}
	for i, st := range s.stmts {
		for _, id := range statementBoundIDs(st) {
			s.owner[id] = i
		}
	}

	s.collectTimingEvents()
	s.buildFlowGraph()

	var handlers []Handler
	for _, st := range s.stmts {
		imp, ok := st.(*ir0.FlowImport)
		if !ok {
			continue
		}
		name := s.t.NameOf(imp.ID)
		handlers = append(handlers, s.buildHandler(name, imp.ID))
	}
	for _, tm := range s.timers {
		handlers = append(handlers, s.buildTimerHandler(tm))
	}
	handlers = s.applyDelayBatching(svc, handlers)
	return handlers, s.ctx, s.timers
}

// applyDelayBatching wraps every externally-arriving flow's handler with
// the service-wide d_min/t_out batching of spec.md §4.F: each handler
// body begins by (re)arming the delay and silence timers, is deferred
// into a per-flow buffer rather than run immediately, and is replayed —
// exactly one buffered value per flow, in a fixed order — when the delay
// timer fires. The silence timer re-emits every export's last value.
func (s *Synthesizer) applyDelayBatching(svc *ir0.Service, handlers []Handler) []Handler {
	if svc.DMinMs == 0 && svc.TimeoutMs == 0 {
		return handlers
	}

	var resets []Instr
	if svc.DMinMs != 0 {
		s.timers = append(s.timers, TimingEvent{Name: "delay", Kind: Delay, Ms: svc.DMinMs})
		resets = append(resets, ResetTimer{Timer: "delay", Deadline: svc.DMinMs})
	}
	if svc.TimeoutMs != 0 {
		s.timers = append(s.timers, TimingEvent{Name: "timeout", Kind: Silence, Ms: svc.TimeoutMs})
		resets = append(resets, ResetTimer{Timer: "timeout", Deadline: svc.TimeoutMs})
	}

	isTimerFlow := map[string]bool{}
	for _, tm := range s.timers {
		isTimerFlow[tm.Name] = true
	}

	var flowNames []string
	bodyOf := map[string][]Instr{}
	wrapped := make([]Handler, 0, len(handlers)+2)
	for _, h := range handlers {
		if isTimerFlow[h.Flow] {
			wrapped = append(wrapped, h)
			continue
		}
		flowNames = append(flowNames, h.Flow)
		bodyOf[h.Flow] = h.Body
		body := append(append([]Instr(nil), resets...), BufferFlow{Flow: h.Flow, Body: h.Body})
		wrapped = append(wrapped, Handler{Flow: h.Flow, Body: body})
	}
	slices.Sort(flowNames)

	if svc.DMinMs != 0 {
		var drain []Instr
		for _, name := range flowNames {
			drain = append(drain, DrainBuffered{Flow: name, Body: bodyOf[name]})
		}
		wrapped = append(wrapped, Handler{Flow: "delay", Body: drain})
	}

	if svc.TimeoutMs != 0 {
		var names []string
		for _, st := range s.stmts {
			if exp, ok := st.(*ir0.FlowExport); ok {
				names = append(names, s.t.NameOf(exp.ID))
			}
		}
		slices.Sort(names)
		var resend []Instr
		for _, name := range names {
			resend = append(resend, ResendLast{Name: name})
		}
		wrapped = append(wrapped, Handler{Flow: "timeout", Body: resend})
	}

	return wrapped
}

func statementBoundIDs(st ir0.FlowStmt) []symtab.ID {
	switch v := st.(type) {
	case *ir0.FlowImport:
		return []symtab.ID{v.ID}
	case *ir0.FlowDeclaration:
		return v.Pattern.Ids()
	case *ir0.FlowInstantiation:
		return v.Pattern.Ids()
	}
	return nil
}

// collectTimingEvents fabricates one TimingEvent per sample/scan/
// timeout flow expression and per periodic called component (spec.md
// §4.F); throttle expressions get none.
func (s *Synthesizer) collectTimingEvents() {
	seen := 0
	fresh := func(prefix string) string {
		seen++
		return fmt.Sprintf("%s_%d", prefix, seen)
	}
	var walk func(fe ir0.FlowExpr)
	walk = func(fe ir0.FlowExpr) {
		switch v := fe.(type) {
		case *ir0.FlowSample:
			name := fresh("period")
			s.timers = append(s.timers, TimingEvent{Name: name, Kind: Period, Ms: v.PeriodMs})
			s.sampleTimerOf[v] = name
			walk(v.Src)
		case *ir0.FlowScan:
			name := fresh("period")
			s.timers = append(s.timers, TimingEvent{Name: name, Kind: Period, Ms: v.PeriodMs})
			s.scanTimerOf[v] = name
			walk(v.Src)
		case *ir0.FlowTimeout:
			name := fresh("timer")
			s.timers = append(s.timers, TimingEvent{Name: name, Kind: Timeout, Ms: v.DeadlineMs})
			s.timeoutTimerOf[v] = name
			walk(v.Src)
		case *ir0.FlowThrottle:
			walk(v.Src)
		case *ir0.FlowOnChange:
			walk(v.Src)
		case *ir0.FlowMerge:
			walk(v.Left)
			walk(v.Right)
		case *ir0.FlowCall:
			for _, a := range v.Args {
				walk(a)
			}
		}
	}
	for i, st := range s.stmts {
		switch v := st.(type) {
		case *ir0.FlowDeclaration:
			walk(v.Expr)
		case *ir0.FlowInstantiation:
			walk(v.Call)
			if p, ok := s.t.NodePeriodOf(v.Call.Component); ok {
				name := fresh("period")
				s.timers = append(s.timers, TimingEvent{Name: name, Kind: Period, Ms: p})
				s.periodTimerOf[i] = name
			}
		}
	}
}

// buildFlowGraph records, for each statement, the downstream statements
// that read one of its bound ids — the statement-level dependency graph
// referenced by spec.md §4.F ("like §4.D but at the flow-statement
// level").
func (s *Synthesizer) buildFlowGraph() {
	s.fwdDeps = map[int][]int{}
	addEdge := func(fromID symtab.ID, toStmt int) {
		if from, ok := s.owner[fromID]; ok {
			s.fwdDeps[from] = append(s.fwdDeps[from], toStmt)
		}
	}
	var walkRefs func(fe ir0.FlowExpr, stmt int)
	walkRefs = func(fe ir0.FlowExpr, stmt int) {
		switch v := fe.(type) {
		case *ir0.FlowIdent:
			addEdge(v.ID, stmt)
		case *ir0.FlowSample:
			walkRefs(v.Src, stmt)
		case *ir0.FlowScan:
			walkRefs(v.Src, stmt)
		case *ir0.FlowTimeout:
			walkRefs(v.Src, stmt)
		case *ir0.FlowThrottle:
			walkRefs(v.Src, stmt)
		case *ir0.FlowOnChange:
			walkRefs(v.Src, stmt)
		case *ir0.FlowMerge:
			walkRefs(v.Left, stmt)
			walkRefs(v.Right, stmt)
		case *ir0.FlowCall:
			for _, a := range v.Args {
				walkRefs(a, stmt)
			}
		}
	}
	for i, st := range s.stmts {
		switch v := st.(type) {
		case *ir0.FlowExport:
			for _, id := range v.Pattern.Ids() {
				addEdge(id, i)
			}
		case *ir0.FlowDeclaration:
			walkRefs(v.Expr, i)
		case *ir0.FlowInstantiation:
			walkRefs(v.Call, i)
		}
	}
}

// reachableToposorted returns the statements transitively downstream of
// the statement defining start, in topological order.
func (s *Synthesizer) reachableToposorted(startStmt int) []int {
	visited := map[int]bool{}
	var order []int
	var dfs func(i int)
	dfs = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true
		tos := slices.Clone(s.fwdDeps[i])
		slices.Sort(tos)
		for _, j := range tos {
			dfs(j)
		}
		order = append(order, i)
	}
	dfs(startStmt)
	// dfs appends in post-order (dependency-first is wrong direction for a
	// forward walk); reverse so the start statement's own consumers are
	// visited after their own dependencies within this subgraph.
	for l, r := 0, len(order)-1; l < r; l, r = l+1, r-1 {
		order[l], order[r] = order[r], order[l]
	}
	return order
}

func (s *Synthesizer) buildHandler(flowName string, flowID symtab.ID) Handler {
	start, ok := s.owner[flowID]
	if !ok {
		return Handler{Flow: flowName}
	}
	order := s.reachableToposorted(start)
	encountered := map[symtab.ID]bool{}
	if s.t.FlowKindOf(flowID) == symtab.FlowEvent {
		encountered[flowID] = true
	}
	// "" marks this as a flow-arrival handler, not a timer handler: the
	// sample/scan/timeout period-tick branches of translateFlowExpr only
	// fire when firingTimer matches the site's own fabricated timer name.
	body := s.walkStatements(order, encountered, 0, "")
	return Handler{Flow: flowName, Body: body}
}

func (s *Synthesizer) buildTimerHandler(tm TimingEvent) Handler {
	// Timer-driven statements are whichever declarations/instantiations
	// this synthesizer attached the timer to; without a surface-syntax
	// handle back to the timer we conservatively re-walk every statement
	// whose expression consumes a matching period/timeout operator, which
	// buildHandler's generic per-expression translation already guards
	// with an activation check keyed by timer name.
	var order []int
	for i := range s.stmts {
		order = append(order, i)
	}
	body := s.walkStatements(order, map[symtab.ID]bool{}, 0, tm.Name)
	return Handler{Flow: tm.Name, Body: body}
}

// walkStatements implements the per-expression translation table of
// spec.md §4.F, branching the linear walk at on_change into two
// continuations bounded by maxOnChangeDepth. firingTimer is the name of
// the timer driving this handler ("" for a flow-arrival handler), used to
// gate the period/deadline branches of sample/scan/timeout so a handler
// only publishes on the timer firing that actually belongs to it.
func (s *Synthesizer) walkStatements(order []int, encountered map[symtab.ID]bool, depth int, firingTimer string) []Instr {
	return s.walkStatementsFrom(order, encountered, map[string]Value{}, depth, firingTimer)
}

// walkStatementsFrom is walkStatements proper; lastValue carries, for
// every local target already bound earlier on this same walk (including
// an ancestor on_change branch), the Value its most recent Let used, so
// an event-kind export can forward exactly what fired instead of
// re-deriving a plain identifier that has no meaning for a transient
// event (spec.md §4.F: Send must carry whichever of Ok/Err/InContext/
// Ident the triggering statement actually produced).
func (s *Synthesizer) walkStatementsFrom(order []int, encountered map[symtab.ID]bool, lastValue map[string]Value, depth int, firingTimer string) []Instr {
	// active tracks which event ids have fired so far on this linear walk;
	// it starts as a copy of encountered and grows as later statements
	// mark their own target event active (spec.md §4.F: scan/timeout/merge
	// "mark target active"), so a downstream export sees activation from
	// an earlier statement in the same handler, not just from the
	// triggering flow itself.
	active := cloneSet(encountered)
	var out []Instr
	for idx, i := range order {
		switch st := s.stmts[i].(type) {
		case *ir0.FlowExport:
			// An event-valued export only sends while the event is active on
			// this walk (e.g. the "then" side of an IfChange it's nested
			// under); a signal-valued export always carries its last value.
			ids := st.Pattern.Ids()
			if len(ids) == 1 && s.t.FlowKindOf(st.ID) == symtab.FlowEvent {
				if !active[ids[0]] {
					break
				}
				name := s.t.NameOf(st.ID)
				expr := lastValue[name]
				if expr == nil {
					expr = patternValue(st.Pattern, s.t)
				}
				out = append(out, Send{Name: name, Expr: expr})
				break
			}
			out = append(out, Send{Name: s.t.NameOf(st.ID), Expr: patternValue(st.Pattern, s.t)})
		case *ir0.FlowDeclaration:
			target := patternName(st.Pattern, s.t)
			if oc, ok := st.Expr.(*ir0.FlowOnChange); ok && depth < maxOnChangeDepth {
				rest := order[idx+1:]
				oldName := target + "_prev"
				trueEnc := cloneSet(active)
				for _, id := range st.Pattern.Ids() {
					trueEnc[id] = true
				}
				ocValue := Ident{ID: identOf(oc.Src), Name: flowExprName(oc.Src, s.t)}
				trueValues := cloneValues(lastValue)
				trueValues[target] = ocValue
				trueBranch := append(append([]Instr(nil),
					Let{Target: target, Expr: ocValue}),
					s.walkStatementsFrom(rest, trueEnc, trueValues, depth+1, firingTimer)...)
				falseEnc := cloneSet(active)
				falseBranch := s.walkStatementsFrom(rest, falseEnc, cloneValues(lastValue), depth+1, firingTimer)
				out = append(out, IfChange{
					OldName: oldName,
					Source:  flowExprName(oc.Src, s.t),
					Then:    trueBranch,
					Else:    falseBranch,
				})
				return out
			}
			if _, ok := st.Expr.(*ir0.FlowOnChange); ok {
				loc := st.Loc()
				s.sink.Errorf(diag.TooManyNestedOnChange, diag.Loc{Start: loc.Start, End: loc.End}, "on_change nested deeper than %d", maxOnChangeDepth)
				return out
			}
			instrs := s.translateFlowExpr(target, st.Expr, active, firingTimer)
			recordLets(lastValue, instrs)
			out = append(out, instrs...)
			if s.targetEventActivated(st.Pattern, st.Expr, active, firingTimer) {
				for _, id := range st.Pattern.Ids() {
					active[id] = true
				}
			}
		case *ir0.FlowInstantiation:
			instrs := s.translateCall(i, st, active)
			recordLets(lastValue, instrs)
			out = append(out, instrs...)
		}
	}
	return out
}

// recordLets updates lastValue with the payload of every top-level Let in
// instrs, so a later FlowExport on the same walk can forward it.
func recordLets(lastValue map[string]Value, instrs []Instr) {
	for _, ins := range instrs {
		if let, ok := ins.(Let); ok {
			lastValue[let.Target] = let.Expr
		}
	}
}

func patternName(p ir0.Pattern, t *symtab.Table) string {
	if id, ok := p.(*ir0.PatIdent); ok {
		return t.NameOf(id.ID)
	}
	ids := p.Ids()
	if len(ids) == 1 {
		return t.NameOf(ids[0])
	}
	return ""
}

func patternValue(p ir0.Pattern, t *symtab.Table) Value {
	ids := p.Ids()
	if len(ids) != 1 {
		return nil
	}
	return Ident{ID: ids[0], Name: t.NameOf(ids[0])}
}

func identOf(fe ir0.FlowExpr) symtab.ID {
	if id, ok := fe.(*ir0.FlowIdent); ok {
		return id.ID
	}
	return 0
}

func flowExprName(fe ir0.FlowExpr, t *symtab.Table) string {
	if id, ok := fe.(*ir0.FlowIdent); ok {
		return t.NameOf(id.ID)
	}
	return ""
}

func withID(m map[symtab.ID]bool, id symtab.ID) map[symtab.ID]bool {
	out := cloneSet(m)
	if id != 0 {
		out[id] = true
	}
	return out
}

func cloneSet(m map[symtab.ID]bool) map[symtab.ID]bool {
	out := make(map[symtab.ID]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneValues(m map[string]Value) map[string]Value {
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func identValue(fe ir0.FlowExpr, t *symtab.Table) Value {
	return Ident{ID: identOf(fe), Name: flowExprName(fe, t)}
}

// targetEventActivated reports whether the pattern bound by a
// non-on_change FlowDeclaration should be added to the active-event set
// for the rest of this walk: an event-kind target fed by an already-
// active source ident, by merge (which always fires from whichever side
// triggered the handler), or by scan/timeout whose own period/deadline
// timer is the one actually firing on this walk — a scan/timeout
// declaration reached by some other handler (e.g. the signal source's own
// arrival) has not produced a value and must not be marked active.
func (s *Synthesizer) targetEventActivated(pat ir0.Pattern, fe ir0.FlowExpr, active map[symtab.ID]bool, firingTimer string) bool {
	ids := pat.Ids()
	if len(ids) != 1 || s.t.FlowKindOf(ids[0]) != symtab.FlowEvent {
		return false
	}
	switch v := fe.(type) {
	case *ir0.FlowIdent:
		return active[v.ID]
	case *ir0.FlowScan:
		return firingTimer != "" && firingTimer == s.scanTimerOf[v]
	case *ir0.FlowTimeout:
		srcID := identOf(v.Src)
		return (srcID != 0 && active[srcID]) || (firingTimer != "" && firingTimer == s.timeoutTimerOf[v])
	case *ir0.FlowMerge:
		return true
	}
	return false
}

// translateFlowExpr covers the ident/sample/scan/throttle/timeout/merge
// cases of spec.md §4.F's per-expression translation table. firingTimer
// names the timer driving this handler ("" for a flow-arrival handler);
// sample/scan/timeout each split their work between the source-arrival
// handler and their own fabricated period/deadline timer's handler, so
// the two must never both run the same branch (spec.md §8 scenarios
// S5/S6/S8).
func (s *Synthesizer) translateFlowExpr(target string, fe ir0.FlowExpr, encountered map[symtab.ID]bool, firingTimer string) []Instr {
	s.ctx.Declare(target)
	switch v := fe.(type) {
	case *ir0.FlowIdent:
		if s.t.FlowKindOf(v.ID) == symtab.FlowEvent {
			if encountered[v.ID] {
				return []Instr{Let{Target: target, Expr: identValue(v, s.t)}}
			}
			return nil
		}
		return []Instr{Let{Target: target, Expr: identValue(v, s.t)}}
	case *ir0.FlowSample:
		src := flowExprName(v.Src, s.t)
		srcID := identOf(v.Src)
		switch {
		case srcID != 0 && encountered[srcID]:
			// src just arrived: stash it for the next period tick.
			return []Instr{UpdateContext{Slot: src, Expr: Some{Inner: identValue(v.Src, s.t)}}}
		case firingTimer != "" && firingTimer == s.sampleTimerOf[v]:
			// the period timer fired: publish whatever was last stashed.
			return []Instr{
				UpdateContext{Slot: target, Expr: TakeFromContext{Slot: src}},
				Let{Target: target, Expr: InContext{Slot: target}},
			}
		}
		return nil
	case *ir0.FlowScan:
		if firingTimer == "" || firingTimer != s.scanTimerOf[v] {
			return nil
		}
		return []Instr{Let{Target: target, Expr: InContext{Slot: flowExprName(v.Src, s.t)}}}
	case *ir0.FlowThrottle:
		srcName := flowExprName(v.Src, s.t)
		return []Instr{
			IfThrottle{
				Target: target,
				Source: srcName,
				Delta:  v.Delta,
				Then:   UpdateContext{Slot: target, Expr: identValue(v.Src, s.t)},
			},
			Let{Target: target, Expr: InContext{Slot: target}},
		}
	case *ir0.FlowTimeout:
		srcID := identOf(v.Src)
		switch {
		case srcID != 0 && encountered[srcID]:
			return []Instr{
				Let{Target: target, Expr: Ok{Inner: identValue(v.Src, s.t)}},
				ResetTimer{Timer: s.timeoutTimerOf[v], Deadline: v.DeadlineMs},
			}
		case firingTimer != "" && firingTimer == s.timeoutTimerOf[v]:
			return []Instr{
				Let{Target: target, Expr: Err{}},
				ResetTimer{Timer: s.timeoutTimerOf[v], Deadline: v.DeadlineMs},
			}
		}
		return nil
	case *ir0.FlowMerge:
		// Whichever side actually fired on this walk drives the merged
		// value (spec.md §4.F/scenario S9): a merge statement only
		// appears in a handler because one of its operands triggered it,
		// so read from that operand rather than always the left one.
		src := v.Left
		if !encountered[identOf(v.Left)] && encountered[identOf(v.Right)] {
			src = v.Right
		}
		return []Instr{Let{Target: target, Expr: identValue(src, s.t)}}
	}
	return nil
}

// translateCall implements the Call(c, args) case (spec.md §4.F): a
// plain or event-carrying component call, always followed by the
// output-publication pair (UpdateContext + Let) for every output. Each
// call site gets its own FlowsContext.CalledNodes record (keyed by the
// instantiation's own pattern name) so two independent instances of the
// same component in one service never share call-record state.
func (s *Synthesizer) translateCall(stmtIdx int, inst *ir0.FlowInstantiation, active map[symtab.ID]bool) []Instr {
	call := inst.Call
	// Publication targets are the flow-level ids the instantiation's own
	// pattern binds, not the component's internal output field names:
	// two instances of the same component must publish into distinct
	// context slots (scenario S7), and the pattern is what the rest of
	// the service graph actually references.
	patIDs := inst.Pattern.Ids()
	names := make([]string, len(patIDs))
	for i, id := range patIDs {
		names[i] = s.t.NameOf(id)
	}

	inputs := s.t.NodeInputsOf(call.Component)
	inputNames := make([]string, len(inputs))
	for i, in := range inputs {
		inputNames[i] = s.t.NameOf(in)
	}

	callSite := ""
	if len(names) > 0 {
		callSite = names[0]
	}

	_, hasEvent := s.t.NodeEventEnumOf(call.Component)
	var eventField, eventSource string
	if hasEvent {
		for i, arg := range call.Args {
			id := identOf(arg)
			if id != 0 && active[id] && i < len(inputNames) {
				eventField = inputNames[i]
				eventSource = s.t.NameOf(id)
				break
			}
		}
	}
	// A periodic component's own fabricated timer firing also drives an
	// event-taking call with no event arg active (spec.md §4.F: "if the
	// timing event for this call is active and c is event-taking,
	// EventComponentCall(pattern, c, None)").
	timerDriven := s.periodTimerOf[stmtIdx] != ""

	var out []Instr
	switch {
	case hasEvent && (eventField != "" || timerDriven):
		out = append(out, EventComponentCall{
			Pattern:     names,
			Component:   s.t.NameOf(call.Component),
			EventField:  eventField,
			EventSource: eventSource,
		})
	default:
		out = append(out, ComponentCall{Pattern: names, Component: s.t.NameOf(call.Component)})
	}

	s.ctx.CalledNodes[callSite] = CalledComponent{
		Component:  call.Component,
		InputNames: inputNames,
		EventField: eventField,
	}
	if eventField != "" {
		s.ctx.EventFields[callSite] = eventSource
	}

	for i, name := range names {
		s.ctx.Declare(name)
		out = append(out,
			UpdateContext{Slot: name, Expr: Ident{ID: patIDs[i], Name: name}},
			Let{Target: name, Expr: InContext{Slot: name}},
		)
	}
	return out
}
