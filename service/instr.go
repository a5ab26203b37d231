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
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

// Instr is the closed sum type of one FlowHandler's straight-line/
// branching program body (spec.md §4.F).
type Instr interface{ instrNode() }

// Value is the closed sum type of the expressions that can appear as the
// payload of a Let/UpdateContext/Send instruction. Plain flow references
// are Ident; the rest give the remaining forms of spec.md §4.F's
// translation table (TakeFromContext, InContext, Some, Ok, Err) their own
// representation instead of collapsing everything to an ir0.Expr
// identifier, so a downstream back end can tell a context read from a
// local and an option/result wrapper from its inner value.
type Value interface{ valueNode() }

// Ident reads ID's current value directly (spec.md §4.F:
// "Identifier(src)").
type Ident struct {
	ID   symtab.ID
	Name string
}

// InContext reads Slot's current value out of FlowsContext (spec.md
// §4.F: "InContext(target)").
type InContext struct{ Slot string }

// TakeFromContext reads Slot's buffered value out of FlowsContext
// (spec.md §4.F: "TakeFromContext(src)", the sample operator's
// period-tick publish step).
type TakeFromContext struct{ Slot string }

// Some wraps Inner as a present value (spec.md §4.F: "Some(src)", the
// sample operator's store-on-arrival step).
type Some struct{ Inner Value }

// Ok wraps Inner as the success arm of a timeout (spec.md §4.F:
// "Let(t, Ok(src))").
type Ok struct{ Inner Value }

// Err is the failure arm of a timeout (spec.md §4.F: "Let(t, Err)"): the
// deadline elapsed with no fresh value.
type Err struct{}

func (Ident) valueNode()           {}
func (InContext) valueNode()       {}
func (TakeFromContext) valueNode() {}
func (Some) valueNode()            {}
func (Ok) valueNode()              {}
func (Err) valueNode()             {}

// Let binds or recomputes a local context-independent value.
type Let struct {
	Target string
	Expr   Value
}

// UpdateContext writes a context slot.
type UpdateContext struct {
	Slot string
	Expr Value
}

// IfThrottle writes Then only if |Source - ctx[Target]| >= Delta.
type IfThrottle struct {
	Target string
	Source string
	Delta  ir0.Expr
	Then   Instr
}

// IfChange compares Source to the memorized previous value named
// OldName; on change it runs Then (which marks the on_change event
// active and resumes the remaining walk) and updates the memory, else
// it runs Else.
type IfChange struct {
	OldName string
	Source  string
	Then    []Instr
	Else    []Instr
}

// ResetTimer (re)arms the named timer for Deadline milliseconds.
type ResetTimer struct {
	Timer    string
	Deadline uint64
}

// ComponentCall invokes a non-event-taking component, writing Pattern's
// targets.
type ComponentCall struct {
	Pattern   []string
	Component string
}

// EventComponentCall invokes an event-taking component. EventField and
// EventSource are empty when no event fires this handler.
type EventComponentCall struct {
	Pattern     []string
	Component   string
	EventField  string
	EventSource string
}

// Send emits Expr on an exported channel.
type Send struct {
	Name string
	Expr Value
}

// BufferFlow wraps the straight-line program that would otherwise run
// immediately for Flow, deferring it to the service's d_min delay window
// (spec.md §4.F "Delay/timeout batching"). The generated runtime stores
// Body for later replay and must raise diag.DoubleBufferedFlow if a
// second arrival on Flow lands before the delay timer drains it — at
// most one pending value per flow is tolerated.
type BufferFlow struct {
	Flow string
	Body []Instr
}

// DrainBuffered runs Flow's single buffered Body, if any, when the
// service's delay timer fires. Flows are drained in a fixed order
// (lexicographic by name) so replay is deterministic across runs.
type DrainBuffered struct {
	Flow string
	Body []Instr
}

// ResendLast re-emits the last known value of the named exported flow
// from FlowsContext, used by the silent-period timeout handler (spec.md
// §4.F: "t_out arms a full timeout handler which re-emits every output's
// last value").
type ResendLast struct {
	Name string
}

func (Let) instrNode()                {}
func (UpdateContext) instrNode()      {}
func (IfThrottle) instrNode()         {}
func (IfChange) instrNode()           {}
func (ResetTimer) instrNode()         {}
func (ComponentCall) instrNode()      {}
func (EventComponentCall) instrNode() {}
func (Send) instrNode()               {}
func (BufferFlow) instrNode()         {}
func (DrainBuffered) instrNode()      {}
func (ResendLast) instrNode()         {}

// Handler is the straight-line/branching program synthesized for one
// arriving flow (an external input or a synthesized timing event).
type Handler struct {
	Flow  string
	Body  []Instr
}
