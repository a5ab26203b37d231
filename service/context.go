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

// Package service implements spec.md §4.F, the most intricate stage:
// translating a service interface's flow statements into an executable
// per-service event-loop state machine (FlowsContext, TimingEvents,
// FlowHandlers built from a small FlowInstruction sum type).
package service

import "github.com/langrust/grust-sub007/symtab"

// CalledComponent records, for one component-call flow statement, the
// field names its inputs are stored under in the context plus the
// optional event element name it consumes (spec.md §4.F).
type CalledComponent struct {
	Component  symtab.ID
	InputNames []string
	EventField string // empty if the component takes no event
}

// FlowsContext is the synthesized per-service state: one named,
// type-erased slot per local/exported flow, and a record of every called
// component's wiring (spec.md §4.F). Slots holds only the slot names; no
// per-slot type or dirty bit is recorded.
type FlowsContext struct {
	Slots       []string
	CalledNodes map[string]CalledComponent
	// EventFields maps an event-taking component's call-site name to the
	// context slot its event element is read from.
	EventFields map[string]string
}

// NewFlowsContext creates an empty context.
func NewFlowsContext() *FlowsContext {
	return &FlowsContext{
		CalledNodes: map[string]CalledComponent{},
		EventFields: map[string]string{},
	}
}

// Declare registers a named slot if it isn't already present.
func (c *FlowsContext) Declare(name string) {
	for _, s := range c.Slots {
		if s == name {
			return
		}
	}
	c.Slots = append(c.Slots, name)
}

// TimingKind discriminates a synthesized timer's rearm discipline.
type TimingKind int

const (
	// Period fires every d milliseconds, rearming itself unconditionally.
	Period TimingKind = iota
	// Timeout fires d milliseconds after the last time its source flow
	// was observed, and is rearmed on every such observation.
	Timeout
	// Delay is the service-wide d_min minimum-processing-delay timer
	// (spec.md §4.F). It is (re)armed at the start of every arriving
	// flow's handler and, on firing, drains exactly one buffered value
	// per flow in a fixed order.
	Delay
	// Silence is the service-wide t_out silent-period timeout timer. On
	// firing it re-emits every export's last known value.
	Silence
)

// TimingEvent is a synthesized internal flow fabricated for a
// sample/scan/timeout expression or a periodic component, injected as a
// synthetic Import into the flow graph (spec.md §4.F). A throttle
// expression fabricates no timer.
type TimingEvent struct {
	Name string
	Kind TimingKind
	Ms   uint64
}
