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
	"sort"

	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/schedule"
	"github.com/langrust/grust-sub007/service"
	"github.com/langrust/grust-sub007/symtab"
)

// BuildComponent packages one component's schedule.Unitary projections
// (one per declared output) into a ComponentModel.
func BuildComponent(t *symtab.Table, comp *ir0.Component, units []schedule.Unitary) ComponentModel {
	inputs := t.NodeInputsOf(comp.ID)
	fields := make([]Field, len(inputs))
	for i, in := range inputs {
		fields[i] = Field{Name: t.NameOf(in), Type: typeString(t, in)}
	}
	var eventField string
	if enumID, ok := t.NodeEventEnumOf(comp.ID); ok {
		eventField = t.NameOf(enumID)
	}

	var memory []Field
	for _, s := range comp.Statements {
		if _, ok := s.Expr.(*ir0.Fby); ok {
			for _, id := range s.Pattern.Ids() {
				memory = append(memory, Field{Name: t.NameOf(id), Type: typeString(t, id)})
			}
		}
	}

	var inits []ir0.Expr
	steps := make([]UnitaryProgram, len(units))
	for i, u := range units {
		steps[i] = UnitaryProgram{
			ShortID:    u.ShortID,
			Output:     u.Output.Name,
			Inputs:     namesOf(t, u.Inputs),
			Statements: u.Statements,
		}
		for _, s := range u.Statements {
			if fby, ok := s.Expr.(*ir0.Fby); ok {
				inits = append(inits, fby.Init)
			}
		}
	}

	return ComponentModel{
		Name:  t.NameOf(comp.ID),
		Input: Input{Fields: fields, EventField: eventField},
		State: State{Memory: memory, Init: inits, Step: steps},
	}
}

// BuildRuntime packages one service's synthesized handlers, timers and
// context into a Runtime.
func BuildRuntime(t *symtab.Table, svc *ir0.Service, handlers []service.Handler, ctx *service.FlowsContext, timers []service.TimingEvent) Runtime {
	var ins []IVariant
	var outs []OVariant
	for _, st := range svc.Statements {
		switch v := st.(type) {
		case *ir0.FlowImport:
			ins = append(ins, IVariant{Name: t.NameOf(v.ID), Type: typeString(t, v.ID)})
		case *ir0.FlowExport:
			outs = append(outs, OVariant{Name: t.NameOf(v.ID), Type: typeString(t, v.ID)})
		}
	}

	tv := make([]TVariant, len(timers))
	for i, tm := range timers {
		tv[i] = TVariant{
			Name:        tm.Name,
			GetDuration: tm.Ms,
			DoReset:     tm.Kind != service.Period,
		}
		ins = append(ins, IVariant{Name: tm.Name, Timer: true})
	}

	ctxFields := make([]Field, len(ctx.Slots))
	for i, s := range ctx.Slots {
		ctxFields[i] = Field{Name: s}
	}

	hs := make([]HandlerModel, len(handlers))
	for i, h := range handlers {
		hs[i] = HandlerModel{Flow: h.Flow, Body: renderInstrs(h.Body)}
	}

	callSites := make([]string, 0, len(ctx.CalledNodes))
	for callSite := range ctx.CalledNodes {
		callSites = append(callSites, callSite)
	}
	sort.Strings(callSites)
	instances := make([]CalledInstanceModel, len(callSites))
	for i, callSite := range callSites {
		cc := ctx.CalledNodes[callSite]
		instances[i] = CalledInstanceModel{
			CallSite:   callSite,
			Component:  t.NameOf(cc.Component),
			InputNames: cc.InputNames,
			EventField: cc.EventField,
		}
	}

	return Runtime{
		Name:            svc.Name,
		Inputs:          ins,
		Outputs:         outs,
		Timers:          tv,
		Handlers:        hs,
		Context:         ctxFields,
		CalledInstances: instances,
	}
}

func renderInstrs(body []service.Instr) []InstrNode {
	out := make([]InstrNode, 0, len(body))
	for _, ins := range body {
		out = append(out, renderInstr(ins))
	}
	return out
}

func renderInstr(ins service.Instr) InstrNode {
	switch v := ins.(type) {
	case service.Let:
		return InstrNode{Kind: "let", Target: v.Target, Expr: v.Expr}
	case service.UpdateContext:
		return InstrNode{Kind: "update_context", Target: v.Slot, Expr: v.Expr}
	case service.IfThrottle:
		then := []InstrNode{}
		if v.Then != nil {
			then = append(then, renderInstr(v.Then))
		}
		return InstrNode{Kind: "if_throttle", Target: v.Target, Source: v.Source, Expr: v.Delta, Then: then}
	case service.IfChange:
		return InstrNode{Kind: "if_change", Target: v.OldName, Source: v.Source, Then: renderInstrs(v.Then), Else: renderInstrs(v.Else)}
	case service.ResetTimer:
		return InstrNode{Kind: "reset_timer", Target: v.Timer}
	case service.ComponentCall:
		return InstrNode{Kind: "component_call", Component: v.Component, Pattern: v.Pattern}
	case service.EventComponentCall:
		return InstrNode{Kind: "event_component_call", Component: v.Component, Pattern: v.Pattern, Source: v.EventSource, Target: v.EventField}
	case service.Send:
		return InstrNode{Kind: "send", Target: v.Name, Expr: v.Expr}
	case service.BufferFlow:
		return InstrNode{Kind: "buffer_flow", Target: v.Flow, Then: renderInstrs(v.Body)}
	case service.DrainBuffered:
		return InstrNode{Kind: "drain_buffered", Target: v.Flow, Then: renderInstrs(v.Body)}
	case service.ResendLast:
		return InstrNode{Kind: "resend_last", Target: v.Name}
	}
	return InstrNode{Kind: "unknown"}
}

func namesOf(t *symtab.Table, ids []symtab.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = t.NameOf(id)
	}
	return out
}

func typeString(t *symtab.Table, id symtab.ID) string {
	typ := t.TypeOf(id)
	if typ == nil {
		return ""
	}
	return typ.TypString()
}
