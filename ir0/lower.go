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

package ir0

import (
	"fmt"

	"github.com/langrust/grust-sub007/ast"
	"github.com/langrust/grust-sub007/symtab"
)

// Lowerer performs the pure structural AST→IR0 translation of spec.md
// §4.B: every component/function/typedef/import registers its inputs,
// outputs and locals in a fresh local scope that is discarded before the
// next top-level item.
type Lowerer struct {
	t    *symtab.Table
	errs []error

	typeAnnos   []TypeAnnotation
	funcOutAnno []TypeAnnotation
	fieldAnnos  []FieldAnnotation
}

// NewLowerer creates a Lowerer over an already-initialized symbol table
// (symtab.New followed by types.InstallSchemes).
func NewLowerer(t *symtab.Table) *Lowerer {
	return &Lowerer{t: t}
}

func (l *Lowerer) fail(loc ast.Loc, format string, args ...any) {
	l.errs = append(l.errs, fmt.Errorf("%d:%d: "+format, append([]any{loc.Start, loc.End}, args...)...))
}

// Errs returns every error accumulated while lowering.
func (l *Lowerer) Errs() []error { return l.errs }

func toLoc(l ast.Loc) Loc { return Loc{Start: l.Start, End: l.End} }

func toSymLoc(l ast.Loc) symtab.Loc { return symtab.Loc{Start: l.Start, End: l.End} }

// LowerProgram is the entry point. It runs a header pass (register every
// top-level name so forward references resolve) followed by a define
// pass (fill in bodies, now that every name exists).
func (l *Lowerer) LowerProgram(p *ast.Program) *Program {
	structIDs := make(map[string]symtab.ID, len(p.Structs))
	enumIDs := make(map[string]symtab.ID, len(p.Enums))
	funcIDs := make(map[string]symtab.ID, len(p.Functions))
	compIDs := make(map[string]symtab.ID, len(p.Components))

	for i := range p.Structs {
		id, err := l.t.Insert(symtab.KindStructure, p.Structs[i].Name, &symtab.Symbol{
			Structure: &symtab.StructureInfo{},
		})
		if err != nil {
			l.fail(p.Structs[i].Loc, "structure %q already defined", p.Structs[i].Name)
			continue
		}
		structIDs[p.Structs[i].Name] = id
	}
	for i := range p.Enums {
		id, err := l.t.Insert(symtab.KindEnumeration, p.Enums[i].Name, &symtab.Symbol{
			Enumeration: &symtab.EnumerationInfo{},
		})
		if err != nil {
			l.fail(p.Enums[i].Loc, "enumeration %q already defined", p.Enums[i].Name)
			continue
		}
		enumIDs[p.Enums[i].Name] = id
		sym := l.t.Symbol(id)
		for _, elt := range p.Enums[i].Elements {
			eltID, err := l.t.InsertNS(symtab.KindEnumerationElement, elt, p.Enums[i].Name, &symtab.Symbol{
				EnumerationElement: &symtab.EnumerationElementInfo{EnumName: p.Enums[i].Name},
			})
			if err != nil {
				l.fail(p.Enums[i].Loc, "enumeration element %q.%q already defined", p.Enums[i].Name, elt)
				continue
			}
			sym.Enumeration.Elements = append(sym.Enumeration.Elements, eltID)
		}
	}
	for i := range p.Functions {
		id, err := l.t.Insert(symtab.KindFunction, p.Functions[i].Name, &symtab.Symbol{
			Function: &symtab.FunctionInfo{},
		})
		if err != nil {
			l.fail(p.Functions[i].Loc, "function %q already defined", p.Functions[i].Name)
			continue
		}
		funcIDs[p.Functions[i].Name] = id
	}
	for i := range p.Components {
		id, err := l.t.Insert(symtab.KindComponent, p.Components[i].Name, &symtab.Symbol{
			Component: &symtab.ComponentInfo{Locals: map[string]symtab.ID{}},
		})
		if err != nil {
			l.fail(p.Components[i].Loc, "component %q already defined", p.Components[i].Name)
			continue
		}
		compIDs[p.Components[i].Name] = id
	}

	env := &lowerEnv{l: l, structIDs: structIDs, enumIDs: enumIDs, funcIDs: funcIDs, compIDs: compIDs}

	// resolve struct field types now that every struct/enum name exists.
	for i := range p.Structs {
		id, ok := structIDs[p.Structs[i].Name]
		if !ok {
			continue
		}
		sym := l.t.Symbol(id)
		for _, f := range p.Structs[i].Fields {
			sym.Structure.Fields = append(sym.Structure.Fields, symtab.Field{Name: f.Name})
			l.fieldAnnos = append(l.fieldAnnos, FieldAnnotation{Struct: id, Field: f.Name, Typ: f.Typ})
		}
	}

	out := &Program{}
	for i := range p.Functions {
		if fn := env.lowerFunction(&p.Functions[i]); fn != nil {
			out.Functions = append(out.Functions, *fn)
		}
	}
	for i := range p.Components {
		if c := env.lowerComponent(&p.Components[i]); c != nil {
			out.Components = append(out.Components, *c)
		}
	}
	for i := range p.Services {
		if s := env.lowerService(&p.Services[i]); s != nil {
			out.Services = append(out.Services, *s)
		}
	}
	out.TypeAnnotations = l.typeAnnos
	out.FunctionOutputAnnotations = l.funcOutAnno
	out.FieldAnnotations = l.fieldAnnos
	return out
}

// lowerEnv threads the cross-program name tables plus the per-item local
// bindings (signals/locals/flows currently in scope by surface name).
type lowerEnv struct {
	l *Lowerer

	structIDs map[string]symtab.ID
	enumIDs   map[string]symtab.ID
	funcIDs   map[string]symtab.ID
	compIDs   map[string]symtab.ID

	// locals maps a surface name to its id within the current component/
	// function/service local scope.
	locals map[string]symtab.ID
}

func (e *lowerEnv) fail(loc ast.Loc, format string, args ...any) { e.l.fail(loc, format, args...) }

func (e *lowerEnv) lookupLocal(name string) (symtab.ID, bool) {
	id, ok := e.locals[name]
	return id, ok
}

func (e *lowerEnv) lowerFunction(fn *ast.FunctionDef) *FunctionDef {
	id, ok := e.funcIDs[fn.Name]
	if !ok {
		return nil
	}
	e.l.t.LocalScope()
	defer e.l.t.LeaveScope()
	leave := e.l.t.EnterComponent(id)
	defer leave()

	prevLocals := e.locals
	e.locals = map[string]symtab.ID{}
	defer func() { e.locals = prevLocals }()

	sym := e.l.t.Symbol(id)
	inputs := make([]symtab.ID, 0, len(fn.Inputs))
	for _, p := range fn.Inputs {
		pid, err := e.l.t.Insert(symtab.KindSignal, p.Name, &symtab.Symbol{
			Loc:    toSymLoc(p.Loc),
			Signal: &symtab.SignalInfo{Scope: symtab.Input},
		})
		if err != nil {
			e.fail(p.Loc, "parameter %q already defined", p.Name)
			continue
		}
		e.locals[p.Name] = pid
		inputs = append(inputs, pid)
		e.l.typeAnnos = append(e.l.typeAnnos, TypeAnnotation{ID: pid, Typ: p.Typ})
	}
	sym.Function.Inputs = inputs
	if fn.OutTyp != nil {
		e.l.funcOutAnno = append(e.l.funcOutAnno, TypeAnnotation{ID: id, Typ: fn.OutTyp})
	}

	body := e.lowerExpr(fn.Body)
	return &FunctionDef{ID: id, Body: body}
}

func (e *lowerEnv) lowerComponent(c *ast.Component) *Component {
	id, ok := e.compIDs[c.Name]
	if !ok {
		return nil
	}
	e.l.t.LocalScope()
	defer e.l.t.LeaveScope()
	leave := e.l.t.EnterComponent(id)
	defer leave()

	prevLocals := e.locals
	e.locals = map[string]symtab.ID{}
	defer func() { e.locals = prevLocals }()

	sym := e.l.t.Symbol(id)

	var inputs []symtab.ID
	for _, p := range c.Inputs {
		pid, err := e.l.t.Insert(symtab.KindSignal, p.Name, &symtab.Symbol{
			Loc:    toSymLoc(p.Loc),
			Signal: &symtab.SignalInfo{Scope: symtab.Input},
		})
		if err != nil {
			e.fail(p.Loc, "input %q already defined", p.Name)
			continue
		}
		e.locals[p.Name] = pid
		inputs = append(inputs, pid)
		e.l.typeAnnos = append(e.l.typeAnnos, TypeAnnotation{ID: pid, Typ: p.Typ})
	}
	sym.Component.Inputs = inputs

	// event enumeration: one Event symbol plus one EventElement per arm,
	// matched at the component's input (spec.md §4.B).
	if len(c.EventArms) > 0 {
		eventID, err := e.l.t.Insert(symtab.KindEvent, c.Name+".event", &symtab.Symbol{
			Event: &symtab.EventInfo{},
		})
		if err == nil {
			var elements []symtab.ID
			for _, arm := range c.EventArms {
				eltID, err := e.l.t.InsertNS(symtab.KindEventElement, arm.Name, c.Name, &symtab.Symbol{
					EventElement: &symtab.EventElementInfo{EnumName: c.Name},
				})
				if err != nil {
					e.fail(c.Loc, "event element %q already defined", arm.Name)
					continue
				}
				e.locals[arm.Name] = eltID
				elements = append(elements, eltID)
				if arm.Typ != nil {
					e.l.typeAnnos = append(e.l.typeAnnos, TypeAnnotation{ID: eltID, Typ: arm.Typ})
				}
			}
			enumID, err := e.l.t.Insert(symtab.KindEventEnumeration, c.Name+".events", &symtab.Symbol{
				EventEnumeration: &symtab.EventEnumerationInfo{EventID: eventID, Elements: elements},
			})
			if err == nil {
				sym.Component.EventEnum = &enumID
			}
		}
	}

	if c.PeriodMs != nil {
		p := *c.PeriodMs
		sym.Component.PeriodMs = &p
	}

	var outputs []symtab.NamedID
	for _, p := range c.Outputs {
		oid, err := e.l.t.Insert(symtab.KindSignal, p.Name, &symtab.Symbol{
			Loc:    toSymLoc(p.Loc),
			Signal: &symtab.SignalInfo{Scope: symtab.Output},
		})
		if err != nil {
			e.fail(p.Loc, "output %q already defined", p.Name)
			continue
		}
		e.locals[p.Name] = oid
		outputs = append(outputs, symtab.NamedID{Name: p.Name, ID: oid})
		e.l.typeAnnos = append(e.l.typeAnnos, TypeAnnotation{ID: oid, Typ: p.Typ})
	}
	sym.Component.Outputs = outputs

	// Patterns are registered in a first pass, ahead of lowering any
	// statement's expression, so a later equation's local is a legal fby
	// target (or plain reference) from an earlier one -- equations are a
	// system, not a sequential program (spec.md §4.D scenario S1: `out y
	// = 0 fby z; z = y + x;` requires z to already resolve while lowering
	// y's own right-hand side).
	pats := make([]Pattern, len(c.Statements))
	for i, s := range c.Statements {
		pats[i] = e.lowerBindingPattern(s.Pattern)
	}
	var stmts []Statement
	for i, s := range c.Statements {
		expr := e.lowerExpr(s.Expr)
		stmts = append(stmts, Statement{Loc: toLoc(s.Loc), Pattern: pats[i], Expr: expr})
	}
	sym.Component.Locals = e.locals

	var contract Contract
	for _, r := range c.Contract.Requires {
		contract.Requires = append(contract.Requires, e.lowerExpr(r))
	}
	for _, en := range c.Contract.Ensures {
		contract.Ensures = append(contract.Ensures, e.lowerExpr(en))
	}

	return &Component{ID: id, Statements: stmts, Contract: contract}
}

// lowerBindingPattern lowers a pattern appearing on the left of a
// top-level component equation, where every identifier is a genuine
// Local (or re-binds an existing Output), never VeryLocal.
func (e *lowerEnv) lowerBindingPattern(p ast.Pattern) Pattern {
	return e.lowerPattern(p, symtab.Local)
}

// lowerMatchPattern lowers a pattern appearing in a match arm, where
// identifiers are VeryLocal (spec.md §3: legal only inside match arms).
func (e *lowerEnv) lowerMatchPattern(p ast.Pattern) Pattern {
	return e.lowerPattern(p, symtab.VeryLocal)
}

func (e *lowerEnv) lowerPattern(p ast.Pattern, scope symtab.Scope) Pattern {
	switch pp := p.(type) {
	case ast.PatIdent:
		// re-binding an already-declared output/local (e.g. the pattern
		// of an equation whose LHS is an existing output) reuses its id;
		// otherwise this introduces a fresh one.
		if id, ok := e.locals[pp.Name]; ok {
			return NewPatIdentAt(toLoc(pp.Loc), id)
		}
		id, err := e.l.t.Insert(symtab.KindSignal, pp.Name, &symtab.Symbol{
			Loc:    toSymLoc(pp.Loc),
			Signal: &symtab.SignalInfo{Scope: scope},
		})
		if err != nil {
			e.fail(pp.Loc, "signal %q already defined", pp.Name)
			return NewPatIdentAt(toLoc(pp.Loc), 0)
		}
		e.locals[pp.Name] = id
		return NewPatIdentAt(toLoc(pp.Loc), id)
	case ast.PatDefault:
		return &PatDefault{loc: toLoc(pp.Loc)}
	case ast.PatTuple:
		var elems []Pattern
		for _, el := range pp.Elems {
			elems = append(elems, e.lowerPattern(el, scope))
		}
		return &PatTuple{loc: toLoc(pp.Loc), Elems: elems}
	case ast.PatStruct:
		structID, ok := e.structIDs[pp.Struct]
		if !ok {
			e.fail(pp.Loc, "unknown structure %q", pp.Struct)
			structID = 0
		}
		var fields []PatStructField
		for _, f := range pp.Fields {
			fp := f.Pat
			if fp == nil {
				// elided field name implicitly binds a signal with the
				// field's own name (spec.md §4.B policy).
				fp = ast.PatIdent{Loc: pp.Loc, Name: f.Field, Implicit: true}
			}
			fields = append(fields, PatStructField{Field: f.Field, Pat: e.lowerPattern(fp, scope)})
		}
		return &PatStruct{loc: toLoc(pp.Loc), Struct: structID, Fields: fields}
	case ast.PatSome:
		return &PatSome{loc: toLoc(pp.Loc), Inner: e.lowerPattern(pp.Inner, symtab.VeryLocal)}
	case ast.PatNone:
		return &PatNone{loc: toLoc(pp.Loc)}
	default:
		e.fail(ast.Loc{}, "unhandled pattern kind %T", p)
		return &PatDefault{}
	}
}

func (e *lowerEnv) resolveIdent(name string) (symtab.ID, bool) {
	if id, ok := e.locals[name]; ok {
		return id, true
	}
	return 0, false
}

func (e *lowerEnv) lowerExpr(x ast.Expr) Expr {
	switch v := x.(type) {
	case ast.IntLit:
		return &IntLit{typed: typed{loc: toLoc(v.Loc)}, Val: v.Val}
	case ast.FloatLit:
		return &FloatLit{typed: typed{loc: toLoc(v.Loc)}, Val: v.Val}
	case ast.BoolLit:
		return &BoolLit{typed: typed{loc: toLoc(v.Loc)}, Val: v.Val}
	case ast.UnitLit:
		return &UnitLit{typed: typed{loc: toLoc(v.Loc)}}
	case ast.Ident:
		id, ok := e.resolveIdent(v.Name)
		if !ok {
			e.fail(v.Loc, "reference to unbound identifier %q", v.Name)
			return &UnitLit{typed: typed{loc: toLoc(v.Loc)}}
		}
		return &Ident{typed: typed{loc: toLoc(v.Loc)}, ID: id}
	case ast.Call:
		var args []Expr
		for _, a := range v.Args {
			args = append(args, e.lowerExpr(a))
		}
		if compID, ok := e.compIDs[v.Name]; ok {
			return &NodeCall{typed: typed{loc: toLoc(v.Loc)}, Component: compID, Args: args}
		}
		fnID, err := e.l.t.Lookup(symtab.KindFunction, v.Name, false)
		if err != nil {
			e.fail(v.Loc, "reference to unknown function or component %q", v.Name)
			return &UnitLit{typed: typed{loc: toLoc(v.Loc)}}
		}
		return &Call{typed: typed{loc: toLoc(v.Loc)}, Func: fnID, Args: args}
	case ast.Fby:
		id, ok := e.resolveIdent(v.ID)
		if !ok {
			e.fail(v.Loc, "fby target %q is unbound", v.ID)
			return &UnitLit{typed: typed{loc: toLoc(v.Loc)}}
		}
		return &Fby{typed: typed{loc: toLoc(v.Loc)}, ID: id, Init: e.lowerExpr(v.Init)}
	case ast.Sample:
		return &Sample{typed: typed{loc: toLoc(v.Loc)}, Src: e.lowerExpr(v.Src), PeriodMs: v.PeriodMs}
	case ast.Scan:
		return &Scan{typed: typed{loc: toLoc(v.Loc)}, Src: e.lowerExpr(v.Src), PeriodMs: v.PeriodMs}
	case ast.Throttle:
		return &Throttle{typed: typed{loc: toLoc(v.Loc)}, Src: e.lowerExpr(v.Src), Delta: e.lowerExpr(v.Delta)}
	case ast.Timeout:
		return &Timeout{typed: typed{loc: toLoc(v.Loc)}, Src: e.lowerExpr(v.Src), DeadlineMs: v.DeadlineMs}
	case ast.OnChange:
		return &OnChange{typed: typed{loc: toLoc(v.Loc)}, Src: e.lowerExpr(v.Src)}
	case ast.Merge:
		return &Merge{typed: typed{loc: toLoc(v.Loc)}, Left: e.lowerExpr(v.Left), Right: e.lowerExpr(v.Right)}
	case ast.RisingEdge:
		return &RisingEdge{typed: typed{loc: toLoc(v.Loc)}, Src: e.lowerExpr(v.Src)}
	case ast.TupleExpr:
		var elems []Expr
		for _, el := range v.Elems {
			elems = append(elems, e.lowerExpr(el))
		}
		return &TupleExpr{typed: typed{loc: toLoc(v.Loc)}, Elems: elems}
	case ast.ArrayExpr:
		var elems []Expr
		for _, el := range v.Elems {
			elems = append(elems, e.lowerExpr(el))
		}
		return &ArrayExpr{typed: typed{loc: toLoc(v.Loc)}, Elems: elems}
	case ast.Zip:
		var arrays []Expr
		for _, a := range v.Arrays {
			arrays = append(arrays, e.lowerExpr(a))
		}
		return &Zip{typed: typed{loc: toLoc(v.Loc)}, Arrays: arrays}
	case ast.FieldAccess:
		return &FieldAccess{typed: typed{loc: toLoc(v.Loc)}, Base: e.lowerExpr(v.Base), Field: v.Field}
	case ast.Index:
		return &Index{typed: typed{loc: toLoc(v.Loc)}, Base: e.lowerExpr(v.Base), Idx: e.lowerExpr(v.Idx)}
	case ast.StructLit:
		structID, ok := e.structIDs[v.Struct]
		if !ok {
			e.fail(v.Loc, "unknown structure %q", v.Struct)
		}
		fields := make(map[string]Expr, len(v.Fields))
		for name, fe := range v.Fields {
			fields[name] = e.lowerExpr(fe)
		}
		return &StructLit{typed: typed{loc: toLoc(v.Loc)}, Struct: structID, Fields: fields}
	case ast.EnumLit:
		eltID, err := e.l.t.LookupNS(symtab.KindEnumerationElement, v.Element, v.Enum, false)
		if err != nil {
			e.fail(v.Loc, "unknown enumeration element %q.%q", v.Enum, v.Element)
		}
		var val Expr
		if v.Value != nil {
			val = e.lowerExpr(v.Value)
		}
		return &EnumLit{typed: typed{loc: toLoc(v.Loc)}, Element: eltID, Value: val}
	case ast.Match:
		scrut := e.lowerExpr(v.Scrutinee)
		var arms []MatchArm
		for _, a := range v.Arms {
			// each arm gets its own disposable VeryLocal scope.
			e.l.t.LocalScope()
			pat := e.lowerMatchPattern(a.Pat)
			var guard Expr
			if a.Guard != nil {
				guard = e.lowerExpr(a.Guard)
			}
			body := e.lowerExpr(a.Body)
			e.l.t.LeaveScope()
			arms = append(arms, MatchArm{Pat: pat, Bound: pat.Ids(), Guard: guard, Body: body})
		}
		return &Match{typed: typed{loc: toLoc(v.Loc)}, Scrutinee: scrut, Arms: arms}
	case ast.Lambda:
		captured := e.freeVars(v.Body, v.Params)
		return &Lambda{typed: typed{loc: toLoc(v.Loc)}, Captured: captured, Body: e.lowerExpr(v.Body)}
	default:
		e.fail(ast.Loc{}, "unhandled expression kind %T", x)
		return &UnitLit{}
	}
}

// freeVars collects the ids of identifiers referenced in body that are
// not among bound (the lambda's own parameters) — the "captured signal
// refs" of spec.md §4.D.
func (e *lowerEnv) freeVars(body ast.Expr, bound []string) []symtab.ID {
	boundSet := make(map[string]bool, len(bound))
	for _, b := range bound {
		boundSet[b] = true
	}
	seen := map[symtab.ID]bool{}
	var out []symtab.ID
	var walk func(ast.Expr)
	walk = func(x ast.Expr) {
		switch v := x.(type) {
		case ast.Ident:
			if boundSet[v.Name] {
				return
			}
			if id, ok := e.resolveIdent(v.Name); ok && !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		case ast.Call:
			for _, a := range v.Args {
				walk(a)
			}
		case ast.TupleExpr:
			for _, el := range v.Elems {
				walk(el)
			}
		case ast.ArrayExpr:
			for _, el := range v.Elems {
				walk(el)
			}
		case ast.FieldAccess:
			walk(v.Base)
		case ast.Index:
			walk(v.Base)
			walk(v.Idx)
		}
	}
	walk(body)
	return out
}

func isEventType(te ast.TypeExpr) bool {
	_, ok := te.(ast.EventType)
	return ok
}

// lowerService lowers a `service` interface block. A service never needs
// a symtab lookup by id from elsewhere (nothing forward-references a
// service), so its id is minted directly rather than inserted as a named
// symbol.
func (e *lowerEnv) lowerService(svc *ast.Service) *Service {
	id := e.l.t.FreshID()
	e.l.t.LocalScope()
	defer e.l.t.LeaveScope()

	prevLocals := e.locals
	e.locals = map[string]symtab.ID{}
	defer func() { e.locals = prevLocals }()

	var stmts []FlowStmt
	for _, s := range svc.Statements {
		switch st := s.(type) {
		case ast.FlowImport:
			kind := symtab.FlowSignal
			if isEventType(st.Typ) {
				kind = symtab.FlowEvent
			}
			fid, err := e.l.t.Insert(symtab.KindFlow, st.Name, &symtab.Symbol{
				Loc:  toSymLoc(st.Loc),
				Flow: &symtab.FlowInfo{Path: st.Path, Kind: kind},
			})
			if err != nil {
				e.fail(st.Loc, "flow %q already defined", st.Name)
				continue
			}
			e.locals[st.Name] = fid
			e.l.typeAnnos = append(e.l.typeAnnos, TypeAnnotation{ID: fid, Typ: st.Typ})
			stmts = append(stmts, NewFlowImportAt(toLoc(st.Loc), fid, false))
		case ast.FlowExport:
			fid, ok := e.resolveIdent(st.Name)
			if !ok {
				kind := symtab.FlowSignal
				if isEventType(st.Typ) {
					kind = symtab.FlowEvent
				}
				var err error
				fid, err = e.l.t.Insert(symtab.KindFlow, st.Name, &symtab.Symbol{
					Loc:  toSymLoc(st.Loc),
					Flow: &symtab.FlowInfo{Path: st.Path, Kind: kind},
				})
				if err != nil {
					e.fail(st.Loc, "flow %q already defined", st.Name)
					continue
				}
				e.l.typeAnnos = append(e.l.typeAnnos, TypeAnnotation{ID: fid, Typ: st.Typ})
			}
			pat := e.lowerFlowBindingPattern(st.Pattern)
			stmts = append(stmts, &FlowExport{loc: toLoc(st.Loc), ID: fid, Pattern: pat})
		case ast.FlowDeclaration:
			pat := e.lowerFlowBindingPattern(st.Pattern)
			expr := e.lowerFlowExpr(st.Expr)
			stmts = append(stmts, &FlowDeclaration{loc: toLoc(st.Loc), Pattern: pat, Expr: expr})
		case ast.FlowInstantiation:
			pat := e.lowerFlowBindingPattern(st.Pattern)
			call := e.lowerFlowCall(st.Call)
			stmts = append(stmts, &FlowInstantiation{loc: toLoc(st.Loc), Pattern: pat, Call: call})
		default:
			e.fail(ast.Loc{}, "unhandled flow statement kind %T", s)
		}
	}
	return &Service{ID: id, Name: svc.Name, DMinMs: svc.DMinMs, TimeoutMs: svc.TimeoutMs, Statements: stmts}
}

// lowerFlowBindingPattern lowers a pattern on the left of a flow
// statement; every identifier it introduces is a fresh Flow symbol (or a
// re-binding of one already in scope), never a Signal.
func (e *lowerEnv) lowerFlowBindingPattern(p ast.Pattern) Pattern {
	switch pp := p.(type) {
	case ast.PatIdent:
		if id, ok := e.locals[pp.Name]; ok {
			return NewPatIdentAt(toLoc(pp.Loc), id)
		}
		id, err := e.l.t.Insert(symtab.KindFlow, pp.Name, &symtab.Symbol{
			Loc:  toSymLoc(pp.Loc),
			Flow: &symtab.FlowInfo{Kind: symtab.FlowSignal},
		})
		if err != nil {
			e.fail(pp.Loc, "flow %q already defined", pp.Name)
			return NewPatIdentAt(toLoc(pp.Loc), 0)
		}
		e.locals[pp.Name] = id
		return NewPatIdentAt(toLoc(pp.Loc), id)
	case ast.PatTuple:
		var elems []Pattern
		for _, el := range pp.Elems {
			elems = append(elems, e.lowerFlowBindingPattern(el))
		}
		return &PatTuple{loc: toLoc(pp.Loc), Elems: elems}
	case ast.PatDefault:
		return &PatDefault{loc: toLoc(pp.Loc)}
	default:
		e.fail(ast.Loc{}, "unsupported flow-binding pattern kind %T", p)
		return &PatDefault{}
	}
}

func (e *lowerEnv) lowerFlowCall(v ast.FlowCall) *FlowCall {
	compID, ok := e.compIDs[v.Component]
	if !ok {
		e.fail(v.Loc, "reference to unknown component %q", v.Component)
	}
	var args []FlowExpr
	for _, a := range v.Args {
		args = append(args, e.lowerFlowExpr(a))
	}
	return &FlowCall{loc: toLoc(v.Loc), Component: compID, Args: args}
}

func (e *lowerEnv) lowerFlowExpr(x ast.FlowExpr) FlowExpr {
	switch v := x.(type) {
	case ast.FlowIdent:
		id, ok := e.resolveIdent(v.Name)
		if !ok {
			e.fail(v.Loc, "reference to unbound flow %q", v.Name)
			return NewFlowIdentAt(toLoc(v.Loc), 0)
		}
		return NewFlowIdentAt(toLoc(v.Loc), id)
	case ast.FlowSample:
		return &FlowSample{loc: toLoc(v.Loc), Src: e.lowerFlowExpr(v.Src), PeriodMs: v.PeriodMs}
	case ast.FlowScan:
		return &FlowScan{loc: toLoc(v.Loc), Src: e.lowerFlowExpr(v.Src), PeriodMs: v.PeriodMs}
	case ast.FlowThrottle:
		return &FlowThrottle{loc: toLoc(v.Loc), Src: e.lowerFlowExpr(v.Src), Delta: e.lowerExpr(v.Delta)}
	case ast.FlowTimeout:
		return &FlowTimeout{loc: toLoc(v.Loc), Src: e.lowerFlowExpr(v.Src), DeadlineMs: v.DeadlineMs}
	case ast.FlowOnChange:
		return &FlowOnChange{loc: toLoc(v.Loc), Src: e.lowerFlowExpr(v.Src)}
	case ast.FlowMerge:
		return &FlowMerge{loc: toLoc(v.Loc), Left: e.lowerFlowExpr(v.Left), Right: e.lowerFlowExpr(v.Right)}
	case ast.FlowCall:
		return e.lowerFlowCall(v)
	default:
		e.fail(ast.Loc{}, "unhandled flow expression kind %T", x)
		return NewFlowIdentAt(Loc{}, 0)
	}
}
