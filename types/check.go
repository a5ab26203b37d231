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

package types

import (
	"github.com/langrust/grust-sub007/ast"
	"github.com/langrust/grust-sub007/diag"
	"github.com/langrust/grust-sub007/ir0"
	"github.com/langrust/grust-sub007/symtab"
)

// Checker implements spec.md §4.C: a bottom-up pass over every ir0.Expr
// that fills each node's one-shot type cell and, as a side effect, the
// declared type of every Signal/Flow/EventElement/Function symbol it
// first encounters (the symbol table is the one place types persist
// across expressions).
type Checker struct {
	t    *symtab.Table
	sink *diag.Sink
}

// NewChecker creates a Checker reporting into sink.
func NewChecker(t *symtab.Table, sink *diag.Sink) *Checker {
	return &Checker{t: t, sink: sink}
}

func toDiagLoc(l ir0.Loc) diag.Loc     { return diag.Loc{Start: l.Start, End: l.End} }
func toDiagLocAst(l ast.Loc) diag.Loc  { return diag.Loc{Start: l.Start, End: l.End} }

// CheckProgram type-checks every function body, component equation and
// service flow expression in p. It accumulates every error it finds in
// the Checker's sink rather than stopping at the first one (spec.md §7:
// diagnostics are collected, not fail-fast). It runs a resolution pre-pass
// first so that every declared parameter, output, event element, struct
// field and service flow already carries its surface-syntax type before
// any body is checked — otherwise a bare reference to e.g. a component
// input would be reported as referenced before its type is known.
func (c *Checker) CheckProgram(p *ir0.Program) {
	c.resolveAnnotations(p)
	for i := range p.Functions {
		c.checkFunction(&p.Functions[i])
	}
	for i := range p.Components {
		c.checkComponent(&p.Components[i])
	}
	for i := range p.Services {
		c.checkService(&p.Services[i])
	}
}

func (c *Checker) resolveAnnotations(p *ir0.Program) {
	for _, a := range p.TypeAnnotations {
		t := c.ResolveTypeExpr(a.Typ)
		if err := c.t.SetType(a.ID, t); err != nil {
			c.sink.Errorf(diag.Internal, diag.Loc{}, "%s: %v", c.t.NameOf(a.ID), err)
		}
	}
	for _, a := range p.FunctionOutputAnnotations {
		out := c.ResolveTypeExpr(a.Typ)
		_ = c.t.SetFunctionOutputType(a.ID, out, func(ins []symtab.Typ, o symtab.Typ) symtab.Typ {
			args := make([]Typ, len(ins))
			for i, in := range ins {
				args[i] = in.(Typ)
			}
			return Function{Args: args, Out: o.(Typ)}
		})
	}
	for _, a := range p.FieldAnnotations {
		t := c.ResolveTypeExpr(a.Typ)
		if err := c.t.SetFieldType(a.Struct, a.Field, t); err != nil {
			c.sink.Errorf(diag.Internal, diag.Loc{}, "field %s.%s: %v", c.t.NameOf(a.Struct), a.Field, err)
		}
	}
}

// ResolveTypeExpr lowers a surface-syntax type annotation to its concrete
// Typ, looking up named structure/enumeration types in the symbol table.
// It is the one place ast.TypeExpr is translated to a types.Typ — ir0
// cannot do this itself without importing package types, which would
// cycle back (types already imports ir0 for the Checker).
func (c *Checker) ResolveTypeExpr(te ast.TypeExpr) Typ {
	switch v := te.(type) {
	case ast.NamedType:
		switch v.Name {
		case "int":
			return Int
		case "float":
			return Float
		case "bool":
			return Bool
		case "time":
			return Time
		case "unit":
			return Unit
		}
		if id, err := c.t.Lookup(symtab.KindStructure, v.Name, false); err == nil {
			return Structure{Name: v.Name, ID: id}
		}
		if id, err := c.t.Lookup(symtab.KindEnumeration, v.Name, false); err == nil {
			return Enumeration{Name: v.Name, ID: id}
		}
		c.sink.Errorf(diag.UnknownType, toDiagLocAst(v.Loc), "unknown type %q", v.Name)
		return AnyType
	case ast.TupleType:
		elems := make([]Typ, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = c.ResolveTypeExpr(el)
		}
		return Tuple{Elems: elems}
	case ast.ArrayType:
		return Array{Elem: c.ResolveTypeExpr(v.Elem), Size: v.Size}
	case ast.SignalType:
		return Signal{Elem: c.ResolveTypeExpr(v.Elem)}
	case ast.EventType:
		return Event{Elem: c.ResolveTypeExpr(v.Elem)}
	default:
		c.sink.Errorf(diag.Internal, diag.Loc{}, "unhandled type expression kind %T", te)
		return AnyType
	}
}

func (c *Checker) checkFunction(fn *ir0.FunctionDef) {
	out := c.checkExpr(fn.Body)
	sym := c.t.Symbol(fn.ID)
	if sym.Function.OutTyp != nil {
		if declared, ok := sym.Function.OutTyp.(Typ); ok && !Equal(declared, out) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(fn.Body.Loc()), "function %s: body type %s does not match declared return type %s", sym.Name, out.TypString(), declared.TypString())
		}
		return
	}
	_ = c.t.SetFunctionOutputType(fn.ID, out, func(ins []symtab.Typ, o symtab.Typ) symtab.Typ {
		args := make([]Typ, len(ins))
		for i, in := range ins {
			args[i] = in.(Typ)
		}
		return Function{Args: args, Out: o.(Typ)}
	})
}

func (c *Checker) checkComponent(comp *ir0.Component) {
	for _, r := range comp.Contract.Requires {
		if t := c.checkExpr(r); !Equal(t, Bool) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(r.Loc()), "requires clause must be bool, got %s", t.TypString())
		}
	}
	for _, s := range comp.Statements {
		c.checkStatement(s)
	}
	for _, en := range comp.Contract.Ensures {
		if t := c.checkExpr(en); !Equal(t, Bool) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(en.Loc()), "ensures clause must be bool, got %s", t.TypString())
		}
	}
}

func (c *Checker) checkStatement(s ir0.Statement) {
	rhs := c.checkExpr(s.Expr)
	c.bindPattern(s.Pattern, rhs)
}

// bindPattern assigns t (or its destructured parts) to every signal the
// pattern introduces, reporting a mismatch if a previously-typed signal
// (e.g. a re-bound output) disagrees.
func (c *Checker) bindPattern(p ir0.Pattern, t Typ) {
	switch pp := p.(type) {
	case *ir0.PatIdent:
		c.bindSignal(pp.ID, t, p.Loc())
	case *ir0.PatTuple:
		tup, ok := t.(Tuple)
		if !ok || len(tup.Elems) != len(pp.Elems) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(p.Loc()), "pattern expects a %d-tuple, got %s", len(pp.Elems), t.TypString())
			return
		}
		for i, el := range pp.Elems {
			c.bindPattern(el, tup.Elems[i])
		}
	case *ir0.PatStruct:
		for _, f := range pp.Fields {
			ft, ok := c.t.FieldType(pp.Struct, f.Field)
			if !ok {
				c.sink.Errorf(diag.UnknownField, toDiagLoc(p.Loc()), "unknown field %q on structure %s", f.Field, c.t.NameOf(pp.Struct))
				continue
			}
			c.bindPattern(f.Pat, ft.(Typ))
		}
	case *ir0.PatSome:
		sm, ok := t.(SMEvent)
		if !ok {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(p.Loc()), "Some(...) pattern requires an sm_event, got %s", t.TypString())
			return
		}
		c.bindPattern(pp.Inner, sm.Elem)
	case *ir0.PatNone, *ir0.PatDefault:
		// bind nothing.
	}
}

func (c *Checker) bindSignal(id symtab.ID, t Typ, loc ir0.Loc) {
	existing := c.t.TypeOf(id)
	if existing == nil {
		if err := c.t.SetType(id, t); err != nil {
			c.sink.Errorf(diag.Internal, toDiagLoc(loc), "signal %s: %v", c.t.NameOf(id), err)
		}
		return
	}
	if ex, ok := existing.(Typ); !ok || !Equal(ex, t) {
		c.sink.Errorf(diag.TypeMismatch, toDiagLoc(loc), "signal %s redeclared with incompatible type %s (was %s)", c.t.NameOf(id), t.TypString(), existing.TypString())
	}
}

// checkExpr types x, stamps its cell, and returns the concrete Typ.
func (c *Checker) checkExpr(x ir0.Expr) Typ {
	if cached := x.GetType(); cached != nil {
		if t, ok := cached.(Typ); ok {
			return t
		}
	}
	t := c.infer(x)
	x.SetType(t)
	return t
}

func (c *Checker) infer(x ir0.Expr) Typ {
	switch v := x.(type) {
	case *ir0.IntLit:
		return Int
	case *ir0.FloatLit:
		return Float
	case *ir0.BoolLit:
		return Bool
	case *ir0.UnitLit:
		return Unit
	case *ir0.Ident:
		return c.identType(v.ID, v.Loc())
	case *ir0.Call:
		return c.checkCall(v)
	case *ir0.NodeCall:
		return c.checkNodeCall(v)
	case *ir0.Fby:
		return c.checkFby(v)
	case *ir0.Sample:
		// sample(e): e : Event(T) => Signal(T) (spec.md §4.C).
		src := c.checkExpr(v.Src)
		ev, ok := src.(Event)
		if !ok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "sample source must be an event, got %s", src.TypString())
			return Signal{Elem: AnyType}
		}
		return Signal{Elem: ev.Elem}
	case *ir0.Scan:
		// scan(e): e : Signal(T) => Event(T) (spec.md §4.C).
		src := c.checkExpr(v.Src)
		sg, ok := src.(Signal)
		if !ok {
			c.sink.Errorf(diag.ExpectSignal, toDiagLoc(v.Loc()), "scan source must be a signal, got %s", src.TypString())
			return Event{Elem: AnyType}
		}
		return Event{Elem: sg.Elem}
	case *ir0.Throttle:
		// throttle(e, delta): e : Signal(T), delta : T => Signal(T).
		src := c.checkExpr(v.Src)
		sg, ok := src.(Signal)
		if !ok {
			c.sink.Errorf(diag.ExpectSignal, toDiagLoc(v.Loc()), "throttle source must be a signal, got %s", src.TypString())
			return src
		}
		delta := c.checkExpr(v.Delta)
		if !Equal(delta, sg.Elem) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "throttle delta type %s does not match source element type %s", delta.TypString(), sg.Elem.TypString())
		}
		return src
	case *ir0.Timeout:
		// timeout(e, deadline_ms): e : Event(*) => Event(Unit).
		src := c.checkExpr(v.Src)
		if _, ok := src.(Event); !ok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "timeout source must be an event, got %s", src.TypString())
		}
		return Event{Elem: Unit}
	case *ir0.OnChange:
		// on_change(e): e : Signal(T) => Event(T).
		src := c.checkExpr(v.Src)
		sg, ok := src.(Signal)
		if !ok {
			c.sink.Errorf(diag.ExpectSignal, toDiagLoc(v.Loc()), "on_change source must be a signal, got %s", src.TypString())
			return Event{Elem: AnyType}
		}
		return Event{Elem: sg.Elem}
	case *ir0.Merge:
		// merge(e1, e2): both Event(T) same T => Event(T).
		l := c.checkExpr(v.Left)
		r := c.checkExpr(v.Right)
		le, lok := l.(Event)
		re, rok := r.(Event)
		if !lok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "merge operand must be an event, got %s", l.TypString())
			return r
		}
		if !rok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "merge operand must be an event, got %s", r.TypString())
			return l
		}
		if !Equal(le.Elem, re.Elem) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "merge operands differ: %s vs %s", l.TypString(), r.TypString())
		}
		return l
	case *ir0.RisingEdge:
		src := c.checkExpr(v.Src)
		if !Equal(Convert(src), Bool) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "rising_edge source must be bool, got %s", src.TypString())
		}
		return src
	case *ir0.TupleExpr:
		elems := make([]Typ, len(v.Elems))
		for i, el := range v.Elems {
			elems[i] = c.checkExpr(el)
		}
		return Tuple{Elems: elems}
	case *ir0.ArrayExpr:
		var elem Typ = AnyType
		for i, el := range v.Elems {
			t := c.checkExpr(el)
			if i == 0 {
				elem = t
			} else if !Equal(elem, t) {
				c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "array element %d type %s differs from %s", i, t.TypString(), elem.TypString())
			}
		}
		return Array{Elem: elem, Size: len(v.Elems)}
	case *ir0.Zip:
		var elems []Typ
		size := -1
		for _, a := range v.Arrays {
			t := c.checkExpr(a)
			arr, ok := t.(Array)
			if !ok {
				c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "zip operand is not an array: %s", t.TypString())
				continue
			}
			if size == -1 {
				size = arr.Size
			} else if size != arr.Size {
				c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "zip arrays have mismatched sizes %d and %d", size, arr.Size)
			}
			elems = append(elems, arr.Elem)
		}
		if size < 0 {
			size = 0
		}
		return Array{Elem: Tuple{Elems: elems}, Size: size}
	case *ir0.FieldAccess:
		base := c.checkExpr(v.Base)
		st, ok := base.(Structure)
		if !ok {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "field access on non-structure type %s", base.TypString())
			return AnyType
		}
		ft, ok := c.t.FieldType(st.ID, v.Field)
		if !ok {
			c.sink.Errorf(diag.UnknownField, toDiagLoc(v.Loc()), "unknown field %q on structure %s", v.Field, st.Name)
			return AnyType
		}
		return ft.(Typ)
	case *ir0.Index:
		base := c.checkExpr(v.Base)
		idx := c.checkExpr(v.Idx)
		if !Equal(idx, Int) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "array index must be int, got %s", idx.TypString())
		}
		arr, ok := base.(Array)
		if !ok {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "indexing non-array type %s", base.TypString())
			return AnyType
		}
		return arr.Elem
	case *ir0.StructLit:
		for name, fe := range v.Fields {
			ft, ok := c.t.FieldType(v.Struct, name)
			ft2 := c.checkExpr(fe)
			if !ok {
				c.sink.Errorf(diag.UnknownField, toDiagLoc(v.Loc()), "unknown field %q on structure %s", name, c.t.NameOf(v.Struct))
				continue
			}
			if !Equal(ft.(Typ), ft2) {
				c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "field %q: expected %s, got %s", name, ft.(Typ).TypString(), ft2.TypString())
			}
		}
		return Structure{Name: c.t.NameOf(v.Struct), ID: v.Struct}
	case *ir0.EnumLit:
		enumName := c.t.Symbol(v.Element).EnumerationElement.EnumName
		enumID, err := c.t.Lookup(symtab.KindEnumeration, enumName, false)
		if err != nil {
			c.sink.Errorf(diag.Internal, toDiagLoc(v.Loc()), "enum element %s has no owning enumeration", c.t.NameOf(v.Element))
			return AnyType
		}
		if v.Value != nil {
			c.checkExpr(v.Value)
		}
		return Enumeration{Name: enumName, ID: enumID}
	case *ir0.Match:
		scrut := c.checkExpr(v.Scrutinee)
		var result Typ
		for i, arm := range v.Arms {
			c.matchPatternAgainst(arm.Pat, scrut)
			if arm.Guard != nil {
				if g := c.checkExpr(arm.Guard); !Equal(g, Bool) {
					c.sink.Errorf(diag.TypeMismatch, toDiagLoc(arm.Guard.Loc()), "match guard must be bool, got %s", g.TypString())
				}
			}
			bt := c.checkExpr(arm.Body)
			if i == 0 {
				result = bt
			} else if !Equal(result, bt) {
				c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "match arm %d type %s differs from %s", i, bt.TypString(), result.TypString())
			}
		}
		if result == nil {
			result = Unit
		}
		return result
	case *ir0.Lambda:
		for _, id := range v.Captured {
			c.identType(id, v.Loc())
		}
		return Function{Args: nil, Out: c.checkExpr(v.Body)}
	default:
		c.sink.Errorf(diag.Internal, toDiagLoc(x.Loc()), "unhandled ir0 expression kind %T", x)
		return AnyType
	}
}

// matchPatternAgainst type-binds a match-arm pattern against the
// scrutinee's type, handling the Some/None destructuring of an sm_event
// scrutinee (spec.md §4.C).
func (c *Checker) matchPatternAgainst(p ir0.Pattern, scrut Typ) {
	switch pp := p.(type) {
	case *ir0.PatSome:
		sm, ok := scrut.(SMEvent)
		if !ok {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(p.Loc()), "Some(...) pattern requires an sm_event scrutinee, got %s", scrut.TypString())
			return
		}
		c.bindPattern(pp.Inner, sm.Elem)
	case *ir0.PatNone:
		// binds nothing.
	default:
		c.bindPattern(p, scrut)
	}
}

func (c *Checker) identType(id symtab.ID, loc ir0.Loc) Typ {
	existing := c.t.TypeOf(id)
	if existing == nil {
		c.sink.Errorf(diag.UntypedReference, toDiagLoc(loc), "reference to %s before its type is known", c.t.NameOf(id))
		return AnyType
	}
	t, ok := existing.(Typ)
	if !ok {
		c.sink.Errorf(diag.Internal, toDiagLoc(loc), "symbol %s carries a foreign type value", c.t.NameOf(id))
		return AnyType
	}
	return t
}

func (c *Checker) checkCall(v *ir0.Call) Typ {
	args := make([]Typ, len(v.Args))
	for i, a := range v.Args {
		args[i] = c.checkExpr(a)
	}
	if scheme := SchemeOf(c.t, v.Func); scheme != nil {
		out, err := scheme.Apply(args)
		if err != nil {
			c.sink.Errorf(diag.OperatorArgMismatch, toDiagLoc(v.Loc()), "%v", err)
			return AnyType
		}
		return out
	}
	sym := c.t.Symbol(v.Func)
	if sym.Function.OutTyp == nil {
		c.sink.Errorf(diag.UntypedReference, toDiagLoc(v.Loc()), "call to %s before its return type is known", sym.Name)
		return AnyType
	}
	return sym.Function.OutTyp.(Typ)
}

// checkNodeCall types a component instantiation (spec.md §4.C): each
// argument is structurally Convert'd down to the callee's declared
// element type, then RevConvert'd back up to the declared Signal/Event
// wrapper; outputs are returned as a Tuple in declaration order (or a
// bare type if there's exactly one).
func (c *Checker) checkNodeCall(v *ir0.NodeCall) Typ {
	inputs := c.t.NodeInputsOf(v.Component)
	for i, a := range v.Args {
		at := c.checkExpr(a)
		if i >= len(inputs) {
			c.sink.Errorf(diag.OperatorArgMismatch, toDiagLoc(v.Loc()), "too many arguments to component %s", c.t.NameOf(v.Component))
			continue
		}
		declared := c.t.TypeOf(inputs[i])
		if declared == nil {
			continue
		}
		dt := declared.(Typ)
		got := RevConvert(dt, Convert(at))
		if !Equal(dt, got) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(a.Loc()), "argument %d to %s: expected %s, got %s", i, c.t.NameOf(v.Component), dt.TypString(), at.TypString())
		}
	}
	if v.EventArg != nil {
		if enumID, ok := c.t.NodeEventEnumOf(v.Component); ok {
			_ = enumID
			c.checkExpr(v.EventArg)
		}
	}
	outputs := c.t.NodeOutputsOf(v.Component)
	if len(outputs) == 1 {
		t := c.t.TypeOf(outputs[0].ID)
		if t == nil {
			return AnyType
		}
		return t.(Typ)
	}
	elems := make([]Typ, len(outputs))
	for i, o := range outputs {
		t := c.t.TypeOf(o.ID)
		if t == nil {
			elems[i] = AnyType
			continue
		}
		elems[i] = t.(Typ)
	}
	return Tuple{Elems: elems}
}

// checkFby implements the one typing rule that mutates the symbol table
// directly rather than computing a pure result (spec.md §9): the delayed
// identifier's type becomes the initializer's type, unless it was already
// set by some other equation, in which case they must agree. It also
// enforces spec.md §3/§8 invariant 2: the delayed id must resolve to a
// Signal whose scope is not VeryLocal (a VeryLocal binding only exists
// for the lifetime of a single match arm and has no slot to persist
// across steps).
func (c *Checker) checkFby(v *ir0.Fby) Typ {
	init := c.checkExpr(v.Init)
	c.bindSignal(v.ID, init, v.Loc())
	if sym := c.t.Symbol(v.ID); sym.Signal != nil && sym.Signal.Scope == symtab.VeryLocal {
		c.sink.Errorf(diag.FbyOnVeryLocal, toDiagLoc(v.Loc()), "fby target %s is a very-local (match-arm) binding and cannot be delayed", c.t.NameOf(v.ID))
	}
	return init
}

// checkService types every flow statement of a service interface block in
// declaration order, mirroring checkComponent's statement walk (spec.md
// §4.F): each statement's flow expression is inferred, then its pattern is
// bound the same way an equation's pattern is.
func (c *Checker) checkService(svc *ir0.Service) {
	for _, s := range svc.Statements {
		switch st := s.(type) {
		case *ir0.FlowImport:
			// its type was already resolved by the annotation pre-pass.
		case *ir0.FlowExport:
			t := c.identType(st.ID, st.Loc())
			c.bindPattern(st.Pattern, t)
		case *ir0.FlowDeclaration:
			t := c.checkFlowExpr(st.Expr)
			c.bindPattern(st.Pattern, t)
		case *ir0.FlowInstantiation:
			t := c.checkFlowCall(st.Call)
			c.bindPattern(st.Pattern, t)
		default:
			c.sink.Errorf(diag.Internal, toDiagLoc(s.Loc()), "unhandled flow statement kind %T", s)
		}
	}
}

// checkFlowExpr is checkExpr's counterpart for the resolved flow-expression
// sum type (ir0.FlowExpr carries no type cell of its own — spec.md §4.F
// flow expressions are inferred fresh at each occurrence rather than
// cached, since a service has no equivalent of a component's shared
// expression graph).
func (c *Checker) checkFlowExpr(x ir0.FlowExpr) Typ {
	switch v := x.(type) {
	case *ir0.FlowIdent:
		return c.identType(v.ID, v.Loc())
	case *ir0.FlowSample:
		src := c.checkFlowExpr(v.Src)
		ev, ok := src.(Event)
		if !ok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "sample source must be an event, got %s", src.TypString())
			return Signal{Elem: AnyType}
		}
		return Signal{Elem: ev.Elem}
	case *ir0.FlowScan:
		src := c.checkFlowExpr(v.Src)
		sg, ok := src.(Signal)
		if !ok {
			c.sink.Errorf(diag.ExpectSignal, toDiagLoc(v.Loc()), "scan source must be a signal, got %s", src.TypString())
			return Event{Elem: AnyType}
		}
		return Event{Elem: sg.Elem}
	case *ir0.FlowThrottle:
		src := c.checkFlowExpr(v.Src)
		sg, ok := src.(Signal)
		if !ok {
			c.sink.Errorf(diag.ExpectSignal, toDiagLoc(v.Loc()), "throttle source must be a signal, got %s", src.TypString())
			return src
		}
		delta := c.checkExpr(v.Delta)
		if !Equal(delta, sg.Elem) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "throttle delta type %s does not match source element type %s", delta.TypString(), sg.Elem.TypString())
		}
		return src
	case *ir0.FlowTimeout:
		src := c.checkFlowExpr(v.Src)
		if _, ok := src.(Event); !ok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "timeout source must be an event, got %s", src.TypString())
		}
		return Event{Elem: Unit}
	case *ir0.FlowOnChange:
		src := c.checkFlowExpr(v.Src)
		sg, ok := src.(Signal)
		if !ok {
			c.sink.Errorf(diag.ExpectSignal, toDiagLoc(v.Loc()), "on_change source must be a signal, got %s", src.TypString())
			return Event{Elem: AnyType}
		}
		return Event{Elem: sg.Elem}
	case *ir0.FlowMerge:
		l := c.checkFlowExpr(v.Left)
		r := c.checkFlowExpr(v.Right)
		le, lok := l.(Event)
		re, rok := r.(Event)
		if !lok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "merge operand must be an event, got %s", l.TypString())
			return r
		}
		if !rok {
			c.sink.Errorf(diag.ExpectEvent, toDiagLoc(v.Loc()), "merge operand must be an event, got %s", r.TypString())
			return l
		}
		if !Equal(le.Elem, re.Elem) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(v.Loc()), "merge operands differ: %s vs %s", l.TypString(), r.TypString())
		}
		return l
	case *ir0.FlowCall:
		return c.checkFlowCall(v)
	default:
		c.sink.Errorf(diag.Internal, toDiagLoc(x.Loc()), "unhandled flow expression kind %T", x)
		return AnyType
	}
}

// checkFlowCall is checkNodeCall's counterpart for a service-level
// component instantiation.
func (c *Checker) checkFlowCall(v *ir0.FlowCall) Typ {
	inputs := c.t.NodeInputsOf(v.Component)
	for i, a := range v.Args {
		at := c.checkFlowExpr(a)
		if i >= len(inputs) {
			c.sink.Errorf(diag.OperatorArgMismatch, toDiagLoc(v.Loc()), "too many arguments to component %s", c.t.NameOf(v.Component))
			continue
		}
		declared := c.t.TypeOf(inputs[i])
		if declared == nil {
			continue
		}
		dt := declared.(Typ)
		got := RevConvert(dt, Convert(at))
		if !Equal(dt, got) {
			c.sink.Errorf(diag.TypeMismatch, toDiagLoc(a.Loc()), "argument %d to %s: expected %s, got %s", i, c.t.NameOf(v.Component), dt.TypString(), at.TypString())
		}
	}
	outputs := c.t.NodeOutputsOf(v.Component)
	if len(outputs) == 1 {
		t := c.t.TypeOf(outputs[0].ID)
		if t == nil {
			return AnyType
		}
		return t.(Typ)
	}
	elems := make([]Typ, len(outputs))
	for i, o := range outputs {
		t := c.t.TypeOf(o.ID)
		if t == nil {
			elems[i] = AnyType
			continue
		}
		elems[i] = t.(Typ)
	}
	return Tuple{Elems: elems}
}
