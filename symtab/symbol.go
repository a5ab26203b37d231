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

package symtab

// Typ is the minimal contract symtab needs from the type system: enough
// to store a type against a symbol and print it in errors, without
// symtab importing the types package (which itself needs to refer back
// to symbol ids for Structure/Enumeration/Function symbols). Concrete
// variants live in package types and satisfy this interface.
type Typ interface {
	TypString() string
}

// Symbol is the full record associated with an ID: its kind-specific
// payload, declared name and source location.
type Symbol struct {
	ID   ID
	Name string
	Loc  Loc
	Kind KindTag

	// exactly one of the following is meaningful, selected by Kind.
	Signal              *SignalInfo
	Flow                *FlowInfo
	Event               *EventInfo
	EventElement        *EventElementInfo
	EventEnumeration    *EventEnumerationInfo
	Function            *FunctionInfo
	Component           *ComponentInfo
	Structure           *StructureInfo
	Enumeration         *EnumerationInfo
	EnumerationElement  *EnumerationElementInfo
	Array               *ArrayInfo
}

// SignalInfo backs KindSignal. VeryLocal is only legal inside match arms
// and is rejected as the target of fby (spec.md §3).
type SignalInfo struct {
	Scope Scope
	Typ   Typ
}

// FlowInfo backs KindFlow: an external/interface-level signal or event.
type FlowInfo struct {
	Path     []string // qualified name, nil for a purely local flow
	Kind     FlowKind
	Periodic bool
	Deadline bool
	Typ      Typ
}

// EventInfo backs KindEvent.
type EventInfo struct{}

// EventElementInfo backs KindEventElement.
type EventElementInfo struct {
	EnumName string
	Typ      Typ
}

// EventEnumerationInfo backs KindEventEnumeration.
type EventEnumerationInfo struct {
	EventID  ID
	Elements []ID
}

// FunctionInfo backs KindFunction: pure map operators, including the
// built-in unary/binary/ternary operators installed at Table
// initialization.
type FunctionInfo struct {
	Inputs  []ID
	OutTyp  Typ
	Typ     Typ
	Builtin bool
	// Scheme, when non-nil, is the polymorphic operator scheme applied at
	// each call site instead of a single monomorphic Typ. Declared as
	// `any` here to avoid an import of package types; the types package
	// type-asserts it back to *types.Scheme.
	Scheme any
}

// ComponentInfo backs KindComponent.
type ComponentInfo struct {
	Inputs     []ID
	EventEnum  *ID
	Outputs    []NamedID
	Locals     map[string]ID
	PeriodMs   *uint64
}

// NamedID pairs a declared name with its id, used for component outputs
// (spec.md §3: "outputs: [(name, id)]").
type NamedID struct {
	Name string
	ID   ID
}

// Field is a structure field: a name and its type. Fields are not
// themselves symbol-table entries (spec.md §3 leaves their exact
// representation open) — they're only ever looked up by name within the
// scope of their owning Structure, so a plain descriptor avoids polluting
// the global id space with entries no other pass ever references by id.
type Field struct {
	Name string
	Typ  Typ
}

// StructureInfo backs KindStructure.
type StructureInfo struct {
	Fields []Field
}

// EnumerationInfo backs KindEnumeration.
type EnumerationInfo struct {
	Elements []ID
}

// EnumerationElementInfo backs KindEnumerationElement.
type EnumerationElementInfo struct {
	EnumName string
}

// ArrayInfo backs KindArray.
type ArrayInfo struct {
	ElemTyp Typ
	Size    int
}

// --- typed getters (spec.md §4.A) ---

// TypeOf returns the type of a signal, flow, event-element or array
// symbol. It panics if id does not carry a type, which is a compiler bug
// (callers are expected to know the kind of the id they're asking about).
func (t *Table) TypeOf(id ID) Typ {
	s := t.Symbol(id)
	switch s.Kind {
	case KindSignal:
		return s.Signal.Typ
	case KindFlow:
		return s.Flow.Typ
	case KindEventElement:
		return s.EventElement.Typ
	case KindArray:
		return s.Array.ElemTyp
	case KindFunction:
		return s.Function.Typ
	default:
		panic("symtab: TypeOf on untyped symbol kind " + s.Kind.String())
	}
}

// NameOf is declared in symtab.go.

// FlowKindOf returns the FlowKind of a Flow symbol.
func (t *Table) FlowKindOf(id ID) FlowKind {
	return t.Symbol(id).Flow.Kind
}

// NodeInputsOf returns a component's declared inputs.
func (t *Table) NodeInputsOf(id ID) []ID {
	return t.Symbol(id).Component.Inputs
}

// NodeOutputsOf returns a component's declared outputs.
func (t *Table) NodeOutputsOf(id ID) []NamedID {
	return t.Symbol(id).Component.Outputs
}

// NodePeriodOf returns a component's period in milliseconds, if periodic.
func (t *Table) NodePeriodOf(id ID) (uint64, bool) {
	p := t.Symbol(id).Component.PeriodMs
	if p == nil {
		return 0, false
	}
	return *p, true
}

// NodeEventEnumOf returns a component's event enumeration id, if it has
// one.
func (t *Table) NodeEventEnumOf(id ID) (ID, bool) {
	e := t.Symbol(id).Component.EventEnum
	if e == nil {
		return 0, false
	}
	return *e, true
}

// IsFunction reports whether id names a Function symbol.
func (t *Table) IsFunction(id ID) bool {
	return t.Symbol(id).Kind == KindFunction
}

// FieldType looks up the type of a named field of a Structure symbol.
func (t *Table) FieldType(structID ID, name string) (Typ, bool) {
	s := t.Symbol(structID)
	if s.Kind != KindStructure {
		return nil, false
	}
	for _, f := range s.Structure.Fields {
		if f.Name == name {
			return f.Typ, true
		}
	}
	return nil, false
}

// IsTimeFlow reports whether id names a Flow of type Time (periodic
// timer / timeout ticks are modeled as Time-typed flows upstream).
func (t *Table) IsTimeFlow(id ID) bool {
	s := t.Symbol(id)
	if s.Kind != KindFlow {
		return false
	}
	return s.Flow.Typ != nil && s.Flow.Typ.TypString() == "time"
}

// --- monotone setters: each fails if the attribute was already set ---

// SetType sets a signal/flow/event-element's type exactly once. Any other
// symbol kind panics.
func (t *Table) SetType(id ID, typ Typ) error {
	s := t.Symbol(id)
	switch s.Kind {
	case KindSignal:
		if s.Signal.Typ != nil {
			return ErrAlreadySet
		}
		s.Signal.Typ = typ
	case KindFlow:
		if s.Flow.Typ != nil {
			return ErrAlreadySet
		}
		s.Flow.Typ = typ
	case KindEventElement:
		if s.EventElement.Typ != nil {
			return ErrAlreadySet
		}
		s.EventElement.Typ = typ
	default:
		panic("symtab: SetType on symbol kind that has no single Typ slot: " + s.Kind.String())
	}
	return nil
}

// SetScope sets a signal's storage scope. Unlike the other setters it
// does not detect an earlier assignment: it always succeeds and a later
// call overwrites the scope set by an earlier one.
func (t *Table) SetScope(id ID, scope Scope) error {
	s := t.Symbol(id)
	if s.Kind != KindSignal {
		panic("symtab: SetScope on non-signal")
	}
	s.Signal.Scope = scope
	return nil
}

// SetPath sets a flow's qualified path exactly once.
func (t *Table) SetPath(id ID, path []string) error {
	s := t.Symbol(id)
	if s.Kind != KindFlow {
		panic("symtab: SetPath on non-flow")
	}
	if s.Flow.Path != nil {
		return ErrAlreadySet
	}
	s.Flow.Path = path
	return nil
}

// SetArrayType sets an array symbol's element type exactly once.
func (t *Table) SetArrayType(id ID, elem Typ) error {
	s := t.Symbol(id)
	if s.Kind != KindArray {
		panic("symtab: SetArrayType on non-array")
	}
	if s.Array.ElemTyp != nil {
		return ErrAlreadySet
	}
	s.Array.ElemTyp = elem
	return nil
}

// SetFieldType sets the type of a named field of a Structure symbol
// exactly once. It fails with ErrUnknown if no such field is declared.
func (t *Table) SetFieldType(structID ID, name string, typ Typ) error {
	s := t.Symbol(structID)
	if s.Kind != KindStructure {
		panic("symtab: SetFieldType on non-structure")
	}
	for i, f := range s.Structure.Fields {
		if f.Name != name {
			continue
		}
		if f.Typ != nil {
			return ErrAlreadySet
		}
		s.Structure.Fields[i].Typ = typ
		return nil
	}
	return ErrUnknown
}

// SetFunctionOutputType sets a function symbol's output type exactly
// once, and if every input already has a type, also derives and sets the
// function's overall arrow type.
func (t *Table) SetFunctionOutputType(id ID, out Typ, arrow func(ins []Typ, out Typ) Typ) error {
	s := t.Symbol(id)
	if s.Kind != KindFunction {
		panic("symtab: SetFunctionOutputType on non-function")
	}
	if s.Function.OutTyp != nil {
		return ErrAlreadySet
	}
	s.Function.OutTyp = out
	if arrow != nil {
		ins := make([]Typ, len(s.Function.Inputs))
		complete := true
		for i, in := range s.Function.Inputs {
			it := t.TypeOf(in)
			if it == nil {
				complete = false
				break
			}
			ins[i] = it
		}
		if complete {
			s.Function.Typ = arrow(ins, out)
		}
	}
	return nil
}
