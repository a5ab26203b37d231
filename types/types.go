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

// Package types implements the structural type system of spec.md §3/§4.C:
// primitive and compound Typ variants, Signal/Event/SMEvent stream kinds,
// polymorphic operator schemes, and the bottom-up checker that applies
// them to IR0 expressions.
package types

import (
	"fmt"
	"strings"

	"github.com/langrust/grust-sub007/symtab"
)

// Typ is the sum type of spec.md §3. Every variant below implements it;
// the set is closed, so callers type-switch rather than adding methods
// per concern (spec.md §9, "prefer sum types, avoid virtual dispatch").
type Typ interface {
	symtab.Typ
	isTyp()
}

type primitive struct{ name string }

func (p primitive) TypString() string { return p.name }
func (primitive) isTyp()              {}

var (
	Int   Typ = primitive{"int"}
	Float Typ = primitive{"float"}
	Bool  Typ = primitive{"bool"}
	Time  Typ = primitive{"time"}
	Unit  Typ = primitive{"unit"}
	// AnyType unifies with anything; used for none-events (spec.md §3).
	AnyType Typ = primitive{"any"}
)

// Tuple is a fixed-length heterogeneous product type.
type Tuple struct{ Elems []Typ }

func (t Tuple) isTyp() {}
func (t Tuple) TypString() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.TypString()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Array is a fixed-size homogeneous sequence type.
type Array struct {
	Elem Typ
	Size int
}

func (a Array) isTyp()              {}
func (a Array) TypString() string   { return fmt.Sprintf("[%s; %d]", a.Elem.TypString(), a.Size) }

// Structure is a nominal product type; ID refers back to its Structure
// symbol in the symbol table.
type Structure struct {
	Name string
	ID   symtab.ID
}

func (s Structure) isTyp()            {}
func (s Structure) TypString() string { return s.Name }

// Enumeration is a nominal sum type; ID refers back to its Enumeration
// symbol.
type Enumeration struct {
	Name string
	ID   symtab.ID
}

func (e Enumeration) isTyp()            {}
func (e Enumeration) TypString() string { return e.Name }

// Signal wraps a type as an always-present stream.
type Signal struct{ Elem Typ }

func (s Signal) isTyp()            {}
func (s Signal) TypString() string { return "signal<" + s.Elem.TypString() + ">" }

// Event wraps a type as a stream that carries a value only on firing.
type Event struct{ Elem Typ }

func (e Event) isTyp()            {}
func (e Event) TypString() string { return "event<" + e.Elem.TypString() + ">" }

// SMEvent is the internal "optional-event" type used by match arms over
// events (`Some(p)` / `None` patterns, spec.md §4.C).
type SMEvent struct{ Elem Typ }

func (e SMEvent) isTyp()            {}
func (e SMEvent) TypString() string { return "sm_event<" + e.Elem.TypString() + ">" }

// Function is the arrow type of a pure map operator.
type Function struct {
	Args []Typ
	Out  Typ
}

func (f Function) isTyp() {}
func (f Function) TypString() string {
	parts := make([]string, len(f.Args))
	for i, a := range f.Args {
		parts[i] = a.TypString()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + f.Out.TypString()
}

// Equal reports whether two types are structurally identical, treating
// AnyType as unifying with anything (spec.md §3).
func Equal(a, b Typ) bool {
	if a == AnyType || b == AnyType {
		return true
	}
	switch av := a.(type) {
	case primitive:
		bv, ok := b.(primitive)
		return ok && av.name == bv.name
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case Array:
		bv, ok := b.(Array)
		return ok && av.Size == bv.Size && Equal(av.Elem, bv.Elem)
	case Structure:
		bv, ok := b.(Structure)
		return ok && av.ID == bv.ID
	case Enumeration:
		bv, ok := b.(Enumeration)
		return ok && av.ID == bv.ID
	case Signal:
		bv, ok := b.(Signal)
		return ok && Equal(av.Elem, bv.Elem)
	case Event:
		bv, ok := b.(Event)
		return ok && Equal(av.Elem, bv.Elem)
	case SMEvent:
		bv, ok := b.(SMEvent)
		return ok && Equal(av.Elem, bv.Elem)
	case Function:
		bv, ok := b.(Function)
		if !ok || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return Equal(av.Out, bv.Out)
	default:
		return false
	}
}

// Convert is the kind-erasing conversion used at component-call sites
// (spec.md §4.C): it strips one layer of Signal/Event wrapping so that a
// caller's plain-valued argument can satisfy a Signal- or Event-typed
// input, and vice versa via RevConvert. Conversion never changes the
// carried element type, only the signal/event wrapper.
func Convert(t Typ) Typ {
	switch v := t.(type) {
	case Signal:
		return v.Elem
	case Event:
		return v.Elem
	default:
		return t
	}
}

// RevConvert re-wraps a plain type to match the declared kind of an
// input (Signal or Event), used when checking a component call argument
// against its declared input type.
func RevConvert(declared, arg Typ) Typ {
	switch declared.(type) {
	case Signal:
		if _, ok := arg.(Signal); !ok {
			return Signal{Elem: arg}
		}
	case Event:
		if _, ok := arg.(Event); !ok {
			return Event{Elem: arg}
		}
	}
	return arg
}
