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

// Package symtab implements the typed, scoped symbol table of spec.md
// §4.A: a dense, monotonically assigned id for every name in the program,
// tagged with a kind and looked up through a stack of scoped maps.
package symtab

import "fmt"

// ID is a process-local opaque identifier. Ids are dense, monotonically
// assigned by Table.FreshID, and never reused.
type ID uint32

// Loc is re-declared locally rather than imported from diag so that
// symtab has no dependency on the diagnostics package; callers convert.
type Loc struct {
	Start, End int
}

// KindTag discriminates the kind of a symbol for scoping purposes. It
// collapses a Symbol's inner variant fields away: two symbols with the
// same KindTag and name collide in the same scope, regardless of what
// their kind-specific payload holds.
type KindTag int

const (
	KindSignal KindTag = iota
	KindFlow
	KindEvent
	KindEventElement
	KindEventEnumeration
	KindFunction
	KindComponent
	KindStructure
	KindEnumeration
	KindEnumerationElement
	KindArray
)

func (k KindTag) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindFlow:
		return "flow"
	case KindEvent:
		return "event"
	case KindEventElement:
		return "event-element"
	case KindEventEnumeration:
		return "event-enumeration"
	case KindFunction:
		return "function"
	case KindComponent:
		return "component"
	case KindStructure:
		return "structure"
	case KindEnumeration:
		return "enumeration"
	case KindEnumerationElement:
		return "enumeration-element"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Scope is the storage class of a Signal symbol.
type Scope int

const (
	Input Scope = iota
	Output
	Local
	VeryLocal
)

func (s Scope) String() string {
	switch s {
	case Input:
		return "input"
	case Output:
		return "output"
	case Local:
		return "local"
	case VeryLocal:
		return "very-local"
	default:
		return "?"
	}
}

// FlowKind distinguishes a Flow symbol's stream discipline.
type FlowKind int

const (
	FlowSignal FlowKind = iota
	FlowEvent
)

// symKey is the discriminated lookup key of §4.A: (kind tag, name),
// optionally qualified by an owning enumeration for EnumerationElement and
// EventElement symbols, which are namespaced per enum.
type symKey struct {
	kind KindTag
	name string
	ns   string // owning enum/struct name, empty for unqualified symbols
}

// scope is one frame of the lookup stack. Insertion always targets the
// top frame; lookup walks the stack toward the root unless restricted to
// the top frame only ("local").
type scope struct {
	table  map[symKey]ID
	parent *scope
}

func newScope(parent *scope) *scope {
	return &scope{table: make(map[symKey]ID), parent: parent}
}

func (s *scope) get(k symKey, localOnly bool) (ID, bool) {
	if id, ok := s.table[k]; ok {
		return id, true
	}
	if localOnly || s.parent == nil {
		return 0, false
	}
	return s.parent.get(k, false)
}

// Errors returned by Table operations. They are deliberately untyped
// sentinels distinct from diag.Kind: callers convert at the pass boundary
// where a source location is available to attach.
var (
	ErrAlreadyDefined = fmt.Errorf("symbol already defined")
	ErrUnknown        = fmt.Errorf("unknown symbol")
	ErrAlreadySet     = fmt.Errorf("attribute already set")
)

// Table is the one owning store of program symbols. Graphs, patterns and
// expressions elsewhere in the compiler reference Table entries by ID,
// never by pointer into Table itself (spec.md §9, "Arena + indices").
type Table struct {
	symbols map[ID]*Symbol
	fresh   ID
	top     *scope
	current *ID // current component being lowered, for VeryLocal checks
}

// New creates a Table with the global scope populated with the built-in
// unary/binary/ternary operators (spec.md §4.A invariant (iii)).
func New() *Table {
	t := &Table{
		symbols: make(map[ID]*Symbol),
		top:     newScope(nil),
	}
	installBuiltinOperators(t)
	return t
}

// FreshID allocates a new dense id. It is exported so lowering
// code can mint ids before a Symbol payload is fully known (e.g. forward
// references created while walking a recursive pattern).
func (t *Table) FreshID() ID {
	t.fresh++
	return t.fresh
}

// LocalScope pushes a nested scope frame; insertions target it until the
// matching LeaveScope.
func (t *Table) LocalScope() {
	t.top = newScope(t.top)
}

// LeaveScope pops the most recently pushed scope frame. It panics if
// called without a matching LocalScope, which would indicate a compiler
// bug (unbalanced scope push/pop), not a user-facing error.
func (t *Table) LeaveScope() {
	if t.top.parent == nil {
		panic("symtab: LeaveScope without matching LocalScope")
	}
	t.top = t.top.parent
}

// EnterComponent records which component is currently being lowered so
// VeryLocal-scope validity checks (fby on a VeryLocal id is illegal) can
// be enforced without threading the component id through every call.
func (t *Table) EnterComponent(id ID) (leave func()) {
	prev := t.current
	t.current = &id
	return func() { t.current = prev }
}

// CurrentComponent returns the component currently being lowered, if any.
func (t *Table) CurrentComponent() (ID, bool) {
	if t.current == nil {
		return 0, false
	}
	return *t.current, true
}

func key(kind KindTag, name, ns string) symKey {
	return symKey{kind: kind, name: name, ns: ns}
}

// insertAt allocates a fresh id, registers it in the given scope frame
// under key k, and stores sym against that id.
func (t *Table) insertAt(s *scope, k symKey, sym *Symbol) (ID, error) {
	if _, ok := s.table[k]; ok {
		return 0, ErrAlreadyDefined
	}
	id := t.FreshID()
	s.table[k] = id
	sym.ID = id
	sym.Name = k.name
	sym.Kind = k.kind
	t.symbols[id] = sym
	return id, nil
}

// Insert registers a new symbol in the current top scope frame and sets
// its ID, Name and Kind. It fails with ErrAlreadyDefined if the exact
// (kind, name, ns) key already exists in that frame.
func (t *Table) Insert(kind KindTag, name string, sym *Symbol) (ID, error) {
	return t.insertAt(t.top, key(kind, name, ""), sym)
}

// InsertNS is Insert for symbols namespaced under an enclosing
// enumeration/structure (EnumerationElement, EventElement).
func (t *Table) InsertNS(kind KindTag, name, ns string, sym *Symbol) (ID, error) {
	return t.insertAt(t.top, key(kind, name, ns), sym)
}

// Lookup resolves (kind, name) against the scope stack. If local is true,
// only the top frame is consulted.
func (t *Table) Lookup(kind KindTag, name string, local bool) (ID, error) {
	if id, ok := t.top.get(key(kind, name, ""), local); ok {
		return id, nil
	}
	return 0, ErrUnknown
}

// LookupNS is Lookup for namespaced symbols.
func (t *Table) LookupNS(kind KindTag, name, ns string, local bool) (ID, error) {
	if id, ok := t.top.get(key(kind, name, ns), local); ok {
		return id, nil
	}
	return 0, ErrUnknown
}

// Symbol returns the full record for id. It panics on an unknown id: by
// construction every ID in the compiler originates from Table.Insert, so
// an unknown id here is a compiler bug, not a user error.
func (t *Table) Symbol(id ID) *Symbol {
	sym, ok := t.symbols[id]
	if !ok {
		panic(fmt.Sprintf("symtab: unknown id %d", id))
	}
	return sym
}

// NameOf returns the declared name of id.
func (t *Table) NameOf(id ID) string { return t.Symbol(id).Name }
