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

// Package ir0 is the canonical, symbol-resolved form that AST→IR0
// lowering produces (spec.md §4.B) and that every later pass (types,
// depgraph, schedule, service, codemodel) consumes. Every expression node
// carries a one-shot type cell filled by package types' Checker; ir0
// itself stays agnostic of the concrete Typ variants (it only knows the
// symtab.Typ marker interface) so that types can depend on ir0 without a
// import cycle back the other way.
package ir0

import "github.com/langrust/grust-sub007/symtab"

// Loc is re-declared locally, same shape as ast.Loc/diag.Loc, to keep
// package boundaries acyclic; lowering copies the byte span across.
type Loc struct {
	Start, End int
}

// typed is embedded in every Expr variant to provide the one-shot `typ?`
// cell of spec.md §4.C ("filled once by typ_check").
type typed struct {
	loc Loc
	typ symtab.Typ
}

func (t *typed) Loc() Loc { return t.loc }

// GetType returns the cached type, or nil if SetType has not been called
// yet.
func (t *typed) GetType() symtab.Typ { return t.typ }

// SetType fills the one-shot type cell. Calling it twice is a compiler
// bug (the checker is supposed to visit each node exactly once), so it
// panics rather than returning an error that every call site would have
// to thread through.
func (t *typed) SetType(ty symtab.Typ) {
	if t.typ != nil {
		panic("ir0: type already set")
	}
	t.typ = ty
}

// Expr is the closed sum type of equation right-hand sides.
type Expr interface {
	Loc() Loc
	GetType() symtab.Typ
	SetType(symtab.Typ)
	exprNode()
}

type IntLit struct {
	typed
	Val int64
}

type FloatLit struct {
	typed
	Val float64
}

type BoolLit struct {
	typed
	Val bool
}

type UnitLit struct{ typed }

// Ident references a resolved symbol: a signal, local, flow or SMEvent
// pattern binding.
type Ident struct {
	typed
	ID symtab.ID
}

// Call applies a resolved Function symbol (builtin operator or
// user-defined pure map) to arguments.
type Call struct {
	typed
	Func symtab.ID
	Args []Expr
}

// NodeCall invokes a component; Pattern (set by the enclosing Statement)
// receives its outputs. EventArg, if non-nil, is the event expression
// supplying the component's event-enum input.
type NodeCall struct {
	typed
	Component symtab.ID
	Args      []Expr
	EventArg  Expr
}

// Fby is the unit-delay operator `Init fby ID`. ID must resolve to a
// Signal whose Scope is not VeryLocal (spec.md §3, §8 invariant 2).
type Fby struct {
	typed
	ID   symtab.ID
	Init Expr
}

type Sample struct {
	typed
	Src      Expr
	PeriodMs uint64
}

type Scan struct {
	typed
	Src      Expr
	PeriodMs uint64
}

type Throttle struct {
	typed
	Src   Expr
	Delta Expr
}

type Timeout struct {
	typed
	Src        Expr
	DeadlineMs uint64
}

type OnChange struct {
	typed
	Src Expr
}

type Merge struct {
	typed
	Left, Right Expr
}

type RisingEdge struct {
	typed
	Src Expr
}

type TupleExpr struct {
	typed
	Elems []Expr
}

type ArrayExpr struct {
	typed
	Elems []Expr
}

type Zip struct {
	typed
	Arrays []Expr
}

type FieldAccess struct {
	typed
	Base  Expr
	Field string
}

type Index struct {
	typed
	Base Expr
	Idx  Expr
}

type StructLit struct {
	typed
	Struct symtab.ID
	Fields map[string]Expr
}

type EnumLit struct {
	typed
	Element symtab.ID
	Value   Expr
}

// MatchArm is a single arm of a Match expression. Guard is nil if
// unguarded. Bound carries the ids the pattern introduces (VeryLocal
// signals, spec.md §3), in declaration order.
type MatchArm struct {
	Pat   Pattern
	Bound []symtab.ID
	Guard Expr
	Body  Expr
}

type Match struct {
	typed
	Scrutinee Expr
	Arms      []MatchArm
}

// Lambda captures outer signal references; its dependency contribution is
// exactly its captured id set (spec.md §4.D).
type Lambda struct {
	typed
	Captured []symtab.ID
	Body     Expr
}

func (*IntLit) exprNode()      {}
func (*FloatLit) exprNode()    {}
func (*BoolLit) exprNode()     {}
func (*UnitLit) exprNode()     {}
func (*Ident) exprNode()       {}
func (*Call) exprNode()        {}
func (*NodeCall) exprNode()    {}
func (*Fby) exprNode()         {}
func (*Sample) exprNode()      {}
func (*Scan) exprNode()        {}
func (*Throttle) exprNode()    {}
func (*Timeout) exprNode()     {}
func (*OnChange) exprNode()    {}
func (*Merge) exprNode()       {}
func (*RisingEdge) exprNode()  {}
func (*TupleExpr) exprNode()   {}
func (*ArrayExpr) exprNode()   {}
func (*Zip) exprNode()         {}
func (*FieldAccess) exprNode() {}
func (*Index) exprNode()       {}
func (*StructLit) exprNode()   {}
func (*EnumLit) exprNode()     {}
func (*Match) exprNode()       {}
func (*Lambda) exprNode()      {}

// NewAt constructs the typed embed for a node at loc; lowering uses this
// to stamp every node it builds.
func NewAt(loc Loc) typed { return typed{loc: loc} }
