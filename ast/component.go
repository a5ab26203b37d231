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

package ast

// Statement is a single equation `pattern = expr`.
type Statement struct {
	Loc     Loc
	Pattern Pattern
	Expr    Expr
}

// Param is a declared component/function input.
type Param struct {
	Loc  Loc
	Name string
	Typ  TypeExpr
}

// EventArm declares one element of a component's event enumeration,
// matched at the component's input (spec.md §4.B).
type EventArm struct {
	Name string
	Typ  TypeExpr // nil for a value-less event element
}

// Contract holds the requires/ensures boolean clauses recovered from
// original_source (SPEC_FULL.md §4.B supplement); nil slices are legal
// (a component need not declare either).
type Contract struct {
	Requires []Expr
	Ensures  []Expr
}

// Component is a top-level `node` declaration.
type Component struct {
	Loc        Loc
	Name       string
	Inputs     []Param
	EventArms  []EventArm // empty if the component has no event input
	Outputs    []Param
	PeriodMs   *uint64
	Contract   Contract
	Statements []Statement
}

// FunctionDef is a top-level pure map operator.
type FunctionDef struct {
	Loc    Loc
	Name   string
	Inputs []Param
	OutTyp TypeExpr
	Body   Expr
}

// StructDef is a top-level structure type declaration.
type StructDef struct {
	Loc    Loc
	Name   string
	Fields []Param
}

// EnumDef is a top-level enumeration type declaration.
type EnumDef struct {
	Loc      Loc
	Name     string
	Elements []string
}

// Import declares a top-level import of an external component/function.
type Import struct {
	Loc  Loc
	Path []string
	Name string
}
