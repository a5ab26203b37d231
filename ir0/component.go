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
	"github.com/langrust/grust-sub007/ast"
	"github.com/langrust/grust-sub007/symtab"
)

// Statement is one equation `pattern = expr`.
type Statement struct {
	Loc     Loc
	Pattern Pattern
	Expr    Expr
}

// Contract holds requires/ensures clauses (SPEC_FULL.md §4.B supplement).
type Contract struct {
	Requires []Expr
	Ensures  []Expr
}

// Component is a lowered `node` declaration. ID is its symtab.Component
// symbol id; Statements is in declaration order until schedule.TopoSort
// reorders a copy of it for execution.
type Component struct {
	ID         symtab.ID
	Statements []Statement
	Contract   Contract
}

// FunctionDef is a lowered pure map operator with a body expression
// (builtins have no body — they carry a Scheme instead, see
// types.InstallSchemes).
type FunctionDef struct {
	ID   symtab.ID
	Body Expr
}

// TypeAnnotation records a surface-syntax type expression recovered
// during lowering for a symbol that no equation ever assigns a type to
// (component/function parameters, component outputs, event elements,
// service flows): the Checker resolves these before checking any body so
// that a bare reference to e.g. a component input isn't reported as
// "referenced before its type is known" (spec.md §4.C).
type TypeAnnotation struct {
	ID  symtab.ID
	Typ ast.TypeExpr
}

// FieldAnnotation is a TypeAnnotation for a structure field, which has no
// symtab.ID of its own (spec.md §3: fields are looked up by name within
// their owning Structure, not registered as symbols).
type FieldAnnotation struct {
	Struct symtab.ID
	Field  string
	Typ    ast.TypeExpr
}

// Program is the root of a lowered source file.
type Program struct {
	Functions  []FunctionDef
	Components []Component
	Services   []Service

	// TypeAnnotations covers every declared parameter/output/event-element/
	// flow type recovered from the surface syntax; FunctionOutputAnnotations
	// is kept separate because it resolves through
	// symtab.Table.SetFunctionOutputType rather than SetType.
	TypeAnnotations           []TypeAnnotation
	FunctionOutputAnnotations []TypeAnnotation
	FieldAnnotations          []FieldAnnotation
}
