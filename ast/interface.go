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

// FlowExpr is the surface syntax for the right-hand side of a flow
// statement inside a `service` interface block.
type FlowExpr interface{ flowExprLoc() Loc }

type FlowIdent struct {
	Loc  Loc
	Name string
}

type FlowSample struct {
	Loc      Loc
	Src      FlowExpr
	PeriodMs uint64
}

type FlowScan struct {
	Loc      Loc
	Src      FlowExpr
	PeriodMs uint64
}

type FlowThrottle struct {
	Loc   Loc
	Src   FlowExpr
	Delta Expr
}

type FlowTimeout struct {
	Loc        Loc
	Src        FlowExpr
	DeadlineMs uint64
}

type FlowOnChange struct {
	Loc Loc
	Src FlowExpr
}

type FlowMerge struct {
	Loc   Loc
	Left  FlowExpr
	Right FlowExpr
}

// FlowCall instantiates a component, wiring each argument to a flow
// expression.
type FlowCall struct {
	Loc       Loc
	Component string
	Args      []FlowExpr
}

func (e FlowIdent) flowExprLoc() Loc    { return e.Loc }
func (e FlowSample) flowExprLoc() Loc   { return e.Loc }
func (e FlowScan) flowExprLoc() Loc     { return e.Loc }
func (e FlowThrottle) flowExprLoc() Loc { return e.Loc }
func (e FlowTimeout) flowExprLoc() Loc  { return e.Loc }
func (e FlowOnChange) flowExprLoc() Loc { return e.Loc }
func (e FlowMerge) flowExprLoc() Loc    { return e.Loc }
func (e FlowCall) flowExprLoc() Loc     { return e.Loc }

// FlowStmt is one statement of a service interface block.
type FlowStmt interface{ flowStmtLoc() Loc }

// FlowImport declares an external input flow.
type FlowImport struct {
	Loc  Loc
	Name string
	Path []string
	Typ  TypeExpr
}

// FlowExport declares an external output flow and the local pattern that
// feeds it.
type FlowExport struct {
	Loc     Loc
	Name    string
	Path    []string
	Typ     TypeExpr
	Pattern Pattern
}

// FlowDeclaration binds a local flow to a flow expression that is not a
// component call (sample/scan/throttle/timeout/on_change/merge/ident).
type FlowDeclaration struct {
	Loc     Loc
	Pattern Pattern
	Expr    FlowExpr
}

// FlowInstantiation binds a local flow (or tuple of flows) to a
// component-call flow expression.
type FlowInstantiation struct {
	Loc     Loc
	Pattern Pattern
	Call    FlowCall
}

func (s FlowImport) flowStmtLoc() Loc        { return s.Loc }
func (s FlowExport) flowStmtLoc() Loc        { return s.Loc }
func (s FlowDeclaration) flowStmtLoc() Loc   { return s.Loc }
func (s FlowInstantiation) flowStmtLoc() Loc { return s.Loc }

// Service is a top-level `service` interface declaration.
type Service struct {
	Loc        Loc
	Name       string
	DMinMs     uint64 // minimum processing delay (spec.md §4.F)
	TimeoutMs  uint64 // silent-period timeout
	Statements []FlowStmt
}

// Program is the root of a parsed source file (spec.md §1: "no separate
// compilation across files").
type Program struct {
	Imports    []Import
	Structs    []StructDef
	Enums      []EnumDef
	Functions  []FunctionDef
	Components []Component
	Services   []Service
}
