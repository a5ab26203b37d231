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

import "github.com/langrust/grust-sub007/symtab"

// FlowExpr is the resolved right-hand side of a flow statement.
type FlowExpr interface {
	Loc() Loc
	flowExprNode()
}

type FlowIdent struct {
	loc Loc
	ID  symtab.ID
}

func (f *FlowIdent) Loc() Loc      { return f.loc }
func (*FlowIdent) flowExprNode()   {}

type FlowSample struct {
	loc      Loc
	Src      FlowExpr
	PeriodMs uint64
}

func (f *FlowSample) Loc() Loc    { return f.loc }
func (*FlowSample) flowExprNode() {}

type FlowScan struct {
	loc      Loc
	Src      FlowExpr
	PeriodMs uint64
}

func (f *FlowScan) Loc() Loc    { return f.loc }
func (*FlowScan) flowExprNode() {}

type FlowThrottle struct {
	loc   Loc
	Src   FlowExpr
	Delta Expr
}

func (f *FlowThrottle) Loc() Loc    { return f.loc }
func (*FlowThrottle) flowExprNode() {}

type FlowTimeout struct {
	loc        Loc
	Src        FlowExpr
	DeadlineMs uint64
}

func (f *FlowTimeout) Loc() Loc    { return f.loc }
func (*FlowTimeout) flowExprNode() {}

type FlowOnChange struct {
	loc Loc
	Src FlowExpr
}

func (f *FlowOnChange) Loc() Loc    { return f.loc }
func (*FlowOnChange) flowExprNode() {}

type FlowMerge struct {
	loc         Loc
	Left, Right FlowExpr
}

func (f *FlowMerge) Loc() Loc    { return f.loc }
func (*FlowMerge) flowExprNode() {}

// FlowCall instantiates a component from the service interface.
type FlowCall struct {
	loc       Loc
	Component symtab.ID
	Args      []FlowExpr
}

func (f *FlowCall) Loc() Loc    { return f.loc }
func (*FlowCall) flowExprNode() {}

// FlowStmt is one statement of a service interface (spec.md §4.F).
type FlowStmt interface {
	Loc() Loc
	flowStmtNode()
}

// FlowImport declares an external input flow, or an internally
// synthesized timing event (sample/scan/timeout/throttle/period/delay/
// silence-timeout) injected by the service synthesizer (spec.md §4.F).
type FlowImport struct {
	loc       Loc
	ID        symtab.ID
	Synthetic bool
}

func (s *FlowImport) Loc() Loc    { return s.loc }
func (*FlowImport) flowStmtNode() {}

// FlowExport declares an external output flow fed by Pattern.
type FlowExport struct {
	loc     Loc
	ID      symtab.ID
	Pattern Pattern
}

func (s *FlowExport) Loc() Loc    { return s.loc }
func (*FlowExport) flowStmtNode() {}

// FlowDeclaration binds Pattern to a non-call flow expression.
type FlowDeclaration struct {
	loc     Loc
	Pattern Pattern
	Expr    FlowExpr
}

func (s *FlowDeclaration) Loc() Loc    { return s.loc }
func (*FlowDeclaration) flowStmtNode() {}

// FlowInstantiation binds Pattern to a component-call flow expression.
type FlowInstantiation struct {
	loc     Loc
	Pattern Pattern
	Call    *FlowCall
}

func (s *FlowInstantiation) Loc() Loc    { return s.loc }
func (*FlowInstantiation) flowStmtNode() {}

// Service is a lowered `service` interface block.
type Service struct {
	ID         symtab.ID
	Name       string
	DMinMs     uint64
	TimeoutMs  uint64
	Statements []FlowStmt
}

func NewFlowImportAt(loc Loc, id symtab.ID, synthetic bool) *FlowImport {
	return &FlowImport{loc: loc, ID: id, Synthetic: synthetic}
}

func NewFlowIdentAt(loc Loc, id symtab.ID) *FlowIdent { return &FlowIdent{loc: loc, ID: id} }

// The constructors below give sibling packages' tests the same fixture-
// building ability over FlowExpr/FlowStmt that ir0/build.go already gives
// them over Expr/Pattern.

func NewFlowSampleAt(loc Loc, src FlowExpr, periodMs uint64) *FlowSample {
	return &FlowSample{loc: loc, Src: src, PeriodMs: periodMs}
}

func NewFlowScanAt(loc Loc, src FlowExpr, periodMs uint64) *FlowScan {
	return &FlowScan{loc: loc, Src: src, PeriodMs: periodMs}
}

func NewFlowThrottleAt(loc Loc, src FlowExpr, delta Expr) *FlowThrottle {
	return &FlowThrottle{loc: loc, Src: src, Delta: delta}
}

func NewFlowTimeoutAt(loc Loc, src FlowExpr, deadlineMs uint64) *FlowTimeout {
	return &FlowTimeout{loc: loc, Src: src, DeadlineMs: deadlineMs}
}

func NewFlowOnChangeAt(loc Loc, src FlowExpr) *FlowOnChange {
	return &FlowOnChange{loc: loc, Src: src}
}

func NewFlowMergeAt(loc Loc, left, right FlowExpr) *FlowMerge {
	return &FlowMerge{loc: loc, Left: left, Right: right}
}

func NewFlowCallAt(loc Loc, component symtab.ID, args []FlowExpr) *FlowCall {
	return &FlowCall{loc: loc, Component: component, Args: args}
}

func NewFlowExportAt(loc Loc, id symtab.ID, pattern Pattern) *FlowExport {
	return &FlowExport{loc: loc, ID: id, Pattern: pattern}
}

func NewFlowDeclarationAt(loc Loc, pattern Pattern, expr FlowExpr) *FlowDeclaration {
	return &FlowDeclaration{loc: loc, Pattern: pattern, Expr: expr}
}

func NewFlowInstantiationAt(loc Loc, pattern Pattern, call *FlowCall) *FlowInstantiation {
	return &FlowInstantiation{loc: loc, Pattern: pattern, Call: call}
}
