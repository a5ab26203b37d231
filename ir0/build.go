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

// The constructors below exist so that other packages' tests can build
// small ir0 fixtures without going through a full parse+lower pipeline;
// lowering itself (lower.go) builds nodes with struct literals directly.

func NewIdentAt(loc Loc, id symtab.ID) *Ident { return &Ident{typed: typed{loc: loc}, ID: id} }

func NewIntLitAt(loc Loc, v int64) *IntLit { return &IntLit{typed: typed{loc: loc}, Val: v} }

func NewBoolLitAt(loc Loc, v bool) *BoolLit { return &BoolLit{typed: typed{loc: loc}, Val: v} }

func NewCallAt(loc Loc, fn symtab.ID, args ...Expr) *Call {
	return &Call{typed: typed{loc: loc}, Func: fn, Args: args}
}

func NewFbyAt(loc Loc, id symtab.ID, init Expr) *Fby {
	return &Fby{typed: typed{loc: loc}, ID: id, Init: init}
}

func NewNodeCallAt(loc Loc, comp symtab.ID, args []Expr, eventArg Expr) *NodeCall {
	return &NodeCall{typed: typed{loc: loc}, Component: comp, Args: args, EventArg: eventArg}
}

func NewRisingEdgeAt(loc Loc, src Expr) *RisingEdge {
	return &RisingEdge{typed: typed{loc: loc}, Src: src}
}

func NewSampleAt(loc Loc, src Expr, periodMs uint64) *Sample {
	return &Sample{typed: typed{loc: loc}, Src: src, PeriodMs: periodMs}
}

func NewScanAt(loc Loc, src Expr, periodMs uint64) *Scan {
	return &Scan{typed: typed{loc: loc}, Src: src, PeriodMs: periodMs}
}

func NewThrottleAt(loc Loc, src, delta Expr) *Throttle {
	return &Throttle{typed: typed{loc: loc}, Src: src, Delta: delta}
}

func NewTimeoutAt(loc Loc, src Expr, deadlineMs uint64) *Timeout {
	return &Timeout{typed: typed{loc: loc}, Src: src, DeadlineMs: deadlineMs}
}

func NewOnChangeAt(loc Loc, src Expr) *OnChange {
	return &OnChange{typed: typed{loc: loc}, Src: src}
}

func NewMergeAt(loc Loc, left, right Expr) *Merge {
	return &Merge{typed: typed{loc: loc}, Left: left, Right: right}
}
