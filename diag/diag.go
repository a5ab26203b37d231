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

// Package diag holds the structured error taxonomy shared by every
// compiler pass. Diagnostics carry a source location and a typed Kind;
// rendering them for a human is the job of an out-of-scope collaborator.
package diag

import (
	"fmt"

	"github.com/google/uuid"
)

// Loc is a byte-span source location. The parser that produces IR0 is
// responsible for populating it; nothing downstream interprets it beyond
// carrying it along for the diagnostics renderer.
type Loc struct {
	Start, End int
}

// Kind discriminates the error taxonomy of spec.md §7.
type Kind int

const (
	// Naming
	AlreadyDefinedElement Kind = iota
	UnknownElement
	UnknownSignal
	UnknownType
	UnknownField
	UnknownNode

	// Typing
	TypeMismatch
	ExpectEvent
	ExpectSignal
	ExpectArray
	ExpectStructure
	ExpectTuple
	ExpectTuplePattern
	ExpectOptionPattern
	ExpectInput
	IncompatibleLength
	IncompatibleTuple
	OobIndex

	// Causality
	NotCausalComponent
	NotCausalSignal

	// fby (spec.md §4.C/§8 invariant 2: fby target must not be VeryLocal)
	FbyOnVeryLocal

	// Semantic
	UnusedSignal
	DuplicatedPattern

	// Service synthesis (expansion, §4.F/§7 of SPEC_FULL.md)
	TooManyNestedOnChange
	DoubleBufferedFlow

	// Checker-internal (expansion, §4.C of SPEC_FULL.md)
	UntypedReference
	OperatorArgMismatch
	Internal
)

var kindNames = map[Kind]string{
	AlreadyDefinedElement: "AlreadyDefinedElement",
	UnknownElement:        "UnknownElement",
	UnknownSignal:         "UnknownSignal",
	UnknownType:           "UnknownType",
	UnknownField:          "UnknownField",
	UnknownNode:           "UnknownNode",
	TypeMismatch:          "TypeMismatch",
	ExpectEvent:           "ExpectEvent",
	ExpectSignal:          "ExpectSignal",
	ExpectArray:           "ExpectArray",
	ExpectStructure:       "ExpectStructure",
	ExpectTuple:           "ExpectTuple",
	ExpectTuplePattern:    "ExpectTuplePattern",
	ExpectOptionPattern:   "ExpectOptionPattern",
	ExpectInput:           "ExpectInput",
	IncompatibleLength:    "IncompatibleLength",
	IncompatibleTuple:     "IncompatibleTuple",
	OobIndex:              "OobIndex",
	NotCausalComponent:    "NotCausalComponent",
	NotCausalSignal:       "NotCausalSignal",
	FbyOnVeryLocal:        "FbyOnVeryLocal",
	UnusedSignal:          "UnusedSignal",
	DuplicatedPattern:     "DuplicatedPattern",
	TooManyNestedOnChange: "TooManyNestedOnChange",
	DoubleBufferedFlow:    "DoubleBufferedFlow",
	UntypedReference:      "UntypedReference",
	OperatorArgMismatch:   "OperatorArgMismatch",
	Internal:              "Internal",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a single compiler diagnostic.
type Error struct {
	Kind    Kind
	Loc     Loc
	Msg     string
	BuildID uuid.UUID
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Sink accumulates diagnostics across a pass. Each pass is handed a Sink
// rather than returning a bare error so that sibling items can still be
// checked after a recoverable failure (spec.md §7 propagation rules).
type Sink struct {
	BuildID uuid.UUID
	errs    []*Error
}

// NewSink creates a Sink tagged with a fresh build id, used to correlate
// every diagnostic emitted by one compiler run.
func NewSink() *Sink {
	return &Sink{BuildID: uuid.New()}
}

// Errorf appends a new diagnostic of the given kind at the given location.
func (s *Sink) Errorf(kind Kind, loc Loc, format string, args ...any) {
	s.errs = append(s.errs, &Error{
		Kind:    kind,
		Loc:     loc,
		Msg:     fmt.Sprintf(format, args...),
		BuildID: s.BuildID,
	})
}

// Add appends an already-built diagnostic, stamping it with the sink's
// build id if it doesn't have one yet.
func (s *Sink) Add(e *Error) {
	if e.BuildID == uuid.Nil {
		e.BuildID = s.BuildID
	}
	s.errs = append(s.errs, e)
}

// Errs returns the accumulated diagnostics.
func (s *Sink) Errs() []*Error { return s.errs }

// Failed reports whether any diagnostic has been recorded.
func (s *Sink) Failed() bool { return len(s.errs) > 0 }

// Combine collapses the accumulated diagnostics into a single error, or
// nil if none were recorded.
func (s *Sink) Combine() error {
	switch len(s.errs) {
	case 0:
		return nil
	case 1:
		return s.errs[0]
	default:
		return fmt.Errorf("%w (and %d other error(s))", s.errs[0], len(s.errs)-1)
	}
}
