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

// Pattern is the resolved form of a binding pattern: every identifier it
// introduces has already been assigned an ID in the symbol table.
type Pattern interface {
	Loc() Loc
	Ids() []symtab.ID
	patternNode()
}

type PatIdent struct {
	loc Loc
	ID  symtab.ID
}

func (p *PatIdent) Loc() Loc             { return p.loc }
func (p *PatIdent) Ids() []symtab.ID     { return []symtab.ID{p.ID} }
func (*PatIdent) patternNode()           {}

type PatTuple struct {
	loc   Loc
	Elems []Pattern
}

func (p *PatTuple) Loc() Loc { return p.loc }
func (p *PatTuple) Ids() []symtab.ID {
	var ids []symtab.ID
	for _, e := range p.Elems {
		ids = append(ids, e.Ids()...)
	}
	return ids
}
func (*PatTuple) patternNode() {}

// PatStructField pairs a struct field with the pattern it's matched
// against (always non-nil post-lowering: an elided field name is lowered
// to an implicit PatIdent of the same name, per spec.md §4.B policy).
type PatStructField struct {
	Field string
	Pat   Pattern
}

type PatStruct struct {
	loc    Loc
	Struct symtab.ID
	Fields []PatStructField
}

func (p *PatStruct) Loc() Loc { return p.loc }
func (p *PatStruct) Ids() []symtab.ID {
	var ids []symtab.ID
	for _, f := range p.Fields {
		ids = append(ids, f.Pat.Ids()...)
	}
	return ids
}
func (*PatStruct) patternNode() {}

// PatDefault ("_") binds nothing.
type PatDefault struct{ loc Loc }

func (p *PatDefault) Loc() Loc         { return p.loc }
func (p *PatDefault) Ids() []symtab.ID { return nil }
func (*PatDefault) patternNode()       {}

// PatSome/PatNone destructure an SMEvent (spec.md §4.C); the bound
// identifiers of PatSome are VeryLocal signals, legal only inside match
// arms.
type PatSome struct {
	loc   Loc
	Inner Pattern
}

func (p *PatSome) Loc() Loc         { return p.loc }
func (p *PatSome) Ids() []symtab.ID { return p.Inner.Ids() }
func (*PatSome) patternNode()       {}

type PatNone struct{ loc Loc }

func (p *PatNone) Loc() Loc         { return p.loc }
func (p *PatNone) Ids() []symtab.ID { return nil }
func (*PatNone) patternNode()       {}

func NewPatIdentAt(loc Loc, id symtab.ID) *PatIdent { return &PatIdent{loc: loc, ID: id} }
