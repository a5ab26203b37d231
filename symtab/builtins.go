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

package symtab

// BuiltinOperatorNames lists every unary/binary/ternary operator that
// spec.md §4.A requires to be pre-inserted as a Function symbol at Table
// initialization. Their polymorphic schemes are attached by
// types.InstallSchemes, which runs immediately after New() and is the
// only code that reaches into Symbol.Function.Scheme directly (everything
// else goes through the monotone setters).
var BuiltinOperatorNames = []string{
	"neg", "not",
	"+", "-", "*", "/", "%",
	"and", "or",
	"==", "!=", "<", "<=", ">", ">=",
	"if",
}

// installBuiltinOperators registers every name in BuiltinOperatorNames as
// a Function symbol in the table's root scope.
func installBuiltinOperators(t *Table) {
	for _, name := range BuiltinOperatorNames {
		_, err := t.Insert(KindFunction, name, &Symbol{
			Function: &FunctionInfo{Builtin: true},
		})
		if err != nil {
			// the root scope is private to this function; a collision
			// here is a compiler bug (a duplicate name in the list above).
			panic("symtab: duplicate builtin operator " + name)
		}
	}
}
