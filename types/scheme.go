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

package types

import (
	"fmt"

	"github.com/langrust/grust-sub007/symtab"
)

// Scheme is a polymorphic operator type scheme (spec.md §4.C): applying
// it to a list of concrete argument types either yields a monomorphic
// result type, or an error to report at the call site.
type Scheme struct {
	Name  string
	Apply func(args []Typ) (Typ, error)
}

func arithScheme(name string) Scheme {
	return Scheme{
		Name: name,
		Apply: func(args []Typ) (Typ, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
			}
			a, b := args[0], args[1]
			if !Equal(a, b) {
				return nil, fmt.Errorf("%s: mismatched operand types %s and %s", name, a.TypString(), b.TypString())
			}
			if !Equal(a, Int) && !Equal(a, Float) {
				return nil, fmt.Errorf("%s: operand type %s is not numeric", name, a.TypString())
			}
			return a, nil
		},
	}
}

func compareScheme(name string) Scheme {
	return Scheme{
		Name: name,
		Apply: func(args []Typ) (Typ, error) {
			if len(args) != 2 {
				return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(args))
			}
			if !Equal(args[0], args[1]) {
				return nil, fmt.Errorf("%s: mismatched operand types %s and %s", name, args[0].TypString(), args[1].TypString())
			}
			return Bool, nil
		},
	}
}

func boolScheme(name string, arity int) Scheme {
	return Scheme{
		Name: name,
		Apply: func(args []Typ) (Typ, error) {
			if len(args) != arity {
				return nil, fmt.Errorf("%s expects %d argument(s), got %d", name, arity, len(args))
			}
			for _, a := range args {
				if !Equal(a, Bool) {
					return nil, fmt.Errorf("%s: operand type %s is not bool", name, a.TypString())
				}
			}
			return Bool, nil
		},
	}
}

func negScheme() Scheme {
	return Scheme{
		Name: "neg",
		Apply: func(args []Typ) (Typ, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("neg expects 1 argument, got %d", len(args))
			}
			if !Equal(args[0], Int) && !Equal(args[0], Float) {
				return nil, fmt.Errorf("neg: operand type %s is not numeric", args[0].TypString())
			}
			return args[0], nil
		},
	}
}

func ifScheme() Scheme {
	return Scheme{
		Name: "if",
		Apply: func(args []Typ) (Typ, error) {
			if len(args) != 3 {
				return nil, fmt.Errorf("if expects 3 arguments, got %d", len(args))
			}
			if !Equal(args[0], Bool) {
				return nil, fmt.Errorf("if: condition type %s is not bool", args[0].TypString())
			}
			if !Equal(args[1], args[2]) {
				return nil, fmt.Errorf("if: branch types %s and %s differ", args[1].TypString(), args[2].TypString())
			}
			return args[1], nil
		},
	}
}

// builtinSchemes returns the scheme for each of symtab.BuiltinOperatorNames,
// keyed by operator name.
func builtinSchemes() map[string]Scheme {
	m := map[string]Scheme{
		"neg": negScheme(),
		"not": boolScheme("not", 1),
		"+":   arithScheme("+"),
		"-":   arithScheme("-"),
		"*":   arithScheme("*"),
		"/":   arithScheme("/"),
		"%":   arithScheme("%"),
		"and": boolScheme("and", 2),
		"or":  boolScheme("or", 2),
		"==":  compareScheme("=="),
		"!=":  compareScheme("!="),
		"<":   compareScheme("<"),
		"<=":  compareScheme("<="),
		">":   compareScheme(">"),
		">=":  compareScheme(">="),
		"if":  ifScheme(),
	}
	return m
}

// InstallSchemes attaches the built-in operator schemes to the Function
// symbols that symtab.New pre-inserted. It must run exactly once, right
// after symtab.New, before any expression is type-checked.
func InstallSchemes(t *symtab.Table) {
	schemes := builtinSchemes()
	for _, name := range symtab.BuiltinOperatorNames {
		id, err := t.Lookup(symtab.KindFunction, name, true)
		if err != nil {
			panic("types: missing builtin operator " + name)
		}
		sym := t.Symbol(id)
		scheme := schemes[name]
		sym.Function.Scheme = &scheme
	}
}

// SchemeOf returns the scheme attached to a builtin Function symbol, or
// nil if it isn't a scheme-typed (polymorphic) function.
func SchemeOf(t *symtab.Table, id symtab.ID) *Scheme {
	sym := t.Symbol(id)
	if sym.Kind != symtab.KindFunction || sym.Function.Scheme == nil {
		return nil
	}
	return sym.Function.Scheme.(*Scheme)
}

// FlowOperator schemes (sample/scan/timeout/throttle/on_change/merge,
// spec.md §4.C) are not ordinary Function symbols — they're syntax with
// bespoke typing rules applied directly by the Checker (see check.go) —
// but fby's rule ("const_expr's type becomes id's type") is likewise
// handled inline in check.go rather than as a Scheme, since it mutates
// the symbol table rather than computing a pure result type.
