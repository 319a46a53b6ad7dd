// Package units implements the unit algebra used for dimensional analysis of
// model variables.
//
// A compound unit is an Expression: an ordered list of Terms, each pairing a
// base unit name with an integer exponent and a scalar multiplier. Two
// expressions are dimensionally compatible when their reduced exponent vectors
// are identical. Multipliers (metric prefixes, scale factors) never take part
// in the comparison.
package units

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Term is a single factor of a compound unit: Multiplier * Base^Exponent.
type Term struct {
	Base       string
	Exponent   int
	Multiplier float64
}

// NewTerm returns a term with a unit multiplier.
func NewTerm(base string, exponent int) Term {
	return Term{Base: base, Exponent: exponent, Multiplier: 1}
}

// Expression is a compound unit. Term order carries no meaning but is kept
// stable so that constructed expressions are deterministic.
type Expression []Term

// Atomic returns the single-term expression for a unit that has no explicit
// definition, using the unit's own name as its base.
func Atomic(name string) Expression {
	return Expression{NewTerm(name, 1)}
}

// Of builds an expression from alternating base/exponent pairs.
//
//	Of("metre", 3, "second", -1) // m^3/s
func Of(pairs ...any) Expression {
	if len(pairs)%2 != 0 {
		panic("units.Of: odd number of arguments")
	}
	e := make(Expression, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		base, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("units.Of: argument %d is not a unit name", i))
		}
		exp, ok := pairs[i+1].(int)
		if !ok {
			panic(fmt.Sprintf("units.Of: argument %d is not an integer exponent", i+1))
		}
		e = append(e, NewTerm(base, exp))
	}
	return e
}

// Mul composes two expressions (unit product).
func (e Expression) Mul(other Expression) Expression {
	out := make(Expression, 0, len(e)+len(other))
	out = append(out, e...)
	return append(out, other...)
}

// Pow raises every term to the power n. The receiver is not modified.
func (e Expression) Pow(n int) Expression {
	out := make(Expression, len(e))
	for i, t := range e {
		out[i] = Term{
			Base:       t.Base,
			Exponent:   t.Exponent * n,
			Multiplier: math.Pow(multiplier(t), float64(n)),
		}
	}
	return out
}

// Scale returns the overall scalar factor of the expression.
func (e Expression) Scale() float64 {
	s := 1.0
	for _, t := range e {
		s *= multiplier(t)
	}
	return s
}

// Dimension reduces the expression to its exponent vector. Repeated bases are
// merged by summing exponents and bases whose exponents cancel are dropped.
func (e Expression) Dimension() Dimension {
	d := make(Dimension, len(e))
	for _, t := range e {
		d[t.Base] += t.Exponent
	}
	for base, exp := range d {
		if exp == 0 {
			delete(d, base)
		}
	}
	return d
}

// String renders the reduced form, e.g. "metre^3.second^-1".
func (e Expression) String() string {
	return e.Dimension().String()
}

// Compatible reports whether a and b have identical dimensions.
func Compatible(a, b Expression) bool {
	return a.Dimension().Equal(b.Dimension())
}

// Dimension is a reduced exponent vector keyed by base unit name.
// Zero exponents are never stored.
type Dimension map[string]int

// Equal reports whether both vectors carry the same bases and exponents.
func (d Dimension) Equal(other Dimension) bool {
	if len(d) != len(other) {
		return false
	}
	for base, exp := range d {
		if other[base] != exp {
			return false
		}
	}
	return true
}

// String renders the vector with bases in lexical order.
func (d Dimension) String() string {
	if len(d) == 0 {
		return "dimensionless"
	}
	bases := make([]string, 0, len(d))
	for base := range d {
		bases = append(bases, base)
	}
	sort.Strings(bases)

	parts := make([]string, 0, len(bases))
	for _, base := range bases {
		if d[base] == 1 {
			parts = append(parts, base)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s^%d", base, d[base]))
	}
	return strings.Join(parts, ".")
}

func multiplier(t Term) float64 {
	if t.Multiplier == 0 {
		return 1
	}
	return t.Multiplier
}
