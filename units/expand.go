package units

import (
	"errors"
	"fmt"
)

// ErrCyclicDefinition is returned when a unit is defined in terms of itself.
var ErrCyclicDefinition = errors.New("cyclic unit definition")

// Resolver looks up user-defined compound units by name.
type Resolver interface {
	Definition(name string) (Expression, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(name string) (Expression, bool)

// Definition implements Resolver.
func (f ResolverFunc) Definition(name string) (Expression, bool) {
	return f(name)
}

// Definitions is a Resolver backed by a map.
type Definitions map[string]Expression

// Definition implements Resolver.
func (d Definitions) Definition(name string) (Expression, bool) {
	e, ok := d[name]
	return e, ok
}

// Expand rewrites e in terms of SI base units. Each term's base is looked up
// first in r (which may be nil), then in the built-in unit table; anything
// left unresolved is kept as an atomic base of its own.
func Expand(e Expression, r Resolver) (Expression, error) {
	return expand(e, r, make(map[string]bool))
}

func expand(e Expression, r Resolver, visiting map[string]bool) (Expression, error) {
	out := make(Expression, 0, len(e))
	for _, t := range e {
		sub, err := expandTerm(t, r, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

func expandTerm(t Term, r Resolver, visiting map[string]bool) (Expression, error) {
	if IsBase(t.Base) {
		return Expression{t}, nil
	}

	if r != nil {
		if def, ok := r.Definition(t.Base); ok {
			if visiting[t.Base] {
				return nil, fmt.Errorf("%w: %s", ErrCyclicDefinition, t.Base)
			}
			visiting[t.Base] = true
			defer delete(visiting, t.Base)

			inner, err := expand(def, r, visiting)
			if err != nil {
				return nil, err
			}
			return raise(inner, t), nil
		}
	}

	if std, ok := Standard(t.Base); ok {
		return raise(std, t), nil
	}
	return Expression{t}, nil
}

// raise substitutes a term's base by inner: Multiplier * inner^Exponent.
func raise(inner Expression, t Term) Expression {
	out := inner.Pow(t.Exponent)
	if len(out) > 0 {
		out[0].Multiplier *= multiplier(t)
	}
	return out
}
