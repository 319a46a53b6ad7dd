// Package model defines the read-only view of a scientific model that the
// inference engine consumes.
//
// A model is a tree of components, each holding variables, plus a table of
// named unit definitions. Concrete formats (see model/cellml) implement these
// interfaces through adapters; the engine never sees the concrete types.
package model

import "github.com/c360studio/semunits/units"

// Variable is a numeric model variable.
type Variable interface {
	// ID is the stable identifier used to build the variable's IRI.
	ID() string

	// Name is the display name, also used for name-based classification.
	Name() string

	// Units is the name of the variable's unit, resolvable through
	// Model.UnitDefinition or the built-in unit table.
	Units() string
}

// Component groups variables.
type Component interface {
	Name() string
	VariableCount() int
	Variable(i int) Variable
}

// Model is an already validated model tree.
type Model interface {
	Name() string
	ComponentCount() int
	Component(i int) Component

	// UnitDefinition returns the compound expression of a model-defined unit.
	UnitDefinition(name string) (units.Expression, bool)
}

// Resolver adapts a model's unit table to units.Resolver.
func Resolver(m Model) units.Resolver {
	return units.ResolverFunc(m.UnitDefinition)
}

// Walk calls fn for every variable of every component, in document order.
// Walking stops at the first error.
func Walk(m Model, fn func(c Component, v Variable) error) error {
	for i := 0; i < m.ComponentCount(); i++ {
		c := m.Component(i)
		for j := 0; j < c.VariableCount(); j++ {
			if err := fn(c, c.Variable(j)); err != nil {
				return err
			}
		}
	}
	return nil
}

// VariableCount returns the total number of variables in the model.
func VariableCount(m Model) int {
	n := 0
	for i := 0; i < m.ComponentCount(); i++ {
		n += m.Component(i).VariableCount()
	}
	return n
}
