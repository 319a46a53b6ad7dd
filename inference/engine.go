// Package inference assigns quantity categories to model variables by
// dimensional analysis of their units.
package inference

import (
	"fmt"

	"github.com/c360studio/semunits/model"
	"github.com/c360studio/semunits/ontology"
	"github.com/c360studio/semunits/units"
)

// Engine tests unit expressions against a category catalog. It holds no
// mutable state and may be shared.
type Engine struct {
	catalog *ontology.Catalog
	order   []*ontology.Category
}

// NewEngine creates an engine over catalog.
func NewEngine(catalog *ontology.Catalog) *Engine {
	return &Engine{
		catalog: catalog,
		order:   catalog.Ordered(),
	}
}

// Catalog returns the engine's category catalog.
func (e *Engine) Catalog() *ontology.Catalog {
	return e.catalog
}

// Resolve expands a unit name to SI base units. Model definitions come
// first, then built-in units; any other name is an atomic unit of its own.
func Resolve(unitName string, defs units.Resolver) (units.Expression, error) {
	expanded, err := units.Expand(units.Atomic(unitName), defs)
	if err != nil {
		return nil, fmt.Errorf("resolve unit %q: %w", unitName, err)
	}
	return expanded, nil
}

// Infer returns the category of a variable. The boolean is false when no
// category matches; the error is set only when the unit cannot be expanded.
func (e *Engine) Infer(v model.Variable, defs units.Resolver) (*ontology.Category, bool, error) {
	expanded, err := Resolve(v.Units(), defs)
	if err != nil {
		return nil, false, fmt.Errorf("variable %s: %w", v.ID(), err)
	}
	cat, ok := e.InferExpression(expanded)
	return cat, ok, nil
}

// InferExpression returns the first category, in precedence order, whose
// canonical expression is dimensionally compatible with expanded: energy,
// then time, then base, flow and potential categories by rank.
func (e *Engine) InferExpression(expanded units.Expression) (*ontology.Category, bool) {
	for _, cat := range e.order {
		if cat.Matches(expanded) {
			return cat, true
		}
	}
	return nil, false
}
