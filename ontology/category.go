// Package ontology holds the fixed catalog of physical quantity categories
// used to classify model variables by their units.
//
// The catalog has three groups:
//   - base categories, one per physical domain (chemical, electromagnetic,
//     solid mechanics, fluid mechanics), each defined by its amount unit;
//   - flow categories, the base amount per unit time;
//   - potential categories, energy per unit of base amount;
//
// plus the energy and time singletons. Every category carries an OPB term
// that annotations use as the standard quantity and a rank that fixes the
// order in which categories are tried.
package ontology

import "github.com/c360studio/semunits/units"

// Kind groups categories by how they were derived.
type Kind string

const (
	// KindSingleton is a category defined by a single unit (energy, time).
	KindSingleton Kind = "singleton"

	// KindBase is a domain amount category.
	KindBase Kind = "base"

	// KindFlow is a base amount per unit time.
	KindFlow Kind = "flow"

	// KindPotential is energy per unit of base amount.
	KindPotential Kind = "potential"
)

// Name suffixes for derived categories.
const (
	FlowSuffix      = "_flow"
	PotentialSuffix = "_potential"
)

// Category is a named class of physical quantity. Categories are created by
// NewCatalog and never modified afterwards.
type Category struct {
	name         string
	kind         Kind
	domain       string
	amountKind   string
	standardTerm string
	rank         int
	expression   units.Expression
	canonical    units.Expression
}

// Name is the unique catalog key, e.g. "chemical_flow".
func (c *Category) Name() string { return c.name }

// Kind reports how the category was derived.
func (c *Category) Kind() Kind { return c.kind }

// Domain is the physical domain the category belongs to, e.g. "chemical".
func (c *Category) Domain() string { return c.domain }

// AmountKind names the conserved amount of the domain, e.g. "molar_amount".
// It is used to label the physical entity a variable describes.
func (c *Category) AmountKind() string { return c.amountKind }

// StandardTerm is the OPB IRI annotations use for this category.
func (c *Category) StandardTerm() string { return c.standardTerm }

// Rank is the category's position in the inference precedence order.
// Lower ranks are tried first.
func (c *Category) Rank() int { return c.rank }

// Expression returns a copy of the category's defining unit expression.
func (c *Category) Expression() units.Expression { return c.expression.Pow(1) }

// Canonical returns a copy of the expression reduced to SI base units.
func (c *Category) Canonical() units.Expression { return c.canonical.Pow(1) }

// Matches reports whether an expression, already expanded to SI base units,
// is dimensionally compatible with the category.
func (c *Category) Matches(expanded units.Expression) bool {
	return units.Compatible(expanded, c.canonical)
}

// String returns the category name.
func (c *Category) String() string { return c.name }
