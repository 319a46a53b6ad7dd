package ontology

import (
	"fmt"
	"sort"

	"github.com/c360studio/semunits/units"
)

// Singleton category names.
const (
	Energy = "energy"
	Time   = "time"
)

// Base category names.
const (
	Chemical        = "chemical"
	Electromagnetic = "electromagnetic"
	SolidMechanics  = "solid_mechanics"
	FluidMechanics  = "fluid_mechanics"
)

type baseDefinition struct {
	name          string
	amountKind    string
	expression    units.Expression
	term          string
	flowTerm      string
	potentialTerm string
}

// baseDefinitions is ordered; the order fixes the rank of every category
// derived from it.
var baseDefinitions = []baseDefinition{
	{
		name:          Chemical,
		amountKind:    "molar_amount",
		expression:    units.Of(units.Mole, 1),
		term:          MolarAmount,
		flowTerm:      ChemicalAmountFlowRate,
		potentialTerm: ChemicalPotential,
	},
	{
		name:          Electromagnetic,
		amountKind:    "charge_amount",
		expression:    units.Of("coulomb", 1),
		term:          ChargeAmount,
		flowTerm:      ChargeFlowRate,
		potentialTerm: ElectricalPotential,
	},
	{
		name:          SolidMechanics,
		amountKind:    "displacement",
		expression:    units.Of(units.Metre, 1),
		term:          TranslationalDisplacement,
		flowTerm:      TranslationalVelocity,
		potentialTerm: MechanicalForce,
	},
	{
		name:          FluidMechanics,
		amountKind:    "volume",
		expression:    units.Of(units.Metre, 3),
		term:          FluidVolume,
		flowTerm:      FluidFlowRate,
		potentialTerm: FluidPressure,
	},
}

// Catalog is the immutable lookup table of quantity categories.
type Catalog struct {
	byName map[string]*Category
	energy *Category
	time   *Category
	table  []*Category
}

// NewCatalog builds the category catalog. It panics if two categories end up
// with the same name, which can only happen through an edit to the fixed
// definitions above.
func NewCatalog() *Catalog {
	c := &Catalog{byName: make(map[string]*Category)}

	c.energy = c.add(&Category{
		name:         Energy,
		kind:         KindSingleton,
		domain:       Energy,
		amountKind:   "energy",
		standardTerm: EnergyAmount,
		expression:   units.Of("joule", 1),
	})
	c.time = c.add(&Category{
		name:         Time,
		kind:         KindSingleton,
		domain:       Time,
		amountKind:   "time",
		standardTerm: TemporalLocation,
		expression:   units.Of(units.Second, 1),
	})

	for _, def := range baseDefinitions {
		c.table = append(c.table, c.add(&Category{
			name:         def.name,
			kind:         KindBase,
			domain:       def.name,
			amountKind:   def.amountKind,
			standardTerm: def.term,
			expression:   def.expression,
		}))
	}
	for _, def := range baseDefinitions {
		c.table = append(c.table, c.add(&Category{
			name:         def.name + FlowSuffix,
			kind:         KindFlow,
			domain:       def.name,
			amountKind:   def.amountKind,
			standardTerm: def.flowTerm,
			expression:   def.expression.Mul(units.Of(units.Second, -1)),
		}))
	}
	for _, def := range baseDefinitions {
		first := def.expression[0]
		c.table = append(c.table, c.add(&Category{
			name:         def.name + PotentialSuffix,
			kind:         KindPotential,
			domain:       def.name,
			amountKind:   def.amountKind,
			standardTerm: def.potentialTerm,
			expression:   c.energy.expression.Mul(units.Of(first.Base, -first.Exponent)),
		}))
	}

	return c
}

func (c *Catalog) add(cat *Category) *Category {
	if _, exists := c.byName[cat.name]; exists {
		panic(fmt.Sprintf("ontology: duplicate category %q", cat.name))
	}
	canonical, err := units.Expand(cat.expression, nil)
	if err != nil {
		panic(fmt.Sprintf("ontology: expand %q: %v", cat.name, err))
	}
	cat.canonical = canonical
	cat.rank = len(c.byName)
	c.byName[cat.name] = cat
	return cat
}

// Lookup returns the category with the given name.
func (c *Catalog) Lookup(name string) (*Category, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// Energy returns the energy singleton.
func (c *Catalog) Energy() *Category { return c.energy }

// Time returns the time singleton.
func (c *Catalog) Time() *Category { return c.time }

// Table returns the merged base, flow and potential categories in rank order.
func (c *Catalog) Table() []*Category {
	out := make([]*Category, len(c.table))
	copy(out, c.table)
	return out
}

// Ordered returns every category in inference precedence order: energy,
// time, then the merged table.
func (c *Catalog) Ordered() []*Category {
	out := make([]*Category, 0, len(c.byName))
	out = append(out, c.energy, c.time)
	return append(out, c.table...)
}

// Names returns the sorted category names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of categories.
func (c *Catalog) Len() int { return len(c.byName) }
