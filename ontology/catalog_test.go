package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semunits/units"
)

func TestNewCatalog_Contents(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, 14, c.Len())
	assert.Equal(t, []string{
		"chemical",
		"chemical_flow",
		"chemical_potential",
		"electromagnetic",
		"electromagnetic_flow",
		"electromagnetic_potential",
		"energy",
		"fluid_mechanics",
		"fluid_mechanics_flow",
		"fluid_mechanics_potential",
		"solid_mechanics",
		"solid_mechanics_flow",
		"solid_mechanics_potential",
		"time",
	}, c.Names())
}

func TestNewCatalog_Ordered(t *testing.T) {
	c := NewCatalog()
	ordered := c.Ordered()

	require.Len(t, ordered, c.Len())
	assert.Equal(t, Energy, ordered[0].Name())
	assert.Equal(t, Time, ordered[1].Name())
	for i, cat := range ordered {
		assert.Equal(t, i, cat.Rank(), "rank of %s", cat.Name())
	}

	table := c.Table()
	require.Len(t, table, 12)
	assert.Equal(t, KindBase, table[0].Kind())
	assert.Equal(t, KindFlow, table[4].Kind())
	assert.Equal(t, KindPotential, table[8].Kind())
}

func TestCategory_Expressions(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		name string
		want units.Expression
	}{
		{Energy, units.Of("joule", 1)},
		{Time, units.Of("second", 1)},
		{Chemical, units.Of("mole", 1)},
		{FluidMechanics, units.Of("metre", 3)},
		{"chemical_flow", units.Of("mole", 1, "second", -1)},
		{"fluid_mechanics_flow", units.Of("metre", 3, "second", -1)},
		{"chemical_potential", units.Of("joule", 1, "mole", -1)},
		{"electromagnetic_potential", units.Of("joule", 1, "coulomb", -1)},
		{"fluid_mechanics_potential", units.Of("joule", 1, "metre", -3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := c.Lookup(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, cat.Expression())
		})
	}
}

func TestCategory_CanonicalMatchesDerivedUnits(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		category string
		unit     string
	}{
		{"electromagnetic_potential", "volt"},
		{"electromagnetic_flow", "ampere"},
		{"fluid_mechanics_potential", "pascal"},
		{"solid_mechanics_potential", "newton"},
		{"energy", "joule"},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			cat, _ := c.Lookup(tt.category)
			expanded, err := units.Expand(units.Atomic(tt.unit), nil)
			require.NoError(t, err)
			assert.True(t, cat.Matches(expanded))
		})
	}
}

func TestCategory_StandardTerms(t *testing.T) {
	c := NewCatalog()

	tests := map[string]string{
		Energy:                      EnergyAmount,
		Time:                        TemporalLocation,
		Chemical:                    MolarAmount,
		"chemical_flow":             ChemicalAmountFlowRate,
		"chemical_potential":        ChemicalPotential,
		"electromagnetic_potential": ElectricalPotential,
		"fluid_mechanics_flow":      FluidFlowRate,
	}

	for name, term := range tests {
		cat, ok := c.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, term, cat.StandardTerm(), name)
	}
}

func TestCategory_Immutable(t *testing.T) {
	c := NewCatalog()
	cat, _ := c.Lookup(Chemical)

	e := cat.Expression()
	e[0].Exponent = 7
	assert.Equal(t, 1, cat.Expression()[0].Exponent)

	table := c.Table()
	table[0] = nil
	assert.NotNil(t, c.Table()[0])
}

func TestCategory_DerivedShareDomain(t *testing.T) {
	c := NewCatalog()
	for _, cat := range c.Table() {
		base, ok := c.Lookup(cat.Domain())
		require.True(t, ok, cat.Name())
		assert.Equal(t, base.AmountKind(), cat.AmountKind())
	}
}

func TestCatalog_NoDimensionalCollisions(t *testing.T) {
	c := NewCatalog()
	ordered := c.Ordered()
	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			assert.False(t, units.Compatible(ordered[i].Canonical(), ordered[j].Canonical()),
				"%s and %s share a dimension", ordered[i], ordered[j])
		}
	}
}
