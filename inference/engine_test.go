package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semunits/model"
	"github.com/c360studio/semunits/ontology"
	"github.com/c360studio/semunits/units"
)

func kidneyDefinitions() units.Definitions {
	return units.Definitions{
		"fmol": {
			{Base: "mole", Exponent: 1, Multiplier: 1e-15},
		},
		"fmol_per_s": {
			{Base: "fmol", Exponent: 1, Multiplier: 1},
			{Base: "second", Exponent: -1, Multiplier: 1},
		},
		"mV": {
			{Base: "volt", Exponent: 1, Multiplier: 1e-3},
		},
		"pL": {
			{Base: "litre", Exponent: 1, Multiplier: 1e-12},
		},
		"um_per_s": {
			{Base: "metre", Exponent: 1, Multiplier: 1e-6},
			{Base: "second", Exponent: -1, Multiplier: 1},
		},
		"loop_a": {{Base: "loop_b", Exponent: 1, Multiplier: 1}},
		"loop_b": {{Base: "loop_a", Exponent: 2, Multiplier: 1}},
	}
}

func TestInfer(t *testing.T) {
	engine := NewEngine(ontology.NewCatalog())
	defs := kidneyDefinitions()

	tests := []struct {
		units string
		want  string
	}{
		{"fmol", ontology.Chemical},
		{"mole", ontology.Chemical},
		{"fmol_per_s", ontology.Chemical + ontology.FlowSuffix},
		{"mV", ontology.Electromagnetic + ontology.PotentialSuffix},
		{"volt", ontology.Electromagnetic + ontology.PotentialSuffix},
		{"coulomb", ontology.Electromagnetic},
		{"ampere", ontology.Electromagnetic + ontology.FlowSuffix},
		{"pL", ontology.FluidMechanics},
		{"metre", ontology.SolidMechanics},
		{"um_per_s", ontology.SolidMechanics + ontology.FlowSuffix},
		{"newton", ontology.SolidMechanics + ontology.PotentialSuffix},
		{"pascal", ontology.FluidMechanics + ontology.PotentialSuffix},
		{"joule", ontology.Energy},
		{"second", ontology.Time},
	}
	for _, tt := range tests {
		t.Run(tt.units, func(t *testing.T) {
			v := model.MemoryVariable{Identifier: "v", VarName: "v", UnitName: tt.units}
			cat, ok, err := engine.Infer(v, defs)
			require.NoError(t, err)
			require.True(t, ok, "no category for %s", tt.units)
			assert.Equal(t, tt.want, cat.Name())
		})
	}
}

func TestInfer_NoMatch(t *testing.T) {
	engine := NewEngine(ontology.NewCatalog())
	for _, name := range []string{"dimensionless", "radian", "kelvin", "banana"} {
		t.Run(name, func(t *testing.T) {
			v := model.MemoryVariable{Identifier: "v", VarName: "v", UnitName: name}
			cat, ok, err := engine.Infer(v, nil)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, cat)
		})
	}
}

func TestInfer_CyclicDefinition(t *testing.T) {
	engine := NewEngine(ontology.NewCatalog())
	v := model.MemoryVariable{Identifier: "x", VarName: "x", UnitName: "loop_a"}
	_, ok, err := engine.Infer(v, kidneyDefinitions())
	assert.False(t, ok)
	assert.ErrorIs(t, err, units.ErrCyclicDefinition)
	assert.ErrorContains(t, err, "variable x")
}

func TestInfer_ModelDefinitionShadowsBuiltin(t *testing.T) {
	engine := NewEngine(ontology.NewCatalog())
	defs := units.Definitions{"volt": units.Of(units.Second, 1)}
	v := model.MemoryVariable{Identifier: "v", VarName: "v", UnitName: "volt"}
	cat, ok, err := engine.Infer(v, defs)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ontology.Time, cat.Name())
}

func TestInferExpression_ScaleInvariant(t *testing.T) {
	engine := NewEngine(ontology.NewCatalog())
	a := units.Expression{{Base: units.Mole, Exponent: 1, Multiplier: 1e-15}}
	b := units.Expression{{Base: units.Mole, Exponent: 1, Multiplier: 1e3}}

	catA, okA := engine.InferExpression(a)
	catB, okB := engine.InferExpression(b)
	require.True(t, okA)
	require.True(t, okB)
	assert.Same(t, catA, catB)
}

func TestInferExpression_PrecedenceFollowsRank(t *testing.T) {
	engine := NewEngine(ontology.NewCatalog())
	prev := -1
	for _, cat := range engine.Catalog().Ordered() {
		got, ok := engine.InferExpression(cat.Canonical())
		require.True(t, ok)
		assert.Same(t, cat, got, "canonical expression of %s must infer itself", cat.Name())
		assert.Greater(t, cat.Rank(), prev)
		prev = cat.Rank()
	}
}

func TestResolve(t *testing.T) {
	expanded, err := Resolve("fmol_per_s", kidneyDefinitions())
	require.NoError(t, err)
	assert.True(t, units.Compatible(expanded, units.Of(units.Mole, 1, units.Second, -1)))
	assert.InDelta(t, 1e-15, expanded.Scale(), 1e-27)
}
