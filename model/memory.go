package model

import "github.com/c360studio/semunits/units"

// Memory is a Model built directly in Go, used by tests and by callers that
// construct models programmatically.
type Memory struct {
	ModelName  string
	Units      units.Definitions
	Components []MemoryComponent
}

// MemoryComponent is a Component of a Memory model.
type MemoryComponent struct {
	ComponentName string
	Variables     []MemoryVariable
}

// MemoryVariable is a Variable of a Memory model.
type MemoryVariable struct {
	Identifier string
	VarName    string
	UnitName   string
}

// Name implements Model.
func (m *Memory) Name() string { return m.ModelName }

// ComponentCount implements Model.
func (m *Memory) ComponentCount() int { return len(m.Components) }

// Component implements Model.
func (m *Memory) Component(i int) Component { return &m.Components[i] }

// UnitDefinition implements Model.
func (m *Memory) UnitDefinition(name string) (units.Expression, bool) {
	return m.Units.Definition(name)
}

// Name implements Component.
func (c *MemoryComponent) Name() string { return c.ComponentName }

// VariableCount implements Component.
func (c *MemoryComponent) VariableCount() int { return len(c.Variables) }

// Variable implements Component.
func (c *MemoryComponent) Variable(i int) Variable { return c.Variables[i] }

// ID implements Variable.
func (v MemoryVariable) ID() string { return v.Identifier }

// Name implements Variable.
func (v MemoryVariable) Name() string { return v.VarName }

// Units implements Variable.
func (v MemoryVariable) Units() string { return v.UnitName }
