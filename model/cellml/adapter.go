package cellml

import (
	"fmt"
	"math"
	"strconv"

	"github.com/c360studio/semunits/model"
	"github.com/c360studio/semunits/units"
)

// Model adapts a Document to model.Model. Component-scoped unit definitions
// (CellML 1.x) are flattened into one table under "<component>/<name>" keys
// so that they cannot shadow model-level units of the same name.
type Model struct {
	name        string
	definitions units.Definitions
	components  []*component
}

type component struct {
	name      string
	variables []variable
}

type variable struct {
	id    string
	name  string
	units string
}

// Load parses, validates and adapts the CellML file at path. A document that
// fails validation returns a *ValidationError.
func Load(path string) (*Model, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	if issues := doc.Validate(); len(issues) > 0 {
		return nil, &ValidationError{Path: path, Issues: issues}
	}
	return NewModel(doc)
}

// NewModel adapts a parsed document. The document should have passed
// Validate; malformed numeric attributes are still reported as errors.
func NewModel(doc *Document) (*Model, error) {
	m := &Model{
		name:        doc.Name,
		definitions: make(units.Definitions),
	}

	for _, u := range doc.Units {
		if err := m.define(doc, "", u); err != nil {
			return nil, err
		}
	}
	for _, c := range doc.Components {
		for _, u := range c.Units {
			if err := m.define(doc, c.Name, u); err != nil {
				return nil, err
			}
		}
	}

	for _, c := range doc.Components {
		comp := &component{name: c.Name}
		for _, v := range c.Variables {
			id := v.Identifier()
			if id == "" {
				id = c.Name + "." + v.Name
			}
			comp.variables = append(comp.variables, variable{
				id:    id,
				name:  v.Name,
				units: scopedName(doc, c.Name, v.Units),
			})
		}
		m.components = append(m.components, comp)
	}

	return m, nil
}

func (m *Model) define(doc *Document, scope string, u UnitsDef) error {
	if u.IsBase() {
		return nil
	}
	expr := make(units.Expression, 0, len(u.Units))
	for _, ref := range u.Units {
		term, err := toTerm(ref)
		if err != nil {
			return fmt.Errorf("units %q: %w", u.Name, err)
		}
		term.Base = scopedName(doc, scope, ref.Units)
		expr = append(expr, term)
	}
	m.definitions[localKey(scope, u.Name)] = expr
	return nil
}

// toTerm converts a <unit> reference. CellML defines the factor as
// multiplier * (prefix * units)^exponent.
func toTerm(ref UnitRef) (units.Term, error) {
	exp, err := parseExponent(ref.Exponent)
	if err != nil {
		return units.Term{}, err
	}
	prefix, ok := units.Prefix(ref.Prefix)
	if !ok {
		return units.Term{}, fmt.Errorf("unknown prefix %q", ref.Prefix)
	}
	mult := 1.0
	if ref.Multiplier != "" {
		mult, err = strconv.ParseFloat(ref.Multiplier, 64)
		if err != nil {
			return units.Term{}, fmt.Errorf("multiplier %q: %w", ref.Multiplier, err)
		}
	}
	return units.Term{
		Exponent:   exp,
		Multiplier: mult * math.Pow(prefix, float64(exp)),
	}, nil
}

func parseExponent(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("exponent %q: %w", s, err)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("exponent %q is not an integer", s)
	}
	return int(f), nil
}

// scopedName resolves a unit reference made inside a component: a local
// definition wins over everything else.
func scopedName(doc *Document, scope, name string) string {
	if scope == "" {
		return name
	}
	for _, c := range doc.Components {
		if c.Name != scope {
			continue
		}
		for _, u := range c.Units {
			if u.Name == name {
				return localKey(scope, name)
			}
		}
	}
	return name
}

func localKey(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + "/" + name
}

// Name implements model.Model.
func (m *Model) Name() string { return m.name }

// ComponentCount implements model.Model.
func (m *Model) ComponentCount() int { return len(m.components) }

// Component implements model.Model.
func (m *Model) Component(i int) model.Component { return m.components[i] }

// UnitDefinition implements model.Model.
func (m *Model) UnitDefinition(name string) (units.Expression, bool) {
	return m.definitions.Definition(name)
}

func (c *component) Name() string                  { return c.name }
func (c *component) VariableCount() int            { return len(c.variables) }
func (c *component) Variable(i int) model.Variable { return c.variables[i] }

func (v variable) ID() string    { return v.id }
func (v variable) Name() string  { return v.name }
func (v variable) Units() string { return v.units }
