// Package classifier derives entity references from variable names that
// follow the q_<compartment>_<species> convention.
package classifier

import (
	"strings"
)

// Miss explains why a name produced no classification. Misses are
// informational; unit-based annotation proceeds regardless.
type Miss int

const (
	// MissNone means the name was classified.
	MissNone Miss = iota
	// MissPattern means the name does not follow q_<compartment>_<species>.
	MissPattern
	// MissCompartment means the compartment token is not in the tables.
	MissCompartment
	// MissSpecies means the species token is not in the tables.
	MissSpecies
)

func (m Miss) String() string {
	switch m {
	case MissNone:
		return "none"
	case MissPattern:
		return "pattern"
	case MissCompartment:
		return "unknown compartment"
	case MissSpecies:
		return "unknown species"
	default:
		return "unknown"
	}
}

// Prefix starts every classifiable name.
const Prefix = "q_"

// Classification is the result of a successful match.
type Classification struct {
	CompartmentToken string
	SpeciesToken     string
	Compartment      string // IRI
	Species          string // IRI
}

// EntityLabel returns the anonymous entity label for an amount kind, in the
// form <amountKind>_<species>_<compartment>.
func (c Classification) EntityLabel(amountKind string) string {
	return amountKind + "_" + c.SpeciesToken + "_" + c.CompartmentToken
}

// Classifier looks up name tokens in fixed tables.
type Classifier struct {
	tables Tables
}

// New creates a classifier over a private copy of tables.
func New(tables Tables) *Classifier {
	return &Classifier{tables: Tables{}.Merge(tables)}
}

// Tables returns a copy of the classifier's tables.
func (c *Classifier) Tables() Tables {
	return Tables{}.Merge(c.tables)
}

// Split breaks a name into compartment and species tokens without looking
// them up. The compartment is the single token after "q_"; the species is
// the remainder and may contain underscores.
func Split(name string) (compartment, species string, ok bool) {
	rest, found := strings.CutPrefix(name, Prefix)
	if !found {
		return "", "", false
	}
	compartment, species, found = strings.Cut(rest, "_")
	if !found || compartment == "" || species == "" {
		return "", "", false
	}
	return compartment, species, true
}

// Classify maps a variable name to compartment and species references.
func (c *Classifier) Classify(name string) (Classification, Miss) {
	compartment, species, ok := Split(name)
	if !ok {
		return Classification{}, MissPattern
	}

	compartmentIRI, ok := c.tables.Compartments[compartment]
	if !ok {
		return Classification{}, MissCompartment
	}
	speciesIRI, ok := c.tables.Species[species]
	if !ok {
		return Classification{}, MissSpecies
	}

	return Classification{
		CompartmentToken: compartment,
		SpeciesToken:     species,
		Compartment:      compartmentIRI,
		Species:          speciesIRI,
	}, MissNone
}
