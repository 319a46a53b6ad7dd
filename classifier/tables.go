package classifier

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OBO is the namespace of OBO Foundry ontology terms (ChEBI, GO, UBERON).
const OBO = "http://purl.obolibrary.org/obo/"

// Tables maps name tokens to entity references.
type Tables struct {
	// Compartments maps a compartment token (the part between "q_" and the
	// next underscore) to an anatomical or cellular location IRI.
	Compartments map[string]string `yaml:"compartments"`

	// Species maps a species token to a chemical entity IRI.
	Species map[string]string `yaml:"species"`
}

// DefaultTables returns the built-in kidney and cell physiology tables.
// Each call returns fresh maps.
func DefaultTables() Tables {
	return Tables{
		Compartments: map[string]string{
			"pt":            OBO + "UBERON_0004134",
			"dt":            OBO + "UBERON_0004135",
			"cd":            OBO + "UBERON_0001232",
			"blood":         OBO + "UBERON_0000178",
			"plasma":        OBO + "UBERON_0001969",
			"cytosol":       OBO + "GO_0005829",
			"i":             OBO + "GO_0005829",
			"extracellular": OBO + "GO_0005615",
			"e":             OBO + "GO_0005615",
			"o":             OBO + "GO_0005615",
			"mito":          OBO + "GO_0005739",
			"er":            OBO + "GO_0005783",
			"nucleus":       OBO + "GO_0005634",
		},
		Species: map[string]string{
			"Na":      OBO + "CHEBI_29101",
			"K":       OBO + "CHEBI_29103",
			"Cl":      OBO + "CHEBI_17996",
			"Ca":      OBO + "CHEBI_29108",
			"Mg":      OBO + "CHEBI_18420",
			"H":       OBO + "CHEBI_15378",
			"HCO3":    OBO + "CHEBI_17544",
			"glucose": OBO + "CHEBI_17234",
			"Glc":     OBO + "CHEBI_17234",
			"ATP":     OBO + "CHEBI_15422",
			"ADP":     OBO + "CHEBI_16761",
			"H2O":     OBO + "CHEBI_15377",
		},
	}
}

// Merge returns a copy of t with the entries of override added or replaced.
func (t Tables) Merge(override Tables) Tables {
	out := Tables{
		Compartments: maps.Clone(t.Compartments),
		Species:      maps.Clone(t.Species),
	}
	if out.Compartments == nil {
		out.Compartments = make(map[string]string)
	}
	if out.Species == nil {
		out.Species = make(map[string]string)
	}
	maps.Copy(out.Compartments, override.Compartments)
	maps.Copy(out.Species, override.Species)
	return out
}

// Validate checks that every token is usable in the naming convention and
// every reference is an absolute IRI.
func (t Tables) Validate() error {
	for token, iri := range t.Compartments {
		if token == "" || strings.Contains(token, "_") {
			return fmt.Errorf("compartment token %q must be non-empty and contain no underscore", token)
		}
		if !isAbsoluteIRI(iri) {
			return fmt.Errorf("compartment %q: %q is not an absolute IRI", token, iri)
		}
	}
	for token, iri := range t.Species {
		if token == "" {
			return fmt.Errorf("species token must be non-empty")
		}
		if !isAbsoluteIRI(iri) {
			return fmt.Errorf("species %q: %q is not an absolute IRI", token, iri)
		}
	}
	return nil
}

// LoadTables reads YAML tables from path and merges them over the defaults.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read tables file: %w", err)
	}

	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Tables{}, fmt.Errorf("failed to parse tables file: %w", err)
	}

	tables := DefaultTables().Merge(override)
	if err := tables.Validate(); err != nil {
		return Tables{}, fmt.Errorf("invalid tables file %s: %w", path, err)
	}
	return tables, nil
}

func isAbsoluteIRI(s string) bool {
	scheme, rest, ok := strings.Cut(s, ":")
	return ok && scheme != "" && rest != "" && !strings.ContainsAny(s, " <>\"")
}
