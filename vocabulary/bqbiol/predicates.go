package bqbiol

import (
	"fmt"

	"github.com/c360studio/semstreams/vocabulary"

	"github.com/c360studio/semunits/rdf"
)

// Identity predicates.
const (
	// Is states that the subject is the referenced resource.
	// Domain: entity, Range: external resource (ChEBI, GO, UBERON)
	Is = "bqbiol.rel.is"

	// IsVersionOf states that the subject is a version or instance of the
	// referenced class.
	// Domain: variable, Range: OPB physical property
	IsVersionOf = "bqbiol.rel.is_version_of"

	// HasVersion is the inverse of IsVersionOf.
	HasVersion = "bqbiol.rel.has_version"

	// IsHomologTo states evolutionary homology.
	IsHomologTo = "bqbiol.rel.is_homolog_to"
)

// Structural predicates.
const (
	// IsPropertyOf links a quantity to the entity that bears it.
	// Domain: variable, Range: entity
	IsPropertyOf = "bqbiol.rel.is_property_of"

	// HasProperty is the inverse of IsPropertyOf.
	HasProperty = "bqbiol.rel.has_property"

	// IsPartOf links an entity to its container.
	// Domain: entity, Range: compartment
	IsPartOf = "bqbiol.rel.is_part_of"

	// HasPart is the inverse of IsPartOf.
	HasPart = "bqbiol.rel.has_part"

	// OccursIn links a process to where it takes place.
	OccursIn = "bqbiol.rel.occurs_in"
)

// Provenance predicates.
const (
	IsDescribedBy = "bqbiol.rel.is_described_by"
	IsEncodedBy   = "bqbiol.rel.is_encoded_by"
	Encodes       = "bqbiol.rel.encodes"
	HasTaxon      = "bqbiol.rel.has_taxon"
)

// All lists every registered predicate name.
var All = []string{
	Is, IsVersionOf, HasVersion, IsHomologTo,
	IsPropertyOf, HasProperty, IsPartOf, HasPart, OccursIn,
	IsDescribedBy, IsEncodedBy, Encodes, HasTaxon,
}

func init() {
	vocabulary.Register(Is,
		vocabulary.WithDescription("Subject is identical to the referenced resource"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIs))

	vocabulary.Register(IsVersionOf,
		vocabulary.WithDescription("Subject is a version or instance of the referenced physical property"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsVersionOf))

	vocabulary.Register(HasVersion,
		vocabulary.WithDescription("Referenced resource is a version or instance of the subject"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasVersion))

	vocabulary.Register(IsHomologTo,
		vocabulary.WithDescription("Subject is homologous to the referenced resource"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsHomologTo))

	vocabulary.Register(IsPropertyOf,
		vocabulary.WithDescription("Quantity is a property of the referenced physical entity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsPropertyOf))

	vocabulary.Register(HasProperty,
		vocabulary.WithDescription("Entity bears the referenced quantity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasProperty))

	vocabulary.Register(IsPartOf,
		vocabulary.WithDescription("Entity is physically or conceptually part of the referenced container"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsPartOf))

	vocabulary.Register(HasPart,
		vocabulary.WithDescription("Subject contains the referenced entity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasPart))

	vocabulary.Register(OccursIn,
		vocabulary.WithDescription("Process takes place in the referenced entity"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropOccursIn))

	vocabulary.Register(IsDescribedBy,
		vocabulary.WithDescription("Subject is described by the referenced publication"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsDescribedBy))

	vocabulary.Register(IsEncodedBy,
		vocabulary.WithDescription("Subject is encoded by the referenced gene"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropIsEncodedBy))

	vocabulary.Register(Encodes,
		vocabulary.WithDescription("Subject encodes the referenced product"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropEncodes))

	vocabulary.Register(HasTaxon,
		vocabulary.WithDescription("Subject belongs to the referenced taxon"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropHasTaxon))
}

// IRI returns the qualifier IRI registered for a predicate name.
func IRI(predicate string) (string, error) {
	meta := vocabulary.GetPredicateMetadata(predicate)
	if meta == nil || meta.StandardIRI == "" {
		return "", fmt.Errorf("bqbiol: predicate %q not registered", predicate)
	}
	return meta.StandardIRI, nil
}

// Term returns the qualifier for a predicate name as an RDF term. It panics
// on unknown names, which are programming errors.
func Term(predicate string) rdf.Term {
	iri, err := IRI(predicate)
	if err != nil {
		panic(err)
	}
	return rdf.IRI(iri)
}
