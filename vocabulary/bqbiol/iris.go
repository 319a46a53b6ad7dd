package bqbiol

// Namespace is the BioModels.net biology qualifier namespace.
const Namespace = "http://biomodels.net/biology-qualifiers/"

// Prefix is the conventional prefix bound to Namespace.
const Prefix = "bqbiol"

// Qualifier IRIs.
const (
	// PropIs links an entity to the external resource it is identical to.
	PropIs = Namespace + "is"

	// PropIsVersionOf links a quantity to the physical property class it
	// instantiates, such as an OPB term.
	PropIsVersionOf = Namespace + "isVersionOf"

	// PropIsPropertyOf links a quantity to the entity it is a property of.
	PropIsPropertyOf = Namespace + "isPropertyOf"

	// PropIsPartOf links an entity to the enclosing entity, such as a
	// compartment.
	PropIsPartOf = Namespace + "isPartOf"

	PropHasPart       = Namespace + "hasPart"
	PropHasProperty   = Namespace + "hasProperty"
	PropHasVersion    = Namespace + "hasVersion"
	PropIsHomologTo   = Namespace + "isHomologTo"
	PropIsDescribedBy = Namespace + "isDescribedBy"
	PropIsEncodedBy   = Namespace + "isEncodedBy"
	PropEncodes       = Namespace + "encodes"
	PropOccursIn      = Namespace + "occursIn"
	PropHasTaxon      = Namespace + "hasTaxon"
)
