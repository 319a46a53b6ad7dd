// Package bqbiol provides vocabulary predicates for the BioModels.net
// biology qualifiers used in COMBINE/OMEX metadata.
//
// Predicates are registered with the semstreams vocabulary registry so that
// each dotted predicate name maps to its standard qualifier IRI.
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/semunits/vocabulary/bqbiol"
package bqbiol
