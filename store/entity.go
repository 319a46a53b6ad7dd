package store

import (
	"github.com/c360studio/semunits/ontology"
	"github.com/c360studio/semunits/rdf"
	"github.com/c360studio/semunits/vocabulary/bqbiol"
)

// used reports whether a term appears as a subject or object of any fact.
func (s *Store) used(t rdf.Term) bool {
	if s.nodes == nil {
		s.nodes = make(map[rdf.Term]struct{}, 2*len(s.facts))
		for f := range s.facts {
			s.nodes[f.Subject] = struct{}{}
			s.nodes[f.Object] = struct{}{}
		}
	}
	_, ok := s.nodes[t]
	return ok
}

// MintAnonymousEntity returns the first identifier <label>--s<N>, N >= 1,
// that no fact mentions yet. Minting adds nothing to the store, so calling
// it twice without inserting returns the same identifier.
func (s *Store) MintAnonymousEntity(label string) rdf.Term {
	for n := 1; ; n++ {
		entity := s.EntityIRI(label, n)
		if !s.used(entity) {
			return entity
		}
	}
}

// ResolveEntity finds the entity for label that carries every required
// relation. Existing entities are scanned in suffix order; one holding all
// relations is reused, one missing any is skipped. When the scan reaches an
// unused suffix, that identifier is returned with created set.
func (s *Store) ResolveEntity(label string, required []rdf.PredicateObject) (entity rdf.Term, created bool) {
	for n := 1; ; n++ {
		entity = s.EntityIRI(label, n)
		if !s.used(entity) {
			return entity, true
		}
		if s.hasAll(entity, required) {
			return entity, false
		}
	}
}

func (s *Store) hasAll(subj rdf.Term, required []rdf.PredicateObject) bool {
	for _, po := range required {
		if !s.HasFact(&subj, &po.Predicate, &po.Object) {
			return false
		}
	}
	return true
}

// AnnotateStandardQuantity states that subj is a version of a standard
// physical property term. It reports whether a fact was added.
func (s *Store) AnnotateStandardQuantity(subj, term rdf.Term) bool {
	pred := bqbiol.Term(bqbiol.IsVersionOf)
	if s.HasFact(&subj, &pred, &term) {
		s.logger.Debug("Variable already annotated", "variable", subj.Value, "term", term.Value)
		return false
	}
	return s.AddFact(subj, pred, term)
}

// AnnotateMolarAmount marks subj as a chemical molar amount.
func (s *Store) AnnotateMolarAmount(subj rdf.Term) bool {
	return s.AnnotateStandardQuantity(subj, rdf.IRI(ontology.MolarAmount))
}

// AnnotateVolumeAmount marks subj as a (liquid) volume amount.
func (s *Store) AnnotateVolumeAmount(subj rdf.Term) bool {
	return s.AnnotateStandardQuantity(subj, rdf.IRI(ontology.VolumeAmount))
}
