package annotate

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/semunits/classifier"
	"github.com/c360studio/semunits/inference"
	"github.com/c360studio/semunits/metrics"
	"github.com/c360studio/semunits/model"
	"github.com/c360studio/semunits/rdf"
	"github.com/c360studio/semunits/store"
	"github.com/c360studio/semunits/units"
	"github.com/c360studio/semunits/vocabulary/bqbiol"
)

// Stats counts what an annotation pass did.
type Stats struct {
	Variables       int
	Inferred        int
	Classified      int
	FactsAdded      int
	EntitiesCreated int
}

// Add accumulates other into s.
func (s *Stats) Add(other Stats) {
	s.Variables += other.Variables
	s.Inferred += other.Inferred
	s.Classified += other.Classified
	s.FactsAdded += other.FactsAdded
	s.EntitiesCreated += other.EntitiesCreated
}

// Annotator applies the annotation policy to model variables, writing facts
// into a store.
type Annotator struct {
	store      *store.Store
	engine     *inference.Engine
	classifier *classifier.Classifier
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// NewAnnotator creates an annotator. rec may be nil.
func NewAnnotator(s *store.Store, engine *inference.Engine, cls *classifier.Classifier, rec *metrics.Recorder, logger *slog.Logger) *Annotator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Annotator{
		store:      s,
		engine:     engine,
		classifier: cls,
		metrics:    rec,
		logger:     logger,
	}
}

// AnnotateModel annotates every variable of m. Identifiers are built in the
// namespace of source.
func (a *Annotator) AnnotateModel(m model.Model, source string) (Stats, error) {
	a.store.SetAnnotationSource(source)
	before := a.store.Len()
	defs := model.Resolver(m)

	var stats Stats
	err := model.Walk(m, func(c model.Component, v model.Variable) error {
		vs, err := a.AnnotateVariable(v, defs)
		if err != nil {
			return fmt.Errorf("component %s: %w", c.Name(), err)
		}
		stats.Add(vs)
		return nil
	})
	if err != nil {
		return stats, err
	}

	stats.FactsAdded = a.store.Len() - before
	a.metrics.Model(stats.FactsAdded, stats.EntitiesCreated)
	a.logger.Info("Annotated model",
		"model", m.Name(),
		"source", source,
		"variables", stats.Variables,
		"inferred", stats.Inferred,
		"classified", stats.Classified,
		"facts_added", stats.FactsAdded)
	return stats, nil
}

// AnnotateVariable applies the policy to one variable:
//
//   - no category: nothing is recorded;
//   - category only: the variable is a version of the category's standard
//     term;
//   - category and name classification: additionally the variable is a
//     property of the entity <amountKind>_<species>_<compartment>, which is
//     reused when an entity with the same species and compartment exists and
//     minted otherwise.
func (a *Annotator) AnnotateVariable(v model.Variable, defs units.Resolver) (Stats, error) {
	stats := Stats{Variables: 1}

	cat, ok, err := a.engine.Infer(v, defs)
	if err != nil {
		return stats, err
	}
	if !ok {
		a.metrics.Variable("")
		a.logger.Debug("No category for variable", "variable", v.Name(), "units", v.Units())
		return stats, nil
	}
	stats.Inferred++
	a.metrics.Variable(cat.Name())

	subject := a.store.VariableIRI(v.ID())

	cls, miss := a.classifier.Classify(v.Name())
	if miss == classifier.MissNone {
		stats.Classified++
		required := []rdf.PredicateObject{
			{Predicate: bqbiol.Term(bqbiol.Is), Object: rdf.IRI(cls.Species)},
			{Predicate: bqbiol.Term(bqbiol.IsPartOf), Object: rdf.IRI(cls.Compartment)},
		}
		entity, created := a.store.ResolveEntity(cls.EntityLabel(cat.AmountKind()), required)
		if created {
			stats.EntitiesCreated++
			for _, po := range required {
				a.store.AddFact(entity, po.Predicate, po.Object)
			}
			a.logger.Debug("Minted entity", "entity", entity.Value)
		}
		a.store.AddFact(subject, bqbiol.Term(bqbiol.IsPropertyOf), entity)
	} else {
		a.metrics.ClassificationMiss(miss.String())
		a.logger.Info("Variable not classified by name",
			"variable", v.Name(),
			"reason", miss.String())
	}

	a.store.AnnotateStandardQuantity(subject, rdf.IRI(cat.StandardTerm()))
	a.logger.Debug("Annotated variable",
		"variable", v.Name(),
		"category", cat.Name(),
		"term", cat.StandardTerm())
	return stats, nil
}
