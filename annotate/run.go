// Package annotate drives annotation runs: it loads and validates models,
// infers variable categories, applies the annotation policy and persists the
// resulting store.
package annotate

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semunits/classifier"
	"github.com/c360studio/semunits/inference"
	"github.com/c360studio/semunits/metrics"
	"github.com/c360studio/semunits/model"
	"github.com/c360studio/semunits/model/cellml"
	"github.com/c360studio/semunits/ontology"
	"github.com/c360studio/semunits/rdf"
	"github.com/c360studio/semunits/store"
	"github.com/c360studio/semunits/vocabulary/omex"
)

// Options configures a run.
type Options struct {
	// Inputs are model file paths or doublestar patterns.
	Inputs []string

	// Annotations is the annotation file loaded at start.
	Annotations string

	// Output is where the store is saved. Empty means Annotations.
	Output string

	// Archive is the OMEX archive name used in identifiers.
	Archive string

	// ArchiveRoot makes source names relative paths instead of base names.
	ArchiveRoot string

	// Force allows replacing an existing output file. Without it Run fails
	// with a ConflictError wrapping store.ErrOutputExists. The conflict
	// check is bypassed for in-place updates: when Output is empty or names
	// the same file as Annotations, the annotation file is rewritten even if
	// Force is false.
	Force bool

	// Tables are the classifier tables. Zero value means DefaultTables.
	Tables classifier.Tables

	// Prefixes are extra namespace bindings written on save.
	Prefixes map[string]string

	// Catalog is the category catalog. Nil means ontology.NewCatalog.
	Catalog *ontology.Catalog

	// Metrics receives run statistics. May be nil.
	Metrics *metrics.Recorder

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Result summarizes a completed run.
type Result struct {
	RunID       string
	Output      string
	Models      int
	TriplesLoad int
	TriplesSave int
	Stats       Stats
	Duration    time.Duration
}

type loadedModel struct {
	path   string
	source string
	model  model.Model
}

// Run performs one annotation run. Checks happen in a fixed order so that
// nothing is written unless every model is valid: annotation format, output
// conflict, input resolution, store load, model validation, annotation, and
// finally a single atomic save.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("run_id", runID)

	res, err := run(ctx, opts, runID, logger)
	status := "success"
	if err != nil {
		status = "failure"
		logger.Error("Run failed", "error", err)
	}

	triples := 0
	if res != nil {
		res.Duration = time.Since(start)
		triples = res.TriplesSave
	}
	opts.Metrics.RunFinished(status, time.Since(start), triples)
	return res, err
}

func run(ctx context.Context, opts Options, runID string, logger *slog.Logger) (*Result, error) {
	if err := omex.ValidateName("archive", opts.Archive); err != nil {
		return nil, NewConfigError(err)
	}
	if len(opts.Inputs) == 0 {
		return nil, NewConfigError(fmt.Errorf("no input models"))
	}
	if opts.Annotations == "" {
		return nil, NewConfigError(fmt.Errorf("no annotation file"))
	}

	output := opts.Output
	if output == "" {
		output = opts.Annotations
	}
	if _, err := rdf.DetectFormat(opts.Annotations); err != nil {
		return nil, NewConfigError(err)
	}
	if _, err := rdf.DetectFormat(output); err != nil {
		return nil, NewConfigError(err)
	}

	overwrite := opts.Force || samePath(output, opts.Annotations)
	if err := store.CheckWritable(output, overwrite); err != nil {
		return nil, NewConflictError(err)
	}

	paths, err := ResolveInputs(opts.Inputs)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(opts.Annotations, opts.Archive, store.Options{
		Logger:   logger,
		Prefixes: opts.Prefixes,
	})
	if err != nil {
		return nil, NewConfigError(err)
	}
	result := &Result{RunID: runID, Output: output, TriplesLoad: s.Len()}

	models := make([]loadedModel, 0, len(paths))
	for _, path := range paths {
		m, err := cellml.Load(path)
		if err != nil {
			return nil, NewPreconditionError(err)
		}
		source, err := SourceName(path, opts.ArchiveRoot)
		if err != nil {
			return nil, err
		}
		if err := omex.ValidateName("source", source); err != nil {
			return nil, NewConfigError(err)
		}
		logger.Debug("Validated model", "path", path, "source", source, "variables", model.VariableCount(m))
		models = append(models, loadedModel{path: path, source: source, model: m})
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog = ontology.NewCatalog()
	}
	tables := opts.Tables
	if tables.Compartments == nil && tables.Species == nil {
		tables = classifier.DefaultTables()
	}
	annotator := NewAnnotator(s, inference.NewEngine(catalog), classifier.New(tables), opts.Metrics, logger)

	for _, lm := range models {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("run cancelled before %s: %w", lm.path, err)
		}
		stats, err := annotator.AnnotateModel(lm.model, lm.source)
		if err != nil {
			return nil, fmt.Errorf("annotate %s: %w", lm.path, err)
		}
		result.Stats.Add(stats)
		result.Models++
	}

	if err := s.Save(output, overwrite); err != nil {
		if IsConflict(err) || isOutputExists(err) {
			return nil, NewConflictError(err)
		}
		return nil, fmt.Errorf("save annotations: %w", err)
	}
	result.TriplesSave = s.Len()

	logger.Info("Run complete",
		"models", result.Models,
		"facts_added", result.Stats.FactsAdded,
		"entities_created", result.Stats.EntitiesCreated,
		"triples", result.TriplesSave,
		"output", output)
	return result, nil
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
