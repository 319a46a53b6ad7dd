// Package store provides the in-memory annotation graph for an OMEX archive.
//
// A Store holds a set of RDF facts with idempotent insertion and wildcard
// existence queries. It mints anonymous entities under the OMEX identifier
// scheme, loads its initial content from an annotation file, and saves back
// atomically. A Store is not safe for concurrent use; a run owns it.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"

	"github.com/c360studio/semunits/ontology"
	"github.com/c360studio/semunits/rdf"
	"github.com/c360studio/semunits/vocabulary/bqbiol"
	"github.com/c360studio/semunits/vocabulary/omex"
)

// Options configures a Store.
type Options struct {
	// Logger receives load/save and insertion events. Defaults to
	// slog.Default().
	Logger *slog.Logger

	// Prefixes are additional namespace bindings used on save.
	Prefixes map[string]string
}

// Store is a set of RDF facts bound to an archive and, optionally, to an
// annotation file.
type Store struct {
	path    string
	format  rdf.Format
	archive string
	source  string
	logger  *slog.Logger

	facts    map[rdf.Triple]struct{}
	prefixes map[string]string

	// Derived views, rebuilt lazily and dropped on every insertion.
	sorted []rdf.Triple
	nodes  map[rdf.Term]struct{}
}

// New returns an empty in-memory store for an archive. It serializes as
// Turtle unless saved to a path with another extension.
func New(archive string, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		format:  rdf.FormatTurtle,
		archive: archive,
		logger:  logger,
		facts:   make(map[rdf.Triple]struct{}),
		prefixes: map[string]string{
			bqbiol.Prefix: bqbiol.Namespace,
			"opb":         ontology.OPBNamespace,
		},
	}
	s.prefixes[omex.LocalPrefix] = omex.SourceNamespace(archive, s.defaultSource())
	s.BindPrefixes(opts.Prefixes)
	return s
}

// Open creates a store bound to an annotation file. The format is detected
// from the extension; an unknown extension fails with rdf.ErrUnknownFormat.
// A missing file is not an error: the store starts empty and the file is
// created on save.
func Open(path, archive string, opts Options) (*Store, error) {
	if err := omex.ValidateName("archive", archive); err != nil {
		return nil, err
	}
	format, err := rdf.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	s := New(archive, opts)
	s.path = path
	s.format = format
	s.prefixes[omex.LocalPrefix] = omex.SourceNamespace(archive, s.defaultSource())

	s.logger.Info("Loading annotations", "path", path, "format", format)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("Annotation file not found", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open annotations: %w", err)
	}
	defer f.Close()

	triples, err := rdf.Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s as %s: %w", path, format, err)
	}
	for _, t := range triples {
		s.facts[t] = struct{}{}
	}
	s.logger.Info("Loaded annotations", "path", path, "triples", len(s.facts))
	return s, nil
}

// Path returns the annotation file the store is bound to, or "".
func (s *Store) Path() string { return s.path }

// Format returns the serialization used by Save.
func (s *Store) Format() rdf.Format { return s.format }

// Archive returns the archive name used in identifiers.
func (s *Store) Archive() string { return s.archive }

// Len returns the number of facts.
func (s *Store) Len() int { return len(s.facts) }

// String summarizes the store.
func (s *Store) String() string {
	name := "<in-memory>"
	if s.path != "" {
		name = filepath.Base(s.path)
	}
	return fmt.Sprintf("Store(%q, format=%q) with %d triples", name, s.format, len(s.facts))
}

// HasFact reports whether a fact matches the pattern. A nil term matches
// anything.
func (s *Store) HasFact(subj, pred, obj *rdf.Term) bool {
	if subj != nil && pred != nil && obj != nil {
		_, ok := s.facts[rdf.Triple{Subject: *subj, Predicate: *pred, Object: *obj}]
		return ok
	}
	for t := range s.facts {
		if (subj == nil || t.Subject == *subj) &&
			(pred == nil || t.Predicate == *pred) &&
			(obj == nil || t.Object == *obj) {
			return true
		}
	}
	return false
}

// AddFact inserts a fact. It reports whether the fact was new.
func (s *Store) AddFact(subj, pred, obj rdf.Term) bool {
	t := rdf.Triple{Subject: subj, Predicate: pred, Object: obj}
	if _, ok := s.facts[t]; ok {
		return false
	}
	s.facts[t] = struct{}{}
	s.sorted = nil
	s.nodes = nil
	s.logger.Debug("Added fact", "triple", t.String())
	return true
}

// Facts returns all facts in sorted order.
func (s *Store) Facts() []rdf.Triple {
	if s.sorted == nil {
		s.sorted = rdf.SortTriples(slicesOf(s.facts))
	}
	out := make([]rdf.Triple, len(s.sorted))
	copy(out, s.sorted)
	return out
}

// Triples iterates over all facts in sorted order.
func (s *Store) Triples() iter.Seq[rdf.Triple] {
	facts := s.Facts()
	return func(yield func(rdf.Triple) bool) {
		for _, t := range facts {
			if !yield(t) {
				return
			}
		}
	}
}

// BindPrefixes adds or replaces namespace bindings used on save.
func (s *Store) BindPrefixes(prefixes map[string]string) {
	for prefix, ns := range prefixes {
		s.prefixes[prefix] = ns
		s.logger.Debug("Bound prefix", "prefix", prefix, "namespace", ns)
	}
}

// Prefixes returns a copy of the namespace bindings.
func (s *Store) Prefixes() map[string]string {
	return maps.Clone(s.prefixes)
}

// SetAnnotationSource sets the logical name of the model file being
// annotated. Identifiers minted afterwards live in its namespace, and the
// local prefix follows it.
func (s *Store) SetAnnotationSource(name string) {
	s.logger.Debug("Setting annotation source", "from", s.source, "to", name)
	s.source = name
	s.prefixes[omex.LocalPrefix] = omex.SourceNamespace(s.archive, s.currentSource())
}

// AnnotationSource returns the current annotation source, or "".
func (s *Store) AnnotationSource() string {
	return s.source
}

// VariableIRI returns the identifier of a variable in the current source.
func (s *Store) VariableIRI(id string) rdf.Term {
	return rdf.IRI(omex.SubjectIRI(s.archive, s.currentSource(), id))
}

// EntityIRI returns the identifier of the n-th anonymous entity with a label
// in the current source.
func (s *Store) EntityIRI(label string, n int) rdf.Term {
	return rdf.IRI(omex.EntityIRI(s.archive, s.currentSource(), label, n))
}

func (s *Store) currentSource() string {
	if s.source != "" {
		return s.source
	}
	return s.defaultSource()
}

// defaultSource names identifiers after the annotation file when no model
// source has been set.
func (s *Store) defaultSource() string {
	if s.path != "" {
		return filepath.Base(s.path)
	}
	return "annotations"
}

func slicesOf(facts map[rdf.Triple]struct{}) []rdf.Triple {
	out := make([]rdf.Triple, 0, len(facts))
	for t := range facts {
		out = append(out, t)
	}
	return out
}
