// Package rdf provides the RDF term model and the serialization formats used
// to persist annotation graphs.
//
// Six formats are supported, selected by file extension: Turtle, RDF/XML,
// N-Triples, Notation3, JSON-LD and TriG. Writers produce deterministic
// output (triples sorted, prefixes sorted). Turtle, Notation3 and RDF/XML are
// read with github.com/knakk/rdf; N-Triples, JSON-LD and TriG have their own
// readers.
package rdf

import (
	"fmt"
	"strings"
)

// Well-known namespaces and IRIs.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	RDFType       = RDFNamespace + "type"
	RDFLangString = RDFNamespace + "langString"
	XSDString     = XSDNamespace + "string"
	XSDInteger    = XSDNamespace + "integer"
	XSDDouble     = XSDNamespace + "double"
	XSDBoolean    = XSDNamespace + "boolean"
	XSDDecimal    = XSDNamespace + "decimal"
	blankPrefix   = "_:"
)

// TermKind distinguishes the three kinds of RDF terms.
type TermKind int

const (
	KindIRI TermKind = iota
	KindBlank
	KindLiteral
)

func (k TermKind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is an RDF term. Terms are comparable and can be used as map keys.
// For literals, Datatype is empty for plain strings and Lang is set only for
// language-tagged strings.
type Term struct {
	Kind     TermKind
	Value    string
	Datatype string
	Lang     string
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a blank node term with the given label (without "_:").
func Blank(id string) Term {
	return Term{Kind: KindBlank, Value: id}
}

// Literal returns a plain string literal.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// TypedLiteral returns a literal with a datatype IRI. xsd:string is folded
// into the plain form so that both spellings compare equal.
func TypedLiteral(value, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// LangLiteral returns a language-tagged literal. Tags are lower-cased.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool { return t == Term{} }

// NTriples renders the term in N-Triples syntax.
func (t Term) NTriples() string {
	switch t.Kind {
	case KindIRI:
		return "<" + escapeIRI(t.Value) + ">"
	case KindBlank:
		return blankPrefix + t.Value
	default:
		lit := `"` + escapeString(t.Value) + `"`
		switch {
		case t.Lang != "":
			return lit + "@" + t.Lang
		case t.Datatype != "":
			return lit + "^^<" + escapeIRI(t.Datatype) + ">"
		default:
			return lit
		}
	}
}

// String returns the N-Triples form.
func (t Term) String() string {
	return t.NTriples()
}

// Triple is a subject–predicate–object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

// NewTriple validates term kinds: subjects are IRIs or blank nodes and
// predicates are IRIs.
func NewTriple(s, p, o Term) (Triple, error) {
	if s.IsLiteral() || s.IsZero() {
		return Triple{}, fmt.Errorf("invalid subject %s", s)
	}
	if !p.IsIRI() {
		return Triple{}, fmt.Errorf("invalid predicate %s", p)
	}
	if o.IsZero() {
		return Triple{}, fmt.Errorf("missing object")
	}
	return Triple{Subject: s, Predicate: p, Object: o}, nil
}

// NTriples renders the triple as one N-Triples line without the newline.
func (t Triple) NTriples() string {
	return t.Subject.NTriples() + " " + t.Predicate.NTriples() + " " + t.Object.NTriples() + " ."
}

func (t Triple) String() string {
	return t.NTriples()
}

// PredicateObject is a (predicate, object) pair hanging off a subject.
type PredicateObject struct {
	Predicate Term
	Object    Term
}

// Compare orders terms by kind, then value, datatype and language.
func Compare(a, b Term) int {
	switch {
	case a.Kind != b.Kind:
		return int(a.Kind) - int(b.Kind)
	case a.Value != b.Value:
		return strings.Compare(a.Value, b.Value)
	case a.Datatype != b.Datatype:
		return strings.Compare(a.Datatype, b.Datatype)
	default:
		return strings.Compare(a.Lang, b.Lang)
	}
}

// CompareTriples orders triples by subject, predicate, then object.
func CompareTriples(a, b Triple) int {
	if c := Compare(a.Subject, b.Subject); c != 0 {
		return c
	}
	if c := Compare(a.Predicate, b.Predicate); c != 0 {
		return c
	}
	return Compare(a.Object, b.Object)
}
