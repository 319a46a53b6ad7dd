package rdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	knakk "github.com/knakk/rdf"
)

// Decode reads triples in the given format.
func Decode(r io.Reader, format Format) ([]Triple, error) {
	switch format {
	case FormatNTriples:
		return ParseNTriples(r)
	case FormatTurtle, FormatN3:
		return decodeKnakk(r, knakk.Turtle)
	case FormatRDFXML:
		return decodeKnakk(r, knakk.RDFXML)
	case FormatTriG:
		src, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		turtle, err := TriGToTurtle(string(src))
		if err != nil {
			return nil, err
		}
		return decodeKnakk(strings.NewReader(turtle), knakk.Turtle)
	case FormatJSONLD:
		return ParseJSONLD(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Unmarshal decodes data in the given format.
func Unmarshal(data []byte, format Format) ([]Triple, error) {
	return Decode(bytes.NewReader(data), format)
}

func decodeKnakk(r io.Reader, f knakk.Format) ([]Triple, error) {
	dec := knakk.NewTripleDecoder(r, f)
	var triples []Triple
	for {
		kt, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return triples, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}

		s, err := fromKnakk(kt.Subj)
		if err != nil {
			return nil, err
		}
		p, err := fromKnakk(kt.Pred)
		if err != nil {
			return nil, err
		}
		o, err := fromKnakk(kt.Obj)
		if err != nil {
			return nil, err
		}
		t, err := NewTriple(s, p, o)
		if err != nil {
			return nil, err
		}
		triples = append(triples, t)
	}
}

func fromKnakk(term knakk.Term) (Term, error) {
	switch term.Type() {
	case knakk.TermIRI:
		return IRI(term.String()), nil
	case knakk.TermBlank:
		return Blank(strings.TrimPrefix(term.Serialize(knakk.NTriples), blankPrefix)), nil
	case knakk.TermLiteral:
		lit, ok := term.(knakk.Literal)
		if !ok {
			return Term{}, fmt.Errorf("unexpected literal type %T", term)
		}
		if lang := lit.Lang(); lang != "" {
			return LangLiteral(lit.String(), lang), nil
		}
		return TypedLiteral(lit.String(), lit.DataType.String()), nil
	default:
		return Term{}, fmt.Errorf("unsupported term %s", term.Serialize(knakk.NTriples))
	}
}
