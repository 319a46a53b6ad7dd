package rdf

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ParseJSONLD reads JSON-LD documents made of node objects, either a single
// node, an array of nodes, or an object with an @graph array. The @context
// may map prefixes to namespace strings; other term definitions are not
// supported. Properties whose key does not expand to an absolute IRI are
// rejected.
func ParseJSONLD(r io.Reader) ([]Triple, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse JSON-LD: %w", err)
	}

	p := &jsonldParser{prefixes: make(map[string]string)}
	var nodes []any
	switch v := doc.(type) {
	case []any:
		nodes = v
	case map[string]any:
		if err := p.context(v["@context"]); err != nil {
			return nil, err
		}
		if graph, ok := v["@graph"]; ok {
			list, ok := graph.([]any)
			if !ok {
				return nil, fmt.Errorf("@graph must be an array")
			}
			nodes = list
		} else {
			nodes = []any{v}
		}
	default:
		return nil, fmt.Errorf("JSON-LD document must be an object or array")
	}

	for _, n := range nodes {
		obj, ok := n.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("graph entries must be objects")
		}
		if _, err := p.node(obj); err != nil {
			return nil, err
		}
	}
	return p.triples, nil
}

type jsonldParser struct {
	prefixes map[string]string
	triples  []Triple
	blanks   int
}

func (p *jsonldParser) context(ctx any) error {
	switch c := ctx.(type) {
	case nil:
		return nil
	case map[string]any:
		for k, v := range c {
			if ns, ok := v.(string); ok && !strings.HasPrefix(k, "@") {
				p.prefixes[k] = ns
			}
		}
		return nil
	case []any:
		for _, item := range c {
			if err := p.context(item); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported @context %v", ctx)
	}
}

// expand resolves compact IRIs against the context prefixes.
func (p *jsonldParser) expand(s string) (Term, bool) {
	if strings.HasPrefix(s, blankPrefix) {
		return Blank(s[len(blankPrefix):]), true
	}
	if prefix, local, ok := strings.Cut(s, ":"); ok {
		if ns, known := p.prefixes[prefix]; known && !strings.HasPrefix(local, "//") {
			return IRI(ns + local), true
		}
		return IRI(s), true
	}
	return Term{}, false
}

func (p *jsonldParser) node(obj map[string]any) (Term, error) {
	var subject Term
	if id, ok := obj["@id"].(string); ok {
		t, ok := p.expand(id)
		if !ok {
			return Term{}, fmt.Errorf("node @id %q is not an absolute IRI", id)
		}
		subject = t
	} else {
		p.blanks++
		subject = Blank(fmt.Sprintf("jb%d", p.blanks))
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := obj[key]
		switch {
		case key == "@type":
			for _, v := range asList(value) {
				s, ok := v.(string)
				if !ok {
					return Term{}, fmt.Errorf("@type values must be strings")
				}
				typ, ok := p.expand(s)
				if !ok {
					return Term{}, fmt.Errorf("@type %q is not an absolute IRI", s)
				}
				p.triples = append(p.triples, Triple{Subject: subject, Predicate: IRI(RDFType), Object: typ})
			}
		case strings.HasPrefix(key, "@"):
			continue
		default:
			pred, ok := p.expand(key)
			if !ok || pred.IsBlank() {
				return Term{}, fmt.Errorf("property %q is not an absolute IRI", key)
			}
			for _, v := range asList(value) {
				o, err := p.object(v)
				if err != nil {
					return Term{}, fmt.Errorf("property %q: %w", key, err)
				}
				p.triples = append(p.triples, Triple{Subject: subject, Predicate: pred, Object: o})
			}
		}
	}
	return subject, nil
}

func (p *jsonldParser) object(v any) (Term, error) {
	switch val := v.(type) {
	case string:
		return Literal(val), nil
	case bool:
		return TypedLiteral(fmt.Sprint(val), XSDBoolean), nil
	case json.Number:
		if strings.ContainsAny(val.String(), ".eE") {
			return TypedLiteral(val.String(), XSDDouble), nil
		}
		return TypedLiteral(val.String(), XSDInteger), nil
	case map[string]any:
		if raw, ok := val["@value"]; ok {
			return p.valueObject(raw, val)
		}
		if _, ok := val["@list"]; ok {
			return Term{}, fmt.Errorf("@list is not supported")
		}
		if id, ok := val["@id"].(string); ok && len(val) == 1 {
			t, ok := p.expand(id)
			if !ok {
				return Term{}, fmt.Errorf("@id %q is not an absolute IRI", id)
			}
			return t, nil
		}
		return p.node(val)
	default:
		return Term{}, fmt.Errorf("unsupported value %v", v)
	}
}

func (p *jsonldParser) valueObject(raw any, val map[string]any) (Term, error) {
	var lexical string
	switch r := raw.(type) {
	case string:
		lexical = r
	case json.Number, bool:
		lexical = fmt.Sprint(r)
	default:
		return Term{}, fmt.Errorf("unsupported @value %v", raw)
	}

	if lang, ok := val["@language"].(string); ok {
		return LangLiteral(lexical, lang), nil
	}
	if dt, ok := val["@type"].(string); ok {
		t, ok := p.expand(dt)
		if !ok || !t.IsIRI() {
			return Term{}, fmt.Errorf("datatype %q is not an absolute IRI", dt)
		}
		return TypedLiteral(lexical, t.Value), nil
	}
	if _, isString := raw.(string); isString {
		return Literal(lexical), nil
	}
	return p.object(raw)
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}
