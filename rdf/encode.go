package rdf

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"slices"
	"sort"
	"strings"
)

var (
	prefixNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_\-]*$`)
	localNamePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)
)

// Encode writes triples to w in the given format. Prefixes map short names
// to namespace IRIs and are used wherever the format can abbreviate.
func Encode(w io.Writer, format Format, triples []Triple, prefixes map[string]string) error {
	data, err := Marshal(format, triples, prefixes)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal serializes triples into the given format.
func Marshal(format Format, triples []Triple, prefixes map[string]string) ([]byte, error) {
	sorted := SortTriples(triples)
	switch format {
	case FormatNTriples:
		w := NewNTriplesWriter()
		for _, t := range sorted {
			w.WriteTriple(t)
		}
		return []byte(w.String()), nil

	case FormatTurtle, FormatN3:
		w := NewTurtleWriter(prefixes)
		w.WritePrefixes()
		w.WriteTriples(sorted, "")
		return []byte(w.String()), nil

	case FormatTriG:
		w := NewTurtleWriter(prefixes)
		w.WritePrefixes()
		w.sb.WriteString("{\n")
		w.WriteTriples(sorted, "    ")
		w.sb.WriteString("}\n")
		return []byte(w.String()), nil

	case FormatRDFXML:
		w := NewRDFXMLWriter(prefixes)
		return []byte(w.Write(sorted)), nil

	case FormatJSONLD:
		w := NewJSONLDWriter()
		w.SetContext(prefixes)
		w.AddTriples(sorted)
		return w.Bytes()

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// SortTriples returns a sorted, de-duplicated copy of triples.
func SortTriples(triples []Triple) []Triple {
	sorted := slices.Clone(triples)
	slices.SortFunc(sorted, CompareTriples)
	return slices.Compact(sorted)
}

// subjectGroups splits sorted triples into runs sharing a subject.
func subjectGroups(sorted []Triple) [][]Triple {
	var groups [][]Triple
	start := 0
	for i := 1; i <= len(sorted); i++ {
		if i == len(sorted) || sorted[i].Subject != sorted[start].Subject {
			groups = append(groups, sorted[start:i])
			start = i
		}
	}
	return groups
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(t Triple) {
	w.sb.WriteString(t.NTriples())
	w.sb.WriteByte('\n')
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a Turtle writer. Prefix names that are not valid
// Turtle prefix labels are ignored.
func NewTurtleWriter(prefixes map[string]string) *TurtleWriter {
	w := &TurtleWriter{prefixes: make(map[string]string, len(prefixes))}
	for p, ns := range prefixes {
		if prefixNamePattern.MatchString(p) && ns != "" {
			w.prefixes[p] = ns
		}
	}
	return w
}

// WritePrefixes writes prefix declarations.
func (w *TurtleWriter) WritePrefixes() {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, prefix := range keys {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, escapeIRI(w.prefixes[prefix]))
	}
	if len(keys) > 0 {
		w.sb.WriteString("\n")
	}
}

// WriteTriples writes sorted triples grouped by subject, each line prefixed
// with indent.
func (w *TurtleWriter) WriteTriples(sorted []Triple, indent string) {
	for gi, group := range subjectGroups(sorted) {
		if gi > 0 {
			w.sb.WriteString("\n")
		}
		w.sb.WriteString(indent + w.term(group[0].Subject) + "\n")

		for i := 0; i < len(group); {
			j := i
			var objects []string
			for j < len(group) && group[j].Predicate == group[i].Predicate {
				objects = append(objects, w.term(group[j].Object))
				j++
			}

			pred := w.term(group[i].Predicate)
			if group[i].Predicate.Value == RDFType {
				pred = "a"
			}
			terminator := " ;"
			if j == len(group) {
				terminator = " ."
			}
			fmt.Fprintf(&w.sb, "%s    %s %s%s\n", indent, pred, strings.Join(objects, ", "), terminator)
			i = j
		}
	}
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

func (w *TurtleWriter) term(t Term) string {
	if t.IsIRI() {
		if qname, ok := compact(t.Value, w.prefixes); ok {
			return qname
		}
	}
	return t.NTriples()
}

// compact abbreviates iri with the longest matching namespace.
func compact(iri string, prefixes map[string]string) (string, bool) {
	best, bestNS := "", ""
	for p, ns := range prefixes {
		if !strings.HasPrefix(iri, ns) || len(ns) <= len(bestNS) {
			continue
		}
		if localNamePattern.MatchString(iri[len(ns):]) {
			best, bestNS = p, ns
		}
	}
	if bestNS == "" {
		return "", false
	}
	return best + ":" + iri[len(bestNS):], true
}

// RDFXMLWriter writes RDF in RDF/XML format.
type RDFXMLWriter struct {
	prefixes   map[string]string
	namespaces map[string]string // namespace IRI -> prefix
	generated  int
}

// NewRDFXMLWriter creates an RDF/XML writer using prefixes for predicate
// namespaces. Namespaces without a prefix get generated ones.
func NewRDFXMLWriter(prefixes map[string]string) *RDFXMLWriter {
	w := &RDFXMLWriter{
		prefixes:   map[string]string{"rdf": RDFNamespace},
		namespaces: map[string]string{RDFNamespace: "rdf"},
	}
	keys := make([]string, 0, len(prefixes))
	for k := range prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, p := range keys {
		ns := prefixes[p]
		if p == "rdf" || !prefixNamePattern.MatchString(p) || ns == "" {
			continue
		}
		if _, taken := w.namespaces[ns]; taken {
			continue
		}
		w.prefixes[p] = ns
		w.namespaces[ns] = p
	}
	return w
}

// Write renders sorted triples as an RDF/XML document.
func (w *RDFXMLWriter) Write(sorted []Triple) string {
	var body strings.Builder
	for _, group := range subjectGroups(sorted) {
		body.WriteString("  <rdf:Description " + nodeAttr("about", group[0].Subject) + ">\n")
		for _, t := range group {
			name := w.qname(t.Predicate.Value)
			switch o := t.Object; o.Kind {
			case KindIRI, KindBlank:
				fmt.Fprintf(&body, "    <%s %s/>\n", name, nodeAttr("resource", o))
			default:
				attr := ""
				switch {
				case o.Lang != "":
					attr = ` xml:lang="` + xmlEscape(o.Lang) + `"`
				case o.Datatype != "":
					attr = ` rdf:datatype="` + xmlEscape(o.Datatype) + `"`
				}
				fmt.Fprintf(&body, "    <%s%s>%s</%s>\n", name, attr, xmlEscape(o.Value), name)
			}
		}
		body.WriteString("  </rdf:Description>\n")
	}

	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString(xml.Header)
	sb.WriteString("<rdf:RDF")
	for _, p := range keys {
		fmt.Fprintf(&sb, "\n    xmlns:%s=\"%s\"", p, xmlEscape(w.prefixes[p]))
	}
	sb.WriteString(">\n")
	sb.WriteString(body.String())
	sb.WriteString("</rdf:RDF>\n")
	return sb.String()
}

// qname splits a predicate IRI into a namespace and an XML local name,
// registering a generated prefix when the namespace is new.
func (w *RDFXMLWriter) qname(iri string) string {
	cut := strings.LastIndexAny(iri, "#/:")
	for cut >= 0 && !localNamePattern.MatchString(iri[cut+1:]) {
		// Walk left until the remainder is a valid local name.
		cut = strings.LastIndexAny(iri[:cut], "#/:")
	}
	if cut < 0 {
		cut = len(iri) - 1
	}
	ns, local := iri[:cut+1], iri[cut+1:]

	prefix, ok := w.namespaces[ns]
	if !ok {
		for {
			w.generated++
			prefix = fmt.Sprintf("ns%d", w.generated)
			if _, taken := w.prefixes[prefix]; !taken {
				break
			}
		}
		w.prefixes[prefix] = ns
		w.namespaces[ns] = prefix
	}
	return prefix + ":" + local
}

func nodeAttr(kind string, t Term) string {
	if t.IsBlank() {
		return `rdf:nodeID="` + xmlEscape(t.Value) + `"`
	}
	return "rdf:" + kind + `="` + xmlEscape(t.Value) + `"`
}

func xmlEscape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON flattens Properties next to @id and @type.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter writes RDF in flattened JSON-LD form. Node ids and property
// keys are absolute IRIs; the context carries the prefixes for readers that
// compact.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		doc: JSONLDDocument{
			Context: make(map[string]any),
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext sets the @context with prefixes.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
}

// AddTriples adds one node per subject of the sorted triples.
func (w *JSONLDWriter) AddTriples(sorted []Triple) {
	for _, group := range subjectGroups(sorted) {
		node := JSONLDNode{
			ID:         jsonldID(group[0].Subject),
			Properties: make(map[string]any),
		}
		for _, t := range group {
			if t.Predicate.Value == RDFType && t.Object.IsIRI() {
				node.Type = append(node.Type, t.Object.Value)
				continue
			}
			values, _ := node.Properties[t.Predicate.Value].([]any)
			node.Properties[t.Predicate.Value] = append(values, jsonldValue(t.Object))
		}
		w.doc.Graph = append(w.doc.Graph, node)
	}
}

// Bytes returns the indented JSON-LD output.
func (w *JSONLDWriter) Bytes() ([]byte, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON-LD: %w", err)
	}
	return append(data, '\n'), nil
}

func jsonldID(t Term) string {
	if t.IsBlank() {
		return blankPrefix + t.Value
	}
	return t.Value
}

func jsonldValue(t Term) map[string]any {
	switch {
	case t.IsIRI() || t.IsBlank():
		return map[string]any{"@id": jsonldID(t)}
	case t.Lang != "":
		return map[string]any{"@value": t.Value, "@language": t.Lang}
	case t.Datatype != "":
		return map[string]any{"@value": t.Value, "@type": t.Datatype}
	default:
		return map[string]any{"@value": t.Value}
	}
}
