package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseNTriples reads N-Triples, one statement per line. Blank lines and
// comment lines are skipped.
func ParseNTriples(r io.Reader) ([]Triple, error) {
	var triples []Triple
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ParseNTriplesLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		triples = append(triples, t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return triples, nil
}

// ParseNTriplesLine parses a single N-Triples statement.
func ParseNTriplesLine(line string) (Triple, error) {
	p := &ntParser{src: strings.TrimSpace(line)}

	s, err := p.term()
	if err != nil {
		return Triple{}, fmt.Errorf("subject: %w", err)
	}
	pred, err := p.term()
	if err != nil {
		return Triple{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := p.term()
	if err != nil {
		return Triple{}, fmt.Errorf("object: %w", err)
	}

	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], ".") {
		return Triple{}, fmt.Errorf("missing terminating '.'")
	}
	p.pos++
	p.skipSpace()
	if rest := p.src[p.pos:]; rest != "" && !strings.HasPrefix(rest, "#") {
		return Triple{}, fmt.Errorf("unexpected trailing content %q", rest)
	}

	return NewTriple(s, pred, o)
}

// ParseTerm parses a single term in N-Triples syntax.
func ParseTerm(s string) (Term, error) {
	p := &ntParser{src: strings.TrimSpace(s)}
	t, err := p.term()
	if err != nil {
		return Term{}, err
	}
	if p.pos != len(p.src) {
		return Term{}, fmt.Errorf("unexpected trailing content %q", p.src[p.pos:])
	}
	return t, nil
}

type ntParser struct {
	src string
	pos int
}

func (p *ntParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *ntParser) term() (Term, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return Term{}, fmt.Errorf("unexpected end of input")
	}

	switch {
	case p.src[p.pos] == '<':
		iri, err := p.iriRef()
		if err != nil {
			return Term{}, err
		}
		return IRI(iri), nil

	case strings.HasPrefix(p.src[p.pos:], blankPrefix):
		start := p.pos + len(blankPrefix)
		end := start
		for end < len(p.src) && !isTermEnd(p.src[end]) {
			if p.src[end] == '.' && (end+1 == len(p.src) || isTermEnd(p.src[end+1])) {
				break
			}
			end++
		}
		if end == start {
			return Term{}, fmt.Errorf("empty blank node label")
		}
		p.pos = end
		return Blank(p.src[start:end]), nil

	case p.src[p.pos] == '"':
		return p.literal()

	default:
		return Term{}, fmt.Errorf("unexpected character %q", p.src[p.pos])
	}
}

func (p *ntParser) iriRef() (string, error) {
	end := strings.IndexByte(p.src[p.pos:], '>')
	if end < 0 {
		return "", fmt.Errorf("unterminated IRI")
	}
	raw := p.src[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return unescape(raw)
}

func (p *ntParser) literal() (Term, error) {
	p.pos++ // opening quote
	start := p.pos
	for {
		if p.pos >= len(p.src) {
			return Term{}, fmt.Errorf("unterminated literal")
		}
		c := p.src[p.pos]
		if c == '\\' {
			p.pos += 2
			continue
		}
		if c == '"' {
			break
		}
		p.pos++
	}
	value, err := unescape(p.src[start:p.pos])
	if err != nil {
		return Term{}, err
	}
	p.pos++ // closing quote

	switch {
	case strings.HasPrefix(p.src[p.pos:], "@"):
		start := p.pos + 1
		end := start
		for end < len(p.src) && !isTermEnd(p.src[end]) && p.src[end] != '.' {
			end++
		}
		p.pos = end
		return LangLiteral(value, p.src[start:end]), nil

	case strings.HasPrefix(p.src[p.pos:], "^^"):
		p.pos += 2
		if p.pos >= len(p.src) || p.src[p.pos] != '<' {
			return Term{}, fmt.Errorf("datatype must be an IRI")
		}
		dt, err := p.iriRef()
		if err != nil {
			return Term{}, err
		}
		return TypedLiteral(value, dt), nil
	}
	return Literal(value), nil
}

func isTermEnd(c byte) bool {
	return c == ' ' || c == '\t' || c == '<' || c == '>' || c == '"'
}

// unescape resolves ECHAR and UCHAR escapes.
func unescape(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape")
		}
		switch s[i] {
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case '"', '\'', '\\':
			b.WriteByte(s[i])
		case 'u', 'U':
			n := 4
			if s[i] == 'U' {
				n = 8
			}
			if i+1+n > len(s) {
				return "", fmt.Errorf("short unicode escape")
			}
			code, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32)
			if err != nil {
				return "", fmt.Errorf("bad unicode escape: %w", err)
			}
			if !utf8.ValidRune(rune(code)) {
				return "", fmt.Errorf("invalid code point %x", code)
			}
			b.WriteRune(rune(code))
			i += n
		default:
			return "", fmt.Errorf("unknown escape \\%c", s[i])
		}
	}
	return b.String(), nil
}

func escapeString(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t\b\f") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func escapeIRI(s string) string {
	if !strings.ContainsAny(s, "<>\"{}|^`\\ ") {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
