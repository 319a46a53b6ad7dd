package rdf

import (
	"fmt"
	"sort"
	"strings"
)

type trigTokenKind int

const (
	trigWord trigTokenKind = iota
	trigIRI
	trigString
	trigPunct
)

type trigToken struct {
	kind       trigTokenKind
	start, end int
	text       string
}

// TriGToTurtle flattens a TriG document into Turtle by dropping graph
// labels and braces. Every named graph is merged into the default graph.
// Statements are otherwise copied verbatim, so prefixes and literals keep
// their original spelling.
func TriGToTurtle(src string) (string, error) {
	tokens, err := scanTriG(src)
	if err != nil {
		return "", err
	}

	deleted := make(map[int]bool)
	inserts := make(map[int]string)

	depth := 0
	var stmt []int
	lastInner := -1
	directive := false

	for i, tok := range tokens {
		if depth == 0 {
			switch {
			case tok.kind == trigPunct && tok.text == "{":
				for _, j := range stmt {
					deleted[j] = true
				}
				deleted[i] = true
				stmt = stmt[:0]
				depth, lastInner = 1, -1
			case tok.kind == trigPunct && tok.text == "}":
				return "", fmt.Errorf("trig: unbalanced '}' at offset %d", tok.start)
			case tok.kind == trigPunct && tok.text == ".":
				stmt, directive = stmt[:0], false
			case tok.kind == trigWord && len(stmt) == 0 &&
				(strings.EqualFold(tok.text, "PREFIX") || strings.EqualFold(tok.text, "BASE")):
				directive = true
				stmt = append(stmt, i)
			case tok.kind == trigIRI && directive:
				stmt, directive = stmt[:0], false
			default:
				stmt = append(stmt, i)
			}
			continue
		}

		switch {
		case tok.kind == trigPunct && tok.text == "{":
			return "", fmt.Errorf("trig: nested graph at offset %d", tok.start)
		case tok.kind == trigPunct && tok.text == "}":
			deleted[i] = true
			if lastInner >= 0 && tokens[lastInner].text != "." {
				inserts[tokens[lastInner].end] = " ."
			}
			depth = 0
		default:
			lastInner = i
		}
	}
	if depth != 0 {
		return "", fmt.Errorf("trig: unterminated graph block")
	}

	var cuts []trigToken
	for i := range tokens {
		if deleted[i] {
			cuts = append(cuts, tokens[i])
		}
	}
	positions := make([]int, 0, len(inserts))
	for pos := range inserts {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	var out strings.Builder
	cursor := 0
	for cursor < len(src) {
		if len(positions) > 0 && positions[0] == cursor {
			out.WriteString(inserts[cursor])
			positions = positions[1:]
		}
		if len(cuts) > 0 && cuts[0].start == cursor {
			out.WriteByte(' ')
			cursor = cuts[0].end
			cuts = cuts[1:]
			continue
		}
		out.WriteByte(src[cursor])
		cursor++
	}
	for _, pos := range positions {
		out.WriteString(inserts[pos])
	}
	return out.String(), nil
}

func scanTriG(src string) ([]trigToken, error) {
	var tokens []trigToken
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}

		case c == '<':
			end := strings.IndexByte(src[i:], '>')
			if end < 0 {
				return nil, fmt.Errorf("trig: unterminated IRI at offset %d", i)
			}
			tokens = append(tokens, trigToken{kind: trigIRI, start: i, end: i + end + 1, text: src[i : i+end+1]})
			i += end + 1

		case c == '"' || c == '\'':
			end, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, trigToken{kind: trigString, start: i, end: end, text: src[i:end]})
			i = end

		case strings.IndexByte("{}.;,[]()", c) >= 0:
			tokens = append(tokens, trigToken{kind: trigPunct, start: i, end: i + 1, text: src[i : i+1]})
			i++

		default:
			start := i
			for i < len(src) && !isWordBreak(src[i]) {
				if src[i] == '.' && (i+1 == len(src) || isWordBreak(src[i+1]) || src[i+1] == '.') {
					break
				}
				i++
			}
			tokens = append(tokens, trigToken{kind: trigWord, start: start, end: i, text: src[start:i]})
		}
	}
	return tokens, nil
}

func isWordBreak(c byte) bool {
	return strings.IndexByte(" \t\r\n<>\"'{};,[]()#", c) >= 0
}

// scanString returns the offset just past the string literal starting at i.
func scanString(src string, i int) (int, error) {
	quote := src[i : i+1]
	long := strings.Repeat(quote, 3)
	if strings.HasPrefix(src[i:], long) {
		j := i + 3
		for j < len(src) {
			if src[j] == '\\' {
				j += 2
				continue
			}
			if strings.HasPrefix(src[j:], long) {
				return j + 3, nil
			}
			j++
		}
		return 0, fmt.Errorf("trig: unterminated long string at offset %d", i)
	}

	j := i + 1
	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
			continue
		case quote[0]:
			return j + 1, nil
		case '\n':
			return 0, fmt.Errorf("trig: newline in string at offset %d", i)
		}
		j++
	}
	return 0, fmt.Errorf("trig: unterminated string at offset %d", i)
}
