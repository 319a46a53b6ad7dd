package rdf

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownFormat is returned when a path's extension maps to no supported
// serialization.
var ErrUnknownFormat = errors.New("unknown RDF format")

// Format specifies an RDF serialization.
type Format string

const (
	// FormatTurtle reads and writes Turtle (.ttl).
	FormatTurtle Format = "turtle"

	// FormatRDFXML reads and writes RDF/XML (.rdf, .xml).
	FormatRDFXML Format = "xml"

	// FormatNTriples reads and writes N-Triples (.nt).
	FormatNTriples Format = "nt"

	// FormatN3 reads and writes Notation3 (.n3). Only the Turtle subset is
	// supported.
	FormatN3 Format = "n3"

	// FormatJSONLD reads and writes JSON-LD (.jsonld).
	FormatJSONLD Format = "json-ld"

	// FormatTriG reads and writes TriG (.trig). Named graphs are merged into
	// the default graph on read.
	FormatTriG Format = "trig"
)

// FormatInfo provides metadata about a serialization format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extensions lists the file extensions (with dot) mapped to the format.
	Extensions []string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extensions:  []string{".rdf", ".xml"},
		Description: "RDF/XML - XML syntax for RDF",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Description: "N-Triples - Line-based RDF format",
	},
	FormatN3: {
		Name:        FormatN3,
		MIMEType:    "text/n3",
		Extensions:  []string{".n3"},
		Description: "Notation3 - Turtle superset",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extensions:  []string{".jsonld"},
		Description: "JSON-LD - JSON for Linked Data",
	},
	FormatTriG: {
		Name:        FormatTriG,
		MIMEType:    "application/trig",
		Extensions:  []string{".trig"},
		Description: "TriG - Turtle with named graphs",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// DetectFormat maps a path's extension to a Format. Matching is
// case-insensitive.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	for name, info := range FormatRegistry {
		for _, e := range info.Extensions {
			if e == ext {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("%w: extension %q (supported: %s)",
		ErrUnknownFormat, ext, strings.Join(SupportedExtensions(), ", "))
}

// SupportedExtensions returns every recognised extension, sorted.
func SupportedExtensions() []string {
	var exts []string
	for _, info := range FormatRegistry {
		exts = append(exts, info.Extensions...)
	}
	sort.Strings(exts)
	return exts
}
