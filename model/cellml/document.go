// Package cellml reads CellML 1.0, 1.1 and 2.0 documents and exposes them
// through the model interfaces.
//
// Only the parts needed for unit inference are decoded: unit definitions
// (model and component scope), components, variables and imported unit
// names. Mathematics and connections are ignored.
package cellml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// CellML and metadata namespaces.
const (
	Namespace10       = "http://www.cellml.org/cellml/1.0#"
	Namespace11       = "http://www.cellml.org/cellml/1.1#"
	Namespace20       = "http://www.cellml.org/cellml/2.0#"
	MetadataNamespace = "http://www.cellml.org/metadata/1.0#"
)

// Document is a decoded CellML model.
type Document struct {
	XMLName    xml.Name       `xml:"model"`
	Name       string         `xml:"name,attr"`
	Units      []UnitsDef     `xml:"units"`
	Components []ComponentDef `xml:"component"`
	Imports    []ImportDef    `xml:"import"`
}

// UnitsDef is a <units> element.
type UnitsDef struct {
	Name      string    `xml:"name,attr"`
	BaseUnits string    `xml:"base_units,attr"`
	Units     []UnitRef `xml:"unit"`
}

// IsBase reports whether the element declares a new base unit (CellML 1.x).
func (u UnitsDef) IsBase() bool {
	return u.BaseUnits == "yes"
}

// UnitRef is a <unit> child of a units definition.
type UnitRef struct {
	Units      string `xml:"units,attr"`
	Prefix     string `xml:"prefix,attr"`
	Exponent   string `xml:"exponent,attr"`
	Multiplier string `xml:"multiplier,attr"`
}

// ComponentDef is a <component> element.
type ComponentDef struct {
	Name      string        `xml:"name,attr"`
	Units     []UnitsDef    `xml:"units"`
	Variables []VariableDef `xml:"variable"`
}

// VariableDef is a <variable> element.
type VariableDef struct {
	Name  string     `xml:"name,attr"`
	Units string     `xml:"units,attr"`
	Attrs []xml.Attr `xml:",any,attr"`
}

// Identifier returns the variable's id attribute (CellML 2.0) or cmeta:id
// (CellML 1.x). It is empty when neither is present.
func (v VariableDef) Identifier() string {
	var cmeta string
	for _, a := range v.Attrs {
		if a.Name.Local != "id" {
			continue
		}
		switch a.Name.Space {
		case "":
			return a.Value
		case MetadataNamespace:
			cmeta = a.Value
		}
	}
	return cmeta
}

// ImportDef is an <import> element. Only imported unit names are kept.
type ImportDef struct {
	Href  string          `xml:"http://www.w3.org/1999/xlink href,attr"`
	Units []ImportedUnits `xml:"units"`
}

// ImportedUnits is a <units> child of an import.
type ImportedUnits struct {
	Name     string `xml:"name,attr"`
	UnitsRef string `xml:"units_ref,attr"`
}

// Parse decodes a CellML document.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode cellml: %w", err)
	}
	return &doc, nil
}

// ParseFile decodes the CellML document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Version returns the CellML version implied by the document namespace, or
// the empty string for an unrecognized namespace.
func (d *Document) Version() string {
	switch d.XMLName.Space {
	case Namespace10:
		return "1.0"
	case Namespace11:
		return "1.1"
	case Namespace20:
		return "2.0"
	default:
		return ""
	}
}
