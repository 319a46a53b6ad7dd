package cellml

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/semunits/units"
)

// ErrInvalidModel is matched by every validation failure.
var ErrInvalidModel = errors.New("invalid cellml model")

// Issue is a single structural validation problem.
type Issue struct {
	// Path locates the offending element, e.g. "component[pt]/variable[q]".
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationError reports all issues found in a document.
type ValidationError struct {
	Path   string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.String())
	}
	return fmt.Sprintf("%s: %d validation issue(s): %s", e.Path, len(e.Issues), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidModel
}

type validator struct {
	doc      *Document
	imported map[string]bool
	issues   []Issue
}

// Validate checks the structural rules the inference engine relies on and
// returns every violation found. An empty result means the document is valid.
func (d *Document) Validate() []Issue {
	v := &validator{doc: d, imported: make(map[string]bool)}
	for _, imp := range d.Imports {
		for _, u := range imp.Units {
			v.imported[u.Name] = true
		}
	}

	v.checkModel()
	v.checkUnitsScope("", d.Units, nil)
	v.checkComponents()
	if len(v.issues) == 0 {
		v.checkCycles()
	}
	return v.issues
}

// ValidateStrict is Validate plus the rule that the document must be
// CellML 2.0. Legacy 1.0 and 1.1 documents are otherwise accepted.
func (d *Document) ValidateStrict() []Issue {
	issues := d.Validate()
	if version := d.Version(); version != "" && version != "2.0" {
		issues = append(issues, Issue{
			Path:    "model",
			Message: fmt.Sprintf("strict mode requires CellML 2.0, found %s", version),
		})
	}
	return issues
}

func (v *validator) addf(path, format string, args ...any) {
	v.issues = append(v.issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) checkModel() {
	if v.doc.Version() == "" {
		v.addf("model", "unrecognized namespace %q", v.doc.XMLName.Space)
	}
	if v.doc.Name == "" {
		v.addf("model", "missing name attribute")
	}
}

// checkUnitsScope validates a list of unit definitions. local holds the
// names defined in the enclosing component, nil at model scope.
func (v *validator) checkUnitsScope(scope string, defs []UnitsDef, local map[string]bool) {
	seen := make(map[string]bool)
	for _, u := range defs {
		path := unitsPath(scope, u.Name)
		switch {
		case u.Name == "":
			v.addf(path, "missing name attribute")
			continue
		case units.IsStandard(u.Name):
			v.addf(path, "redefines built-in unit")
		case seen[u.Name]:
			v.addf(path, "duplicate units name")
		}
		seen[u.Name] = true

		if u.IsBase() {
			if len(u.Units) > 0 {
				v.addf(path, "base units must not have unit children")
			}
			continue
		}
		if len(u.Units) == 0 {
			v.addf(path, "no unit children")
		}
		for _, ref := range u.Units {
			if ref.Units == "" {
				v.addf(path, "unit child missing units attribute")
				continue
			}
			if !v.known(ref.Units, local) {
				v.addf(path, "references unknown units %q", ref.Units)
			}
			if _, err := toTerm(ref); err != nil {
				v.addf(path, "unit %q: %v", ref.Units, err)
			}
		}
	}
}

func (v *validator) checkComponents() {
	seen := make(map[string]bool)
	for _, c := range v.doc.Components {
		path := "component[" + c.Name + "]"
		if c.Name == "" {
			v.addf(path, "missing name attribute")
		} else if seen[c.Name] {
			v.addf(path, "duplicate component name")
		}
		seen[c.Name] = true

		local := make(map[string]bool, len(c.Units))
		for _, u := range c.Units {
			local[u.Name] = true
		}
		v.checkUnitsScope(c.Name, c.Units, local)

		vars := make(map[string]bool)
		for _, variable := range c.Variables {
			vpath := path + "/variable[" + variable.Name + "]"
			if variable.Name == "" {
				v.addf(vpath, "missing name attribute")
			} else if vars[variable.Name] {
				v.addf(vpath, "duplicate variable name")
			}
			vars[variable.Name] = true

			switch {
			case variable.Units == "":
				v.addf(vpath, "missing units attribute")
			case !v.known(variable.Units, local):
				v.addf(vpath, "references unknown units %q", variable.Units)
			}
		}
	}
}

func (v *validator) checkCycles() {
	m, err := NewModel(v.doc)
	if err != nil {
		v.addf("model", "%v", err)
		return
	}
	names := make([]string, 0, len(m.definitions))
	for name := range m.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := units.Expand(m.definitions[name], m.definitions); errors.Is(err, units.ErrCyclicDefinition) {
			v.addf("units["+name+"]", "%v", err)
		}
	}
}

func (v *validator) known(name string, local map[string]bool) bool {
	if local[name] || units.IsStandard(name) || v.imported[name] {
		return true
	}
	for _, u := range v.doc.Units {
		if u.Name == name {
			return true
		}
	}
	return false
}

func unitsPath(scope, name string) string {
	if scope == "" {
		return "units[" + name + "]"
	}
	return "component[" + scope + "]/units[" + name + "]"
}
