package omex

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LibraryNamespace is the base of all OMEX library identifiers.
const LibraryNamespace = "http://omex-library.org/"

// LocalPrefix is the prefix bound to the namespace of the current source.
const LocalPrefix = "local"

// EntitySeparator joins an anonymous entity label to its suffix.
const EntitySeparator = "--s"

// ErrInvalidName is returned for archive or source names that cannot form
// an identifier.
var ErrInvalidName = errors.New("invalid OMEX name")

// ValidateName checks an archive or source name. Names must be non-empty and
// must not contain whitespace, '#' or '?'.
func ValidateName(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: %s name is empty", ErrInvalidName, kind)
	case strings.ContainsAny(name, " \t\r\n#?"):
		return fmt.Errorf("%w: %s name %q contains reserved characters", ErrInvalidName, kind, name)
	}
	return nil
}

// ArchiveNamespace returns the namespace of an archive.
func ArchiveNamespace(archive string) string {
	return LibraryNamespace + archive + "/"
}

// SourceNamespace returns the namespace of a file inside an archive.
func SourceNamespace(archive, source string) string {
	return ArchiveNamespace(archive) + source + "#"
}

// SubjectIRI returns the identifier of a resource defined in a source file,
// typically a model variable.
func SubjectIRI(archive, source, id string) string {
	return SourceNamespace(archive, source) + id
}

// EntityFragment returns the fragment of the n-th anonymous entity with the
// given label.
func EntityFragment(label string, n int) string {
	return label + EntitySeparator + strconv.Itoa(n)
}

// EntityIRI returns the identifier of the n-th anonymous entity with the
// given label in a source file.
func EntityIRI(archive, source, label string, n int) string {
	return SourceNamespace(archive, source) + EntityFragment(label, n)
}

// ParseEntityFragment splits an anonymous entity fragment into its label and
// suffix.
func ParseEntityFragment(fragment string) (label string, n int, ok bool) {
	i := strings.LastIndex(fragment, EntitySeparator)
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(fragment[i+len(EntitySeparator):])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return fragment[:i], n, true
}
