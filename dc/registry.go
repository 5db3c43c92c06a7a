package dc

import (
	"fmt"
	"slices"

	"github.com/puzpuzpuz/xsync/v3"
)

// Backend describes the entry points a family provides to the registry.
// Either function may be nil when the family does not support the operation.
type Backend struct {
	Family Family
	// NewParser creates a parser for the family.
	NewParser func() Parser
	// ExtractDives segments a memory image of the family into dives.
	ExtractDives func(image []byte, fn DiveFunc) error
}

var backends = xsync.NewMapOf[Family, Backend]()

// Register makes a backend available under its family. It is intended to be called from
// the init function of the package implementing the family. Registering the same family
// twice replaces the earlier backend.
func Register(b Backend) {
	if b.Family == FamilyNull {
		panic("dc: Register called with the null family")
	}

	backends.Store(b.Family, b)
}

// Lookup returns the backend registered for family f.
func Lookup(f Family) (Backend, bool) {
	return backends.Load(f)
}

// Families returns the registered families in ascending order.
func Families() []Family {
	families := make([]Family, 0, backends.Size())
	backends.Range(func(f Family, _ Backend) bool {
		families = append(families, f)
		return true
	})
	slices.Sort(families)

	return families
}

// NewParser creates a parser for family f.
func NewParser(f Family) (Parser, error) {
	b, ok := backends.Load(f)
	if !ok || b.NewParser == nil {
		return nil, fmt.Errorf("%w: no parser registered for %s", ErrUnsupported, f)
	}

	return b.NewParser(), nil
}

// ExtractDives segments image with the backend registered for family f.
func ExtractDives(f Family, image []byte, fn DiveFunc) error {
	b, ok := backends.Load(f)
	if !ok || b.ExtractDives == nil {
		return fmt.Errorf("%w: no dive extractor registered for %s", ErrUnsupported, f)
	}

	return b.ExtractDives(image, fn)
}
