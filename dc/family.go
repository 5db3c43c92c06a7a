package dc

import (
	"fmt"
	"strings"
)

// Family identifies a dive computer family, i.e. one wire protocol or one memory layout.
type Family int

const (
	FamilyNull Family = iota
	FamilyUwatecSmart
	FamilySuuntoSolution
)

var familyNames = map[Family]string{
	FamilyNull:           "null",
	FamilyUwatecSmart:    "uwatec-smart",
	FamilySuuntoSolution: "suunto-solution",
}

// String returns the family name used in configuration files and on the command line.
func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}

	return fmt.Sprintf("family(%d)", int(f))
}

// ParseFamily returns the family named s. Names are case-insensitive and
// underscores are accepted in place of dashes.
func ParseFamily(s string) (Family, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for f, n := range familyNames {
		if f != FamilyNull && n == name {
			return f, nil
		}
	}

	return FamilyNull, fmt.Errorf("%w: unknown family %q", ErrInvalidArgs, s)
}
