package model

import (
	"fmt"
	"strings"
)

// Comparator is the relational operator applied as
// "hourly_wage <op> level_value" when deciding eligibility.
type Comparator string

// Supported comparison operators.
const (
	CompareGTE Comparator = ">="
	CompareGT  Comparator = ">"
	CompareLTE Comparator = "<="
	CompareLT  Comparator = "<"
	CompareEQ  Comparator = "="
)

// DefaultComparator is used when the configuration does not override it:
// the wage meets or exceeds the level.
const DefaultComparator = CompareGTE

// ParseComparator validates a comparison operator string.
func ParseComparator(s string) (Comparator, error) {
	switch op := Comparator(strings.TrimSpace(s)); op {
	case CompareGTE, CompareGT, CompareLTE, CompareLT, CompareEQ:
		return op, nil
	case "":
		return DefaultComparator, nil
	default:
		return "", fmt.Errorf("comparison operator must be one of >=, >, <=, <, = (got %q)", s)
	}
}

// Eval reports whether "wage <op> level" holds. A missing level value
// never satisfies any operator.
func (c Comparator) Eval(wage, level float64) bool {
	if IsMissingWage(level) {
		return false
	}
	switch c {
	case CompareGTE:
		return wage >= level
	case CompareGT:
		return wage > level
	case CompareLTE:
		return wage <= level
	case CompareLT:
		return wage < level
	case CompareEQ:
		return wage == level
	default:
		return false
	}
}

func (c Comparator) String() string { return string(c) }
