package model

import (
	"fmt"
	"strings"
)

// WageLevel identifies one of the four published wage tiers.
type WageLevel string

// Supported wage levels.
const (
	LevelL1 WageLevel = "L1"
	LevelL2 WageLevel = "L2"
	LevelL3 WageLevel = "L3"
	LevelL4 WageLevel = "L4"
)

// ParseWageLevel normalizes and validates a wage level string.
// Input is case-insensitive ("l3" parses as L3).
func ParseWageLevel(s string) (WageLevel, error) {
	switch lvl := WageLevel(strings.ToUpper(strings.TrimSpace(s))); lvl {
	case LevelL1, LevelL2, LevelL3, LevelL4:
		return lvl, nil
	default:
		return "", fmt.Errorf("wage level must be one of L1, L2, L3, L4 (got %q)", s)
	}
}

// Column returns the wage table column holding this level's values,
// e.g., L1 -> "Level1".
func (l WageLevel) Column() string {
	return "Level" + strings.TrimPrefix(string(l), "L")
}

func (l WageLevel) String() string { return string(l) }
