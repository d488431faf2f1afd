// Package model contains domain models passed between layers.
package model

import "math"

// WageRecord represents one row of the OFLC wage export: the published
// wage levels for a (geographic area, SOC code) pair.
// Missing or non-numeric wage cells are carried as NaN.
type WageRecord struct {
	Area    string  // geographic area identifier, join key
	SocCode string  // SOC occupation code, e.g., "15-1299"
	Level1  float64 // Level I hourly wage
	Level2  float64 // Level II hourly wage
	Level3  float64 // Level III hourly wage
	Level4  float64 // Level IV hourly wage
	Average float64 // average hourly wage
	Label   string  // occupation label from the survey
}

// GeographyRecord is a row of the geography lookup table keyed by Area.
type GeographyRecord struct {
	Area           string
	AreaName       string
	StateAb        string
	State          string
	CountyTownName string
}

// EligibleLocation is a wage row joined with its geography descriptor.
// Produced only by the eligibility engine; the configured level's value
// always satisfies the configured comparator against the requested wage.
type EligibleLocation struct {
	WageRecord
	Geography GeographyRecord
}

// MissingWage marks an absent or unparseable wage cell.
func MissingWage() float64 { return math.NaN() }

// IsMissingWage reports whether v is the missing-wage marker.
func IsMissingWage(v float64) bool { return math.IsNaN(v) }

// LevelValue returns the wage for the given level, which may be missing.
func (r WageRecord) LevelValue(lvl WageLevel) float64 {
	switch lvl {
	case LevelL1:
		return r.Level1
	case LevelL2:
		return r.Level2
	case LevelL3:
		return r.Level3
	case LevelL4:
		return r.Level4
	default:
		return MissingWage()
	}
}
