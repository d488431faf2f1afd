// Package eligibility implements the filter and join step: restricting the
// wage table to one SOC code, applying the wage comparison, and attaching
// geography descriptors.
package eligibility

import (
	"context"
	"fmt"
	"sort"

	"github.com/tbeaumont/wagescout/internal/domain/model"
)

// Keep the zero-match SOC sample small; it is only a hint for typos.
const socSampleSize = 10

// Params are the knobs for one eligibility run.
type Params struct {
	SocCode    string
	Level      model.WageLevel
	HourlyWage float64
	Comparator model.Comparator
}

// Result is the outcome of a filter/join run.
type Result struct {
	// Locations is the sorted set of eligible, geography-matched rows.
	Locations []model.EligibleLocation

	// SocMatches counts wage rows with the requested SOC code.
	SocMatches int

	// Eligible counts SOC matches that also satisfied the wage comparison,
	// before the geography join.
	Eligible int

	// LostRows counts eligible rows dropped for lack of a geography match.
	LostRows int

	// LevelValues holds the level-column values of all SOC matches
	// (missing values included as NaN), for descriptive statistics.
	LevelValues []float64

	// SampleSocCodes is a sorted sample of distinct SOC codes present in
	// the wage table, populated only when SocMatches is zero.
	SampleSocCodes []string
}

// Engine runs the eligibility filter and geography join.
type Engine struct {
	sampleSize int
}

// New constructs an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		sampleSize: socSampleSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run filters wages by params and inner-joins the survivors against geos.
// Zero SOC matches is not an error; the result simply carries zero counts.
// Output order is deterministic: (State, AreaName) ascending, empty sort
// keys last, input order breaking remaining ties.
func (e *Engine) Run(ctx context.Context, wages []model.WageRecord, geos []model.GeographyRecord, params Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("eligibility run cancelled: %w", err)
	}

	geoByArea := make(map[string]model.GeographyRecord, len(geos))
	for _, g := range geos {
		geoByArea[g.Area] = g
	}

	res := &Result{}
	for _, w := range wages {
		if w.SocCode != params.SocCode {
			continue
		}
		res.SocMatches++

		level := w.LevelValue(params.Level)
		res.LevelValues = append(res.LevelValues, level)

		if !params.Comparator.Eval(params.HourlyWage, level) {
			continue
		}
		res.Eligible++

		geo, ok := geoByArea[w.Area]
		if !ok {
			res.LostRows++
			continue
		}
		res.Locations = append(res.Locations, model.EligibleLocation{
			WageRecord: w,
			Geography:  geo,
		})
	}

	if res.SocMatches == 0 {
		res.SampleSocCodes = sampleSocCodes(wages, e.sampleSize)
	}

	sortLocations(res.Locations)
	return res, nil
}

// sortLocations orders rows by (State, AreaName) ascending with empty keys
// after non-empty ones. The sort is stable so equal keys keep input order.
func sortLocations(locs []model.EligibleLocation) {
	sort.SliceStable(locs, func(i, j int) bool {
		a, b := locs[i].Geography, locs[j].Geography
		if a.State != b.State {
			return lessKeyEmptyLast(a.State, b.State)
		}
		return lessKeyEmptyLast(a.AreaName, b.AreaName)
	})
}

func lessKeyEmptyLast(a, b string) bool {
	if a == "" {
		return false
	}
	if b == "" {
		return true
	}
	return a < b
}

// sampleSocCodes returns up to limit distinct codes, sorted.
func sampleSocCodes(wages []model.WageRecord, limit int) []string {
	seen := make(map[string]struct{})
	for _, w := range wages {
		seen[w.SocCode] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for c := range seen {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	if len(codes) > limit {
		codes = codes[:limit]
	}
	return codes
}
