package eligibility_test

import (
	"context"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tbeaumont/wagescout/internal/domain/eligibility"
	"github.com/tbeaumont/wagescout/internal/domain/model"
)

func wageRow(area, soc string, level4 float64) model.WageRecord {
	return model.WageRecord{
		Area: area, SocCode: soc,
		Level1: level4 * 0.6, Level2: level4 * 0.75, Level3: level4 * 0.9,
		Level4: level4, Average: level4 * 0.8,
		Label: "Computer Occupations, All Other",
	}
}

func geoRow(area, areaName, stateAb, state string) model.GeographyRecord {
	return model.GeographyRecord{
		Area: area, AreaName: areaName, StateAb: stateAb, State: state,
		CountyTownName: areaName + " County",
	}
}

func TestEngineRun(t *testing.T) {
	ctx := context.Background()
	engine := eligibility.New()

	params := eligibility.Params{
		SocCode:    "15-1299",
		Level:      model.LevelL4,
		HourlyWage: 80.0,
		Comparator: model.CompareGTE,
	}

	Convey("Given a one-row wage table matched by geography", t, func() {
		wages := []model.WageRecord{wageRow("001", "15-1299", 80.00)}
		geos := []model.GeographyRecord{geoRow("001", "Example City", "EX", "Exampleland")}

		Convey("When the wage equals the level and the comparator is >=", func() {
			res, err := engine.Run(ctx, wages, geos, params)

			Convey("Then exactly one eligible location comes back", func() {
				So(err, ShouldBeNil)
				So(res.SocMatches, ShouldEqual, 1)
				So(res.Eligible, ShouldEqual, 1)
				So(res.LostRows, ShouldEqual, 0)
				So(res.Locations, ShouldHaveLength, 1)
				So(res.Locations[0].Geography.AreaName, ShouldEqual, "Example City")
				So(res.Locations[0].Level4, ShouldEqual, 80.00)
			})
		})

		Convey("When the wage falls a cent short", func() {
			short := params
			short.HourlyWage = 79.99
			res, err := engine.Run(ctx, wages, geos, short)

			Convey("Then there are no eligible locations and no error", func() {
				So(err, ShouldBeNil)
				So(res.SocMatches, ShouldEqual, 1)
				So(res.Eligible, ShouldEqual, 0)
				So(res.Locations, ShouldBeEmpty)
			})
		})
	})

	Convey("Given an eligible wage row with no geography match", t, func() {
		wages := []model.WageRecord{wageRow("999", "15-1299", 70.00)}
		res, err := engine.Run(ctx, wages, nil, params)

		Convey("Then the row is dropped but counted as lost", func() {
			So(err, ShouldBeNil)
			So(res.Eligible, ShouldEqual, 1)
			So(res.LostRows, ShouldEqual, 1)
			So(res.Locations, ShouldBeEmpty)
		})
	})

	Convey("Given a wage row with a missing level value", t, func() {
		missing := wageRow("001", "15-1299", 0)
		missing.Level4 = model.MissingWage()
		geos := []model.GeographyRecord{geoRow("001", "Example City", "EX", "Exampleland")}

		Convey("Then it is ineligible under every comparator", func() {
			for _, op := range []model.Comparator{model.CompareGTE, model.CompareGT, model.CompareLTE, model.CompareLT, model.CompareEQ} {
				p := params
				p.Comparator = op
				res, err := engine.Run(ctx, []model.WageRecord{missing}, geos, p)
				So(err, ShouldBeNil)
				So(res.SocMatches, ShouldEqual, 1)
				So(res.Eligible, ShouldEqual, 0)
			}
		})
	})

	Convey("Given no rows with the requested SOC code", t, func() {
		wages := []model.WageRecord{
			wageRow("001", "11-1011", 90),
			wageRow("002", "13-2011", 50),
			wageRow("003", "11-1011", 85),
		}
		res, err := engine.Run(ctx, wages, nil, params)

		Convey("Then the result is empty with a sorted sample of available codes", func() {
			So(err, ShouldBeNil)
			So(res.SocMatches, ShouldEqual, 0)
			So(res.Locations, ShouldBeEmpty)
			So(res.SampleSocCodes, ShouldResemble, []string{"11-1011", "13-2011"})
		})

		Convey("And a configured sample size caps the list", func() {
			capped := eligibility.New(eligibility.WithSocSampleSize(1))
			res, err := capped.Run(ctx, wages, nil, params)
			So(err, ShouldBeNil)
			So(res.SampleSocCodes, ShouldResemble, []string{"11-1011"})
		})
	})

	Convey("Given SOC-code matching", t, func() {
		Convey("Then matching is exact and case-sensitive", func() {
			wages := []model.WageRecord{wageRow("001", "15-1299 ", 70), wageRow("002", "15-129", 70)}
			res, err := engine.Run(ctx, wages, nil, params)
			So(err, ShouldBeNil)
			So(res.SocMatches, ShouldEqual, 0)
		})
	})
}

func TestEngineOrdering(t *testing.T) {
	ctx := context.Background()
	engine := eligibility.New()

	params := eligibility.Params{
		SocCode:    "15-1299",
		Level:      model.LevelL4,
		HourlyWage: 100.0,
		Comparator: model.CompareGTE,
	}

	wages := []model.WageRecord{
		wageRow("3", "15-1299", 60),
		wageRow("1", "15-1299", 60),
		wageRow("4", "15-1299", 60),
		wageRow("2", "15-1299", 60),
	}
	geos := []model.GeographyRecord{
		geoRow("1", "Bozeman", "MT", "Montana"),
		geoRow("2", "Phoenix", "AZ", "Arizona"),
		geoRow("3", "Tucson", "AZ", "Arizona"),
		{Area: "4", AreaName: "Nowhere"}, // empty State sorts last
	}

	Convey("Given rows spanning several states", t, func() {
		res, err := engine.Run(ctx, wages, geos, params)
		So(err, ShouldBeNil)
		So(res.Locations, ShouldHaveLength, 4)

		Convey("Then output is ordered by (State, AreaName) with empty keys last", func() {
			names := make([]string, 0, len(res.Locations))
			for _, loc := range res.Locations {
				names = append(names, loc.Geography.AreaName)
			}
			So(names, ShouldResemble, []string{"Phoenix", "Tucson", "Bozeman", "Nowhere"})
		})

		Convey("And a second run yields the identical order", func() {
			again, err := engine.Run(ctx, wages, geos, params)
			So(err, ShouldBeNil)
			So(again.Locations, ShouldResemble, res.Locations)
		})
	})
}

func TestEngineInvariant(t *testing.T) {
	ctx := context.Background()
	engine := eligibility.New()

	Convey("Given a mixed wage table", t, func() {
		wages := []model.WageRecord{
			wageRow("1", "15-1299", 55),
			wageRow("2", "15-1299", 80.01),
			wageRow("3", "15-1299", 80.00),
			wageRow("4", "15-1299", 120),
			wageRow("5", "11-1011", 10),
		}
		geos := []model.GeographyRecord{
			geoRow("1", "A", "AA", "Astate"),
			geoRow("2", "B", "BB", "Bstate"),
			geoRow("3", "C", "CC", "Cstate"),
			geoRow("4", "D", "DD", "Dstate"),
			geoRow("5", "E", "EE", "Estate"),
		}

		for _, op := range []model.Comparator{model.CompareGTE, model.CompareGT, model.CompareLTE, model.CompareLT, model.CompareEQ} {
			params := eligibility.Params{
				SocCode:    "15-1299",
				Level:      model.LevelL4,
				HourlyWage: 80.0,
				Comparator: op,
			}
			res, err := engine.Run(ctx, wages, geos, params)
			So(err, ShouldBeNil)

			Convey("Then every output row satisfies hourly_wage "+string(op)+" level", func() {
				So(len(res.Locations), ShouldBeLessThanOrEqualTo, res.Eligible)
				for _, loc := range res.Locations {
					So(op.Eval(params.HourlyWage, loc.LevelValue(params.Level)), ShouldBeTrue)
				}
			})
		}
	})
}
