package metrics_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/tbeaumont/wagescout/pkg/metrics"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := metrics.NewManager()

		Convey("When recording run counts", func() {
			m.RowsLoaded("wages", 1000)
			m.RowsLoaded("geography", 600)
			m.MissingWageCells(3)
			m.SocMatches(120)
			m.EligibleRows(40)
			m.LostJoinRows(2)
			m.RunDuration(1.5)

			Convey("Then Gather returns every sample with its value", func() {
				samples, err := m.Gather()
				So(err, ShouldBeNil)

				byKey := make(map[string]float64, len(samples))
				for _, s := range samples {
					byKey[s.Name+"/"+s.Label] = s.Value
				}
				So(byKey["wagescout_rows_loaded_total/wages"], ShouldEqual, 1000)
				So(byKey["wagescout_rows_loaded_total/geography"], ShouldEqual, 600)
				So(byKey["wagescout_missing_wage_cells_total/"], ShouldEqual, 3)
				So(byKey["wagescout_soc_matches_total/"], ShouldEqual, 120)
				So(byKey["wagescout_eligible_rows_total/"], ShouldEqual, 40)
				So(byKey["wagescout_lost_join_rows_total/"], ShouldEqual, 2)
				So(byKey["wagescout_run_duration_seconds/"], ShouldEqual, 1.5)
			})
		})

		Convey("When two managers exist", func() {
			other := metrics.NewManager(metrics.WithNamespace("other"))

			Convey("Then registries are independent and never collide", func() {
				m.SocMatches(1)
				other.SocMatches(2)

				samples, err := other.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, s := range samples {
					if s.Name == "other_soc_matches_total" {
						found = true
						So(s.Value, ShouldEqual, 2)
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
