package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/tbeaumont/wagescout/internal/config"
	"github.com/tbeaumont/wagescout/internal/domain/model"
)

const validYAML = `
hourly_wage: 62.5
wage_level: L4
soc_code: "15-1299"
data_year: "2025-26"
`

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a config loader", t, func() {
		convey.Convey("When loading a valid YAML file", func() {
			cfg, err := config.Load(ctx, writeTempConfig(t, validYAML))

			convey.Convey("Then required fields come from the file and defaults fill the rest", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.HourlyWage, convey.ShouldEqual, 62.5)
				convey.So(cfg.Level(), convey.ShouldEqual, model.LevelL4)
				convey.So(cfg.SocCode, convey.ShouldEqual, "15-1299")
				convey.So(cfg.DataYear, convey.ShouldEqual, "2025-26")
				convey.So(cfg.Paths.DataDir, convey.ShouldEqual, "data")
				convey.So(cfg.Paths.ALCFile, convey.ShouldEqual, "ALC_Export.csv")
				convey.So(cfg.Output.Format, convey.ShouldEqual, config.FormatXLSX)
				convey.So(cfg.Operator(), convey.ShouldEqual, model.CompareGTE)
				convey.So(cfg.Advanced.CSVEncodings, convey.ShouldContain, "latin-1")
				convey.So(cfg.DatasetVersion(), convey.ShouldEqual, "OFLC_Wages_2025-26")
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(ctx, filepath.Join(t.TempDir(), "nope.yaml"))

			convey.Convey("Then it reports a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When advanced options are set in the file", func() {
			cfg, err := config.Load(ctx, writeTempConfig(t, validYAML+`
output:
  format: csv
advanced:
  comparison_operator: "<="
  csv_encodings: [utf-8]
`))

			convey.Convey("Then they replace the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Output.Format, convey.ShouldEqual, config.FormatCSV)
				convey.So(cfg.Operator(), convey.ShouldEqual, model.CompareLTE)
				convey.So(cfg.Advanced.CSVEncodings, convey.ShouldResemble, []string{"utf-8"})
			})
		})
	})
}

// Env overrides live in their own test: t.Setenv only restores at test end,
// so they must not leak into sibling scenarios.
func TestConfigEnvOverride(t *testing.T) {
	ctx := context.Background()

	t.Setenv("WAGESCOUT_HOURLY_WAGE", "75.25")
	t.Setenv("WAGESCOUT_WAGE_LEVEL", "l2")
	t.Setenv("WAGESCOUT_ADVANCED__COMPARISON_OPERATOR", "<")

	convey.Convey("Given environment variables overriding the file", t, func() {
		cfg, err := config.Load(ctx, writeTempConfig(t, validYAML))

		convey.Convey("Then env values win", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.HourlyWage, convey.ShouldEqual, 75.25)
			convey.So(cfg.Level(), convey.ShouldEqual, model.LevelL2)
			convey.So(cfg.Operator(), convey.ShouldEqual, model.CompareLT)
		})
	})
}

func TestConfigValidate(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given configs with invalid values", t, func() {
		cases := map[string]string{
			"unsupported wage level": `
hourly_wage: 80
wage_level: L5
soc_code: "15-1299"
data_year: "2025-26"
`,
			"non-positive hourly wage": `
hourly_wage: 0
wage_level: L4
soc_code: "15-1299"
data_year: "2025-26"
`,
			"missing soc code": `
hourly_wage: 80
wage_level: L4
data_year: "2025-26"
`,
			"missing data year": `
hourly_wage: 80
wage_level: L4
soc_code: "15-1299"
`,
			"unknown operator": validYAML + `
advanced:
  comparison_operator: "=>"
`,
			"unknown output format": validYAML + `
output:
  format: pdf
`,
			"empty encodings list": validYAML + `
advanced:
  csv_encodings: []
`,
		}

		for name, yml := range cases {
			convey.Convey("Then "+name+" is rejected before any dataset I/O", func() {
				_, err := config.Load(ctx, writeTempConfig(t, yml))
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
