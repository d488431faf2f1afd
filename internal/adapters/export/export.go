// Package export writes the eligible-location report to disk as a
// spreadsheet or delimited text file.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/tbeaumont/wagescout/internal/domain/model"
	"github.com/tbeaumont/wagescout/pkg/logger"
)

// Formats understood by the Writer.
const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// CanonicalColumns is the default column order of the report.
var CanonicalColumns = []string{
	"Area", "AreaName", "StateAb", "State", "CountyTownName",
	"SocCode", "Level1", "Level2", "Level3", "Level4",
	"Average", "Label",
}

// Spec describes one export: where the file goes and what it contains.
type Spec struct {
	// Format is FormatXLSX or FormatCSV.
	Format string

	// OutputDir is created if absent.
	OutputDir string

	// DatasetVersion prefixes the file name, e.g. "OFLC_Wages_2025-26".
	DatasetVersion string

	// Columns optionally restricts and reorders the output columns.
	// Unknown names are ignored; empty means CanonicalColumns.
	Columns []string
}

// Writer renders eligible locations into report files.
type Writer struct {
	log logger.Logger
}

// NewWriter constructs a Writer with the given options.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders locations per spec and returns the output path. An empty
// location set still produces a header-only file. The file appears
// atomically: content is written to a temp file renamed into place, so a
// failed run leaves no partial output.
func (w *Writer) Write(ctx context.Context, locations []model.EligibleLocation, spec Spec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	columns := selectColumns(spec.Columns)
	path := filepath.Join(spec.OutputDir, fmt.Sprintf("%s_eligible_locations.%s", spec.DatasetVersion, spec.Format))

	if err := os.MkdirAll(spec.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create output dir: %v", ErrExport, err)
	}

	// The temp name keeps the format extension: excelize derives the
	// workbook format from it and rejects anything else.
	tmp := filepath.Join(spec.OutputDir, fmt.Sprintf(".%s_eligible_locations.tmp.%s", spec.DatasetVersion, spec.Format))
	var err error
	switch spec.Format {
	case FormatXLSX:
		err = writeXLSX(tmp, columns, locations)
	case FormatCSV:
		err = writeCSV(tmp, columns, locations)
	default:
		return "", fmt.Errorf("%w: unsupported format %q", ErrExport, spec.Format)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %s: %v", ErrExport, path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: %s: %v", ErrExport, path, err)
	}

	if w.log != nil {
		w.log.Info(ctx, "report written",
			logger.String("path", path),
			logger.Int("rows", len(locations)),
			logger.String("format", spec.Format),
		)
	}
	return path, nil
}

// selectColumns filters requested names against the canonical set,
// preserving the requested order. Empty input means everything.
func selectColumns(requested []string) []string {
	if len(requested) == 0 {
		return CanonicalColumns
	}
	known := make(map[string]struct{}, len(CanonicalColumns))
	for _, c := range CanonicalColumns {
		known[c] = struct{}{}
	}
	cols := make([]string, 0, len(requested))
	for _, c := range requested {
		if _, ok := known[c]; ok {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return CanonicalColumns
	}
	return cols
}

func writeCSV(path string, columns []string, locations []model.EligibleLocation) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, loc := range locations {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = textValue(loc, col)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

func writeXLSX(path string, columns []string, locations []model.EligibleLocation) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, loc := range locations {
		row := make([]interface{}, len(columns))
		for j, col := range columns {
			row[j] = cellValue(loc, col)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// cellValue returns the typed value of one column: strings stay strings,
// wages stay numeric, missing wages become empty cells.
func cellValue(loc model.EligibleLocation, col string) interface{} {
	switch col {
	case "Area":
		return loc.Area
	case "AreaName":
		return loc.Geography.AreaName
	case "StateAb":
		return loc.Geography.StateAb
	case "State":
		return loc.Geography.State
	case "CountyTownName":
		return loc.Geography.CountyTownName
	case "SocCode":
		return loc.SocCode
	case "Level1":
		return numericValue(loc.Level1)
	case "Level2":
		return numericValue(loc.Level2)
	case "Level3":
		return numericValue(loc.Level3)
	case "Level4":
		return numericValue(loc.Level4)
	case "Average":
		return numericValue(loc.Average)
	case "Label":
		return loc.Label
	default:
		return nil
	}
}

func numericValue(v float64) interface{} {
	if model.IsMissingWage(v) {
		return nil
	}
	return v
}

// textValue renders one column for delimited output. Wages print with two
// decimals, matching the source data's precision; missing wages print empty.
func textValue(loc model.EligibleLocation, col string) string {
	v := cellValue(loc, col)
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', 2, 64)
	default:
		return fmt.Sprint(t)
	}
}
