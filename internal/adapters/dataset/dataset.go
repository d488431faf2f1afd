// Package dataset loads the OFLC wage export and geography lookup tables
// from disk, applying an ordered encoding-fallback list and coercing wage
// columns to numbers.
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tbeaumont/wagescout/internal/domain/model"
	"github.com/tbeaumont/wagescout/pkg/logger"
)

// Column names of the wage export table.
const (
	colArea    = "Area"
	colSocCode = "SocCode"
	colLevel1  = "Level1"
	colLevel2  = "Level2"
	colLevel3  = "Level3"
	colLevel4  = "Level4"
	colAverage = "Average"
	colLabel   = "Label"
)

// Column names of the geography lookup table.
const (
	colAreaName       = "AreaName"
	colStateAb        = "StateAb"
	colState          = "State"
	colCountyTownName = "CountyTownName"
)

var (
	wageRequiredColumns = []string{colArea, colSocCode, colLevel1, colLevel2, colLevel3, colLevel4, colAverage}
	geoRequiredColumns  = []string{colArea, colAreaName, colStateAb, colState, colCountyTownName}
	wageNumericColumns  = []string{colLevel1, colLevel2, colLevel3, colLevel4, colAverage}
)

// LoadReport carries the observational facts about one loaded table:
// row/column counts, the encoding that won, and per-column missing-value
// counts. It is diagnostic output, not part of the load contract.
type LoadReport struct {
	Path            string
	Rows            int
	Columns         int
	Encoding        string
	MissingByColumn map[string]int
}

// Loader reads the two input tables. Built with functional options.
type Loader struct {
	encodings []string
	log       logger.Logger
}

// NewLoader constructs a Loader. Without options it tries UTF-8 first and
// falls back through the common single-byte encodings.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		encodings: []string{"utf-8", "utf-8-sig", "latin-1", "iso-8859-1", "cp1252", "windows-1252"},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadWages reads the wage export table. Wage cells that are empty or
// non-numeric become the missing marker and are counted per column in the
// report; they never abort the load.
func (l *Loader) LoadWages(ctx context.Context, path string) ([]model.WageRecord, *LoadReport, error) {
	table, report, err := l.loadTable(ctx, path, wageRequiredColumns)
	if err != nil {
		return nil, nil, err
	}

	hasLabel := table.hasColumn(colLabel)
	records := make([]model.WageRecord, 0, len(table.rows))
	for _, row := range table.rows {
		rec := model.WageRecord{
			Area:    table.cell(row, colArea),
			SocCode: table.cell(row, colSocCode),
		}
		rec.Level1 = l.numericCell(table, row, colLevel1, report)
		rec.Level2 = l.numericCell(table, row, colLevel2, report)
		rec.Level3 = l.numericCell(table, row, colLevel3, report)
		rec.Level4 = l.numericCell(table, row, colLevel4, report)
		rec.Average = l.numericCell(table, row, colAverage, report)
		if hasLabel {
			rec.Label = table.cell(row, colLabel)
		}
		records = append(records, rec)
	}

	l.logLoaded(ctx, "wage export loaded", report)
	return records, report, nil
}

// LoadGeography reads the geography lookup table.
func (l *Loader) LoadGeography(ctx context.Context, path string) ([]model.GeographyRecord, *LoadReport, error) {
	table, report, err := l.loadTable(ctx, path, geoRequiredColumns)
	if err != nil {
		return nil, nil, err
	}

	records := make([]model.GeographyRecord, 0, len(table.rows))
	for _, row := range table.rows {
		records = append(records, model.GeographyRecord{
			Area:           table.cell(row, colArea),
			AreaName:       table.cell(row, colAreaName),
			StateAb:        table.cell(row, colStateAb),
			State:          table.cell(row, colState),
			CountyTownName: table.cell(row, colCountyTownName),
		})
	}

	l.logLoaded(ctx, "geography lookup loaded", report)
	return records, report, nil
}

// table is a parsed delimited file: a header index plus raw rows.
type table struct {
	colIndex map[string]int
	rows     [][]string
}

func (t *table) hasColumn(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// cell returns the named column of a row, or "" when the row is short.
func (t *table) cell(row []string, name string) string {
	idx, ok := t.colIndex[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func (l *Loader) numericCell(t *table, row []string, name string, report *LoadReport) float64 {
	v, missing := cleanWageCell(t.cell(row, name))
	if missing {
		report.MissingByColumn[name]++
	}
	return v
}

// loadTable reads, decodes and parses one file, then validates its header.
func (l *Loader) loadTable(ctx context.Context, path string, required []string) (*table, *LoadReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDataLoad, path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDataLoad, path, err)
	}

	decoded, encodingName, err := decodeWithFallback(raw, l.encodings)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDataLoad, path, err)
	}

	t, err := parseCSV(decoded)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrDataLoad, path, err)
	}

	for _, col := range required {
		if !t.hasColumn(col) {
			return nil, nil, fmt.Errorf("%w: %s: required column %q not found", ErrValidation, path, col)
		}
	}

	report := &LoadReport{
		Path:            path,
		Rows:            len(t.rows),
		Columns:         len(t.colIndex),
		Encoding:        encodingName,
		MissingByColumn: make(map[string]int),
	}
	return t, report, nil
}

// parseCSV parses decoded bytes. Rows with uneven field counts are kept;
// short rows read as empty cells through table.cell.
func parseCSV(data []byte) (*table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: no header row")
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[trimCell(name)] = i
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, row)
	}

	return &table{colIndex: colIndex, rows: rows}, nil
}

func trimCell(s string) string {
	return strings.TrimSpace(s)
}

func (l *Loader) logLoaded(ctx context.Context, msg string, report *LoadReport) {
	if l.log == nil {
		return
	}
	l.log.Info(ctx, msg,
		logger.String("path", report.Path),
		logger.Int("rows", report.Rows),
		logger.Int("columns", report.Columns),
		logger.String("encoding", report.Encoding),
	)
}
