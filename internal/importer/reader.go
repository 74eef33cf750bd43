package importer

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"freshtrack/internal/model"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Reader parses an uploaded spreadsheet into ordered column-keyed rows.
type Reader interface {
	// Read parses the file at path according to its declared extension.
	// An unsupported extension yields a pipeline rejection.
	Read(path, ext string) ([]RawRow, error)
}

// sheetReader reads .xlsx workbooks via excelize and .csv files via the
// standard csv codec. Legacy .xls workbooks are rejected; callers are told to
// re-save as .xlsx.
type sheetReader struct {
	logger zerolog.Logger
}

// NewSheetReader creates a spreadsheet reader.
func NewSheetReader(logger zerolog.Logger) Reader {
	return &sheetReader{
		logger: logger.With().Str("component", "sheet-reader").Logger(),
	}
}

func (r *sheetReader) Read(path, ext string) ([]RawRow, error) {
	switch strings.ToLower(ext) {
	case ".xlsx":
		return r.readXLSX(path)
	case ".csv":
		return r.readCSV(path)
	case ".xls":
		return nil, model.NewPipelineRejected(model.ErrCodeUnsupportedFormat,
			"legacy .xls workbooks are not supported, re-save as .xlsx")
	default:
		return nil, model.ErrUnsupportedFormat
	}
}

func (r *sheetReader) readXLSX(path string) ([]RawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		r.logger.Error().Err(err).Str("file", path).Msg("failed to open workbook")
		return nil, model.NewPipelineRejected(model.ErrCodeUnsupportedFormat, "file is not a readable workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, model.ErrEmptySheet
	}

	// First sheet only, matching the import template.
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		r.logger.Error().Err(err).Str("sheet", sheets[0]).Msg("failed to read sheet rows")
		return nil, fmt.Errorf("failed to read sheet rows: %w", err)
	}

	rows := tableToRows(cells)
	r.logger.Info().Str("file", path).Int("rows", len(rows)).Msg("parsed workbook")
	return rows, nil
}

func (r *sheetReader) readCSV(path string) ([]RawRow, error) {
	file, err := os.Open(path)
	if err != nil {
		r.logger.Error().Err(err).Str("file", path).Msg("failed to open csv file")
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		r.logger.Error().Err(err).Str("file", path).Msg("failed to parse csv")
		return nil, model.NewPipelineRejected(model.ErrCodeUnsupportedFormat, "file is not parseable CSV")
	}

	rows := tableToRows(records)
	r.logger.Info().Str("file", path).Int("rows", len(rows)).Msg("parsed csv")
	return rows, nil
}

// tableToRows zips the header row with each data row. Short rows are padded
// implicitly (missing cells simply stay absent); fully empty rows are
// skipped.
func tableToRows(table [][]string) []RawRow {
	if len(table) < 2 {
		return nil
	}

	header := table[0]
	var rows []RawRow
	for _, record := range table[1:] {
		row := make(RawRow, len(header))
		empty := true
		for i, cell := range record {
			if i >= len(header) {
				break
			}
			key := strings.TrimSpace(header[i])
			if key == "" {
				continue
			}
			row[key] = cell
			if strings.TrimSpace(cell) != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}
