// Package importer reads draw history from CSV or Excel files and writes it
// back as CSV.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lottolab/domain/core"
	"lottolab/domain/draw"
	"lottolab/internal"

	"github.com/xuri/excelize/v2"
)

// Canonical column names. Aliases from the lottery's own JSON feed are
// accepted on read.
var columns = []string{"draw_no", "date", "n1", "n2", "n3", "n4", "n5", "n6", "bonus"}

var aliases = map[string]string{
	"drwno":     "draw_no",
	"drwnodate": "date",
	"drwtno1":   "n1",
	"drwtno2":   "n2",
	"drwtno3":   "n3",
	"drwtno4":   "n4",
	"drwtno5":   "n5",
	"drwtno6":   "n6",
	"bnusno":    "bonus",
}

// RowError describes a data row that could not be turned into a draw.
type RowError struct {
	Row int   `json:"row"`
	Err error `json:"-"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Result is the outcome of reading one file.
type Result struct {
	Draws  draw.History `json:"draws"`
	Errors []RowError   `json:"errors"`
	Rows   int          `json:"rows"`
}

// DataReader handles reading Excel and CSV draw files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader choosing the format from the file extension
func NewDataReader(filePath string) *DataReader {
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		logger:   internal.DefaultLogger.WithComponent("DataReader"),
	}
}

// ReadDraws reads every row. Rows that fail to parse or validate are
// reported in Result.Errors; the remaining draws are deduplicated and sorted.
func (r *DataReader) ReadDraws() (*Result, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	start := time.Now()
	var rows [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		rows, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s file read in %.2fms (%d rows)", strings.ToUpper(r.fileType),
		float64(time.Since(start).Nanoseconds())/1e6, len(rows))

	return ParseRows(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", sheets[0], err)
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return ReadCSV(file)
}

// ReadCSV reads raw CSV records, tolerating ragged rows.
func ReadCSV(in io.Reader) ([][]string, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// ParseRows converts a header row plus data rows into draws.
func ParseRows(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return &Result{}, nil
	}
	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	result := &Result{}
	var parsed draw.History
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		result.Rows++
		d, err := parseRow(row, index)
		if err == nil {
			err = d.Validate()
		}
		if err != nil {
			// Header is row 1.
			result.Errors = append(result.Errors, RowError{Row: i + 2, Err: err})
			continue
		}
		parsed = append(parsed, d)
	}
	result.Draws = parsed.Dedupe()
	return result, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(columns))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		key := strings.ToLower(name)
		if canonical, ok := aliases[key]; ok {
			key = canonical
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	var missing []string
	for _, c := range columns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewInvalidArgumentError("missing columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (draw.Draw, error) {
	cell := func(name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	number := func(name string) (int, error) {
		raw := cell(name)
		n, err := strconv.Atoi(raw)
		if err != nil {
			// Spreadsheets often store integers as floats.
			f, ferr := strconv.ParseFloat(raw, 64)
			if ferr != nil || f != float64(int(f)) {
				return 0, fmt.Errorf("%s: %q is not an integer", name, raw)
			}
			n = int(f)
		}
		return n, nil
	}

	var d draw.Draw
	var err error
	if d.No, err = number("draw_no"); err != nil {
		return d, err
	}
	if d.Date, err = core.ParseDrawDate(cell("date")); err != nil {
		return d, fmt.Errorf("date: %w", err)
	}
	for i := 0; i < draw.MainCount; i++ {
		if d.Numbers[i], err = number(fmt.Sprintf("n%d", i+1)); err != nil {
			return d, err
		}
	}
	if d.Bonus, err = number("bonus"); err != nil {
		return d, err
	}
	return d, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
