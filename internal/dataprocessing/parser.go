package dataprocessing

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"

	"shipcli/internal/errors"
	"shipcli/internal/table"
	"shipcli/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

var validate = validator.New()

// RawRecords is the untyped content of a source table
type RawRecords struct {
	Header []string
	Rows   [][]string
	// Lines holds the 1-based source line of each row. When nil, row i is
	// assumed to sit on line i+2, directly under the header.
	Lines []int
}

func (r RawRecords) line(i int) int {
	if r.Lines != nil {
		return r.Lines[i]
	}
	return i + 2
}

// ReadCSV reads delimited text with a header row. A leading UTF-8 BOM is
// dropped and short rows are padded with empty cells.
func ReadCSV(r io.Reader) (RawRecords, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var out RawRecords
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawRecords{}, err
		}
		if out.Header == nil {
			out.Header = record
			continue
		}
		line, _ := reader.FieldPos(0)
		out.Rows = append(out.Rows, record)
		out.Lines = append(out.Lines, line)
	}
	return out, nil
}

// ReadWorkbook reads the named sheet of an Excel workbook, or the first sheet
// when sheet is empty. The first non-blank row is the header.
func ReadWorkbook(path, sheet string) (RawRecords, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return RawRecords{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return RawRecords{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	var out RawRecords
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if out.Header == nil {
			out.Header = row
			continue
		}
		out.Rows = append(out.Rows, row)
		out.Lines = append(out.Lines, i+1)
	}
	return out, nil
}

// ParseRecords builds a typed table from raw records. Every schema column
// marked Required must be present; columns the schema does not list are
// carried as strings. Cells of numeric columns that cannot be coerced fail
// the whole load, as do year and month values outside their valid range
// and rows carrying values past the last header column. Blank rows are
// skipped.
func ParseRecords(location string, raw RawRecords, schema table.Schema) (*table.Table, error) {
	header := make([]string, len(raw.Header))
	copy(header, raw.Header)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	t := table.New(header...)
	for _, c := range schema.Columns {
		if c.Required && !t.Has(c.Name) {
			return nil, errors.NewMissingColumnError(location, c.Name)
		}
	}

	kinds := make([]table.Kind, len(header))
	for i, name := range header {
		if c, ok := schema.Lookup(name); ok {
			kinds[i] = c.Kind
		}
	}

	yearIdx, hasYear := columnIndex(t, domain.ColYear)
	monthIdx, hasMonth := columnIndex(t, domain.ColMonth)

	for n, cells := range raw.Rows {
		if isBlank(cells) {
			continue
		}
		if len(cells) > len(header) && !isBlank(cells[len(header):]) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("%s line %d has %d values, header has %d columns", location, raw.line(n), len(cells), len(header)), nil).
				WithContext("location", location).
				WithContext("line", raw.line(n))
		}
		row := make(table.Row, len(header))
		for i := range header {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			v, err := table.Coerce(cell, kinds[i])
			if err != nil {
				return nil, errors.NewCoercionError(location, header[i], raw.line(n), err)
			}
			row[i] = v
		}

		if hasYear || hasMonth {
			if err := checkPeriodFields(row, yearIdx, hasYear, monthIdx, hasMonth); err != nil {
				col := domain.ColYear
				if isMonthError(err) {
					col = domain.ColMonth
				}
				return nil, errors.NewCoercionError(location, col, raw.line(n), err)
			}
		}

		if err := t.Append(row); err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("%s line %d", location, raw.line(n)), err)
		}
	}

	return t, nil
}

// checkPeriodFields validates year and month of a numeric row through the
// ShipmentRecord constraints
func checkPeriodFields(row table.Row, yearIdx int, hasYear bool, monthIdx int, hasMonth bool) error {
	var rec domain.ShipmentRecord
	var fields []string
	if hasYear && row[yearIdx].IsNumeric() {
		rec.Year = int(row[yearIdx].Int())
		fields = append(fields, "Year")
	}
	if hasMonth && row[monthIdx].IsNumeric() {
		rec.Month = int(row[monthIdx].Int())
		fields = append(fields, "Month")
	}
	if len(fields) == 0 {
		return nil
	}
	if err := validate.StructPartial(rec, fields...); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &rangeError{field: fe.Field(), value: fe.Value(), tag: fe.Tag(), param: fe.Param()}
		}
		return err
	}
	return nil
}

// rangeError reports a year or month outside its valid range
type rangeError struct {
	field string
	value interface{}
	tag   string
	param string
}

func (e *rangeError) Error() string {
	return fmt.Sprintf("%s %v violates %s=%s", strings.ToLower(e.field), e.value, e.tag, e.param)
}

func isMonthError(err error) bool {
	var re *rangeError
	return stderrors.As(err, &re) && re.field == "Month"
}

func columnIndex(t *table.Table, name string) (int, bool) {
	i, err := t.Index(name)
	return i, err == nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
