package parser

import (
	"call-productivity/errors"
	"call-productivity/metrics"
	"call-productivity/models"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// ParseXLSX reads a call log from an Excel workbook. The sheet layout is the
// same as for Parse: a header row followed by one call per row. An empty
// sheet name selects the first sheet.
//
// Cells are read unformatted. Numeric start times are Excel date serials and
// numeric talk times are fractions of a day; both are converted to text so
// the normalizer sees the same shapes as in a CSV export.
func ParseXLSX(r io.Reader, sheet string) ([]models.RawCallRecord, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	f, err := excelize.OpenReader(r)
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues("read_error").Inc()
		return nil, fmt.Errorf("error reading workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			metrics.ParserErrorsTotal.WithLabelValues("empty_input").Inc()
			return nil, &errors.ParseError{Line: 1, Err: errors.ErrEmptyInput}
		}
		sheet = sheets[0]
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		metrics.ParserErrorsTotal.WithLabelValues("sheet_not_found").Inc()
		return nil, fmt.Errorf("%w: %q", errors.ErrSheetNotFound, sheet)
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		metrics.ParserErrorsTotal.WithLabelValues("read_error").Inc()
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}

	var (
		cols *columns
		data []models.RawCallRecord
	)
	for i, row := range rows {
		lineNum := i + 1
		if isBlank(row) {
			continue
		}

		if cols == nil {
			cols, err = locateColumns(lineNum, row)
			if err != nil {
				return nil, err
			}
			continue
		}

		// Trailing empty cells are not returned by the workbook reader.
		for len(row) <= cols.max() {
			row = append(row, "")
		}

		rec := cols.record(lineNum, row)
		rec.CallStartTime = serialToTimestamp(rec.CallStartTime, date1904)
		rec.TalkTime = dayFractionToClock(rec.TalkTime)
		data = append(data, rec)
		metrics.ParserRecordsTotal.Inc()
	}

	if cols == nil {
		metrics.ParserErrorsTotal.WithLabelValues("empty_input").Inc()
		return nil, &errors.ParseError{Line: 1, Err: errors.ErrEmptyInput}
	}

	return data, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// serialToTimestamp converts an Excel date serial to "2006-01-02 15:04:05".
// Values that are not numbers are returned unchanged.
func serialToTimestamp(value string, date1904 bool) string {
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return value
	}
	return t.Round(time.Second).Format("2006-01-02 15:04:05")
}

// dayFractionToClock converts a fraction of a day to "H:MM:SS".
// Values that are not non-negative numbers are returned unchanged.
func dayFractionToClock(value string) string {
	fraction, err := strconv.ParseFloat(value, 64)
	if err != nil || fraction < 0 || math.IsInf(fraction, 0) || math.IsNaN(fraction) {
		return value
	}
	d := time.Duration(fraction * 24 * float64(time.Hour)).Round(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}
