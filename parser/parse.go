package parser

import (
	"call-productivity/errors"
	"call-productivity/metrics"
	"call-productivity/models"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Column headers of the call center export. Matching ignores case and
// surrounding whitespace.
const (
	ColumnAgentName     = "Agent Name"
	ColumnCallStartTime = "Call Start Time"
	ColumnTalkTime      = "Talk Time"
)

// Parse reads a call log in CSV form and returns one RawCallRecord per row.
// The first record must be a header naming at least the Agent Name,
// Call Start Time and Talk Time columns; other columns are ignored.
// Lines starting with '#' are treated as comments.
// Values are not validated here: unparsable times are left for the
// normalizer to flag. Only structural problems are reported as errors.
func Parse(r io.Reader) ([]models.RawCallRecord, error) {
	start := time.Now()
	defer func() {
		metrics.ParserDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	var (
		cols *columns
		data []models.RawCallRecord
	)

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			metrics.ParserErrorsTotal.WithLabelValues("read_error").Inc()
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		lineNum, _ := reader.FieldPos(0)

		// Handle comments
		if len(record) > 0 && strings.HasPrefix(strings.TrimSpace(record[0]), "#") {
			continue
		}

		if cols == nil {
			cols, err = locateColumns(lineNum, record)
			if err != nil {
				return nil, err
			}
			continue
		}

		if len(record) <= cols.max() {
			metrics.ParserErrorsTotal.WithLabelValues("invalid_field_count").Inc()
			return nil, &errors.ParseError{
				Line:   lineNum,
				Record: record,
				Err:    errors.ErrInvalidFieldCount,
			}
		}

		data = append(data, cols.record(lineNum, record))
		metrics.ParserRecordsTotal.Inc()
	}

	if cols == nil {
		metrics.ParserErrorsTotal.WithLabelValues("empty_input").Inc()
		return nil, &errors.ParseError{Line: 1, Err: errors.ErrEmptyInput}
	}

	return data, nil
}

// ParseFile reads a call log from path, choosing the reader by extension.
// sheet only applies to spreadsheets; empty means the first sheet.
func ParseFile(path, sheet string) ([]models.RawCallRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".xlsx", ".xlsm":
	default:
		metrics.ParserErrorsTotal.WithLabelValues("unsupported_format").Inc()
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	if ext == ".csv" {
		return Parse(file)
	}
	return ParseXLSX(file, sheet)
}

// columns holds the positions of the required fields in a row.
type columns struct {
	agent int
	start int
	talk  int
}

func locateColumns(line int, header []string) (*columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}

	find := func(name string) (int, error) {
		i, ok := index[normalizeHeader(name)]
		if !ok {
			metrics.ParserErrorsTotal.WithLabelValues("missing_column").Inc()
			return 0, &errors.ParseError{
				Line:   line,
				Record: header,
				Err:    fmt.Errorf("%w: %s", errors.ErrMissingColumn, name),
			}
		}
		return i, nil
	}

	var (
		c   columns
		err error
	)
	if c.agent, err = find(ColumnAgentName); err != nil {
		return nil, err
	}
	if c.start, err = find(ColumnCallStartTime); err != nil {
		return nil, err
	}
	if c.talk, err = find(ColumnTalkTime); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *columns) max() int {
	return max(c.agent, c.start, c.talk)
}

func (c *columns) record(line int, fields []string) models.RawCallRecord {
	rec := models.RawCallRecord{
		Line:          line,
		CallStartTime: strings.TrimSpace(fields[c.start]),
		TalkTime:      strings.TrimSpace(fields[c.talk]),
	}
	if agent := strings.TrimSpace(fields[c.agent]); agent != "" {
		rec.AgentName = &agent
	}
	return rec
}

// normalizeHeader lower-cases h, strips a UTF-8 BOM and collapses spaces.
func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}
