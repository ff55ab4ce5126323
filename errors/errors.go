package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	if len(e.Record) == 0 {
		return fmt.Sprintf("parse error at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Ingestion errors abort a run. Field errors are never returned, they are
// only used to label invalid values in metrics and logs.
var (
	ErrEmptyInput        = fmt.Errorf("empty input")
	ErrMissingColumn     = fmt.Errorf("missing column")
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrUnsupportedFormat = fmt.Errorf("unsupported input format")
	ErrSheetNotFound     = fmt.Errorf("sheet not found")
	ErrInvalidStartTime  = fmt.Errorf("invalid call start time")
	ErrInvalidTalkTime   = fmt.Errorf("invalid talk time")
	ErrUnknownLocale     = fmt.Errorf("unknown locale")
	ErrUnknownWeekday    = fmt.Errorf("unknown weekday")
)
