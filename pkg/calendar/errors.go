package calendar

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
)

// Kind classifies a validation failure. All kinds are user-correctable
// except InvalidDate, which signals malformed input.
type Kind string

const (
	MissingDate     Kind = "missing_date"
	MissingEndDate  Kind = "missing_end_date"
	YearMismatch    Kind = "year_mismatch"
	EndBeforeStart  Kind = "end_before_start"
	StageOutOfOrder Kind = "stage_out_of_order"
	InvalidDate     Kind = "invalid_date"
)

// ErrSeasonComplete is returned when the next stage is requested for a
// season whose four stages are already set. It is a signal, not a failure.
var ErrSeasonComplete = errors.New("season complete: all stages are set")

// ValidationError describes why a stage input or an edited record was
// rejected.
type ValidationError struct {
	Kind  Kind
	Stage Stage
	Field Field
	// Date is the offending date; Bound is the date it was compared to.
	Date  civil.Date
	Bound civil.Date
	// Year is the season year a date had to belong to.
	Year int
	// Conflict names the adjacent stage for StageOutOfOrder.
	Conflict Stage
	// Value holds the raw text for InvalidDate.
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case MissingDate:
		return fmt.Sprintf("%s: start date is required", e.Stage.Label())
	case MissingEndDate:
		return fmt.Sprintf("%s: end date is required", e.Stage.Label())
	case YearMismatch:
		return fmt.Sprintf("%s %s is outside season %d", e.Field.Label(), e.Date, e.Year)
	case EndBeforeStart:
		return fmt.Sprintf("%s: end date %s is before start date %s", e.Stage.Label(), e.Date, e.Bound)
	case StageOutOfOrder:
		return fmt.Sprintf("%s conflicts with %s", e.Stage.Label(), e.Conflict.Label())
	case InvalidDate:
		return fmt.Sprintf("invalid date %q", e.Value)
	}
	return "invalid season"
}

// KindOf returns the validation kind carried by err, or "" when err is not
// a validation failure.
func KindOf(err error) Kind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}
