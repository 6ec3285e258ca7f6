package calendar

import "fmt"

// invariant is one named rule over a whole record. focus is the stage
// being entered, or StageNone when the full record is checked; it selects
// which side of a cross-stage rule gets blamed.
type invariant struct {
	name   string
	stages []Stage // nil means every stage
	check  func(r Record, focus Stage) *ValidationError
}

// invariants are evaluated in order and the first failure wins. Year
// membership comes first, then fill order and cross-stage ordering, and
// range completeness last, so an entry that starts before the previous
// stage ended is reported as out of order even when its end is missing.
var invariants = []invariant{
	{name: "season_year", check: seasonYear},
	{name: "fill_order", check: fillOrder},
	{
		name:   "planting_after_pricking",
		stages: []Stage{StagePricking, StagePlanting},
		check:  strictlyAfter(FieldPrickingEnd, FieldPlantingStart),
	},
	{
		name:   "harvest_start_after_planting",
		stages: []Stage{StagePlanting, StageHarvestStart},
		check:  strictlyAfter(FieldPlantingEnd, FieldHarvestStart),
	},
	{
		name:   "harvest_end_after_harvest_start",
		stages: []Stage{StageHarvestStart, StageHarvestEnd},
		check:  strictlyAfter(FieldHarvestStart, FieldHarvestEnd),
	},
	{name: "pricking_range", stages: []Stage{StagePricking}, check: rangeOrder(StagePricking)},
	{name: "planting_range", stages: []Stage{StagePlanting}, check: rangeOrder(StagePlanting)},
}

func (inv invariant) applies(focus Stage) bool {
	if focus == StageNone || inv.stages == nil {
		return true
	}
	for _, s := range inv.stages {
		if s == focus {
			return true
		}
	}
	return false
}

func checkInvariants(r Record, focus Stage) error {
	for _, inv := range invariants {
		if !inv.applies(focus) {
			continue
		}
		if err := inv.check(r, focus); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRecord checks every invariant against the full record.
func ValidateRecord(r Record) error {
	return checkInvariants(r, StageNone)
}

func seasonYear(r Record, focus Stage) *ValidationError {
	for _, f := range fieldOrder {
		if focus != StageNone && f.Stage() != focus {
			continue
		}
		d := r.Get(f)
		if d == nil {
			continue
		}
		if !d.IsValid() {
			return &ValidationError{Kind: InvalidDate, Stage: f.Stage(), Field: f, Value: d.String()}
		}
		if !IsSameYear(*d, r.SeasonYear) {
			return &ValidationError{
				Kind:  YearMismatch,
				Stage: f.Stage(),
				Field: f,
				Date:  *d,
				Year:  r.SeasonYear,
			}
		}
	}
	return nil
}

// fillOrder rejects a stage that is set while an earlier one is not.
func fillOrder(r Record, focus Stage) *ValidationError {
	missing := StageNone
	for _, s := range stageOrder {
		if !r.HasStage(s) {
			if missing == StageNone {
				missing = s
			}
			continue
		}
		if missing == StageNone || (focus != StageNone && focus != s) {
			continue
		}
		return &ValidationError{
			Kind:     StageOutOfOrder,
			Stage:    s,
			Conflict: missing,
			Message:  fmt.Sprintf("%s cannot be set before %s", s.Label(), missing.Label()),
		}
	}
	return nil
}

func strictlyAfter(earlier, later Field) func(Record, Stage) *ValidationError {
	return func(r Record, focus Stage) *ValidationError {
		e, l := r.Get(earlier), r.Get(later)
		if e == nil || l == nil || l.After(*e) {
			return nil
		}
		if focus == earlier.Stage() {
			return &ValidationError{
				Kind:     StageOutOfOrder,
				Stage:    focus,
				Field:    earlier,
				Date:     *e,
				Bound:    *l,
				Conflict: later.Stage(),
				Message:  fmt.Sprintf("%s %s must be before %s %s", earlier.Label(), e, later.Label(), l),
			}
		}
		return &ValidationError{
			Kind:     StageOutOfOrder,
			Stage:    later.Stage(),
			Field:    later,
			Date:     *l,
			Bound:    *e,
			Conflict: earlier.Stage(),
			Message:  fmt.Sprintf("%s %s must be after %s %s", later.Label(), l, earlier.Label(), e),
		}
	}
}

// rangeOrder requires a range stage to be set as a pair with end >= start.
func rangeOrder(s Stage) func(Record, Stage) *ValidationError {
	startField, endField := s.Fields()
	return func(r Record, _ Stage) *ValidationError {
		start, end := r.Get(startField), r.Get(endField)
		switch {
		case start == nil && end == nil:
			return nil
		case start == nil:
			return &ValidationError{Kind: MissingDate, Stage: s, Field: startField}
		case end == nil:
			return &ValidationError{Kind: MissingEndDate, Stage: s, Field: endField}
		case end.Before(*start):
			return &ValidationError{Kind: EndBeforeStart, Stage: s, Field: endField, Date: *end, Bound: *start}
		}
		return nil
	}
}
