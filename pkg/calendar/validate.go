package calendar

import (
	"fmt"

	"cloud.google.com/go/civil"
)

// StageInput is a candidate entry for one stage. EndDate is required for
// range stages and ignored for point stages.
type StageInput struct {
	StartDate *civil.Date `json:"startDate"`
	EndDate   *civil.Date `json:"endDate,omitempty"`
}

// ValidatedInput is a StageInput that passed ValidateStage for its stage.
// The zero value applies nothing.
type ValidatedInput struct {
	stage Stage
	start civil.Date
	end   *civil.Date
}

func (v ValidatedInput) Stage() Stage      { return v.stage }
func (v ValidatedInput) Start() civil.Date { return v.start }

func (v ValidatedInput) End() (civil.Date, bool) {
	if v.end == nil {
		return civil.Date{}, false
	}
	return *v.end, true
}

// ValidateStage decides whether in may be entered as stage on r. The
// input is merged into a copy of r and the invariants touching stage are
// checked against that copy, so the single-stage adder and the bulk editor
// share one rule set.
func ValidateStage(r Record, stage Stage, in StageInput) (ValidatedInput, error) {
	if !stage.Valid() {
		return ValidatedInput{}, fmt.Errorf("calendar: cannot validate stage %q", stage)
	}
	if in.StartDate == nil {
		startField, _ := stage.Fields()
		return ValidatedInput{}, &ValidationError{Kind: MissingDate, Stage: stage, Field: startField}
	}

	v := ValidatedInput{stage: stage, start: *in.StartDate}
	if stage.IsRange() && in.EndDate != nil {
		end := *in.EndDate
		v.end = &end
	}

	candidate := r.Clone()
	startField, endField := stage.Fields()
	candidate.Set(startField, v.start)
	if endField != "" {
		// clear the slot so a previously stored end cannot satisfy the pair
		*candidate.slot(endField) = nil
		if v.end != nil {
			candidate.Set(endField, *v.end)
		}
	}
	if err := checkInvariants(candidate, stage); err != nil {
		return ValidatedInput{}, err
	}
	return v, nil
}
