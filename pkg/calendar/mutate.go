package calendar

import "cloud.google.com/go/civil"

// ApplyStage writes a validated input into a copy of r. It never clears a
// field that is already set.
func ApplyStage(r Record, v ValidatedInput) Record {
	out := r.Clone()
	if !v.stage.Valid() {
		return out
	}
	startField, endField := v.stage.Fields()
	out.Set(startField, v.start)
	if endField != "" && v.end != nil {
		out.Set(endField, *v.end)
	}
	return out
}

// AddNextStage enters in as the next stage of r. It returns the updated
// record and the stage that was written. When every stage is already set
// it returns r unchanged with ErrSeasonComplete.
func AddNextStage(r Record, in StageInput) (Record, Stage, error) {
	stage := Next(r)
	if stage == StageDone {
		return r, StageDone, ErrSeasonComplete
	}
	v, err := ValidateStage(r, stage, in)
	if err != nil {
		return r, stage, err
	}
	return ApplyStage(r, v), stage, nil
}

// Edits holds the dates changed by the stage manager. Nil leaves a field
// as it is.
type Edits struct {
	PrickingStart *civil.Date `json:"prickingStart,omitempty"`
	PrickingEnd   *civil.Date `json:"prickingEnd,omitempty"`
	PlantingStart *civil.Date `json:"plantingStart,omitempty"`
	PlantingEnd   *civil.Date `json:"plantingEnd,omitempty"`
	HarvestStart  *civil.Date `json:"harvestStart,omitempty"`
	HarvestEnd    *civil.Date `json:"harvestEnd,omitempty"`
}

// Get returns the edit for f, nil when f is untouched.
func (e Edits) Get(f Field) *civil.Date {
	switch f {
	case FieldPrickingStart:
		return e.PrickingStart
	case FieldPrickingEnd:
		return e.PrickingEnd
	case FieldPlantingStart:
		return e.PlantingStart
	case FieldPlantingEnd:
		return e.PlantingEnd
	case FieldHarvestStart:
		return e.HarvestStart
	case FieldHarvestEnd:
		return e.HarvestEnd
	}
	return nil
}

// Set records an edit for f.
func (e *Edits) Set(f Field, d civil.Date) {
	switch f {
	case FieldPrickingStart:
		e.PrickingStart = &d
	case FieldPrickingEnd:
		e.PrickingEnd = &d
	case FieldPlantingStart:
		e.PlantingStart = &d
	case FieldPlantingEnd:
		e.PlantingEnd = &d
	case FieldHarvestStart:
		e.HarvestStart = &d
	case FieldHarvestEnd:
		e.HarvestEnd = &d
	}
}

func (e Edits) IsEmpty() bool { return len(e.Stages()) == 0 }

// Stages lists the stages touched by the edits in fill order.
func (e Edits) Stages() []Stage {
	var out []Stage
	for _, f := range fieldOrder {
		if e.Get(f) == nil {
			continue
		}
		if s := f.Stage(); len(out) == 0 || out[len(out)-1] != s {
			out = append(out, s)
		}
	}
	return out
}

// ApplyBulkEdit merges edits into r. Every touched stage is checked, then
// the whole merged record is re-validated, because moving one date can
// break a neighbour that was not edited. Nothing is applied unless all
// checks pass; on failure r is returned unchanged.
func ApplyBulkEdit(r Record, e Edits) (Record, error) {
	merged := r.Clone()
	for _, f := range fieldOrder {
		if d := e.Get(f); d != nil {
			merged.Set(f, *d)
		}
	}
	for _, s := range e.Stages() {
		if err := checkInvariants(merged, s); err != nil {
			return r, err
		}
	}
	if err := ValidateRecord(merged); err != nil {
		return r, err
	}
	return merged, nil
}
