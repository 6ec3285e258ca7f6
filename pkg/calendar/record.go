package calendar

import "cloud.google.com/go/civil"

// Field names one of the six optional dates of a season record. The value
// doubles as the JSON key.
type Field string

const (
	FieldPrickingStart Field = "prickingStart"
	FieldPrickingEnd   Field = "prickingEnd"
	FieldPlantingStart Field = "plantingStart"
	FieldPlantingEnd   Field = "plantingEnd"
	FieldHarvestStart  Field = "harvestStart"
	FieldHarvestEnd    Field = "harvestEnd"
)

var fieldOrder = []Field{
	FieldPrickingStart, FieldPrickingEnd,
	FieldPlantingStart, FieldPlantingEnd,
	FieldHarvestStart, FieldHarvestEnd,
}

// Fields returns the six date fields in fill order.
func Fields() []Field {
	out := make([]Field, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// Stage returns the stage that owns the field.
func (f Field) Stage() Stage {
	switch f {
	case FieldPrickingStart, FieldPrickingEnd:
		return StagePricking
	case FieldPlantingStart, FieldPlantingEnd:
		return StagePlanting
	case FieldHarvestStart:
		return StageHarvestStart
	case FieldHarvestEnd:
		return StageHarvestEnd
	}
	return StageNone
}

func (f Field) Label() string {
	switch f {
	case FieldPrickingStart:
		return "pricking start"
	case FieldPrickingEnd:
		return "pricking end"
	case FieldPlantingStart:
		return "planting start"
	case FieldPlantingEnd:
		return "planting end"
	case FieldHarvestStart:
		return "harvest start"
	case FieldHarvestEnd:
		return "harvest end"
	}
	return string(f)
}

// Record is one farmer's season. A nil date is unset. ID is zero until the
// store assigns one.
type Record struct {
	ID            uint        `json:"id,omitempty"`
	FarmerID      uint        `json:"farmerId"`
	SeasonYear    int         `json:"seasonYear"`
	PrickingStart *civil.Date `json:"prickingStart"`
	PrickingEnd   *civil.Date `json:"prickingEnd"`
	PlantingStart *civil.Date `json:"plantingStart"`
	PlantingEnd   *civil.Date `json:"plantingEnd"`
	HarvestStart  *civil.Date `json:"harvestStart"`
	HarvestEnd    *civil.Date `json:"harvestEnd"`
}

// NewRecord originates an empty season for a farmer.
func NewRecord(farmerID uint, year int) Record {
	return Record{FarmerID: farmerID, SeasonYear: year}
}

func (r Record) IsNew() bool { return r.ID == 0 }

// Get returns the value of f, nil when unset.
func (r Record) Get(f Field) *civil.Date {
	p := r.slot(f)
	if p == nil {
		return nil
	}
	return *p
}

// Clone returns a copy that shares no date pointers with r.
func (r Record) Clone() Record {
	out := r
	for _, f := range fieldOrder {
		if d := r.Get(f); d != nil {
			v := *d
			*out.slot(f) = &v
		}
	}
	return out
}

// HasStage reports whether the stage's start date is set.
func (r Record) HasStage(s Stage) bool {
	start, _ := s.Fields()
	return start != "" && r.Get(start) != nil
}

// Set writes d into f.
func (r *Record) Set(f Field, d civil.Date) {
	if p := r.slot(f); p != nil {
		*p = &d
	}
}

func (r *Record) slot(f Field) **civil.Date {
	switch f {
	case FieldPrickingStart:
		return &r.PrickingStart
	case FieldPrickingEnd:
		return &r.PrickingEnd
	case FieldPlantingStart:
		return &r.PlantingStart
	case FieldPlantingEnd:
		return &r.PlantingEnd
	case FieldHarvestStart:
		return &r.HarvestStart
	case FieldHarvestEnd:
		return &r.HarvestEnd
	}
	return nil
}
