package calendar

import (
	"fmt"
	"strings"
)

// Stage is one milestone of a growing season. StageDone marks a season
// whose four stages are all set.
type Stage string

const (
	StageNone         Stage = ""
	StagePricking     Stage = "PRICKING"
	StagePlanting     Stage = "PLANTING"
	StageHarvestStart Stage = "HARVEST_START"
	StageHarvestEnd   Stage = "HARVEST_END"
	StageDone         Stage = "DONE"
)

var stageOrder = []Stage{StagePricking, StagePlanting, StageHarvestStart, StageHarvestEnd}

// Stages returns the four entry stages in fill order.
func Stages() []Stage {
	out := make([]Stage, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// ParseStage accepts the canonical names plus loose spellings such as
// "harvest start" or "harvest-end".
func ParseStage(s string) (Stage, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	switch norm {
	case "PRICKING":
		return StagePricking, nil
	case "PLANTING":
		return StagePlanting, nil
	case "HARVEST_START", "HARVESTSTART":
		return StageHarvestStart, nil
	case "HARVEST_END", "HARVESTEND":
		return StageHarvestEnd, nil
	}
	return StageNone, fmt.Errorf("unknown stage %q", s)
}

// Valid reports whether s is one of the four entry stages.
func (s Stage) Valid() bool {
	for _, st := range stageOrder {
		if s == st {
			return true
		}
	}
	return false
}

// IsRange reports whether the stage carries an end date.
func (s Stage) IsRange() bool {
	return s == StagePricking || s == StagePlanting
}

// Fields returns the record fields written by the stage. end is empty for
// point stages.
func (s Stage) Fields() (start, end Field) {
	switch s {
	case StagePricking:
		return FieldPrickingStart, FieldPrickingEnd
	case StagePlanting:
		return FieldPlantingStart, FieldPlantingEnd
	case StageHarvestStart:
		return FieldHarvestStart, ""
	case StageHarvestEnd:
		return FieldHarvestEnd, ""
	}
	return "", ""
}

func (s Stage) Label() string {
	switch s {
	case StagePricking:
		return "pricking"
	case StagePlanting:
		return "planting"
	case StageHarvestStart:
		return "harvest start"
	case StageHarvestEnd:
		return "harvest end"
	case StageDone:
		return "done"
	}
	return "none"
}
