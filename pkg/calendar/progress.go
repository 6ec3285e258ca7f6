package calendar

// Next returns the stage that should be entered next, or StageDone. It is
// derived from which dates are present on every call; nothing about the
// current stage is stored.
func Next(r Record) Stage {
	switch {
	case r.PrickingStart == nil:
		return StagePricking
	case r.PlantingStart == nil:
		return StagePlanting
	case r.HarvestStart == nil:
		return StageHarvestStart
	case r.HarvestEnd == nil:
		return StageHarvestEnd
	}
	return StageDone
}

func Complete(r Record) bool { return Next(r) == StageDone }
