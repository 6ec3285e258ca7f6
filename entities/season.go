package entities

import "time"

// Season is the stored form of a farmer's cultivation calendar. Dates are
// kept as YYYY-MM-DD text; NULL means the stage has not been entered.
type Season struct {
	SeasonID      uint    `gorm:"primaryKey" json:"season_id"`
	FarmerID      uint    `gorm:"not null;uniqueIndex:idx_seasons_farmer_year" json:"farmer_id"`
	SeasonYear    int     `gorm:"not null;uniqueIndex:idx_seasons_farmer_year" json:"season_year"`
	PrickingStart *string `json:"pricking_start"`
	PrickingEnd   *string `json:"pricking_end"`
	PlantingStart *string `json:"planting_start"`
	PlantingEnd   *string `json:"planting_end"`
	HarvestStart  *string `json:"harvest_start"`
	HarvestEnd    *string `json:"harvest_end"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
