package repository

import (
	"context"
	"errors"

	"paprika/pkg/calendar"
)

var (
	ErrNotFound = errors.New("season not found")
	ErrConflict = errors.New("season already exists for this farmer and year")
)

// SeasonRepository is the persistence collaborator for season records. It
// owns record identity; callers replace their copy with what it returns.
type SeasonRepository interface {
	Fetch(ctx context.Context, farmerID uint, year int) (calendar.Record, error)
	FindByID(ctx context.Context, id uint) (calendar.Record, error)
	ListByFarmer(ctx context.Context, farmerID uint) ([]calendar.Record, error)
	Create(ctx context.Context, r calendar.Record) (calendar.Record, error)
	Update(ctx context.Context, r calendar.Record) (calendar.Record, error)
}
