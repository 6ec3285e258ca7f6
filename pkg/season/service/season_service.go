package service

import (
	"context"
	"errors"

	"paprika/pkg/calendar"
)

var (
	ErrYearImmutable = errors.New("season year cannot be changed")
	ErrInvalidKey    = errors.New("season needs a farmer id and a season year")
	ErrClearsStage   = errors.New("stored stage dates cannot be cleared")
)

// View is a season together with what the farmer should enter next.
type View struct {
	Season    calendar.Record `json:"season"`
	NextStage calendar.Stage  `json:"nextStage"`
	Complete  bool            `json:"complete"`
}

func NewView(r calendar.Record) View {
	return View{Season: r, NextStage: calendar.Next(r), Complete: calendar.Complete(r)}
}

type SeasonService interface {
	Get(ctx context.Context, farmerID uint, year int) (View, error)
	List(ctx context.Context, farmerID uint) ([]View, error)
	AddNextStage(ctx context.Context, farmerID uint, year int, in calendar.StageInput) (View, error)
	BulkEdit(ctx context.Context, farmerID uint, year int, e calendar.Edits) (View, error)

	FindByID(ctx context.Context, id uint) (calendar.Record, error)
	Create(ctx context.Context, r calendar.Record) (calendar.Record, error)
	Update(ctx context.Context, r calendar.Record) (calendar.Record, error)
}
