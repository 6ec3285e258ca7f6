package serviceImp

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"paprika/pkg/calendar"
	"paprika/pkg/season/repository"
	"paprika/pkg/season/service"
)

type seasonSvc struct {
	repo repository.SeasonRepository
	log  *zap.Logger
}

func New(repo repository.SeasonRepository, log *zap.Logger) service.SeasonService {
	if log == nil {
		log = zap.NewNop()
	}
	return &seasonSvc{repo: repo, log: log.Named("season")}
}

func (s *seasonSvc) Get(ctx context.Context, farmerID uint, year int) (service.View, error) {
	rec, err := s.repo.Fetch(ctx, farmerID, year)
	if err != nil {
		return service.View{}, err
	}
	return service.NewView(rec), nil
}

func (s *seasonSvc) List(ctx context.Context, farmerID uint) ([]service.View, error) {
	recs, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	out := make([]service.View, 0, len(recs))
	for _, r := range recs {
		out = append(out, service.NewView(r))
	}
	return out, nil
}

// AddNextStage enters in as the next stage of the farmer's season, creating
// the season on its first stage. The stored copy returned by the repository
// is the one the view is computed from.
func (s *seasonSvc) AddNextStage(ctx context.Context, farmerID uint, year int, in calendar.StageInput) (service.View, error) {
	if farmerID == 0 || year == 0 {
		return service.View{}, service.ErrInvalidKey
	}
	rec, err := s.repo.Fetch(ctx, farmerID, year)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		rec = calendar.NewRecord(farmerID, year)
	case err != nil:
		return service.View{}, err
	}

	updated, stage, err := calendar.AddNextStage(rec, in)
	if errors.Is(err, calendar.ErrSeasonComplete) {
		return service.NewView(rec), err
	}
	if err != nil {
		s.log.Debug("stage rejected",
			zap.Uint("farmer_id", farmerID), zap.Int("year", year),
			zap.String("stage", string(stage)), zap.String("kind", string(calendar.KindOf(err))))
		return service.View{}, err
	}

	var saved calendar.Record
	if updated.IsNew() {
		saved, err = s.repo.Create(ctx, updated)
	} else {
		saved, err = s.repo.Update(ctx, updated)
	}
	if err != nil {
		return service.View{}, fmt.Errorf("save %s: %w", stage.Label(), err)
	}
	s.log.Info("stage added",
		zap.Uint("farmer_id", farmerID), zap.Int("year", year),
		zap.Uint("season_id", saved.ID), zap.String("stage", string(stage)))
	return service.NewView(saved), nil
}

func (s *seasonSvc) BulkEdit(ctx context.Context, farmerID uint, year int, e calendar.Edits) (service.View, error) {
	rec, err := s.repo.Fetch(ctx, farmerID, year)
	if err != nil {
		return service.View{}, err
	}
	if e.IsEmpty() {
		return service.NewView(rec), nil
	}
	merged, err := calendar.ApplyBulkEdit(rec, e)
	if err != nil {
		return service.View{}, err
	}
	saved, err := s.repo.Update(ctx, merged)
	if err != nil {
		return service.View{}, fmt.Errorf("save season edits: %w", err)
	}
	s.log.Info("season edited",
		zap.Uint("farmer_id", farmerID), zap.Int("year", year),
		zap.Uint("season_id", saved.ID), zap.Int("stages", len(e.Stages())))
	return service.NewView(saved), nil
}

func (s *seasonSvc) FindByID(ctx context.Context, id uint) (calendar.Record, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *seasonSvc) Create(ctx context.Context, r calendar.Record) (calendar.Record, error) {
	if r.FarmerID == 0 || r.SeasonYear == 0 {
		return calendar.Record{}, service.ErrInvalidKey
	}
	r.ID = 0
	if err := calendar.ValidateRecord(r); err != nil {
		return calendar.Record{}, err
	}
	return s.repo.Create(ctx, r)
}

func (s *seasonSvc) Update(ctx context.Context, r calendar.Record) (calendar.Record, error) {
	cur, err := s.repo.FindByID(ctx, r.ID)
	if err != nil {
		return calendar.Record{}, err
	}
	if r.FarmerID == 0 {
		r.FarmerID = cur.FarmerID
	}
	if r.FarmerID != cur.FarmerID {
		return calendar.Record{}, service.ErrInvalidKey
	}
	if r.SeasonYear != cur.SeasonYear {
		return calendar.Record{}, service.ErrYearImmutable
	}
	for _, f := range calendar.Fields() {
		if cur.Get(f) != nil && r.Get(f) == nil {
			return calendar.Record{}, fmt.Errorf("%w: %s", service.ErrClearsStage, f.Label())
		}
	}
	if err := calendar.ValidateRecord(r); err != nil {
		return calendar.Record{}, err
	}
	return s.repo.Update(ctx, r)
}
