package repositoryImp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"paprika/entities"
	"paprika/pkg/calendar"
	"paprika/pkg/season/repository"
)

type seasonRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.SeasonRepository { return &seasonRepo{db} }

func (r *seasonRepo) Fetch(ctx context.Context, farmerID uint, year int) (calendar.Record, error) {
	var s entities.Season
	err := r.db.WithContext(ctx).Where("farmer_id = ? AND season_year = ?", farmerID, year).First(&s).Error
	if err != nil {
		return calendar.Record{}, notFound(err, "fetch season %d/%d", farmerID, year)
	}
	return toRecord(s)
}

func (r *seasonRepo) FindByID(ctx context.Context, id uint) (calendar.Record, error) {
	var s entities.Season
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return calendar.Record{}, notFound(err, "find season %d", id)
	}
	return toRecord(s)
}

func (r *seasonRepo) ListByFarmer(ctx context.Context, farmerID uint) ([]calendar.Record, error) {
	var rows []entities.Season
	if err := r.db.WithContext(ctx).Where("farmer_id = ?", farmerID).Order("season_year ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list seasons of farmer %d: %w", farmerID, err)
	}
	out := make([]calendar.Record, 0, len(rows))
	for _, s := range rows {
		rec, err := toRecord(s)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *seasonRepo) Create(ctx context.Context, rec calendar.Record) (calendar.Record, error) {
	if !rec.IsNew() {
		return calendar.Record{}, fmt.Errorf("create season: record already has id %d", rec.ID)
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&entities.Season{}).
		Where("farmer_id = ? AND season_year = ?", rec.FarmerID, rec.SeasonYear).
		Count(&n).Error; err != nil {
		return calendar.Record{}, fmt.Errorf("create season: %w", err)
	}
	if n > 0 {
		return calendar.Record{}, repository.ErrConflict
	}
	row := fromRecord(rec)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return calendar.Record{}, repository.ErrConflict
		}
		return calendar.Record{}, fmt.Errorf("create season: %w", err)
	}
	return toRecord(row)
}

func (r *seasonRepo) Update(ctx context.Context, rec calendar.Record) (calendar.Record, error) {
	if rec.IsNew() {
		return calendar.Record{}, repository.ErrNotFound
	}
	var cur entities.Season
	if err := r.db.WithContext(ctx).First(&cur, rec.ID).Error; err != nil {
		return calendar.Record{}, notFound(err, "update season %d", rec.ID)
	}
	row := fromRecord(rec)
	row.CreatedAt = cur.CreatedAt
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return calendar.Record{}, repository.ErrConflict
		}
		return calendar.Record{}, fmt.Errorf("update season %d: %w", rec.ID, err)
	}
	return toRecord(row)
}

func notFound(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// column maps a record field to its nullable text column on the row.
func column(s *entities.Season, f calendar.Field) **string {
	switch f {
	case calendar.FieldPrickingStart:
		return &s.PrickingStart
	case calendar.FieldPrickingEnd:
		return &s.PrickingEnd
	case calendar.FieldPlantingStart:
		return &s.PlantingStart
	case calendar.FieldPlantingEnd:
		return &s.PlantingEnd
	case calendar.FieldHarvestStart:
		return &s.HarvestStart
	case calendar.FieldHarvestEnd:
		return &s.HarvestEnd
	}
	return nil
}

func toRecord(s entities.Season) (calendar.Record, error) {
	rec := calendar.Record{ID: s.SeasonID, FarmerID: s.FarmerID, SeasonYear: s.SeasonYear}
	for _, f := range calendar.Fields() {
		v := *column(&s, f)
		if v == nil {
			continue
		}
		d, err := calendar.ParseDate(*v)
		if err != nil {
			return calendar.Record{}, fmt.Errorf("season %d %s: %w", s.SeasonID, f, err)
		}
		rec.Set(f, d)
	}
	return rec, nil
}

func fromRecord(rec calendar.Record) entities.Season {
	s := entities.Season{SeasonID: rec.ID, FarmerID: rec.FarmerID, SeasonYear: rec.SeasonYear}
	for _, f := range calendar.Fields() {
		if d := rec.Get(f); d != nil {
			v := d.String()
			*column(&s, f) = &v
		}
	}
	return s
}
