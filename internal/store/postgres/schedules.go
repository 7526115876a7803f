package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"bookline/internal/domain"
)

type ScheduleRepo struct {
	db *bun.DB
}

func NewScheduleRepo(db *bun.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

func (r *ScheduleRepo) OverrideFor(ctx context.Context, staffID uuid.UUID, date time.Time) (*domain.ScheduleOverride, error) {
	var ov domain.ScheduleOverride
	err := r.db.NewSelect().
		Model(&ov).
		Where("staff_id = ?", staffID).
		Where("override_date = ?", date).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &ov, nil
}

func (r *ScheduleRepo) Upsert(ctx context.Context, ov domain.ScheduleOverride) (domain.ScheduleOverride, error) {
	_, err := r.db.NewInsert().
		Model(&ov).
		On("CONFLICT (staff_id, override_date) DO UPDATE").
		Set("start_time = EXCLUDED.start_time").
		Set("end_time = EXCLUDED.end_time").
		Set("available = EXCLUDED.available").
		Exec(ctx)
	if err != nil {
		return domain.ScheduleOverride{}, err
	}
	return ov, nil
}
