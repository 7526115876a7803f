package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"bookline/internal/domain"
	"bookline/internal/store"
)

type StaffRepo struct {
	db *bun.DB
}

func NewStaffRepo(db *bun.DB) *StaffRepo {
	return &StaffRepo{db: db}
}

func (r *StaffRepo) Create(ctx context.Context, staff domain.Staff) (domain.Staff, error) {
	if _, err := r.db.NewInsert().Model(&staff).Exec(ctx); err != nil {
		return domain.Staff{}, err
	}
	return staff, nil
}

func (r *StaffRepo) Get(ctx context.Context, id uuid.UUID) (domain.Staff, error) {
	var staff domain.Staff
	err := r.db.NewSelect().
		Model(&staff).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Staff{}, store.ErrNotFound
		}
		return domain.Staff{}, err
	}
	return staff, nil
}

// ListActive preserves insertion order; v7 ids are time-ordered so the
// primary key doubles as the persisted order.
func (r *StaffRepo) ListActive(ctx context.Context, shopID uuid.UUID) ([]domain.Staff, error) {
	var rows []domain.Staff
	err := r.db.NewSelect().
		Model(&rows).
		Where("shop_id = ?", shopID).
		Where("active").
		OrderExpr("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *StaffRepo) FindActiveByName(ctx context.Context, shopID uuid.UUID, name string) (domain.Staff, error) {
	var staff domain.Staff
	err := r.db.NewSelect().
		Model(&staff).
		Where("shop_id = ?", shopID).
		Where("active").
		Where("name ILIKE ?", "%"+name+"%").
		OrderExpr("id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Staff{}, store.ErrNotFound
		}
		return domain.Staff{}, err
	}
	return staff, nil
}
