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

type ShopRepo struct {
	db *bun.DB
}

func NewShopRepo(db *bun.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

func (r *ShopRepo) Create(ctx context.Context, shop domain.Shop) (domain.Shop, error) {
	if _, err := r.db.NewInsert().Model(&shop).Exec(ctx); err != nil {
		return domain.Shop{}, err
	}
	return shop, nil
}

func (r *ShopRepo) Get(ctx context.Context, id uuid.UUID) (domain.Shop, error) {
	var shop domain.Shop
	err := r.db.NewSelect().
		Model(&shop).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Shop{}, store.ErrNotFound
		}
		return domain.Shop{}, err
	}
	return shop, nil
}

func (r *ShopRepo) List(ctx context.Context) ([]domain.Shop, error) {
	var rows []domain.Shop
	err := r.db.NewSelect().
		Model(&rows).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
