package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"bookline/internal/domain"
	"bookline/internal/store"
)

type CustomerRepo struct {
	db *bun.DB
}

func NewCustomerRepo(db *bun.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) UpsertByPhone(ctx context.Context, name, phone string) (domain.Customer, error) {
	return upsertCustomer(ctx, r.db, name, phone)
}

func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (domain.Customer, error) {
	return customerByPhone(ctx, r.db, phone)
}

func customerByPhone(ctx context.Context, idb bun.IDB, phone string) (domain.Customer, error) {
	var customer domain.Customer
	err := idb.NewSelect().
		Model(&customer).
		Where("phone = ?", phone).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, store.ErrNotFound
		}
		return domain.Customer{}, err
	}
	return customer, nil
}

// upsertCustomer reuses any row with a matching phone and inserts otherwise.
// The stored name is never rewritten on a match. A concurrent insert losing
// the unique race on phone falls back to re-reading the winner.
func upsertCustomer(ctx context.Context, idb bun.IDB, name, phone string) (domain.Customer, error) {
	existing, err := customerByPhone(ctx, idb, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Customer{}, err
	}

	customer := domain.Customer{Name: name, Phone: phone}
	if _, err := idb.NewInsert().Model(&customer).Exec(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return customerByPhone(ctx, idb, phone)
		}
		return domain.Customer{}, err
	}
	return customer, nil
}
