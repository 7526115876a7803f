package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"bookline/internal/domain"
	"bookline/internal/store"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	var appt domain.Appointment
	err := r.db.NewSelect().
		Model(&appt).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func (r *AppointmentRepo) ListForStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Appointment, error) {
	return listForStaffDate(ctx, r.db, staffID, date)
}

func (r *AppointmentRepo) ListForStaff(ctx context.Context, staffID uuid.UUID, date *time.Time) ([]domain.Appointment, error) {
	q := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("staff_id = ?", staffID)
	return listFiltered(ctx, q, date)
}

func (r *AppointmentRepo) ListForShop(ctx context.Context, shopID uuid.UUID, date *time.Time) ([]domain.Appointment, error) {
	q := r.db.NewSelect().
		Model((*domain.Appointment)(nil)).
		Where("shop_id = ?", shopID)
	return listFiltered(ctx, q, date)
}

func (r *AppointmentRepo) ListForCustomer(ctx context.Context, customerID uuid.UUID, from time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := r.db.NewSelect().
		Model(&rows).
		Where("customer_id = ?", customerID).
		Where("appointment_date >= ?", from).
		Where("status != ?", domain.StatusCancelled).
		OrderExpr("start_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func listFiltered(ctx context.Context, q *bun.SelectQuery, date *time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	q = q.Where("status != ?", domain.StatusCancelled)
	if date != nil {
		q = q.Where("appointment_date = ?", *date)
	}
	err := q.OrderExpr("appointment_date ASC, start_at ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error {
	res, err := r.db.NewUpdate().
		Model((*domain.Appointment)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// InStaffCalendarTx serializes all booking writes for one staff calendar
// with an advisory transaction lock, so the conflict check and insert inside
// fn cannot interleave with a concurrent attempt on the same calendar.
func (r *AppointmentRepo) InStaffCalendarTx(ctx context.Context, staffID uuid.UUID, fn func(ctx context.Context, tx store.BookingTx) error) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockStaffCalendar(ctx, tx, staffID); err != nil {
			return err
		}
		return fn(ctx, bookingTx{tx: tx})
	})
}

func lockStaffCalendar(ctx context.Context, tx bun.Tx, staffID uuid.UUID) error {
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", staffID.String()).Exec(ctx)
	return err
}

type bookingTx struct {
	tx bun.Tx
}

func (t bookingTx) ListForStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Appointment, error) {
	return listForStaffDate(ctx, t.tx, staffID, date)
}

func (t bookingTx) UpsertCustomer(ctx context.Context, name, phone string) (domain.Customer, error) {
	return upsertCustomer(ctx, t.tx, name, phone)
}

func (t bookingTx) CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if _, err := t.tx.NewInsert().Model(&appt).Exec(ctx); err != nil {
		if isOverlapViolation(err) {
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, err
	}
	return appt, nil
}

func listForStaffDate(ctx context.Context, idb bun.IDB, staffID uuid.UUID, date time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := idb.NewSelect().
		Model(&rows).
		Where("staff_id = ?", staffID).
		Where("appointment_date = ?", date).
		Where("status != ?", domain.StatusCancelled).
		OrderExpr("start_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// isOverlapViolation recognizes the appointments_no_overlap exclusion
// constraint, the storage backstop against double-booking.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "23P01" && pgErr.ConstraintName == "appointments_no_overlap"
}
