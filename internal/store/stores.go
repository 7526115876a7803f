package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookline/internal/domain"
)

type ShopStore interface {
	Create(ctx context.Context, shop domain.Shop) (domain.Shop, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Shop, error)
	List(ctx context.Context) ([]domain.Shop, error)
}

type StaffStore interface {
	Create(ctx context.Context, staff domain.Staff) (domain.Staff, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Staff, error)
	// ListActive returns the shop's active staff in persisted order.
	ListActive(ctx context.Context, shopID uuid.UUID) ([]domain.Staff, error)
	FindActiveByName(ctx context.Context, shopID uuid.UUID, name string) (domain.Staff, error)
}

type ServiceStore interface {
	Create(ctx context.Context, svc domain.Service) (domain.Service, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Service, error)
	ListByShop(ctx context.Context, shopID uuid.UUID) ([]domain.Service, error)
	FindByName(ctx context.Context, shopID uuid.UUID, name string) (domain.Service, error)
}

type CustomerStore interface {
	// UpsertByPhone reuses the customer with a matching phone number and
	// creates one only when no match exists. The stored name is not
	// rewritten on a match.
	UpsertByPhone(ctx context.Context, name, phone string) (domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (domain.Customer, error)
}

type ScheduleStore interface {
	// OverrideFor returns the per-date override for the staff member, or
	// nil when the weekly default applies.
	OverrideFor(ctx context.Context, staffID uuid.UUID, date time.Time) (*domain.ScheduleOverride, error)
	Upsert(ctx context.Context, ov domain.ScheduleOverride) (domain.ScheduleOverride, error)
}

type AppointmentStore interface {
	Get(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	// ListForStaffDate returns the staff member's non-cancelled
	// appointments for the date, ordered by start time.
	ListForStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Appointment, error)
	ListForStaff(ctx context.Context, staffID uuid.UUID, date *time.Time) ([]domain.Appointment, error)
	ListForShop(ctx context.Context, shopID uuid.UUID, date *time.Time) ([]domain.Appointment, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, from time.Time) ([]domain.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) error
	// InStaffCalendarTx runs fn inside a transaction serialized per staff
	// calendar, so a conflict check and the following insert observe a
	// stable commitment set.
	InStaffCalendarTx(ctx context.Context, staffID uuid.UUID, fn func(ctx context.Context, tx BookingTx) error) error
}
