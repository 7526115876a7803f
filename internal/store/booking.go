package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"bookline/internal/domain"
)

// BookingTx is the slice of the store visible inside a staff-calendar
// transaction: re-reading commitments, resolving the customer, and writing
// the accepted appointment are atomic as a unit.
type BookingTx interface {
	ListForStaffDate(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Appointment, error)
	UpsertCustomer(ctx context.Context, name, phone string) (domain.Customer, error)
	CreateAppointment(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}
