package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Blocks reports whether an appointment in this status still occupies its
// time span. Completed and no-show appointments keep blocking; only a
// cancellation frees the slot.
func (s AppointmentStatus) Blocks() bool {
	return s != StatusCancelled
}

// Appointment occupies staff time over the half-open span [StartAt, EndAt)
// on a single calendar date. Date is the UTC midnight of that date; StartAt
// and EndAt carry the same date with the booked wall-clock times.
type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID         uuid.UUID         `bun:"id,pk,type:uuid" json:"id"`
	ShopID     uuid.UUID         `bun:"shop_id,notnull,type:uuid" json:"shop_id"`
	StaffID    uuid.UUID         `bun:"staff_id,notnull,type:uuid" json:"staff_id"`
	CustomerID uuid.UUID         `bun:"customer_id,notnull,type:uuid" json:"customer_id"`
	ServiceID  *uuid.UUID        `bun:"service_id,type:uuid" json:"service_id,omitempty"`
	Date       time.Time         `bun:"appointment_date,notnull" json:"appointment_date"`
	StartAt    time.Time         `bun:"start_at,notnull" json:"start_at"`
	EndAt      time.Time         `bun:"end_at,notnull" json:"end_at"`
	Status     AppointmentStatus `bun:"status,notnull" json:"status"`
	Notes      string            `bun:"notes" json:"notes,omitempty"`
	Price      float64           `bun:"price" json:"price"`
	CreatedAt  time.Time         `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt  time.Time         `bun:"updated_at,notnull" json:"updated_at"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.Status == "" {
			a.Status = StatusScheduled
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
