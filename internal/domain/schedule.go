package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ScheduleOverride replaces a staff member's weekly default for one calendar
// date: shifted hours, or a full day off when Available is false.
type ScheduleOverride struct {
	bun.BaseModel `bun:"table:schedule_overrides"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	StaffID   uuid.UUID `bun:"staff_id,notnull,type:uuid" json:"staff_id"`
	Date      time.Time `bun:"override_date,notnull" json:"date"`
	StartTime string    `bun:"start_time" json:"start_time,omitempty"`
	EndTime   string    `bun:"end_time" json:"end_time,omitempty"`
	Available bool      `bun:"available,notnull" json:"available"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

func (o *ScheduleOverride) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if o.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			o.ID = id
		}
		if o.CreatedAt.IsZero() {
			o.CreatedAt = now
		}
		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		o.UpdatedAt = now
	}
	return nil
}
