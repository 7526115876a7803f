package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Staff is a service provider with a recurring weekly availability pattern.
// WorkingDays is a comma-separated list of weekday abbreviations,
// e.g. "Mon,Tue,Wed,Thu,Fri". StartTime and EndTime are daily "HH:MM" hours.
type Staff struct {
	bun.BaseModel `bun:"table:staff"`

	ID             uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	ShopID         uuid.UUID `bun:"shop_id,notnull,type:uuid" json:"shop_id"`
	Name           string    `bun:"name,notnull" json:"name"`
	Phone          string    `bun:"phone" json:"phone,omitempty"`
	Email          string    `bun:"email" json:"email,omitempty"`
	Specialization string    `bun:"specialization" json:"specialization,omitempty"`
	Active         bool      `bun:"active,notnull" json:"active"`
	WorkingDays    string    `bun:"working_days,notnull" json:"working_days"`
	StartTime      string    `bun:"start_time,notnull" json:"start_time"`
	EndTime        string    `bun:"end_time,notnull" json:"end_time"`
	CreatedAt      time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,notnull" json:"updated_at"`
}

// WorksOn reports whether date's weekday is in the staff member's working set.
func (s *Staff) WorksOn(date time.Time) bool {
	day := date.UTC().Format("Mon")
	for _, d := range strings.Split(s.WorkingDays, ",") {
		if strings.EqualFold(strings.TrimSpace(d), day) {
			return true
		}
	}
	return false
}

func (s *Staff) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if s.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			s.ID = id
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = now
		}
		if s.UpdatedAt.IsZero() {
			s.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		s.UpdatedAt = now
	}
	return nil
}
