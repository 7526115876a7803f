package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsOverlapViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "exclusion violation on overlap constraint",
			err:  &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"},
			want: true,
		},
		{
			name: "wrapped exclusion violation",
			err:  fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}),
			want: true,
		},
		{
			name: "exclusion violation on another constraint",
			err:  &pgconn.PgError{Code: "23P01", ConstraintName: "other_constraint"},
			want: false,
		},
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "customers_phone_key"},
			want: false,
		},
		{
			name: "plain error",
			err:  errors.New("connection reset"),
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isOverlapViolation(tc.err); got != tc.want {
				t.Fatalf("isOverlapViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
