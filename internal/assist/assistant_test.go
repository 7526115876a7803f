package assist

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"bookline/internal/booking"
	"bookline/internal/domain"
	"bookline/internal/store"
)

type fakeBooking struct {
	shops   []domain.Shop
	staff   []domain.Staff
	service *domain.Service

	bookFn          func(ctx context.Context, in booking.BookInput) (domain.Appointment, error)
	nextAvailableFn func(ctx context.Context, staffID, shopID *uuid.UUID, horizonDays int) (*booking.NextSlot, error)
	availabilityFn  func(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Slot, error)
	customerFn      func(ctx context.Context, phone string) ([]domain.Appointment, error)

	lastBook *booking.BookInput
}

func (f *fakeBooking) ListShops(ctx context.Context) ([]domain.Shop, error) {
	return f.shops, nil
}

func (f *fakeBooking) ListStaff(ctx context.Context, shopID uuid.UUID) ([]domain.Staff, error) {
	return f.staff, nil
}

func (f *fakeBooking) FindStaff(ctx context.Context, shopID uuid.UUID, name string) (domain.Staff, error) {
	for _, m := range f.staff {
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(name)) {
			return m, nil
		}
	}
	return domain.Staff{}, store.ErrNotFound
}

func (f *fakeBooking) FindService(ctx context.Context, shopID uuid.UUID, name string) (domain.Service, error) {
	if f.service != nil && strings.EqualFold(f.service.Name, name) {
		return *f.service, nil
	}
	return domain.Service{}, store.ErrNotFound
}

func (f *fakeBooking) Availability(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Slot, error) {
	if f.availabilityFn == nil {
		return []domain.Slot{}, nil
	}
	return f.availabilityFn(ctx, staffID, date)
}

func (f *fakeBooking) Book(ctx context.Context, in booking.BookInput) (domain.Appointment, error) {
	f.lastBook = &in
	if f.bookFn == nil {
		return domain.Appointment{ID: uuid.MustParse("00000000-0000-0000-0000-000000000501")}, nil
	}
	return f.bookFn(ctx, in)
}

func (f *fakeBooking) NextAvailable(ctx context.Context, staffID, shopID *uuid.UUID, horizonDays int) (*booking.NextSlot, error) {
	if f.nextAvailableFn == nil {
		return nil, nil
	}
	return f.nextAvailableFn(ctx, staffID, shopID, horizonDays)
}

func (f *fakeBooking) CustomerAppointments(ctx context.Context, phone string) ([]domain.Appointment, error) {
	if f.customerFn == nil {
		return nil, store.ErrNotFound
	}
	return f.customerFn(ctx, phone)
}

func assistantFixture() (*fakeBooking, *Assistant) {
	shopID := uuid.MustParse("00000000-0000-0000-0000-000000000401")
	staffID := uuid.MustParse("00000000-0000-0000-0000-000000000402")
	fb := &fakeBooking{
		shops: []domain.Shop{{ID: shopID, Name: "Premium Cuts"}},
		staff: []domain.Staff{{ID: staffID, ShopID: shopID, Name: "Mike Johnson", Active: true}},
	}
	now := func() time.Time { return time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC) }
	return fb, New(fb, now)
}

func TestAssistantBook(t *testing.T) {
	t.Run("books with parsed staff date and time", func(t *testing.T) {
		fb, a := assistantFixture()

		reply, err := a.Process(context.Background(), "Book an appointment with Mike tomorrow at 2pm", "555-0134")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if !reply.Success {
			t.Fatalf("success = false, message = %q", reply.Message)
		}
		if fb.lastBook == nil {
			t.Fatal("Book was not called")
		}
		if fb.lastBook.StaffID != fb.staff[0].ID {
			t.Fatalf("staff id = %s, want %s", fb.lastBook.StaffID, fb.staff[0].ID)
		}
		wantDate := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
		if !fb.lastBook.Date.Equal(wantDate) {
			t.Fatalf("date = %v, want %v", fb.lastBook.Date, wantDate)
		}
		if fb.lastBook.StartTime != "14:00" {
			t.Fatalf("start time = %q, want %q", fb.lastBook.StartTime, "14:00")
		}
		if fb.lastBook.CustomerPhone != "555-0134" {
			t.Fatalf("phone = %q, want %q", fb.lastBook.CustomerPhone, "555-0134")
		}
	})

	t.Run("defaults fill missing date time and name", func(t *testing.T) {
		fb, a := assistantFixture()

		reply, err := a.Process(context.Background(), "I want to book an appointment", "555-0134")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if !reply.Success {
			t.Fatalf("success = false, message = %q", reply.Message)
		}
		wantDate := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
		if !fb.lastBook.Date.Equal(wantDate) {
			t.Fatalf("date = %v, want today %v", fb.lastBook.Date, wantDate)
		}
		if fb.lastBook.StartTime != defaultBookingTime {
			t.Fatalf("start time = %q, want %q", fb.lastBook.StartTime, defaultBookingTime)
		}
		if fb.lastBook.CustomerName != "Guest" {
			t.Fatalf("customer name = %q, want %q", fb.lastBook.CustomerName, "Guest")
		}
	})

	t.Run("requires identity", func(t *testing.T) {
		fb, a := assistantFixture()

		reply, err := a.Process(context.Background(), "Book an appointment tomorrow", "")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if reply.Success {
			t.Fatal("success = true, want false")
		}
		if fb.lastBook != nil {
			t.Fatal("Book should not be called without identity")
		}
	})

	t.Run("conflict suggests next available slot", func(t *testing.T) {
		fb, a := assistantFixture()
		fb.bookFn = func(ctx context.Context, in booking.BookInput) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrConflict
		}
		slotStart := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
		fb.nextAvailableFn = func(ctx context.Context, staffID, shopID *uuid.UUID, horizonDays int) (*booking.NextSlot, error) {
			if staffID == nil || *staffID != fb.staff[0].ID {
				t.Fatalf("next available staff id = %v, want %s", staffID, fb.staff[0].ID)
			}
			return &booking.NextSlot{
				StaffID:   fb.staff[0].ID,
				StaffName: fb.staff[0].Name,
				Date:      domain.DateOf(slotStart),
				Slot:      domain.Slot{Start: slotStart, End: slotStart.Add(30 * time.Minute), Available: true},
			}, nil
		}

		reply, err := a.Process(context.Background(), "Book an appointment with Mike tomorrow at 2pm", "555-0134")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if reply.Success {
			t.Fatal("success = true, want false on conflict")
		}
		if reply.Suggestion == nil {
			t.Fatal("expected a suggestion")
		}
		if !strings.Contains(reply.Message, "09:00") {
			t.Fatalf("message %q should mention the suggested time", reply.Message)
		}
	})

	t.Run("conflict with exhausted horizon", func(t *testing.T) {
		fb, a := assistantFixture()
		fb.bookFn = func(ctx context.Context, in booking.BookInput) (domain.Appointment, error) {
			return domain.Appointment{}, store.ErrConflict
		}

		reply, err := a.Process(context.Background(), "Book an appointment with Mike tomorrow at 2pm", "555-0134")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if reply.Success || reply.Suggestion != nil {
			t.Fatalf("reply = %+v, want failure without suggestion", reply)
		}
	})
}

func TestAssistantCheck(t *testing.T) {
	t.Run("staff availability lists first five times", func(t *testing.T) {
		fb, a := assistantFixture()
		base := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
		fb.availabilityFn = func(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Slot, error) {
			slots := make([]domain.Slot, 7)
			for i := range slots {
				start := base.Add(time.Duration(i) * 30 * time.Minute)
				slots[i] = domain.Slot{Start: start, End: start.Add(30 * time.Minute), Available: true}
			}
			return slots, nil
		}

		reply, err := a.Process(context.Background(), "Check availability with Mike today", "")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if !reply.Success {
			t.Fatalf("success = false, message = %q", reply.Message)
		}
		if !strings.Contains(reply.Message, "09:00") || !strings.Contains(reply.Message, "11:00") {
			t.Fatalf("message %q should list slot times", reply.Message)
		}
		if strings.Contains(reply.Message, "11:30") {
			t.Fatalf("message %q should cap at five times", reply.Message)
		}
		if !strings.Contains(reply.Message, "2 more") {
			t.Fatalf("message %q should count overflow", reply.Message)
		}
	})

	t.Run("unknown staff name", func(t *testing.T) {
		_, a := assistantFixture()

		reply, err := a.Process(context.Background(), "Check availability with Slartibartfast today", "")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if reply.Success {
			t.Fatal("success = true, want false")
		}
		if !strings.Contains(reply.Message, "Slartibartfast") {
			t.Fatalf("message %q should name the missing staff member", reply.Message)
		}
	})

	t.Run("shop wide next available", func(t *testing.T) {
		fb, a := assistantFixture()
		slotStart := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
		fb.nextAvailableFn = func(ctx context.Context, staffID, shopID *uuid.UUID, horizonDays int) (*booking.NextSlot, error) {
			if shopID == nil || *shopID != fb.shops[0].ID {
				t.Fatalf("next available shop id = %v, want %s", shopID, fb.shops[0].ID)
			}
			return &booking.NextSlot{
				StaffID:   fb.staff[0].ID,
				StaffName: fb.staff[0].Name,
				Date:      domain.DateOf(slotStart),
				Slot:      domain.Slot{Start: slotStart, End: slotStart.Add(30 * time.Minute), Available: true},
			}, nil
		}

		reply, err := a.Process(context.Background(), "When are you available next", "")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if !reply.Success {
			t.Fatalf("success = false, message = %q", reply.Message)
		}
		if !strings.Contains(reply.Message, "Mike Johnson") {
			t.Fatalf("message %q should name the staff member", reply.Message)
		}
	})
}

func TestAssistantListAndFallbacks(t *testing.T) {
	t.Run("list requires phone", func(t *testing.T) {
		_, a := assistantFixture()

		reply, err := a.Process(context.Background(), "Show my appointments", "")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if reply.Success {
			t.Fatal("success = true, want false")
		}
	})

	t.Run("list formats appointments", func(t *testing.T) {
		fb, a := assistantFixture()
		fb.customerFn = func(ctx context.Context, phone string) ([]domain.Appointment, error) {
			return []domain.Appointment{
				{
					Date:    time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
					StartAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
					EndAt:   time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
					Status:  domain.StatusScheduled,
				},
			}, nil
		}

		reply, err := a.Process(context.Background(), "Show my appointments", "555-0134")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if !reply.Success {
			t.Fatalf("success = false, message = %q", reply.Message)
		}
		if !strings.Contains(reply.Message, "10:00") {
			t.Fatalf("message %q should mention the start time", reply.Message)
		}
	})

	t.Run("cancel prompts for identity", func(t *testing.T) {
		_, a := assistantFixture()

		reply, err := a.Process(context.Background(), "Cancel my appointment", "")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if reply.Success {
			t.Fatal("success = true, want false")
		}
	})

	t.Run("unknown intent returns help", func(t *testing.T) {
		_, a := assistantFixture()

		reply, err := a.Process(context.Background(), "What is the meaning of life", "")
		if err != nil {
			t.Fatalf("Process error: %v", err)
		}
		if reply.Success {
			t.Fatal("success = true, want false")
		}
		if !strings.Contains(reply.Message, "Book an appointment") {
			t.Fatalf("message %q should include examples", reply.Message)
		}
	})
}
