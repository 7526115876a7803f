package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookline/internal/booking"
	"bookline/internal/domain"
	"bookline/internal/store"
)

// Booking is the slice of the booking service the assistant drives.
type Booking interface {
	ListShops(ctx context.Context) ([]domain.Shop, error)
	ListStaff(ctx context.Context, shopID uuid.UUID) ([]domain.Staff, error)
	FindStaff(ctx context.Context, shopID uuid.UUID, name string) (domain.Staff, error)
	FindService(ctx context.Context, shopID uuid.UUID, name string) (domain.Service, error)
	Availability(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Slot, error)
	Book(ctx context.Context, in booking.BookInput) (domain.Appointment, error)
	NextAvailable(ctx context.Context, staffID, shopID *uuid.UUID, horizonDays int) (*booking.NextSlot, error)
	CustomerAppointments(ctx context.Context, phone string) ([]domain.Appointment, error)
}

// Reply is what the assistant says back. Success reports whether the
// requested action happened, not whether the message parsed.
type Reply struct {
	Success     bool                `json:"success"`
	Message     string              `json:"message"`
	Appointment *domain.Appointment `json:"appointment,omitempty"`
	Suggestion  *booking.NextSlot   `json:"suggestion,omitempty"`
}

type Assistant struct {
	booking Booking
	now     func() time.Time
}

func New(b Booking, now func() time.Time) *Assistant {
	if now == nil {
		now = time.Now
	}
	return &Assistant{booking: b, now: now}
}

const defaultBookingTime = "14:00"

// Process parses the message and performs the requested action. The
// customerPhone comes from the caller's session, not the message text.
func (a *Assistant) Process(ctx context.Context, text, customerPhone string) (Reply, error) {
	req := Parse(text, a.now())

	switch req.Intent {
	case IntentBook:
		return a.handleBook(ctx, req, customerPhone)
	case IntentCheck:
		return a.handleCheck(ctx, req)
	case IntentCancel:
		return Reply{
			Success: false,
			Message: "To cancel an appointment, provide your appointment ID or phone number.",
		}, nil
	case IntentList:
		return a.handleList(ctx, customerPhone)
	default:
		return Reply{
			Success: false,
			Message: "I didn't understand your request. You can say things like:\n" +
				"- 'Book an appointment for tomorrow at 2pm'\n" +
				"- 'Check available slots with Mike'\n" +
				"- 'Cancel my appointment'\n" +
				"- 'Show my appointments'",
		}, nil
	}
}

func (a *Assistant) handleBook(ctx context.Context, req Request, customerPhone string) (Reply, error) {
	shop, err := a.singleShop(ctx)
	if err != nil {
		return Reply{}, err
	}
	if shop == nil {
		return Reply{Success: false, Message: "No shop configured yet."}, nil
	}

	staff, err := a.resolveStaff(ctx, shop.ID, req.StaffName)
	if err != nil {
		return Reply{}, err
	}
	if staff == nil {
		return Reply{Success: false, Message: "No available staff member found."}, nil
	}

	var serviceID *uuid.UUID
	serviceName := "Standard Haircut"
	if req.ServiceName != "" {
		svc, err := a.booking.FindService(ctx, shop.ID, req.ServiceName)
		switch {
		case err == nil:
			serviceID = &svc.ID
			serviceName = svc.Name
		case errors.Is(err, store.ErrNotFound):
		default:
			return Reply{}, err
		}
	}

	if req.CustomerName == "" && customerPhone == "" {
		return Reply{
			Success: false,
			Message: "Please provide your name and phone number for the booking.",
		}, nil
	}

	date := req.Date
	if !req.HasDate {
		date = domain.DateOf(a.now())
	}
	startTime := req.Time
	if startTime == "" {
		startTime = defaultBookingTime
	}
	customerName := req.CustomerName
	if customerName == "" {
		customerName = "Guest"
	}
	if customerPhone == "" {
		customerPhone = "000-0000"
	}

	appt, err := a.booking.Book(ctx, booking.BookInput{
		StaffID:       staff.ID,
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Date:          date,
		StartTime:     startTime,
		ServiceID:     serviceID,
		Notes:         "Booked via assistant: " + req.RawText,
	})
	if err == nil {
		return Reply{
			Success:     true,
			Appointment: &appt,
			Message: fmt.Sprintf("Your appointment is booked:\nDate: %s\nTime: %s\nStaff: %s\nService: %s\nReference: %s",
				date.Format("Monday, January 2, 2006"), startTime, staff.Name, serviceName, appt.ID),
		}, nil
	}
	if !errors.Is(err, store.ErrConflict) {
		return Reply{}, err
	}

	// Requested slot is taken; suggest the next open one instead.
	next, err := a.booking.NextAvailable(ctx, &staff.ID, nil, booking.DefaultHorizonDays)
	if err != nil {
		return Reply{}, err
	}
	if next == nil {
		return Reply{
			Success: false,
			Message: "No available slots found in the next 30 days. Please try another staff member or call the shop.",
		}, nil
	}
	return Reply{
		Success:    false,
		Suggestion: next,
		Message: fmt.Sprintf("That time slot is not available. The next available slot is:\n%s at %s with %s\nWould you like to book this instead?",
			next.Date.Format("Monday, January 2"), next.Slot.Start.Format("15:04"), next.StaffName),
	}, nil
}

func (a *Assistant) handleCheck(ctx context.Context, req Request) (Reply, error) {
	shop, err := a.singleShop(ctx)
	if err != nil {
		return Reply{}, err
	}
	if shop == nil {
		return Reply{Success: false, Message: "No shop configured yet."}, nil
	}

	if req.StaffName == "" {
		next, err := a.booking.NextAvailable(ctx, nil, &shop.ID, booking.DefaultHorizonDays)
		if err != nil {
			return Reply{}, err
		}
		if next == nil {
			return Reply{Success: false, Message: "No available slots found in the next 30 days."}, nil
		}
		return Reply{
			Success:    true,
			Suggestion: next,
			Message: fmt.Sprintf("Next available appointment:\nStaff: %s\nDate: %s\nTime: %s",
				next.StaffName, next.Date.Format("Monday, January 2"), next.Slot.Start.Format("15:04")),
		}, nil
	}

	staff, err := a.booking.FindStaff(ctx, shop.ID, req.StaffName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Reply{
				Success: false,
				Message: fmt.Sprintf("No staff member found with name %q.", req.StaffName),
			}, nil
		}
		return Reply{}, err
	}

	date := req.Date
	if !req.HasDate {
		date = domain.DateOf(a.now())
	}
	slots, err := a.booking.Availability(ctx, staff.ID, date)
	if err != nil {
		return Reply{}, err
	}
	if len(slots) == 0 {
		return Reply{
			Success: false,
			Message: fmt.Sprintf("%s has no available slots on %s.", staff.Name, date.Format("Monday, January 2")),
		}, nil
	}

	shown := slots
	if len(shown) > 5 {
		shown = shown[:5]
	}
	times := make([]string, len(shown))
	for i, slot := range shown {
		times[i] = slot.Start.Format("15:04")
	}
	msg := fmt.Sprintf("Available slots with %s on %s: %s",
		staff.Name, date.Format("Monday, January 2"), strings.Join(times, ", "))
	if rest := len(slots) - len(shown); rest > 0 {
		msg += fmt.Sprintf(" and %d more", rest)
	}
	return Reply{Success: true, Message: msg}, nil
}

func (a *Assistant) handleList(ctx context.Context, customerPhone string) (Reply, error) {
	if customerPhone == "" {
		return Reply{
			Success: false,
			Message: "Please provide your phone number to view your appointments.",
		}, nil
	}

	appts, err := a.booking.CustomerAppointments(ctx, customerPhone)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Reply{Success: false, Message: "No appointments found for that phone number."}, nil
		}
		return Reply{}, err
	}
	if len(appts) == 0 {
		return Reply{Success: true, Message: "You have no upcoming appointments."}, nil
	}

	lines := make([]string, 0, len(appts)+1)
	lines = append(lines, "Your upcoming appointments:")
	for _, appt := range appts {
		lines = append(lines, fmt.Sprintf("- %s at %s (%s)",
			appt.Date.Format("Monday, January 2"), appt.StartAt.Format("15:04"), appt.Status))
	}
	return Reply{Success: true, Message: strings.Join(lines, "\n")}, nil
}

func (a *Assistant) singleShop(ctx context.Context) (*domain.Shop, error) {
	shops, err := a.booking.ListShops(ctx)
	if err != nil {
		return nil, err
	}
	if len(shops) == 0 {
		return nil, nil
	}
	return &shops[0], nil
}

func (a *Assistant) resolveStaff(ctx context.Context, shopID uuid.UUID, name string) (*domain.Staff, error) {
	if name != "" {
		staff, err := a.booking.FindStaff(ctx, shopID, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &staff, nil
	}

	members, err := a.booking.ListStaff(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}
	return &members[0], nil
}
