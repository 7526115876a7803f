package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookline/internal/domain"
	"bookline/internal/store"
)

// DefaultHorizonDays bounds the next-available search.
const DefaultHorizonDays = 30

var weekdayNames = map[string]string{
	"mon": "Mon", "tue": "Tue", "wed": "Wed", "thu": "Thu",
	"fri": "Fri", "sat": "Sat", "sun": "Sun",
}

type Deps struct {
	Shops        store.ShopStore
	Staff        store.StaffStore
	Services     store.ServiceStore
	Customers    store.CustomerStore
	Schedules    store.ScheduleStore
	Appointments store.AppointmentStore
	// Now supplies the current instant; defaults to time.Now. Tests pin it.
	Now func() time.Time
}

type Service struct {
	shops     store.ShopStore
	staff     store.StaffStore
	services  store.ServiceStore
	customers store.CustomerStore
	schedules store.ScheduleStore
	appts     store.AppointmentStore
	now       func() time.Time
}

func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		shops:     d.Shops,
		staff:     d.Staff,
		services:  d.Services,
		customers: d.Customers,
		schedules: d.Schedules,
		appts:     d.Appointments,
		now:       d.Now,
	}
}

type CreateShopInput struct {
	Name        string
	OwnerName   string
	Address     string
	Phone       string
	Email       string
	OpeningTime string
	ClosingTime string
}

func (s *Service) CreateShop(ctx context.Context, in CreateShopInput) (domain.Shop, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Shop{}, validationError("name is required")
	}

	opening, err := domain.ParseClockTime(in.OpeningTime)
	if err != nil {
		return domain.Shop{}, validationError("invalid opening_time, want HH:MM")
	}
	closing, err := domain.ParseClockTime(in.ClosingTime)
	if err != nil {
		return domain.Shop{}, validationError("invalid closing_time, want HH:MM")
	}
	ref := time.Time{}
	if !opening.At(ref).Before(closing.At(ref)) {
		return domain.Shop{}, validationError("closing_time must be after opening_time")
	}

	return s.shops.Create(ctx, domain.Shop{
		Name:        name,
		OwnerName:   strings.TrimSpace(in.OwnerName),
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		OpeningTime: opening.String(),
		ClosingTime: closing.String(),
	})
}

func (s *Service) GetShop(ctx context.Context, id uuid.UUID) (domain.Shop, error) {
	return s.shops.Get(ctx, id)
}

func (s *Service) ListShops(ctx context.Context) ([]domain.Shop, error) {
	return s.shops.List(ctx)
}

type AddStaffInput struct {
	ShopID         uuid.UUID
	Name           string
	Phone          string
	Email          string
	Specialization string
	WorkingDays    string
	StartTime      string
	EndTime        string
}

func (s *Service) AddStaff(ctx context.Context, in AddStaffInput) (domain.Staff, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Staff{}, validationError("name is required")
	}

	days, err := normalizeWorkingDays(in.WorkingDays)
	if err != nil {
		return domain.Staff{}, err
	}

	start, err := domain.ParseClockTime(in.StartTime)
	if err != nil {
		return domain.Staff{}, validationError("invalid start_time, want HH:MM")
	}
	end, err := domain.ParseClockTime(in.EndTime)
	if err != nil {
		return domain.Staff{}, validationError("invalid end_time, want HH:MM")
	}
	ref := time.Time{}
	if !start.At(ref).Before(end.At(ref)) {
		return domain.Staff{}, validationError("end_time must be after start_time")
	}

	if _, err := s.shops.Get(ctx, in.ShopID); err != nil {
		return domain.Staff{}, err
	}

	return s.staff.Create(ctx, domain.Staff{
		ShopID:         in.ShopID,
		Name:           name,
		Phone:          in.Phone,
		Email:          in.Email,
		Specialization: in.Specialization,
		Active:         true,
		WorkingDays:    days,
		StartTime:      start.String(),
		EndTime:        end.String(),
	})
}

func (s *Service) ListStaff(ctx context.Context, shopID uuid.UUID) ([]domain.Staff, error) {
	return s.staff.ListActive(ctx, shopID)
}

func normalizeWorkingDays(raw string) (string, error) {
	tokens := strings.Split(raw, ",")
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		canonical, ok := weekdayNames[strings.ToLower(tok)]
		if !ok {
			return "", validationError("invalid working day " + tok)
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	if len(out) == 0 {
		return "", validationError("at least one working day is required")
	}
	return strings.Join(out, ","), nil
}

type AddServiceInput struct {
	ShopID          uuid.UUID
	Name            string
	Description     string
	DurationMinutes int
	Price           float64
}

func (s *Service) AddService(ctx context.Context, in AddServiceInput) (domain.Service, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Service{}, validationError("name is required")
	}
	if in.DurationMinutes < 0 {
		return domain.Service{}, validationError("duration_minutes must not be negative")
	}
	duration := in.DurationMinutes
	if duration == 0 {
		duration = int(domain.DefaultServiceDuration / time.Minute)
	}

	if _, err := s.shops.Get(ctx, in.ShopID); err != nil {
		return domain.Service{}, err
	}

	return s.services.Create(ctx, domain.Service{
		ShopID:          in.ShopID,
		Name:            name,
		Description:     in.Description,
		DurationMinutes: duration,
		Price:           in.Price,
	})
}

func (s *Service) ListServices(ctx context.Context, shopID uuid.UUID) ([]domain.Service, error) {
	return s.services.ListByShop(ctx, shopID)
}

func (s *Service) FindStaff(ctx context.Context, shopID uuid.UUID, name string) (domain.Staff, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Staff{}, validationError("name is required")
	}
	return s.staff.FindActiveByName(ctx, shopID, name)
}

func (s *Service) FindService(ctx context.Context, shopID uuid.UUID, name string) (domain.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Service{}, validationError("name is required")
	}
	return s.services.FindByName(ctx, shopID, name)
}

type SetOverrideInput struct {
	StaffID   uuid.UUID
	Date      time.Time
	StartTime string
	EndTime   string
	Available bool
}

// SetScheduleOverride records a per-date exception to the staff member's
// weekly pattern: a day off, or shifted hours for that date only.
func (s *Service) SetScheduleOverride(ctx context.Context, in SetOverrideInput) (domain.ScheduleOverride, error) {
	if in.Date.IsZero() {
		return domain.ScheduleOverride{}, validationError("date is required")
	}
	if _, err := s.staff.Get(ctx, in.StaffID); err != nil {
		return domain.ScheduleOverride{}, err
	}

	ov := domain.ScheduleOverride{
		StaffID:   in.StaffID,
		Date:      domain.DateOf(in.Date),
		Available: in.Available,
	}
	if in.Available {
		start, err := domain.ParseClockTime(in.StartTime)
		if err != nil {
			return domain.ScheduleOverride{}, validationError("invalid start_time, want HH:MM")
		}
		end, err := domain.ParseClockTime(in.EndTime)
		if err != nil {
			return domain.ScheduleOverride{}, validationError("invalid end_time, want HH:MM")
		}
		ref := time.Time{}
		if !start.At(ref).Before(end.At(ref)) {
			return domain.ScheduleOverride{}, validationError("end_time must be after start_time")
		}
		ov.StartTime = start.String()
		ov.EndTime = end.String()
	}

	return s.schedules.Upsert(ctx, ov)
}

// Availability resolves the staff member's working window for the date and
// returns the free slots in it. A non-working date yields an empty slice,
// not an error.
func (s *Service) Availability(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Slot, error) {
	staff, err := s.staff.Get(ctx, staffID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slotsFor(ctx, staff, date)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}

func (s *Service) slotsFor(ctx context.Context, staff domain.Staff, date time.Time) ([]domain.Slot, error) {
	ov, err := s.schedules.OverrideFor(ctx, staff.ID, domain.DateOf(date))
	if err != nil {
		return nil, err
	}
	window, err := domain.ResolveWindow(staff, ov, date)
	if err != nil {
		return nil, err
	}
	if !window.Available {
		return nil, nil
	}
	appts, err := s.appts.ListForStaffDate(ctx, staff.ID, window.Date)
	if err != nil {
		return nil, err
	}
	return domain.GenerateSlots(window, domain.BusySpans(appts), domain.DefaultSlotDuration), nil
}

type BookInput struct {
	StaffID       uuid.UUID
	CustomerName  string
	CustomerPhone string
	Date          time.Time
	StartTime     string
	ServiceID     *uuid.UUID
	Notes         string
}

// Book validates the requested interval against the staff member's existing
// commitments and creates the appointment when it is free. The conflict
// check, customer upsert and insert run in one staff-calendar transaction.
func (s *Service) Book(ctx context.Context, in BookInput) (domain.Appointment, error) {
	customerName := strings.TrimSpace(in.CustomerName)
	if customerName == "" {
		return domain.Appointment{}, validationError("customer_name is required")
	}
	customerPhone := strings.TrimSpace(in.CustomerPhone)
	if customerPhone == "" {
		return domain.Appointment{}, validationError("customer_phone is required")
	}
	if in.Date.IsZero() {
		return domain.Appointment{}, validationError("appointment_date is required")
	}

	// Malformed times are rejected before any lookup happens.
	start, err := domain.ParseClockTime(in.StartTime)
	if err != nil {
		return domain.Appointment{}, validationError("invalid start_time, want HH:MM")
	}

	staff, err := s.staff.Get(ctx, in.StaffID)
	if err != nil {
		return domain.Appointment{}, err
	}

	duration := domain.DefaultServiceDuration
	var price float64
	if in.ServiceID != nil {
		svc, err := s.services.Get(ctx, *in.ServiceID)
		switch {
		case err == nil:
			duration = svc.Duration()
			price = svc.Price
		case errors.Is(err, store.ErrNotFound):
			// Lookup miss keeps the default duration.
		default:
			return domain.Appointment{}, err
		}
	}

	date := domain.DateOf(in.Date)
	startAt := start.At(date)
	endAt := startAt.Add(duration)

	var out domain.Appointment
	err = s.appts.InStaffCalendarTx(ctx, staff.ID, func(ctx context.Context, tx store.BookingTx) error {
		existing, err := tx.ListForStaffDate(ctx, staff.ID, date)
		if err != nil {
			return err
		}
		for _, a := range existing {
			if !a.Status.Blocks() {
				continue
			}
			if domain.Overlaps(startAt, endAt, a.StartAt, a.EndAt) {
				return store.ErrConflict
			}
		}

		customer, err := tx.UpsertCustomer(ctx, customerName, customerPhone)
		if err != nil {
			return err
		}

		created, err := tx.CreateAppointment(ctx, domain.Appointment{
			ShopID:     staff.ShopID,
			StaffID:    staff.ID,
			CustomerID: customer.ID,
			ServiceID:  in.ServiceID,
			Date:       date,
			StartAt:    startAt,
			EndAt:      endAt,
			Status:     domain.StatusScheduled,
			Notes:      in.Notes,
			Price:      price,
		})
		if err != nil {
			return err
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

// NextSlot is the earliest open slot found within the search horizon.
type NextSlot struct {
	StaffID   uuid.UUID
	StaffName string
	Date      time.Time
	Slot      domain.Slot
}

// NextAvailable scans forward from today, inclusive, for up to horizonDays
// days. Exactly one of staffID/shopID must be set. A nil result with a nil
// error means the horizon was exhausted; callers must treat that as a valid
// empty outcome.
func (s *Service) NextAvailable(ctx context.Context, staffID, shopID *uuid.UUID, horizonDays int) (*NextSlot, error) {
	if (staffID == nil) == (shopID == nil) {
		return nil, validationError("exactly one of staff_id and shop_id is required")
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	today := domain.DateOf(s.now())

	if staffID != nil {
		staff, err := s.staff.Get(ctx, *staffID)
		if err != nil {
			return nil, err
		}
		for i := 0; i < horizonDays; i++ {
			date := today.AddDate(0, 0, i)
			slots, err := s.slotsFor(ctx, staff, date)
			if err != nil {
				return nil, err
			}
			if len(slots) > 0 {
				return &NextSlot{StaffID: staff.ID, StaffName: staff.Name, Date: date, Slot: slots[0]}, nil
			}
		}
		return nil, nil
	}

	members, err := s.staff.ListActive(ctx, *shopID)
	if err != nil {
		return nil, err
	}
	for i := 0; i < horizonDays; i++ {
		date := today.AddDate(0, 0, i)
		for _, member := range members {
			slots, err := s.slotsFor(ctx, member, date)
			if err != nil {
				return nil, err
			}
			if len(slots) > 0 {
				return &NextSlot{StaffID: member.ID, StaffName: member.Name, Date: date, Slot: slots[0]}, nil
			}
		}
	}
	return nil, nil
}

// Cancel marks the appointment cancelled. The row is kept; its span simply
// stops blocking availability.
func (s *Service) Cancel(ctx context.Context, appointmentID uuid.UUID) error {
	if appointmentID == uuid.Nil {
		return validationError("appointment_id is required")
	}
	return s.appts.UpdateStatus(ctx, appointmentID, domain.StatusCancelled)
}

func (s *Service) StaffAppointments(ctx context.Context, staffID uuid.UUID, date *time.Time) ([]domain.Appointment, error) {
	if _, err := s.staff.Get(ctx, staffID); err != nil {
		return nil, err
	}
	return s.appts.ListForStaff(ctx, staffID, normalizeDate(date))
}

func (s *Service) ShopAppointments(ctx context.Context, shopID uuid.UUID, date *time.Time) ([]domain.Appointment, error) {
	if _, err := s.shops.Get(ctx, shopID); err != nil {
		return nil, err
	}
	return s.appts.ListForShop(ctx, shopID, normalizeDate(date))
}

// CustomerAppointments lists a customer's appointments from today onward,
// resolved by phone number.
func (s *Service) CustomerAppointments(ctx context.Context, phone string) ([]domain.Appointment, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, validationError("phone is required")
	}
	customer, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.appts.ListForCustomer(ctx, customer.ID, domain.DateOf(s.now()))
}

func normalizeDate(date *time.Time) *time.Time {
	if date == nil {
		return nil
	}
	d := domain.DateOf(*date)
	return &d
}

// Dashboard summarizes a shop's current load for its owner.
type Dashboard struct {
	ShopName          string    `json:"shop_name"`
	Date              time.Time `json:"date"`
	TodayAppointments int       `json:"todays_appointments"`
	WeekAppointments  int       `json:"week_appointments"`
	ActiveStaff       int       `json:"active_staff"`
	TotalCustomers    int       `json:"total_customers"`
	OpeningTime       string    `json:"opening_time"`
	ClosingTime       string    `json:"closing_time"`
}

func (s *Service) ShopDashboard(ctx context.Context, shopID uuid.UUID) (Dashboard, error) {
	shop, err := s.shops.Get(ctx, shopID)
	if err != nil {
		return Dashboard{}, err
	}

	today := domain.DateOf(s.now())
	weekStart := today.AddDate(0, 0, -mondayOffset(today))
	weekEnd := weekStart.AddDate(0, 0, 6)

	appts, err := s.appts.ListForShop(ctx, shopID, nil)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		ShopName:    shop.Name,
		Date:        today,
		OpeningTime: shop.OpeningTime,
		ClosingTime: shop.ClosingTime,
	}

	customers := make(map[uuid.UUID]struct{})
	for _, a := range appts {
		customers[a.CustomerID] = struct{}{}
		if a.Status != domain.StatusScheduled {
			continue
		}
		if a.Date.Equal(today) {
			d.TodayAppointments++
		}
		if !a.Date.Before(weekStart) && !a.Date.After(weekEnd) {
			d.WeekAppointments++
		}
	}
	d.TotalCustomers = len(customers)

	members, err := s.staff.ListActive(ctx, shopID)
	if err != nil {
		return Dashboard{}, err
	}
	d.ActiveStaff = len(members)

	return d, nil
}

func mondayOffset(date time.Time) int {
	wd := date.Weekday()
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}
