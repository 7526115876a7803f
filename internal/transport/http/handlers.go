package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookline/internal/booking"
)

type createShopRequest struct {
	Name        string `json:"name"`
	OwnerName   string `json:"owner_name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	OpeningTime string `json:"opening_time"`
	ClosingTime string `json:"closing_time"`
}

func (s *Server) createShop(c *gin.Context) {
	log := s.log.With(slog.String("handler", "createShop"))

	var req createShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	shop, err := s.svc.CreateShop(c.Request.Context(), booking.CreateShopInput{
		Name:        req.Name,
		OwnerName:   req.OwnerName,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		OpeningTime: req.OpeningTime,
		ClosingTime: req.ClosingTime,
	})
	if err != nil {
		s.respondError(c, log, err)
		return
	}

	log.Info("shop created", slog.String("shop_id", shop.ID.String()), slog.String("name", shop.Name))
	c.JSON(http.StatusCreated, shop)
}

func (s *Server) listShops(c *gin.Context) {
	log := s.log.With(slog.String("handler", "listShops"))

	shops, err := s.svc.ListShops(c.Request.Context())
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, shops)
}

func (s *Server) getShop(c *gin.Context) {
	log := s.log.With(slog.String("handler", "getShop"))

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	shop, err := s.svc.GetShop(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

type addStaffRequest struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
	WorkingDays    string `json:"working_days"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time"`
}

func (s *Server) addStaff(c *gin.Context) {
	log := s.log.With(slog.String("handler", "addStaff"))

	shopID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req addStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	staff, err := s.svc.AddStaff(c.Request.Context(), booking.AddStaffInput{
		ShopID:         shopID,
		Name:           req.Name,
		Phone:          req.Phone,
		Email:          req.Email,
		Specialization: req.Specialization,
		WorkingDays:    req.WorkingDays,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	})
	if err != nil {
		s.respondError(c, log, err)
		return
	}

	log.Info("staff added", slog.String("staff_id", staff.ID.String()), slog.String("shop_id", shopID.String()))
	c.JSON(http.StatusCreated, staff)
}

func (s *Server) listStaff(c *gin.Context) {
	log := s.log.With(slog.String("handler", "listStaff"))

	shopID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	members, err := s.svc.ListStaff(c.Request.Context(), shopID)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

type addServiceRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

func (s *Server) addService(c *gin.Context) {
	log := s.log.With(slog.String("handler", "addService"))

	shopID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req addServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	svc, err := s.svc.AddService(c.Request.Context(), booking.AddServiceInput{
		ShopID:          shopID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
	})
	if err != nil {
		s.respondError(c, log, err)
		return
	}

	log.Info("service added", slog.String("service_id", svc.ID.String()), slog.String("shop_id", shopID.String()))
	c.JSON(http.StatusCreated, svc)
}

func (s *Server) listServices(c *gin.Context) {
	log := s.log.With(slog.String("handler", "listServices"))

	shopID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	services, err := s.svc.ListServices(c.Request.Context(), shopID)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

type setScheduleOverrideRequest struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

func (s *Server) setScheduleOverride(c *gin.Context) {
	log := s.log.With(slog.String("handler", "setScheduleOverride"))

	staffID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req setScheduleOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	ov, err := s.svc.SetScheduleOverride(c.Request.Context(), booking.SetOverrideInput{
		StaffID:   staffID,
		Date:      date.UTC(),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Available: req.Available,
	})
	if err != nil {
		s.respondError(c, log, err)
		return
	}

	log.Info(
		"schedule override set",
		slog.String("staff_id", staffID.String()),
		slog.String("date", req.Date),
		slog.Bool("available", ov.Available),
	)
	c.JSON(http.StatusOK, ov)
}

func (s *Server) staffAvailability(c *gin.Context) {
	log := s.log.With(slog.String("handler", "staffAvailability"))

	staffID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}
	if date == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}

	slots, err := s.svc.Availability(c.Request.Context(), staffID, *date)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"staff_id": staffID,
		"date":     date.Format("2006-01-02"),
		"slots":    slots,
	})
}

type createBookingRequest struct {
	StaffID       uuid.UUID  `json:"staff_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time"`
	ServiceID     *uuid.UUID `json:"service_id"`
	Notes         string     `json:"notes"`
}

func (s *Server) createBooking(c *gin.Context) {
	log := s.log.With(slog.String("handler", "createBooking"))

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "bad_date"), slog.String("date", req.Date))
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	appt, err := s.svc.Book(c.Request.Context(), booking.BookInput{
		StaffID:       req.StaffID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Date:          date.UTC(),
		StartTime:     req.StartTime,
		ServiceID:     req.ServiceID,
		Notes:         req.Notes,
	})
	if err != nil {
		s.respondError(c, log, err)
		return
	}

	log.Info(
		"appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("staff_id", appt.StaffID.String()),
		slog.Time("start_at", appt.StartAt),
	)
	c.JSON(http.StatusCreated, appt)
}

func (s *Server) cancelBooking(c *gin.Context) {
	log := s.log.With(slog.String("handler", "cancelBooking"))

	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := s.svc.Cancel(c.Request.Context(), id); err != nil {
		s.respondError(c, log, err)
		return
	}

	log.Info("appointment cancelled", slog.String("appointment_id", id.String()))
	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (s *Server) staffAppointments(c *gin.Context) {
	log := s.log.With(slog.String("handler", "staffAppointments"))

	staffID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}
	appts, err := s.svc.StaffAppointments(c.Request.Context(), staffID, date)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (s *Server) shopAppointments(c *gin.Context) {
	log := s.log.With(slog.String("handler", "shopAppointments"))

	shopID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	date, ok := queryDate(c)
	if !ok {
		return
	}
	appts, err := s.svc.ShopAppointments(c.Request.Context(), shopID, date)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (s *Server) nextAvailable(c *gin.Context) {
	log := s.log.With(slog.String("handler", "nextAvailable"))

	var staffID, shopID *uuid.UUID
	if raw := c.Query("staff_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "staff_id must be a valid uuid"})
			return
		}
		staffID = &id
	}
	if raw := c.Query("shop_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "shop_id must be a valid uuid"})
			return
		}
		shopID = &id
	}

	next, err := s.svc.NextAvailable(c.Request.Context(), staffID, shopID, booking.DefaultHorizonDays)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	if next == nil {
		c.JSON(http.StatusOK, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"found":      true,
		"staff_id":   next.StaffID,
		"staff_name": next.StaffName,
		"date":       next.Date.Format("2006-01-02"),
		"slot":       next.Slot,
	})
}

type assistantChatRequest struct {
	Message string `json:"message"`
	Phone   string `json:"phone"`
}

func (s *Server) assistantChat(c *gin.Context) {
	log := s.log.With(slog.String("handler", "assistantChat"))

	var req assistantChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := s.assistant.Process(c.Request.Context(), req.Message, req.Phone)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, reply)
}

func (s *Server) shopDashboard(c *gin.Context) {
	log := s.log.With(slog.String("handler", "shopDashboard"))

	shopID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	dash, err := s.svc.ShopDashboard(c.Request.Context(), shopID)
	if err != nil {
		s.respondError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}
