// Package http exposes the booking service over a JSON REST API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookline/internal/assist"
	"bookline/internal/booking"
	"bookline/internal/domain"
	"bookline/internal/store"
)

type bookingService interface {
	CreateShop(ctx context.Context, in booking.CreateShopInput) (domain.Shop, error)
	GetShop(ctx context.Context, id uuid.UUID) (domain.Shop, error)
	ListShops(ctx context.Context) ([]domain.Shop, error)
	AddStaff(ctx context.Context, in booking.AddStaffInput) (domain.Staff, error)
	ListStaff(ctx context.Context, shopID uuid.UUID) ([]domain.Staff, error)
	AddService(ctx context.Context, in booking.AddServiceInput) (domain.Service, error)
	ListServices(ctx context.Context, shopID uuid.UUID) ([]domain.Service, error)
	SetScheduleOverride(ctx context.Context, in booking.SetOverrideInput) (domain.ScheduleOverride, error)
	Availability(ctx context.Context, staffID uuid.UUID, date time.Time) ([]domain.Slot, error)
	Book(ctx context.Context, in booking.BookInput) (domain.Appointment, error)
	Cancel(ctx context.Context, appointmentID uuid.UUID) error
	NextAvailable(ctx context.Context, staffID, shopID *uuid.UUID, horizonDays int) (*booking.NextSlot, error)
	StaffAppointments(ctx context.Context, staffID uuid.UUID, date *time.Time) ([]domain.Appointment, error)
	ShopAppointments(ctx context.Context, shopID uuid.UUID, date *time.Time) ([]domain.Appointment, error)
	ShopDashboard(ctx context.Context, shopID uuid.UUID) (booking.Dashboard, error)
}

type assistant interface {
	Process(ctx context.Context, text, customerPhone string) (assist.Reply, error)
}

type Server struct {
	svc       bookingService
	assistant assistant
	log       *slog.Logger
}

func NewServer(svc bookingService, a assistant, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		svc:       svc,
		assistant: a,
		log:       log.With(slog.String("component", "http")),
	}
}

func (s *Server) Routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", s.health)

	api := router.Group("/api")
	{
		api.POST("/shops", s.createShop)
		api.GET("/shops", s.listShops)
		api.GET("/shops/:id", s.getShop)
		api.POST("/shops/:id/staff", s.addStaff)
		api.GET("/shops/:id/staff", s.listStaff)
		api.POST("/shops/:id/services", s.addService)
		api.GET("/shops/:id/services", s.listServices)
		api.GET("/shops/:id/appointments", s.shopAppointments)
		api.GET("/shops/:id/dashboard", s.shopDashboard)

		api.GET("/staff/:id/availability", s.staffAvailability)
		api.GET("/staff/:id/appointments", s.staffAppointments)
		api.POST("/staff/:id/schedule", s.setScheduleOverride)

		api.POST("/bookings", s.createBooking)
		api.DELETE("/bookings/:id", s.cancelBooking)

		api.GET("/next-available", s.nextAvailable)

		api.POST("/assistant/chat", s.assistantChat)
	}

	return router
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondError maps service errors onto HTTP statuses. Conflicts are a
// normal outcome of racing bookings, so they log at Info, not Error.
func (s *Server) respondError(c *gin.Context, log *slog.Logger, err error) {
	var vErr *booking.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", slog.Any("err", err))
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, store.ErrConflict):
		log.Info("booking conflict")
		c.JSON(http.StatusBadRequest, gin.H{"error": "that time slot is not available"})
	case errors.Is(err, store.ErrNotFound):
		log.Warn("not found", slog.Any("err", err))
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.Error("request failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a valid uuid"})
		return uuid.Nil, false
	}
	return id, true
}

// queryDate parses an optional date=YYYY-MM-DD query parameter.
func queryDate(c *gin.Context) (*time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return nil, true
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return nil, false
	}
	d = d.UTC()
	return &d, true
}
