// Package rest exposes the scheduling engine over HTTP for clinic dashboards
// and other non-voice clients.
package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BasedPanda/healthcare-voice-assistant/internal/domain"
	"github.com/BasedPanda/healthcare-voice-assistant/internal/scheduling"
)

// schedulingEngine is the slice of the engine the HTTP layer uses.
type schedulingEngine interface {
	Schedule(ctx context.Context, date, timeOfDay, provider, notes string) scheduling.Result
	Cancel(ctx context.Context, date, timeOfDay string) scheduling.Result
	UpdateNotes(ctx context.Context, date, timeOfDay, notes string) scheduling.Result
	List(ctx context.Context, date string) ([]domain.Appointment, error)
	IsAvailable(ctx context.Context, date, timeOfDay string) bool
	NextAvailableSlot(ctx context.Context, fromDate string) (domain.Slot, bool, error)
	SuggestAlternatives(ctx context.Context, date, timeOfDay string, count int) ([]domain.Slot, error)
}

type Server struct {
	engine schedulingEngine
	log    *slog.Logger
}

func NewServer(engine schedulingEngine, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		engine: engine,
		log:    log.With(slog.String("component", "transport.rest")),
	}
}

// Router builds the HTTP routes. Gin's recovery middleware is kept so a
// panicking handler cannot take the server down.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/appointments", s.createAppointment)
		api.GET("/appointments", s.listAppointments)
		api.DELETE("/appointments", s.cancelAppointment)
		api.PATCH("/appointments/notes", s.updateNotes)
		api.GET("/availability", s.checkAvailability)
		api.GET("/slots/next", s.nextSlot)
		api.GET("/slots/suggestions", s.suggestSlots)
	}
	return r
}

type createAppointmentRequest struct {
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Provider string `json:"provider" binding:"required"`
	Notes    string `json:"notes"`
}

func (s *Server) createAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := s.engine.Schedule(c.Request.Context(), req.Date, req.Time, req.Provider, req.Notes)
	if !res.OK {
		c.JSON(statusForReason(res.Reason), res)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (s *Server) listAppointments(c *gin.Context) {
	appointments, err := s.engine.List(c.Request.Context(), c.Query("date"))
	if err != nil {
		s.log.Error("appointment listing failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
		return
	}
	if appointments == nil {
		appointments = []domain.Appointment{}
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appointments})
}

func (s *Server) cancelAppointment(c *gin.Context) {
	date, timeOfDay := c.Query("date"), c.Query("time")
	if date == "" || timeOfDay == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and time are required"})
		return
	}

	res := s.engine.Cancel(c.Request.Context(), date, timeOfDay)
	if !res.OK {
		c.JSON(statusForReason(res.Reason), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

type updateNotesRequest struct {
	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
	Notes string `json:"notes"`
}

func (s *Server) updateNotes(c *gin.Context) {
	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res := s.engine.UpdateNotes(c.Request.Context(), req.Date, req.Time, req.Notes)
	if !res.OK {
		c.JSON(statusForReason(res.Reason), res)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) checkAvailability(c *gin.Context) {
	date, timeOfDay := c.Query("date"), c.Query("time")
	if date == "" || timeOfDay == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and time are required"})
		return
	}

	available := s.engine.IsAvailable(c.Request.Context(), date, timeOfDay)
	c.JSON(http.StatusOK, gin.H{"available": available})
}

func (s *Server) nextSlot(c *gin.Context) {
	slot, found, err := s.engine.NextAvailableSlot(c.Request.Context(), c.Query("from"))
	if err != nil {
		s.log.Error("slot search failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search for a slot"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no available slot found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": slot})
}

func (s *Server) suggestSlots(c *gin.Context) {
	date, timeOfDay := c.Query("date"), c.Query("time")
	if date == "" || timeOfDay == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and time are required"})
		return
	}

	count := 3
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
			return
		}
		count = parsed
	}

	slots, err := s.engine.SuggestAlternatives(c.Request.Context(), date, timeOfDay, count)
	if err != nil {
		s.log.Error("suggestion search failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search for slots"})
		return
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func statusForReason(reason scheduling.Reason) int {
	switch reason {
	case scheduling.ReasonInvalid:
		return http.StatusUnprocessableEntity
	case scheduling.ReasonConflict:
		return http.StatusConflict
	case scheduling.ReasonNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
