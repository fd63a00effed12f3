// Package calendar exposes the scheduling engine over HTTP: the navigable
// calendar view, the navigation affordances, and the creation form endpoint.
package calendar

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	grid "github.com/jwalitptl/clinic-scheduler/internal/calendar"
	"github.com/jwalitptl/clinic-scheduler/internal/datasource"
	"github.com/jwalitptl/clinic-scheduler/internal/handler"
	"github.com/jwalitptl/clinic-scheduler/internal/model"
	"github.com/jwalitptl/clinic-scheduler/internal/repository"
	"github.com/jwalitptl/clinic-scheduler/internal/service/scheduler"
	"github.com/jwalitptl/clinic-scheduler/internal/view"
	apperrors "github.com/jwalitptl/clinic-scheduler/pkg/errors"
)

const dateLayout = "2006-01-02"

type Handler struct {
	navigator *view.Navigator
	repo      repository.AppointmentRepository
	scheduler *scheduler.Service
	feed      *datasource.Client
	now       func() time.Time
}

func NewHandler(navigator *view.Navigator, repo repository.AppointmentRepository, sched *scheduler.Service, feed *datasource.Client, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		navigator: navigator,
		repo:      repo,
		scheduler: sched,
		feed:      feed,
		now:       now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	cal := r.Group("/calendar")
	{
		cal.GET("/view", h.GetView)
		cal.POST("/next", h.Next)
		cal.POST("/previous", h.Previous)
		cal.POST("/today", h.Today)
		cal.POST("/granularity", h.SetGranularity)
		cal.POST("/select", h.SelectDate)
		cal.POST("/reload", h.Reload)
	}

	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
	}
}

// gridCell pairs a calendar cell with the day's appointments, in insertion
// order as the repository returns them.
type gridCell struct {
	model.CalendarCell
	Appointments []model.Appointment `json:"appointments,omitempty"`
}

// hourSlot is one agenda row of the day view. Appointments are sorted by time
// here because the repository deliberately does not order within a day.
type hourSlot struct {
	Hour         int                 `json:"hour"`
	Appointments []model.Appointment `json:"appointments"`
}

// GetView renders the grid for the current view state: a month or week of day
// cells, or the day agenda's hour slots.
func (h *Handler) GetView(c *gin.Context) {
	state := h.navigator.State()
	today := h.now()

	payload := gin.H{"state": state}
	switch state.Granularity {
	case model.GranularityMonth:
		payload["cells"] = h.annotate(grid.BuildMonthGrid(state.AnchorDate, today, state.SelectedDate))
	case model.GranularityWeek:
		payload["cells"] = h.annotate(grid.BuildWeekGrid(state.SelectedDate, today))
	case model.GranularityDay:
		payload["slots"] = h.agenda(state.SelectedDate)
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(payload))
}

func (h *Handler) annotate(cells []model.CalendarCell) []gridCell {
	out := make([]gridCell, 0, len(cells))
	for _, cell := range cells {
		gc := gridCell{CalendarCell: cell}
		if !cell.Blank() {
			gc.Appointments = h.repo.ForDate(*cell.Date)
		}
		out = append(out, gc)
	}
	return out
}

func (h *Handler) agenda(date time.Time) []hourSlot {
	hours := grid.BuildDayAgenda()
	slots := make([]hourSlot, 0, len(hours))
	for _, hour := range hours {
		apts := h.repo.ForDateAndHour(date, hour)
		sort.SliceStable(apts, func(i, j int) bool {
			return apts[i].DateTime.Before(apts[j].DateTime)
		})
		slots = append(slots, hourSlot{Hour: hour, Appointments: apts})
	}
	return slots
}

func (h *Handler) Next(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.navigator.Next()))
}

func (h *Handler) Previous(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.navigator.Previous()))
}

func (h *Handler) Today(c *gin.Context) {
	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.navigator.Today()))
}

func (h *Handler) SetGranularity(c *gin.Context) {
	var req struct {
		Granularity model.Granularity `json:"granularity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	if !req.Granularity.Valid() {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("granularity must be month, week or day"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.navigator.SetGranularity(req.Granularity)))
}

func (h *Handler) SelectDate(c *gin.Context) {
	var req struct {
		Date string `json:"date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be YYYY-MM-DD"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.navigator.SelectDate(date)))
}

// createRequest is the creation form body. Date is optional; when absent the
// currently selected date is the scheduling context.
type createRequest struct {
	model.CreateAppointmentRequest
	Date string `json:"date,omitempty"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	contextDate := h.navigator.State().SelectedDate
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be YYYY-MM-DD"))
			return
		}
		contextDate = parsed
	}

	apt, err := h.scheduler.Create(c.Request.Context(), &req.CreateAppointmentRequest, contextDate)
	if err != nil {
		if verr, ok := apperrors.AsValidation(err); ok {
			c.JSON(http.StatusBadRequest, handler.NewValidationResponse(verr.Field, verr.Message))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(apt))
}

func (h *Handler) ListAppointments(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusOK, handler.NewSuccessResponse(h.repo.List()))
		return
	}

	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be YYYY-MM-DD"))
		return
	}

	if hourStr := c.Query("hour"); hourStr != "" {
		hour, err := strconv.Atoi(hourStr)
		if err != nil || hour < 0 || hour > 23 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("hour must be an integer in [0,23]"))
			return
		}
		c.JSON(http.StatusOK, handler.NewSuccessResponse(h.repo.ForDateAndHour(date, hour)))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(h.repo.ForDate(date)))
}

// Reload re-seeds the repository from the schedule feed for the selected
// date, bypassing the feed cache. This is the UI's coarse retry path.
func (h *Handler) Reload(c *gin.Context) {
	date := h.navigator.State().SelectedDate

	n, err := h.feed.Reload(c.Request.Context(), h.repo, date)
	if err != nil {
		if _, ok := apperrors.AsDataSource(err); ok {
			c.JSON(http.StatusBadGateway, handler.NewErrorResponse("failed to load appointments"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"seeded": n}))
}
