package booking

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/handler"
	"github.com/pitstop/pitstop-api/internal/middleware"
	"github.com/pitstop/pitstop-api/internal/model"
	availabilityService "github.com/pitstop/pitstop-api/internal/service/availability"
	bookingService "github.com/pitstop/pitstop-api/internal/service/booking"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
	"github.com/pitstop/pitstop-api/pkg/metrics"
)

type Handler struct {
	service  *bookingService.Service
	availSvc *availabilityService.Service
	metrics  *metrics.Metrics
}

func NewHandler(service *bookingService.Service, availSvc *availabilityService.Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, availSvc: availSvc, metrics: m}
}

// RegisterPublicRoutes exposes the availability lookup.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.PATCH("/:id", h.Reschedule)
	}

	staff := r.Group("/bookings", authMW.RequireRole(model.UserRoleAdmin, model.UserRoleProvider))
	{
		staff.POST("/:id/complete", h.Complete)
	}

	admin := r.Group("", authMW.RequireRole(model.UserRoleAdmin))
	{
		admin.PUT("/business-hours", h.UpsertBusinessHour)
		admin.GET("/business-hours", h.ListBusinessHours)
		admin.POST("/holidays", h.CreateHoliday)
		admin.GET("/holidays", h.ListHolidays)
		admin.DELETE("/holidays/:id", h.DeleteHoliday)
	}
}

// GetAvailability returns the derived slot view. The result object is
// the response body itself, not wrapped in the standard envelope.
func (h *Handler) GetAvailability(c *gin.Context) {
	rawDate := c.Query("date")
	if rawDate == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date is required"))
		return
	}
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("date must be YYYY-MM-DD"))
		return
	}

	serviceID, err := uuid.Parse(c.Query("serviceId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("serviceId is required"))
		return
	}

	result, err := h.availSvc.ComputeAvailability(c.Request.Context(), serviceID, date)
	if err != nil {
		h.metrics.AvailabilityHits.WithLabelValues("error").Inc()
		handler.Error(c, err)
		return
	}

	if result.IsAvailable {
		h.metrics.AvailabilityHits.WithLabelValues("available").Inc()
	} else {
		h.metrics.AvailabilityHits.WithLabelValues("unavailable").Inc()
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	customerID, _ := middleware.UserIDFromContext(c)
	booking, err := h.service.Create(c.Request.Context(), customerID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.metrics.BookingsCreated.Inc()
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(booking))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	booking, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if err := h.authorize(c, booking); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking))
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.BookingFilters{
		Status: model.BookingStatus(c.Query("status")),
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	// Customers see their own bookings; staff see everything.
	userID, _ := middleware.UserIDFromContext(c)
	role, _ := middleware.RoleFromContext(c)
	if role == model.UserRoleCustomer {
		filters.CustomerID = userID
	} else if raw := c.Query("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
			return
		}
		filters.CustomerID = id
	}
	if raw := c.Query("service_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
			return
		}
		filters.ServiceID = id
	}

	bookings, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(bookings))
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	existing, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if err := h.authorize(c, existing); err != nil {
		handler.Error(c, err)
		return
	}

	booking, err := h.service.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}

	h.metrics.BookingsCancelled.Inc()
	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking))
}

func (h *Handler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	booking, err := h.service.Complete(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking))
}

type rescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid booking ID"))
		return
	}

	var req rescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	existing, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}
	if err := h.authorize(c, existing); err != nil {
		handler.Error(c, err)
		return
	}

	booking, err := h.service.Reschedule(c.Request.Context(), id, req.Date, req.Time)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(booking))
}

// authorize allows staff, or the customer who owns the booking.
func (h *Handler) authorize(c *gin.Context, booking *model.Booking) error {
	role, _ := middleware.RoleFromContext(c)
	if role == model.UserRoleAdmin || role == model.UserRoleProvider {
		return nil
	}
	userID, _ := middleware.UserIDFromContext(c)
	if booking.CustomerID != userID {
		return apperrors.Forbidden("not your booking")
	}
	return nil
}

func (h *Handler) UpsertBusinessHour(c *gin.Context) {
	var req model.UpsertBusinessHourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	hour, err := h.availSvc.UpsertBusinessHour(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hour))
}

func (h *Handler) ListBusinessHours(c *gin.Context) {
	hours, err := h.availSvc.ListBusinessHours(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hours))
}

func (h *Handler) CreateHoliday(c *gin.Context) {
	var req model.CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	holiday, err := h.availSvc.CreateHoliday(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(holiday))
}

func (h *Handler) DeleteHoliday(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid holiday ID"))
		return
	}

	if err := h.availSvc.DeleteHoliday(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListHolidays(c *gin.Context) {
	holidays, err := h.availSvc.ListHolidays(c.Request.Context())
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(holidays))
}
