package payment

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/handler"
	"github.com/pitstop/pitstop-api/internal/middleware"
	"github.com/pitstop/pitstop-api/internal/model"
	paymentService "github.com/pitstop/pitstop-api/internal/service/payment"
	apperrors "github.com/pitstop/pitstop-api/pkg/errors"
	"github.com/pitstop/pitstop-api/pkg/metrics"
	"github.com/pitstop/pitstop-api/pkg/security"
)

const signatureHeader = "X-Webhook-Signature"

type Handler struct {
	service       *paymentService.Service
	webhookSecret string
	metrics       *metrics.Metrics
}

func NewHandler(service *paymentService.Service, webhookSecret string, m *metrics.Metrics) *Handler {
	return &Handler{service: service, webhookSecret: webhookSecret, metrics: m}
}

// RegisterWebhookRoutes mounts the gateway callback outside the
// authenticated surface; trust comes from the signature, not a session.
func (h *Handler) RegisterWebhookRoutes(r *gin.RouterGroup) {
	r.POST("/payment/webhook", h.Webhook)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
	}
}

func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("failed to read body"))
		return
	}

	// The digest covers the raw body; parse only after it checks out.
	signature := c.GetHeader(signatureHeader)
	if signature == "" || !security.VerifySignature(h.webhookSecret, body, signature) {
		h.metrics.WebhookEvents.WithLabelValues("unknown", "rejected").Inc()
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid signature"))
		return
	}

	var event model.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.metrics.WebhookEvents.WithLabelValues("unknown", "malformed").Inc()
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("malformed event"))
		return
	}

	if err := h.service.ProcessWebhookEvent(c.Request.Context(), &event); err != nil {
		h.metrics.WebhookEvents.WithLabelValues(string(event.Type), "failed").Inc()
		handler.Error(c, err)
		return
	}

	h.metrics.WebhookEvents.WithLabelValues(string(event.Type), "processed").Inc()
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid payment ID"))
		return
	}

	payment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	if !middleware.IsAdmin(c) && payment.CustomerID != userID {
		handler.Error(c, apperrors.Forbidden("not your payment"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(payment))
}

func (h *Handler) List(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	if middleware.IsAdmin(c) {
		if raw := c.Query("customer_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid customer ID"))
				return
			}
			userID = id
		}
	}

	payments, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(payments))
}
