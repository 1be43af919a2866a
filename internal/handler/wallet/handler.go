package wallet

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/handler"
	"github.com/pitstop/pitstop-api/internal/middleware"
	"github.com/pitstop/pitstop-api/internal/model"
	walletService "github.com/pitstop/pitstop-api/internal/service/wallet"
)

type Handler struct {
	service *walletService.Service
}

func NewHandler(service *walletService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	wallet := r.Group("/wallet")
	{
		wallet.GET("", h.Get)
		wallet.GET("/transactions", h.ListTransactions)
	}

	admin := r.Group("/users/:id/wallet", authMW.RequireRole(model.UserRoleAdmin))
	{
		admin.POST("/adjust", h.Adjust)
	}
}

func (h *Handler) Get(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	wallet, err := h.service.GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(wallet))
}

func (h *Handler) ListTransactions(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	txs, err := h.service.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(txs))
}

func (h *Handler) Adjust(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	var req model.AdjustWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	wallet, err := h.service.Adjust(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(wallet))
}
