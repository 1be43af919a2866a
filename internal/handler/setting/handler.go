package setting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pitstop/pitstop-api/internal/handler"
	"github.com/pitstop/pitstop-api/internal/middleware"
	"github.com/pitstop/pitstop-api/internal/model"
	settingService "github.com/pitstop/pitstop-api/internal/service/setting"
)

type Handler struct {
	service *settingService.Service
}

func NewHandler(service *settingService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/settings", h.ListPublic)
	r.GET("/settings/:key", h.GetPublic)
}

func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	admin := r.Group("/admin/settings", authMW.RequireRole(model.UserRoleAdmin))
	{
		admin.GET("", h.ListAll)
		admin.GET("/:key", h.Get)
		admin.PUT("/:key", h.Upsert)
		admin.DELETE("/:key", h.Delete)
	}
}

func (h *Handler) GetPublic(c *gin.Context) {
	setting, err := h.service.GetPublic(c.Request.Context(), c.Param("key"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(setting))
}

func (h *Handler) Get(c *gin.Context) {
	setting, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(setting))
}

func (h *Handler) Upsert(c *gin.Context) {
	var req model.UpsertSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	setting, err := h.service.Upsert(c.Request.Context(), c.Param("key"), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(setting))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("key")); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) ListPublic(c *gin.Context) {
	settings, err := h.service.List(c.Request.Context(), true)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}

func (h *Handler) ListAll(c *gin.Context) {
	settings, err := h.service.List(c.Request.Context(), false)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(settings))
}
