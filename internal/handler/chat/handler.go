package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pitstop/pitstop-api/internal/handler"
	"github.com/pitstop/pitstop-api/internal/middleware"
	"github.com/pitstop/pitstop-api/internal/model"
	chatService "github.com/pitstop/pitstop-api/internal/service/chat"
)

type Handler struct {
	service *chatService.Service
}

func NewHandler(service *chatService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	conversations := r.Group("/conversations")
	{
		conversations.POST("", h.StartConversation)
		conversations.GET("", h.ListConversations)
		conversations.GET("/:id", h.GetConversation)
		conversations.POST("/:id/messages", h.SendMessage)
		conversations.GET("/:id/messages", h.ListMessages)
	}

	groups := r.Group("/groups")
	{
		groups.POST("", h.CreateGroup)
		groups.DELETE("/:id", h.DeleteGroup)
		groups.POST("/:id/members/:userId", h.AddMember)
		groups.DELETE("/:id/members/:userId", h.RemoveMember)
		groups.POST("/:id/messages", h.SendGroupMessage)
		groups.GET("/:id/messages", h.ListGroupMessages)
	}
}

func (h *Handler) StartConversation(c *gin.Context) {
	var req model.StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	conv, err := h.service.StartConversation(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(conv))
}

func (h *Handler) GetConversation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid conversation ID"))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	conv, err := h.service.GetConversation(c.Request.Context(), id, userID, middleware.IsAdmin(c))
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(conv))
}

func (h *Handler) ListConversations(c *gin.Context) {
	userID, _ := middleware.UserIDFromContext(c)
	convs, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(convs))
}

func (h *Handler) SendMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid conversation ID"))
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	msg, err := h.service.SendMessage(c.Request.Context(), id, userID, middleware.IsAdmin(c), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(msg))
}

func (h *Handler) ListMessages(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid conversation ID"))
		return
	}

	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	msgs, err := h.service.ListMessages(c.Request.Context(), id, userID, middleware.IsAdmin(c), &p)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(msgs))
}

func (h *Handler) CreateGroup(c *gin.Context) {
	var req model.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	group, err := h.service.CreateGroup(c.Request.Context(), userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(group))
}

func (h *Handler) DeleteGroup(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid group ID"))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	if err := h.service.DeleteGroup(c.Request.Context(), id, userID, middleware.IsAdmin(c)); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AddMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid group ID"))
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	if err := h.service.AddMember(c.Request.Context(), groupID, userID, memberID, middleware.IsAdmin(c)); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) RemoveMember(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid group ID"))
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	if err := h.service.RemoveMember(c.Request.Context(), groupID, userID, memberID, middleware.IsAdmin(c)); err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) SendGroupMessage(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid group ID"))
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	msg, err := h.service.SendGroupMessage(c.Request.Context(), groupID, userID, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(msg))
}

func (h *Handler) ListGroupMessages(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid group ID"))
		return
	}

	var p model.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	userID, _ := middleware.UserIDFromContext(c)
	msgs, err := h.service.ListGroupMessages(c.Request.Context(), groupID, userID, middleware.IsAdmin(c), &p)
	if err != nil {
		handler.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(msgs))
}
