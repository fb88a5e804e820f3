package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"threadchat/internal/service"
)

// ThreadHandler serves conversations and chat turns.
type ThreadHandler struct {
	svc service.ThreadService
}

// NewThreadHandler creates a thread handler.
func NewThreadHandler(svc service.ThreadService) *ThreadHandler {
	return &ThreadHandler{svc: svc}
}

// ChatRequest is the body of POST /chat. Message length is counted in characters.
type ChatRequest struct {
	Message  string `json:"message" validate:"required,max=1000"`
	ThreadID string `json:"threadId" validate:"omitempty,uuid"`
}

// ChatResponse carries the assistant reply.
type ChatResponse struct {
	Reply    string `json:"reply"`
	ThreadID string `json:"threadId"`
}

// ListThreads godoc
// @Summary List the caller's threads
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Thread
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /thread [get]
func (h *ThreadHandler) ListThreads(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	threads, err := h.svc.ListThreads(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, threads)
}

// GetThread godoc
// @Summary Messages of one thread
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Success 200 {array} model.Message
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /thread/{id} [get]
func (h *ThreadHandler) GetThread(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	msgs, err := h.svc.GetThreadMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// DeleteThread godoc
// @Summary Delete a thread
// @Tags threads
// @Produce json
// @Security BearerAuth
// @Param id path string true "Thread ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /thread/{id} [delete]
func (h *ThreadHandler) DeleteThread(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.svc.DeleteThread(c.Request().Context(), userID, c.Param("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Thread deleted successfully"})
}

// Chat godoc
// @Summary Send a chat message
// @Description Omit threadId to start a new thread.
// @Tags threads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChatRequest true "Chat message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chat [post]
func (h *ThreadHandler) Chat(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequestBody()
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, err)
	}

	reply, err := h.svc.PostChat(c.Request().Context(), userID, req.ThreadID, req.Message)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ChatResponse{Reply: reply.Reply, ThreadID: reply.ThreadID})
}
