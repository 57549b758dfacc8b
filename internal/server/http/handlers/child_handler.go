package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/server/http/dto"
	"github.com/polkiloo/safepick/internal/usecase"
)

// ChildHandler manages the children of the caller.
type ChildHandler struct {
	facade ChildFacade
}

// NewChildHandler constructs ChildHandler.
func NewChildHandler(facade ChildFacade) *ChildHandler {
	return &ChildHandler{facade: facade}
}

// Register handles POST /api/children.
func (h *ChildHandler) Register(c *gin.Context) {
	var req dto.ChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	child, err := h.facade.RegisterChild(c.Request.Context(), CurrentUserID(c), usecase.ChildInput{
		Name:   req.Name,
		Grade:  req.Grade,
		School: req.School,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toChildResponse(*child))
}

// List handles GET /api/children.
func (h *ChildHandler) List(c *gin.Context) {
	children, err := h.facade.Children(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(children) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.ChildResponse, 0, len(children))
	for _, child := range children {
		resp = append(resp, toChildResponse(child))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/children/:id.
func (h *ChildHandler) Get(c *gin.Context) {
	child, err := h.facade.Child(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toChildResponse(*child))
}

func toChildResponse(child model.Child) dto.ChildResponse {
	return dto.ChildResponse{
		ID:        child.ID,
		Name:      child.Name,
		Grade:     child.Grade,
		School:    child.School,
		CreatedAt: child.CreatedAt,
	}
}
