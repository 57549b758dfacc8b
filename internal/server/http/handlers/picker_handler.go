package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/safepick/internal/server/http/dto"
)

// PickerHandler serves picker login and the picker's own order.
type PickerHandler struct {
	facade PickerFacade
}

// NewPickerHandler constructs PickerHandler.
func NewPickerHandler(facade PickerFacade) *PickerHandler {
	return &PickerHandler{facade: facade}
}

// Login handles POST /api/picker/login.
func (h *PickerHandler) Login(c *gin.Context) {
	var req dto.PickerLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	assertion, err := h.facade.AuthenticatePicker(c.Request.Context(), req.Cedula, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.PickerLoginResponse{
		Token:     assertion.Token,
		OrderID:   assertion.OrderID,
		Role:      string(assertion.Role),
		Temporary: assertion.Temporary,
		ExpiresAt: assertion.ExpiresAt,
	})
}

// Order handles GET /api/picker/order.
func (h *PickerHandler) Order(c *gin.Context) {
	snapshot, err := h.facade.PickerOrder(c.Request.Context(), CurrentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetail(snapshot))
}
