package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/server/http/dto"
	"github.com/polkiloo/safepick/internal/usecase"
)

// WithdrawalHandler serves guardian-side order endpoints.
type WithdrawalHandler struct {
	facade WithdrawalFacade
}

// NewWithdrawalHandler constructs WithdrawalHandler.
func NewWithdrawalHandler(facade WithdrawalFacade) *WithdrawalHandler {
	return &WithdrawalHandler{facade: facade}
}

// Create handles POST /api/withdrawals.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	var req dto.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	created, err := h.facade.CreateOrder(c.Request.Context(), CurrentUserID(c), usecase.CreateOrderInput{
		ChildID: req.ChildID,
		Picker: model.PickerInfo{
			Name:         req.PickerName,
			Cedula:       req.PickerCedula,
			Phone:        req.PickerPhone,
			Relationship: model.Relationship(req.Relationship),
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusCreated, dto.CreatedWithdrawalResponse{
		OrderID:   created.Order.ID,
		Status:    string(created.Order.Status),
		ScanToken: created.ScanToken,
		Code:      created.Code,
		ExpiresAt: created.ExpiresAt,
	})
}

// List handles GET /api/withdrawals.
func (h *WithdrawalHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrderResponse(o))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/withdrawals/:id.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	snapshot, err := h.facade.Order(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetail(snapshot))
}

// Credentials handles GET /api/withdrawals/:id/credentials.
func (h *WithdrawalHandler) Credentials(c *gin.Context) {
	creds, err := h.facade.Credentials(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.CredentialsResponse{
		OrderID:   creds.OrderID,
		Cedula:    creds.Cedula,
		Code:      creds.Code,
		ExpiresAt: creds.ExpiresAt,
		ScanToken: creds.ScanToken,
	})
}

// Cancel handles POST /api/withdrawals/:id/cancel.
func (h *WithdrawalHandler) Cancel(c *gin.Context) {
	snapshot, err := h.facade.CancelOrder(c.Request.Context(), c.Param("id"), CurrentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetail(snapshot))
}

// Complete handles POST /api/withdrawals/:id/complete.
func (h *WithdrawalHandler) Complete(c *gin.Context) {
	result, err := h.facade.CompleteOrder(c.Request.Context(), c.Param("id"), CurrentActor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCompletion(result))
}
