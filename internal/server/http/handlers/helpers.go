package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/server/http/dto"
	"github.com/polkiloo/safepick/internal/server/http/middleware"
	"github.com/polkiloo/safepick/internal/usecase"
)

// CurrentActor builds the use case actor from the authenticated identity.
func CurrentActor(c *gin.Context) usecase.Actor {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return usecase.Actor{}
	}
	return usecase.Actor{ID: identity.Subject, Role: identity.Role, OrderID: identity.OrderID}
}

// CurrentUserID returns the subject of the authenticated identity.
func CurrentUserID(c *gin.Context) string {
	return CurrentActor(c).ID
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request"})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var validation *domainErrors.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Field: validation.Field, Reason: validation.Reason})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domainErrors.ErrInvalidCredentials),
		errors.Is(err, domainErrors.ErrInvalidCode),
		errors.Is(err, domainErrors.ErrExpired),
		errors.Is(err, domainErrors.ErrDeactivated):
		status = http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrUnauthorized), errors.Is(err, domainErrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainErrors.ErrAlreadyExists), errors.Is(err, domainErrors.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, domainErrors.ErrTamperedToken):
		status = http.StatusUnprocessableEntity
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, dto.ErrorResponse{Error: "internal error"})
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: err.Error()})
}

func toOrderResponse(order model.WithdrawalOrder) dto.OrderResponse {
	return dto.OrderResponse{
		ID:                  order.ID,
		ChildID:             order.ChildID,
		Status:              string(order.Status),
		WithdrawalTimestamp: order.WithdrawalTimestamp,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
}

func toOrderDetail(s *model.OrderSnapshot) dto.OrderDetailResponse {
	return dto.OrderDetailResponse{
		Order: toOrderResponse(s.Order),
		Picker: dto.PickerResponse{
			Name:          s.Picker.Name,
			Cedula:        s.Picker.Cedula,
			Phone:         s.Picker.Phone,
			Relationship:  string(s.Picker.Relationship),
			CodeExpiresAt: s.Picker.CodeExpiresAt,
			IsActive:      s.Picker.IsActive,
		},
		Child: dto.ChildSummary{
			ID:     s.Child.ID,
			Name:   s.Child.Name,
			Grade:  s.Child.Grade,
			School: s.Child.School,
		},
	}
}

func toCompletion(r *model.CompletionResult) dto.CompletionResponse {
	return dto.CompletionResponse{
		OrderID:            r.Snapshot.Order.ID,
		Status:             string(r.Snapshot.Order.Status),
		ChildName:          r.Snapshot.Child.Name,
		PickerName:         r.Snapshot.Picker.Name,
		CompletedAt:        r.CompletedAt,
		NotificationQueued: r.NotificationQueued,
	}
}
