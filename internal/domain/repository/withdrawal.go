package repository

import (
	"context"

	"github.com/polkiloo/safepick/internal/domain/model"
)

// WithdrawalRepository persists withdrawal orders and their picker credentials.
//
// Entities are returned flat; callers resolve the child and guardian by id.
type WithdrawalRepository interface {
	// Create stores the order as PENDING, attaches the credential and then moves the
	// order to VALIDATED with its scan token, all in one transaction.
	Create(ctx context.Context, order *model.WithdrawalOrder, credential *model.PickerCredential) error
	GetByID(ctx context.Context, id string) (*model.WithdrawalOrder, error)
	ListByGuardian(ctx context.Context, guardianID string) ([]model.WithdrawalOrder, error)
	CredentialByOrder(ctx context.Context, orderID string) (*model.PickerCredential, error)
	// CredentialByCedula prefers the active credential, then the most recent one.
	CredentialByCedula(ctx context.Context, cedula string) (*model.PickerCredential, error)
	// Transition locks the order, checks the edge and applies it together with
	// credential deactivation for terminal targets. Returns ErrInvalidState when
	// the edge is not allowed from the current status.
	Transition(ctx context.Context, t model.Transition) (*model.WithdrawalOrder, error)
}
