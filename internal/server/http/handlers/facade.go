package handlers

import (
	"context"

	"github.com/polkiloo/safepick/internal/domain/model"
	pkgAuth "github.com/polkiloo/safepick/internal/pkg/auth"
	"github.com/polkiloo/safepick/internal/usecase"
)

// AuthFacade describes account capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, in usecase.RegisterInput) (string, error)
	Authenticate(ctx context.Context, email, password string) (string, error)
	ParseToken(token string) (*pkgAuth.Identity, error)
}

// ChildFacade manages the children of a guardian.
type ChildFacade interface {
	RegisterChild(ctx context.Context, guardianID string, in usecase.ChildInput) (*model.Child, error)
	Children(ctx context.Context, guardianID string) ([]model.Child, error)
	Child(ctx context.Context, childID, guardianID string) (*model.Child, error)
}

// WithdrawalFacade encapsulates guardian-side order operations.
type WithdrawalFacade interface {
	CreateOrder(ctx context.Context, guardianID string, in usecase.CreateOrderInput) (*model.CreatedOrder, error)
	Orders(ctx context.Context, guardianID string) ([]model.WithdrawalOrder, error)
	Order(ctx context.Context, orderID, requesterID string) (*model.OrderSnapshot, error)
	Credentials(ctx context.Context, orderID, requesterID string) (*model.RecoveredCredentials, error)
	CancelOrder(ctx context.Context, orderID, requesterID string) (*model.OrderSnapshot, error)
	CompleteOrder(ctx context.Context, orderID string, actor usecase.Actor) (*model.CompletionResult, error)
}

// PickerFacade authenticates pickers and shows them their order.
type PickerFacade interface {
	AuthenticatePicker(ctx context.Context, cedula, code string) (*model.PickerAssertion, error)
	PickerOrder(ctx context.Context, actor usecase.Actor) (*model.OrderSnapshot, error)
}

// ScanFacade serves the security desk.
type ScanFacade interface {
	VerifyScanToken(ctx context.Context, token string) (*model.OrderSnapshot, error)
	CompleteByScan(ctx context.Context, token, staffID string) (*model.CompletionResult, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// SafePickFacade aggregates the full set of operations used across handlers.
type SafePickFacade interface {
	AuthFacade
	ChildFacade
	WithdrawalFacade
	PickerFacade
	ScanFacade
	HealthFacade
}
