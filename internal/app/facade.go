package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/polkiloo/safepick/internal/domain/model"
	pkgAuth "github.com/polkiloo/safepick/internal/pkg/auth"
	"github.com/polkiloo/safepick/internal/usecase"
)

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SafePickFacade exposes use cases to the HTTP layer.
type SafePickFacade struct {
	auth        *usecase.AuthUseCase
	children    *usecase.ChildUseCase
	pickers     *usecase.PickerAuthUseCase
	withdrawals *usecase.WithdrawalUseCase
	checks      map[string]HealthChecker
}

func NewSafePickFacade(
	auth *usecase.AuthUseCase,
	children *usecase.ChildUseCase,
	pickers *usecase.PickerAuthUseCase,
	withdrawals *usecase.WithdrawalUseCase,
	checks map[string]HealthChecker,
) *SafePickFacade {
	return &SafePickFacade{
		auth:        auth,
		children:    children,
		pickers:     pickers,
		withdrawals: withdrawals,
		checks:      checks,
	}
}

func (f *SafePickFacade) Register(ctx context.Context, in usecase.RegisterInput) (string, error) {
	_, token, err := f.auth.Register(ctx, in)
	return token, err
}

func (f *SafePickFacade) Authenticate(ctx context.Context, email, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, email, password)
	return token, err
}

func (f *SafePickFacade) ParseToken(token string) (*pkgAuth.Identity, error) {
	return f.auth.ParseToken(token)
}

func (f *SafePickFacade) RegisterChild(ctx context.Context, guardianID string, in usecase.ChildInput) (*model.Child, error) {
	return f.children.Register(ctx, guardianID, in)
}

func (f *SafePickFacade) Children(ctx context.Context, guardianID string) ([]model.Child, error) {
	return f.children.List(ctx, guardianID)
}

func (f *SafePickFacade) Child(ctx context.Context, childID, guardianID string) (*model.Child, error) {
	return f.children.Get(ctx, childID, guardianID)
}

func (f *SafePickFacade) CreateOrder(ctx context.Context, guardianID string, in usecase.CreateOrderInput) (*model.CreatedOrder, error) {
	return f.withdrawals.CreateOrder(ctx, guardianID, in)
}

func (f *SafePickFacade) Orders(ctx context.Context, guardianID string) ([]model.WithdrawalOrder, error) {
	return f.withdrawals.ListOrders(ctx, guardianID)
}

func (f *SafePickFacade) Order(ctx context.Context, orderID, requesterID string) (*model.OrderSnapshot, error) {
	return f.withdrawals.GetOrder(ctx, orderID, requesterID)
}

func (f *SafePickFacade) Credentials(ctx context.Context, orderID, requesterID string) (*model.RecoveredCredentials, error) {
	return f.withdrawals.GetCredentials(ctx, orderID, requesterID)
}

func (f *SafePickFacade) CancelOrder(ctx context.Context, orderID, requesterID string) (*model.OrderSnapshot, error) {
	return f.withdrawals.CancelOrder(ctx, orderID, requesterID)
}

func (f *SafePickFacade) CompleteOrder(ctx context.Context, orderID string, actor usecase.Actor) (*model.CompletionResult, error) {
	return f.withdrawals.CompleteDirect(ctx, orderID, actor)
}

func (f *SafePickFacade) AuthenticatePicker(ctx context.Context, cedula, code string) (*model.PickerAssertion, error) {
	return f.pickers.AuthenticatePicker(ctx, cedula, code)
}

func (f *SafePickFacade) PickerOrder(ctx context.Context, actor usecase.Actor) (*model.OrderSnapshot, error) {
	return f.withdrawals.PickerOrder(ctx, actor)
}

func (f *SafePickFacade) VerifyScanToken(ctx context.Context, token string) (*model.OrderSnapshot, error) {
	return f.withdrawals.VerifyScanToken(ctx, token)
}

func (f *SafePickFacade) CompleteByScan(ctx context.Context, token, staffID string) (*model.CompletionResult, error) {
	return f.withdrawals.CompleteByScan(ctx, token, staffID)
}

// HealthCheck pings every backing service concurrently and reports the first failure.
func (f *SafePickFacade) HealthCheck(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for name, check := range f.checks {
		g.Go(func() error {
			if err := check.HealthCheck(ctx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
