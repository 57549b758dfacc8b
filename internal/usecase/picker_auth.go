package usecase

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/domain/repository"
	"github.com/polkiloo/safepick/internal/metrics"
	pkgAuth "github.com/polkiloo/safepick/internal/pkg/auth"
)

// PickerAuthUseCase authenticates pickers with their one-time code.
type PickerAuthUseCase struct {
	withdrawals repository.WithdrawalRepository
	issuer      CredentialIssuer
	tokens      pkgAuth.Strategy
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	now         func() time.Time
}

// NewPickerAuthUseCase constructs PickerAuthUseCase.
func NewPickerAuthUseCase(
	withdrawals repository.WithdrawalRepository,
	issuer CredentialIssuer,
	tokens pkgAuth.Strategy,
	m *metrics.Metrics,
	tracer trace.Tracer,
) *PickerAuthUseCase {
	return &PickerAuthUseCase{
		withdrawals: withdrawals,
		issuer:      issuer,
		tokens:      tokens,
		metrics:     m,
		tracer:      tracerOrNoop(tracer),
		now:         time.Now,
	}
}

// AuthenticatePicker exchanges cedula and code for an assertion scoped to one order.
func (u *PickerAuthUseCase) AuthenticatePicker(ctx context.Context, cedula, code string) (_ *model.PickerAssertion, err error) {
	ctx, span := startSpan(ctx, u.tracer, "PickerAuth.AuthenticatePicker")
	defer func() {
		u.metrics.ObservePickerLogin(outcome(err))
		endSpan(span, err)
	}()

	credential, err := u.withdrawals.CredentialByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", credential.OrderID))

	if !credential.IsActive {
		return nil, domainErrors.ErrDeactivated
	}
	if credential.Expired(u.now()) {
		return nil, domainErrors.ErrExpired
	}
	if err := u.issuer.Verify(credential.CodeHash, code); err != nil {
		return nil, err
	}

	token, expiresAt, err := u.tokens.IssuePicker(credential.ID, credential.OrderID, credential.CodeExpiresAt)
	if err != nil {
		return nil, err
	}

	return &model.PickerAssertion{
		Token:        token,
		CredentialID: credential.ID,
		OrderID:      credential.OrderID,
		Role:         model.RolePicker,
		Temporary:    true,
		ExpiresAt:    expiresAt,
	}, nil
}
