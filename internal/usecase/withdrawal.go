package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/domain/repository"
	"github.com/polkiloo/safepick/internal/metrics"
	"github.com/polkiloo/safepick/internal/pkg/scantoken"
)

// Actor is the caller of an order operation.
type Actor struct {
	ID   string
	Role model.Role
	// OrderID scopes picker assertions to a single order.
	OrderID string
}

// WithdrawalParams lists WithdrawalUseCase dependencies.
type WithdrawalParams struct {
	fx.In

	Withdrawals repository.WithdrawalRepository
	Children    repository.ChildRepository
	Users       repository.UserRepository
	Issuer      CredentialIssuer
	Codec       TokenCodec
	Notifier    Notifier
	Metrics     *metrics.Metrics
	Tracer      trace.Tracer
	Logger      *slog.Logger
}

// WithdrawalUseCase drives the withdrawal order state machine.
type WithdrawalUseCase struct {
	withdrawals repository.WithdrawalRepository
	children    repository.ChildRepository
	users       repository.UserRepository
	issuer      CredentialIssuer
	codec       TokenCodec
	notifier    Notifier
	metrics     *metrics.Metrics
	tracer      trace.Tracer
	logger      *slog.Logger
	now         func() time.Time
}

// NewWithdrawalUseCase constructs WithdrawalUseCase.
func NewWithdrawalUseCase(p WithdrawalParams) *WithdrawalUseCase {
	return &WithdrawalUseCase{
		withdrawals: p.Withdrawals,
		children:    p.Children,
		users:       p.Users,
		issuer:      p.Issuer,
		codec:       p.Codec,
		notifier:    p.Notifier,
		metrics:     p.Metrics,
		tracer:      tracerOrNoop(p.Tracer),
		logger:      p.Logger,
		now:         time.Now,
	}
}

// CreateOrder issues a picker credential and scan token for a child of guardianID.
// The order is persisted as PENDING and moved to VALIDATED in the same call.
func (u *WithdrawalUseCase) CreateOrder(ctx context.Context, guardianID string, in CreateOrderInput) (_ *model.CreatedOrder, err error) {
	ctx, span := startSpan(ctx, u.tracer, "Withdrawal.CreateOrder", attribute.String("guardian.id", guardianID))
	defer func() { endSpan(span, err) }()

	in, err = ValidateCreateOrder(in)
	if err != nil {
		return nil, err
	}

	child, err := ownedChild(ctx, u.children, in.ChildID, guardianID)
	if err != nil {
		return nil, err
	}

	issued, err := u.issuer.Issue()
	if err != nil {
		return nil, fmt.Errorf("issue credential: %w", err)
	}

	now := u.now().UTC().Truncate(time.Microsecond)
	order := &model.WithdrawalOrder{
		ID:         uuid.NewString(),
		ChildID:    child.ID,
		GuardianID: guardianID,
		Status:     model.OrderStatusPending,
		CreatedAt:  now,
	}
	credential := &model.PickerCredential{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		Name:          in.Picker.Name,
		Cedula:        in.Picker.Cedula,
		Phone:         in.Picker.Phone,
		Relationship:  in.Picker.Relationship,
		CodeHash:      issued.Hash,
		CodeCipher:    issued.Cipher,
		CodeExpiresAt: issued.ExpiresAt,
		IsActive:      true,
		CreatedAt:     now,
	}

	token, err := u.codec.Encode(scantoken.PayloadFor(order, child, credential))
	if err != nil {
		return nil, fmt.Errorf("encode scan token: %w", err)
	}
	order.ScanToken = token

	if err := u.withdrawals.Create(ctx, order, credential); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	u.metrics.IncrementOrdersCreated()
	u.metrics.ObserveTransition(string(model.OrderStatusValidated))

	u.notify(ctx, model.Notification{
		Kind:         model.NotificationOrderCreated,
		OrderID:      order.ID,
		GuardianID:   guardianID,
		ChildName:    child.Name,
		PickerName:   credential.Name,
		PickerCedula: credential.Cedula,
		Relationship: credential.Relationship,
		Code:         issued.Code,
		ExpiresAt:    issued.ExpiresAt,
		OccurredAt:   now,
	})

	return &model.CreatedOrder{
		Order:     *order,
		Picker:    *credential,
		ScanToken: token,
		Code:      issued.Code,
		ExpiresAt: issued.ExpiresAt,
	}, nil
}

// GetCredentials recovers the originally issued code for the guardian-of-record.
func (u *WithdrawalUseCase) GetCredentials(ctx context.Context, orderID, requesterID string) (_ *model.RecoveredCredentials, err error) {
	ctx, span := startSpan(ctx, u.tracer, "Withdrawal.GetCredentials", attribute.String("order.id", orderID))
	defer func() { endSpan(span, err) }()

	order, err := u.ownedOrder(ctx, orderID, requesterID)
	if err != nil {
		return nil, err
	}
	if order.Status.Terminal() {
		return nil, domainErrors.ErrInvalidState
	}

	credential, err := u.withdrawals.CredentialByOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	code, err := u.issuer.Recover(credential.CodeCipher)
	if err != nil {
		return nil, err
	}

	return &model.RecoveredCredentials{
		OrderID:   order.ID,
		Cedula:    credential.Cedula,
		Code:      code,
		ExpiresAt: credential.CodeExpiresAt,
		ScanToken: order.ScanToken,
	}, nil
}

// VerifyScanToken resolves and cross-checks a presented scan token.
func (u *WithdrawalUseCase) VerifyScanToken(ctx context.Context, token string) (_ *model.OrderSnapshot, err error) {
	ctx, span := startSpan(ctx, u.tracer, "Withdrawal.VerifyScanToken")
	defer func() { endSpan(span, err) }()

	snapshot, err := u.verify(ctx, token)
	if err != nil {
		u.rejectScan(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", snapshot.Order.ID))
	return snapshot, nil
}

// CompleteByScan verifies token and completes the order on behalf of staffID.
// Of concurrent callers on one order exactly one succeeds; the rest get ErrInvalidState.
func (u *WithdrawalUseCase) CompleteByScan(ctx context.Context, token, staffID string) (_ *model.CompletionResult, err error) {
	ctx, span := startSpan(ctx, u.tracer, "Withdrawal.CompleteByScan", attribute.String("staff.id", staffID))
	defer func() { endSpan(span, err) }()

	snapshot, err := u.verify(ctx, token)
	if err != nil {
		u.rejectScan(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("order.id", snapshot.Order.ID))

	return u.complete(ctx, snapshot, staffID)
}

// CompleteDirect completes an order without a scan. Allowed for admins and for the
// picker whose assertion is scoped to the order.
func (u *WithdrawalUseCase) CompleteDirect(ctx context.Context, orderID string, actor Actor) (_ *model.CompletionResult, err error) {
	ctx, span := startSpan(ctx, u.tracer, "Withdrawal.CompleteDirect",
		attribute.String("order.id", orderID), attribute.String("actor.role", string(actor.Role)))
	defer func() { endSpan(span, err) }()

	switch actor.Role {
	case model.RoleAdmin:
	case model.RolePicker:
		if actor.OrderID != orderID {
			return nil, domainErrors.ErrForbidden
		}
	default:
		return nil, domainErrors.ErrForbidden
	}

	snapshot, err := u.snapshot(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.Role == model.RolePicker && snapshot.Picker.ID != actor.ID {
		return nil, domainErrors.ErrForbidden
	}
	return u.complete(ctx, snapshot, actor.ID)
}

// CancelOrder cancels a non-terminal order owned by requesterID.
func (u *WithdrawalUseCase) CancelOrder(ctx context.Context, orderID, requesterID string) (_ *model.OrderSnapshot, err error) {
	ctx, span := startSpan(ctx, u.tracer, "Withdrawal.CancelOrder", attribute.String("order.id", orderID))
	defer func() { endSpan(span, err) }()

	if _, err := u.ownedOrder(ctx, orderID, requesterID); err != nil {
		return nil, err
	}

	at := u.now().UTC()
	updated, err := u.withdrawals.Transition(ctx, model.Transition{
		OrderID: orderID,
		To:      model.OrderStatusCancelled,
		At:      at,
		ActorID: requesterID,
	})
	if err != nil {
		return nil, err
	}
	u.metrics.ObserveTransition(string(model.OrderStatusCancelled))

	snapshot, err := u.snapshotFor(ctx, updated)
	if err != nil {
		return nil, err
	}
	u.notify(ctx, u.notification(model.NotificationOrderCancelled, snapshot, at))
	return snapshot, nil
}

// GetOrder returns an order of requesterID.
func (u *WithdrawalUseCase) GetOrder(ctx context.Context, orderID, requesterID string) (*model.OrderSnapshot, error) {
	order, err := u.ownedOrder(ctx, orderID, requesterID)
	if err != nil {
		return nil, err
	}
	return u.snapshotFor(ctx, order)
}

// ListOrders returns orders of guardianID, newest first.
func (u *WithdrawalUseCase) ListOrders(ctx context.Context, guardianID string) ([]model.WithdrawalOrder, error) {
	return u.withdrawals.ListByGuardian(ctx, guardianID)
}

// PickerOrder returns the order a picker assertion is scoped to while its credential is usable.
func (u *WithdrawalUseCase) PickerOrder(ctx context.Context, actor Actor) (*model.OrderSnapshot, error) {
	if actor.Role != model.RolePicker || actor.OrderID == "" {
		return nil, domainErrors.ErrForbidden
	}

	snapshot, err := u.snapshot(ctx, actor.OrderID)
	if err != nil {
		return nil, err
	}
	if snapshot.Picker.ID != actor.ID {
		return nil, domainErrors.ErrForbidden
	}
	if !snapshot.Picker.IsActive {
		return nil, domainErrors.ErrDeactivated
	}
	if snapshot.Picker.Expired(u.now()) {
		return nil, domainErrors.ErrExpired
	}
	return snapshot, nil
}

func (u *WithdrawalUseCase) complete(ctx context.Context, snapshot *model.OrderSnapshot, actorID string) (*model.CompletionResult, error) {
	at := u.now().UTC()
	updated, err := u.withdrawals.Transition(ctx, model.Transition{
		OrderID: snapshot.Order.ID,
		To:      model.OrderStatusCompleted,
		At:      at,
		ActorID: actorID,
	})
	if err != nil {
		return nil, err
	}
	u.metrics.ObserveTransition(string(model.OrderStatusCompleted))

	snapshot.Order = *updated
	snapshot.Picker.IsActive = false
	if updated.WithdrawalTimestamp != nil {
		at = *updated.WithdrawalTimestamp
	}

	queued := u.notify(ctx, u.notification(model.NotificationOrderCompleted, snapshot, at))
	return &model.CompletionResult{Snapshot: *snapshot, CompletedAt: at, NotificationQueued: queued}, nil
}

func (u *WithdrawalUseCase) verify(ctx context.Context, token string) (*model.OrderSnapshot, error) {
	payload, err := u.codec.Decode(token)
	if err != nil {
		return nil, domainErrors.ErrTamperedToken
	}

	snapshot, err := u.snapshot(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrTamperedToken
		}
		return nil, err
	}

	if _, err := u.codec.Verify(token, &snapshot.Order, &snapshot.Picker); err != nil {
		return nil, domainErrors.ErrTamperedToken
	}
	return snapshot, nil
}

func (u *WithdrawalUseCase) ownedOrder(ctx context.Context, orderID, requesterID string) (*model.WithdrawalOrder, error) {
	order, err := u.withdrawals.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.GuardianID != requesterID {
		return nil, domainErrors.ErrUnauthorized
	}
	return order, nil
}

func (u *WithdrawalUseCase) snapshot(ctx context.Context, orderID string) (*model.OrderSnapshot, error) {
	order, err := u.withdrawals.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return u.snapshotFor(ctx, order)
}

func (u *WithdrawalUseCase) snapshotFor(ctx context.Context, order *model.WithdrawalOrder) (*model.OrderSnapshot, error) {
	credential, err := u.withdrawals.CredentialByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	child, err := u.children.GetByID(ctx, order.ChildID)
	if err != nil {
		return nil, fmt.Errorf("load child: %w", err)
	}
	return &model.OrderSnapshot{Order: *order, Picker: *credential, Child: *child}, nil
}

func (u *WithdrawalUseCase) notification(kind model.NotificationKind, s *model.OrderSnapshot, at time.Time) model.Notification {
	return model.Notification{
		Kind:         kind,
		OrderID:      s.Order.ID,
		GuardianID:   s.Order.GuardianID,
		ChildName:    s.Child.Name,
		PickerName:   s.Picker.Name,
		PickerCedula: s.Picker.Cedula,
		Relationship: s.Picker.Relationship,
		ExpiresAt:    s.Picker.CodeExpiresAt,
		OccurredAt:   at,
	}
}

// notify resolves the guardian contact and hands n to the notifier. Failures are logged only.
func (u *WithdrawalUseCase) notify(ctx context.Context, n model.Notification) bool {
	if u.notifier == nil {
		return false
	}
	guardian, err := u.users.GetByID(ctx, n.GuardianID)
	if err != nil {
		u.logger.Warn("guardian lookup for notification failed",
			slog.String("order_id", n.OrderID), slog.String("kind", string(n.Kind)), slog.String("error", err.Error()))
		return false
	}
	n.ContactRef = guardian.TelegramChatID
	return u.notifier.Enqueue(n)
}

func (u *WithdrawalUseCase) rejectScan(err error) {
	if errors.Is(err, domainErrors.ErrTamperedToken) {
		u.metrics.ObserveScanRejection("tampered")
		return
	}
	u.metrics.ObserveScanRejection(outcome(err))
}
