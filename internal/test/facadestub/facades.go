// Package facadestub provides hand-written facade stubs for HTTP layer tests.
package facadestub

import (
	"context"
	"time"

	"github.com/polkiloo/safepick/internal/domain/model"
	pkgAuth "github.com/polkiloo/safepick/internal/pkg/auth"
	"github.com/polkiloo/safepick/internal/usecase"
)

// FixedTime is the timestamp stubs stamp on generated entities.
var FixedTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// TokenParserStub resolves every token to Identity or fails with Err.
type TokenParserStub struct {
	Identity *pkgAuth.Identity
	Err      error
}

// ParseToken returns the configured identity.
func (s TokenParserStub) ParseToken(string) (*pkgAuth.Identity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Identity != nil {
		return s.Identity, nil
	}
	return &pkgAuth.Identity{Subject: "guardian-1", Role: model.RoleParent, Kind: pkgAuth.KindSession}, nil
}

// AuthFacadeStub provides controllable behaviour for account endpoints.
type AuthFacadeStub struct {
	RegisterFn     func(context.Context, usecase.RegisterInput) (string, error)
	AuthenticateFn func(context.Context, string, string) (string, error)
	ParseFn        func(string) (*pkgAuth.Identity, error)
}

func (s AuthFacadeStub) Register(ctx context.Context, in usecase.RegisterInput) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, in)
	}
	return "token", nil
}

func (s AuthFacadeStub) Authenticate(ctx context.Context, email, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) ParseToken(token string) (*pkgAuth.Identity, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return TokenParserStub{}.ParseToken(token)
}

// ChildFacadeStub simulates child registry operations.
type ChildFacadeStub struct {
	RegisterFn func(context.Context, string, usecase.ChildInput) (*model.Child, error)
	ListFn     func(context.Context, string) ([]model.Child, error)
	GetFn      func(context.Context, string, string) (*model.Child, error)
}

func (s ChildFacadeStub) RegisterChild(ctx context.Context, guardianID string, in usecase.ChildInput) (*model.Child, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, guardianID, in)
	}
	return &model.Child{ID: "child-1", GuardianID: guardianID, Name: in.Name, Grade: in.Grade, School: in.School, CreatedAt: FixedTime}, nil
}

func (s ChildFacadeStub) Children(ctx context.Context, guardianID string) ([]model.Child, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, guardianID)
	}
	return []model.Child{{ID: "child-1", GuardianID: guardianID, Name: "Luis", CreatedAt: FixedTime}}, nil
}

func (s ChildFacadeStub) Child(ctx context.Context, childID, guardianID string) (*model.Child, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, childID, guardianID)
	}
	return &model.Child{ID: childID, GuardianID: guardianID, Name: "Luis", CreatedAt: FixedTime}, nil
}

// WithdrawalFacadeStub simulates guardian-side order operations.
type WithdrawalFacadeStub struct {
	CreateFn      func(context.Context, string, usecase.CreateOrderInput) (*model.CreatedOrder, error)
	OrdersFn      func(context.Context, string) ([]model.WithdrawalOrder, error)
	OrderFn       func(context.Context, string, string) (*model.OrderSnapshot, error)
	CredentialsFn func(context.Context, string, string) (*model.RecoveredCredentials, error)
	CancelFn      func(context.Context, string, string) (*model.OrderSnapshot, error)
	CompleteFn    func(context.Context, string, usecase.Actor) (*model.CompletionResult, error)
}

func (s WithdrawalFacadeStub) CreateOrder(ctx context.Context, guardianID string, in usecase.CreateOrderInput) (*model.CreatedOrder, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, guardianID, in)
	}
	snapshot := Snapshot(model.OrderStatusValidated)
	snapshot.Order.GuardianID = guardianID
	return &model.CreatedOrder{
		Order:     snapshot.Order,
		Picker:    snapshot.Picker,
		ScanToken: snapshot.Order.ScanToken,
		Code:      "123456",
		ExpiresAt: snapshot.Picker.CodeExpiresAt,
	}, nil
}

func (s WithdrawalFacadeStub) Orders(ctx context.Context, guardianID string) ([]model.WithdrawalOrder, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, guardianID)
	}
	return []model.WithdrawalOrder{Snapshot(model.OrderStatusValidated).Order}, nil
}

func (s WithdrawalFacadeStub) Order(ctx context.Context, orderID, requesterID string) (*model.OrderSnapshot, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, orderID, requesterID)
	}
	snapshot := Snapshot(model.OrderStatusValidated)
	return &snapshot, nil
}

func (s WithdrawalFacadeStub) Credentials(ctx context.Context, orderID, requesterID string) (*model.RecoveredCredentials, error) {
	if s.CredentialsFn != nil {
		return s.CredentialsFn(ctx, orderID, requesterID)
	}
	snapshot := Snapshot(model.OrderStatusValidated)
	return &model.RecoveredCredentials{
		OrderID:   orderID,
		Cedula:    snapshot.Picker.Cedula,
		Code:      "123456",
		ExpiresAt: snapshot.Picker.CodeExpiresAt,
		ScanToken: snapshot.Order.ScanToken,
	}, nil
}

func (s WithdrawalFacadeStub) CancelOrder(ctx context.Context, orderID, requesterID string) (*model.OrderSnapshot, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID, requesterID)
	}
	snapshot := Snapshot(model.OrderStatusCancelled)
	return &snapshot, nil
}

func (s WithdrawalFacadeStub) CompleteOrder(ctx context.Context, orderID string, actor usecase.Actor) (*model.CompletionResult, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, orderID, actor)
	}
	return Completion(), nil
}

// PickerFacadeStub simulates picker authentication.
type PickerFacadeStub struct {
	AuthenticateFn func(context.Context, string, string) (*model.PickerAssertion, error)
	OrderFn        func(context.Context, usecase.Actor) (*model.OrderSnapshot, error)
}

func (s PickerFacadeStub) AuthenticatePicker(ctx context.Context, cedula, code string) (*model.PickerAssertion, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, cedula, code)
	}
	return &model.PickerAssertion{
		Token:        "picker-token",
		CredentialID: "cred-1",
		OrderID:      "order-1",
		Role:         model.RolePicker,
		Temporary:    true,
		ExpiresAt:    FixedTime.Add(15 * time.Minute),
	}, nil
}

func (s PickerFacadeStub) PickerOrder(ctx context.Context, actor usecase.Actor) (*model.OrderSnapshot, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor)
	}
	snapshot := Snapshot(model.OrderStatusValidated)
	return &snapshot, nil
}

// ScanFacadeStub simulates the security desk operations.
type ScanFacadeStub struct {
	VerifyFn   func(context.Context, string) (*model.OrderSnapshot, error)
	CompleteFn func(context.Context, string, string) (*model.CompletionResult, error)
}

func (s ScanFacadeStub) VerifyScanToken(ctx context.Context, token string) (*model.OrderSnapshot, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, token)
	}
	snapshot := Snapshot(model.OrderStatusValidated)
	return &snapshot, nil
}

func (s ScanFacadeStub) CompleteByScan(ctx context.Context, token, staffID string) (*model.CompletionResult, error) {
	if s.CompleteFn != nil {
		return s.CompleteFn(ctx, token, staffID)
	}
	return Completion(), nil
}

// SafePickFacadeStub aggregates the stubs above.
type SafePickFacadeStub struct {
	AuthFacadeStub
	ChildFacadeStub
	WithdrawalFacadeStub
	PickerFacadeStub
	ScanFacadeStub
	HealthErr error
}

func (s SafePickFacadeStub) HealthCheck(context.Context) error {
	return s.HealthErr
}

// Snapshot builds a consistent order view in status.
func Snapshot(status model.OrderStatus) model.OrderSnapshot {
	order := model.WithdrawalOrder{
		ID:         "order-1",
		ChildID:    "child-1",
		GuardianID: "guardian-1",
		Status:     status,
		ScanToken:  "scan-token",
		CreatedAt:  FixedTime,
		UpdatedAt:  FixedTime,
	}
	if status == model.OrderStatusCompleted {
		at := FixedTime.Add(4 * time.Hour)
		order.WithdrawalTimestamp = &at
	}
	return model.OrderSnapshot{
		Order: order,
		Picker: model.PickerCredential{
			ID:            "cred-1",
			OrderID:       order.ID,
			Name:          "Maria Lopez",
			Cedula:        "12345678",
			Phone:         "+58 414 1234567",
			Relationship:  model.RelationshipAunt,
			CodeHash:      "hash:123456",
			CodeCipher:    "v1.nonce.sealed",
			CodeExpiresAt: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
			IsActive:      !status.Terminal(),
			CreatedAt:     FixedTime,
		},
		Child: model.Child{ID: "child-1", GuardianID: "guardian-1", Name: "Luis", Grade: "3A", School: "Escuela Central"},
	}
}

// Completion builds a successful completion result.
func Completion() *model.CompletionResult {
	snapshot := Snapshot(model.OrderStatusCompleted)
	return &model.CompletionResult{
		Snapshot:           snapshot,
		CompletedAt:        *snapshot.Order.WithdrawalTimestamp,
		NotificationQueued: true,
	}
}
