package usecase

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/polkiloo/safepick/internal/domain/model"
	"github.com/polkiloo/safepick/internal/metrics"
	"github.com/polkiloo/safepick/internal/pkg/credential"
	"github.com/polkiloo/safepick/internal/pkg/scantoken"
	testhelpers "github.com/polkiloo/safepick/internal/test"
)

const (
	guardianID    = "guardian-1"
	otherGuardian = "guardian-2"
	childID       = "5b0f1c7e-8a3c-4c7b-9d55-2a6f0f3b1a10"
	otherChildID  = "9d2e6a40-3c1b-4e8f-a7d2-6b5c4e3f2a19"
	staffID       = "staff-1"
	cipherSecret  = "another-example-secret-long-enough-for-hkdf"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	uc       *WithdrawalUseCase
	gateway  *PickerAuthUseCase
	orders   *testhelpers.WithdrawalRepositoryStub
	children *testhelpers.ChildRepositoryStub
	users    *testhelpers.UserRepositoryStub
	notifier *testhelpers.NotifierStub
	metrics  *metrics.Metrics
	spans    *tracetest.SpanRecorder
	clock    *clock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := &clock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	key, err := credential.DeriveKey(cipherSecret)
	require.NoError(t, err)
	issuer, err := credential.NewIssuer(testhelpers.HasherStub{}, key, credential.Options{
		ExpiryHour: credential.DefaultExpiryHour,
		Location:   time.UTC,
		Now:        clk.Now,
	})
	require.NoError(t, err)

	users := testhelpers.NewUserRepositoryStub()
	require.NoError(t, users.Create(context.Background(), &model.User{
		ID: guardianID, Email: "ana@example.com", Name: "Ana", Role: model.RoleParent, TelegramChatID: "777",
	}))
	children := testhelpers.NewChildRepositoryStub(
		model.Child{ID: childID, GuardianID: guardianID, Name: "Luis"},
		model.Child{ID: otherChildID, GuardianID: otherGuardian, Name: "Pia"},
	)
	orders := testhelpers.NewWithdrawalRepositoryStub()
	notifier := &testhelpers.NotifierStub{}
	m := metrics.New()
	spans := tracetest.NewSpanRecorder()
	tracer := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer("usecase-test")

	uc := NewWithdrawalUseCase(WithdrawalParams{
		Withdrawals: orders,
		Children:    children,
		Users:       users,
		Issuer:      issuer,
		Codec:       scantoken.New(),
		Notifier:    notifier,
		Metrics:     m,
		Tracer:      tracer,
		Logger:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
	})
	uc.now = clk.Now

	gateway := NewPickerAuthUseCase(orders, issuer, testhelpers.StrategyStub{}, m, tracer)
	gateway.now = clk.Now

	return &fixture{
		uc:       uc,
		gateway:  gateway,
		orders:   orders,
		children: children,
		users:    users,
		notifier: notifier,
		metrics:  m,
		spans:    spans,
		clock:    clk,
	}
}

func pickerInfo(cedula string) model.PickerInfo {
	return model.PickerInfo{
		Name:         "Maria Lopez",
		Cedula:       cedula,
		Phone:        "+58 414 1234567",
		Relationship: model.RelationshipAunt,
	}
}

func (f *fixture) create(t *testing.T, cedula string) *model.CreatedOrder {
	t.Helper()
	created, err := f.uc.CreateOrder(context.Background(), guardianID, CreateOrderInput{ChildID: childID, Picker: pickerInfo(cedula)})
	require.NoError(t, err)
	return created
}

func (f *fixture) status(t *testing.T, orderID string) model.OrderStatus {
	t.Helper()
	order, err := f.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	return order.Status
}
