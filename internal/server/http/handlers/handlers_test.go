package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/safepick/internal/domain/errors"
	"github.com/polkiloo/safepick/internal/domain/model"
	pkgAuth "github.com/polkiloo/safepick/internal/pkg/auth"
	"github.com/polkiloo/safepick/internal/server/http/dto"
	"github.com/polkiloo/safepick/internal/server/http/middleware"
	testhelpers "github.com/polkiloo/safepick/internal/test"
	"github.com/polkiloo/safepick/internal/test/facadestub"
	"github.com/polkiloo/safepick/internal/usecase"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, path, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func as(identity *pkgAuth.Identity) func(*gin.Context) {
	return func(c *gin.Context) {
		c.Set(middleware.IdentityContextKey, identity)
	}
}

func asGuardian() func(*gin.Context) {
	return as(&pkgAuth.Identity{Subject: "guardian-1", Role: model.RoleParent, Kind: pkgAuth.KindSession})
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode response %q: %v", resp.Body.String(), err)
	}
	return out
}

func TestCurrentActor(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentActor(c); got != (usecase.Actor{}) {
		t.Fatalf("expected empty actor when not set, got %+v", got)
	}

	c.Set(middleware.IdentityContextKey, &pkgAuth.Identity{Subject: "cred-1", Role: model.RolePicker, OrderID: "order-1", Kind: pkgAuth.KindPicker})
	want := usecase.Actor{ID: "cred-1", Role: model.RolePicker, OrderID: "order-1"}
	if got := CurrentActor(c); got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if got := CurrentUserID(c); got != "cred-1" {
		t.Fatalf("expected cred-1, got %q", got)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{err: domainErrors.NewValidationError("pickerCedula", "must be 8 to 13 digits"), status: http.StatusBadRequest},
		{err: domainErrors.ErrInvalidCredentials, status: http.StatusUnauthorized},
		{err: domainErrors.ErrInvalidCode, status: http.StatusUnauthorized},
		{err: domainErrors.ErrExpired, status: http.StatusUnauthorized},
		{err: domainErrors.ErrDeactivated, status: http.StatusUnauthorized},
		{err: domainErrors.ErrUnauthorized, status: http.StatusForbidden},
		{err: domainErrors.ErrForbidden, status: http.StatusForbidden},
		{err: domainErrors.ErrNotFound, status: http.StatusNotFound},
		{err: domainErrors.ErrAlreadyExists, status: http.StatusConflict},
		{err: domainErrors.ErrInvalidState, status: http.StatusConflict},
		{err: domainErrors.ErrTamperedToken, status: http.StatusUnprocessableEntity},
		{err: domainErrors.ErrCorruptCredential, status: http.StatusInternalServerError},
		{err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/", func(c *gin.Context) { writeError(c, tt.err) }, nil, nil, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}

	resp := performRequest(t, http.MethodGet, "/", func(c *gin.Context) {
		writeError(c, domainErrors.NewValidationError("pickerCedula", "must be 8 to 13 digits"))
	}, nil, nil, nil)
	body := decode[dto.ErrorResponse](t, resp)
	if body.Field != "pickerCedula" || body.Reason == "" {
		t.Fatalf("expected field details, got %+v", body)
	}

	resp = performRequest(t, http.MethodGet, "/", func(c *gin.Context) { writeError(c, errors.New("pq: secret detail")) }, nil, nil, nil)
	if body := decode[dto.ErrorResponse](t, resp); body.Error != "internal error" {
		t.Fatalf("internal errors must not leak, got %+v", body)
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	email := testhelpers.RandomEmail()
	body, _ := json.Marshal(dto.RegisterRequest{Email: email, Password: "Str0ng!Passw0rd", Name: "Ana Perez", TelegramChatID: "777"})
	handler := NewAuthHandler(facadestub.AuthFacadeStub{RegisterFn: func(_ context.Context, in usecase.RegisterInput) (string, error) {
		if in.Email != email || in.TelegramChatID != "777" {
			t.Fatalf("unexpected input passed to facade: %+v", in)
		}
		return "session-token", nil
	}})
	resp := performRequest(t, http.MethodPost, "/register", handler.Register, nil, body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if resp.Header().Get("Authorization") != "Bearer session-token" {
		t.Fatalf("unexpected authorization header %q", resp.Header().Get("Authorization"))
	}
	if got := decode[dto.TokenResponse](t, resp); got.Token != "session-token" {
		t.Fatalf("unexpected token %q", got.Token)
	}
}

func TestAuthHandlerRegisterFailures(t *testing.T) {
	tests := []struct {
		name   string
		facade facadestub.AuthFacadeStub
		body   []byte
		status int
	}{
		{name: "bad json", body: []byte("not json"), status: http.StatusBadRequest},
		{name: "validation", body: []byte(`{"email":"x"}`), facade: facadestub.AuthFacadeStub{RegisterFn: func(context.Context, usecase.RegisterInput) (string, error) {
			return "", domainErrors.NewValidationError("email", "invalid email address")
		}}, status: http.StatusBadRequest},
		{name: "already exists", body: []byte(`{"email":"a@b.c"}`), facade: facadestub.AuthFacadeStub{RegisterFn: func(context.Context, usecase.RegisterInput) (string, error) {
			return "", domainErrors.ErrAlreadyExists
		}}, status: http.StatusConflict},
		{name: "internal", body: []byte(`{"email":"a@b.c"}`), facade: facadestub.AuthFacadeStub{RegisterFn: func(context.Context, usecase.RegisterInput) (string, error) {
			return "", errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodPost, "/register", NewAuthHandler(tt.facade).Register, nil, tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	body, _ := json.Marshal(dto.LoginRequest{Email: "ana@example.com", Password: "pass"})
	resp := performRequest(t, http.MethodPost, "/login", NewAuthHandler(facadestub.AuthFacadeStub{}).Login, nil, body, jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	failing := NewAuthHandler(facadestub.AuthFacadeStub{AuthenticateFn: func(context.Context, string, string) (string, error) {
		return "", domainErrors.ErrInvalidCredentials
	}})
	resp = performRequest(t, http.MethodPost, "/login", failing.Login, nil, body, jsonHeaders)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/login", failing.Login, nil, []byte("{"), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestChildHandler(t *testing.T) {
	var gotGuardian string
	handler := NewChildHandler(facadestub.ChildFacadeStub{RegisterFn: func(_ context.Context, guardianID string, in usecase.ChildInput) (*model.Child, error) {
		gotGuardian = guardianID
		return &model.Child{ID: "child-1", Name: in.Name, Grade: in.Grade}, nil
	}})
	resp := performRequest(t, http.MethodPost, "/children", handler.Register, asGuardian(), []byte(`{"name":"Luis","grade":"3A"}`), jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if gotGuardian != "guardian-1" {
		t.Fatalf("expected child registered under caller, got %q", gotGuardian)
	}
	if got := decode[dto.ChildResponse](t, resp); got.Name != "Luis" || got.Grade != "3A" {
		t.Fatalf("unexpected child %+v", got)
	}

	resp = performRequest(t, http.MethodGet, "/children", NewChildHandler(facadestub.ChildFacadeStub{}).List, asGuardian(), nil, nil)
	if resp.Code != http.StatusOK || len(decode[[]dto.ChildResponse](t, resp)) != 1 {
		t.Fatalf("expected one child, got %d %s", resp.Code, resp.Body.String())
	}

	empty := NewChildHandler(facadestub.ChildFacadeStub{ListFn: func(context.Context, string) ([]model.Child, error) { return nil, nil }})
	resp = performRequest(t, http.MethodGet, "/children", empty.List, asGuardian(), nil, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestChildHandlerGet(t *testing.T) {
	var requested string
	h := NewChildHandler(facadestub.ChildFacadeStub{GetFn: func(_ context.Context, childID, guardianID string) (*model.Child, error) {
		requested = childID + "/" + guardianID
		switch childID {
		case "child-1":
			return &model.Child{ID: childID, GuardianID: guardianID, Name: "Luis", Grade: "3A"}, nil
		case "child-2":
			return nil, domainErrors.ErrUnauthorized
		}
		return nil, domainErrors.ErrNotFound
	}})
	router := gin.New()
	router.Use(asGuardian())
	router.GET("/children/:id", h.Get)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/children/child-1", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d %s", resp.Code, resp.Body.String())
	}
	if got := decode[dto.ChildResponse](t, resp); got.ID != "child-1" || got.Grade != "3A" {
		t.Fatalf("unexpected child %+v", got)
	}
	if requested != "child-1/guardian-1" {
		t.Fatalf("expected lookup scoped to caller, got %q", requested)
	}

	cases := []struct {
		path   string
		status int
	}{
		{"/children/child-2", http.StatusForbidden},
		{"/children/missing", http.StatusNotFound},
	}
	for _, tc := range cases {
		resp = httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if resp.Code != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.path, tc.status, resp.Code)
		}
	}
}

func TestWithdrawalHandlerCreate(t *testing.T) {
	var got usecase.CreateOrderInput
	handler := NewWithdrawalHandler(facadestub.WithdrawalFacadeStub{CreateFn: func(ctx context.Context, guardianID string, in usecase.CreateOrderInput) (*model.CreatedOrder, error) {
		got = in
		return facadestub.WithdrawalFacadeStub{}.CreateOrder(ctx, guardianID, in)
	}})
	body, _ := json.Marshal(dto.CreateWithdrawalRequest{
		ChildID:      "5b0f1c7e-8a3c-4c7b-9d55-2a6f0f3b1a10",
		PickerName:   "Maria Lopez",
		PickerCedula: "12345678",
		PickerPhone:  "+58 414 1234567",
		Relationship: "aunt",
	})
	resp := performRequest(t, http.MethodPost, "/withdrawals", handler.Create, asGuardian(), body, jsonHeaders)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if got.Picker.Relationship != model.RelationshipAunt || got.Picker.Cedula != "12345678" {
		t.Fatalf("unexpected picker passed to facade: %+v", got.Picker)
	}
	if resp.Header().Get("Cache-Control") != "no-store" {
		t.Fatal("expected created credentials to be marked no-store")
	}
	created := decode[dto.CreatedWithdrawalResponse](t, resp)
	if created.Code != "123456" || created.Status != "VALIDATED" || created.ScanToken == "" {
		t.Fatalf("unexpected response %+v", created)
	}
}

func TestWithdrawalHandlerFailures(t *testing.T) {
	tests := []struct {
		name    string
		facade  facadestub.WithdrawalFacadeStub
		method  string
		handler func(*WithdrawalHandler) gin.HandlerFunc
		body    []byte
		status  int
	}{
		{name: "create bad json", method: http.MethodPost, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.Create }, body: []byte("{"), status: http.StatusBadRequest},
		{name: "create foreign child", method: http.MethodPost, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.Create }, body: []byte(`{}`),
			facade: facadestub.WithdrawalFacadeStub{CreateFn: func(context.Context, string, usecase.CreateOrderInput) (*model.CreatedOrder, error) {
				return nil, domainErrors.ErrUnauthorized
			}}, status: http.StatusForbidden},
		{name: "create duplicate cedula", method: http.MethodPost, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.Create }, body: []byte(`{}`),
			facade: facadestub.WithdrawalFacadeStub{CreateFn: func(context.Context, string, usecase.CreateOrderInput) (*model.CreatedOrder, error) {
				return nil, domainErrors.ErrAlreadyExists
			}}, status: http.StatusConflict},
		{name: "get missing", method: http.MethodGet, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.Get },
			facade: facadestub.WithdrawalFacadeStub{OrderFn: func(context.Context, string, string) (*model.OrderSnapshot, error) {
				return nil, domainErrors.ErrNotFound
			}}, status: http.StatusNotFound},
		{name: "credentials of cancelled order", method: http.MethodGet, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.Credentials },
			facade: facadestub.WithdrawalFacadeStub{CredentialsFn: func(context.Context, string, string) (*model.RecoveredCredentials, error) {
				return nil, domainErrors.ErrInvalidState
			}}, status: http.StatusConflict},
		{name: "cancel terminal", method: http.MethodPost, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.Cancel },
			facade: facadestub.WithdrawalFacadeStub{CancelFn: func(context.Context, string, string) (*model.OrderSnapshot, error) {
				return nil, domainErrors.ErrInvalidState
			}}, status: http.StatusConflict},
		{name: "complete forbidden", method: http.MethodPost, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.Complete },
			facade: facadestub.WithdrawalFacadeStub{CompleteFn: func(context.Context, string, usecase.Actor) (*model.CompletionResult, error) {
				return nil, domainErrors.ErrForbidden
			}}, status: http.StatusForbidden},
		{name: "list internal", method: http.MethodGet, handler: func(h *WithdrawalHandler) gin.HandlerFunc { return h.List },
			facade: facadestub.WithdrawalFacadeStub{OrdersFn: func(context.Context, string) ([]model.WithdrawalOrder, error) {
				return nil, errors.New("boom")
			}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWithdrawalHandler(tt.facade)
			resp := performRequest(t, tt.method, "/withdrawals", tt.handler(h), asGuardian(), tt.body, jsonHeaders)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestWithdrawalHandlerReads(t *testing.T) {
	router := gin.New()
	router.Use(asGuardian())
	var requested []string
	h := NewWithdrawalHandler(facadestub.WithdrawalFacadeStub{
		OrderFn: func(_ context.Context, orderID, requesterID string) (*model.OrderSnapshot, error) {
			requested = append(requested, orderID+"/"+requesterID)
			snapshot := facadestub.Snapshot(model.OrderStatusValidated)
			return &snapshot, nil
		},
	})
	router.GET("/withdrawals", h.List)
	router.GET("/withdrawals/:id", h.Get)
	router.GET("/withdrawals/:id/credentials", h.Credentials)
	router.POST("/withdrawals/:id/cancel", h.Cancel)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/withdrawals", nil))
	if resp.Code != http.StatusOK || len(decode[[]dto.OrderResponse](t, resp)) != 1 {
		t.Fatalf("unexpected list response %d %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/withdrawals/order-1", nil))
	detail := decode[dto.OrderDetailResponse](t, resp)
	if detail.Picker.Name != "Maria Lopez" || detail.Child.Name != "Luis" || !detail.Picker.IsActive {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if len(requested) != 1 || requested[0] != "order-1/guardian-1" {
		t.Fatalf("unexpected facade calls %v", requested)
	}
	if bytes.Contains(resp.Body.Bytes(), []byte("hash:")) || bytes.Contains(resp.Body.Bytes(), []byte("v1.")) {
		t.Fatalf("order detail must not expose code hash or cipher: %s", resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/withdrawals/order-1/credentials", nil))
	creds := decode[dto.CredentialsResponse](t, resp)
	if creds.Code != "123456" || creds.OrderID != "order-1" {
		t.Fatalf("unexpected credentials %+v", creds)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/withdrawals/order-1/cancel", nil))
	if got := decode[dto.OrderDetailResponse](t, resp); got.Order.Status != "CANCELLED" || got.Picker.IsActive {
		t.Fatalf("unexpected cancel response %+v", got)
	}
}

func TestWithdrawalHandlerCompletePassesActor(t *testing.T) {
	var gotActor usecase.Actor
	var gotOrder string
	handler := NewWithdrawalHandler(facadestub.WithdrawalFacadeStub{CompleteFn: func(_ context.Context, orderID string, actor usecase.Actor) (*model.CompletionResult, error) {
		gotOrder, gotActor = orderID, actor
		return facadestub.Completion(), nil
	}})

	router := gin.New()
	router.Use(as(&pkgAuth.Identity{Subject: "cred-1", Role: model.RolePicker, OrderID: "order-1", Kind: pkgAuth.KindPicker}))
	router.POST("/withdrawals/:id/complete", handler.Complete)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/withdrawals/order-1/complete", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotOrder != "order-1" || gotActor.Role != model.RolePicker || gotActor.OrderID != "order-1" || gotActor.ID != "cred-1" {
		t.Fatalf("unexpected actor %+v for %q", gotActor, gotOrder)
	}
	if got := decode[dto.CompletionResponse](t, resp); got.Status != "COMPLETED" || !got.NotificationQueued {
		t.Fatalf("unexpected completion %+v", got)
	}
}

func TestPickerHandlerLogin(t *testing.T) {
	cedula := testhelpers.RandomCedula()
	var gotCedula, gotCode string
	handler := NewPickerHandler(facadestub.PickerFacadeStub{AuthenticateFn: func(ctx context.Context, cedula, code string) (*model.PickerAssertion, error) {
		gotCedula, gotCode = cedula, code
		return facadestub.PickerFacadeStub{}.AuthenticatePicker(ctx, cedula, code)
	}})
	resp := performRequest(t, http.MethodPost, "/login", handler.Login, nil, []byte(`{"cedula":"`+cedula+`","code":"123456"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if gotCedula != cedula || gotCode != "123456" {
		t.Fatalf("unexpected credentials %q %q", gotCedula, gotCode)
	}
	got := decode[dto.PickerLoginResponse](t, resp)
	if got.Role != "PICKER" || !got.Temporary || got.OrderID != "order-1" {
		t.Fatalf("unexpected assertion %+v", got)
	}

	for _, err := range []error{domainErrors.ErrExpired, domainErrors.ErrDeactivated, domainErrors.ErrInvalidCode, domainErrors.ErrNotFound} {
		failing := NewPickerHandler(facadestub.PickerFacadeStub{AuthenticateFn: func(context.Context, string, string) (*model.PickerAssertion, error) {
			return nil, err
		}})
		resp := performRequest(t, http.MethodPost, "/login", failing.Login, nil, []byte(`{"cedula":"12345678","code":"123456"}`), jsonHeaders)
		if resp.Code < 400 || resp.Code >= 500 {
			t.Fatalf("expected client error for %v, got %d", err, resp.Code)
		}
	}
}

func TestPickerHandlerOrder(t *testing.T) {
	var got usecase.Actor
	handler := NewPickerHandler(facadestub.PickerFacadeStub{OrderFn: func(_ context.Context, actor usecase.Actor) (*model.OrderSnapshot, error) {
		got = actor
		snapshot := facadestub.Snapshot(model.OrderStatusValidated)
		return &snapshot, nil
	}})
	setup := as(&pkgAuth.Identity{Subject: "cred-1", Role: model.RolePicker, OrderID: "order-1", Kind: pkgAuth.KindPicker})
	resp := performRequest(t, http.MethodGet, "/order", handler.Order, setup, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if got.OrderID != "order-1" {
		t.Fatalf("expected actor scoped to order-1, got %+v", got)
	}
}

func TestScanHandler(t *testing.T) {
	var gotStaff string
	handler := NewScanHandler(facadestub.ScanFacadeStub{CompleteFn: func(_ context.Context, token, staffID string) (*model.CompletionResult, error) {
		gotStaff = staffID
		return facadestub.Completion(), nil
	}})
	staff := as(&pkgAuth.Identity{Subject: "staff-1", Role: model.RoleStaff, Kind: pkgAuth.KindSession})

	resp := performRequest(t, http.MethodPost, "/verify", handler.Verify, staff, []byte(`{"token":"scan-token"}`), jsonHeaders)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodPost, "/complete", handler.Complete, staff, []byte(`{"token":"scan-token"}`), jsonHeaders)
	if resp.Code != http.StatusOK || gotStaff != "staff-1" {
		t.Fatalf("expected completion by staff-1, got %d %q", resp.Code, gotStaff)
	}

	resp = performRequest(t, http.MethodPost, "/verify", handler.Verify, staff, []byte(`{"token":"  "}`), jsonHeaders)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for blank token, got %d", resp.Code)
	}

	tampered := NewScanHandler(facadestub.ScanFacadeStub{
		VerifyFn: func(context.Context, string) (*model.OrderSnapshot, error) {
			return nil, domainErrors.ErrTamperedToken
		},
		CompleteFn: func(context.Context, string, string) (*model.CompletionResult, error) {
			return nil, domainErrors.ErrInvalidState
		},
	})
	resp = performRequest(t, http.MethodPost, "/verify", tampered.Verify, staff, []byte(`{"token":"x"}`), jsonHeaders)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", resp.Code)
	}
	resp = performRequest(t, http.MethodPost, "/complete", tampered.Complete, staff, []byte(`{"token":"x"}`), jsonHeaders)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for repeated completion, got %d", resp.Code)
	}
}

func TestHealth(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", Health(facadestub.SafePickFacadeStub{}), nil, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/healthz", Health(facadestub.SafePickFacadeStub{HealthErr: errors.New("db down")}), nil, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

var _ SafePickFacade = facadestub.SafePickFacadeStub{}
