package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wastemap/platform-api/internal/api/middleware"
	"github.com/wastemap/platform-api/internal/core/domain"
	"github.com/wastemap/platform-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn      func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn         func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	meFn            func(ctx context.Context, accountID string) (*domain.Account, error)
	requestResetFn  func(ctx context.Context, email string) (string, error)
	operatorResetFn func(ctx context.Context, actor *domain.Account, targetID, newPassword string) (*domain.Account, error)
	changeFn        func(ctx context.Context, accountID, oldPassword, newPassword string) error
	pendingFn       func(ctx context.Context, actor *domain.Account) ([]*domain.Account, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.meFn(ctx, accountID)
}

func (s *stubAuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	return s.requestResetFn(ctx, email)
}

func (s *stubAuthService) OperatorResetPassword(ctx context.Context, actor *domain.Account, targetID, newPassword string) (*domain.Account, error) {
	return s.operatorResetFn(ctx, actor, targetID, newPassword)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	return s.changeFn(ctx, accountID, oldPassword, newPassword)
}

func (s *stubAuthService) PendingResetRequests(ctx context.Context, actor *domain.Account) ([]*domain.Account, error) {
	return s.pendingFn(ctx, actor)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			if in.Name != "Alice" || in.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.ActorRole != "" {
				t.Fatalf("public registration should carry no actor role")
			}
			return &ports.AuthResult{
				Account: &domain.Account{ID: "u1", Name: in.Name, Email: in.Email, Role: domain.RoleCitizen},
				Token:   "token123",
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"secret1"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["role"] != "citizen" {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not appear in responses")
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/register",
		`{"name":"Alice","email":"alice@example.com","password":"abc"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/register",
		`{"name":"Bob","email":"bob@example.com","password":"secret1"}`)

	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{
				Account:            &domain.Account{ID: "u1", Role: domain.RoleWorker, PasswordState: domain.PasswordForcedReset},
				Token:              "token123",
				MustChangePassword: true,
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["must_change_password"] != true {
		t.Fatalf("expected must_change_password flag, got %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"bad-pass"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials error, got %v", err)
	}
}

func TestAuthHandler_RequestReset(t *testing.T) {
	const generic = "If an account with that email exists, a password reset request has been submitted to the administrator."
	stub := &stubAuthService{
		requestResetFn: func(ctx context.Context, email string) (string, error) {
			return generic, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/request-reset",
		`{"email":"ghost@example.com"}`)

	if err := h.RequestReset(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), generic) {
		t.Fatalf("expected generic message, got %s", rec.Body.String())
	}
}

func TestAuthHandler_ChangePassword_NoActor(t *testing.T) {
	stub := &stubAuthService{
		changeFn: func(ctx context.Context, accountID, oldPassword, newPassword string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/auth/change-password",
		`{"old_password":"a","new_password":"secret1"}`)

	err := h.ChangePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	stub := &stubAuthService{
		changeFn: func(ctx context.Context, accountID, oldPassword, newPassword string) error {
			if accountID != "u1" || oldPassword != "old-pass" || newPassword != "new-pass" {
				t.Fatalf("unexpected args: %s %s %s", accountID, oldPassword, newPassword)
			}
			return nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/auth/change-password",
		`{"old_password":"old-pass","new_password":"new-pass"}`)
	c.Set(middleware.ActorKey, &domain.Account{ID: "u1", Role: domain.RoleCitizen})

	if err := h.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_OperatorResetPassword(t *testing.T) {
	actor := &domain.Account{ID: "sa", Role: domain.RoleSuperadmin}
	stub := &stubAuthService{
		operatorResetFn: func(ctx context.Context, got *domain.Account, targetID, newPassword string) (*domain.Account, error) {
			if got.ID != "sa" || targetID != "u2" || newPassword != "temp-pass" {
				t.Fatalf("unexpected args: %s %s %s", got.ID, targetID, newPassword)
			}
			return &domain.Account{ID: "u2", PasswordState: domain.PasswordForcedReset}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/admin/users/u2/reset-password",
		`{"new_password":"temp-pass"}`)
	c.SetParamNames("id")
	c.SetParamValues("u2")
	c.Set(middleware.ActorKey, actor)

	if err := h.OperatorResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "forced_reset") {
		t.Fatalf("expected forced_reset state in response, got %s", rec.Body.String())
	}
}

func TestAuthHandler_PendingResetRequests(t *testing.T) {
	actor := &domain.Account{ID: "sa", Role: domain.RoleSuperadmin}
	stub := &stubAuthService{
		pendingFn: func(ctx context.Context, got *domain.Account) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: domain.RoleCitizen, PasswordState: domain.PasswordPendingReset},
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodGet, "/api/admin/password-reset-requests", "")
	c.Set(middleware.ActorKey, actor)

	if err := h.PendingResetRequests(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total"] != float64(1) {
		t.Fatalf("expected one request, got %+v", resp)
	}
}
