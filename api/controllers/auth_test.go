package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rossimission/storefront-backend/api/middleware"
	authsvc "github.com/rossimission/storefront-backend/internal/auth"
	"github.com/rossimission/storefront-backend/internal/users"
	pkgerrors "github.com/rossimission/storefront-backend/pkg/errors"
)

type stubAuthService struct {
	resp         *authsvc.AuthResponse
	err          error
	revokedID    string
	lastRegister authsvc.RegisterRequest
}

func (s *stubAuthService) Register(ctx context.Context, req authsvc.RegisterRequest) (*authsvc.AuthResponse, error) {
	s.lastRegister = req
	return s.resp, s.err
}

func (s *stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req authsvc.RefreshRequest) (*authsvc.AuthResponse, error) {
	return s.resp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.revokedID = accessID
	return s.err
}

func TestAuthRegisterCreated(t *testing.T) {
	svc := &stubAuthService{resp: &authsvc.AuthResponse{
		AccessToken:  "token",
		RefreshToken: "refresh",
		User:         &users.UserDTO{Email: "shopper@example.com"},
	}}
	handler := AuthRegister(svc, nil)

	body := `{"first_name":"Sam","last_name":"Rivera","email":"shopper@example.com","password":"sup3rsecret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastRegister.Email != "shopper@example.com" {
		t.Fatalf("unexpected email: %s", svc.lastRegister.Email)
	}
}

func TestAuthRegisterRejectsShortPassword(t *testing.T) {
	handler := AuthRegister(&stubAuthService{}, nil)

	body := `{"first_name":"Sam","last_name":"Rivera","email":"shopper@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(svc, nil)

	body := `{"email":"shopper@example.com","password":"wrongwrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshSuccess(t *testing.T) {
	svc := &stubAuthService{resp: &authsvc.AuthResponse{AccessToken: "new", RefreshToken: "rotated"}}
	handler := AuthRefresh(svc, nil)

	body := `{"access_token":"expired","refresh_token":"current"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesContextSession(t *testing.T) {
	svc := &stubAuthService{}
	handler := AuthLogout(svc, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req = req.WithContext(middleware.WithAccessID(req.Context(), "access-123"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.revokedID != "access-123" {
		t.Fatalf("unexpected revoked id: %s", svc.revokedID)
	}
}

func TestAuthLogoutWithoutToken(t *testing.T) {
	handler := AuthLogout(&stubAuthService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
