package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equisecure/internal/model"
	"equisecure/internal/repository"
	"equisecure/internal/service"

	"github.com/golang-jwt/jwt/v5"
)

type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, user *model.User) (string, error) { return "u1", nil }
func (stubUserRepo) GetByID(ctx context.Context, id string) (*model.User, error)  { return nil, nil }
func (stubUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (stubUserRepo) List(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (stubUserRepo) UpdateRole(ctx context.Context, id string, role model.Role) error {
	return nil
}
func (stubUserRepo) SetConsent(ctx context.Context, id string, consented bool) error { return nil }

var _ repository.UserRepo = stubUserRepo{}

func signToken(t *testing.T, secret string, role model.Role) string {
	t.Helper()
	claims := &model.UserClaims{
		UserID: "u1",
		Email:  string(role) + "@stable.example",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRequireUser(t *testing.T) {
	authSvc := service.NewAuthService(stubUserRepo{}, "test-secret")
	mw := NewAuthMiddleware(authSvc)
	token := signToken(t, "test-secret", model.RoleUser)

	var gotUserID string
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		authHeader string
		query      string
		wantStatus int
	}{
		{"valid bearer token", "Bearer " + token, "", http.StatusOK},
		{"token in query param", "", "?token=" + token, http.StatusOK},
		{"missing token", "", "", http.StatusUnauthorized},
		{"malformed header", token, "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", model.RoleUser), "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/"+tt.query, nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotUserID != "u1" {
				t.Errorf("context user id = %q, want u1", gotUserID)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	authSvc := service.NewAuthService(stubUserRepo{}, "test-secret")
	mw := NewAuthMiddleware(authSvc)

	handler := mw.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			t.Error("IsAdmin should be true inside admin handler")
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"admin token", signToken(t, "test-secret", model.RoleAdmin), http.StatusOK},
		{"user token", signToken(t, "test-secret", model.RoleUser), http.StatusForbidden},
		{"no token", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
