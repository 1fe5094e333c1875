package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotlesscleaning/site-server-go/internal/middleware"
	"github.com/spotlesscleaning/site-server-go/internal/model"
	"github.com/spotlesscleaning/site-server-go/internal/service"
	"github.com/spotlesscleaning/site-server-go/internal/util"
)

const testSecret = "test-session-secret"

type mockAdminUserRepo struct {
	findByEmailFunc func(ctx context.Context, email string) (*model.AdminUser, error)
	findByIDFunc    func(ctx context.Context, id string) (*model.AdminUser, error)
}

func (m *mockAdminUserRepo) FindByEmail(ctx context.Context, email string) (*model.AdminUser, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockAdminUserRepo) FindByID(ctx context.Context, id string) (*model.AdminUser, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAdminUserRepo) UpsertByEmail(ctx context.Context, email, passwordHash string) (*model.AdminUser, error) {
	return nil, nil
}

type mockAdminSessionRepo struct {
	findByTokenHashFunc func(ctx context.Context, tokenHash string) (*model.AdminSession, error)
	deletedTokenHashes  []string
}

func (m *mockAdminSessionRepo) FindByTokenHash(ctx context.Context, tokenHash string) (*model.AdminSession, error) {
	if m.findByTokenHashFunc != nil {
		return m.findByTokenHashFunc(ctx, tokenHash)
	}
	return nil, nil
}

func (m *mockAdminSessionRepo) Create(ctx context.Context, params model.CreateAdminSessionParams) (*model.AdminSession, error) {
	return &model.AdminSession{ID: "sess-1", TokenHash: params.TokenHash, UserID: params.UserID, ExpiresAt: params.ExpiresAt}, nil
}

func (m *mockAdminSessionRepo) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	m.deletedTokenHashes = append(m.deletedTokenHashes, tokenHash)
	return nil
}

func (m *mockAdminSessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

func newTestAuthService(t *testing.T, password string) (*service.AuthService, *mockAdminSessionRepo) {
	t.Helper()

	hash, err := util.HashPassword(password)
	require.NoError(t, err)
	admin := &model.AdminUser{ID: "user-1", Email: "admin@example.com", PasswordHash: hash}

	userRepo := &mockAdminUserRepo{
		findByEmailFunc: func(ctx context.Context, email string) (*model.AdminUser, error) {
			if email == admin.Email {
				return admin, nil
			}
			return nil, nil
		},
		findByIDFunc: func(ctx context.Context, id string) (*model.AdminUser, error) {
			if id == admin.ID {
				return admin, nil
			}
			return nil, nil
		},
	}
	sessionRepo := &mockAdminSessionRepo{}

	return service.NewAuthService(userRepo, sessionRepo, testSecret), sessionRepo
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Run("returns identity and sets session cookie on success", func(t *testing.T) {
		authService, _ := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		body := `{"email":"admin@example.com","password":"hunter2hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Success bool `json:"success"`
			User    struct {
				ID    string `json:"id"`
				Email string `json:"email"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "user-1", resp.User.ID)
		assert.Equal(t, "admin@example.com", resp.User.Email)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middleware.AdminSessionCookie, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("wrong password returns 401 with fixed message", func(t *testing.T) {
		authService, _ := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		body := `{"email":"admin@example.com","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("unknown email returns the same 401 body", func(t *testing.T) {
		authService, _ := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		body := `{"email":"nobody@example.com","password":"hunter2hunter2"}`
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		authService, _ := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"admin@example.com"}`))
		rec := httptest.NewRecorder()

		h.Login(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAuthHandlerVerify(t *testing.T) {
	t.Run("valid session reports authenticated with identity", func(t *testing.T) {
		authService, _ := newTestAuthService(t, "hunter2hunter2")
		_, token, err := authService.Login(context.Background(), "admin@example.com", "hunter2hunter2")
		require.NoError(t, err)

		tokenHash := util.HmacSHA256(testSecret, token)
		sessionRepo := &mockAdminSessionRepo{
			findByTokenHashFunc: func(ctx context.Context, h string) (*model.AdminSession, error) {
				if h == tokenHash {
					return &model.AdminSession{ID: "sess-1", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
				}
				return nil, nil
			},
		}
		userRepo := &mockAdminUserRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.AdminUser, error) {
				return &model.AdminUser{ID: "user-1", Email: "admin@example.com"}, nil
			},
		}
		h := NewAuthHandler(service.NewAuthService(userRepo, sessionRepo, testSecret), false)

		req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: token})
		rec := httptest.NewRecorder()

		h.Verify(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Authenticated bool `json:"authenticated"`
			User          struct {
				ID string `json:"id"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Authenticated)
		assert.Equal(t, "user-1", resp.User.ID)
	})

	t.Run("missing cookie reports unauthenticated", func(t *testing.T) {
		authService, _ := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
		rec := httptest.NewRecorder()

		h.Verify(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	})

	t.Run("forged token reports unauthenticated", func(t *testing.T) {
		authService, _ := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		req := httptest.NewRequest(http.MethodGet, "/auth/verify", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "forged"})
		rec := httptest.NewRecorder()

		h.Verify(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())
	})
}

func TestAuthHandlerLogout(t *testing.T) {
	t.Run("deletes session and clears cookie", func(t *testing.T) {
		authService, sessionRepo := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "some-token"})
		rec := httptest.NewRecorder()

		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		assert.Len(t, sessionRepo.deletedTokenHashes, 1)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})

	t.Run("logout without a session still succeeds", func(t *testing.T) {
		authService, sessionRepo := newTestAuthService(t, "hunter2hunter2")
		h := NewAuthHandler(authService, false)

		req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
		rec := httptest.NewRecorder()

		h.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		assert.Empty(t, sessionRepo.deletedTokenHashes)
	})
}
