package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotlesscleaning/site-server-go/internal/middleware"
	"github.com/spotlesscleaning/site-server-go/internal/model"
	"github.com/spotlesscleaning/site-server-go/internal/service"
	"github.com/spotlesscleaning/site-server-go/internal/util"
)

type mockContentRepo struct {
	listAllFunc func(ctx context.Context) ([]model.ContentEntry, error)
	upsertFunc  func(ctx context.Context, params model.UpsertContentParams) (*model.ContentEntry, error)
	upsertCalls int
}

func (m *mockContentRepo) ListAll(ctx context.Context) ([]model.ContentEntry, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return []model.ContentEntry{}, nil
}

func (m *mockContentRepo) Upsert(ctx context.Context, params model.UpsertContentParams) (*model.ContentEntry, error) {
	m.upsertCalls++
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, params)
	}
	return &model.ContentEntry{Section: params.Section, Key: params.Key, Value: params.Value, UpdatedAt: time.Now()}, nil
}

// newContentRouter wires the content routes the way the server does,
// including the session guard on writes.
func newContentRouter(t *testing.T, repo *mockContentRepo) (chi.Router, string) {
	t.Helper()

	tokenHash := util.HmacSHA256(testSecret, "valid-token")
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
	authService := service.NewAuthService(userRepo, sessionRepo, testSecret)
	sessionMiddleware := middleware.NewAdminSessionMiddleware(authService)

	contentHandler := NewContentHandler(service.NewContentService(repo, nil))

	r := chi.NewRouter()
	r.Get("/content", contentHandler.List)
	r.Get("/content/fields", contentHandler.Fields)
	r.With(sessionMiddleware.Handler).Put("/content", contentHandler.Update)

	return r, "valid-token"
}

func TestContentHandlerList(t *testing.T) {
	t.Run("returns all entries without authentication", func(t *testing.T) {
		repo := &mockContentRepo{
			listAllFunc: func(ctx context.Context) ([]model.ContentEntry, error) {
				return []model.ContentEntry{
					{Section: "hero", Key: "title", Value: "Hello"},
					{Section: "hours", Key: "sunday", Value: "Closed"},
				}, nil
			},
		}
		r, _ := newContentRouter(t, repo)

		req := httptest.NewRequest(http.MethodGet, "/content", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Content []model.ContentEntry `json:"content"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Content, 2)
		assert.Equal(t, "hero", resp.Content[0].Section)
		assert.Equal(t, "Hello", resp.Content[0].Value)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		repo := &mockContentRepo{
			listAllFunc: func(ctx context.Context) ([]model.ContentEntry, error) {
				return nil, assert.AnError
			},
		}
		r, _ := newContentRouter(t, repo)

		req := httptest.NewRequest(http.MethodGet, "/content", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch content"}`, rec.Body.String())
	})
}

func TestContentHandlerUpdate(t *testing.T) {
	t.Run("authenticated update writes and reports success", func(t *testing.T) {
		repo := &mockContentRepo{}
		r, token := newContentRouter(t, repo)

		body := `{"section":"hero","key":"title","value":"New Headline"}`
		req := httptest.NewRequest(http.MethodPut, "/content", strings.NewReader(body))
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: token})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())
		assert.Equal(t, 1, repo.upsertCalls)
	})

	t.Run("update without session returns 401 and leaves store untouched", func(t *testing.T) {
		repo := &mockContentRepo{}
		r, _ := newContentRouter(t, repo)

		body := `{"section":"hero","key":"title","value":"New Headline"}`
		req := httptest.NewRequest(http.MethodPut, "/content", strings.NewReader(body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())
		assert.Zero(t, repo.upsertCalls)
	})

	t.Run("update with forged cookie returns 401", func(t *testing.T) {
		repo := &mockContentRepo{}
		r, _ := newContentRouter(t, repo)

		body := `{"section":"hero","key":"title","value":"New Headline"}`
		req := httptest.NewRequest(http.MethodPut, "/content", strings.NewReader(body))
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "forged"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Zero(t, repo.upsertCalls)
	})

	t.Run("missing section returns 400", func(t *testing.T) {
		repo := &mockContentRepo{}
		r, token := newContentRouter(t, repo)

		body := `{"key":"title","value":"v"}`
		req := httptest.NewRequest(http.MethodPut, "/content", strings.NewReader(body))
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: token})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, repo.upsertCalls)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		repo := &mockContentRepo{}
		r, token := newContentRouter(t, repo)

		req := httptest.NewRequest(http.MethodPut, "/content", strings.NewReader("{not json"))
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: token})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("store failure returns 500", func(t *testing.T) {
		repo := &mockContentRepo{
			upsertFunc: func(ctx context.Context, params model.UpsertContentParams) (*model.ContentEntry, error) {
				return nil, assert.AnError
			},
		}
		r, token := newContentRouter(t, repo)

		body := `{"section":"hero","key":"title","value":"v"}`
		req := httptest.NewRequest(http.MethodPut, "/content", strings.NewReader(body))
		req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: token})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"Failed to update content"}`, rec.Body.String())
	})
}

func TestContentHandlerFields(t *testing.T) {
	r, _ := newContentRouter(t, &mockContentRepo{})

	req := httptest.NewRequest(http.MethodGet, "/content/fields", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Fields []struct {
			Section string `json:"section"`
			Key     string `json:"key"`
			Label   string `json:"label"`
			Default string `json:"default"`
		} `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Fields)
}
