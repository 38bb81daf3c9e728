package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"tgdrive/internal/domain"
	"tgdrive/internal/domain/models"
)

type fakeVerifier struct{}

func (fakeVerifier) VerifyToken(token string) (*models.OperatorClaims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	c := &models.OperatorClaims{Role: models.OperatorRole}
	c.Subject = "op-1"
	return c, nil
}

func (fakeVerifier) Close() error { return nil }

type fakeTreeService struct {
	trees map[int64]*models.TreeNode
	err   error
	panic bool
}

func (f *fakeTreeService) GetUserTree(_ context.Context, userID int64) (*models.TreeNode, error) {
	if f.panic {
		panic("boom")
	}
	if f.err != nil {
		return nil, f.err
	}
	if t, ok := f.trees[userID]; ok {
		return t, nil
	}
	return &models.TreeNode{UserID: userID, Folders: []*models.FolderTreeNode{}}, nil
}

func newTestRouter(trees *fakeTreeService, ping Pinger) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(
		NewHealthHandler(ping, logger),
		NewTreeHandler(trees, logger),
		fakeVerifier{},
		"http://localhost:3000",
		logger,
	)
}

func do(h http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	ok := newTestRouter(&fakeTreeService{}, func(context.Context) error { return nil })
	if rec := do(ok, http.MethodGet, "/health", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	down := newTestRouter(&fakeTreeService{}, func(context.Context) error { return errors.New("db gone") })
	if rec := do(down, http.MethodGet, "/health", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestTreeRequiresOperatorToken(t *testing.T) {
	h := newTestRouter(&fakeTreeService{}, func(context.Context) error { return nil })

	tests := []struct {
		name  string
		token string
		want  int
	}{
		{name: "no token", token: "", want: http.StatusUnauthorized},
		{name: "bad token", token: "bad", want: http.StatusUnauthorized},
		{name: "good token", token: "good", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, "/api/users/5/tree", tt.token)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestGetTree(t *testing.T) {
	parent := int64(1)
	trees := &fakeTreeService{trees: map[int64]*models.TreeNode{
		42: {UserID: 42, Folders: []*models.FolderTreeNode{{
			ID:   1,
			Name: "Home",
			Folders: []*models.FolderTreeNode{{
				ID: 2, Name: "Docs", ParentID: &parent,
				Folders: []*models.FolderTreeNode{}, Files: []models.FileTreeNode{},
			}},
			Files: []models.FileTreeNode{{ID: 9, Name: "a.pdf", MimeType: "application/pdf", Size: 10}},
		}}},
	}}
	h := newTestRouter(trees, func(context.Context) error { return nil })

	rec := do(h, http.MethodGet, "/api/users/42/tree", "good")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var got models.TreeNode
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Folders) != 1 || got.Folders[0].Name != "Home" {
		t.Fatalf("tree = %+v", got)
	}
	home := got.Folders[0]
	if len(home.Folders) != 1 || home.Folders[0].Name != "Docs" || len(home.Files) != 1 {
		t.Errorf("home = %+v", home)
	}
}

func TestGetTreeErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		trees *fakeTreeService
		want  int
	}{
		{name: "non numeric id", path: "/api/users/abc/tree", trees: &fakeTreeService{}, want: http.StatusBadRequest},
		{name: "store failure", path: "/api/users/1/tree", trees: &fakeTreeService{err: errors.New("disk")}, want: http.StatusInternalServerError},
		{name: "not found", path: "/api/users/1/tree", trees: &fakeTreeService{err: fmt.Errorf("user: %w", domain.ErrNotFound)}, want: http.StatusNotFound},
		{name: "forbidden looks missing", path: "/api/users/1/tree", trees: &fakeTreeService{err: fmt.Errorf("user: %w", domain.ErrForbidden)}, want: http.StatusNotFound},
		{name: "upstream", path: "/api/users/1/tree", trees: &fakeTreeService{err: fmt.Errorf("tg: %w", domain.ErrUpstream)}, want: http.StatusBadGateway},
		{name: "panic", path: "/api/users/1/tree", trees: &fakeTreeService{panic: true}, want: http.StatusInternalServerError},
		{name: "unknown route", path: "/api/users", trees: &fakeTreeService{}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(tt.trees, func(context.Context) error { return nil })
			rec := do(h, http.MethodGet, tt.path, "good")
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCORSPreflightSkipsAuth(t *testing.T) {
	h := newTestRouter(&fakeTreeService{}, func(context.Context) error { return nil })

	req := httptest.NewRequest(http.MethodOptions, "/api/users/1/tree", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code == http.StatusUnauthorized {
		t.Fatal("preflight was rejected by auth")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
