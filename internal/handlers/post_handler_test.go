package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/nano-midea/postdir/internal/directory"
	"github.com/anonto42/nano-midea/postdir/internal/fixture"
	"github.com/anonto42/nano-midea/postdir/internal/models"
	"github.com/labstack/echo/v4"
)

func setupPostRoutes(t *testing.T) *echo.Echo {
	t.Helper()
	records, err := fixture.Posts()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
	dir, err := directory.New(records)
	if err != nil {
		t.Fatalf("directory: %v", err)
	}

	e := echo.New()
	NewPostHandler(dir).RegisterPostRoutes(e.Group("/api/v1"))
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGetUserPost_Found(t *testing.T) {
	e := setupPostRoutes(t)

	rec := get(e, "/api/v1/users/3/post")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got models.PostRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Post.Caption != "Alice's day out in the city" || len(got.Pictures) != 1 || got.Pictures[0].Order != 1 {
		t.Errorf("unexpected record %+v", got)
	}
}

func TestGetUserPost_EmptyMedia(t *testing.T) {
	e := setupPostRoutes(t)

	rec := get(e, "/api/v1/users/5/post")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(raw["pictures"]) != "[]" {
		t.Errorf("expected empty pictures array, got %s", raw["pictures"])
	}
}

func TestGetUserPost_NotFound(t *testing.T) {
	e := setupPostRoutes(t)

	rec := get(e, "/api/v1/users/99/post")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["message"] != "Post not found" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestGetUserPost_InvalidID(t *testing.T) {
	e := setupPostRoutes(t)

	for _, path := range []string{"/api/v1/users/abc/post", "/api/v1/users/1.5/post"} {
		if rec := get(e, path); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}

func TestGetUserPost_NegativeID(t *testing.T) {
	e := setupPostRoutes(t)

	if rec := get(e, "/api/v1/users/-1/post"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestGetPosts(t *testing.T) {
	e := setupPostRoutes(t)

	rec := get(e, "/api/v1/posts")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []models.PostRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 posts, got %d", len(got))
	}
	for i, r := range got {
		if r.Post.PostID != int64(i+1) {
			t.Errorf("position %d holds post %d", i, r.Post.PostID)
		}
	}
}

func TestGetPost(t *testing.T) {
	e := setupPostRoutes(t)

	rec := get(e, "/api/v1/posts/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.PostRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Pictures) != 2 || got.Pictures[1].Type != models.MediaVideo {
		t.Errorf("unexpected record %+v", got)
	}

	if rec := get(e, "/api/v1/posts/42"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := get(e, "/api/v1/posts/x"); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	dir, err := directory.New(nil)
	if err != nil {
		t.Fatalf("directory: %v", err)
	}
	e := echo.New()
	e.GET("/health", HealthCheck(dir))

	rec := get(e, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" || body["posts"] != float64(0) {
		t.Errorf("unexpected body %v", body)
	}
}
