package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/compile"
	"resume-builder/internal/compiler"
	"resume-builder/internal/profiles"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
)

type okCompiler struct{}

func (okCompiler) Compile(ctx context.Context, source string) (compiler.Result, error) {
	return compiler.Result{JobID: "job", PDF: []byte("%PDF-1.5"), ContentType: compiler.ContentTypePDF}, nil
}

func newTestRouter(t *testing.T, ratePerMinute int) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	verifier, err := auth.NewVerifier("secret", "", "dev")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	token, err := verifier.Sign("user-1", "u1@example.com", time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	profileSvc := profiles.NewService(profiles.NewMemoryRepo())
	compileSvc := &compile.Service{
		Resumes:  resumes.NewService(resumes.NewMemoryRepo()),
		Profiles: profileSvc,
		Compiler: okCompiler{},
	}
	r := NewRouter(RouterDeps{
		Config: config.Config{
			CORSAllowOrigin:      []string{"http://localhost:5173"},
			CompileRatePerMinute: ratePerMinute,
		},
		Verifier:       verifier,
		CompileHandler: compile.NewHandler(compileSvc),
		ProfileHandler: profiles.NewHandler(profileSvc),
	})
	return r, token
}

func postCompile(r http.Handler, path, token string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"title": "CV", "code": `\documentclass{article}`})
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRouterHealthIsPublic(t *testing.T) {
	r, _ := newTestRouter(t, 0)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"database":"memory"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestRouterCompileRoutes(t *testing.T) {
	r, token := newTestRouter(t, 0)
	for _, path := range []string{"/api/v1/compile", "/compile"} {
		if resp := postCompile(r, path, ""); resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s without token: expected 401, got %d", path, resp.Code)
		}
		resp := postCompile(r, path, token)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", path, resp.Code, resp.Body.String())
		}
		if resp.Header().Get("X-Resume-Id") == "" {
			t.Fatalf("%s: missing X-Resume-Id", path)
		}
	}
}

func TestRouterExposesCompileHeadersToBrowsers(t *testing.T) {
	r, token := newTestRouter(t, 0)
	body, _ := json.Marshal(map[string]string{"title": "CV", "code": "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compile", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Origin", "http://localhost:5173")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	exposed := resp.Header().Get("Access-Control-Expose-Headers")
	for _, h := range []string{"X-Resume-Id", "X-Resume-Title"} {
		if !strings.Contains(exposed, h) {
			t.Fatalf("expected %s exposed, got %q", h, exposed)
		}
	}
}

func TestRouterRateLimitsCompile(t *testing.T) {
	r, token := newTestRouter(t, 1)
	if resp := postCompile(r, "/api/v1/compile", token); resp.Code != http.StatusOK {
		t.Fatalf("first compile: expected 200, got %d", resp.Code)
	}
	resp := postCompile(r, "/compile", token)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume-info", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code == http.StatusTooManyRequests {
		t.Fatalf("profile routes must not share the compile budget")
	}
}

func TestRouterMeAndMetrics(t *testing.T) {
	r, token := newTestRouter(t, 0)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "u1@example.com") {
		t.Fatalf("unexpected /me response %d %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "compile_started_total") {
		t.Fatalf("unexpected /metrics response %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	tests := map[string]string{"": ":8080", "9000": ":9000", ":7000": ":7000"}
	for in, want := range tests {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
