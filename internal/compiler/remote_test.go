package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestRemoteCompileSuccess(t *testing.T) {
	var gotAuth, gotSource, gotName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compile" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		file, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		gotSource = string(data)
		gotName = hdr.Filename
		w.Header().Set("Content-Type", ContentTypePDF)
		_, _ = w.Write([]byte("%PDF-1.5 remote"))
	}))
	defer srv.Close()

	root := t.TempDir()
	r, err := NewRemote(srv.URL+"/", "svc-token", root, 5*time.Second)
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}

	res, err := r.Compile(context.Background(), `\section{Hi}`)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if string(res.PDF) != "%PDF-1.5 remote" {
		t.Fatalf("unexpected pdf %q", res.PDF)
	}
	if gotSource != `\section{Hi}` {
		t.Fatalf("service received %q", gotSource)
	}
	if gotName != SourceName {
		t.Fatalf("expected upload named %s, got %q", SourceName, gotName)
	}
	if gotAuth != "Bearer svc-token" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	assertEmptyDir(t, root)
}

func TestRemoteCompileFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantKind   Kind
		wantStderr string
	}{
		{
			name: "service reports failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":  "LaTeX compilation failed",
					"stdout": "This is tectonic",
					"stderr": "! Missing $ inserted.",
				})
			},
			wantKind:   KindFailed,
			wantStderr: "! Missing $ inserted.",
		},
		{
			name: "service reports missing artifact",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":  "artifact not produced",
					"kind":   "no_artifact",
					"stdout": "Output written nowhere",
				})
			},
			wantKind: KindNoArtifact,
		},
		{
			name: "service reports toolchain unavailable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "LaTeX compiler unavailable",
					"kind":  "unavailable",
				})
			},
			wantKind: KindUnavailable,
		},
		{
			name: "unknown kind",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad gateway", "kind": "other"})
			},
			wantKind: KindFailed,
		},
		{
			name: "plain text failure",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Compilation error", http.StatusInternalServerError)
			},
			wantKind:   KindFailed,
			wantStderr: "Compilation error",
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantKind: KindNoArtifact,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			root := t.TempDir()
			r, err := NewRemote(srv.URL, "", root, 5*time.Second)
			if err != nil {
				t.Fatalf("NewRemote: %v", err)
			}

			_, err = r.Compile(context.Background(), "doc")
			cerr, ok := AsError(err)
			if !ok {
				t.Fatalf("expected *Error, got %v", err)
			}
			if cerr.Kind != tt.wantKind {
				t.Fatalf("expected kind %s, got %s", tt.wantKind, cerr.Kind)
			}
			if tt.wantStderr != "" && !strings.Contains(cerr.Stderr, tt.wantStderr) {
				t.Fatalf("expected stderr %q, got %q", tt.wantStderr, cerr.Stderr)
			}
			assertEmptyDir(t, root)
		})
	}
}

func TestRemoteCompileRejectsOversizedArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ContentTypePDF)
		_, _ = w.Write(bytes.Repeat([]byte("x"), maxArtifactSize+1))
	}))
	defer srv.Close()

	root := t.TempDir()
	r, err := NewRemote(srv.URL, "", root, 30*time.Second)
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}

	res, err := r.Compile(context.Background(), "doc")
	cerr, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *Error, got %v", err)
	}
	if cerr.Kind != KindFailed || cerr.Message != "artifact too large" {
		t.Fatalf("unexpected error %v", cerr)
	}
	if len(res.PDF) != 0 {
		t.Fatalf("expected no artifact, got %d bytes", len(res.PDF))
	}
	assertEmptyDir(t, root)
}

func TestRemoteCompileAcceptsArtifactAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", ContentTypePDF)
		_, _ = w.Write(bytes.Repeat([]byte("x"), maxArtifactSize))
	}))
	defer srv.Close()

	r, err := NewRemote(srv.URL, "", t.TempDir(), 30*time.Second)
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	res, err := r.Compile(context.Background(), "doc")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.PDF) != maxArtifactSize {
		t.Fatalf("expected %d bytes, got %d", maxArtifactSize, len(res.PDF))
	}
}

func TestRemoteCompileUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	root := t.TempDir()
	r, err := NewRemote(url, "", root, time.Second)
	if err != nil {
		t.Fatalf("NewRemote: %v", err)
	}
	_, err = r.Compile(context.Background(), "doc")
	cerr, ok := AsError(err)
	if !ok || cerr.Kind != KindUnavailable {
		t.Fatalf("expected unavailable error, got %v", err)
	}
	assertEmptyDir(t, root)
}

