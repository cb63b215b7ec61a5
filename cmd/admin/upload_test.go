package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestUploadSheetMusicEndToEnd(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("CONFIG_FILE", "")

	var (
		mu      sync.Mutex
		stored  = map[string][]byte{}
		created map[string]any
	)
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/upload/signed-url", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Path string `json:"path"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		key := strings.Replace(req.Path, "/", "/1700000000000-ab12-", 1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"signedUrl": srv.URL + "/bucket/" + key,
			"token":     "slot",
			"path":      key,
			"publicUrl": "https://cdn.test/" + key,
			"expiresAt": time.Now().Add(time.Hour),
		})
	})
	mux.HandleFunc("/bucket/", func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		stored[strings.TrimPrefix(r.URL.Path, "/bucket/")] = data
		mu.Unlock()
	})
	mux.HandleFunc("/api/upload/sheet-music", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer owner-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&created)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "sheet-1"})
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	pdf := filepath.Join(t.TempDir(), "nocturne.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0o600); err != nil {
		t.Fatalf("write pdf: %v", err)
	}

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{
		"upload", "sheet-music",
		"--server", srv.URL,
		"--token", "owner-token",
		"--file", pdf,
		"--title", "Nocturne",
		"--tag", "Classical", "--tag", "Chopin",
	})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if got := stored["sheet-music/1700000000000-ab12-nocturne.pdf"]; string(got) != "%PDF-1.4" {
		t.Fatalf("object not relocated, stored=%v", stored)
	}
	if created["pdf_url"] != "https://cdn.test/sheet-music/1700000000000-ab12-nocturne.pdf" {
		t.Fatalf("pdf_url: got=%v", created["pdf_url"])
	}
	if created["title"] != "Nocturne" {
		t.Fatalf("title: got=%v", created["title"])
	}
	if !strings.Contains(out.String(), "created sheet-music sheet-1") {
		t.Fatalf("output: %q", out.String())
	}
}

func TestUploadRequiresToken(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STUDIO_TOKEN", "")

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetArgs([]string{"upload", "video", "--file", "x.mp4", "--title", "x"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected token error, got=%v", err)
	}
}

func TestUploadRejectsUnknownKind(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("CONFIG_FILE", "")

	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"upload", "podcast", "--file", "x", "--title", "x"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected invalid kind error")
	}
}
