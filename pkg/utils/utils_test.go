package utils

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestGetCacheFileName(t *testing.T) {
	tests := []struct {
		url, prefix, want string
	}{
		{"https://example.com/data/prs.json", "", "prs.json"},
		{"https://example.com/data/prs.json", "[DATA]", "DATA_prs.json"},
		{"https://example.com/countries.geo.json", "[LAND MASK]", "LAND_MASK_countries.geo.json"},
		{"https://example.com/data/prs.json?token=abc", "[DATA]", "DATA_prs.json"},
		{"data/local.png", "[MASK]", "MASK_local.png"},
	}
	for _, tt := range tests {
		if got := GetCacheFileName(tt.url, tt.prefix); got != tt.want {
			t.Errorf("GetCacheFileName(%q, %q) = %q, want %q", tt.url, tt.prefix, got, tt.want)
		}
	}
}

func TestGetCachedReader(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		hits++
		_, _ = io.WriteString(w, `[{"gm":{"lat":1,"lon":2}}]`)
	}))
	defer srv.Close()

	tmpDir, err := os.MkdirTemp("", "cache-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			t.Logf("Error removing temp dir: %v", err)
		}
	}()
	oldDir := CacheDir
	CacheDir = tmpDir
	defer func() { CacheDir = oldDir }()

	for i := 0; i < 2; i++ {
		rc, err := GetCachedReader(srv.URL+"/prs.json", true, "[TEST]")
		if err != nil {
			t.Fatalf("GetCachedReader failed: %v", err)
		}
		b, _ := io.ReadAll(rc)
		_ = rc.Close()
		if len(b) == 0 {
			t.Errorf("empty body on read %d", i)
		}
	}
	if hits != 1 {
		t.Errorf("server hit %d times, want 1", hits)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "TEST_prs.json")); err != nil {
		t.Errorf("cache file missing: %v", err)
	}

	if _, err := GetCachedReader(srv.URL+"/missing.json", false, "[TEST]"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCachedReader(missing) = %v, want ErrNotFound", err)
	}
	if _, err := GetCachedReader(srv.URL+"/missing.json", true, "[TEST]"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetCachedReader(missing, cached) = %v, want ErrNotFound", err)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "TEST_missing.json")); !os.IsNotExist(err) {
		t.Errorf("failed download left a cache file: %v", err)
	}
}

func TestDownloadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		_, _ = io.WriteString(w, "land")
	}))
	defer srv.Close()

	dir := t.TempDir()
	dst := filepath.Join(dir, "mask.png")
	if err := DownloadFile(srv.URL+"/mask.png", dst, "[TEST]"); err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if b, _ := os.ReadFile(dst); string(b) != "land" {
		t.Errorf("DownloadFile wrote %q, want %q", b, "land")
	}

	if err := DownloadFile(srv.URL+"/broken", filepath.Join(dir, "broken"), "[TEST]"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("DownloadFile(broken) = %v, want a status error", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries after a failed download, want 1", len(entries))
	}

	if !Exists(srv.URL + "/mask.png") {
		t.Error("Exists(mask.png) = false, want true")
	}
	if Exists(srv.URL + "/broken") {
		t.Error("Exists(broken) = true, want false")
	}
}
