package media

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestSaveAndOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bot token" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir())
	d.SetHeader("Authorization", "Bot token")
	d.now = func() time.Time { return time.UnixMilli(1700000000000) }

	ref, err := d.Save(context.Background(), srv.URL+"/a.png", "shu", "100", ".PNG")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if ref != "entregas/shu/100_1700000000000.png" {
		t.Fatalf("ref = %q", ref)
	}

	f, err := d.Open(ref)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	data, _ := io.ReadAll(f)
	if string(data) != "jpeg-bytes" {
		t.Fatalf("contents = %q", data)
	}
}

func TestSaveHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir())
	_, err := d.Save(context.Background(), srv.URL, "wei", "1", "jpg")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestSaveRetriesOnceOn429(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir())
	if _, err := d.Save(context.Background(), srv.URL, "wu", "2", ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("calls = %d, want 2", calls.Load())
	}
}

func TestSaveRejectsBadLocation(t *testing.T) {
	d := NewDownloader(t.TempDir())
	for _, loc := range [][2]string{{"", "1"}, {"../etc", "1"}, {"shu", "a/b"}} {
		if _, err := d.Save(context.Background(), "http://unused", loc[0], loc[1], "jpg"); err == nil {
			t.Errorf("expected error for %v", loc)
		}
	}
}

func TestOpenRejectsForeignPaths(t *testing.T) {
	d := NewDownloader(t.TempDir())
	for _, ref := range []string{"/etc/passwd", "entregas/../secret", "other/file.jpg"} {
		if _, err := d.Open(ref); err == nil {
			t.Errorf("expected error for %q", ref)
		}
	}
}

func TestExtFromName(t *testing.T) {
	tests := map[string]string{
		"photo.jpg":                         "jpg",
		"https://cdn/x/image.png?ex=1&is=2": "png",
		"noext":                             "",
	}
	for in, want := range tests {
		if got := ExtFromName(in); got != want {
			t.Errorf("ExtFromName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSaveWaitsForRateLimit(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("img"))
	}))
	defer srv.Close()

	d := NewDownloader(t.TempDir())
	start := time.Now()
	for i := 0; i < 3; i++ {
		d.now = func() time.Time { return time.UnixMilli(int64(1700000000000 + i)) }
		if _, err := d.Save(context.Background(), srv.URL+"/a.jpg", "wu", "7", "jpg"); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("three downloads took %v, expected the limiter to space them", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Save(ctx, srv.URL+"/a.jpg", "wu", "7", "jpg"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("server hits = %d, want 3", got)
	}
}
