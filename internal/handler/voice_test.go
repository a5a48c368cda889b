package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDownloadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OggS voice bytes"))
	}))
	defer server.Close()

	resp, err := downloadFile(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("downloadFile() error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	if string(body) != "OggS voice bytes" {
		t.Errorf("body = %q, want the served payload", body)
	}
}

func TestDownloadFileCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("never read"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := downloadFile(ctx, server.URL); err == nil {
		t.Fatal("downloadFile() with canceled context returned no error")
	}
}
