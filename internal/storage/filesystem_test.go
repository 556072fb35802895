package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreUpload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, "http://localhost:8080/static")
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	url, err := store.Upload(context.Background(), "generated/abc.png", "image/png", []byte("data"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "http://localhost:8080/static/generated/abc.png" {
		t.Fatalf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generated", "abc.png"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != "data" {
		t.Fatalf("data = %q", data)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}

	for _, key := range []string{"", "../escape.png", "a/../../escape.png"} {
		if _, err := store.Upload(context.Background(), key, "image/png", []byte("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}

func TestFileStoreRead(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("NewFileStore returned error: %v", err)
	}
	if _, err := store.Upload(context.Background(), "x.png", "image/png", []byte("payload")); err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if got := store.Read("x.png"); string(got) != "payload" {
		t.Fatalf("Read = %q", got)
	}
	if got := store.Read("missing.png"); got != nil {
		t.Fatalf("Read for missing key = %q, want nil", got)
	}
}
