package ipfs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadReturnsGatewayURL(t *testing.T) {
	var gotAuth string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("read form file: %v", err)
		}
		gotBody, _ = io.ReadAll(file)
		_, _ = w.Write([]byte(`{"ok": true, "value": {"cid": "bafytestcid"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL, APIKey: "secret", Gateway: "ipfs.nftstorage.link"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	url, err := client.Upload(context.Background(), "art.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("Upload returned error: %v", err)
	}
	if url != "https://bafytestcid.ipfs.nftstorage.link/art.png" {
		t.Fatalf("url = %q", url)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization = %q", gotAuth)
	}
	if string(gotBody) != "png-bytes" {
		t.Fatalf("uploaded body = %q", gotBody)
	}
}

func TestUploadServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"ok": false, "error": {"name": "HTTPError", "message": "invalid token"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL, APIKey: "bad"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = client.Upload(context.Background(), "art.png", "image/png", []byte("x"))
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid token") {
		t.Fatalf("error %q does not carry the service message", err)
	}
}

func TestUploadJSON(t *testing.T) {
	var gotContentType string
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("read form file: %v", err)
		}
		gotContentType = header.Header.Get("Content-Type")
		if err := json.NewDecoder(file).Decode(&gotPayload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		_, _ = w.Write([]byte(`{"ok": true, "value": {"cid": "bafymeta"}}`))
	}))
	defer server.Close()

	client, err := NewClient(Options{BaseURL: server.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	url, err := client.UploadJSON(context.Background(), "meta.json", map[string]string{"name": "AI Art #1"})
	if err != nil {
		t.Fatalf("UploadJSON returned error: %v", err)
	}
	if url != "https://bafymeta.ipfs.nftstorage.link/meta.json" {
		t.Fatalf("url = %q", url)
	}
	if gotContentType != "application/json" {
		t.Fatalf("content type = %q", gotContentType)
	}
	if gotPayload["name"] != "AI Art #1" {
		t.Fatalf("payload = %#v", gotPayload)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(Options{}); err == nil {
		t.Fatal("expected error when api key missing")
	}
}
