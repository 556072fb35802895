package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"artmint/internal/infra"
	"artmint/internal/pipeline"
	"artmint/internal/synth"
)

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return errors.New("no row")
	}
	return r.scan(dest...)
}

type stubDB struct {
	mu       sync.Mutex
	inserted []string
	noRows   bool
}

func (s *stubDB) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, fmt.Errorf("unsupported exec: %s", query)
}

func (s *stubDB) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unsupported query: %s", query)
}

func (s *stubDB) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case strings.Contains(query, "insert into prompts"):
		s.inserted = append(s.inserted, args[0].(string))
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "prompt-1"
			*dest[1].(*time.Time) = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
			return nil
		}}
	case strings.Contains(query, "from prompts p"):
		if s.noRows {
			return stubRow{scan: func(dest ...any) error { return pgx.ErrNoRows }}
		}
		return stubRow{scan: func(dest ...any) error {
			*dest[0].(*string) = "prompt-1"
			*dest[1].(*string) = "a fox"
			*dest[2].(*string) = "completed"
			*dest[3].(*string) = ""
			*dest[4].(*string) = ""
			*dest[5].(*time.Time) = time.Now()
			*dest[6].(*time.Time) = time.Now()
			*dest[7].(*string) = "http://localhost/static/prompt-1.png"
			*dest[8].(*string) = ""
			*dest[9].(*string) = ""
			return nil
		}}
	default:
		return stubRow{scan: func(dest ...any) error {
			return fmt.Errorf("unsupported query: %s", query)
		}}
	}
}

type stubGenerator struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubGenerator) Generate(ctx context.Context, req synth.Request) (*synth.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &synth.Image{Data: []byte("png"), Format: "image/png", ModelUsed: "test-model"}, nil
}

type stubStore struct{}

func (stubStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	return "http://localhost/static/" + key, nil
}

type stubLedger struct {
	connected bool
}

func (s stubLedger) Connected(ctx context.Context) bool {
	return s.connected
}

func newTestApp(t *testing.T, fulfiller *pipeline.Fulfiller, db *stubDB) *App {
	t.Helper()
	return NewApp(&infra.Config{}, zerolog.Nop(), db, fulfiller, nil, nil)
}

func newTestFulfiller(t *testing.T, gen synth.Generator, mintEnabled bool) *pipeline.Fulfiller {
	t.Helper()
	return pipeline.NewFulfiller(gen, stubStore{}, nil, nil,
		pipeline.Config{ModelUsed: "test-model", MintEnabled: mintEnabled, TempDir: t.TempDir()}, zerolog.Nop())
}

func TestHealthHandler(t *testing.T) {
	testCases := []struct {
		name       string
		ledger     LedgerStatus
		wantLedger string
	}{
		{name: "ledger disabled", ledger: nil, wantLedger: "disabled"},
		{name: "ledger connected", ledger: stubLedger{connected: true}, wantLedger: "connected"},
		{name: "ledger disconnected", ledger: stubLedger{}, wantLedger: "disconnected"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, nil, &stubDB{})
			app.Ledger = tc.ledger

			rr := httptest.NewRecorder()
			app.Health(rr, httptest.NewRequest("GET", "/v1/healthz", nil))

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			var resp map[string]string
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp["ledger"] != tc.wantLedger {
				t.Fatalf("ledger = %q, want %q", resp["ledger"], tc.wantLedger)
			}
		})
	}
}

func TestGenerateHandler(t *testing.T) {
	testCases := []struct {
		name        string
		body        map[string]any
		gen         *stubGenerator
		mintEnabled bool
		wantStatus  int
		wantCalls   int
	}{{
		name:       "success",
		body:       map[string]any{"prompt": "a fox"},
		gen:        &stubGenerator{},
		wantStatus: http.StatusOK,
		wantCalls:  1,
	}, {
		name:       "missing prompt",
		body:       map[string]any{"prompt": ""},
		gen:        &stubGenerator{},
		wantStatus: http.StatusUnprocessableEntity,
		wantCalls:  0,
	}, {
		name:        "invalid wallet rejected before generation",
		body:        map[string]any{"prompt": "a fox", "wallet_address": "not-an-address"},
		gen:         &stubGenerator{},
		mintEnabled: true,
		wantStatus:  http.StatusUnprocessableEntity,
		wantCalls:   0,
	}, {
		name:       "wallet without mint support",
		body:       map[string]any{"prompt": "a fox", "wallet_address": "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"},
		gen:        &stubGenerator{},
		wantStatus: http.StatusServiceUnavailable,
		wantCalls:  0,
	}, {
		name:       "synthesizer failure",
		body:       map[string]any{"prompt": "a fox"},
		gen:        &stubGenerator{err: errors.New("generation failed")},
		wantStatus: http.StatusBadGateway,
		wantCalls:  1,
	}}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, newTestFulfiller(t, tc.gen, tc.mintEnabled), &stubDB{})

			body, _ := json.Marshal(tc.body)
			rr := httptest.NewRecorder()
			app.Generate(rr, httptest.NewRequest("POST", "/v1/generate", bytes.NewReader(body)))

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d; body=%s", rr.Code, tc.wantStatus, rr.Body.String())
			}
			if tc.gen.calls != tc.wantCalls {
				t.Fatalf("generator calls = %d, want %d", tc.gen.calls, tc.wantCalls)
			}
			if tc.wantStatus == http.StatusOK {
				var resp generateResponse
				if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
					t.Fatalf("decode response: %v", err)
				}
				if resp.ImageURL == "" {
					t.Fatal("expected image_url in response")
				}
				if resp.ModelUsed != "test-model" {
					t.Fatalf("model_used = %q", resp.ModelUsed)
				}
			}
		})
	}
}

func TestGenerateHandlerWithoutFulfiller(t *testing.T) {
	app := newTestApp(t, nil, &stubDB{})

	body, _ := json.Marshal(map[string]any{"prompt": "a fox"})
	rr := httptest.NewRecorder()
	app.Generate(rr, httptest.NewRequest("POST", "/v1/generate", bytes.NewReader(body)))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestEnqueuePromptHandler(t *testing.T) {
	db := &stubDB{}
	app := newTestApp(t, nil, db)

	body, _ := json.Marshal(map[string]any{"prompt_text": "a fox in the snow"})
	rr := httptest.NewRecorder()
	app.EnqueuePrompt(rr, httptest.NewRequest("POST", "/v1/prompts", bytes.NewReader(body)))

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body=%s", rr.Code, rr.Body.String())
	}
	var resp promptResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "prompt-1" || resp.Status != "pending" {
		t.Fatalf("response = %+v", resp)
	}
	if len(db.inserted) != 1 || db.inserted[0] != "a fox in the snow" {
		t.Fatalf("inserted = %#v", db.inserted)
	}
}

func TestEnqueuePromptHandlerRejectsBadWallet(t *testing.T) {
	db := &stubDB{}
	app := newTestApp(t, nil, db)

	body, _ := json.Marshal(map[string]any{"prompt_text": "a fox", "wallet_address": "nope"})
	rr := httptest.NewRecorder()
	app.EnqueuePrompt(rr, httptest.NewRequest("POST", "/v1/prompts", bytes.NewReader(body)))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	if len(db.inserted) != 0 {
		t.Fatal("invalid request must not be enqueued")
	}
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPromptStatusNotFound(t *testing.T) {
	app := newTestApp(t, nil, &stubDB{noRows: true})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/v1/prompts/missing", nil)
	req = withURLParam(req, "id", "missing")
	app.PromptStatus(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
