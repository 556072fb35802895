package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"artmint/internal/infra"
	"artmint/internal/pipeline"
	"artmint/internal/storage"
)

// LedgerStatus is the slice of the ledger client the health endpoint needs.
type LedgerStatus interface {
	Connected(ctx context.Context) bool
}

// App bundles the dependencies shared by all HTTP handlers.
type App struct {
	Config    *infra.Config
	Logger    infra.Logger
	SQL       infra.SQLExecutor
	Fulfiller *pipeline.Fulfiller
	Ledger    LedgerStatus
	Files     *storage.FileStore

	validate *validator.Validate
}

// NewApp constructs the handler container.
func NewApp(cfg *infra.Config, logger infra.Logger, sql infra.SQLExecutor, fulfiller *pipeline.Fulfiller, ledger LedgerStatus, files *storage.FileStore) *App {
	return &App{
		Config:    cfg,
		Logger:    logger,
		SQL:       sql,
		Fulfiller: fulfiller,
		Ledger:    ledger,
		Files:     files,
		validate:  validator.New(),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, kind, detail string) {
	a.json(w, code, map[string]string{"error": kind, "detail": detail})
}

func (a *App) validator() *validator.Validate {
	if a.validate == nil {
		a.validate = validator.New()
	}
	return a.validate
}
