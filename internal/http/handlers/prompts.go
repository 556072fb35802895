package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"artmint/internal/infra"
	"artmint/internal/sqlinline"
)

type enqueuePromptRequest struct {
	PromptText    string `json:"prompt_text" validate:"required,min=1,max=2000"`
	WalletAddress string `json:"wallet_address" validate:"omitempty,eth_addr"`
}

type promptResponse struct {
	ID            string `json:"id"`
	PromptText    string `json:"prompt_text"`
	Status        string `json:"status"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Error         string `json:"error,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	MetadataURL   string `json:"metadata_url,omitempty"`
	TxHash        string `json:"transaction_hash,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// EnqueuePrompt inserts a pending prompt for the worker to pick up.
func (a *App) EnqueuePrompt(w http.ResponseWriter, r *http.Request) {
	var req enqueuePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.validator().Struct(req); err != nil {
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QInsertPrompt, req.PromptText, req.WalletAddress)
	var id string
	var createdAt time.Time
	if err := row.Scan(&id, &createdAt); err != nil {
		a.Logger.Error().Err(err).Msg("api: enqueue prompt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to enqueue prompt")
		return
	}

	a.json(w, http.StatusAccepted, promptResponse{
		ID:         id,
		PromptText: req.PromptText,
		Status:     "pending",
		CreatedAt:  createdAt.Format(time.RFC3339),
	})
}

// PromptStatus returns the lifecycle state of a prompt, including the
// artifact locators once it completed.
func (a *App) PromptStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}

	row := a.SQL.QueryRow(r.Context(), sqlinline.QSelectPrompt, id)
	var resp promptResponse
	var createdAt, updatedAt time.Time
	if err := row.Scan(&resp.ID, &resp.PromptText, &resp.Status, &resp.WalletAddress, &resp.Error,
		&createdAt, &updatedAt, &resp.ImageURL, &resp.MetadataURL, &resp.TxHash); err != nil {
		if infra.IsNoRows(err) {
			a.error(w, http.StatusNotFound, "not_found", "prompt not found")
			return
		}
		a.Logger.Error().Err(err).Str("prompt_id", id).Msg("api: load prompt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load prompt")
		return
	}
	resp.CreatedAt = createdAt.Format(time.RFC3339)
	resp.UpdatedAt = updatedAt.Format(time.RFC3339)

	a.json(w, http.StatusOK, resp)
}
