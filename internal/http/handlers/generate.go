package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"artmint/internal/pipeline"
)

type generateRequest struct {
	Prompt        string `json:"prompt" validate:"required,min=1,max=2000"`
	WalletAddress string `json:"wallet_address" validate:"omitempty,eth_addr"`
}

type generateResponse struct {
	ImageURL    string `json:"image_url"`
	MetadataURL string `json:"metadata_url,omitempty"`
	TxHash      string `json:"transaction_hash,omitempty"`
	ModelUsed   string `json:"model_used"`
}

// Generate is the synchronous variant: it runs the full fulfillment inside
// the request instead of queueing a prompt. Nothing is written to the
// prompt queue; failures surface as structured error responses.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if a.Fulfiller == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "generation is not configured")
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.validator().Struct(req); err != nil {
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
		return
	}
	if req.WalletAddress != "" && !a.Fulfiller.MintEnabled() {
		a.error(w, http.StatusServiceUnavailable, "mint_unavailable", "minting is not configured on this deployment")
		return
	}

	result, ferr := a.Fulfiller.Fulfill(r.Context(), pipeline.Request{
		PromptID:      uuid.New().String(),
		PromptText:    req.Prompt,
		WalletAddress: req.WalletAddress,
	})
	if ferr != nil {
		switch ferr.Kind {
		case pipeline.KindValidation:
			a.error(w, http.StatusUnprocessableEntity, "validation_failed", ferr.Message)
		case pipeline.KindMint:
			a.error(w, http.StatusBadGateway, "mint_failed", ferr.Message)
		default:
			a.error(w, http.StatusBadGateway, "generation_failed", ferr.Message)
		}
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		ImageURL:    result.ImageURL,
		MetadataURL: result.MetadataURL,
		TxHash:      result.TxHash,
		ModelUsed:   result.ModelUsed,
	})
}
