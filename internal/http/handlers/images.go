package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"artmint/internal/sqlinline"
	"artmint/pkg/zip"
)

const defaultGalleryLimit = 50

type imageItem struct {
	ID          string `json:"id"`
	PromptID    string `json:"prompt_id"`
	PromptText  string `json:"prompt_text"`
	ImageURL    string `json:"image_url"`
	MetadataURL string `json:"metadata_url,omitempty"`
	TxHash      string `json:"transaction_hash,omitempty"`
	ModelUsed   string `json:"model_used"`
	CreatedAt   string `json:"created_at"`
}

// ListImages returns the most recent generated artifacts.
func (a *App) ListImages(w http.ResponseWriter, r *http.Request) {
	items, err := a.recentImages(r, defaultGalleryLimit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("api: list images failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load images")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// ArchiveImages bundles the locally stored recent artifacts into a zip
// download. Artifacts stored only on remote locators are skipped.
func (a *App) ArchiveImages(w http.ResponseWriter, r *http.Request) {
	if a.Files == nil {
		a.error(w, http.StatusServiceUnavailable, "unavailable", "local storage is not configured")
		return
	}
	items, err := a.recentImages(r, defaultGalleryLimit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("api: archive images failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load images")
		return
	}

	artifacts := make([]zip.Artifact, 0, len(items))
	for _, item := range items {
		key := item.PromptID + ".png"
		artifacts = append(artifacts, zip.Artifact{Filename: key, Data: a.Files.Read(key)})
	}
	archive := zip.ArchiveArtifacts(artifacts)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=artifacts-%s.zip", time.Now().Format("20060102")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func (a *App) recentImages(r *http.Request, fallbackLimit int) ([]imageItem, error) {
	limit := fallbackLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	rows, err := a.SQL.Query(r.Context(), sqlinline.QSelectRecentImages, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]imageItem, 0, limit)
	for rows.Next() {
		var item imageItem
		var createdAt time.Time
		if err := rows.Scan(&item.ID, &item.PromptID, &item.ImageURL, &item.MetadataURL,
			&item.TxHash, &item.ModelUsed, &createdAt, &item.PromptText); err != nil {
			return nil, err
		}
		item.CreatedAt = createdAt.Format(time.RFC3339)
		items = append(items, item)
	}
	return items, rows.Err()
}
