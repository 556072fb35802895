package handlers

import "net/http"

// Health reports service liveness and ledger connectivity.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	ledger := "disabled"
	if a.Ledger != nil {
		ledger = "disconnected"
		if a.Ledger.Connected(r.Context()) {
			ledger = "connected"
		}
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "ledger": ledger})
}
