package handlers

import (
	"net/http"
	"time"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/storage"
)

// walletCacheTTL is short: balances change on every settlement, and the
// callback path invalidates eagerly anyway.
const walletCacheTTL = 30 * time.Second

func walletCacheKey(userID string) string {
	return "wallet:" + userID
}

// GetWallet returns the authenticated user's wallet, served from cache when
// a fresh copy is available.
func (h *Handlers) GetWallet(w http.ResponseWriter, r *http.Request) {
	user := userID(r)

	if h.cache != nil {
		var cached storage.Wallet
		found, err := h.cache.GetJSON(r.Context(), walletCacheKey(user), &cached)
		if err != nil {
			h.logger.Warn("Wallet cache read failed", logging.Err(err))
		} else if found {
			h.writeJSON(w, http.StatusOK, &cached)
			return
		}
	}

	wallet, err := h.store.GetWallet(r.Context(), user)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), walletCacheKey(user), wallet, walletCacheTTL); err != nil {
			h.logger.Warn("Wallet cache write failed", logging.Err(err))
		}
	}

	h.writeJSON(w, http.StatusOK, wallet)
}
