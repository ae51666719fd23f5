package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/storage"
)

// palmPayCallback carries the fields the service settles on. The raw body is
// what gets signature-checked; this struct is only decoded afterwards.
type palmPayCallback struct {
	OrderNo          string      `json:"orderNo"`
	OrderStatus      json.Number `json:"orderStatus"`
	AccountReference string      `json:"accountReference"`
	Amount           interface{} `json:"amount"`
}

// HandlePalmPayCallback processes a payment notification from the gateway.
//
// The signature is verified over the raw body before anything else; an
// unverifiable callback is rejected outright. Settlement is idempotent on the
// gateway order number, so replayed callbacks acknowledge without crediting
// twice.
func (h *Handlers) HandlePalmPayCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	if !h.verifier.VerifyCallback(body, h.config.PalmPayPublicKey) {
		h.logger.Warn("Rejected callback with invalid signature",
			logging.String("remote_addr", r.RemoteAddr),
		)
		h.writeJSON(w, http.StatusUnauthorized, map[string]bool{"success": false})
		return
	}

	var callback palmPayCallback
	if err := json.Unmarshal(body, &callback); err != nil || callback.OrderNo == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	amount, err := parseAmount(callback.Amount)
	if err != nil {
		h.logger.Warn("Callback carried an unparseable amount",
			logging.String("order_no", callback.OrderNo),
			logging.Err(err),
		)
		h.writeJSON(w, http.StatusBadRequest, map[string]bool{"success": false})
		return
	}

	user, err := h.store.GetUserByAccountReference(r.Context(), callback.AccountReference)
	if err != nil {
		h.writeError(w, err)
		return
	}

	processed, err := h.store.SettleDeposit(r.Context(), storage.GatewayEvent{
		OrderNo:    callback.OrderNo,
		UserID:     user,
		Amount:     amount,
		Status:     callback.OrderStatus.String(),
		RawPayload: string(body),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if processed {
		// The settlement just changed the balance; drop the cached wallet so
		// the next read sees it.
		if h.cache != nil {
			if err := h.cache.Delete(r.Context(), walletCacheKey(user)); err != nil {
				h.logger.Warn("Failed to invalidate wallet cache", logging.Err(err))
			}
		}
		h.logger.Info("Settled gateway deposit",
			logging.String("order_no", callback.OrderNo),
			logging.String("user", user),
			logging.Field{Key: "amount", Value: amount},
		)
	} else {
		h.logger.Info("Ignored replayed gateway callback",
			logging.String("order_no", callback.OrderNo),
		)
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"processed": processed,
	})
}

// parseAmount accepts the gateway's amount as either a JSON number or a
// numeric string.
func parseAmount(v interface{}) (float64, error) {
	switch value := v.(type) {
	case float64:
		return value, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(value), 64)
	default:
		return 0, strconv.ErrSyntax
	}
}
