package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/auth"
	apperrors "github.com/Balamathias/isubscribe-ai-microservice/internal/common/errors"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
)

type pinRequest struct {
	Pin string `json:"pin"`
}

// SetPin hashes and stores the authenticated user's transaction PIN.
func (h *Handlers) SetPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	if req.Pin == "" {
		h.writeError(w, apperrors.ValidationError("pin is required"))
		return
	}

	hash, err := auth.HashPin(req.Pin)
	if err != nil {
		h.writeError(w, apperrors.InternalError("failed to hash pin", err))
		return
	}

	if err := h.store.SetPinHash(r.Context(), userID(r), hash); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// VerifyPin reports whether the submitted PIN matches the stored hash. A
// missing profile, an unset PIN and a wrong PIN all come back valid=false;
// the response never says why.
func (h *Handlers) VerifyPin(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	hash, err := h.store.GetPinHash(r.Context(), userID(r))
	if err != nil && !apperrors.IsType(err, apperrors.ErrTypeNotFound) {
		h.logger.Warn("PIN lookup failed",
			logging.String("user", userID(r)),
			logging.Err(err),
		)
	}

	valid := hash != "" && auth.CheckPin(req.Pin, hash)

	h.writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}
