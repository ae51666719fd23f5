package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/Balamathias/isubscribe-ai-microservice/internal/common/errors"
)

// ListBeneficiaries returns the authenticated user's saved recipients.
func (h *Handlers) ListBeneficiaries(w http.ResponseWriter, r *http.Request) {
	beneficiaries, err := h.store.ListBeneficiaries(r.Context(), userID(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"data": beneficiaries})
}

type saveBeneficiaryRequest struct {
	Phone   string `json:"phone"`
	Network string `json:"network"`
}

// SaveBeneficiary stores a recipient phone number for the authenticated user.
func (h *Handlers) SaveBeneficiary(w http.ResponseWriter, r *http.Request) {
	var req saveBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	if req.Phone == "" {
		h.writeError(w, apperrors.ValidationError("phone is required"))
		return
	}

	if err := h.store.SaveBeneficiary(r.Context(), userID(r), req.Phone, req.Network); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}
