package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/Balamathias/isubscribe-ai-microservice/internal/common/errors"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/gateway"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/storage"
)

type createAccountRequest struct {
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
}

// CreateVirtualAccount provisions a dedicated collection account for the
// authenticated user and records it so later callbacks can be attributed.
func (h *Handlers) CreateVirtualAccount(w http.ResponseWriter, r *http.Request) {
	var req createAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.ValidationError("invalid request body"))
		return
	}

	if req.CustomerName == "" || req.Email == "" {
		h.writeError(w, apperrors.ValidationError("customer_name and email are required"))
		return
	}

	resp, err := h.gateway.CreateVirtualAccount(r.Context(), gateway.CreateAccountRequest{
		CustomerName: req.CustomerName,
		Email:        req.Email,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	account := storage.VirtualAccount{
		UserID:      userID(r),
		AccountNo:   resp.Data.VirtualAccountNo,
		AccountName: resp.Data.VirtualAccountName,
		Reference:   resp.Data.AccountReference,
	}
	if err := h.store.SaveVirtualAccount(r.Context(), account); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, account)
}
