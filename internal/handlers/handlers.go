// Package handlers wires the HTTP surface of the payments microservice:
// the gateway callback endpoint, virtual account provisioning, and the
// wallet/plans/beneficiaries read APIs used by the mobile app.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	apperrors "github.com/Balamathias/isubscribe-ai-microservice/internal/common/errors"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/config"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/gateway"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/storage"
)

// Store is the persistence surface the handlers need.
type Store interface {
	GetWallet(ctx context.Context, userID string) (*storage.Wallet, error)
	SettleDeposit(ctx context.Context, event storage.GatewayEvent) (bool, error)
	GetPlans(ctx context.Context, category string) ([]storage.DataPlan, error)
	GetPlansByService(ctx context.Context, category, serviceID string) ([]storage.DataPlan, error)
	ListBeneficiaries(ctx context.Context, userID string) ([]storage.Beneficiary, error)
	SaveBeneficiary(ctx context.Context, userID, phone, network string) error
	SaveVirtualAccount(ctx context.Context, account storage.VirtualAccount) error
	GetUserByAccountReference(ctx context.Context, reference string) (string, error)
	GetPinHash(ctx context.Context, userID string) (string, error)
	SetPinHash(ctx context.Context, userID, hash string) error
	Health(ctx context.Context) error
}

// Cache is the Redis surface used for plan and wallet caching.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, key string) error
	Health() error
}

// AccountCreator provisions virtual accounts at the payment gateway.
type AccountCreator interface {
	CreateVirtualAccount(ctx context.Context, req gateway.CreateAccountRequest) (*gateway.CreateAccountResponse, error)
}

// CallbackVerifier checks gateway signatures on raw callback bodies.
type CallbackVerifier interface {
	VerifyCallback(body []byte, publicKeyPEM string) bool
}

type Handlers struct {
	store    Store
	cache    Cache
	gateway  AccountCreator
	verifier CallbackVerifier
	config   *config.Config
	logger   logging.Logger
}

func New(store Store, cache Cache, gw AccountCreator, verifier CallbackVerifier, cfg *config.Config, logger logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &Handlers{
		store:    store,
		cache:    cache,
		gateway:  gw,
		verifier: verifier,
		config:   cfg,
		logger:   logger,
	}
}

// writeJSON writes a JSON response body with the given status.
func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", err)
	}
}

// writeError maps application errors onto HTTP statuses.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsType(err, apperrors.ErrTypeValidation):
		status = http.StatusBadRequest
	case apperrors.IsType(err, apperrors.ErrTypeAuth):
		status = http.StatusUnauthorized
	case apperrors.IsType(err, apperrors.ErrTypeNotFound):
		status = http.StatusNotFound
	case apperrors.IsType(err, apperrors.ErrTypeGateway):
		status = http.StatusBadGateway
	}

	if status >= 500 {
		h.logger.Error("Request failed", err)
	}

	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// userID extracts the authenticated user set by the auth middleware.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}
