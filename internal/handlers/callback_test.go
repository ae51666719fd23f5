package handlers

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Balamathias/isubscribe-ai-microservice/internal/common/errors"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/config"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/signature"
)

func callbackBody(t *testing.T, fields map[string]interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(fields)
	require.NoError(t, err)
	return body
}

func postCallback(h *Handlers, body []byte) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/callbacks/palmpay", bytes.NewReader(body))
	h.HandlePalmPayCallback(rec, req)
	return rec
}

func TestHandleCallbackSettlesDeposit(t *testing.T) {
	store := &fakeStore{settled: true, userByRef: "user-42"}
	cache := &fakeCache{}
	h := New(store, cache, &fakeGateway{}, &fakeVerifier{valid: true}, &config.Config{}, nil)

	body := callbackBody(t, map[string]interface{}{
		"orderNo":          "PP20260830001",
		"orderStatus":      1,
		"accountReference": "ref-42",
		"amount":           2500,
	})

	rec := postCallback(h, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"processed":true`)
	require.Len(t, store.settleCalls, 1)
	assert.Equal(t, "PP20260830001", store.settleCalls[0].OrderNo)
	assert.Equal(t, "user-42", store.settleCalls[0].UserID)
	assert.Equal(t, float64(2500), store.settleCalls[0].Amount)
	assert.Contains(t, cache.deletes, "wallet:user-42", "settlement must invalidate the cached wallet")
}

func TestHandleCallbackRejectsInvalidSignature(t *testing.T) {
	store := &fakeStore{}
	h := New(store, &fakeCache{}, &fakeGateway{}, &fakeVerifier{valid: false}, &config.Config{}, nil)

	body := callbackBody(t, map[string]interface{}{"orderNo": "PP1"})
	rec := postCallback(h, body)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, store.settleCalls, "unverified callback must not reach settlement")
}

func TestHandleCallbackReplayAcknowledgedWithoutCredit(t *testing.T) {
	store := &fakeStore{settled: false, userByRef: "user-42"}
	h := New(store, &fakeCache{}, &fakeGateway{}, &fakeVerifier{valid: true}, &config.Config{}, nil)

	body := callbackBody(t, map[string]interface{}{
		"orderNo":          "PP20260830001",
		"accountReference": "ref-42",
		"amount":           "2500.00",
	})

	rec := postCallback(h, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"processed":false`)
}

func TestHandleCallbackRequiresOrderNo(t *testing.T) {
	h := New(&fakeStore{}, &fakeCache{}, &fakeGateway{}, &fakeVerifier{valid: true}, &config.Config{}, nil)

	body := callbackBody(t, map[string]interface{}{"amount": 100})
	rec := postCallback(h, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCallbackRejectsBadAmount(t *testing.T) {
	h := New(&fakeStore{}, &fakeCache{}, &fakeGateway{}, &fakeVerifier{valid: true}, &config.Config{}, nil)

	body := callbackBody(t, map[string]interface{}{
		"orderNo": "PP1",
		"amount":  "not-a-number",
	})
	rec := postCallback(h, body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCallbackUnknownAccountReference(t *testing.T) {
	store := &fakeStore{userByRefErr: apperrors.NotFoundError("account reference")}
	h := New(store, &fakeCache{}, &fakeGateway{}, &fakeVerifier{valid: true}, &config.Config{}, nil)

	body := callbackBody(t, map[string]interface{}{
		"orderNo": "PP1",
		"amount":  100,
	})
	rec := postCallback(h, body)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// TestHandleCallbackEndToEndSignature runs the full path with a real signer
// and verifier rather than a stub.
func TestHandleCallbackEndToEndSignature(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privDER, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	privPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER}))

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER}))

	params := signature.Params{
		"orderNo":          "PP20260830002",
		"orderStatus":      1,
		"accountReference": "ref-7",
		"amount":           100,
	}
	sig, err := signature.Sign(params, privPEM)
	require.NoError(t, err)
	params[signature.SignField] = sig

	store := &fakeStore{settled: true, userByRef: "user-7"}
	cfg := &config.Config{PalmPayPublicKey: pubPEM}
	h := New(store, &fakeCache{}, &fakeGateway{}, signature.NewVerifier(nil), cfg, nil)

	rec := postCallback(h, callbackBody(t, map[string]interface{}(params)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"processed":true`)

	// Tampering with the amount after signing must be rejected.
	params["amount"] = 100000
	rec = postCallback(h, callbackBody(t, map[string]interface{}(params)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
