// Package gateway is the HTTP client for the PalmPay open API. Every request
// body is signed with the merchant's private key before it leaves the
// service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/errors"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/common/logging"
	"github.com/Balamathias/isubscribe-ai-microservice/internal/signature"
)

const (
	createAccountPath = "/api/v2/virtual/account/label/create"

	apiVersion   = "V2.0"
	identityType = "company"
	countryCode  = "NG"
)

// Config holds the merchant credentials for the gateway.
type Config struct {
	BaseURL       string
	AppID         string
	PrivateKey    string
	LicenseNumber string
}

// Client talks to the PalmPay open API.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a gateway client with sane transport defaults.
func NewClient(config *Config, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger: logger,
	}
}

// CreateAccountRequest asks the gateway for a dedicated collection account.
type CreateAccountRequest struct {
	CustomerName string
	Email        string
}

// CreateAccountData is the account the gateway issued.
type CreateAccountData struct {
	IdentityType       string `json:"identityType"`
	LicenseNumber      string `json:"licenseNumber"`
	VirtualAccountName string `json:"virtualAccountName"`
	VirtualAccountNo   string `json:"virtualAccountNo"`
	Email              string `json:"email"`
	CustomerName       string `json:"customerName"`
	Status             string `json:"status"`
	AccountReference   string `json:"accountReference"`
}

// CreateAccountResponse is the gateway's response envelope.
type CreateAccountResponse struct {
	Data     CreateAccountData `json:"data"`
	RespMsg  string            `json:"respMsg"`
	RespCode string            `json:"respCode"`
	Status   bool              `json:"status"`
}

// CreateVirtualAccount provisions a virtual collection account for a
// customer. The request body carries a millisecond timestamp and a 32-char
// nonce, and is signed field-by-field per the gateway protocol.
func (c *Client) CreateVirtualAccount(ctx context.Context, req CreateAccountRequest) (*CreateAccountResponse, error) {
	params := signature.Params{
		"customerName":       req.CustomerName,
		"email":              req.Email,
		"requestTime":        time.Now().UnixMilli(),
		"version":            apiVersion,
		"identityType":       identityType,
		"licenseNumber":      c.config.LicenseNumber,
		"virtualAccountName": req.CustomerName,
		"nonceStr":           nonce(),
	}

	sig, err := signature.Sign(params, c.config.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign gateway request: %w", err)
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+createAccountPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.config.AppID)
	httpReq.Header.Set("countryCode", countryCode)
	httpReq.Header.Set("Signature", sig)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.GatewayError("gateway request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.GatewayError("failed to read gateway response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("Gateway returned non-success status",
			logging.Field{Key: "status", Value: resp.StatusCode},
			logging.Field{Key: "body", Value: string(respBody)},
		)
		return nil, errors.GatewayError(fmt.Sprintf("gateway returned status %d", resp.StatusCode), nil)
	}

	var envelope CreateAccountResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, errors.GatewayError("failed to decode gateway response", err)
	}

	if !envelope.Status {
		return nil, errors.GatewayError(envelope.RespMsg, nil).WithCode(envelope.RespCode)
	}

	c.logger.Info("Virtual account created",
		logging.Field{Key: "account_no", Value: envelope.Data.VirtualAccountNo},
		logging.Field{Key: "reference", Value: envelope.Data.AccountReference},
	)

	return &envelope, nil
}

// nonce returns a 32-character request nonce.
func nonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
