package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"eduhealth_backend/internal/models"
	"eduhealth_backend/pkg/apperrors"
)

// PaystackClient is a stateless adapter over the Paystack transaction API.
// One instance is constructed at startup and shared; it holds no per-request
// state beyond the configured keys and the bounded-timeout HTTP client.
type PaystackClient struct {
	secretKey string
	publicKey string
	baseURL   string
	http      *http.Client
}

type PaystackConfig struct {
	SecretKey string
	PublicKey string
	BaseURL   string
	Timeout   time.Duration
}

func NewPaystackClient(cfg PaystackConfig) *PaystackClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &PaystackClient{
		secretKey: cfg.SecretKey,
		publicKey: cfg.PublicKey,
		baseURL:   cfg.BaseURL,
		http:      &http.Client{Timeout: timeout},
	}
}

type InitResult struct {
	Reference        string
	AuthorizationURL string
	AccessCode       string
}

type VerifyResult struct {
	Success       bool
	AmountMinor   int64
	GatewayStatus string
}

type initializeRequest struct {
	Email       string          `json:"email"`
	Amount      int64           `json:"amount"` // minor units
	Currency    string          `json:"currency"`
	Reference   string          `json:"reference"`
	CallbackURL string          `json:"callback_url,omitempty"`
	Metadata    paymentMetadata `json:"metadata"`
}

type paymentMetadata struct {
	PlanType models.PlanType `json:"plan_type"`
	Platform string          `json:"platform"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status string `json:"status"`
		Amount int64  `json:"amount"`
	} `json:"data"`
}

// Initialize starts a transaction with the gateway. It touches no local
// state; the caller persists the pending ledger row after it succeeds.
func (c *PaystackClient) Initialize(ctx context.Context, email string, amountMinor int64, currency string, plan models.PlanType, reference, callbackURL string) (*InitResult, error) {
	payload := initializeRequest{
		Email:       email,
		Amount:      amountMinor,
		Currency:    currency,
		Reference:   reference,
		CallbackURL: callbackURL,
		Metadata: paymentMetadata{
			PlanType: plan,
			Platform: "eduhealth",
		},
	}

	var resp initializeResponse
	if err := c.post(ctx, "/transaction/initialize", payload, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, apperrors.NewGatewayError(nil, gatewayMessage(resp.Message, "Payment initialization failed"))
	}

	return &InitResult{
		Reference:        resp.Data.Reference,
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
	}, nil
}

// Verify polls the gateway for the settlement state of a known reference.
// Idempotent: once the gateway has settled, repeated calls return the same
// terminal result.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var resp verifyResponse
	if err := c.get(ctx, "/transaction/verify/"+reference, &resp); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, apperrors.NewGatewayError(nil, gatewayMessage(resp.Message, "Payment verification failed"))
	}

	return &VerifyResult{
		Success:       resp.Data.Status == "success",
		AmountMinor:   resp.Data.Amount,
		GatewayStatus: resp.Data.Status,
	}, nil
}

// VerifySignature checks the webhook HMAC-SHA512 hex digest against the exact
// raw bytes of the request body. It must never be handed a re-serialized
// payload: key order or whitespace differences would break the match.
func (c *PaystackClient) VerifySignature(rawBody []byte, signatureHeader string) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}

func (c *PaystackClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperrors.InternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return apperrors.InternalError(err)
	}
	return c.do(req, out)
}

func (c *PaystackClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return apperrors.InternalError(err)
	}
	return c.do(req, out)
}

func (c *PaystackClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.NewGatewayError(err, "Payment gateway unreachable")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewGatewayError(err, "Failed to read gateway response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperrors.NewGatewayError(
			fmt.Errorf("gateway returned HTTP %d: %s", resp.StatusCode, truncate(data, 512)),
			"Payment gateway request failed",
		)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewGatewayError(err, "Malformed gateway response")
	}
	return nil
}

func gatewayMessage(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
