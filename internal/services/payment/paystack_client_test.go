package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"eduhealth_backend/internal/models"
	"eduhealth_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*PaystackClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewPaystackClient(PaystackConfig{
		SecretKey: "sk_test_secret",
		BaseURL:   server.URL,
	})
	return client, server
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestInitialize_SendsExpectedRequest(t *testing.T) {
	var captured struct {
		path string
		auth string
		body initializeRequest
	}

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Authorization URL created",
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "eduhealth_20260101000000_deadbeef",
			},
		})
	})

	result, err := client.Initialize(
		context.Background(),
		"user@example.com", 17982, "ZAR",
		models.PlanMonthly,
		"eduhealth_20260101000000_deadbeef",
		"https://app.example.com/payments/callback",
	)
	require.NoError(t, err)

	assert.Equal(t, "/transaction/initialize", captured.path)
	assert.Equal(t, "Bearer sk_test_secret", captured.auth)
	assert.Equal(t, "user@example.com", captured.body.Email)
	assert.Equal(t, int64(17982), captured.body.Amount)
	assert.Equal(t, "ZAR", captured.body.Currency)
	assert.Equal(t, models.PlanMonthly, captured.body.Metadata.PlanType)
	assert.Equal(t, "https://app.example.com/payments/callback", captured.body.CallbackURL)

	assert.Equal(t, "https://checkout.paystack.com/abc123", result.AuthorizationURL)
	assert.Equal(t, "eduhealth_20260101000000_deadbeef", result.Reference)
}

func TestInitialize_GatewayDeclines(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid amount",
		})
	})

	_, err := client.Initialize(context.Background(), "user@example.com", 0, "ZAR", models.PlanMonthly, "ref", "")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeGatewayError, appErr.Code)
	assert.Equal(t, http.StatusBadGateway, appErr.HTTPCode)
	assert.Contains(t, appErr.Message, "Invalid amount")
}

func TestInitialize_GatewayHTTPError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Initialize(context.Background(), "user@example.com", 17982, "ZAR", models.PlanMonthly, "ref", "")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeGatewayError, appErr.Code)
}

func TestVerify_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/verify/ref_123", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"status":  true,
			"message": "Verification successful",
			"data": map[string]any{
				"status": "success",
				"amount": 17982,
			},
		})
	})

	result, err := client.Verify(context.Background(), "ref_123")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, int64(17982), result.AmountMinor)
	assert.Equal(t, "success", result.GatewayStatus)
}

func TestVerify_NotSettled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"status": "abandoned",
				"amount": 17982,
			},
		})
	})

	result, err := client.Verify(context.Background(), "ref_123")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "abandoned", result.GatewayStatus)
}

func TestVerify_MalformedResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.Verify(context.Background(), "ref_123")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeGatewayError, appErr.Code)
}

func TestVerifySignature(t *testing.T) {
	client := NewPaystackClient(PaystackConfig{SecretKey: "sk_test_secret"})
	body := []byte(`{"event":"charge.success","data":{"reference":"ref_123"}}`)

	t.Run("valid signature accepted", func(t *testing.T) {
		assert.True(t, client.VerifySignature(body, signBody("sk_test_secret", body)))
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		assert.False(t, client.VerifySignature(body, signBody("sk_other_secret", body)))
	})

	t.Run("altered body rejected", func(t *testing.T) {
		sig := signBody("sk_test_secret", body)
		altered := []byte(`{"event":"charge.success","data":{"reference":"ref_999"}}`)
		assert.False(t, client.VerifySignature(altered, sig))
	})

	t.Run("re-serialized body rejected", func(t *testing.T) {
		// Semantically identical JSON with different whitespace must fail:
		// the digest covers bytes, not meaning.
		sig := signBody("sk_test_secret", body)
		reserialized := []byte(`{"event": "charge.success", "data": {"reference": "ref_123"}}`)
		assert.False(t, client.VerifySignature(reserialized, sig))
	})

	t.Run("empty signature rejected", func(t *testing.T) {
		assert.False(t, client.VerifySignature(body, ""))
	})
}
