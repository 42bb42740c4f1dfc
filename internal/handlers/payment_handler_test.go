package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/internal/services/payment"
	"eduhealth_backend/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const webhookSecret = "sk_test_secret"

type memoryLedger struct {
	payments map[string]*models.PaymentTransaction
}

func (l *memoryLedger) FindByReference(_ context.Context, reference string) (*models.PaymentTransaction, error) {
	p, ok := l.payments[reference]
	if !ok {
		return nil, repositories.ErrTransactionNotFound
	}
	copied := *p
	return &copied, nil
}

func (l *memoryLedger) CompleteAndUpgradeUser(_ context.Context, reference string, _ time.Time) error {
	p, ok := l.payments[reference]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	if p.Status.IsTerminal() {
		return repositories.ErrTransactionTerminal
	}
	now := time.Now()
	p.Status = models.PaymentStatusCompleted
	p.PaidAt = &now
	return nil
}

func (l *memoryLedger) MarkFailed(_ context.Context, reference string) error {
	p, ok := l.payments[reference]
	if !ok {
		return repositories.ErrTransactionNotFound
	}
	if p.Status.IsTerminal() {
		return repositories.ErrTransactionTerminal
	}
	p.Status = models.PaymentStatusFailed
	return nil
}

func newWebhookServer(t *testing.T, ledger *memoryLedger) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// The real gateway client signs and verifies with HMAC-SHA512, so the
	// test exercises the production signature path end to end.
	gateway := payment.NewPaystackClient(payment.PaystackConfig{SecretKey: webhookSecret})
	reconciler := payment.NewReconciler(ledger, gateway)
	handler := NewPaymentHandler(NewBaseHandler(validator.New()), nil, reconciler)

	router := gin.New()
	router.POST("/payments/webhook", handler.Webhook)
	return router
}

func sign(body []byte) string {
	mac := hmac.New(sha512.New, []byte(webhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(router *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payments/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("X-Paystack-Signature", signature)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestWebhook_ValidDelivery(t *testing.T) {
	ledger := &memoryLedger{payments: map[string]*models.PaymentTransaction{
		"ref_1": {UserID: "user_1", Reference: "ref_1", PlanType: models.PlanMonthly, Status: models.PaymentStatusPending},
	}}
	router := newWebhookServer(t, ledger)

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)
	rec := postWebhook(router, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.PaymentStatusCompleted, ledger.payments["ref_1"].Status)
}

func TestWebhook_InvalidSignatureGets400(t *testing.T) {
	ledger := &memoryLedger{payments: map[string]*models.PaymentTransaction{
		"ref_1": {UserID: "user_1", Reference: "ref_1", PlanType: models.PlanMonthly, Status: models.PaymentStatusPending},
	}}
	router := newWebhookServer(t, ledger)

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)
	rec := postWebhook(router, body, "deadbeef")

	// 4xx tells the provider a retry cannot succeed.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, models.PaymentStatusPending, ledger.payments["ref_1"].Status)
}

func TestWebhook_MissingSignatureGets400(t *testing.T) {
	router := newWebhookServer(t, &memoryLedger{payments: map[string]*models.PaymentTransaction{}})

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)
	rec := postWebhook(router, body, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_UnknownReferenceGets500(t *testing.T) {
	router := newWebhookServer(t, &memoryLedger{payments: map[string]*models.PaymentTransaction{}})

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_ghost"}}`)
	rec := postWebhook(router, body, sign(body))

	// 5xx keeps the provider redelivering until the ledger catches up.
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhook_DuplicateDeliveriesBothAck(t *testing.T) {
	ledger := &memoryLedger{payments: map[string]*models.PaymentTransaction{
		"ref_1": {UserID: "user_1", Reference: "ref_1", PlanType: models.PlanMonthly, Status: models.PaymentStatusPending},
	}}
	router := newWebhookServer(t, ledger)

	body := []byte(`{"event":"charge.success","data":{"reference":"ref_1"}}`)
	first := postWebhook(router, body, sign(body))
	second := postWebhook(router, body, sign(body))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)

	require.NotNil(t, ledger.payments["ref_1"].PaidAt)
	assert.Equal(t, models.PaymentStatusCompleted, ledger.payments["ref_1"].Status)
}

func TestWebhook_UnknownEventAcked(t *testing.T) {
	router := newWebhookServer(t, &memoryLedger{payments: map[string]*models.PaymentTransaction{}})

	body := []byte(`{"event":"subscription.create","data":{"reference":""}}`)
	rec := postWebhook(router, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
}
