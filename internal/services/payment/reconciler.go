package payment

import (
	"context"
	"encoding/json"
	"time"

	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/email"
	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/pkg/apperrors"
)

// Webhook event types delivered by the gateway. Anything else is acknowledged
// and dropped before it reaches the transition logic.
type EventType string

const (
	EventChargeSuccess EventType = "charge.success"
	EventChargeFailed  EventType = "charge.failed"
)

// WebhookEvent is the strict schema a raw webhook body is decoded into.
type WebhookEvent struct {
	Event EventType `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Amount    int64  `json:"amount"` // minor units
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
		Metadata struct {
			PlanType models.PlanType `json:"plan_type"`
		} `json:"metadata"`
	} `json:"data"`
}

// Ledger is the slice of the transaction repository the reconciler needs.
type Ledger interface {
	FindByReference(ctx context.Context, reference string) (*models.PaymentTransaction, error)
	CompleteAndUpgradeUser(ctx context.Context, reference string, expiresAt time.Time) error
	MarkFailed(ctx context.Context, reference string) error
}

// Gateway is the slice of the gateway client the reconciler needs.
type Gateway interface {
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	VerifySignature(rawBody []byte, signatureHeader string) bool
}

// Users resolves the owner of a settled payment for the receipt email.
type Users interface {
	FindByID(id string) (*models.User, error)
}

// Reconciler applies payment-confirmation signals to persisted state exactly
// once. The webhook and the user-facing verify poll are thin adapters over
// the same success/failure transitions, so duplicate deliveries and
// overlapping triggers all funnel into one idempotent path.
type Reconciler struct {
	ledger   Ledger
	gateway  Gateway
	users    Users
	receipts email.Sender
	now      func() time.Time
}

func NewReconciler(ledger Ledger, gateway Gateway) *Reconciler {
	return &Reconciler{
		ledger:  ledger,
		gateway: gateway,
		now:     time.Now,
	}
}

// WithReceipts enables the best-effort receipt email after a settlement.
func (r *Reconciler) WithReceipts(users Users, sender email.Sender) *Reconciler {
	r.users = users
	r.receipts = sender
	return r
}

// HandleWebhook processes one webhook delivery. rawBody must be the undecoded
// request bytes: the signature is computed over them exactly as received.
//
// Error contract for the HTTP layer: InvalidSignature maps to a client error
// (stops provider retries), everything else to a server error (provider
// redelivers, at-least-once).
func (r *Reconciler) HandleWebhook(ctx context.Context, rawBody []byte, signature string) error {
	if !r.gateway.VerifySignature(rawBody, signature) {
		logger.CtxWarn(ctx, "webhook rejected: signature mismatch")
		return apperrors.NewInvalidSignatureError()
	}

	var event WebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return apperrors.NewBadRequestError("Malformed webhook payload")
	}

	switch event.Event {
	case EventChargeSuccess:
		err := r.applySuccess(ctx, event.Data.Reference)
		if apperrors.Is(err, apperrors.ErrAlreadyProcessed) {
			return nil
		}
		return err
	case EventChargeFailed:
		return r.applyFailure(ctx, event.Data.Reference)
	default:
		// Unknown events are acknowledged so the provider stops redelivering
		// them; there is nothing to reconcile.
		logger.CtxInfo(ctx, "webhook event ignored", "event", string(event.Event))
		return nil
	}
}

// ConfirmByReference is the poll path, invoked after the user returns from the
// gateway redirect. It asks the gateway for the settlement state and, on
// success, runs the same transition the webhook would. Only the transaction's
// owner may poll it; a foreign reference is indistinguishable from a missing
// one.
func (r *Reconciler) ConfirmByReference(ctx context.Context, reference, userID string) (*dto.PaymentStatusResponse, error) {
	payment, err := r.ledger.FindByReference(ctx, reference)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.NewNotFoundError("payment", "Payment not found")
		}
		return nil, apperrors.InternalError(err)
	}
	if payment.UserID != userID {
		logger.CtxWarn(ctx, "payment poll rejected: reference owned by another user",
			"reference", reference, "user_id", userID)
		return nil, apperrors.NewNotFoundError("payment", "Payment not found")
	}

	// A transaction already settled locally needs no gateway round-trip.
	if payment.Status.IsTerminal() {
		return statusResponse(payment), nil
	}

	result, err := r.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, err
	}

	if result.Success {
		if err := r.applySuccess(ctx, reference); err != nil && !apperrors.Is(err, apperrors.ErrAlreadyProcessed) {
			return nil, err
		}
	} else if result.GatewayStatus == "failed" {
		if err := r.applyFailure(ctx, reference); err != nil {
			return nil, err
		}
	}
	// Other gateway statuses (abandoned, ongoing, ...) leave the row pending.

	payment, err = r.ledger.FindByReference(ctx, reference)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return statusResponse(payment), nil
}

// applySuccess runs the success transition for a reference:
//  1. already completed -> no-op (ErrAlreadyProcessed, treated as success);
//  2. unknown reference -> inconsistency, reported, nobody's subscription is
//     touched;
//  3. otherwise one atomic write settles the transaction and upgrades the
//     owner, with the expiry rewritten to now + plan duration.
func (r *Reconciler) applySuccess(ctx context.Context, reference string) error {
	payment, err := r.ledger.FindByReference(ctx, reference)
	if err != nil {
		if apperrors.Is(err, repositories.ErrTransactionNotFound) {
			logger.CtxError(ctx, "success signal for unknown reference", "reference", reference)
			return apperrors.NewUnknownReferenceError(reference)
		}
		return apperrors.InternalError(err)
	}

	if payment.Status.IsTerminal() {
		logger.CtxInfo(ctx, "payment already settled, skipping", "reference", reference, "status", string(payment.Status))
		return apperrors.ErrAlreadyProcessed
	}

	expiresAt := r.now().Add(Duration(payment.PlanType))
	err = r.ledger.CompleteAndUpgradeUser(ctx, reference, expiresAt)
	if apperrors.Is(err, repositories.ErrTransactionTerminal) {
		// Lost the race with the other trigger; the payment is settled.
		return apperrors.ErrAlreadyProcessed
	}
	if err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "subscription activated",
		"reference", reference,
		"user_id", payment.UserID,
		"plan", string(payment.PlanType),
		"expires_at", expiresAt,
	)

	r.sendReceipt(ctx, payment)
	return nil
}

// sendReceipt mails a receipt after a settlement. Best effort: failures are
// logged, the reconciliation itself has already committed.
func (r *Reconciler) sendReceipt(ctx context.Context, payment *models.PaymentTransaction) {
	if r.receipts == nil || r.users == nil {
		return
	}
	user, err := r.users.FindByID(payment.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "receipt skipped: owner lookup failed", err, "reference", payment.Reference)
		return
	}
	if err := r.receipts.SendPaymentReceipt(user.Email, user.Name, string(payment.PlanType), payment.Reference); err != nil {
		logger.CtxWithError(ctx, "receipt email failed", err, "reference", payment.Reference)
	}
}

// applyFailure marks a pending transaction failed. The user's subscription is
// never touched by a failure signal, and terminal rows stay as they are.
func (r *Reconciler) applyFailure(ctx context.Context, reference string) error {
	err := r.ledger.MarkFailed(ctx, reference)
	switch {
	case err == nil:
		logger.CtxInfo(ctx, "payment marked failed", "reference", reference)
		return nil
	case apperrors.Is(err, repositories.ErrTransactionTerminal):
		return nil
	case apperrors.Is(err, repositories.ErrTransactionNotFound):
		logger.CtxError(ctx, "failure signal for unknown reference", "reference", reference)
		return apperrors.NewUnknownReferenceError(reference)
	default:
		return apperrors.InternalError(err)
	}
}

func statusResponse(payment *models.PaymentTransaction) *dto.PaymentStatusResponse {
	return &dto.PaymentStatusResponse{
		Reference: payment.Reference,
		Status:    string(payment.Status),
		PlanType:  string(payment.PlanType),
		PaidAt:    payment.PaidAt,
	}
}
