package payment

import (
	"context"

	"eduhealth_backend/internal/dto"
	"eduhealth_backend/internal/logger"
	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/pkg/apperrors"
)

// Initializer is the slice of the gateway client the service needs to start
// a transaction.
type Initializer interface {
	Initialize(ctx context.Context, email string, amountMinor int64, currency string, plan models.PlanType, reference, callbackURL string) (*InitResult, error)
}

// Service owns the payment lifecycle up to the point a reconciliation signal
// arrives: pricing, reference generation, the gateway initialize call, and
// the pending ledger row.
type Service struct {
	userRepo    repositories.UserRepository
	txRepo      repositories.TransactionRepository
	gateway     Initializer
	pricing     *Pricing
	callbackURL string
}

func NewService(
	userRepo repositories.UserRepository,
	txRepo repositories.TransactionRepository,
	gateway Initializer,
	pricing *Pricing,
	callbackURL string,
) *Service {
	return &Service{
		userRepo:    userRepo,
		txRepo:      txRepo,
		gateway:     gateway,
		pricing:     pricing,
		callbackURL: callbackURL,
	}
}

// InitializePayment prices the plan, registers the transaction with the
// gateway and persists the pending ledger row the reconciler will later
// settle. The ledger write happens after the gateway call: a gateway failure
// must not leave orphaned pending rows.
func (s *Service) InitializePayment(ctx context.Context, userID string, plan models.PlanType) (*dto.InitializePaymentResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}

	amountMinor, err := s.pricing.AmountFor(plan)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Unknown plan type")
	}

	reference := GenerateReference()

	result, err := s.gateway.Initialize(ctx, user.Email, amountMinor, s.pricing.Currency, plan, reference, s.callbackURL)
	if err != nil {
		logger.CtxWithError(ctx, "payment initialization failed", err, "user_id", userID, "plan", string(plan))
		return nil, err
	}

	tx := &models.PaymentTransaction{
		UserID:      user.ID,
		Reference:   reference,
		AmountMinor: amountMinor,
		Currency:    s.pricing.Currency,
		PlanType:    plan,
		Status:      models.PaymentStatusPending,
	}
	if err := s.txRepo.Create(ctx, tx); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "payment initialized",
		"reference", reference,
		"user_id", userID,
		"plan", string(plan),
		"amount_minor", amountMinor,
		"currency", s.pricing.Currency,
	)

	return &dto.InitializePaymentResponse{
		Reference:        reference,
		AuthorizationURL: result.AuthorizationURL,
		AmountMinor:      amountMinor,
		Currency:         s.pricing.Currency,
	}, nil
}

// History lists the user's ledger entries, newest first.
func (s *Service) History(ctx context.Context, userID string) ([]dto.PaymentHistoryItem, error) {
	payments, err := s.txRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]dto.PaymentHistoryItem, 0, len(payments))
	for _, p := range payments {
		items = append(items, dto.PaymentHistoryItem{
			Reference:   p.Reference,
			AmountMinor: p.AmountMinor,
			Currency:    p.Currency,
			PlanType:    string(p.PlanType),
			Status:      string(p.Status),
			CreatedAt:   p.CreatedAt,
			PaidAt:      p.PaidAt,
		})
	}
	return items, nil
}
