package payment

import (
	"context"
	"testing"
	"time"

	"eduhealth_backend/internal/models"
	"eduhealth_backend/internal/repositories"
	"eduhealth_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByID(id string) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, repositories.ErrUserNotFound
	}
	return s.user, nil
}

func (s *stubUserRepo) FindByEmail(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (s *stubUserRepo) Create(*models.User) error { return nil }
func (s *stubUserRepo) Update(*models.User) error { return nil }
func (s *stubUserRepo) DowngradeExpired(time.Time) (int64, error) {
	return 0, nil
}

type stubTxRepo struct {
	created   []*models.PaymentTransaction
	byUser    []models.PaymentTransaction
	createErr error
}

func (s *stubTxRepo) Create(_ context.Context, tx *models.PaymentTransaction) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, tx)
	return nil
}

func (s *stubTxRepo) FindByReference(context.Context, string) (*models.PaymentTransaction, error) {
	return nil, repositories.ErrTransactionNotFound
}

func (s *stubTxRepo) FindByUser(context.Context, string) ([]models.PaymentTransaction, error) {
	return s.byUser, nil
}

func (s *stubTxRepo) CompleteAndUpgradeUser(context.Context, string, time.Time) error { return nil }
func (s *stubTxRepo) MarkFailed(context.Context, string) error { return nil }

type stubInitializer struct {
	result    *InitResult
	err       error
	lastEmail string
	lastPlan  models.PlanType
	amount    int64
	calls     int
}

func (s *stubInitializer) Initialize(_ context.Context, email string, amountMinor int64, _ string, plan models.PlanType, reference, _ string) (*InitResult, error) {
	s.calls++
	s.lastEmail = email
	s.lastPlan = plan
	s.amount = amountMinor
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &InitResult{Reference: reference, AuthorizationURL: "https://checkout.example.com/x"}, nil
}

func testUser() *models.User {
	u := &models.User{Email: "user@example.com", Name: "Test User"}
	u.ID = "user_1"
	return u
}

func TestInitializePayment(t *testing.T) {
	userRepo := &stubUserRepo{user: testUser()}
	txRepo := &stubTxRepo{}
	gateway := &stubInitializer{}
	svc := NewService(userRepo, txRepo, gateway, NewPricing("ZAR", 18.0), "https://app.example.com/cb")

	resp, err := svc.InitializePayment(context.Background(), "user_1", models.PlanMonthly)
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", gateway.lastEmail)
	assert.Equal(t, models.PlanMonthly, gateway.lastPlan)
	assert.Equal(t, int64(17982), gateway.amount)

	require.Len(t, txRepo.created, 1)
	created := txRepo.created[0]
	assert.Equal(t, "user_1", created.UserID)
	assert.Equal(t, resp.Reference, created.Reference)
	assert.Equal(t, int64(17982), created.AmountMinor)
	assert.Equal(t, "ZAR", created.Currency)
	assert.Equal(t, models.PaymentStatusPending, created.Status)

	assert.Equal(t, "https://checkout.example.com/x", resp.AuthorizationURL)
	assert.Equal(t, "ZAR", resp.Currency)
}

func TestInitializePayment_UnknownUser(t *testing.T) {
	svc := NewService(&stubUserRepo{}, &stubTxRepo{}, &stubInitializer{}, NewPricing("ZAR", 18.0), "")

	_, err := svc.InitializePayment(context.Background(), "nobody", models.PlanMonthly)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 404, appErr.HTTPCode)
}

func TestInitializePayment_InvalidPlan(t *testing.T) {
	gateway := &stubInitializer{}
	svc := NewService(&stubUserRepo{user: testUser()}, &stubTxRepo{}, gateway, NewPricing("ZAR", 18.0), "")

	_, err := svc.InitializePayment(context.Background(), "user_1", models.PlanType("weekly"))
	require.Error(t, err)
	assert.Equal(t, 0, gateway.calls, "invalid plans never reach the gateway")
}

func TestInitializePayment_GatewayFailureLeavesNoLedgerRow(t *testing.T) {
	txRepo := &stubTxRepo{}
	gateway := &stubInitializer{err: apperrors.NewGatewayError(nil, "Payment gateway unreachable")}
	svc := NewService(&stubUserRepo{user: testUser()}, txRepo, gateway, NewPricing("ZAR", 18.0), "")

	_, err := svc.InitializePayment(context.Background(), "user_1", models.PlanMonthly)
	require.Error(t, err)
	assert.Empty(t, txRepo.created, "no pending row without a gateway transaction")
}

func TestHistory(t *testing.T) {
	paidAt := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	txRepo := &stubTxRepo{byUser: []models.PaymentTransaction{
		{
			Reference:   "ref_2",
			AmountMinor: 179982,
			Currency:    "ZAR",
			PlanType:    models.PlanAnnual,
			Status:      models.PaymentStatusCompleted,
			PaidAt:      &paidAt,
		},
		{
			Reference:   "ref_1",
			AmountMinor: 17982,
			Currency:    "ZAR",
			PlanType:    models.PlanMonthly,
			Status:      models.PaymentStatusFailed,
		},
	}}
	svc := NewService(&stubUserRepo{user: testUser()}, txRepo, &stubInitializer{}, NewPricing("ZAR", 18.0), "")

	items, err := svc.History(context.Background(), "user_1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "ref_2", items[0].Reference)
	assert.Equal(t, "completed", items[0].Status)
	assert.Equal(t, "annual", items[0].PlanType)
	require.NotNil(t, items[0].PaidAt)
	assert.Nil(t, items[1].PaidAt)
}
