package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

type fakeLedgerRepo struct {
	credits     map[string]*models.ParentCredits
	payments    []models.PaymentRecord
	purchaseErr error
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{credits: map[string]*models.ParentCredits{}}
}

func (f *fakeLedgerRepo) RecordPurchase(_ context.Context, payment *models.PaymentRecord) (*models.ParentCredits, error) {
	if f.purchaseErr != nil {
		return nil, f.purchaseErr
	}
	if payment.ID == "" {
		payment.ID = "pay-1"
	}
	row, ok := f.credits[payment.ParentEmail]
	if !ok {
		row = &models.ParentCredits{ID: "cr-1", ParentEmail: payment.ParentEmail}
		f.credits[payment.ParentEmail] = row
	}
	row.Balance += payment.CreditsPurchased
	row.LastUpdated = time.Now().UTC()
	f.payments = append(f.payments, *payment)
	return row, nil
}

func (f *fakeLedgerRepo) GetCredits(_ context.Context, parentEmail string) (*models.ParentCredits, error) {
	if row, ok := f.credits[parentEmail]; ok {
		return row, nil
	}
	return &models.ParentCredits{ParentEmail: parentEmail}, nil
}

func (f *fakeLedgerRepo) ListPayments(_ context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, int, error) {
	var out []models.PaymentRecord
	for _, p := range f.payments {
		if p.ParentEmail == filter.ParentEmail {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

type fakePlanFinder struct {
	plans map[string]*models.SubscriptionPlan
}

func (f *fakePlanFinder) FindPlanByID(_ context.Context, id string) (*models.SubscriptionPlan, error) {
	plan, ok := f.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return plan, nil
}

type fakeInvoiceScheduler struct {
	scheduled []models.PaymentRecord
	err       error
}

func (f *fakeInvoiceScheduler) Schedule(payment models.PaymentRecord, _ models.SubscriptionPlan, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.scheduled = append(f.scheduled, payment)
	return nil
}

type fakeAuditor struct {
	logs []*models.AuditLog
}

func (f *fakeAuditor) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func starterPlan() *models.SubscriptionPlan {
	return &models.SubscriptionPlan{
		ID:               "plan-starter",
		Name:             "Starter",
		CreditsPerPeriod: 8,
		PriceCents:       9900,
	}
}

func TestPurchaseAppliesCreditsAndSchedulesInvoice(t *testing.T) {
	ledger := newFakeLedgerRepo()
	ledger.credits["amina@example.com"] = &models.ParentCredits{ID: "cr-1", ParentEmail: "amina@example.com", Balance: 6}
	invoices := &fakeInvoiceScheduler{}
	auditor := &fakeAuditor{}

	svc := NewPaymentService(ledger, &fakePlanFinder{plans: map[string]*models.SubscriptionPlan{"plan-starter": starterPlan()}}, auditor, invoices, nil, nil, nil)

	parent := models.UserInfo{ID: "u-1", Email: "amina@example.com", FullName: "Amina Yusuf", Role: models.RoleParent}
	resp, err := svc.Purchase(context.Background(), parent, models.PurchaseRequest{PlanID: "plan-starter"})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.Payment.CreditsPurchased)
	assert.Equal(t, int64(9900), resp.Payment.AmountCents)
	assert.Equal(t, models.PaymentStatusPaid, resp.Payment.Status)
	assert.Equal(t, 14, resp.Credits.Balance)

	require.Len(t, invoices.scheduled, 1)
	assert.Equal(t, resp.Payment.ID, invoices.scheduled[0].ID)

	require.Len(t, auditor.logs, 1)
	assert.Equal(t, models.AuditActionPurchase, auditor.logs[0].Action)
}

func TestPurchaseUnknownPlan(t *testing.T) {
	svc := NewPaymentService(newFakeLedgerRepo(), &fakePlanFinder{plans: map[string]*models.SubscriptionPlan{}}, nil, nil, nil, nil, nil)

	_, err := svc.Purchase(context.Background(), models.UserInfo{Email: "amina@example.com"}, models.PurchaseRequest{PlanID: "plan-ghost"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPurchaseLedgerFailureSchedulesNoInvoice(t *testing.T) {
	ledger := newFakeLedgerRepo()
	ledger.purchaseErr = errors.New("deadlock detected")
	invoices := &fakeInvoiceScheduler{}

	svc := NewPaymentService(ledger, &fakePlanFinder{plans: map[string]*models.SubscriptionPlan{"plan-starter": starterPlan()}}, nil, invoices, nil, nil, nil)

	_, err := svc.Purchase(context.Background(), models.UserInfo{Email: "amina@example.com"}, models.PurchaseRequest{PlanID: "plan-starter"})
	require.Error(t, err)
	assert.Empty(t, invoices.scheduled)
}

func TestPurchaseSurvivesInvoiceSchedulingFailure(t *testing.T) {
	ledger := newFakeLedgerRepo()
	invoices := &fakeInvoiceScheduler{err: errors.New("queue not started")}

	svc := NewPaymentService(ledger, &fakePlanFinder{plans: map[string]*models.SubscriptionPlan{"plan-starter": starterPlan()}}, nil, invoices, nil, nil, nil)

	resp, err := svc.Purchase(context.Background(), models.UserInfo{Email: "amina@example.com"}, models.PurchaseRequest{PlanID: "plan-starter"})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Credits.Balance)
}

func TestBalanceDefaultsToZero(t *testing.T) {
	svc := NewPaymentService(newFakeLedgerRepo(), &fakePlanFinder{}, nil, nil, nil, nil, nil)

	credits, err := svc.Balance(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Zero(t, credits.Balance)
	assert.Zero(t, credits.Used)
	assert.Equal(t, "new@example.com", credits.ParentEmail)
}

func TestHistoryScopesToParent(t *testing.T) {
	ledger := newFakeLedgerRepo()
	ledger.payments = []models.PaymentRecord{
		{ID: "p-1", ParentEmail: "amina@example.com"},
		{ID: "p-2", ParentEmail: "other@example.com"},
		{ID: "p-3", ParentEmail: "amina@example.com"},
	}

	svc := NewPaymentService(ledger, &fakePlanFinder{}, nil, nil, nil, nil, nil)

	payments, pagination, err := svc.History(context.Background(), models.PaymentFilter{ParentEmail: "amina@example.com"})
	require.NoError(t, err)
	assert.Len(t, payments, 2)
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Equal(t, 1, pagination.Page)
}
