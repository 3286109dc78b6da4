package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/export"
	"github.com/champcode/academy-api/pkg/jobs"
	"github.com/champcode/academy-api/pkg/storage"
)

type fakeInvoiceRepo struct {
	payments map[string]*models.PaymentRecord
	urls     map[string]string
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{payments: map[string]*models.PaymentRecord{}, urls: map[string]string{}}
}

func (f *fakeInvoiceRepo) FindPaymentByID(_ context.Context, id string) (*models.PaymentRecord, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func (f *fakeInvoiceRepo) SetInvoiceURL(_ context.Context, paymentID, invoiceURL string) error {
	f.urls[paymentID] = invoiceURL
	return nil
}

func newInvoiceFixture(t *testing.T, repo *fakeInvoiceRepo) *InvoiceService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("invoice-test-secret", time.Hour)
	return NewInvoiceService(repo, export.NewInvoiceRenderer(""), store, signer, InvoiceServiceConfig{}, nil)
}

func samplePayment() models.PaymentRecord {
	return models.PaymentRecord{
		ID:               "7d7bb936-1roc-4f6e-9c3a-000000000001",
		ParentEmail:      "amina@example.com",
		CreditsPurchased: 8,
		AmountCents:      9900,
		Status:           models.PaymentStatusPaid,
		PaymentDate:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestInvoiceProcessStoresPDFAndURL(t *testing.T) {
	repo := newFakeInvoiceRepo()
	payment := samplePayment()
	repo.payments[payment.ID] = &payment
	svc := newInvoiceFixture(t, repo)

	err := svc.process(context.Background(), jobs.Job{
		ID:   "job-1",
		Type: jobTypeInvoice,
		Payload: InvoicePayload{
			Payment:    payment,
			PlanName:   "Starter",
			ParentName: "Amina Yusuf",
		},
	})
	require.NoError(t, err)

	url, ok := repo.urls[payment.ID]
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(url, "/api/v1/invoices/"), "got %s", url)

	token := strings.TrimPrefix(url, "/api/v1/invoices/")
	file, name, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, payment.ID+".pdf", name)
	data, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"), "stored file is not a PDF")
}

func TestInvoiceResolveRejectsTamperedToken(t *testing.T) {
	repo := newFakeInvoiceRepo()
	payment := samplePayment()
	repo.payments[payment.ID] = &payment
	svc := newInvoiceFixture(t, repo)

	require.NoError(t, svc.process(context.Background(), jobs.Job{
		Payload: InvoicePayload{Payment: payment, PlanName: "Starter", ParentName: "Amina Yusuf"},
	}))

	token := strings.TrimPrefix(repo.urls[payment.ID], "/api/v1/invoices/")
	tampered := strings.Replace(token, payment.ID, "other-payment", 1)

	_, _, err := svc.Resolve(context.Background(), tampered)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestInvoiceResolveUnknownPayment(t *testing.T) {
	repo := newFakeInvoiceRepo()
	payment := samplePayment()
	svc := newInvoiceFixture(t, repo)

	// Token signs fine, but the payment row was never recorded.
	require.NoError(t, svc.process(context.Background(), jobs.Job{
		Payload: InvoicePayload{Payment: payment, PlanName: "Starter", ParentName: "Amina Yusuf"},
	}))

	token := strings.TrimPrefix(repo.urls[payment.ID], "/api/v1/invoices/")
	_, _, err := svc.Resolve(context.Background(), token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestInvoiceScheduleRequiresStartedQueue(t *testing.T) {
	svc := newInvoiceFixture(t, newFakeInvoiceRepo())

	err := svc.Schedule(samplePayment(), models.SubscriptionPlan{Name: "Starter"}, "Amina Yusuf")
	require.Error(t, err)
}

func TestInvoiceNumberDerivation(t *testing.T) {
	assert.Equal(t, "INV-7D7BB936", invoiceNumber("7d7bb936-1roc-4f6e-9c3a-000000000001"))
	assert.Equal(t, "INV-AB", invoiceNumber("ab"))
}
