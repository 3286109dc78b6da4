package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/champcode/academy-api/internal/models"
)

func TestRecordPurchaseCommitsPaymentAndCredits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payment_history").WillReturnResult(sqlmock.NewResult(1, 1))
	creditRows := sqlmock.NewRows([]string{"id", "parent_email", "credits_balance", "credits_used", "last_updated"}).
		AddRow("cr1", "parent@example.com", 14, 0, time.Now())
	mock.ExpectQuery("INSERT INTO parent_credits").WillReturnRows(creditRows)
	mock.ExpectCommit()

	payment := &models.PaymentRecord{
		ParentEmail:      "parent@example.com",
		CreditsPurchased: 4,
		AmountCents:      24000,
		Status:           models.PaymentStatusPaid,
	}
	credits, err := repo.RecordPurchase(context.Background(), payment)
	require.NoError(t, err)
	assert.NotEmpty(t, payment.ID)
	assert.Equal(t, 14, credits.Balance)
	assert.Equal(t, 0, credits.Used)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPurchaseRollsBackWhenLedgerFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO payment_history").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("INSERT INTO parent_credits").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.RecordPurchase(context.Background(), &models.PaymentRecord{
		ParentEmail:      "parent@example.com",
		CreditsPurchased: 4,
		Status:           models.PaymentStatusPaid,
	})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCreditsDefaultsToZeroRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, parent_email, credits_balance, credits_used, last_updated FROM parent_credits WHERE parent_email = $1 LIMIT 1")).
		WithArgs("new@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "parent_email", "credits_balance", "credits_used", "last_updated"}))

	credits, err := repo.GetCredits(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, credits.Balance)
	assert.Equal(t, 0, credits.Used)
	assert.Equal(t, "new@example.com", credits.ParentEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPayments(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "parent_email", "child_id", "plan_id", "credits_purchased", "amount_cents", "status", "payment_date", "invoice_url"}).
		AddRow("p1", "parent@example.com", nil, "pl1", 4, 24000, "paid", time.Now(), nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_history WHERE parent_email = $1 ORDER BY payment_date DESC LIMIT 20 OFFSET 0")).
		WithArgs("parent@example.com").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payment_history WHERE parent_email = $1")).
		WithArgs("parent@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	payments, total, err := repo.ListPayments(context.Background(), models.PaymentFilter{ParentEmail: "parent@example.com"})
	require.NoError(t, err)
	assert.Len(t, payments, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetInvoiceURL(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_history SET invoice_url = $2 WHERE id = $1")).
		WithArgs("p1", "/api/v1/invoices/token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetInvoiceURL(context.Background(), "p1", "/api/v1/invoices/token")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
