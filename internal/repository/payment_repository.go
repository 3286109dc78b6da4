package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/champcode/academy-api/internal/models"
)

// PaymentRepository handles the payment log and the credits ledger.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs the repository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// RecordPurchase appends the payment row and applies the credit increment in
// one transaction. The ledger update is a database-side atomic upsert, so
// concurrent purchases for the same parent serialize instead of losing an
// increment.
func (r *PaymentRepository) RecordPurchase(ctx context.Context, payment *models.PaymentRecord) (*models.ParentCredits, error) {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin purchase tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertPayment = `INSERT INTO payment_history (id, parent_email, child_id, plan_id, credits_purchased, amount_cents, status, payment_date, invoice_url)
        VALUES (:id, :parent_email, :child_id, :plan_id, :credits_purchased, :amount_cents, :status, :payment_date, :invoice_url)`
	if _, err := tx.NamedExecContext(ctx, insertPayment, payment); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	const applyCredits = `INSERT INTO parent_credits (id, parent_email, credits_balance, credits_used, last_updated)
        VALUES ($1, $2, $3, 0, $4)
        ON CONFLICT (parent_email) DO UPDATE
        SET credits_balance = parent_credits.credits_balance + EXCLUDED.credits_balance, last_updated = EXCLUDED.last_updated
        RETURNING id, parent_email, credits_balance, credits_used, last_updated`
	var credits models.ParentCredits
	if err := tx.GetContext(ctx, &credits, applyCredits, uuid.NewString(), payment.ParentEmail, payment.CreditsPurchased, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("apply credits: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit purchase tx: %w", err)
	}
	return &credits, nil
}

// GetCredits returns the ledger row for a parent, zero-valued when absent.
func (r *PaymentRepository) GetCredits(ctx context.Context, parentEmail string) (*models.ParentCredits, error) {
	const query = `SELECT id, parent_email, credits_balance, credits_used, last_updated FROM parent_credits WHERE parent_email = $1 LIMIT 1`
	var credits models.ParentCredits
	if err := r.db.GetContext(ctx, &credits, query, parentEmail); err != nil {
		if err == sql.ErrNoRows {
			return &models.ParentCredits{ParentEmail: parentEmail}, nil
		}
		return nil, fmt.Errorf("get parent credits: %w", err)
	}
	return &credits, nil
}

// ListPayments returns a page of the parent's payment history, newest first.
func (r *PaymentRepository) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, int, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT id, parent_email, child_id, plan_id, credits_purchased, amount_cents, status, payment_date, invoice_url
        FROM payment_history WHERE parent_email = $1 ORDER BY payment_date DESC LIMIT %d OFFSET %d`, pageSize, offset)

	var payments []models.PaymentRecord
	if err := r.db.SelectContext(ctx, &payments, query, filter.ParentEmail); err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}

	const countQuery = `SELECT COUNT(*) FROM payment_history WHERE parent_email = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, filter.ParentEmail); err != nil {
		return nil, 0, fmt.Errorf("count payments: %w", err)
	}

	return payments, total, nil
}

// FindPaymentByID returns a single payment record.
func (r *PaymentRepository) FindPaymentByID(ctx context.Context, id string) (*models.PaymentRecord, error) {
	const query = `SELECT id, parent_email, child_id, plan_id, credits_purchased, amount_cents, status, payment_date, invoice_url FROM payment_history WHERE id = $1 LIMIT 1`
	var payment models.PaymentRecord
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find payment by id: %w", err)
	}
	return &payment, nil
}

// SetInvoiceURL stores the signed invoice link once generation finishes.
func (r *PaymentRepository) SetInvoiceURL(ctx context.Context, paymentID, invoiceURL string) error {
	const query = `UPDATE payment_history SET invoice_url = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, paymentID, invoiceURL); err != nil {
		return fmt.Errorf("set invoice url: %w", err)
	}
	return nil
}
