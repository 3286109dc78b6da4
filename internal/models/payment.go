package models

import "time"

// PaymentStatus values for the append-only payment log.
const (
	PaymentStatusPaid   = "paid"
	PaymentStatusFailed = "failed"
)

// PaymentRecord is one row of the append-only payment_history log.
type PaymentRecord struct {
	ID               string    `db:"id" json:"id"`
	ParentEmail      string    `db:"parent_email" json:"parent_email"`
	ChildID          *string   `db:"child_id" json:"child_id,omitempty"`
	PlanID           *string   `db:"plan_id" json:"plan_id,omitempty"`
	CreditsPurchased int       `db:"credits_purchased" json:"credits_purchased"`
	AmountCents      int64     `db:"amount_cents" json:"amount_cents"`
	Status           string    `db:"status" json:"status"`
	PaymentDate      time.Time `db:"payment_date" json:"payment_date"`
	InvoiceURL       *string   `db:"invoice_url" json:"invoice_url,omitempty"`
}

// ParentCredits is the single ledger row per parent account. The balance is
// only ever changed through an atomic database-side increment.
type ParentCredits struct {
	ID          string    `db:"id" json:"id"`
	ParentEmail string    `db:"parent_email" json:"parent_email"`
	Balance     int       `db:"credits_balance" json:"credits_balance"`
	Used        int       `db:"credits_used" json:"credits_used"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

// PurchaseRequest asks to buy a subscription plan for the calling parent.
type PurchaseRequest struct {
	PlanID  string  `json:"plan_id" validate:"required"`
	ChildID *string `json:"child_id,omitempty"`
}

// PurchaseResponse returns the recorded payment and the resulting balance.
type PurchaseResponse struct {
	Payment PaymentRecord `json:"payment"`
	Credits ParentCredits `json:"credits"`
}

// PaymentFilter pages through a parent's payment history.
type PaymentFilter struct {
	ParentEmail string
	Page        int
	PageSize    int
}
