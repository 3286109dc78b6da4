package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
)

type paymentLedgerRepository interface {
	RecordPurchase(ctx context.Context, payment *models.PaymentRecord) (*models.ParentCredits, error)
	GetCredits(ctx context.Context, parentEmail string) (*models.ParentCredits, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, int, error)
}

type planFinder interface {
	FindPlanByID(ctx context.Context, id string) (*models.SubscriptionPlan, error)
}

type purchaseAuditor interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// InvoiceScheduler queues invoice generation after a purchase commits.
type InvoiceScheduler interface {
	Schedule(payment models.PaymentRecord, plan models.SubscriptionPlan, parentName string) error
}

// PaymentService owns the purchase flow and the credits ledger reads. The
// ledger write itself is a single repository call so a crash between steps
// can never leave a paid row without its credit increment.
type PaymentService struct {
	ledger    paymentLedgerRepository
	plans     planFinder
	auditor   purchaseAuditor
	invoices  InvoiceScheduler
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(ledger paymentLedgerRepository, plans planFinder, auditor purchaseAuditor, invoices InvoiceScheduler, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *PaymentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		ledger:    ledger,
		plans:     plans,
		auditor:   auditor,
		invoices:  invoices,
		cache:     cache,
		validator: validate,
		logger:    logger,
	}
}

// Purchase buys a subscription plan for the calling parent. The payment row
// and the credit increment commit together; invoice generation happens later
// in the background.
func (s *PaymentService) Purchase(ctx context.Context, parent models.UserInfo, req models.PurchaseRequest) (*models.PurchaseResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid purchase payload")
	}

	plan, err := s.plans.FindPlanByID(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subscription plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load plan")
	}

	payment := &models.PaymentRecord{
		ParentEmail:      parent.Email,
		ChildID:          req.ChildID,
		PlanID:           &plan.ID,
		CreditsPurchased: plan.CreditsPerPeriod,
		AmountCents:      plan.PriceCents,
		Status:           models.PaymentStatusPaid,
		PaymentDate:      time.Now().UTC(),
	}

	credits, err := s.ledger.RecordPurchase(ctx, payment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record purchase")
	}

	s.invalidateParentCache(ctx, parent.Email)

	if s.auditor != nil {
		if err := s.auditor.CreateAuditLog(ctx, &models.AuditLog{
			UserID:     &parent.ID,
			Action:     models.AuditActionPurchase,
			Resource:   "payments",
			ResourceID: &payment.ID,
			NewValues:  []byte(fmt.Sprintf(`{"plan_id":%q,"credits":%d,"amount_cents":%d}`, plan.ID, payment.CreditsPurchased, payment.AmountCents)),
		}); err != nil {
			s.logger.Warn("failed to record purchase audit log", zap.Error(err))
		}
	}

	if s.invoices != nil {
		if err := s.invoices.Schedule(*payment, *plan, parent.FullName); err != nil {
			s.logger.Warn("failed to schedule invoice generation",
				zap.String("payment_id", payment.ID), zap.Error(err))
		}
	}

	return &models.PurchaseResponse{Payment: *payment, Credits: *credits}, nil
}

// Balance returns the parent's ledger row, zero-valued for new accounts.
func (s *PaymentService) Balance(ctx context.Context, parentEmail string) (*models.ParentCredits, error) {
	cacheKey := parentCreditsCacheKey(parentEmail)
	if s.cache.Enabled() {
		var cached models.ParentCredits
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	credits, err := s.ledger.GetCredits(ctx, parentEmail)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load credit balance")
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, credits, 0); err != nil {
			s.logger.Debug("failed to cache credit balance", zap.Error(err))
		}
	}
	return credits, nil
}

// History returns a page of the parent's payment history, newest first.
func (s *PaymentService) History(ctx context.Context, filter models.PaymentFilter) ([]models.PaymentRecord, *models.Pagination, error) {
	payments, total, err := s.ledger.ListPayments(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return payments, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

func (s *PaymentService) invalidateParentCache(ctx context.Context, parentEmail string) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("parent:*:%s", parentEmail)); err != nil {
		s.logger.Debug("failed to invalidate parent cache", zap.String("parent", parentEmail), zap.Error(err))
	}
}

func parentCreditsCacheKey(parentEmail string) string {
	return fmt.Sprintf("parent:credits:%s", parentEmail)
}
