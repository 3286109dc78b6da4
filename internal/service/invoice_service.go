package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/champcode/academy-api/internal/models"
	appErrors "github.com/champcode/academy-api/pkg/errors"
	"github.com/champcode/academy-api/pkg/export"
	"github.com/champcode/academy-api/pkg/jobs"
	"github.com/champcode/academy-api/pkg/storage"
)

const jobTypeInvoice = "invoice.generate"

type invoicePaymentRepository interface {
	FindPaymentByID(ctx context.Context, id string) (*models.PaymentRecord, error)
	SetInvoiceURL(ctx context.Context, paymentID, invoiceURL string) error
}

// InvoicePayload carries the purchase context into the background worker.
type InvoicePayload struct {
	Payment    models.PaymentRecord
	PlanName   string
	ParentName string
}

// InvoiceServiceConfig tunes the background invoice pipeline.
type InvoiceServiceConfig struct {
	Workers    int
	MaxRetries int
	PublicPath string
}

// InvoiceService renders purchase invoices to PDF in the background and
// exposes them through signed download tokens. Generation is best effort:
// a purchase never waits on it and a lost invoice can be regenerated.
type InvoiceService struct {
	repo       invoicePaymentRepository
	renderer   *export.InvoiceRenderer
	store      *storage.LocalStorage
	signer     *storage.SignedURLSigner
	queue      *jobs.Queue
	publicPath string
	logger     *zap.Logger
}

// NewInvoiceService constructs the service and its worker queue. Call Start
// before scheduling work.
func NewInvoiceService(repo invoicePaymentRepository, renderer *export.InvoiceRenderer, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg InvoiceServiceConfig, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PublicPath == "" {
		cfg.PublicPath = "/api/v1/invoices"
	}
	s := &InvoiceService{
		repo:       repo,
		renderer:   renderer,
		store:      store,
		signer:     signer,
		publicPath: strings.TrimRight(cfg.PublicPath, "/"),
		logger:     logger,
	}
	s.queue = jobs.NewQueue("invoices", s.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool.
func (s *InvoiceService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker pool.
func (s *InvoiceService) Stop() {
	s.queue.Stop()
}

// Schedule queues invoice generation for a committed purchase.
func (s *InvoiceService) Schedule(payment models.PaymentRecord, plan models.SubscriptionPlan, parentName string) error {
	return s.queue.Enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: jobTypeInvoice,
		Payload: InvoicePayload{
			Payment:    payment,
			PlanName:   plan.Name,
			ParentName: parentName,
		},
	})
}

// Resolve validates a signed download token and opens the invoice file.
func (s *InvoiceService) Resolve(ctx context.Context, token string) (*os.File, string, error) {
	paymentID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired invoice link")
	}

	if _, err := s.repo.FindPaymentByID(ctx, paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "payment not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment")
	}

	file, err := s.store.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "invoice file not found")
	}
	return file, path.Base(relPath), nil
}

func (s *InvoiceService) process(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(InvoicePayload)
	if !ok {
		s.logger.Error("invoice job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	payment := payload.Payment

	pdf, err := s.renderer.Render(export.Invoice{
		Number:      invoiceNumber(payment.ID),
		ParentName:  payload.ParentName,
		ParentEmail: payment.ParentEmail,
		PlanName:    payload.PlanName,
		Credits:     payment.CreditsPurchased,
		AmountCents: payment.AmountCents,
		IssuedAt:    payment.PaymentDate,
	})
	if err != nil {
		return fmt.Errorf("render invoice for payment %s: %w", payment.ID, err)
	}

	relPath := fmt.Sprintf("%s/%s.pdf", payment.PaymentDate.UTC().Format("2006/01"), payment.ID)
	if _, err := s.store.Save(relPath, pdf); err != nil {
		return fmt.Errorf("store invoice for payment %s: %w", payment.ID, err)
	}

	token, _, err := s.signer.Generate(payment.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign invoice for payment %s: %w", payment.ID, err)
	}

	url := fmt.Sprintf("%s/%s", s.publicPath, token)
	if err := s.repo.SetInvoiceURL(ctx, payment.ID, url); err != nil {
		return fmt.Errorf("persist invoice url for payment %s: %w", payment.ID, err)
	}

	s.logger.Info("invoice generated",
		zap.String("payment_id", payment.ID),
		zap.String("path", relPath))
	return nil
}

// invoiceNumber derives a stable human-facing number from the payment id.
func invoiceNumber(paymentID string) string {
	compact := strings.ReplaceAll(paymentID, "-", "")
	if len(compact) > 8 {
		compact = compact[:8]
	}
	return "INV-" + strings.ToUpper(compact)
}
