package invoice

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"go-ems/internal/events"
	invoiceerrors "go-ems/internal/invoice/errors"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	StatusDraft   = "DRAFT"
	StatusSent    = "SENT"
	StatusPaid    = "PAID"
	StatusOverdue = "OVERDUE"
)

//go:generate mockgen -source=invoice_service.go -destination=mock/invoice_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, req GenerateInvoiceRequest) (InvoiceResponse, error)
	SetStatus(ctx context.Context, id, status string) (InvoiceResponse, error)
	RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (InvoiceResponse, error)
	Delete(ctx context.Context, id string) error
	GetAll(ctx context.Context) ([]InvoiceResponse, error)
	GetByID(ctx context.Context, id string) (InvoiceResponse, error)
	GetByClient(ctx context.Context, clientID string) ([]InvoiceResponse, error)
	Search(ctx context.Context, req SearchInvoicesRequest) ([]InvoiceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("invoice.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("invoice.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

// Generate bills a client for a period: it snapshots the approved
// billable entries, groups them per (project, user) in first-seen
// order and rates each group at the project's current default rate.
// Running it twice for overlapping periods double-bills; guarding
// against that is the caller's job.
func (s *service) Generate(ctx context.Context, req GenerateInvoiceRequest) (InvoiceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("generate invoice requested",
		zap.String("request_id", rid),
		zap.String("client_id", req.ClientID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	clientUUID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidClientID
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return InvoiceResponse{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return InvoiceResponse{}, err
	}
	if startDate.After(endDate) {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidDateRange
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate invoice begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return InvoiceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.ClientExists(ctx, req.ClientID)
	if err != nil {
		return InvoiceResponse{}, err
	}
	if !exists {
		return InvoiceResponse{}, invoiceerrors.ErrClientNotFound
	}

	entries, err := qtx.FindBillableEntries(ctx, req.ClientID, startDate, endDate)
	if err != nil {
		s.logger.Error("generate invoice billable query failed", zap.Error(err))
		return InvoiceResponse{}, err
	}
	if len(entries) == 0 {
		s.logger.Warn("generate invoice nothing to bill",
			zap.String("client_id", req.ClientID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return InvoiceResponse{}, invoiceerrors.ErrNothingToBill
	}

	invoiceID := uuid.New()
	items := buildLineItems(invoiceID, entries)

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal)
	}

	inv := &Invoice{
		ID:          invoiceID,
		ClientID:    clientUUID,
		IssueDate:   time.Now().UTC().Truncate(24 * time.Hour),
		DueDate:     dueDate,
		Status:      StatusDraft,
		TotalAmount: total,
		AmountPaid:  decimal.Zero,
	}

	if err := qtx.Create(ctx, inv); err != nil {
		s.logger.Error("generate invoice persist failed", zap.Error(err))
		return InvoiceResponse{}, err
	}
	if err := qtx.CreateLineItems(ctx, items); err != nil {
		s.logger.Error("generate invoice line items persist failed", zap.Error(err))
		return InvoiceResponse{}, err
	}

	if s.outbox != nil {
		event := events.InvoiceGeneratedEvent{
			EventType:   "invoice_generated",
			InvoiceID:   inv.ID.String(),
			ClientID:    inv.ClientID.String(),
			TotalAmount: inv.TotalAmount.StringFixed(2),
			LineItems:   len(items),
			OccurredAt:  time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return InvoiceResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "invoice",
			AggregateID:   inv.ID.String(),
			EventType:     event.EventType,
			Topic:         events.InvoiceLifecycleTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("generate invoice outbox persist failed",
				zap.String("invoice_id", inv.ID.String()),
				zap.Error(err),
			)
			return InvoiceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate invoice commit failed", zap.String("request_id", rid), zap.Error(err))
		return InvoiceResponse{}, err
	}

	s.logger.Info("generate invoice success",
		zap.String("request_id", rid),
		zap.String("invoice_id", inv.ID.String()),
		zap.Int("line_items", len(items)),
		zap.String("total_amount", inv.TotalAmount.StringFixed(2)),
	)

	return s.reloadResponse(ctx, inv.ID.String())
}

// SetStatus overwrites the invoice status unconditionally. This is an
// administrative override, deliberately looser than the timesheet
// state machine.
func (s *service) SetStatus(ctx context.Context, id, status string) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InvoiceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	inv, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return InvoiceResponse{}, mapNotFound(err)
	}

	inv.Status = status
	if err := qtx.Update(ctx, inv); err != nil {
		s.logger.Error("set invoice status persist failed", zap.String("invoice_id", id), zap.Error(err))
		return InvoiceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return InvoiceResponse{}, err
	}

	s.logger.Info("set invoice status success",
		zap.String("invoice_id", id),
		zap.String("status", status),
	)

	return s.reloadResponse(ctx, id)
}

// RecordPayment appends a payment and increments amountPaid under a
// row lock, so concurrent payments never under-count. Reaching the
// total flips the invoice to PAID; it is never demoted afterwards.
func (s *service) RecordPayment(ctx context.Context, id string, req RecordPaymentRequest) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidAmount
	}
	paymentDate, err := parseDate(req.PaymentDate)
	if err != nil {
		return InvoiceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InvoiceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	inv, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return InvoiceResponse{}, mapNotFound(err)
	}

	payment := &Payment{
		ID:          uuid.New(),
		InvoiceID:   inv.ID,
		PaymentDate: paymentDate,
		Amount:      amount,
		Method:      req.Method,
		Notes:       req.Notes,
	}
	if err := qtx.CreatePayment(ctx, payment); err != nil {
		s.logger.Error("record payment persist failed", zap.String("invoice_id", id), zap.Error(err))
		return InvoiceResponse{}, err
	}

	inv.AmountPaid = inv.AmountPaid.Add(amount)
	if inv.AmountPaid.GreaterThanOrEqual(inv.TotalAmount) {
		inv.Status = StatusPaid
	}

	if err := qtx.Update(ctx, inv); err != nil {
		s.logger.Error("record payment update failed", zap.String("invoice_id", id), zap.Error(err))
		return InvoiceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return InvoiceResponse{}, err
	}

	s.logger.Info("record payment success",
		zap.String("invoice_id", id),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("status", inv.Status),
	)

	return s.reloadResponse(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invoiceerrors.ErrInvalidInvoiceID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	inv, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if inv.Status != StatusDraft {
		return invoiceerrors.ErrInvoiceNotDraft
	}

	if err := qtx.Delete(ctx, id); err != nil {
		s.logger.Error("delete invoice failed", zap.String("invoice_id", id), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("delete invoice success", zap.String("invoice_id", id))
	return nil
}

func (s *service) GetAll(ctx context.Context) ([]InvoiceResponse, error) {
	invoices, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(invoices), nil
}

func (s *service) GetByID(ctx context.Context, id string) (InvoiceResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return InvoiceResponse{}, invoiceerrors.ErrInvalidInvoiceID
	}

	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, mapNotFound(err)
	}
	return mapToResponse(*inv), nil
}

func (s *service) GetByClient(ctx context.Context, clientID string) ([]InvoiceResponse, error) {
	if _, err := uuid.Parse(clientID); err != nil {
		return nil, invoiceerrors.ErrInvalidClientID
	}

	invoices, err := s.repo.FindByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(invoices), nil
}

func (s *service) Search(ctx context.Context, req SearchInvoicesRequest) ([]InvoiceResponse, error) {
	var issuedFrom, issuedThrough *time.Time
	if req.IssuedFrom != "" {
		t, err := parseDate(req.IssuedFrom)
		if err != nil {
			return nil, err
		}
		issuedFrom = &t
	}
	if req.IssuedThrough != "" {
		t, err := parseDate(req.IssuedThrough)
		if err != nil {
			return nil, err
		}
		issuedThrough = &t
	}

	invoices, err := s.repo.Search(ctx, req.ClientID, req.Status, issuedFrom, issuedThrough)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(invoices), nil
}

// buildLineItems folds the billable entry snapshot into one line item
// per (project, user) pair, preserving first-seen order.
func buildLineItems(invoiceID uuid.UUID, entries []BillableEntry) []InvoiceLineItem {
	type group struct {
		index int
		item  InvoiceLineItem
	}

	groups := make(map[string]*group)
	order := make([]string, 0)

	for _, entry := range entries {
		key := entry.ProjectID.String() + "_" + entry.UserID.String()
		g, ok := groups[key]
		if !ok {
			g = &group{
				index: len(order),
				item: InvoiceLineItem{
					ID:          uuid.New(),
					InvoiceID:   invoiceID,
					ProjectID:   entry.ProjectID,
					UserID:      entry.UserID,
					Description: entry.ProjectName + " - " + entry.UserName,
					Hours:       decimal.Zero,
					Rate:        entry.Rate,
				},
			}
			groups[key] = g
			order = append(order, key)
		}
		g.item.Hours = g.item.Hours.Add(entry.Hours)
	}

	items := make([]InvoiceLineItem, len(order))
	for _, key := range order {
		g := groups[key]
		g.item.LineTotal = g.item.Hours.Mul(g.item.Rate).Round(2)
		items[g.index] = g.item
	}
	return items
}

func (s *service) reloadResponse(ctx context.Context, id string) (InvoiceResponse, error) {
	inv, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return InvoiceResponse{}, mapNotFound(err)
	}
	return mapToResponse(*inv), nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return invoiceerrors.ErrInvoiceNotFound
	}
	return err
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, invoiceerrors.ErrInvalidDate
	}
	return t, nil
}

func mapToResponse(inv Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:          inv.ID.String(),
		ClientID:    inv.ClientID.String(),
		IssueDate:   inv.IssueDate.Format("2006-01-02"),
		DueDate:     inv.DueDate.Format("2006-01-02"),
		Status:      inv.Status,
		TotalAmount: inv.TotalAmount.StringFixed(2),
		AmountPaid:  inv.AmountPaid.StringFixed(2),
		BalanceDue:  inv.BalanceDue().StringFixed(2),
		LineItems:   make([]InvoiceLineItemResponse, 0, len(inv.LineItems)),
		Payments:    make([]PaymentResponse, 0, len(inv.Payments)),
	}

	if inv.Client != nil {
		resp.ClientName = inv.Client.Name
	}

	for _, item := range inv.LineItems {
		resp.LineItems = append(resp.LineItems, InvoiceLineItemResponse{
			ID:          item.ID.String(),
			ProjectID:   item.ProjectID.String(),
			UserID:      item.UserID.String(),
			Description: item.Description,
			Hours:       item.Hours.StringFixed(2),
			Rate:        item.Rate.StringFixed(2),
			LineTotal:   item.LineTotal.StringFixed(2),
		})
	}
	for _, p := range inv.Payments {
		resp.Payments = append(resp.Payments, PaymentResponse{
			ID:          p.ID.String(),
			PaymentDate: p.PaymentDate.Format("2006-01-02"),
			Amount:      p.Amount.StringFixed(2),
			Method:      p.Method,
			Notes:       p.Notes,
		})
	}

	return resp
}

func mapToListResponse(invoices []Invoice) []InvoiceResponse {
	resp := make([]InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp[i] = mapToResponse(inv)
	}
	return resp
}
