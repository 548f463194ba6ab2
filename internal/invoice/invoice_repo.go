package invoice

import (
	"context"
	"database/sql"
	"time"

	"go-ems/internal/shared/connection"
	"go-ems/internal/timesheet"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillableEntry is one approved billable time entry joined with the
// rows the billing engine needs to synthesize a line item.
type BillableEntry struct {
	ProjectID   uuid.UUID
	ProjectName string
	UserID      uuid.UUID
	UserName    string
	Hours       decimal.Decimal
	Rate        decimal.Decimal
}

//go:generate mockgen -source=invoice_repo.go -destination=mock/invoice_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, inv *Invoice) error
	CreateLineItems(ctx context.Context, items []InvoiceLineItem) error
	CreatePayment(ctx context.Context, p *Payment) error
	FindAll(ctx context.Context) ([]Invoice, error)
	FindByID(ctx context.Context, id string) (*Invoice, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Invoice, error)
	FindByClient(ctx context.Context, clientID string) ([]Invoice, error)
	Search(ctx context.Context, clientID, status string, issuedFrom, issuedThrough *time.Time) ([]Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id string) error
	ClientExists(ctx context.Context, clientID string) (bool, error)
	FindBillableEntries(ctx context.Context, clientID string, startDate, endDate time.Time) ([]BillableEntry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto the caller's transaction; every
// statement issued through the returned value runs on tx.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(inv).Error
}

func (r *repository) CreateLineItems(ctx context.Context, items []InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) CreatePayment(ctx context.Context, p *Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payments").
		Preload("Client").
		Order("issue_date DESC, created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("payment_date ASC, created_at ASC")
		}).
		Preload("Client").
		First(&inv, "id = ?", id).Error
	return &inv, err
}

// FindByIDForUpdate locks the invoice row so concurrent payments on
// the same invoice apply their increments in a serial order.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "id = ?", id).Error
	return &inv, err
}

func (r *repository) FindByClient(ctx context.Context, clientID string) ([]Invoice, error) {
	var invoices []Invoice
	err := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payments").
		Preload("Client").
		Where("client_id = ?", clientID).
		Order("issue_date DESC, created_at DESC").
		Find(&invoices).Error
	return invoices, err
}

func (r *repository) Search(ctx context.Context, clientID, status string, issuedFrom, issuedThrough *time.Time) ([]Invoice, error) {
	db := r.db.WithContext(ctx).
		Preload("LineItems").
		Preload("Payments").
		Preload("Client")

	if clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if issuedFrom != nil {
		db = db.Where("issue_date >= ?", *issuedFrom)
	}
	if issuedThrough != nil {
		db = db.Where("issue_date <= ?", *issuedThrough)
	}

	var invoices []Invoice
	err := db.Order("issue_date DESC, created_at DESC").Find(&invoices).Error
	return invoices, err
}

func (r *repository) Update(ctx context.Context, inv *Invoice) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(inv).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Delete(&Payment{}).Error; err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("invoice_id = ?", id).
		Delete(&InvoiceLineItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&Invoice{}, "id = ?", id).Error
}

func (r *repository) ClientExists(ctx context.Context, clientID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("clients").
		Where("id = ?", clientID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

// FindBillableEntries snapshots the entries eligible for billing:
// billable task type, project owned by the client, timesheet
// APPROVED, entry date inside the period. Rows come back in entry
// creation order so grouping is first-seen stable.
func (r *repository) FindBillableEntries(ctx context.Context, clientID string, startDate, endDate time.Time) ([]BillableEntry, error) {
	var rows []BillableEntry
	err := r.db.WithContext(ctx).
		Table("time_entries").
		Select(`projects.id AS project_id,
			projects.name AS project_name,
			users.id AS user_id,
			CONCAT(users.first_name, ' ', users.last_name) AS user_name,
			time_entries.hours AS hours,
			projects.default_billable_rate AS rate`).
		Joins("JOIN timesheets ON timesheets.id = time_entries.timesheet_id").
		Joins("JOIN projects ON projects.id = time_entries.project_id").
		Joins("JOIN users ON users.id = timesheets.user_id").
		Where("time_entries.task_type = ?", timesheet.TaskTypeBillable).
		Where("timesheets.status = ?", timesheet.StatusApproved).
		Where("projects.client_id = ?", clientID).
		Where("time_entries.entry_date BETWEEN ? AND ?", startDate, endDate).
		Order("time_entries.created_at ASC, time_entries.id ASC").
		Scan(&rows).Error
	return rows, err
}
