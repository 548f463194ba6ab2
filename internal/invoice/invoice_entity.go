package invoice

import (
	"time"

	"go-ems/internal/client"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice is the aggregate root for a client bill. Line items and
// payments are owned: they are written only through the engine and
// die with the invoice.
type Invoice struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClientID uuid.UUID `gorm:"type:uuid;not null;index:idx_invoices_client"`
	Client   *client.Client

	IssueDate time.Time `gorm:"type:date;not null"`
	DueDate   time.Time `gorm:"type:date;not null"`
	Status    string    `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_invoices_status"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	AmountPaid  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	LineItems []InvoiceLineItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Payments  []Payment         `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BalanceDue is derived, never stored.
func (i Invoice) BalanceDue() decimal.Decimal {
	return i.TotalAmount.Sub(i.AmountPaid)
}

type InvoiceLineItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index:idx_invoice_line_items_invoice"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`

	Description string          `gorm:"type:varchar(255);not null"`
	Hours       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time
}

type Payment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index:idx_payments_invoice"`

	PaymentDate time.Time       `gorm:"type:date;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Method      *string         `gorm:"type:varchar(50)"`
	Notes       *string         `gorm:"type:text"`

	CreatedAt time.Time
}
