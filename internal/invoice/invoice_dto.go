package invoice

type GenerateInvoiceRequest struct {
	ClientID  string `json:"client_id" binding:"required,uuid"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	DueDate   string `json:"due_date" binding:"required"`
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=DRAFT SENT PAID OVERDUE"`
}

type RecordPaymentRequest struct {
	Amount      string  `json:"amount" binding:"required"`
	PaymentDate string  `json:"payment_date" binding:"required"`
	Method      *string `json:"method"`
	Notes       *string `json:"notes"`
}

type SearchInvoicesRequest struct {
	ClientID      string `form:"client_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=DRAFT SENT PAID OVERDUE"`
	IssuedFrom    string `form:"issued_from"`
	IssuedThrough string `form:"issued_through"`
}

type InvoiceLineItemResponse struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	UserID      string `json:"user_id"`
	Description string `json:"description"`
	Hours       string `json:"hours"`
	Rate        string `json:"rate"`
	LineTotal   string `json:"line_total"`
}

type PaymentResponse struct {
	ID          string  `json:"id"`
	PaymentDate string  `json:"payment_date"`
	Amount      string  `json:"amount"`
	Method      *string `json:"method,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

type InvoiceResponse struct {
	ID          string                    `json:"id"`
	ClientID    string                    `json:"client_id"`
	ClientName  string                    `json:"client_name,omitempty"`
	IssueDate   string                    `json:"issue_date"`
	DueDate     string                    `json:"due_date"`
	Status      string                    `json:"status"`
	TotalAmount string                    `json:"total_amount"`
	AmountPaid  string                    `json:"amount_paid"`
	BalanceDue  string                    `json:"balance_due"`
	LineItems   []InvoiceLineItemResponse `json:"line_items"`
	Payments    []PaymentResponse         `json:"payments"`
}
