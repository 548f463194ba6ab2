package invoiceerrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrInvoiceNotFound = apperror.New(
		apperror.CodeNotFound,
		"invoice not found",
		http.StatusNotFound,
	)
	ErrClientNotFound = apperror.New(
		apperror.CodeNotFound,
		"client not found",
		http.StatusNotFound,
	)
	ErrInvalidInvoiceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid invoice id",
		http.StatusBadRequest,
	)
	ErrInvalidClientID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid client id",
		http.StatusBadRequest,
	)
	ErrInvalidDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"amount must be a positive decimal",
		http.StatusBadRequest,
	)
	ErrNothingToBill = apperror.New(
		apperror.CodeInvalidState,
		"no approved billable time in the requested period",
		http.StatusConflict,
	)
	ErrInvoiceNotDraft = apperror.New(
		apperror.CodeInvalidState,
		"only DRAFT invoices can be deleted",
		http.StatusConflict,
	)
)
