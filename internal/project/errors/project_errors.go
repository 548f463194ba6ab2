package projecterrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"project not found",
		http.StatusNotFound,
	)
	ErrClientNotFound = apperror.New(
		apperror.CodeNotFound,
		"client not found",
		http.StatusNotFound,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid project id",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"default_billable_rate must be a non-negative decimal",
		http.StatusBadRequest,
	)
)
