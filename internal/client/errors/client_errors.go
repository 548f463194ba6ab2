package clienterrors

import (
	"net/http"

	"go-ems/internal/shared/apperror"
)

var (
	ErrClientNotFound = apperror.New(
		apperror.CodeNotFound,
		"client not found",
		http.StatusNotFound,
	)
	ErrInvalidClientID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid client id",
		http.StatusBadRequest,
	)
)
