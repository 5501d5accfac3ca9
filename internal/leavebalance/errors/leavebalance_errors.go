package leavebalanceerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid user id",
		http.StatusBadRequest,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found",
		http.StatusNotFound,
	)
	ErrNotQuotaManager = apperror.New(
		apperror.CodeForbidden,
		"you can only manage quota for your direct reports",
		http.StatusForbidden,
	)
	ErrNegativeQuota = apperror.New(
		apperror.CodeInvalidInput,
		"leave quota cannot be negative",
		http.StatusBadRequest,
	)
)
