package leaveerrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrApplicantNotFound = apperror.New(
		apperror.CodeNotFound,
		"applicant not found",
		http.StatusNotFound,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end date must not be before start date",
		http.StatusBadRequest,
	)
	ErrInvalidApprovers = apperror.New(
		apperror.CodeInvalidInput,
		"approvers must be chosen from the eligible candidates",
		http.StatusBadRequest,
	)
	ErrNoApprovers = apperror.New(
		apperror.CodeInvalidInput,
		"at least one approver is required",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInsufficientBalance,
		"insufficient leave balance",
		http.StatusConflict,
	)
	ErrNotAnApprover = apperror.New(
		apperror.CodeForbidden,
		"you are not an approver of this leave request",
		http.StatusForbidden,
	)
	ErrInvalidState = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been actioned",
		http.StatusConflict,
	)
)
