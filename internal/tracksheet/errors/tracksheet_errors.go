package tracksheeterrors

import (
	"net/http"

	"go-hrms/internal/shared/apperror"
)

var (
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"item not found",
		http.StatusNotFound,
	)
	ErrNotOwner = apperror.New(
		apperror.CodeForbidden,
		"only the sheet owner can do this",
		http.StatusForbidden,
	)
	ErrNotAssigner = apperror.New(
		apperror.CodeForbidden,
		"only the assigner can archive this task",
		http.StatusForbidden,
	)
	ErrNotParty = apperror.New(
		apperror.CodeForbidden,
		"only the assignee or the assigner can update this task",
		http.StatusForbidden,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid item status",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year or month",
		http.StatusBadRequest,
	)
)
