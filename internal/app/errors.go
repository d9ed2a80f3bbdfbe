package app

import (
	"errors"
	"fmt"
	"net/http"

	"kirokumd/api/internal/store"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func errAccessDenied() *DomainError {
	return domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
}

func errNotFound(what string) *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", what+" not found", nil)
}

func errValidation(message string) *DomainError {
	return domainError(http.StatusBadRequest, "VALIDATION", message, nil)
}

func errUnauthorized(message string) *DomainError {
	return domainError(http.StatusUnauthorized, "UNAUTHORIZED", message, nil)
}

func errStore(err error) *DomainError {
	return domainError(http.StatusBadGateway, "STORE_ERROR", "Persistence operation failed", err.Error())
}

// wrapStoreErr maps a store failure to the domain taxonomy, preserving the
// not-found case.
func wrapStoreErr(err error, what string) *DomainError {
	if errors.Is(err, store.ErrNotFound) {
		return errNotFound(what)
	}
	return errStore(err)
}
