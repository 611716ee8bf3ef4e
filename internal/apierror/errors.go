package apierror

import (
	"errors"
	"net/http"
)

// Domain error taxonomy. Lower layers wrap these with %w; callers test with errors.Is.
var (
	// ErrConstraintViolation: a write would break a CHECK, UNIQUE or FOREIGN KEY rule.
	ErrConstraintViolation = errors.New("violação de restrição")
	// ErrNotFound: the referenced product, movement, sale or user does not exist.
	ErrNotFound = errors.New("registro não encontrado")
	// ErrInvariantViolation: ledger arithmetic does not reconcile.
	ErrInvariantViolation = errors.New("movimentação inconsistente")
	// ErrInsufficientStock is never returned by the sale lifecycle (the decrement is
	// skipped instead); it is used to tag skipped items in logs and responses.
	ErrInsufficientStock = errors.New("estoque insuficiente")

	ErrInvalidCredentials = errors.New("usuário ou senha incorretos")
	ErrWeakPassword       = errors.New("a nova senha não é forte o suficiente")
	ErrPasswordMismatch   = errors.New("as senhas novas não coincidem")
)

// Status maps an error to the HTTP status code returned to clients.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConstraintViolation):
		return http.StatusConflict
	case errors.Is(err, ErrInvariantViolation),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, ErrPasswordMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// From builds the client-facing envelope for err. Unknown errors get a generic
// message so raw storage errors never reach the client.
func From(err error) *APIError {
	if Status(err) == http.StatusInternalServerError {
		return New("Erro interno do servidor")
	}
	return New(err.Error())
}
