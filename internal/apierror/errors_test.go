package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("produto 9: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("insert: %w", ErrConstraintViolation), http.StatusConflict},
		{ErrInvariantViolation, http.StatusUnprocessableEntity},
		{ErrWeakPassword, http.StatusUnprocessableEntity},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{errors.New("disk I/O error"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestFrom_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Erro interno do servidor", From(errors.New("database is locked")).Detail)

	wrapped := fmt.Errorf("movimentação 4: %w", ErrNotFound)
	assert.Equal(t, wrapped.Error(), From(wrapped).Detail)
}
