package repository

import (
	"errors"
	"fmt"

	"sevensystem/internal/apierror"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// translate maps storage errors onto the domain taxonomy. The SQLite message
// is reduced to the constraint class so raw driver text never reaches callers.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.ErrNotFound
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: referência inexistente", apierror.ErrConstraintViolation)
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: registro duplicado", apierror.ErrConstraintViolation)
		case sqlite3.ErrConstraintCheck:
			return fmt.Errorf("%w: valor fora do permitido", apierror.ErrConstraintViolation)
		case sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: campo obrigatório ausente", apierror.ErrConstraintViolation)
		default:
			return apierror.ErrConstraintViolation
		}
	}
	return err
}

func paginate(page, limit int) (offset, size int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return (page - 1) * limit, limit
}
