package gorm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/esasma/API-Recettes/internal/domain/recipe"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps driver errors onto the domain's store classifications.
// gorm's TranslateError covers most cases; the fallbacks catch drivers
// that hand back their native error instead.
func classify(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", recipe.ErrDuplicateKey, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", recipe.ErrForeignKeyViolation, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %v", recipe.ErrDuplicateKey, err)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %v", recipe.ErrForeignKeyViolation, err)
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", recipe.ErrDuplicateKey, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", recipe.ErrForeignKeyViolation, err)
	}

	return err
}
