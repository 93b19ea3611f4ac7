package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/ISTS-2025/project-repository-service/internal/models"
	"github.com/ISTS-2025/project-repository-service/internal/repositories"
)

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

// handleDBError translates store errors into the repository error kinds.
// Anything unmapped is wrapped with the operation name and propagated as-is.
func handleDBError(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, repositories.ErrDuplicateKey)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%s: %w", op, repositories.ErrForeignKeyViolation)
	}

	// gorm only translates errors when the dialector supports it; fall back
	// to the raw postgres error codes.
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return fmt.Errorf("%s: %w", op, repositories.ErrDuplicateKey)
		case pgCodeForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, repositories.ErrForeignKeyViolation)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

// getDB picks the transaction handle when one is supplied.
func getDB(base, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return base
}

// applyPagination applies offset, limit and creation-time ordering.
func applyPagination(query *gorm.DB, p models.Pagination) *gorm.DB {
	direction := "DESC"
	if p.Order == models.OrderAsc {
		direction = "ASC"
	}
	return query.
		Order("created_at " + direction).
		Offset(p.Offset()).
		Limit(p.Limit)
}
