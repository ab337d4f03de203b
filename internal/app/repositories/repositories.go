package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
)

// ErrNotFound is returned when a lookup matches no row or a mutation affects none
var ErrNotFound = apperrors.ErrResourceNotFound

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	AlunoRepository   *AlunoRepository
	ProjetoRepository *ProjetoRepository
}

// NewRepositories initializes all repositories over one pool
func NewRepositories(db Querier) *Repositories {
	return &Repositories{
		AlunoRepository:   NewAlunoRepository(db),
		ProjetoRepository: NewProjetoRepository(db),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// expectOneRow maps a zero-row mutation to ErrNotFound
func expectOneRow(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
