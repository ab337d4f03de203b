package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/dberrors"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/logger"
)

// AlunoEmailConstraint is the unique constraint on aluno.email
const AlunoEmailConstraint = "aluno_email_key"

// AlunoRepository handles student database operations
type AlunoRepository struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewAlunoRepository creates a new AlunoRepository
func NewAlunoRepository(db Querier) *AlunoRepository {
	return &AlunoRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// WithTx returns a repository running its statements inside tx
func (r *AlunoRepository) WithTx(tx pgx.Tx) *AlunoRepository {
	return &AlunoRepository{db: tx, sb: r.sb}
}

func (r *AlunoRepository) selectAluno() squirrel.SelectBuilder {
	return r.sb.Select(
		"a.id", "a.nome", "a.email", "a.admin", "a.aprovado",
		"a.data_cadastro", "a.id_projeto", "COALESCE(p.nome, '')", "COALESCE(a.token, '')",
	).
		From("aluno a").
		LeftJoin("projeto p ON p.id = a.id_projeto")
}

func scanAluno(row pgx.Row) (*models.Aluno, error) {
	aluno := &models.Aluno{}
	err := row.Scan(
		&aluno.ID, &aluno.Nome, &aluno.Email, &aluno.Admin, &aluno.Aprovado,
		&aluno.DataCadastro, &aluno.IDProjeto, &aluno.NomeProjeto, &aluno.Token,
	)
	return aluno, err
}

func (r *AlunoRepository) queryAlunos(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Aluno, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build aluno list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing aluno list query")
		return nil, fmt.Errorf("error querying alunos: %w", err)
	}
	defer rows.Close()

	alunos := []*models.Aluno{}
	for rows.Next() {
		aluno, err := scanAluno(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning aluno row: %w", err)
		}
		alunos = append(alunos, aluno)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aluno rows: %w", err)
	}

	return alunos, nil
}

func filterCondition(filter models.AlunoFilter) squirrel.Sqlizer {
	if filter == models.AlunoFilterPending {
		return squirrel.Eq{"a.aprovado": false}
	}
	return squirrel.And{
		squirrel.Eq{"a.aprovado": true},
		squirrel.NotEq{"a.id_projeto": nil},
	}
}

// EnsureAdmin inserts the administrator unless its e-mail is already taken.
// It reports whether a row was inserted.
func (r *AlunoRepository) EnsureAdmin(ctx context.Context, admin *models.Aluno) (bool, error) {
	sql, args, err := r.sb.Insert("aluno").
		Columns("nome", "email", "senha", "admin", "aprovado").
		Values(admin.Nome, admin.Email, admin.Senha, true, true).
		Suffix("ON CONFLICT (email) DO NOTHING RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build ensure admin query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&admin.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		logger.Error().Err(err).Str("email", admin.Email).Msg("Error inserting admin")
		return false, fmt.Errorf("error inserting admin: %w", err)
	}
	admin.Admin = true
	admin.Aprovado = true
	return true, nil
}

// Create inserts a student and assigns the generated id and registration time.
func (r *AlunoRepository) Create(ctx context.Context, aluno *models.Aluno) (*models.Aluno, error) {
	sql, args, err := r.sb.Insert("aluno").
		Columns("nome", "email", "senha", "admin", "aprovado", "id_projeto").
		Values(aluno.Nome, aluno.Email, aluno.Senha, aluno.Admin, aluno.Aprovado, aluno.IDProjeto).
		Suffix("RETURNING id, data_cadastro").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create aluno query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&aluno.ID, &aluno.DataCadastro); err != nil {
		if dberrors.IsDuplicateConstraintError(err, AlunoEmailConstraint) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return nil, fmt.Errorf("%w: project %v does not exist", apperrors.ErrValidationFailed, aluno.IDProjeto)
		}
		logger.Error().Err(err).Str("email", aluno.Email).Msg("Error executing create aluno query")
		return nil, fmt.Errorf("error creating aluno: %w", err)
	}

	return aluno, nil
}

// Update saves nome, email and id_projeto
func (r *AlunoRepository) Update(ctx context.Context, aluno *models.Aluno) error {
	sql, args, err := r.sb.Update("aluno").
		SetMap(map[string]interface{}{
			"nome":       aluno.Nome,
			"email":      aluno.Email,
			"id_projeto": aluno.IDProjeto,
		}).
		Where(squirrel.Eq{"id": aluno.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update aluno query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, AlunoEmailConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("alunoID", aluno.ID).Msg("Error executing update aluno query")
		return fmt.Errorf("error updating aluno: %w", err)
	}
	return expectOneRow(tag)
}

func (r *AlunoRepository) setColumn(ctx context.Context, column string, value interface{}, where squirrel.Eq) error {
	sql, args, err := r.sb.Update("aluno").
		Set(column, value).
		Where(where).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update %s query: %w", column, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error updating aluno column")
		return fmt.Errorf("error updating aluno %s: %w", column, err)
	}
	return expectOneRow(tag)
}

// SetPassword stores a new password hash
func (r *AlunoRepository) SetPassword(ctx context.Context, id int64, hash string) error {
	return r.setColumn(ctx, "senha", hash, squirrel.Eq{"id": id})
}

// SetToken stores the session token of the student with email; "" clears it
func (r *AlunoRepository) SetToken(ctx context.Context, email, token string) error {
	return r.setColumn(ctx, "token", helpers.NullIfEmpty(token), squirrel.Eq{"email": email})
}

// SetAdmin toggles the administrator flag
func (r *AlunoRepository) SetAdmin(ctx context.Context, id int64, admin bool) error {
	return r.setColumn(ctx, "admin", admin, squirrel.Eq{"id": id})
}

// SetApproved toggles the approval flag. Approving an approved student still succeeds.
func (r *AlunoRepository) SetApproved(ctx context.Context, id int64, approved bool) error {
	return r.setColumn(ctx, "aprovado", approved, squirrel.Eq{"id": id})
}

// Delete removes a student
func (r *AlunoRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("aluno").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete aluno query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("alunoID", id).Msg("Error executing delete aluno query")
		return fmt.Errorf("error deleting aluno: %w", err)
	}
	return expectOneRow(tag)
}

// EmailExists checks whether a student already uses email
func (r *AlunoRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("aluno").
		Where(squirrel.Eq{"email": email}).
		Prefix("SELECT EXISTS (").Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build email exists query: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		logger.Error().Err(err).Msg("Error checking aluno email")
		return false, fmt.Errorf("error checking email: %w", err)
	}
	return exists, nil
}

// GetPasswordHashByEmail returns the stored hash, or ErrNotFound
func (r *AlunoRepository) GetPasswordHashByEmail(ctx context.Context, email string) (string, error) {
	sql, args, err := r.sb.Select("senha").
		From("aluno").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build password query: %w", err)
	}

	var hash string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error getting password hash: %w", err)
	}
	return hash, nil
}

// GetTokenByEmail returns the current session token ("" when logged out), or ErrNotFound
func (r *AlunoRepository) GetTokenByEmail(ctx context.Context, email string) (string, error) {
	sql, args, err := r.sb.Select("COALESCE(token, '')").
		From("aluno").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build token query: %w", err)
	}

	var token string
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("error getting token: %w", err)
	}
	return token, nil
}

// ListAll returns every student ordered by name
func (r *AlunoRepository) ListAll(ctx context.Context) ([]*models.Aluno, error) {
	return r.queryAlunos(ctx, r.selectAluno().OrderBy("a.nome ASC", "a.id ASC"))
}

// ListApprovedPage returns a page of approved students with a project, ordered by name
func (r *AlunoRepository) ListApprovedPage(ctx context.Context, page, size int) ([]*models.Aluno, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return r.queryAlunos(ctx, r.selectAluno().
		Where(filterCondition(models.AlunoFilterApproved)).
		OrderBy("a.nome ASC", "a.id ASC").
		Limit(limit).
		Offset(offset))
}

// ListPendingPage returns a page of students awaiting approval, oldest first
func (r *AlunoRepository) ListPendingPage(ctx context.Context, page, size int) ([]*models.Aluno, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return r.queryAlunos(ctx, r.selectAluno().
		Where(filterCondition(models.AlunoFilterPending)).
		OrderBy("a.data_cadastro ASC", "a.id ASC").
		Limit(limit).
		Offset(offset))
}

// Count returns the number of students matching filter
func (r *AlunoRepository) Count(ctx context.Context, filter models.AlunoFilter) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("aluno a").
		Where(filterCondition(filter)).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting alunos")
		return 0, fmt.Errorf("error counting alunos: %w", err)
	}
	return count, nil
}

// CountPages returns ceil(Count(filter) / size)
func (r *AlunoRepository) CountPages(ctx context.Context, size int, filter models.AlunoFilter) (int, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return 0, err
	}
	return helpers.TotalPages(count, size), nil
}

// CountPending returns how many students await approval
func (r *AlunoRepository) CountPending(ctx context.Context) (int64, error) {
	return r.Count(ctx, models.AlunoFilterPending)
}

// GetByID returns a student with its project name
func (r *AlunoRepository) GetByID(ctx context.Context, id int64) (*models.Aluno, error) {
	sql, args, err := r.selectAluno().
		Where(squirrel.Eq{"a.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get aluno query: %w", err)
	}

	aluno, err := scanAluno(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("alunoID", id).Msg("Error scanning aluno row")
		return nil, fmt.Errorf("error getting aluno by ID: %w", err)
	}
	return aluno, nil
}

// GetSessionUserByToken resolves a session token, or returns ErrNotFound
func (r *AlunoRepository) GetSessionUserByToken(ctx context.Context, token string) (*models.SessionUser, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	sql, args, err := r.sb.Select("id", "nome", "email", "admin").
		From("aluno").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build session query: %w", err)
	}

	user := &models.SessionUser{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.Nome, &user.Email, &user.Admin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error resolving session token: %w", err)
	}
	return user, nil
}
