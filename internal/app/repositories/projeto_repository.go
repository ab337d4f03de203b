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

// ProjetoRepository handles project database operations
type ProjetoRepository struct {
	db Querier
	sb squirrel.StatementBuilderType
}

// NewProjetoRepository creates a new ProjetoRepository
func NewProjetoRepository(db Querier) *ProjetoRepository {
	return &ProjetoRepository{
		db: db,
		sb: statementBuilder(),
	}
}

// WithTx returns a repository running its statements inside tx
func (r *ProjetoRepository) WithTx(tx pgx.Tx) *ProjetoRepository {
	return &ProjetoRepository{db: tx, sb: r.sb}
}

func (r *ProjetoRepository) queryProjetos(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Projeto, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build projeto list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing projeto list query")
		return nil, fmt.Errorf("error querying projetos: %w", err)
	}
	defer rows.Close()

	projetos := []*models.Projeto{}
	for rows.Next() {
		p := &models.Projeto{}
		if err := rows.Scan(&p.ID, &p.Nome, &p.Descricao); err != nil {
			return nil, fmt.Errorf("error scanning projeto row: %w", err)
		}
		projetos = append(projetos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projeto rows: %w", err)
	}

	return projetos, nil
}

func (r *ProjetoRepository) selectProjeto() squirrel.SelectBuilder {
	return r.sb.Select("id", "nome", "descricao").From("projeto")
}

// Create inserts a project and assigns its generated id
func (r *ProjetoRepository) Create(ctx context.Context, projeto *models.Projeto) (*models.Projeto, error) {
	sql, args, err := r.sb.Insert("projeto").
		Columns("nome", "descricao").
		Values(projeto.Nome, projeto.Descricao).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create projeto query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&projeto.ID); err != nil {
		logger.Error().Err(err).Str("nome", projeto.Nome).Msg("Error executing create projeto query")
		return nil, fmt.Errorf("error creating projeto: %w", err)
	}
	return projeto, nil
}

// Update saves nome and descricao
func (r *ProjetoRepository) Update(ctx context.Context, projeto *models.Projeto) error {
	sql, args, err := r.sb.Update("projeto").
		Set("nome", projeto.Nome).
		Set("descricao", projeto.Descricao).
		Where(squirrel.Eq{"id": projeto.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update projeto query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("projetoID", projeto.ID).Msg("Error executing update projeto query")
		return fmt.Errorf("error updating projeto: %w", err)
	}
	return expectOneRow(tag)
}

// Delete removes a project. Projects still referenced by students are refused.
func (r *ProjetoRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("projeto").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete projeto query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrProjectHasMembers
		}
		logger.Error().Err(err).Int64("projetoID", id).Msg("Error executing delete projeto query")
		return fmt.Errorf("error deleting projeto: %w", err)
	}
	return expectOneRow(tag)
}

// ListAll returns every project ordered by name
func (r *ProjetoRepository) ListAll(ctx context.Context) ([]*models.Projeto, error) {
	return r.queryProjetos(ctx, r.selectProjeto().OrderBy("nome ASC", "id ASC"))
}

// ListForSelection returns id/name pairs for the registration form
func (r *ProjetoRepository) ListForSelection(ctx context.Context) ([]models.OpcaoProjeto, error) {
	sql, args, err := r.sb.Select("id", "nome").
		From("projeto").
		OrderBy("nome ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build projeto options query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying projeto options: %w", err)
	}
	defer rows.Close()

	opcoes := []models.OpcaoProjeto{}
	for rows.Next() {
		var o models.OpcaoProjeto
		if err := rows.Scan(&o.ID, &o.Nome); err != nil {
			return nil, fmt.Errorf("error scanning projeto option: %w", err)
		}
		opcoes = append(opcoes, o)
	}
	return opcoes, rows.Err()
}

// ListPage returns one page of projects ordered by name
func (r *ProjetoRepository) ListPage(ctx context.Context, page, size int) ([]*models.Projeto, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return r.queryProjetos(ctx, r.selectProjeto().
		OrderBy("nome ASC", "id ASC").
		Limit(limit).
		Offset(offset))
}

// Count returns the number of projects
func (r *ProjetoRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM projeto").Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting projetos")
		return 0, fmt.Errorf("error counting projetos: %w", err)
	}
	return count, nil
}

// CountPages returns ceil(Count / size)
func (r *ProjetoRepository) CountPages(ctx context.Context, size int) (int, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	return helpers.TotalPages(count, size), nil
}

// GetByID returns a project, or ErrNotFound
func (r *ProjetoRepository) GetByID(ctx context.Context, id int64) (*models.Projeto, error) {
	sql, args, err := r.selectProjeto().
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get projeto query: %w", err)
	}

	p := &models.Projeto{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Nome, &p.Descricao); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error().Err(err).Int64("projetoID", id).Msg("Error scanning projeto row")
		return nil, fmt.Errorf("error getting projeto by ID: %w", err)
	}
	return p, nil
}

// Exists checks whether a project with id exists
func (r *ProjetoRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM projeto WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking projeto existence: %w", err)
	}
	return exists, nil
}

// CountMembers returns how many students reference the project, approved or not
func (r *ProjetoRepository) CountMembers(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM aluno WHERE id_projeto = $1", id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting projeto members: %w", err)
	}
	return count, nil
}

// ListApprovedMemberNames returns the names of the approved members of a project
func (r *ProjetoRepository) ListApprovedMemberNames(ctx context.Context, id int64) ([]string, error) {
	byProject, err := r.listMemberNames(ctx, squirrel.Eq{"id_projeto": id})
	if err != nil {
		return nil, err
	}
	names := byProject[id]
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// ListApprovedMemberNamesByProject returns approved member names keyed by project id,
// loaded with a single query.
func (r *ProjetoRepository) ListApprovedMemberNamesByProject(ctx context.Context) (map[int64][]string, error) {
	return r.listMemberNames(ctx, squirrel.NotEq{"id_projeto": nil})
}

func (r *ProjetoRepository) listMemberNames(ctx context.Context, where squirrel.Sqlizer) (map[int64][]string, error) {
	sql, args, err := r.sb.Select("id_projeto", "nome").
		From("aluno").
		Where(squirrel.Eq{"aprovado": true}).
		Where(where).
		OrderBy("nome ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build member names query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying projeto members")
		return nil, fmt.Errorf("error querying projeto members: %w", err)
	}
	defer rows.Close()

	members := make(map[int64][]string)
	for rows.Next() {
		var (
			projetoID int64
			nome      string
		)
		if err := rows.Scan(&projetoID, &nome); err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		members[projetoID] = append(members[projetoID], nome)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}
