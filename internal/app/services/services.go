package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/db"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/filestorage"
	"github.com/yigit/vitrine/internal/pkg/sessioncache"
)

// Services defined in this package:
// - AuthService: session resolution, login and logout
// - AlunoService: registration, approval workflow, dashboard and password change
// - ProjetoService: home listing, project creation with image, deletion

// Messages of the not-found page
const (
	MsgAlunoNaoEncontrado   = "Aluno não encontrado."
	MsgProjetoNaoEncontrado = "Projeto não encontrado."
)

// notFound swaps a repository miss for a not-found error carrying message
func notFound(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NewResourceNotFoundError(message)
	}
	return err
}

// AlunoStore is the student persistence used by the services
type AlunoStore interface {
	Create(ctx context.Context, aluno *models.Aluno) (*models.Aluno, error)
	SetPassword(ctx context.Context, id int64, hash string) error
	SetToken(ctx context.Context, email, token string) error
	SetApproved(ctx context.Context, id int64, approved bool) error
	Delete(ctx context.Context, id int64) error
	EmailExists(ctx context.Context, email string) (bool, error)
	GetPasswordHashByEmail(ctx context.Context, email string) (string, error)
	GetTokenByEmail(ctx context.Context, email string) (string, error)
	ListApprovedPage(ctx context.Context, page, size int) ([]*models.Aluno, error)
	ListPendingPage(ctx context.Context, page, size int) ([]*models.Aluno, error)
	Count(ctx context.Context, filter models.AlunoFilter) (int64, error)
	CountPending(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Aluno, error)
	GetSessionUserByToken(ctx context.Context, token string) (*models.SessionUser, error)
}

// ProjetoStore is the project persistence used by the services
type ProjetoStore interface {
	Create(ctx context.Context, projeto *models.Projeto) (*models.Projeto, error)
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]*models.Projeto, error)
	ListForSelection(ctx context.Context) ([]models.OpcaoProjeto, error)
	ListPage(ctx context.Context, page, size int) ([]*models.Projeto, error)
	Count(ctx context.Context) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Projeto, error)
	CountMembers(ctx context.Context, id int64) (int64, error)
	ListApprovedMemberNamesByProject(ctx context.Context) (map[int64][]string, error)
}

// Services groups the application services
type Services struct {
	AuthService    AuthService
	AlunoService   AlunoService
	ProjetoService ProjetoService
}

// NewServices wires the services over the repositories
func NewServices(
	repos *repositories.Repositories,
	transactor db.Transactor,
	storage filestorage.FileStorage,
	cache sessioncache.Cache,
	logger zerolog.Logger,
) *Services {
	projetosInTx := func(tx pgx.Tx) ProjetoStore {
		return repos.ProjetoRepository.WithTx(tx)
	}

	return &Services{
		AuthService:    NewAuthService(repos.AlunoRepository, cache, logger),
		AlunoService:   NewAlunoService(repos.AlunoRepository, repos.ProjetoRepository, cache, logger),
		ProjetoService: NewProjetoService(repos.ProjetoRepository, projetosInTx, transactor, storage, logger),
	}
}
