package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/auth"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/sessioncache"
	"github.com/yigit/vitrine/internal/pkg/validation"
)

// Student form messages
const (
	MsgEmailJaCadastrado    = "Já existe um aluno cadastrado com este e-mail."
	MsgSenhaAtualIncorreta  = "Senha atual está incorreta."
	labelConfirmacaoSenha   = "Confirmação de Senha"
	labelConfirmacaoNova    = "Confirmação da Nova Senha"
	labelNovaSenha          = "Nova Senha"
	labelSenhaAtual         = "Senha Atual"
	labelProjetoParticipado = "Projeto"
)

// AlunoService defines the student operations
type AlunoService interface {
	FormOptions(ctx context.Context) ([]models.OpcaoProjeto, error)
	// Register validates and stores a new, unapproved student. Field errors
	// are returned in the Result; the error is reserved for failures.
	Register(ctx context.Context, form dto.NovoAlunoForm) (*models.Aluno, validation.Result, error)
	ListApproved(ctx context.Context, page, size int) (*dto.Page[*models.Aluno], error)
	ListPending(ctx context.Context, page, size int) (*dto.Page[*models.Aluno], error)
	PendingCount(ctx context.Context) (int64, error)
	SetApproved(ctx context.Context, id int64, approved bool) error
	GetByID(ctx context.Context, id int64) (*models.Aluno, error)
	Delete(ctx context.Context, id int64) error
	ChangePassword(ctx context.Context, user *models.SessionUser, form dto.AlterarSenhaForm) (validation.Result, error)
}

type alunoServiceImpl struct {
	alunoRepo   AlunoStore
	projetoRepo ProjetoStore
	cache       sessioncache.Cache
	logger      zerolog.Logger
}

// NewAlunoService creates a new AlunoService
func NewAlunoService(alunoRepo AlunoStore, projetoRepo ProjetoStore, cache sessioncache.Cache, logger zerolog.Logger) AlunoService {
	if cache == nil {
		cache = sessioncache.NopCache{}
	}
	return &alunoServiceImpl{
		alunoRepo:   alunoRepo,
		projetoRepo: projetoRepo,
		cache:       cache,
		logger:      logger,
	}
}

func (s *alunoServiceImpl) FormOptions(ctx context.Context) ([]models.OpcaoProjeto, error) {
	opcoes, err := s.projetoRepo.ListForSelection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load project options: %w", err)
	}
	return opcoes, nil
}

// NormalizeAlunoForm title-cases the name, lower-cases the e-mail and trims the rest
func NormalizeAlunoForm(form dto.NovoAlunoForm) dto.NovoAlunoForm {
	return dto.NovoAlunoForm{
		Nome:      helpers.TitleName(form.Nome),
		Email:     helpers.NormalizeEmail(form.Email),
		Senha:     strings.TrimSpace(form.Senha),
		ConfSenha: strings.TrimSpace(form.ConfSenha),
		IDProjeto: strings.TrimSpace(form.IDProjeto),
	}
}

func (s *alunoServiceImpl) Register(ctx context.Context, form dto.NovoAlunoForm) (*models.Aluno, validation.Result, error) {
	form = NormalizeAlunoForm(form)

	result := validation.New().
		Required("nome", form.Nome, "Nome").
		FullName("nome", form.Nome, "Nome").
		Required("email", form.Email, "E-mail").
		Email("email", form.Email, "E-mail")

	if !result.Has("email") {
		exists, err := s.alunoRepo.EmailExists(ctx, form.Email)
		if err != nil {
			return nil, result, fmt.Errorf("failed to check e-mail: %w", err)
		}
		if exists {
			result = result.Add("email", MsgEmailJaCadastrado)
		}
	}

	result = result.
		Required("senha", form.Senha, "Senha").
		PasswordLength("senha", form.Senha, "Senha").
		Required("confSenha", form.ConfSenha, labelConfirmacaoSenha).
		Matches("confSenha", form.ConfSenha, labelConfirmacaoSenha, form.Senha, "Senha")

	opcoes, err := s.FormOptions(ctx)
	if err != nil {
		return nil, result, err
	}
	ids := make([]int64, len(opcoes))
	for i, o := range opcoes {
		ids[i] = o.ID
	}
	result, idProjeto := result.SelectedID("idProjeto", form.IDProjeto, labelProjetoParticipado, ids)

	if !result.Valid() {
		return nil, result, nil
	}

	hash, err := auth.HashPassword(form.Senha)
	if err != nil {
		return nil, result, err
	}

	aluno, err := s.alunoRepo.Create(ctx, &models.Aluno{
		Nome:      form.Nome,
		Email:     form.Email,
		Senha:     hash,
		IDProjeto: &idProjeto,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			// lost a race with a concurrent registration
			return nil, result.Add("email", MsgEmailJaCadastrado), nil
		}
		return nil, result, fmt.Errorf("failed to register aluno: %w", err)
	}

	s.logger.Info().Int64("alunoID", aluno.ID).Int64("projetoID", idProjeto).Msg("Aluno registered")
	return aluno, result, nil
}

func (s *alunoServiceImpl) ListApproved(ctx context.Context, page, size int) (*dto.Page[*models.Aluno], error) {
	alunos, err := s.alunoRepo.ListApprovedPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	total, err := s.alunoRepo.Count(ctx, models.AlunoFilterApproved)
	if err != nil {
		return nil, err
	}
	return &dto.Page[*models.Aluno]{
		Items:      alunos,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *alunoServiceImpl) ListPending(ctx context.Context, page, size int) (*dto.Page[*models.Aluno], error) {
	alunos, err := s.alunoRepo.ListPendingPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	total, err := s.alunoRepo.Count(ctx, models.AlunoFilterPending)
	if err != nil {
		return nil, err
	}
	return &dto.Page[*models.Aluno]{
		Items:      alunos,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *alunoServiceImpl) PendingCount(ctx context.Context) (int64, error) {
	return s.alunoRepo.CountPending(ctx)
}

func (s *alunoServiceImpl) SetApproved(ctx context.Context, id int64, approved bool) error {
	if id <= 0 {
		return notFound(repositories.ErrNotFound, MsgAlunoNaoEncontrado)
	}
	if err := s.alunoRepo.SetApproved(ctx, id, approved); err != nil {
		return notFound(err, MsgAlunoNaoEncontrado)
	}
	s.logger.Info().Int64("alunoID", id).Bool("aprovado", approved).Msg("Aluno approval changed")
	return nil
}

func (s *alunoServiceImpl) GetByID(ctx context.Context, id int64) (*models.Aluno, error) {
	if id <= 0 {
		return nil, notFound(repositories.ErrNotFound, MsgAlunoNaoEncontrado)
	}
	aluno, err := s.alunoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, MsgAlunoNaoEncontrado)
	}
	return aluno, nil
}

func (s *alunoServiceImpl) Delete(ctx context.Context, id int64) error {
	aluno, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.alunoRepo.Delete(ctx, id); err != nil {
		return notFound(err, MsgAlunoNaoEncontrado)
	}

	if aluno.Token != "" {
		if err := s.cache.Delete(ctx, aluno.Token); err != nil {
			s.logger.Warn().Err(err).Int64("alunoID", id).Msg("Failed to evict cached session")
		}
	}
	s.logger.Info().Int64("alunoID", id).Msg("Aluno deleted")
	return nil
}

func (s *alunoServiceImpl) ChangePassword(ctx context.Context, user *models.SessionUser, form dto.AlterarSenhaForm) (validation.Result, error) {
	if user == nil {
		return validation.New(), apperrors.ErrUnauthorized
	}

	senhaAtual := strings.TrimSpace(form.SenhaAtual)
	novaSenha := strings.TrimSpace(form.NovaSenha)
	confNovaSenha := strings.TrimSpace(form.ConfNovaSenha)

	result := validation.New().
		Required("senhaAtual", senhaAtual, labelSenhaAtual).
		PasswordLength("senhaAtual", senhaAtual, labelSenhaAtual).
		Required("novaSenha", novaSenha, labelNovaSenha).
		PasswordLength("novaSenha", novaSenha, labelNovaSenha).
		Required("confNovaSenha", confNovaSenha, labelConfirmacaoNova).
		Matches("confNovaSenha", confNovaSenha, labelConfirmacaoNova, novaSenha, labelNovaSenha)
	if !result.Valid() {
		return result, nil
	}

	hash, err := s.alunoRepo.GetPasswordHashByEmail(ctx, user.Email)
	if err != nil {
		return result, fmt.Errorf("failed to load credentials: %w", err)
	}
	if !auth.CheckPassword(hash, senhaAtual) {
		return result.Add("senhaAtual", MsgSenhaAtualIncorreta), nil
	}

	newHash, err := auth.HashPassword(novaSenha)
	if err != nil {
		return result, err
	}
	if err := s.alunoRepo.SetPassword(ctx, user.ID, newHash); err != nil {
		return result, fmt.Errorf("failed to change password: %w", err)
	}

	// the session survives, its cached identity is reloaded on the next request
	token, err := s.alunoRepo.GetTokenByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Warn().Err(err).Int64("alunoID", user.ID).Msg("Failed to load session token after password change")
	} else if token != "" {
		if err := s.cache.Delete(ctx, token); err != nil {
			s.logger.Warn().Err(err).Int64("alunoID", user.ID).Msg("Failed to evict cached session")
		}
	}

	s.logger.Info().Int64("alunoID", user.ID).Msg("Password changed")
	return result, nil
}
