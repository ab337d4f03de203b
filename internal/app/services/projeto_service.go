package services

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/db"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/filestorage"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/imaging"
	"github.com/yigit/vitrine/internal/pkg/validation"
)

// Project form messages
const (
	MsgImagemAusente  = "Nenhuma imagem foi enviada."
	MsgImagemInvalida = "O arquivo enviado não é uma imagem válida."
	MsgImagemQuadrada = "A imagem precisa ser quadrada."
	MsgImagemGrande   = "A imagem excede o tamanho máximo permitido."
)

const (
	projetoNomeMin      = 4
	projetoNomeMax      = 32
	projetoDescricaoMin = 4
	projetoDescricaoMax = 512
)

// ProjetoService defines the project operations
type ProjetoService interface {
	// ListWithMembers returns every project with its approved member names
	ListWithMembers(ctx context.Context) ([]*models.Projeto, error)
	ListPage(ctx context.Context, page, size int) (*dto.Page[*models.Projeto], error)
	// Create validates the form and image, then stores the row and its image together
	Create(ctx context.Context, form dto.NovoProjetoForm, imagem io.Reader) (*models.Projeto, validation.Result, error)
	// GetForDelete returns the project and how many students reference it
	GetForDelete(ctx context.Context, id int64) (*models.Projeto, int64, error)
	Delete(ctx context.Context, id int64) error
}

type projetoServiceImpl struct {
	projetoRepo  ProjetoStore
	projetosInTx func(tx pgx.Tx) ProjetoStore
	transactor   db.Transactor
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewProjetoService creates a new ProjetoService. projetosInTx binds the
// project store to a transaction started by transactor.
func NewProjetoService(
	projetoRepo ProjetoStore,
	projetosInTx func(tx pgx.Tx) ProjetoStore,
	transactor db.Transactor,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) ProjetoService {
	return &projetoServiceImpl{
		projetoRepo:  projetoRepo,
		projetosInTx: projetosInTx,
		transactor:   transactor,
		storage:      storage,
		logger:       logger,
	}
}

func (s *projetoServiceImpl) ListWithMembers(ctx context.Context) ([]*models.Projeto, error) {
	projetos, err := s.projetoRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.projetoRepo.ListApprovedMemberNamesByProject(ctx)
	if err != nil {
		return nil, err
	}

	for _, p := range projetos {
		p.Integrantes = members[p.ID]
		if p.Integrantes == nil {
			p.Integrantes = []string{}
		}
	}
	return projetos, nil
}

func (s *projetoServiceImpl) ListPage(ctx context.Context, page, size int) (*dto.Page[*models.Projeto], error) {
	projetos, err := s.projetoRepo.ListPage(ctx, page, size)
	if err != nil {
		return nil, err
	}
	total, err := s.projetoRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.Page[*models.Projeto]{
		Items:      projetos,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

// NormalizeProjetoForm title-cases the name and trims the description
func NormalizeProjetoForm(form dto.NovoProjetoForm) dto.NovoProjetoForm {
	return dto.NovoProjetoForm{
		Nome:      helpers.TitleName(form.Nome),
		Descricao: strings.TrimSpace(form.Descricao),
	}
}

// validateImagem reports rejected uploads as field errors. The error is
// only set when the upload could not be read at all.
func validateImagem(result validation.Result, imagem io.Reader) (validation.Result, image.Image, error) {
	if imagem == nil {
		return result.Add("arquivoImagem", MsgImagemAusente), nil, nil
	}

	img, err := imaging.DecodeSquare(imagem)
	switch {
	case err == nil:
		return result, img, nil
	case errors.Is(err, imaging.ErrEmpty):
		return result.Add("arquivoImagem", MsgImagemAusente), nil, nil
	case errors.Is(err, imaging.ErrNotSquare):
		return result.Add("arquivoImagem", MsgImagemQuadrada), nil, nil
	case errors.Is(err, apperrors.ErrInvalidImage):
		return result.Add("arquivoImagem", MsgImagemInvalida), nil, nil
	default:
		return result, nil, err
	}
}

func (s *projetoServiceImpl) Create(ctx context.Context, form dto.NovoProjetoForm, imagem io.Reader) (*models.Projeto, validation.Result, error) {
	form = NormalizeProjetoForm(form)

	result := validation.New().
		Required("nome", form.Nome, "Nome").
		Length("nome", form.Nome, "Nome", projetoNomeMin, projetoNomeMax).
		ProjectName("nome", form.Nome, "Nome").
		Required("descricao", form.Descricao, "Descrição").
		Length("descricao", form.Descricao, "Descrição", projetoDescricaoMin, projetoDescricaoMax)

	result, img, err := validateImagem(result, imagem)
	if err != nil {
		return nil, result, fmt.Errorf("failed to read project image: %w", err)
	}
	if !result.Valid() {
		return nil, result, nil
	}

	var (
		projeto *models.Projeto
		written string
	)
	err = s.transactor.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		created, err := s.projetosInTx(tx).Create(ctx, &models.Projeto{
			Nome:      form.Nome,
			Descricao: form.Descricao,
		})
		if err != nil {
			return err
		}

		relPath := models.ImagemArquivo(created.ID)
		if _, err := s.storage.SaveAtomic(relPath, func(w io.Writer) error {
			return imaging.EncodeJPEG(w, img)
		}); err != nil {
			return fmt.Errorf("failed to store project image: %w", err)
		}

		projeto = created
		written = relPath
		return nil
	})
	if err != nil {
		if written != "" {
			// commit failed after the image was stored
			if rmErr := s.storage.DeleteFile(written); rmErr != nil {
				s.logger.Error().Err(rmErr).Str("path", written).Msg("Failed to remove orphan project image")
			}
		}
		return nil, result, fmt.Errorf("failed to create projeto: %w", err)
	}

	s.logger.Info().Int64("projetoID", projeto.ID).Str("nome", projeto.Nome).Msg("Projeto created")
	return projeto, result, nil
}

func (s *projetoServiceImpl) GetForDelete(ctx context.Context, id int64) (*models.Projeto, int64, error) {
	if id <= 0 {
		return nil, 0, notFound(repositories.ErrNotFound, MsgProjetoNaoEncontrado)
	}
	projeto, err := s.projetoRepo.GetByID(ctx, id)
	if err != nil {
		return nil, 0, notFound(err, MsgProjetoNaoEncontrado)
	}
	members, err := s.projetoRepo.CountMembers(ctx, id)
	if err != nil {
		return nil, 0, err
	}
	return projeto, members, nil
}

func (s *projetoServiceImpl) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return notFound(repositories.ErrNotFound, MsgProjetoNaoEncontrado)
	}
	if err := s.projetoRepo.Delete(ctx, id); err != nil {
		return notFound(err, MsgProjetoNaoEncontrado)
	}

	if err := s.storage.DeleteFile(models.ImagemArquivo(id)); err != nil {
		s.logger.Warn().Err(err).Int64("projetoID", id).Msg("Failed to delete project image")
	}
	s.logger.Info().Int64("projetoID", id).Msg("Projeto deleted")
	return nil
}
