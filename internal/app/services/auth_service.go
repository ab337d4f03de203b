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
	"github.com/yigit/vitrine/internal/pkg/auth"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/sessioncache"
	"github.com/yigit/vitrine/internal/pkg/validation"
)

// Login error messages
const (
	MsgUsuarioNaoCadastrado = "Usuário não cadastrado."
	MsgSenhaNaoConfere      = "Senha não confere."
)

// AuthService handles session resolution, login and logout
type AuthService interface {
	// ResolveCurrentUser returns nil, nil for anonymous requests
	ResolveCurrentUser(ctx context.Context, token string) (*models.SessionUser, error)
	// Login returns the new session token, or field errors when the credentials are rejected
	Login(ctx context.Context, form dto.LoginForm) (string, validation.Result, error)
	Logout(ctx context.Context, user *models.SessionUser, token string) error
}

type authServiceImpl struct {
	alunoRepo AlunoStore
	cache     sessioncache.Cache
	logger    zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(alunoRepo AlunoStore, cache sessioncache.Cache, logger zerolog.Logger) AuthService {
	if cache == nil {
		cache = sessioncache.NopCache{}
	}
	return &authServiceImpl{
		alunoRepo: alunoRepo,
		cache:     cache,
		logger:    logger,
	}
}

func (s *authServiceImpl) ResolveCurrentUser(ctx context.Context, token string) (*models.SessionUser, error) {
	if token == "" {
		return nil, nil
	}

	cached, err := s.cache.Get(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Session cache lookup failed, falling back to database")
	} else if cached != nil {
		return cached, nil
	}

	user, err := s.alunoRepo.GetSessionUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	if err := s.cache.Set(ctx, token, user); err != nil {
		s.logger.Warn().Err(err).Int64("alunoID", user.ID).Msg("Failed to cache session")
	}
	return user, nil
}

// NormalizeLoginForm trims the credentials and lower-cases the e-mail
func NormalizeLoginForm(form dto.LoginForm) dto.LoginForm {
	return dto.LoginForm{
		Email: helpers.NormalizeEmail(form.Email),
		Senha: strings.TrimSpace(form.Senha),
	}
}

func (s *authServiceImpl) Login(ctx context.Context, form dto.LoginForm) (string, validation.Result, error) {
	form = NormalizeLoginForm(form)

	result := validation.New().
		Required("email", form.Email, "E-mail").
		Email("email", form.Email, "E-mail").
		Required("senha", form.Senha, "Senha")
	if !result.Valid() {
		return "", result, nil
	}

	hash, err := s.alunoRepo.GetPasswordHashByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", result.Add("email", MsgUsuarioNaoCadastrado), nil
		}
		return "", result, fmt.Errorf("failed to load credentials: %w", err)
	}
	if !auth.CheckPassword(hash, form.Senha) {
		s.logger.Info().Str("email", form.Email).Msg("Login rejected: wrong password")
		return "", result.Add("senha", MsgSenhaNaoConfere), nil
	}

	previous, err := s.alunoRepo.GetTokenByEmail(ctx, form.Email)
	if err != nil {
		return "", result, fmt.Errorf("failed to load current session: %w", err)
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", result, err
	}
	if err := s.alunoRepo.SetToken(ctx, form.Email, token); err != nil {
		return "", result, fmt.Errorf("failed to store session token: %w", err)
	}

	if previous != "" {
		s.forget(ctx, previous)
	}

	s.logger.Info().Str("email", form.Email).Msg("User logged in")
	return token, result, nil
}

func (s *authServiceImpl) Logout(ctx context.Context, user *models.SessionUser, token string) error {
	if token != "" {
		s.forget(ctx, token)
	}
	if user == nil {
		return nil
	}

	if err := s.alunoRepo.SetToken(ctx, user.Email, ""); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("failed to clear session token: %w", err)
	}
	s.logger.Info().Int64("alunoID", user.ID).Msg("User logged out")
	return nil
}

func (s *authServiceImpl) forget(ctx context.Context, token string) {
	if err := s.cache.Delete(ctx, token); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to evict cached session")
	}
}
