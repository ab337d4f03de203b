package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/pkg/helpers"
)

// AdminAccount describes the bootstrap administrator
type AdminAccount struct {
	Name         string
	Email        string
	PasswordHash string
}

// AdminStore is the part of the student repository the seed needs
type AdminStore interface {
	EnsureAdmin(ctx context.Context, admin *appModels.Aluno) (bool, error)
}

// EnsureAdmin creates the administrator account when no student with its
// e-mail exists yet. It reports whether a row was inserted.
func EnsureAdmin(ctx context.Context, store AdminStore, account AdminAccount, lgr zerolog.Logger) (bool, error) {
	email := helpers.NormalizeEmail(account.Email)
	if email == "" || account.PasswordHash == "" {
		return false, errors.New("admin e-mail and password hash are required")
	}

	admin := &appModels.Aluno{
		Nome:  helpers.NormalizeSpaces(account.Name),
		Email: email,
		Senha: account.PasswordHash,
	}
	created, err := store.EnsureAdmin(ctx, admin)
	if err != nil {
		lgr.Error().Err(err).Str("email", email).Msg("Failed to ensure admin account")
		return false, err
	}

	if created {
		lgr.Info().Int64("alunoID", admin.ID).Str("email", email).Msg("Admin account created")
	} else {
		lgr.Debug().Str("email", email).Msg("Admin account already exists")
	}
	return created, nil
}
