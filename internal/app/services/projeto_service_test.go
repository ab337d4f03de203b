package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/filestorage"
)

type projetoFixture struct {
	svc        ProjetoService
	store      *fakeProjetoStore
	transactor *fakeTransactor
	dir        string
}

func newProjetoFixture(t *testing.T) *projetoFixture {
	t.Helper()
	dir := t.TempDir()
	storage, err := filestorage.NewLocalStorage(dir, "/static")
	require.NoError(t, err)

	f := &projetoFixture{
		store:      newFakeProjetoStore(),
		transactor: &fakeTransactor{},
		dir:        dir,
	}
	inTx := func(pgx.Tx) ProjetoStore { return f.store }
	f.svc = NewProjetoService(f.store, inTx, f.transactor, storage, zerolog.Nop())
	return f
}

func (f *projetoFixture) imagePath(id int64) string {
	return filepath.Join(f.dir, filepath.FromSlash(models.ImagemArquivo(id)))
}

func TestCreateProjetoStoresRowAndImage(t *testing.T) {
	f := newProjetoFixture(t)

	projeto, result, err := f.svc.Create(context.Background(),
		dto.NovoProjetoForm{Nome: " horta   escolar ", Descricao: "  Uma horta na escola "},
		bytes.NewReader(pngBytes(t, 16, 16)))
	require.NoError(t, err)
	require.True(t, result.Valid(), result.String())
	require.NotNil(t, projeto)

	assert.Equal(t, "Horta Escolar", projeto.Nome)
	assert.Equal(t, "Uma horta na escola", projeto.Descricao)
	assert.Equal(t, "/static/img/projetos/0001.jpg", projeto.ImagemURL())
	assert.FileExists(t, f.imagePath(projeto.ID))
	assert.Equal(t, 1, f.transactor.calls)
}

func TestCreateProjetoValidation(t *testing.T) {
	square := func(t *testing.T) *bytes.Reader { return bytes.NewReader(pngBytes(t, 8, 8)) }

	tests := []struct {
		name  string
		form  dto.NovoProjetoForm
		image func(t *testing.T) *bytes.Reader
		field string
		msg   string
	}{
		{"short name", dto.NovoProjetoForm{Nome: "Abc", Descricao: "Descrição"}, square, "nome", "O campo Nome deve ter entre 4 e 32 caracteres."},
		{"bad name", dto.NovoProjetoForm{Nome: "1 Robô", Descricao: "Descrição"}, square, "nome", "O campo Nome contém caracteres inválidos."},
		{"missing description", dto.NovoProjetoForm{Nome: "Robótica"}, square, "descricao", "O campo Descrição é obrigatório."},
		{"not square", dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"}, func(t *testing.T) *bytes.Reader { return bytes.NewReader(pngBytes(t, 8, 4)) }, "arquivoImagem", MsgImagemQuadrada},
		{"not an image", dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"}, func(*testing.T) *bytes.Reader { return bytes.NewReader([]byte("plain text")) }, "arquivoImagem", MsgImagemInvalida},
		{"empty upload", dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"}, func(*testing.T) *bytes.Reader { return bytes.NewReader(nil) }, "arquivoImagem", MsgImagemAusente},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProjetoFixture(t)

			projeto, result, err := f.svc.Create(context.Background(), tt.form, tt.image(t))
			require.NoError(t, err)
			assert.Nil(t, projeto)
			assert.Equal(t, tt.msg, result.Error(tt.field))
			assert.Zero(t, f.transactor.calls)
		})
	}
}

func TestCreateProjetoWithoutImage(t *testing.T) {
	f := newProjetoFixture(t)

	_, result, err := f.svc.Create(context.Background(), dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"}, nil)
	require.NoError(t, err)
	assert.Equal(t, MsgImagemAusente, result.Error("arquivoImagem"))
}

func TestCreateProjetoCommitFailureRemovesImage(t *testing.T) {
	f := newProjetoFixture(t)
	f.transactor.commitErr = errors.New("commit failed")

	projeto, _, err := f.svc.Create(context.Background(),
		dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"},
		bytes.NewReader(pngBytes(t, 8, 8)))
	require.Error(t, err)
	assert.Nil(t, projeto)

	_, statErr := os.Stat(f.imagePath(1))
	assert.True(t, os.IsNotExist(statErr), "image of a rolled back project must not remain")
}

func TestCreateProjetoInsertFailureWritesNothing(t *testing.T) {
	f := newProjetoFixture(t)
	f.store.createErr = errBoom

	_, _, err := f.svc.Create(context.Background(),
		dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"},
		bytes.NewReader(pngBytes(t, 8, 8)))
	assert.ErrorIs(t, err, errBoom)

	entries, _ := os.ReadDir(filepath.Join(f.dir, models.ImagemProjetoDir))
	assert.Empty(t, entries)
}

func TestListWithMembers(t *testing.T) {
	f := newProjetoFixture(t)
	robotica := f.store.add("Robótica", "Robôs")
	horta := f.store.add("Horta", "Plantas")
	f.store.members[robotica.ID] = []string{"Ana Silva", "Bia Costa"}

	projetos, err := f.svc.ListWithMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, projetos, 2)

	assert.Equal(t, horta.ID, projetos[0].ID)
	assert.Equal(t, []string{}, projetos[0].Integrantes)
	assert.Equal(t, []string{"Ana Silva", "Bia Costa"}, projetos[1].Integrantes)
}

func TestListPageProjetos(t *testing.T) {
	f := newProjetoFixture(t)
	for _, nome := range []string{"Alfa", "Beta", "Gama"} {
		f.store.add(nome, "desc")
	}

	page, err := f.svc.ListPage(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Gama", page.Items[0].Nome)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasPrevious())
	assert.False(t, page.Pagination.HasNext())
}

func TestDeleteProjeto(t *testing.T) {
	f := newProjetoFixture(t)
	ctx := context.Background()

	projeto, _, err := f.svc.Create(ctx, dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"}, bytes.NewReader(pngBytes(t, 8, 8)))
	require.NoError(t, err)
	ocupado := f.store.add("Horta", "Plantas")
	f.store.members[ocupado.ID] = []string{"Ana Silva"}

	_, members, err := f.svc.GetForDelete(ctx, ocupado.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), members)
	assert.ErrorIs(t, f.svc.Delete(ctx, ocupado.ID), apperrors.ErrProjectHasMembers)

	require.NoError(t, f.svc.Delete(ctx, projeto.ID))
	assert.NoFileExists(t, f.imagePath(projeto.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, projeto.ID), repositories.ErrNotFound)

	_, _, err = f.svc.GetForDelete(ctx, 0)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, MsgProjetoNaoEncontrado, apperrors.UserMessage(err, ""))

	_, _, err = f.svc.GetForDelete(ctx, 404)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Equal(t, MsgProjetoNaoEncontrado, apperrors.UserMessage(err, ""))
}

type brokenUpload struct{}

func (brokenUpload) Read([]byte) (int, error) { return 0, errBoom }

func TestCreateProjetoUnreadableUpload(t *testing.T) {
	f := newProjetoFixture(t)

	projeto, result, err := f.svc.Create(context.Background(),
		dto.NovoProjetoForm{Nome: "Robótica", Descricao: "Descrição"}, brokenUpload{})
	assert.ErrorIs(t, err, errBoom)
	assert.Nil(t, projeto)
	assert.Empty(t, result.Error("arquivoImagem"))
	assert.Zero(t, f.transactor.calls)
}
