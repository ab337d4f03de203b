package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/vitrine/internal/app/models"
	"github.com/yigit/vitrine/internal/app/services"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/validation"
)

func multipartRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		part, err := mw.CreateFormFile("arquivoImagem", "imagem.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/projeto/novo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProjetoListagem(t *testing.T) {
	app := newTestApp(t)
	app.projetos.projetos[3] = &models.Projeto{ID: 3, Nome: "Horta Escolar", Descricao: "Plantas"}

	w := app.get("/projeto/listagem", "admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Horta Escolar")
}

func TestPostNovoProjeto(t *testing.T) {
	fields := map[string]string{"nome": "horta escolar", "descricao": "Plantas"}

	t.Run("success redirects to the listing", func(t *testing.T) {
		app := newTestApp(t)

		w := app.do(multipartRequest(t, fields, []byte("image-bytes")), "admin")
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/projeto/listagem", w.Header().Get("Location"))
		assert.Equal(t, []byte("image-bytes"), app.projetos.gotImage)
		require.Len(t, app.projetos.projetos, 1)
		assert.Equal(t, "horta escolar", app.projetos.projetos[1].Nome)
	})

	t.Run("field errors redisplay the normalized values", func(t *testing.T) {
		app := newTestApp(t)
		app.projetos.createResult = validation.New().Add("arquivoImagem", services.MsgImagemQuadrada)

		w := app.do(multipartRequest(t, fields, []byte("image-bytes")), "admin")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), services.MsgImagemQuadrada)
		assert.Contains(t, w.Body.String(), `value="Horta Escolar"`)
		assert.Empty(t, app.projetos.projetos)
	})

	t.Run("missing file reaches the service as nil", func(t *testing.T) {
		app := newTestApp(t)
		app.projetos.createResult = validation.New().Add("arquivoImagem", services.MsgImagemAusente)

		w := app.do(multipartRequest(t, fields, nil), "admin")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, app.projetos.gotImage)
		assert.Contains(t, w.Body.String(), services.MsgImagemAusente)
	})

	t.Run("oversized upload", func(t *testing.T) {
		app := newTestApp(t)

		w := app.do(multipartRequest(t, fields, bytes.Repeat([]byte{0xff}, 2<<20)), "admin")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), services.MsgImagemGrande)
		assert.Empty(t, app.projetos.projetos)
	})
}

func TestExcluirProjeto(t *testing.T) {
	app := newTestApp(t)
	app.projetos.projetos[1] = &models.Projeto{ID: 1, Nome: "Robótica", Descricao: "Robôs"}
	app.projetos.projetos[2] = &models.Projeto{ID: 2, Nome: "Horta", Descricao: "Plantas"}
	app.projetos.members[1] = 3

	w := app.get("/projeto/excluir/1", "admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "3 aluno(s)")
	assert.NotContains(t, w.Body.String(), `action="/projeto/excluir"`)

	w = app.get("/projeto/excluir/2", "admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/projeto/excluir"`)

	w = app.get("/projeto/excluir/0", "admin")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.postForm("/projeto/excluir", url.Values{"id": {"2"}}, "admin")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/projeto/listagem", w.Header().Get("Location"))
	assert.NotContains(t, app.projetos.projetos, int64(2))
}

func TestExcluirProjetoWithMembersIsConflict(t *testing.T) {
	app := newTestApp(t)
	app.projetos.projetos[1] = &models.Projeto{ID: 1, Nome: "Robótica", Descricao: "Robôs"}
	app.projetos.err = apperrors.ErrProjectHasMembers

	w := app.postForm("/projeto/excluir", url.Values{"id": {"1"}}, "admin")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Projeto com integrantes")
}
