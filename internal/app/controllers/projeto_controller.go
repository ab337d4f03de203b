package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/app/services"
	"github.com/yigit/vitrine/internal/middleware"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/validation"
)

const multipartMemory = 8 << 20

// ProjetoController handles the project administration pages
type ProjetoController struct {
	projetoService services.ProjetoService
	pageSize       int
	maxUploadBytes int64
}

// NewProjetoController creates a new ProjetoController
func NewProjetoController(projetoService services.ProjetoService, pageSize int, maxUploadBytes int64) *ProjetoController {
	return &ProjetoController{
		projetoService: projetoService,
		pageSize:       pageSize,
		maxUploadBytes: maxUploadBytes,
	}
}

// Listagem shows a page of projects
func (ctl *ProjetoController) Listagem(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c, ctl.pageSize)

	projetos, err := ctl.projetoService.ListPage(c.Request.Context(), page, size)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	render(c, http.StatusOK, "projeto/listagem.html", gin.H{
		"projetos": projetos.Items,
		"pagina":   projetos.Pagination,
		"url":      "/projeto/listagem",
	})
}

// GetNovo shows the project form
func (ctl *ProjetoController) GetNovo(c *gin.Context) {
	render(c, http.StatusOK, "projeto/novo.html", nil)
}

// PostNovo creates a project from a multipart form with its square image
func (ctl *ProjetoController) PostNovo(c *gin.Context) {
	if ctl.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, ctl.maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render(c, http.StatusOK, "projeto/novo.html", gin.H{
				"erros": validation.New().Add("arquivoImagem", services.MsgImagemGrande).Errors(),
			})
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			middleware.HandlePageError(c, err)
			return
		}
	}

	var form dto.NovoProjetoForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	var imagem io.Reader
	if file, err := c.FormFile("arquivoImagem"); err == nil {
		f, err := file.Open()
		if err != nil {
			middleware.HandlePageError(c, err)
			return
		}
		defer f.Close()
		imagem = f
	}

	_, result, err := ctl.projetoService.Create(c.Request.Context(), form, imagem)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	if !result.Valid() {
		render(c, http.StatusOK, "projeto/novo.html", gin.H{
			"erros":   result.Errors(),
			"valores": services.NormalizeProjetoForm(form),
		})
		return
	}

	c.Redirect(http.StatusSeeOther, "/projeto/listagem")
}

// GetExcluir asks for confirmation, showing how many students are linked
func (ctl *ProjetoController) GetExcluir(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		middleware.HandlePageError(c, repositories.ErrNotFound)
		return
	}

	projeto, integrantes, err := ctl.projetoService.GetForDelete(c.Request.Context(), id)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	render(c, http.StatusOK, "projeto/excluir.html", gin.H{
		"projeto":     projeto,
		"integrantes": integrantes,
	})
}

// PostExcluir deletes a project that no student references
func (ctl *ProjetoController) PostExcluir(c *gin.Context) {
	var form dto.ExcluirForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandlePageError(c, repositories.ErrNotFound)
		return
	}

	if err := ctl.projetoService.Delete(c.Request.Context(), form.ID); err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/projeto/listagem")
}
