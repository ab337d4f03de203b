package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/app/repositories"
	"github.com/yigit/vitrine/internal/app/services"
	"github.com/yigit/vitrine/internal/middleware"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/logger"
)

// AlunoController handles student registration, approval and self-service pages
type AlunoController struct {
	alunoService services.AlunoService
	pageSize     int
}

// NewAlunoController creates a new AlunoController
func NewAlunoController(alunoService services.AlunoService, pageSize int) *AlunoController {
	return &AlunoController{
		alunoService: alunoService,
		pageSize:     pageSize,
	}
}

// Listagem shows the approved students
func (ctl *AlunoController) Listagem(c *gin.Context) {
	ctx := c.Request.Context()
	page, size := helpers.ParsePaginationParams(c, ctl.pageSize)

	alunos, err := ctl.alunoService.ListApproved(ctx, page, size)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	qtdeAprovar, err := ctl.alunoService.PendingCount(ctx)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	render(c, http.StatusOK, "aluno/listagem.html", gin.H{
		"alunos":      alunos.Items,
		"pagina":      alunos.Pagination,
		"url":         "/aluno/listagem",
		"qtdeAprovar": qtdeAprovar,
	})
}

// Aprovar shows the students waiting for approval, oldest first
func (ctl *AlunoController) Aprovar(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c, ctl.pageSize)

	alunos, err := ctl.alunoService.ListPending(c.Request.Context(), page, size)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	render(c, http.StatusOK, "aluno/aprovar.html", gin.H{
		"alunos": alunos.Items,
		"pagina": alunos.Pagination,
		"url":    "/aluno/aprovar",
	})
}

// AprovarID approves a registration
// @Summary Approve a student
// @Description Marks the student as approved. Requires an administrator session.
// @Tags alunos
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.OkResponse "ok is true when the student was approved"
// @Failure 401 {object} dto.ErrorResponse "No session"
// @Failure 403 {object} dto.ErrorResponse "Not an administrator"
// @Failure 404 {object} dto.OkResponse "Student not found"
// @Router /aluno/aprovar/{id} [get]
func (ctl *AlunoController) AprovarID(c *gin.Context) {
	ctl.setApproved(c, true)
}

// DesaprovarID revokes an approval
// @Summary Disapprove a student
// @Description Marks the student as not approved. Requires an administrator session.
// @Tags alunos
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.OkResponse "ok is true when the student was disapproved"
// @Failure 401 {object} dto.ErrorResponse "No session"
// @Failure 403 {object} dto.ErrorResponse "Not an administrator"
// @Failure 404 {object} dto.OkResponse "Student not found"
// @Router /aluno/desaprovar/{id} [get]
func (ctl *AlunoController) DesaprovarID(c *gin.Context) {
	ctl.setApproved(c, false)
}

func (ctl *AlunoController) setApproved(c *gin.Context, approved bool) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, dto.OkResponse{Ok: false})
		return
	}

	if err := ctl.alunoService.SetApproved(c.Request.Context(), id, approved); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.OkResponse{Ok: false})
			return
		}
		logger.Error().Err(err).Int64("alunoID", id).Msg("Failed to change approval")
		c.JSON(http.StatusInternalServerError, dto.OkResponse{Ok: false})
		return
	}
	c.JSON(http.StatusOK, dto.OkResponse{Ok: true})
}

func (ctl *AlunoController) renderNovo(c *gin.Context, status int, data gin.H) {
	projetos, err := ctl.alunoService.FormOptions(c.Request.Context())
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	data["projetos"] = projetos
	render(c, status, "aluno/novo.html", data)
}

// GetNovo shows the registration form
func (ctl *AlunoController) GetNovo(c *gin.Context) {
	ctl.renderNovo(c, http.StatusOK, gin.H{})
}

// PostNovo registers a student from the HTML form
func (ctl *AlunoController) PostNovo(c *gin.Context) {
	var form dto.NovoAlunoForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	_, result, err := ctl.alunoService.Register(c.Request.Context(), form)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	if !result.Valid() {
		valores := services.NormalizeAlunoForm(form)
		valores.Senha, valores.ConfSenha = "", ""
		ctl.renderNovo(c, http.StatusOK, gin.H{
			"erros":   result.Errors(),
			"valores": valores,
		})
		return
	}

	render(c, http.StatusOK, "aluno/cadastrado.html", nil)
}

// PostNovoJSON registers a student from a JSON body
// @Summary Register a student
// @Description Registers a new student awaiting approval. Field errors are returned keyed by field name.
// @Tags alunos
// @Accept json
// @Produce json
// @Param request body dto.NovoAlunoJSONRequest true "Student data"
// @Success 200 {object} dto.NovoAlunoJSONResponse "Registered"
// @Failure 400 {object} dto.NovoAlunoJSONResponse "Invalid fields"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /aluno/novo_json [post]
func (ctl *AlunoController) PostNovoJSON(c *gin.Context) {
	var req dto.NovoAlunoJSONRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NovoAlunoJSONResponse{
			Ok:    false,
			Erros: middleware.BindingErrors(&req, err),
		})
		return
	}

	_, result, err := ctl.alunoService.Register(c.Request.Context(), req.Form())
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if !result.Valid() {
		c.JSON(http.StatusBadRequest, dto.NovoAlunoJSONResponse{
			Ok:    false,
			Erros: result.Errors(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.NovoAlunoJSONResponse{Ok: true, ReturnURL: "/"})
}

// GetExcluir asks for confirmation before deleting a student
func (ctl *AlunoController) GetExcluir(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		middleware.HandlePageError(c, repositories.ErrNotFound)
		return
	}

	aluno, err := ctl.alunoService.GetByID(c.Request.Context(), id)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	render(c, http.StatusOK, "aluno/excluir.html", gin.H{"aluno": aluno})
}

// PostExcluir deletes a student
func (ctl *AlunoController) PostExcluir(c *gin.Context) {
	var form dto.ExcluirForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandlePageError(c, repositories.ErrNotFound)
		return
	}

	if err := ctl.alunoService.Delete(c.Request.Context(), form.ID); err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/aluno/listagem")
}

// Dashboard shows the logged in student's own record
func (ctl *AlunoController) Dashboard(c *gin.Context) {
	user := middleware.CurrentUser(c)

	aluno, err := ctl.alunoService.GetByID(c.Request.Context(), user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
		middleware.HandlePageError(c, err)
		return
	}
	render(c, http.StatusOK, "aluno/dashboard.html", gin.H{"aluno": aluno})
}

// GetAlterarSenha shows the password change form
func (ctl *AlunoController) GetAlterarSenha(c *gin.Context) {
	render(c, http.StatusOK, "aluno/alterarsenha.html", nil)
}

// PostAlterarSenha changes the logged in student's password
func (ctl *AlunoController) PostAlterarSenha(c *gin.Context) {
	var form dto.AlterarSenhaForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	result, err := ctl.alunoService.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), form)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	if !result.Valid() {
		render(c, http.StatusOK, "aluno/alterarsenha.html", gin.H{"erros": result.Errors()})
		return
	}

	render(c, http.StatusOK, "aluno/alterousenha.html", nil)
}
