package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/pkg/apperrors"
	"github.com/yigit/vitrine/internal/pkg/logger"
)

// ErrorTemplate is the template rendered by HandlePageError
const ErrorTemplate = "erro.html"

type errorMapping struct {
	status   int
	code     dto.ErrorCode
	message  string
	titulo   string
	mensagem string
}

func mapError(err error) errorMapping {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return errorMapping{http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required",
			"Acesso não autorizado", "Faça login para acessar esta página."}
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return errorMapping{http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied",
			"Acesso negado", "Você não tem permissão para acessar esta página."}
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return errorMapping{http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found",
			"Página não encontrada", "O registro solicitado não existe."}
	case errors.Is(err, apperrors.ErrProjectHasMembers):
		return errorMapping{http.StatusConflict, dto.ErrorCodeConflict, "Project has students",
			"Projeto com integrantes", "Não é possível excluir um projeto que possui alunos vinculados."}
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		return errorMapping{http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists",
			"Conflito", "Já existe um aluno cadastrado com este e-mail."}
	case errors.Is(err, apperrors.ErrValidationFailed):
		return errorMapping{http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed",
			"Requisição inválida", "Os dados enviados são inválidos."}
	default:
		return errorMapping{http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error",
			"Erro interno", "Ocorreu um erro inesperado. Tente novamente mais tarde."}
	}
}

// HandleAPIError writes the JSON error envelope for err
func HandleAPIError(c *gin.Context, err error) {
	m := mapError(err)
	if m.status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.JSON(m.status, dto.NewErrorResponse(dto.NewErrorDetail(m.code, apperrors.UserMessage(err, m.message))))
}

// HandlePageError renders the HTML error page for err
func HandlePageError(c *gin.Context, err error) {
	m := mapError(err)
	if m.status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	}
	c.HTML(m.status, ErrorTemplate, gin.H{
		ContextKeyUsuario: CurrentUser(c),
		"erro": dto.ErrorPage{
			Status:   m.status,
			Titulo:   m.titulo,
			Mensagem: apperrors.UserMessage(err, m.mensagem),
		},
	})
}

// HandleError answers with JSON when the client asked for it and with the error page otherwise
func HandleError(c *gin.Context, err error) {
	if WantsJSON(c) {
		HandleAPIError(c, err)
		return
	}
	HandlePageError(c, err)
}

// WantsJSON reports whether the request was sent or expects JSON
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json") ||
		strings.Contains(c.ContentType(), "application/json")
}
