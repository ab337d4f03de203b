package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/app/controllers"
	"github.com/yigit/vitrine/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	mainController *controllers.MainController,
	alunoController *controllers.AlunoController,
	projetoController *controllers.ProjetoController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public routes ---
	router.GET("/", mainController.Index)
	router.GET("/login", mainController.GetLogin)
	router.POST("/login", mainController.PostLogin)
	router.GET("/logout", mainController.Logout)
	router.GET("/healthz", mainController.Health)

	alunos := router.Group("/aluno")
	{
		// Registration is open to visitors
		alunos.GET("/novo", alunoController.GetNovo)
		alunos.POST("/novo", alunoController.PostNovo)
		alunos.POST("/novo_json", alunoController.PostNovoJSON)

		// Any logged in student
		self := alunos.Group("")
		self.Use(authMiddleware.RequireAuth())
		{
			self.GET("/dashboard", alunoController.Dashboard)
			self.GET("/alterarsenha", alunoController.GetAlterarSenha)
			self.POST("/alterarsenha", alunoController.PostAlterarSenha)
		}

		alunosAdmin := alunos.Group("")
		alunosAdmin.Use(authMiddleware.RequireAdmin())
		{
			alunosAdmin.GET("/listagem", alunoController.Listagem)
			alunosAdmin.GET("/aprovar", alunoController.Aprovar)
			alunosAdmin.GET("/aprovar/:id", alunoController.AprovarID)       // JSON, called by aprovarCadastro.js
			alunosAdmin.GET("/desaprovar/:id", alunoController.DesaprovarID) // JSON, called by desaprovarCadastro.js
			alunosAdmin.GET("/excluir/:id", alunoController.GetExcluir)
			alunosAdmin.POST("/excluir", alunoController.PostExcluir)
		}
	}

	projetos := router.Group("/projeto")
	projetos.Use(authMiddleware.RequireAdmin())
	{
		projetos.GET("/listagem", projetoController.Listagem)
		projetos.GET("/novo", projetoController.GetNovo)
		projetos.POST("/novo", projetoController.PostNovo)
		projetos.GET("/excluir/:id", projetoController.GetExcluir)
		projetos.POST("/excluir", projetoController.PostExcluir)
	}
}
