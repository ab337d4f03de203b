package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/app/models/dto"
	"github.com/yigit/vitrine/internal/app/services"
	"github.com/yigit/vitrine/internal/middleware"
	"github.com/yigit/vitrine/internal/pkg/helpers"
	"github.com/yigit/vitrine/internal/pkg/logger"
)

// PingFunc checks that the database is reachable
type PingFunc func(ctx context.Context) error

// MainController handles the home page, login, logout and health check
type MainController struct {
	authService    services.AuthService
	projetoService services.ProjetoService
	cookie         SessionCookie
	ping           PingFunc
}

// NewMainController creates a new MainController
func NewMainController(
	authService services.AuthService,
	projetoService services.ProjetoService,
	cookie SessionCookie,
	ping PingFunc,
) *MainController {
	return &MainController{
		authService:    authService,
		projetoService: projetoService,
		cookie:         cookie,
		ping:           ping,
	}
}

// Index lists every project with its approved members
func (ctl *MainController) Index(c *gin.Context) {
	projetos, err := ctl.projetoService.ListWithMembers(c.Request.Context())
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	render(c, http.StatusOK, "main/index.html", gin.H{"projetos": projetos})
}

// GetLogin shows the login form
func (ctl *MainController) GetLogin(c *gin.Context) {
	render(c, http.StatusOK, "main/login.html", gin.H{
		"returnUrl": c.Query("returnUrl"),
	})
}

// PostLogin checks the credentials and starts a session
func (ctl *MainController) PostLogin(c *gin.Context) {
	var form dto.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		middleware.HandlePageError(c, err)
		return
	}

	token, result, err := ctl.authService.Login(c.Request.Context(), form)
	if err != nil {
		middleware.HandlePageError(c, err)
		return
	}
	if !result.Valid() {
		render(c, http.StatusOK, "main/login.html", gin.H{
			"erros":     result.Errors(),
			"valores":   services.NormalizeLoginForm(form),
			"returnUrl": c.Query("returnUrl"),
		})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctl.cookie.Name, token, ctl.cookie.MaxAge, "/", "", ctl.cookie.Secure, true)
	c.Redirect(http.StatusFound, helpers.SafeReturnURL(c.DefaultQuery("returnUrl", "/")))
}

// Logout ends the session and expires the cookie
func (ctl *MainController) Logout(c *gin.Context) {
	err := ctl.authService.Logout(c.Request.Context(), middleware.CurrentUser(c), middleware.SessionToken(c))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to clear session on logout")
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ctl.cookie.Name, "", -1, "/", "", ctl.cookie.Secure, true)
	c.Redirect(http.StatusFound, "/")
}

// Health reports whether the service can reach its database
// @Summary Health check
// @Description Pings the database
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /healthz [get]
func (ctl *MainController) Health(c *gin.Context) {
	if ctl.ping != nil {
		if err := ctl.ping(c.Request.Context()); err != nil {
			logger.Error().Err(err).Msg("Health check failed")
			c.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
