package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/vitrine/internal/middleware"
)

// render executes a page template, always providing the current user and
// empty erros/valores so templates can index them unconditionally.
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data[middleware.ContextKeyUsuario] = middleware.CurrentUser(c)
	if _, ok := data["erros"]; !ok {
		data["erros"] = map[string]string{}
	}
	if _, ok := data["valores"]; !ok {
		data["valores"] = gin.H{}
	}
	c.HTML(status, name, data)
}

// paramID parses a positive integer path parameter
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// SessionCookie describes the session cookie written at login
type SessionCookie struct {
	Name   string
	MaxAge int
	Secure bool
}
