package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopdesk/app/resources"
	"github.com/shashiranjanraj/shopdesk/app/services"
	"github.com/shashiranjanraj/shopdesk/pkg/ctx"
	"github.com/shashiranjanraj/shopdesk/pkg/response"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func session(s *services.Session) response.M {
	return response.M{"user": resources.User(s.User), "token": s.Token}
}

// Google handles POST /api/auth/google.
func (a *AuthController) Google(c *ctx.Context) {
	var in services.GoogleLoginInput
	if !c.BindJSON(&in) {
		return
	}
	s, err := a.service.GoogleLogin(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(session(s))
}

func (a *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	s, err := a.service.Register(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(session(s))
}

func (a *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	s, err := a.service.Login(c.Context(), in)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(session(s))
}

func (a *AuthController) Logout(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	if err := a.service.Logout(c.Context(), p); err != nil {
		c.Fail(err)
		return
	}
	c.Message(http.StatusOK, "Logged out successfully", nil)
}

// User handles GET /api/auth/user.
func (a *AuthController) User(c *ctx.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	u, err := a.service.CurrentUser(c.Context(), p)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(response.M{"user": resources.User(u)})
}
