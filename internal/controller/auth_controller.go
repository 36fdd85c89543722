package controller

import (
	"errors"
	"net/http"

	"puzzle_quiz_backend/internal/config"
	"puzzle_quiz_backend/internal/middleware"
	"puzzle_quiz_backend/internal/service"
	"puzzle_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	Cfg         *config.Config
}

func NewAuthController(authService *service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		AuthService: authService,
		Cfg:         cfg,
	}
}

func (c *AuthController) setSession(ctx *gin.Context, token string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Cfg.Session.CookieName, token, int(c.Cfg.JWT.ExpireTime.Seconds()), "/", "", c.Cfg.Session.Secure, true)
}

func (c *AuthController) renderLogin(ctx *gin.Context, code int, req service.LoginRequest, next string, errs util.FieldErrors) {
	util.Render(ctx, code, "login.html", gin.H{
		"Title":  "Log in",
		"Form":   req,
		"Next":   next,
		"Errors": errs,
	})
}

// ShowLogin 登录页
func (c *AuthController) ShowLogin(ctx *gin.Context) {
	if util.GetUserFromContext(ctx) != nil {
		util.Redirect(ctx, middleware.SafeNext(ctx.Query("next")))
		return
	}
	c.renderLogin(ctx, http.StatusOK, service.LoginRequest{}, ctx.Query("next"), nil)
}

// Login 登录并写入会话 Cookie
func (c *AuthController) Login(ctx *gin.Context) {
	next := ctx.PostForm("next")

	var req service.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.renderLogin(ctx, http.StatusUnprocessableEntity, req, next, util.ValidationMessages(err))
		return
	}

	token, err := c.AuthService.Login(req)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			c.renderLogin(ctx, http.StatusUnprocessableEntity, req, next, util.FieldErrors{"_form": "Invalid email or password."})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	c.setSession(ctx, token)
	util.Redirect(ctx, middleware.SafeNext(next))
}

func (c *AuthController) renderRegister(ctx *gin.Context, code int, req service.RegisterRequest, errs util.FieldErrors) {
	req.Password = ""
	util.Render(ctx, code, "register.html", gin.H{
		"Title":  "Register",
		"Form":   req,
		"Errors": errs,
	})
}

func (c *AuthController) ShowRegister(ctx *gin.Context) {
	c.renderRegister(ctx, http.StatusOK, service.RegisterRequest{}, nil)
}

// Register 注册成功后直接登录
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.renderRegister(ctx, http.StatusUnprocessableEntity, req, util.ValidationMessages(err))
		return
	}

	_, token, err := c.AuthService.Register(req)
	if err != nil {
		if errors.Is(err, util.ErrEmailRegistered) {
			c.renderRegister(ctx, http.StatusUnprocessableEntity, req, util.FieldErrors{"email": "This email is already registered."})
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	c.setSession(ctx, token)
	util.Redirect(ctx, "/puzzles")
}

func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.Cfg.Session.CookieName, "", -1, "/", "", c.Cfg.Session.Secure, true)
	util.Redirect(ctx, "/login")
}
