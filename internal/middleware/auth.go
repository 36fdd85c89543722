package middleware

import (
	"net/url"
	"strings"

	"puzzle_quiz_backend/internal/config"
	"puzzle_quiz_backend/internal/util"
	"puzzle_quiz_backend/pkg/flash"
	"puzzle_quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func tokenFromRequest(c *gin.Context, cfg *config.Config) string {
	if cookie, err := c.Cookie(cfg.Session.CookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func claimsFromRequest(c *gin.Context, cfg *config.Config) *util.Claims {
	tokenString := tokenFromRequest(c, cfg)
	if tokenString == "" {
		return nil
	}
	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		logger.Log.Debug("JWT解析错误", zap.Error(err))
		return nil
	}
	return claims
}

// LoginPath 未登录时跳转的地址，带上原始路径
func LoginPath(next string) string {
	if next == "" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

// AuthMiddleware 页面需要登录，否则跳转到登录页
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromRequest(c, cfg)
		if claims == nil {
			next := c.Request.URL.Path
			if c.Request.Method != "GET" {
				next = ""
			}
			util.Redirect(c, LoginPath(next))
			c.Abort()
			return
		}

		c.Set(util.ContextUserKey, claims)
		c.Next()
	}
}

// TryAuth 登录页等公开页面也能识别已登录用户
func TryAuth(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims := claimsFromRequest(c, cfg); claims != nil {
			c.Set(util.ContextUserKey, claims)
		}
		c.Next()
	}
}

func FlashMiddleware(store flash.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(util.ContextFlashKey, store)
		c.Next()
	}
}

// SafeNext 只允许站内跳转
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/puzzles"
	}
	return next
}
