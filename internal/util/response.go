package util

import (
	"fmt"
	"net/http"

	"puzzle_quiz_backend/pkg/flash"
	"puzzle_quiz_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一 JSON 响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func flashKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func flashStore(c *gin.Context) flash.Store {
	v, ok := c.Get(ContextFlashKey)
	if !ok {
		return nil
	}
	s, _ := v.(flash.Store)
	return s
}

// AddFlash 下一次渲染页面时展示
func AddFlash(c *gin.Context, message string) {
	s := flashStore(c)
	userID := CurrentUserID(c)
	if s == nil || userID == 0 {
		return
	}
	if err := s.Add(c.Request.Context(), flashKey(userID), message); err != nil {
		logger.Log.Warn("flash add failed", zap.Error(err))
	}
}

func popFlashes(c *gin.Context) []string {
	s := flashStore(c)
	userID := CurrentUserID(c)
	if s == nil || userID == 0 {
		return nil
	}
	msgs, err := s.Pop(c.Request.Context(), flashKey(userID))
	if err != nil {
		logger.Log.Warn("flash pop failed", zap.Error(err))
		return nil
	}
	return msgs
}

// Render 渲染 HTML 模板，附带当前用户和待展示的提示
func Render(c *gin.Context, code int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = GetUserFromContext(c)
	data["Flashes"] = popFlashes(c)
	c.HTML(code, name, data)
}

func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

func RedirectWithFlash(c *gin.Context, location, message string) {
	AddFlash(c, message)
	Redirect(c, location)
}

func NotFound(c *gin.Context) {
	Render(c, http.StatusNotFound, "error.html", gin.H{
		"Title":   "Not found",
		"Message": "The page or record you asked for does not exist.",
	})
}

func InternalServerError(c *gin.Context) {
	Render(c, http.StatusInternalServerError, "error.html", gin.H{
		"Title":   "Something went wrong",
		"Message": "Your request could not be saved. Please try again.",
	})
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.Uint("user_id", CurrentUserID(c)),
	)
	InternalServerError(c)
}
