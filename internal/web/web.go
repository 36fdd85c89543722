// Package web holds the embedded HTML templates.
package web

import (
	"embed"
	"html/template"
	"time"

	"puzzle_quiz_backend/internal/util"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs 模板公共函数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(util.TimeFormat)
		},
		"owns": func(user *util.Claims, authorID uint) bool {
			if user == nil {
				return false
			}
			return util.CanMutate(user.UserID, authorID)
		},
		"fieldError": func(errs util.FieldErrors, name string) string {
			return errs[name]
		},
	}
}

// Templates 解析全部页面模板；extra 中的函数会覆盖同名公共函数
func Templates(extra template.FuncMap) (*template.Template, error) {
	funcs := Funcs()
	for name, fn := range extra {
		funcs[name] = fn
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
