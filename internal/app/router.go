package app

import (
	"html/template"

	"puzzle_quiz_backend/internal/middleware"
	"puzzle_quiz_backend/internal/model"
	"puzzle_quiz_backend/internal/service"
	"puzzle_quiz_backend/internal/util"
	"puzzle_quiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func viewFuncs(responses *service.ResponseService) template.FuncMap {
	return template.FuncMap{
		"viewPath": func(r model.Response) string {
			return responses.ViewPath(&r)
		},
	}
}

func registerRoutes(router *gin.Engine, c *controllers, deps Deps) {
	router.Use(middleware.FlashMiddleware(deps.Flash))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	// 1. 公共页面(无需登录)
	registerAuthRoutes(router, c, deps)

	// 2. 需要登录的页面
	authGroup := router.Group("/")
	authGroup.Use(middleware.AuthMiddleware(deps.Config))
	{
		authGroup.GET("/", func(ctx *gin.Context) { util.Redirect(ctx, "/puzzles") })
		registerPuzzleRoutes(authGroup, c)
		registerResponseRoutes(authGroup, c, deps)
		authGroup.GET("/comment/delete/:id", c.comment.Delete)
	}

	router.NoRoute(middleware.TryAuth(deps.Config), util.NotFound)
}

func registerAuthRoutes(router *gin.Engine, c *controllers, deps Deps) {
	public := router.Group("/")
	public.Use(middleware.TryAuth(deps.Config))
	{
		public.GET("/login", c.auth.ShowLogin)
		public.POST("/login", c.auth.Login)
		public.GET("/register", c.auth.ShowRegister)
		public.POST("/register", c.auth.Register)
		public.GET("/logout", c.auth.Logout)
	}
}

func registerPuzzleRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/puzzles", c.puzzle.List)
	group.GET("/puzzle/list", c.puzzle.List)
	group.GET("/puzzle/new", c.puzzle.New)
	group.POST("/puzzle/new", c.puzzle.Create)
	group.GET("/puzzle/edit/:id", c.puzzle.Edit)
	group.POST("/puzzle/edit/:id", c.puzzle.Update)
	group.GET("/puzzle/delete/:id", c.puzzle.Delete)
	group.GET("/puzzle/:id", c.puzzle.View)
	group.POST("/puzzle/:id/comment", c.comment.CreateOnPuzzle)
}

func registerResponseRoutes(group *gin.RouterGroup, c *controllers, deps Deps) {
	group.GET("/responses", c.response.List)
	group.GET("/responses/list", c.response.List)
	group.GET("/responses/export", c.response.Export)

	// 每种答题表单一组 GET/POST，详情页按变体拥有各自的前缀
	viewPaths := map[string]bool{"/response": true}
	for _, v := range deps.Catalog.Variants() {
		group.GET("/response/"+v.Name, c.response.ShowForm(v.Name))
		group.POST("/response/"+v.Name, c.response.Submit(v.Name))
		viewPaths[v.ViewPath] = true
	}
	for prefix := range viewPaths {
		group.GET(prefix+"/:id", c.response.View)
	}

	group.GET("/response/delete/:id", c.response.Delete)
	group.POST("/response/:id/comment", c.comment.CreateOnResponse)
}
