package app

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"puzzle_quiz_backend/internal/config"
	"puzzle_quiz_backend/internal/controller"
	"puzzle_quiz_backend/internal/quiz"
	"puzzle_quiz_backend/internal/repository"
	"puzzle_quiz_backend/internal/service"
	"puzzle_quiz_backend/internal/util"
	"puzzle_quiz_backend/internal/web"
	"puzzle_quiz_backend/pkg/configwatcher"
	"puzzle_quiz_backend/pkg/database"
	"puzzle_quiz_backend/pkg/flash"
	"puzzle_quiz_backend/pkg/logger"
	"puzzle_quiz_backend/pkg/monitoring"
	"puzzle_quiz_backend/pkg/security"
	"puzzle_quiz_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	limiter         *security.Limiter
	tracer          *trace.TracerProvider
	configCallbacks []func(*config.Config)
}

// Deps 构建路由所需的外部依赖，测试中可替换
type Deps struct {
	Config  *config.Config
	DB      *gorm.DB
	Catalog *quiz.Catalog
	Flash   flash.Store
	Redis   *redis.Client
	Rand    *rand.Rand
	Limiter *security.Limiter
}

type repositories struct {
	user     *repository.UserRepository
	puzzle   *repository.PuzzleRepository
	response *repository.ResponseRepository
	comment  *repository.CommentRepository
}

type services struct {
	auth     *service.AuthService
	puzzle   *service.PuzzleService
	response *service.ResponseService
	comment  *service.CommentService
	export   *service.ExportService
}

type controllers struct {
	auth     *controller.AuthController
	puzzle   *controller.PuzzleController
	response *controller.ResponseController
	comment  *controller.CommentController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		puzzle:   repository.NewPuzzleRepository(db),
		response: repository.NewResponseRepository(db),
		comment:  repository.NewCommentRepository(db),
	}
}

func initServices(repos *repositories, deps Deps) *services {
	return &services{
		auth:     service.NewAuthService(repos.user, deps.Config),
		puzzle:   service.NewPuzzleService(repos.puzzle, repos.comment),
		response: service.NewResponseService(deps.Catalog, repos.response, repos.comment, deps.Rand),
		comment:  service.NewCommentService(repos.comment, repos.puzzle, repos.response),
		export:   service.NewExportService(),
	}
}

func initControllers(s *services, deps Deps) *controllers {
	puzzles := controller.NewPuzzleController(s.puzzle)
	responses := controller.NewResponseController(s.response, s.export)
	return &controllers{
		auth:     controller.NewAuthController(s.auth, deps.Config),
		puzzle:   puzzles,
		response: responses,
		comment:  controller.NewCommentController(s.comment, puzzles, responses),
		health:   controller.NewHealthController(deps.DB, deps.Redis),
	}
}

func setupMiddlewares(router *gin.Engine, deps Deps) {
	cfg := deps.Config
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if deps.Limiter != nil {
		router.Use(deps.Limiter.Middleware())
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewRouter 组装仓储、服务、控制器和路由
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Flash == nil {
		deps.Flash = flash.NewMemoryStore()
	}
	util.UseFormFieldNames()

	repos := initRepositories(deps.DB)
	s := initServices(repos, deps)
	c := initControllers(s, deps)

	tmpl, err := web.Templates(viewFuncs(s.response))
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.New()
	// 未配置代理时 ClientIP 不读取 X-Forwarded-For，限流按真实连接地址计数
	if err := router.SetTrustedProxies(deps.Config.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.Recovery())
	if deps.Config.Server.Mode == gin.DebugMode {
		router.Use(gin.Logger())
	}
	router.SetHTMLTemplate(tmpl)

	setupMiddlewares(router, deps)
	registerRoutes(router, c, deps)

	return router, nil
}

func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	// release 模式下默认跳过自动迁移，除非显式指定
	migrate := cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	app := &App{Config: cfg, DB: db}
	if cfg.MigrateOnly {
		return app, nil
	}

	var store flash.Store = flash.NewMemoryStore()
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(context.Background(), &cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
		app.Redis = rdb
		store = flash.NewRedisStore(rdb)
	}

	catalog, err := quiz.LoadCatalog(cfg.Quiz.BankFile)
	if err != nil {
		return nil, fmt.Errorf("load answer bank: %w", err)
	}
	logger.Log.Info("Answer bank loaded",
		zap.Int("questions", catalog.Bank().Len()),
		zap.Int("variants", len(catalog.Variants())),
	)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("puzzle-quiz", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	app.limiter = security.NewLimiter(cfg.RateLimit.MaxRequests, window)

	router, err := NewRouter(Deps{
		Config:  cfg,
		DB:      db,
		Catalog: catalog,
		Flash:   store,
		Redis:   app.Redis,
		Limiter: app.limiter,
	})
	if err != nil {
		return nil, err
	}
	app.Router = router

	app.RegisterConfigCallback(logger.SetLevel)
	return app, nil
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.ConfigFile == "" {
		return
	}
	err := configwatcher.WatchConfig(ctx, a.Config.ConfigFile, func(cfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher stopped", zap.Error(err))
	}
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.watchConfig(ctx)
	go a.limiter.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	a.Close(shutdownCtx)

	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放追踪、Redis 和数据库连接
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
