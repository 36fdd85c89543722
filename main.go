package main

import (
	"context"
	"log"
	"os"

	"puzzle_quiz_backend/internal/app"
	"puzzle_quiz_backend/internal/config"
	"puzzle_quiz_backend/pkg/logger"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return cli.Exit("Failed to load config: "+err.Error(), 1)
	}

	// 设置迁移标志
	cfg.ForceMigrate = c.Bool("migrate") || c.Bool("migrate-only")
	cfg.MigrateOnly = c.Bool("migrate-only")

	application, err := app.NewApp(cfg)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if cfg.MigrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		application.Close(context.Background())
		return nil
	}

	return application.Run()
}

func main() {
	// .env 可选
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "puzzle-quiz",
		Usage: "puzzles, scored quizzes and comments behind a login",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs",
				Usage:   "配置目录，或 yaml 文件路径",
				EnvVars: []string{"PUZZLE_QUIZ_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "启动时强制执行数据库迁移（即使是 release 模式）",
			},
			&cli.BoolFlag{
				Name:  "migrate-only",
				Usage: "只执行数据库迁移，完成后退出",
			},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
