// Command seed prepares the blog store: it migrates the schema, optionally
// drops existing data first, and inserts sample posts and comments.
package main

import (
	"context"
	"flag"

	"go.uber.org/zap"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/repository"
	"github.com/cppla/blogapi/seed"
	"github.com/cppla/blogapi/utils"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	reset := flag.Bool("reset", false, "drop and recreate all tables, then exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, zap.NewStdLog(utils.Logger.Named("gorm")), models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	if *reset {
		if err := config.ResetDatabase(db, models.All()...); err != nil {
			utils.Sugar.Fatalf("reset failed: %v", err)
		}
		utils.Sugar.Info("database reset completed")
		return
	}

	res, err := seed.Run(context.Background(), repository.NewPostRepository(db), repository.NewCommentRepository(db))
	if err != nil {
		utils.Sugar.Fatalf("seeding failed: %v", err)
	}
	utils.Sugar.Infof("seeded %d posts and %d comments", res.Posts, res.Comments)
}
