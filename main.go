package main

import (
	"flag"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cppla/blogapi/config"
	"github.com/cppla/blogapi/models"
	"github.com/cppla/blogapi/routes"
	"github.com/cppla/blogapi/utils"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the JSON config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db, err := config.InitDatabase(cfg, zap.NewStdLog(utils.Logger.Named("gorm")), models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		utils.Sugar.Fatalf("database handle: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(sqlDB, cfg.DBDriver),
	)

	r := routes.SetupRouter(cfg, db, reg)

	utils.Sugar.Infof("Starting server on port %s (graceful), store=%s", cfg.AppPort, cfg.DBDriver)
	shutdownTimeout := time.Duration(cfg.ShutdownTimeoutSec) * time.Second
	if err := utils.GraceServer(":"+cfg.AppPort, r, shutdownTimeout); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
	}
}
