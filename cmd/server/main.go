package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sportspicks/internal/client/apisports"
	"sportspicks/internal/client/mlbstats"
	"sportspicks/internal/client/oddsapi"
	"sportspicks/internal/config"
	cronrunner "sportspicks/internal/cron"
	"sportspicks/internal/db"
	"sportspicks/internal/handler"
	"sportspicks/internal/logger"
	"sportspicks/internal/models"
	gormrepository "sportspicks/internal/repository/gorm"
	"sportspicks/internal/service"
)

func main() {
	cfgPath := os.Getenv("PICKS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("PICKS_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	refLoc, err := time.LoadLocation(cfg.Scheduler.ReferenceTimezone)
	if err != nil {
		logger.Fatal("invalid reference timezone", zap.Error(err))
	}

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	mlbClient := mlbstats.NewClient(&http.Client{Timeout: cfg.MLBStats.Timeout}, cfg.MLBStats.BaseURL, cfg.MLBStats.RPS)
	oddsClient := oddsapi.NewClient(&http.Client{Timeout: cfg.OddsAPI.Timeout}, cfg.OddsAPI.BaseURL, cfg.OddsAPI.APIKey, cfg.OddsAPI.Region, cfg.OddsAPI.Market)
	nflClient := apisports.NewClient(&http.Client{Timeout: cfg.APISport.Timeout}, cfg.APISport.BaseURL, cfg.APISport.APIKey)
	if !oddsClient.Configured() {
		logger.Warn("odds api key missing; picks will be created without prices")
	}
	if !nflClient.Configured() {
		logger.Warn("api-sports key missing; nfl tasks will report errors")
	}

	store := gormrepository.New(dbConn.Gorm)
	generator := &service.GeneratorService{
		Repo:     store,
		MLB:      mlbClient,
		NFL:      nflClient,
		Odds:     oddsClient,
		Config:   cfg.Generation,
		Location: refLoc,
		Logger:   logger,
	}
	settler := &service.SettlementService{
		Repo:       store,
		MLB:        mlbClient,
		NFL:        nflClient,
		BatchLimit: cfg.Settlement.BatchLimit,
		Logger:     logger,
	}
	tasks := &service.DailyTaskService{Generator: generator, Settler: settler, Logger: logger}

	var qna *service.QnAService
	if cfg.QnA.Enabled {
		qna = service.NewQnAService(store, logger)
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	pickHandler := &handler.PickHandler{Repo: store, QnA: qna, Location: refLoc}
	pickHandler.Register(engine)
	taskHandler := &handler.TaskHandler{Tasks: tasks, Secret: cfg.Scheduler.Secret}
	taskHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.DailyTasks, func(ctx context.Context) {
			report := tasks.RunDaily(ctx)
			if report.Failed() {
				logger.Warn("scheduled daily tasks finished with failures", zap.String("run_id", report.RunID))
			}
		})
		if err != nil {
			logger.Warn("cron register daily tasks failed", zap.Error(err))
		}

		// Settlement runs more often than generation so picks grade soon
		// after their games finish.
		_, err = cronRunner.Add(cfg.Cron.Settlement, func(ctx context.Context) {
			for _, sport := range []string{models.SportMLB, models.SportNFL} {
				report, err := settler.SettlePendingPicks(ctx, sport)
				if err != nil {
					logger.Warn("scheduled settlement failed", zap.String("sport", sport), zap.Error(err))
					continue
				}
				if report.Settled > 0 || report.Failed > 0 {
					logger.Info("scheduled settlement",
						zap.String("sport", sport),
						zap.Int("checked", report.Checked),
						zap.Int("settled", report.Settled),
						zap.Int("skipped", report.Skipped),
						zap.Int("failed", report.Failed))
				}
			}
		})
		if err != nil {
			logger.Warn("cron register settlement failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization,X-Cron-Secret")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
