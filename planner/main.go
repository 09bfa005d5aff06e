package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"planner/planner/config"
	"planner/planner/controllers"
	"planner/planner/middlewares"
	"planner/planner/prompts"
	"planner/planner/routes"
	"planner/planner/services/llm"
	"planner/planner/services/search"
	"planner/planner/sources/psql"
	"planner/planner/sources/psql/dao"
	"planner/planner/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logging.InitLogger(cfg.LogDir)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	convDAO := dao.NewConversationDAO(db.DB)
	roadmapDAO := dao.NewRoadmapDAO(db.DB)

	promptCfg := prompts.LoadPrompts(prompts.DefaultPath)
	generator := llm.NewGeminiClient(cfg.GeminiAPIKey)
	synth := search.NewSynthesizer(search.NewDuckDuckGo(), cfg.SearchMaxResults)

	chatCtrl := controllers.NewChatController(convDAO, roadmapDAO, generator, synth, promptCfg, cfg.GeminiModel)
	roadmapCtrl := controllers.NewRoadmapController(convDAO, roadmapDAO)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Mount("/chat", routes.ChatRoutes(chatCtrl))
	r.Mount("/roadmaps", routes.RoadmapRoutes(roadmapCtrl))
	r.Mount("/health", routes.HealthRoutes(healthCtrl))

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()
	logging.AppLogger.Info("server started", zap.String("addr", cfg.ServerAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
