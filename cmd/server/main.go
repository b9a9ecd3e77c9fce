// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/labordacousins/scriptbreakdown/internal/api"
	"github.com/labordacousins/scriptbreakdown/internal/app"
	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	if err := utils.InitLogger(filepath.Join(cfg.LogDir, "server.log")); err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	logger := utils.GetLogger()
	if cfg.DebugMode {
		logger.SetLogLevel(utils.DEBUG)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.InitServices(cfg); err != nil {
		logger.Fatal("initializing services", map[string]interface{}{"error": err.Error()})
	}

	router, err := api.SetupRouter()
	if err != nil {
		logger.Fatal("setting up router", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("server starting", map[string]interface{}{"port": cfg.Port})
	runWithGracefulShutdown(router, cfg.Port)
}

func runWithGracefulShutdown(router *gin.Engine, port string) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger := utils.GetLogger()
	logger.Info("shutting down", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", map[string]interface{}{"error": err.Error()})
	}

	logger.Info("server stopped", nil)
}
