// internal/app/init.go
package app

import (
	"fmt"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	"github.com/labordacousins/scriptbreakdown/internal/di"
	"github.com/labordacousins/scriptbreakdown/internal/extractor"
	"github.com/labordacousins/scriptbreakdown/internal/services"
	"github.com/labordacousins/scriptbreakdown/internal/storage"
	"github.com/labordacousins/scriptbreakdown/internal/utils"
)

// InitServices builds every service in dependency order and registers them in
// the DI container. The router only fetches from the container afterwards.
func InitServices(cfg *config.Config) error {
	container := di.GetContainer()
	logger := utils.GetLogger()

	store, err := storage.NewFileStorage(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	container.Register("storage", store)

	registry := extractor.NewRegistry()
	registry.Register(extractor.NewLocalExtractor(config.DefaultTuning()))
	if cfg.OpenAIAPIKey != "" {
		registry.Register(extractor.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.ExtractorModel))
	} else if cfg.ExtractorProvider == "openai" {
		logger.Warn("no OpenAI API key configured, falling back to the local extractor", nil)
		cfg.ExtractorProvider = "local"
	}
	container.Register("extractors", registry)

	progress := services.NewProgressService()
	container.Register("progress", progress)

	breakdown := services.NewBreakdownService(cfg, store, progress, registry)
	container.Register("breakdown", breakdown)

	logger.Info("services initialized", map[string]interface{}{
		"provider":  cfg.ExtractorProvider,
		"providers": registry.Names(),
		"data_dir":  cfg.DataDir,
	})
	return nil
}
