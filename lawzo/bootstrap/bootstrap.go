// Package bootstrap assembles the process wide components shared by the HTTP
// server and the CLI.
package bootstrap

import (
	"context"
	"fmt"

	"lawzo/lawzo/agents/actions"
	"lawzo/lawzo/agents/configs"
	"lawzo/lawzo/agents/core"
	"lawzo/lawzo/agents/memory"
	"lawzo/lawzo/config"
	"lawzo/lawzo/services/embedding"
	"lawzo/lawzo/services/llm"
	"lawzo/lawzo/services/ratelimit"
	"lawzo/lawzo/sources/cache"
	"lawzo/lawzo/sources/psql"
	"lawzo/lawzo/sources/psql/dao"
	"lawzo/lawzo/sources/storage"
	"lawzo/lawzo/sources/vector"
	"lawzo/lawzo/utils/logging"

	"go.uber.org/zap"
)

type App struct {
	Config        config.Config
	Catalog       *config.Catalog
	DB            *psql.Database
	Conversations *dao.ConversationDAO
	Actions       *actions.LegalActions
	Pipeline      *core.Pipeline
	Memory        *memory.Store
	Storage       *storage.MinIOClient
	Redis         *cache.RedisCounterStore
	MemoryCounter *ratelimit.MemoryStore
}

func Build(ctx context.Context, cfg config.Config) (*App, error) {
	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	assistant, err := configs.LoadConfig(cfg.AssistantProperties)
	if err != nil {
		return nil, err
	}

	model, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("llm client: %w", err)
	}
	embedKey := cfg.EmbeddingAPIKey
	if embedKey == "" {
		embedKey = cfg.LLMAPIKey
	}
	embedder, err := embedding.NewService(embedKey, cfg.EmbeddingBaseURL, cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	if err != nil {
		return nil, fmt.Errorf("embedding service: %w", err)
	}

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	app := &App{Config: cfg, Catalog: catalog, DB: db}

	app.Conversations = dao.NewConversationDAO(db.DB)
	retriever := vector.NewPGRetriever(embedder, dao.NewPassageDAO(db.DB), cfg.RetrievalK)
	app.Actions = actions.NewLegalActions(model, retriever, assistant)
	app.Memory = memory.NewStore(memory.DefaultTurns)

	var counters ratelimit.CounterStore
	if cfg.RedisURL != "" {
		app.Redis, err = cache.NewRedisCounterStore(ctx, cfg.RedisURL)
		if err != nil {
			logging.ErrorLogger.Warn("redis unavailable, using in-process rate counters", zap.Error(err))
		} else {
			counters = app.Redis
		}
	}
	if counters == nil {
		app.MemoryCounter = ratelimit.NewMemoryStore()
		counters = app.MemoryCounter
	}

	if cfg.MinIOAccessKey != "" {
		app.Storage, err = storage.NewMinIOClient(ctx, cfg)
		if err != nil {
			logging.ErrorLogger.Warn("minio unavailable, documents will not be stored", zap.Error(err))
			app.Storage = nil
		}
	}

	app.Pipeline = core.NewPipeline(&core.Components{
		Actions:           app.Actions,
		Memory:            app.Memory,
		Conversations:     app.Conversations,
		Limiter:           ratelimit.NewLimiter(counters),
		Catalog:           catalog,
		EnableTranslation: cfg.EnableTranslation,
		Timeout:           cfg.PipelineTimeout,
	})

	logging.AppLogger.Info("components ready",
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("llm_model", cfg.LLMModel),
		zap.Bool("redis", app.Redis != nil),
		zap.Bool("minio", app.Storage != nil),
		zap.Int("categories", len(catalog.Categories)),
	)
	return app, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		a.DB.Close()
	}
}
