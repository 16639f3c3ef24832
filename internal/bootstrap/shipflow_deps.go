// Package bootstrap wires configuration, stores, and services together.
package bootstrap

import (
	"context"

	cacheadapter "shipflow_server/adapter/out/cache"
	"shipflow_server/adapter/out/messaging"
	"shipflow_server/adapter/out/mongodb"
	"shipflow_server/adapter/out/persistence"
	"shipflow_server/config"
	"shipflow_server/core/agent/llm"
	"shipflow_server/core/port/out"
	"shipflow_server/core/service/classification"
	"shipflow_server/core/service/ingest"
	"shipflow_server/core/service/workflow"
	"shipflow_server/infra/database"
	"shipflow_server/pkg/cache"
	"shipflow_server/pkg/logger"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type Dependencies struct {
	Config  *config.Config
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	ShipmentStore      out.ShipmentStateStore
	ClassificationRepo out.ClassificationRepository
	AttachmentStore    out.AttachmentTextStore

	// Messaging
	MessageProducer out.MessageProducer

	// Services
	Pipeline         *classification.Pipeline
	TransitionEngine *workflow.Engine
	IngestService    *ingest.Service

	// Agent
	LLMClient *llm.Client
}

// NewDependencies builds the dependency graph. Postgres and Redis are
// required; MongoDB and the OpenAI key degrade individual features when
// absent rather than failing startup.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// Database (sqlx over pgx)
	sqlDB, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })
	logger.Info("database connection successful")

	// Redis
	redisClient, err := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.Redis = redisClient
	cleanups = append(cleanups, func() { redisClient.Close() })

	// Repositories
	deps.ShipmentStore = persistence.NewShipmentStateAdapter(sqlDB)
	deps.ClassificationRepo = persistence.NewClassificationAdapter(sqlDB)

	// MongoDB (attachment text)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			logger.Warn("MongoDB connection failed, attachment text disabled: %v", err)
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() {
				mongoClient.Disconnect(context.Background())
			})

			attachmentAdapter := mongodb.NewAttachmentTextAdapter(mongoClient.Database(cfg.MongoDBName))
			if err := attachmentAdapter.EnsureIndexes(context.Background()); err != nil {
				logger.Warn("Failed to ensure attachment text indexes: %v", err)
			}

			deps.AttachmentStore = cacheadapter.NewCachedAttachmentStore(
				attachmentAdapter,
				cache.NewRedisCache(redisClient),
				cfg.AttachmentCacheTTL,
				nil,
			)
		}
	}

	// Message Producer (Redis Streams)
	deps.MessageProducer = messaging.NewRedisProducer(redisClient)

	// AI fallback (optional)
	var fallback out.AIFallbackClassifier
	if cfg.OpenAIAPIKey != "" {
		deps.LLMClient = llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
		fallback = llm.NewDocumentClassifier(deps.LLMClient)
	} else {
		logger.Warn("OPENAI_API_KEY not set, running deterministic-only classification")
	}

	// Classification pipeline
	deps.Pipeline = classification.NewPipeline(
		&classification.PipelineConfig{
			ManualReviewThreshold: cfg.ManualReviewThreshold,
			ReplyDowngradeFactor:  cfg.ReplyDowngradeFactor,
			FallbackTimeout:       cfg.LLMTimeout,
		},
		classification.ClassifierConfig{SubjectBeforeContent: cfg.SubjectBeforeContent},
		&classification.SenderTables{
			ForwarderDomains: cfg.ForwarderDomains,
			CarrierDomains:   cfg.CarrierDomains,
			CHADomains:       cfg.CHADomains,
			TruckerDomains:   cfg.TruckerDomains,
		},
		fallback,
		nil,
	)

	// Workflow transition engine
	engine, err := workflow.NewEngine(deps.ShipmentStore, nil)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.TransitionEngine = engine

	// Ingest service
	deps.IngestService = ingest.NewService(
		deps.Pipeline,
		deps.TransitionEngine,
		deps.ClassificationRepo,
		deps.AttachmentStore,
		nil,
	)

	return deps, cleanup, nil
}
