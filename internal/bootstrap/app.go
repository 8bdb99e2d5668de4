package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/Quick-Genius/Apna-Lawyer/internal/ai"
	"github.com/Quick-Genius/Apna-Lawyer/internal/analysis"
	appsvc "github.com/Quick-Genius/Apna-Lawyer/internal/app"
	"github.com/Quick-Genius/Apna-Lawyer/internal/cache"
	"github.com/Quick-Genius/Apna-Lawyer/internal/config"
	"github.com/Quick-Genius/Apna-Lawyer/internal/extract"
	"github.com/Quick-Genius/Apna-Lawyer/internal/model"
	"github.com/Quick-Genius/Apna-Lawyer/internal/platform/database"
	rabbitmqClient "github.com/Quick-Genius/Apna-Lawyer/internal/platform/rabbitmq"
	redisClient "github.com/Quick-Genius/Apna-Lawyer/internal/platform/redis"
	"github.com/Quick-Genius/Apna-Lawyer/internal/repository"
	"github.com/Quick-Genius/Apna-Lawyer/internal/search"
	"github.com/Quick-Genius/Apna-Lawyer/internal/storage"
	"github.com/Quick-Genius/Apna-Lawyer/internal/worker"
)

type App struct {
	Config        *config.Config
	DB            *gorm.DB
	Redis         *redis.Client
	MQConn        *amqp.Connection
	MessageWorker *worker.MessagePersistWorker
	LawyerIndex   *search.LawyerIndex
	RateLimiter   *cache.RateLimiter

	Auth        *appsvc.AuthService
	Chat        *appsvc.ChatService
	Documents   *appsvc.DocumentService
	Attachments *appsvc.AttachmentService
	Lawyers     *appsvc.LawyerService

	StartedAt time.Time
}

// New connects every backing service and builds the application services.
// Redis and RabbitMQ are optional; without them history is read from the
// database and messages are written synchronously.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, StartedAt: time.Now()}
	if err := a.init(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	db, err := database.New(ctx, cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		return err
	}
	a.DB = db
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate tables failed: %w", err)
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	lawyerRepo := repository.NewLawyerRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	var historyCache appsvc.HistoryCache
	var historyInvalidator worker.HistoryInvalidator
	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		a.Redis = redisCli
		hc := cache.NewHistoryCache(
			redisCli,
			time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
			time.Duration(cfg.Redis.HistoryDirtyTTLSeconds)*time.Second,
		)
		historyCache, historyInvalidator = hc, hc
		if cfg.RateLimit.Enabled {
			a.RateLimiter = cache.NewRateLimiter(redisCli, cfg.RateLimit.Requests, time.Duration(cfg.RateLimit.WindowSeconds)*time.Second)
		}
	}

	sink := appsvc.NewDirectSink(messageRepo)
	if cfg.RabbitMQ.Enabled {
		mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return err
		}
		a.MQConn = mqConn
		a.MessageWorker = worker.NewMessagePersistWorker(mqConn, messageRepo, historyInvalidator, cfg.RabbitMQ.MessagePersistQueue)
		if err := a.MessageWorker.Start(ctx); err != nil {
			return fmt.Errorf("start message worker failed: %w", err)
		}
		sink = appsvc.NewQueuedSink(rabbitmqClient.NewMessagePublisher(mqConn, cfg.RabbitMQ.MessagePersistQueue))
	}

	fileStore, err := newFileStore(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	llm, err := ai.NewCompleter(cfg.LLM)
	if err != nil {
		if !errors.Is(err, ai.ErrNotConfigured) {
			return fmt.Errorf("build llm client failed: %w", err)
		}
		log.Warn().Str("provider", cfg.LLM.Provider).Msg("llm api key missing, analysis and chat run degraded")
		llm = nil
	}

	extractor := extract.New(newOCREngine(cfg))
	analyzer := analysis.New(llm, analysis.Options{
		ChunkSize:    cfg.Analysis.ChunkSize,
		ChunkOverlap: cfg.Analysis.ChunkOverlap,
		MaxChunks:    cfg.Analysis.MaxChunks,
	})

	index, err := search.NewLawyerIndex()
	if err != nil {
		return err
	}
	a.LawyerIndex = index
	lawyers, err := lawyerRepo.List(ctx, repository.LawyerFilter{})
	if err != nil {
		return err
	}
	if err := index.Rebuild(lawyers); err != nil {
		return err
	}
	log.Info().Int("lawyers", len(lawyers)).Msg("lawyer index built")

	a.Auth = appsvc.NewAuthService(userRepo, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.JWTExpireMinute)*time.Minute)
	a.Documents = appsvc.NewDocumentService(documentRepo, fileStore, extractor, analyzer, cfg.MaxDocumentBytes())
	a.Attachments = appsvc.NewAttachmentService(sessionRepo, attachmentRepo, fileStore, extractor, cfg.MaxImageBytes())
	a.Chat = appsvc.NewChatService(
		sessionRepo,
		messageRepo,
		documentRepo,
		sink,
		historyCache,
		appsvc.NewChatOrchestrator(llm, cfg.LLM.ChatTemperature),
		a.Documents,
		a.Attachments,
	)
	a.Lawyers = appsvc.NewLawyerService(lawyerRepo, reviewRepo, index)
	return nil
}

func newFileStore(ctx context.Context, cfg config.StorageConfig) (storage.FileStore, error) {
	if cfg.Backend == "minio" {
		return storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Bucket:    cfg.Bucket,
			UseSSL:    cfg.UseSSL,
		})
	}
	return storage.NewLocalStore(cfg.LocalDir)
}

// newOCREngine returns nil when no engine can run; image extraction then
// reports a degraded result instead of failing the request.
func newOCREngine(cfg *config.Config) extract.OCREngine {
	if cfg.OCR.Engine == "documentai" {
		engine, err := extract.NewDocumentAIEngine(extract.DocumentAIConfig{
			ProjectID:       cfg.OCR.ProjectID,
			Location:        cfg.OCR.Location,
			ProcessorID:     cfg.OCR.ProcessorID,
			CredentialsFile: cfg.OCR.Credentials,
			Languages:       cfg.OCR.Languages,
			Timeout:         cfg.OCRTimeout(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("document ai ocr disabled")
			return nil
		}
		return engine
	}
	engine := extract.NewTesseractEngine(cfg.OCR.TesseractPath, cfg.OCR.Languages, cfg.OCRTimeout())
	if !engine.Available() {
		return nil
	}
	return engine
}

// HealthChecks probes each configured dependency.
func (a *App) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	if a.MQConn != nil {
		checks["rabbitmq"] = func(context.Context) error {
			if a.MQConn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
	}
	return checks
}

func (a *App) Close() error {
	var closeErr error
	if a.MessageWorker != nil {
		a.MessageWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.LawyerIndex != nil {
		if err := a.LawyerIndex.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
