package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-paper-reader-be/internal/config"
	"ai-paper-reader-be/internal/controller"
	"ai-paper-reader-be/internal/pkg/logger"
	"ai-paper-reader-be/internal/reader"
	"ai-paper-reader-be/internal/reader/autosave"
	"ai-paper-reader-be/internal/reader/session"
	"ai-paper-reader-be/internal/repository/unitofwork"
	"ai-paper-reader-be/internal/service"
	"ai-paper-reader-be/internal/websocket"
	"ai-paper-reader-be/pkg/llm/factory"
	pktNats "ai-paper-reader-be/pkg/nats"
	"ai-paper-reader-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const notificationsTopic = "reader.notifications"

type Container struct {
	// Controllers
	HealthController controller.IHealthController
	PaperController  controller.IPaperController
	NoteController   controller.INoteController
	ChatController   controller.IChatController
	AiController     controller.IAiController
	ReaderController controller.IReaderController

	// Background Services (Exposed for main.go to run)
	NotifierService service.INotifierService

	// WebSockets
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	workspace, err := storage.NewWorkspace(cfg.Storage.WorkspaceRoot)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize paper workspace: %v", err)
	}

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.Provider,
		cfg.Ai.Model,
		cfg.Ai.APIKey,
		cfg.Ai.BaseURL(),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.Model)

	// In-memory chat session storage
	sessionStore := session.NewStore()

	// 2.5 Infrastructure
	// NATS mirror for reader events; optional
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// Redis for cross-instance websocket fan-out; optional
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
			rdb = nil
		}
	}

	// WebSocket Hub
	wsLogger := logger.NewZapLogger("logs/notifications.log", cfg.App.Environment == "production")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(pubSub, notificationsTopic)
	notifierService := service.NewNotifierService(pubSub, notificationsTopic, wsHub, wsLogger)

	noteService := service.NewNoteService(uowFactory, natsPub, sysLogger)

	saveFailureHandler := service.NewSaveFailureHandler(publisherService, sysLogger)
	autosaveController := autosave.NewController(
		noteService,
		autosave.WithDebounce(time.Duration(cfg.Reader.AutosaveDebounceMs)*time.Millisecond),
		autosave.WithFailureHandler(saveFailureHandler),
	)

	paperReader := reader.NewReader(sessionStore, autosaveController, noteService)

	paperService := service.NewPaperService(
		uowFactory,
		workspace,
		publisherService,
		natsPub,
		sysLogger,
		cfg.Storage.MaxUploadSizeMB,
	)
	chatService := service.NewChatService(
		uowFactory,
		sessionStore,
		llmProvider,
		workspace,
		sysLogger,
		cfg.Ai,
	)
	aiService := service.NewAiService(uowFactory, llmProvider, workspace, sysLogger, cfg.Ai)
	readerService := service.NewReaderService(uowFactory, paperReader, autosaveController)

	// 4. Controllers
	return &Container{
		HealthController: controller.NewHealthController(db),
		PaperController:  controller.NewPaperController(paperService),
		NoteController:   controller.NewNoteController(noteService),
		ChatController:   controller.NewChatController(chatService),
		AiController:     controller.NewAiController(aiService),
		ReaderController: controller.NewReaderController(readerService),

		NotifierService: notifierService,
		WebSocketHub:    wsHub,
	}
}
