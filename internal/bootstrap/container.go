package bootstrap

import (
	"log"
	"os"
	"time"

	"mailfloww-be/internal/config"
	"mailfloww-be/internal/controller"
	"mailfloww-be/internal/pkg/logger"
	"mailfloww-be/internal/pkg/mailer"
	"mailfloww-be/internal/repository/implementation"
	"mailfloww-be/internal/repository/memory"
	"mailfloww-be/internal/service"
	"mailfloww-be/pkg/emailsource"
	"mailfloww-be/pkg/embedding"
	"mailfloww-be/pkg/llm/factory"
	pktNats "mailfloww-be/pkg/nats"
	"mailfloww-be/pkg/retrieval"
	"mailfloww-be/pkg/workflow"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ReplyController  controller.IReplyController
	IngestController controller.IIngestController
	SystemController controller.ISystemController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
	FetcherService  service.IFetcherService

	// Shutdown hooks
	SysLogger logger.ILogger
	NatsPub   *pktNats.Publisher

	PollInterval time.Duration
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// 4. Retrieval indexes
	emailRepo := implementation.NewEmailVectorRepository(db)
	documentRepo := implementation.NewDocumentVectorRepository(db)
	emailIndex := retrieval.NewEmailIndex(emailRepo, embeddingProvider)
	documentIndex := retrieval.NewDocumentIndex(documentRepo, embeddingProvider)

	// 5. Reply workflow
	workflowLogger := log.New(os.Stdout, "[workflow] ", log.LstdFlags)
	workflowController := workflow.NewController(
		workflow.NewContextAssembler(emailIndex, documentIndex, workflowLogger),
		workflow.NewDrafter(llmProvider, workflowLogger),
		workflow.NewCritic(llmProvider, workflowLogger),
		workflowLogger,
	)
	runRepo := memory.NewRunRepository()

	// 6. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ingest.TopicName)
	ingestService := service.NewIngestService(emailIndex, documentIndex, natsPub)
	consumerService := service.NewConsumerService(pubSub, cfg.Ingest.TopicName, ingestService)

	emailBackend := emailsource.NewBackend(cfg.Ingest.BackendURL, log.New(os.Stdout, "[fetcher] ", log.LstdFlags))
	fetcherService := service.NewFetcherService(emailBackend, publisherService)

	replyService := service.NewReplyService(
		workflowController,
		runRepo,
		emailService,
		natsPub,
		sysLogger,
	)

	// 7. Controllers
	return &Container{
		ReplyController:  controller.NewReplyController(replyService),
		IngestController: controller.NewIngestController(ingestService, fetcherService),
		SystemController: controller.NewSystemController(db, cfg.Ai.LLMProvider),

		ConsumerService: consumerService,
		FetcherService:  fetcherService,

		SysLogger: sysLogger,
		NatsPub:   natsPub,

		PollInterval: time.Duration(cfg.Ingest.PollIntervalSeconds) * time.Second,
	}
}
