package bootstrap

import (
	"context"
	"log"

	"music-promo-be/internal/config"
	"music-promo-be/internal/controller"
	"music-promo-be/internal/handler"
	"music-promo-be/internal/pkg/logger"
	"music-promo-be/internal/pkg/mailer"
	"music-promo-be/internal/repository/implementation"
	"music-promo-be/internal/repository/memory"
	"music-promo-be/internal/repository/unitofwork"
	"music-promo-be/internal/service"
	"music-promo-be/internal/websocket"

	pktNats "music-promo-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const reconcileTopic = "RECONCILE_BALANCE"

type Container struct {
	// Controllers
	ModerationController controller.IModerationController
	WalletController     controller.IWalletController
	TierController       controller.ITierController
	DonationController   controller.IDonationController

	// Background Services (Exposed for main.go to run)
	ReconciliationService service.IReconciliationService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
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

	// Showcase items live in memory only; they are browsable but can
	// never be decided or billed.
	demoCatalog := memory.NewDemoCatalog()
	memory.SeedShowcase(demoCatalog)

	// 2.5 Infrastructure (Moved up for dependency injection)
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	reconciliationService := service.NewReconciliationService(pubSub, reconcileTopic, uowFactory)

	ledgerService := service.NewLedgerService(uowFactory, reconciliationService)
	tierService := service.NewTierService(uowFactory, ledgerService, natsPub)
	moderationService := service.NewModerationService(uowFactory, tierService, demoCatalog, natsPub, cfg.Moderation)
	withdrawalService := service.NewWithdrawalService(uowFactory, ledgerService, tierService, natsPub, cfg.Withdrawal)
	donationService := service.NewDonationService(uowFactory, tierService, natsPub, reconciliationService, cfg.Midtrans, cfg.App.ClientURL)

	// 3.5 Notification System Infrastructure
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, emailService, sysLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	// Handler
	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	// 4. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		ModerationController: controller.NewModerationController(moderationService),
		WalletController:     controller.NewWalletController(ledgerService, withdrawalService),
		TierController:       controller.NewTierController(tierService),
		DonationController:   controller.NewDonationController(donationService),

		ReconciliationService: reconciliationService,
	}
}
