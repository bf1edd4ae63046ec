package bootstrap

import (
	"context"
	"log"

	"datacloud-analytics-be/internal/config"
	"datacloud-analytics-be/internal/controller"
	"datacloud-analytics-be/internal/handler"
	"datacloud-analytics-be/internal/pkg/logger"
	"datacloud-analytics-be/internal/pkg/mailer"
	"datacloud-analytics-be/internal/repository/unitofwork"
	"datacloud-analytics-be/internal/service"
	"datacloud-analytics-be/internal/websocket"

	pktNats "datacloud-analytics-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	OAuthController        controller.IOAuthController
	DashboardController    controller.IDashboardController
	SubscriptionController controller.ISubscriptionController
	ExportController       controller.IExportController
	BillingController      controller.IBillingController
	AdminController        controller.IAdminController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	EvaluationJob   *service.EvaluationJob

	// WebSockets
	DashboardWsHandler *handler.DashboardWsHandler
	WebSocketHub       *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

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

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/dashboard_ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(cfg.App.RefreshTopic, pubSub)

	metricsService := service.NewMetricsService(uowFactory, cfg.Cache.TTLSeconds, sysLogger)
	alertService := service.NewAlertService(
		uowFactory,
		metricsService,
		cfg.Goals,
		natsPub,
		emailService,
		wsHub,
		cfg.SMTP.AlertsTo,
		sysLogger,
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.RefreshTopic,
		metricsService,
		alertService,
	)

	subscriptionService := service.NewSubscriptionService(
		uowFactory,
		publisherService,
		natsPub,
		cfg.App.PageSize,
		sysLogger,
	)
	billingService := service.NewBillingService(
		uowFactory,
		publisherService,
		cfg.Billing,
		cfg.App.ClientURL,
		sysLogger,
	)
	exportService := service.NewExportService(uowFactory, natsPub, sysLogger)
	authService := service.NewAuthService(uowFactory)
	oauthService := service.NewOAuthService(uowFactory, cfg.OAuth, sysLogger)

	evaluationJob := service.NewEvaluationJob(metricsService, alertService, cfg.App.EvalIntervalMin, sysLogger)

	// WebSocket entry + bus bridge
	wsHandler := handler.NewDashboardWsHandler(wsHub, natsSub, wsLogger)
	if natsSub != nil {
		wsHandler.StartBusBridge()
	}

	// 4. Controllers
	return &Container{
		AuthController:         controller.NewAuthController(authService),
		OAuthController:        controller.NewOAuthController(oauthService, cfg.App.ClientURL),
		DashboardController:    controller.NewDashboardController(metricsService, alertService),
		SubscriptionController: controller.NewSubscriptionController(subscriptionService),
		ExportController:       controller.NewExportController(exportService),
		BillingController:      controller.NewBillingController(billingService),
		AdminController:        controller.NewAdminController(sysLogger),

		ConsumerService: consumerService,
		EvaluationJob:   evaluationJob,

		DashboardWsHandler: wsHandler,
		WebSocketHub:       wsHub,
	}
}
