package main

import (
	"rezerv/internal/auth"
	authhandler "rezerv/internal/auth/handler"
	authservice "rezerv/internal/auth/service"
	bookingshandler "rezerv/internal/bookings/handler"
	bookingsrepo "rezerv/internal/bookings/repository"
	bookingsservice "rezerv/internal/bookings/service"
	bookingsvalidator "rezerv/internal/bookings/validator"
	"rezerv/internal/notifications"
	resourceshandler "rezerv/internal/resources/handler"
	resourcesrepo "rezerv/internal/resources/repository"
	resourcesservice "rezerv/internal/resources/service"
	usersrepo "rezerv/internal/users/repository"
	"rezerv/pkg/app"
	"rezerv/pkg/config"
	"rezerv/pkg/kafka"
)

func main() {
	cfg := config.Load("rezerv")
	cfg.SetMongo()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	var notifier notifications.Notifier = notifications.NewNoopNotifier()
	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaNotificationsTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
		}
		producer = p
		notifier = notifications.NewKafkaNotifier(p, cfg.Log)
	}

	userRepo := usersrepo.NewMongoUserRepository(cfg)
	resourceRepo := resourcesrepo.NewMongoResourceRepository(cfg)
	bookingRepo := bookingsrepo.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepo.NewApprovalLockRepository(cfg)

	bookingService := bookingsservice.NewBookingService(
		cfg,
		bookingRepo,
		lockRepo,
		userRepo,
		resourceRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		notifier,
	)
	resourceService := resourcesservice.NewResourceService(cfg, resourceRepo)
	authService := authservice.NewAuthService(cfg, userRepo, tokens)

	application := app.NewApplication()
	application.SetApp(cfg, tokens, producer,
		authhandler.NewAuthHandler(authService, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		resourceshandler.NewResourceHandler(resourceService, cfg.Log),
	)
	application.Run()
}
