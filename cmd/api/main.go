package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-workflow/internal/api/http"
	"github.com/spec-kit/helpdesk-workflow/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-workflow/internal/auth"
	"github.com/spec-kit/helpdesk-workflow/internal/config"
	"github.com/spec-kit/helpdesk-workflow/internal/events"
	"github.com/spec-kit/helpdesk-workflow/internal/observability"
	"github.com/spec-kit/helpdesk-workflow/internal/persistence"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
	"github.com/spec-kit/helpdesk-workflow/internal/service"
	"github.com/spec-kit/helpdesk-workflow/internal/worker"
)

type stores struct {
	tickets       repository.TicketRepository
	history       repository.TicketHistoryRepository
	technicians   repository.TechnicianRepository
	notifications repository.NotificationRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	repos := buildStores(pg)
	if !pg.Enabled() && cfg.App.SeedDemoData {
		if err := seedDemoData(ctx, repos, logger); err != nil {
			logger.Fatal("failed to seed demo data", zap.Error(err))
		}
	}
	repos.notifications = repository.NewCachedNotificationRepository(
		repos.notifications, redis.ClientHandle(), cfg.Notification.PollInterval(), logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	workflowService := service.NewWorkflowService(service.WorkflowDependencies{
		TicketRepo:     repos.tickets,
		TechnicianRepo: repos.technicians,
		HistoryRepo:    repos.history,
		Dispatcher:     dispatcher,
		Metrics:        metrics,
		Logger:         logger,
	})
	technicianService := service.NewTechnicianService(repos.technicians, repos.tickets)
	notificationService := service.NewNotificationService(dispatcher, repos.notifications, metrics, logger, cfg.Notification)
	reportService := service.NewReportService(repos.tickets, repos.technicians, cfg.Report)

	worker.StartNotificationWorker(notificationService, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authMiddleware := auth.NewAuthMiddleware(tokens)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Tickets:        handlers.NewTicketsHandler(workflowService),
		Technicians:    handlers.NewTechniciansHandler(technicianService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func buildStores(pg *persistence.Postgres) stores {
	if !pg.Enabled() {
		tickets := repository.NewMemoryTicketStore()
		return stores{
			tickets:       tickets,
			history:       tickets,
			technicians:   repository.NewMemoryTechnicianStore(),
			notifications: repository.NewMemoryNotificationStore(),
		}
	}
	pool := pg.PoolHandle()
	return stores{
		tickets:       repository.NewTicketRepository(pool),
		history:       repository.NewTicketHistoryRepository(pool),
		technicians:   repository.NewTechnicianRepository(pool),
		notifications: repository.NewNotificationRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
