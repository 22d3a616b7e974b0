// internal/app.go
package internal

import (
	"fmt"
	"log/slog"
	"net/http"

	"thryv-wallet/internal/api"
	"thryv-wallet/internal/api/handler"
	"thryv-wallet/internal/cache"
	"thryv-wallet/internal/config"
	"thryv-wallet/internal/events"
	"thryv-wallet/internal/ledger"
	"thryv-wallet/internal/repository/postgres"
	"thryv-wallet/internal/service"
	"thryv-wallet/pkg/db"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// Application wires configuration, storage, the ledger and the HTTP surface
// together and owns their lifecycles.
type Application struct {
	Config    *config.Config
	DB        *sqlx.DB
	Redis     *redis.Client
	Publisher events.Publisher
	Router    http.Handler
	Logger    *slog.Logger
}

// NewApplication builds the full dependency graph. Redis and RabbitMQ are
// optional; when unconfigured the cache becomes a no-op and events go to the
// nop publisher.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	dbConn, err := db.NewPostgresDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var redisClient *redis.Client
	var c *cache.Cache
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		c = cache.New(redisClient, logger)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher, err = events.NewRabbitMQPublisher(cfg.AMQPURL, logger)
		if err != nil {
			dbConn.Close()
			return nil, fmt.Errorf("failed to initialize event publisher: %w", err)
		}
	}

	userRepo := postgres.NewUserRepository(dbConn)
	walletRepo := postgres.NewWalletRepository(dbConn)
	transactionRepo := postgres.NewTransactionRepository(dbConn)
	goalRepo := postgres.NewSavingsGoalRepository(dbConn)
	investmentRepo := postgres.NewInvestmentRepository(dbConn)
	budgetRepo := postgres.NewBudgetRepository(dbConn)
	fundRepo := postgres.NewEmergencyFundRepository(dbConn)

	store := ledger.NewStore(
		dbConn, walletRepo, transactionRepo, goalRepo, investmentRepo, fundRepo,
		db.BeginTx, db.CommitTx, db.RollbackTx, logger,
	)

	walletSvc := service.NewWalletService(
		dbConn, userRepo, walletRepo, transactionRepo, store, c, publisher,
		db.BeginTx, db.CommitTx, db.RollbackTx, logger,
	)
	goalSvc := service.NewSavingsGoalService(dbConn, walletRepo, transactionRepo, goalRepo, store, c, publisher, logger)
	investmentSvc := service.NewInvestmentService(dbConn, walletRepo, transactionRepo, investmentRepo, store, c, publisher, logger)
	budgetSvc := service.NewBudgetService(dbConn, walletRepo, transactionRepo, budgetRepo, store, c, publisher, logger)
	fundSvc := service.NewEmergencyFundService(dbConn, walletRepo, fundRepo, store, c, publisher, logger)

	router := api.NewRouter(
		handler.NewWalletHandler(walletSvc),
		handler.NewSavingsGoalHandler(goalSvc),
		handler.NewInvestmentHandler(investmentSvc),
		handler.NewBudgetHandler(budgetSvc),
		handler.NewEmergencyFundHandler(fundSvc),
	)

	return &Application{
		Config:    cfg,
		DB:        dbConn,
		Redis:     redisClient,
		Publisher: publisher,
		Router:    router,
		Logger:    logger,
	}, nil
}

// Close releases all backend connections.
func (a *Application) Close() {
	if err := a.Publisher.Close(); err != nil {
		a.Logger.Error("failed to close event publisher", "error", err)
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", "error", err)
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("failed to close database", "error", err)
	}
}
