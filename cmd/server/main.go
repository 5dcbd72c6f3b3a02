package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"kpslogistics/billing"
	"kpslogistics/config"
	"kpslogistics/db"
	"kpslogistics/db/mongo"
	"kpslogistics/db/postgres"
	"kpslogistics/handlers"
	"kpslogistics/models"
	"kpslogistics/repository"
	"kpslogistics/routes"
	"kpslogistics/utils"
)

var defaultVendors = []string{"M/S Best Sellers", "M/S Shiva Express", "Manipal Technologies"}

type repositories struct {
	vendors repository.VendorRepository
	entries repository.EntryRepository
	audit   repository.AuditRepository
	users   repository.UserRepository
	company repository.CompanyRepository
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		config.GetLogger().WithError(err).Fatal("failed to load config")
	}
	logger := config.ConfigureLogger(cfg)

	dbType, err := db.ParseDBType(cfg.DBType)
	if err != nil {
		logger.WithError(err).Fatal("invalid storage backend")
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	var repos repositories
	switch dbType {
	case db.Postgres:
		if err := db.RunMigrations(cfg.PostgresURL, cfg.MigrationsURL); err != nil {
			logger.WithError(err).Fatal("migrations failed")
		}

		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(connectCtx); err != nil {
			logger.WithError(err).Fatal("postgres connect failed")
		}
		defer pg.Disconnect()

		repos = repositories{
			vendors: repository.NewPostgresVendorRepo(pg.Conn),
			entries: repository.NewPostgresEntryRepo(pg.Conn),
			audit:   repository.NewPostgresAuditRepo(pg.Conn),
			users:   repository.NewPostgresUserRepo(pg.Conn),
			company: repository.NewPostgresCompanyRepo(pg.Conn),
		}

	case db.Mongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
		if err := mg.Connect(connectCtx); err != nil {
			logger.WithError(err).Fatal("mongo connect failed")
		}
		defer mg.Disconnect()

		database := mg.Database()
		if err := repository.EnsureMongoIndexes(connectCtx, database); err != nil {
			logger.WithError(err).Fatal("mongo indexes failed")
		}
		repos = repositories{
			vendors: repository.NewMongoVendorRepo(database),
			entries: repository.NewMongoEntryRepo(database),
			audit:   repository.NewMongoAuditRepo(database),
			users:   repository.NewMongoUserRepo(database),
			company: repository.NewMongoCompanyRepo(database),
		}
	}
	cancelConnect()
	logger.WithField("db_type", dbType).Info("storage connected")

	cache := newCache(cfg, logger)
	auditSink := billing.NewRepositoryAuditSink(repos.audit)

	vendorService := billing.NewVendorService(repos.vendors, repos.entries, auditSink, cache, logger)
	entryService := billing.NewEntryService(repos.entries, repos.vendors, auditSink, cache, logger)
	invoiceService := billing.NewInvoiceService(repos.entries, repos.vendors, cfg.DefaultBillingAddress)
	analyticsService := billing.NewAnalyticsService(repos.entries, repos.vendors, cache)
	analyticsService.Logger = logger
	auditService := billing.NewAuditService(repos.audit, auditSink, logger)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	seed(startupCtx, cfg, logger, repos, vendorService, auditService)
	cancel()

	invoiceHandler := &handlers.InvoiceHandler{
		Service:  invoiceService,
		PDFRepo:  repository.NewPDFRepository(repos.company),
		SavePath: cfg.PDFSavePath,
		Logger:   logger,
	}
	uploader, err := utils.NewR2Uploader(context.Background(), cfg.R2)
	switch {
	case err == nil:
		invoiceHandler.Uploader = uploader
	case errors.Is(err, utils.ErrR2Disabled):
		logger.Info("R2 not configured, invoice PDFs are kept locally")
	default:
		logger.WithError(err).Warn("R2 setup failed, invoice PDFs are kept locally")
	}

	router := routes.SetupRoutes(routes.Handlers{
		User:      handlers.NewUserHandler(repos.users, auditSink, logger),
		Vendor:    &handlers.VendorHandler{Service: vendorService, Logger: logger},
		Entry:     &handlers.EntryHandler{Service: entryService, Logger: logger},
		Invoice:   invoiceHandler,
		Analytics: &handlers.AnalyticsHandler{Service: analyticsService, Logger: logger},
		Report:    &handlers.ReportHandler{Entries: entryService, Vendors: vendorService, Logger: logger},
		Audit:     &handlers.AuditHandler{Service: auditService, Logger: logger},
		Company:   &handlers.CompanyHandler{Repo: repos.company, Logger: logger},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("server stopped")
}

// newCache connects to Redis when REDIS_ADDR is set. Analytics work without it.
func newCache(cfg *config.Config, logger *logrus.Logger) *billing.Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable, analytics cache disabled")
		_ = client.Close()
		return nil
	}
	cache := billing.NewCache(client, cfg.AnalyticsCacheTTL)
	cache.Logger = logger
	return cache
}

// seed creates the admin account and stock vendors on an empty store and
// prunes old audit records. Failures are logged; the server still starts.
func seed(ctx context.Context, cfg *config.Config, logger *logrus.Logger, repos repositories, vendors *billing.VendorService, audit *billing.AuditService) {
	n, err := repos.users.CountUsers(ctx)
	if err != nil {
		config.LogError(logger, "main", "seed", "count users", nil, err)
	} else if n == 0 {
		admin := &models.AppUser{Username: "admin", Password: cfg.AdminPassword, IsAdmin: true, IsActive: true}
		if err := repos.users.CreateUser(ctx, admin); err != nil {
			config.LogError(logger, "main", "seed", "create admin", nil, err)
		} else {
			logger.Info("default admin user created")
		}
	}

	if err := vendors.SeedDefaults(ctx, defaultVendors...); err != nil {
		config.LogError(logger, "main", "seed", "default vendors", nil, err)
	}

	if _, err := audit.ClearAuditLogs(ctx, "system", billing.DefaultAuditRetentionDays); err != nil {
		config.LogError(logger, "main", "seed", "audit purge", nil, err)
	}
}
