package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/aqariapp/aqari-api/docs" // Swagger docs
	"github.com/aqariapp/aqari-api/internal/config"
	"github.com/aqariapp/aqari-api/internal/database"
	"github.com/aqariapp/aqari-api/internal/handlers"
	"github.com/aqariapp/aqari-api/internal/jobs"
	"github.com/aqariapp/aqari-api/internal/middleware"
	"github.com/aqariapp/aqari-api/internal/repository"
	"github.com/aqariapp/aqari-api/internal/services"
	"github.com/aqariapp/aqari-api/pkg/logger"
)

// @title Aqari API
// @version 1.0
// @description REST API for the Aqari property management back office

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Setup(cfg.Environment)

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY not set")
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	repos := repository.NewRepositories(db)

	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	svcs := services.NewServices(repos, worker, cfg, db)

	if err := svcs.User.EnsureSeedAdmin(context.Background(), cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("Failed to seed admin account", "error", err)
	}

	scheduleJobs(worker, svcs)

	h := handlers.NewHandlers(svcs, worker)
	router := setupRouter(h, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	v1 := router.Group("/api/v1")
	{
		router.GET("/", func(c *gin.Context) {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
		})

		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

		// Health check (public)
		v1.GET("/health", h.Health.Index)

		// Authentication (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.Refresh)
			auth.POST("/logout", h.Auth.Logout)
		}

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			protected.GET("/auth/me", h.Auth.Me)

			// Admin and manager only
			privileged := protected.Group("")
			privileged.Use(middleware.RequirePrivileged())
			{
				// Staff management
				privileged.GET("/users", h.User.Index)
				privileged.POST("/users", h.User.Create)
				privileged.DELETE("/users/:user_id", h.User.Delete)

				// Pending approvals
				privileged.GET("/transactions/pending", h.Transaction.Pending)
				privileged.POST("/transactions/:transaction_id/approve", h.Transaction.Approve)
				privileged.POST("/transactions/:transaction_id/reject", h.Transaction.Reject)

				// Destructive contract operations
				privileged.DELETE("/contracts/:contract_id", h.Contract.Delete)

				// Audit trail and worker health
				privileged.GET("/audits", h.Audit.Index)
				privileged.GET("/jobs/stats", h.Job.Stats)
			}

			// Profile access: admin or the account owner
			protected.GET("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Show)
			protected.PUT("/users/:user_id", middleware.RequireAdminOrOwner(), h.User.Update)

			// Buildings
			buildings := protected.Group("/buildings")
			{
				buildings.GET("", h.Building.Index)
				buildings.GET("/all", h.Building.All)
				buildings.GET("/:building_id", h.Building.Show)
				buildings.POST("", h.Building.Create)
				buildings.PUT("/:building_id", h.Building.Update)
				buildings.DELETE("/:building_id", h.Building.Delete)
			}

			// Customers
			customers := protected.Group("/customers")
			{
				customers.GET("", h.Customer.Index)
				customers.GET("/:customer_id", h.Customer.Show)
				customers.GET("/:customer_id/contracts", h.Customer.Contracts)
				customers.POST("", h.Customer.Create)
				customers.PUT("/:customer_id", h.Customer.Update)
				customers.DELETE("/:customer_id", h.Customer.Delete)
			}

			// Contracts
			contracts := protected.Group("/contracts")
			{
				contracts.GET("", h.Contract.Index)
				contracts.GET("/:contract_id", h.Contract.Show)
				contracts.GET("/:contract_id/renew", h.Contract.Renew)
				contracts.GET("/:contract_id/document", h.Contract.Document)
				contracts.POST("", h.Contract.Create)
				contracts.PUT("/:contract_id", h.Contract.Update)
				contracts.POST("/:contract_id/finalize", h.Contract.Finalize)
			}

			// Transactions. Static routes first so "suggest" is not
			// matched as :transaction_id.
			transactions := protected.Group("/transactions")
			{
				transactions.GET("", h.Transaction.Index)
				transactions.GET("/suggest", h.Transaction.Suggest)
				transactions.GET("/installment_due/:contract_id", h.Transaction.InstallmentDue)
				transactions.GET("/:transaction_id", h.Transaction.Show)
				transactions.GET("/:transaction_id/receipt", h.Transaction.Receipt)
				transactions.GET("/:transaction_id/whatsapp", h.Transaction.WhatsAppLink)
				transactions.POST("", h.Transaction.Create)
				transactions.PUT("/:transaction_id", h.Transaction.Update)
				transactions.DELETE("/:transaction_id", h.Transaction.Delete)
			}

			// Personal task board
			tasks := protected.Group("/tasks")
			{
				tasks.GET("", h.Task.Index)
				tasks.POST("", h.Task.Create)
				tasks.PUT("/:task_id", h.Task.Update)
				tasks.POST("/:task_id/move", h.Task.Move)
				tasks.DELETE("/:task_id", h.Task.Delete)
			}

			// Vendors and banks
			vendors := protected.Group("/vendors")
			{
				vendors.GET("", h.Vendor.Index)
				vendors.GET("/:vendor_id", h.Vendor.Show)
				vendors.POST("", h.Vendor.Create)
				vendors.PUT("/:vendor_id", h.Vendor.Update)
				vendors.DELETE("/:vendor_id", h.Vendor.Delete)
			}
			banks := protected.Group("/banks")
			{
				banks.GET("", h.Bank.Index)
				banks.POST("", h.Bank.Create)
				banks.PUT("/:bank_id", h.Bank.Update)
				banks.DELETE("/:bank_id", h.Bank.Delete)
			}

			// Notifications. Static route first so "mark_all_as_read"
			// is not matched as :notification_id.
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", h.Notification.Index)
				notifications.POST("/mark_all_as_read", h.Notification.MarkAllAsRead)
				notifications.POST("/:notification_id/mark_as_read", h.Notification.MarkAsRead)
			}

			// Reports and exports
			reports := protected.Group("/reports")
			{
				reports.GET("/transactions_csv", h.Report.TransactionsCSV)
				reports.GET("/transactions_xlsx", h.Report.TransactionsXLSX)
				reports.GET("/contracts_xlsx", h.Report.ContractsXLSX)
				reports.GET("/monthly_summary", h.Report.MonthlySummary)
			}
		}
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Expire lapsed contracts hourly. Reads also refresh lazily, the
	// sweep just keeps listings fresh between requests.
	worker.ScheduleEveryImmediate(1*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing contract statuses...")
		svcs.Contract.RefreshStatuses(ctx)
		return nil
	})

	// Daily overdue task reminders
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sending overdue task reminders...")
		return svcs.Task.RemindOverdue(ctx)
	})

	logger.Info("Scheduled recurring jobs")
}
