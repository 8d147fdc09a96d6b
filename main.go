package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"turnos/config"
	"turnos/database"
	appointmentRepo "turnos/database/repository/appointment"
	branchRepo "turnos/database/repository/branch"
	professionalRepo "turnos/database/repository/professional"
	provinceRepo "turnos/database/repository/province"
	"turnos/handlers"
	"turnos/metrics"
	"turnos/middleware"
	"turnos/routes"
	"turnos/services/availability"
	"turnos/services/booking"
	"turnos/services/directory"
	"turnos/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const bookingLockWait = 3 * time.Second

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()

	// repositories.
	db := database.DB()
	repos := database.Repositories{
		Provinces:     provinceRepo.NewMongoProvinceRepo(db),
		Branches:      branchRepo.NewMongoBranchRepo(db),
		Professionals: professionalRepo.NewMongoProfessionalRepo(db),
		Appointments:  appointmentRepo.NewMongoAppointmentRepo(db),
	}

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repos.EnsureIndexes(bootCtx); err != nil {
		logger.Sugar().Fatalf("main: failed to create indexes: %v", err)
	}
	if config.AppConfig.SeedOnStart {
		if _, err := database.Seed(bootCtx, repos, logger); err != nil {
			logger.Sugar().Fatalf("main: failed to seed database: %v", err)
		}
	}
	bootCancel()

	appMetrics := metrics.New(nil)

	// services.
	availabilityService := availability.NewDefaultAvailabilityService(
		repos.Professionals,
		repos.Appointments,
		availability.NewRedisSlotCache(utils.GetCacheClient(), config.AppConfig.SlotCacheTTL),
		logger.Named("availability"),
	)
	availabilityService.Metrics = appMetrics
	bookingService := &booking.DefaultBookingService{
		Appointments:  repos.Appointments,
		Professionals: repos.Professionals,
		Branches:      repos.Branches,
		Provinces:     repos.Provinces,
		Availability:  availabilityService,
		Locker:        booking.NewRedisLocker(utils.GetLockClient(), config.AppConfig.BookingLockTTL, bookingLockWait),
		Logger:        logger.Named("booking"),
		Metrics:       appMetrics,
	}
	directoryService := &directory.DefaultDirectoryService{
		Provinces:     repos.Provinces,
		Branches:      repos.Branches,
		Professionals: repos.Professionals,
		Logger:        logger.Named("directory"),
	}

	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestContext(logger))
	router.Use(middleware.MetricsMiddleware(appMetrics))
	router.Use(middleware.RateLimitMiddleware(appCtx, config.AppConfig.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAppointmentHandler(availabilityService, bookingService),
		handlers.NewDirectoryHandler(directoryService),
	)
	handlerBundle.Metrics = gin.WrapH(appMetrics.Handler())
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(appCtx, 30*time.Second,
		[]*redis.Client{utils.GetCacheClient(), utils.GetLockClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", config.GetEnv()))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stopApp()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}
	_ = utils.GetCacheClient().Close()
	_ = utils.GetLockClient().Close()

	logger.Sugar().Info("main: server stopped gracefully")
}
