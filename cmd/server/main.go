package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	analyticsapp "github.com/masgolf/backend/internal/application/analytics"
	batchapp "github.com/masgolf/backend/internal/application/batch"
	bookingapp "github.com/masgolf/backend/internal/application/booking"
	catalogapp "github.com/masgolf/backend/internal/application/catalog"
	contentapp "github.com/masgolf/backend/internal/application/content"
	customerapp "github.com/masgolf/backend/internal/application/customer"
	giftapp "github.com/masgolf/backend/internal/application/gift"
	identityapp "github.com/masgolf/backend/internal/application/identity"
	inventoryapp "github.com/masgolf/backend/internal/application/inventory"
	messagingapp "github.com/masgolf/backend/internal/application/messaging"
	surveyapp "github.com/masgolf/backend/internal/application/survey"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/infrastructure/ai"
	"github.com/masgolf/backend/internal/infrastructure/auth"
	"github.com/masgolf/backend/internal/infrastructure/cache"
	"github.com/masgolf/backend/internal/infrastructure/config"
	"github.com/masgolf/backend/internal/infrastructure/event"
	"github.com/masgolf/backend/internal/infrastructure/ga4"
	"github.com/masgolf/backend/internal/infrastructure/imagecodec"
	"github.com/masgolf/backend/internal/infrastructure/logger"
	"github.com/masgolf/backend/internal/infrastructure/migration"
	"github.com/masgolf/backend/internal/infrastructure/notify"
	"github.com/masgolf/backend/internal/infrastructure/persistence"
	"github.com/masgolf/backend/internal/infrastructure/scheduler"
	"github.com/masgolf/backend/internal/infrastructure/scraper"
	"github.com/masgolf/backend/internal/infrastructure/solapi"
	"github.com/masgolf/backend/internal/infrastructure/storage"
	"github.com/masgolf/backend/internal/infrastructure/telemetry"
	"github.com/masgolf/backend/internal/interfaces/http/handler"
	"github.com/masgolf/backend/internal/interfaces/http/middleware"
	"github.com/masgolf/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			MASGOLF Backend API
//	@version		1.0
//	@description	마쓰구골프 운영 백엔드 API: 고객, 시타 예약, 설문, 사은품, 문자 캠페인, 콘텐츠
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	SessionAuth
//	@in							cookie
//	@name						admin_session

//	@securityDefinitions.apikey	CronSecret
//	@in							header
//	@name						Authorization
//	@description				"Bearer {cron secret}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	logCfg := &logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		ProfilingEnabled:  cfg.Telemetry.ProfilingEnabled,
		ProfilingServer:   cfg.Telemetry.ProfilingServer,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	if cfg.Telemetry.LogsEnabled {
		// rebuild so entries also reach the OTLP pipeline
		if log, err = logger.New(logCfg, providers.ZapCore(logger.ParseLevel(cfg.Log.Level))); err != nil {
			panic("Failed to initialize logger: " + err.Error())
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting MASGOLF backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		TraceEnabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:         cfg.Telemetry.DBLogFullSQL,
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log); err != nil {
		log.Warn("Database instrumentation not installed", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatal("Failed to get database handle", zap.Error(err))
		}
		if err := migration.UpOnStart(sqlDB, cfg.Database.MigrationsPath, log); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	store, redisClient := cache.Open(cfg.Redis, log)
	defer func() { _ = store.Close() }()

	metrics := telemetry.NewMetrics(log)
	defer metrics.Stop()

	// Event stream
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(event.LogHandler(log))
	events, closeEvents, err := event.NewPublisher(cfg.Kafka, bus, log)
	if err != nil {
		log.Fatal("Failed to start event publisher", zap.Error(err))
	}
	defer closeEvents()

	slack := notify.NewSlackNotifier(cfg.Slack, log)
	if !slack.Enabled() {
		log.Info("Slack webhook not configured, operator notifications disabled")
	}

	// Repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	campaignRepo := persistence.NewGormChannelSMSRepository(db.DB)
	messageLogRepo := persistence.NewGormMessageLogRepository(db.DB)
	surveyRepo := persistence.NewGormSurveyRepository(db.DB)
	giftRepo := persistence.NewGormGiftRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	inventoryTxRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	postRepo := persistence.NewGormPostRepository(db.DB)
	imageRepo := persistence.NewGormImageRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	batchRepo := persistence.NewGormBatchJobRepository(db.DB)
	adminRepo := persistence.NewGormAdminUserRepository(db.DB)
	abSettingsRepo := persistence.NewGormABTestSettingsRepository(db.DB)

	// Identity
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
	}
	authService := identityapp.NewAuthService(adminRepo, auth.NewJWTService(cfg.JWT), blacklist, log)
	if created, err := authService.EnsureBootstrapAdmin(ctx, identityapp.BootstrapInput{
		Username: cfg.Admin.BootstrapUsername,
		Password: cfg.Admin.BootstrapPassword,
		Name:     cfg.Admin.BootstrapName,
	}); err != nil {
		log.Error("Failed to create bootstrap admin", zap.Error(err))
	} else if created {
		log.Warn("Bootstrap admin created; change its password after the first login")
	}

	// SMS gateway, optional
	var sms messagingapp.SMSGateway
	if client, err := solapi.NewClient(solapi.NewConfig(cfg.Solapi, cfg.Kakao), log); err != nil {
		log.Warn("Solapi not configured, SMS sending disabled", zap.Error(err))
	} else {
		sms = client
	}

	// Domain services
	customerService := customerapp.NewService(customerRepo, log)

	campaignService := messagingapp.NewService(campaignRepo, messageLogRepo, customerRepo, log)
	campaignService.SetEventPublisher(events)
	campaignService.SetMetrics(metrics)
	if cfg.Solapi.ChunkSize > 0 {
		campaignService.SetChunkSize(cfg.Solapi.ChunkSize)
	}

	bookingService := bookingapp.NewService(bookingRepo, scheduleRepo, customerRepo, campaignRepo, log)
	bookingService.SetNotifier(slack)
	bookingService.SetEventPublisher(events)

	if sms != nil {
		campaignService.SetSMSGateway(sms)
		bookingService.SetSMSGateway(sms)
	}

	surveyService := surveyapp.NewService(surveyRepo, customerRepo, log)
	productService := catalogapp.NewService(productRepo, log)
	inventoryService := inventoryapp.NewService(inventoryTxRepo, productRepo, log)
	giftService := giftapp.NewService(giftRepo, customerRepo, surveyRepo, productRepo, persistence.NewGormGiftUnitOfWork(db.DB), log)

	objects := newObjectStorage(ctx, cfg, log)
	postService := contentapp.NewPostService(postRepo, log)
	imageService := contentapp.NewImageService(imageRepo, objects, imagecodec.New(0), log)
	planService := contentapp.NewPlanService(planRepo, log)

	analyticsService := newAnalyticsService(ctx, cfg, abSettingsRepo, log)
	analyticsService.SetCache(store)
	analyticsService.SetNotifier(slack)
	monitorCfg := analyticsapp.MonitorConfig{
		Funnel:      cfg.Monitor.Funnel,
		Versions:    cfg.Monitor.Versions,
		DateRange:   cfg.Monitor.DateRange,
		MinSessions: int64(cfg.Monitor.MinSessions),
		Threshold:   cfg.Monitor.Threshold,
	}

	// Batch content pipeline with its worker pool
	batchService, pool, closeBatch := newBatchService(ctx, cfg, batchRepo, objects, events, log)
	defer closeBatch()
	if pool != nil {
		if err := pool.Start(ctx); err != nil {
			log.Fatal("Failed to start batch worker pool", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := pool.Stop(stopCtx); err != nil {
				log.Warn("Batch worker pool did not stop cleanly", zap.Error(err))
			}
		}()
		if _, err := batchService.ResumePending(ctx); err != nil {
			log.Warn("Failed to requeue unfinished batch jobs", zap.Error(err))
		}
	}

	// Periodic tasks. Vercel-style cron callers can hit /api/v1/cron/* instead.
	if cfg.Scheduler.Enabled {
		runner := scheduler.NewRunner(store, log)
		runner.Add(scheduler.Task{
			Name:     "send-scheduled-sms",
			Interval: cfg.Scheduler.SMSDispatchInterval,
			Timeout:  cfg.Scheduler.JobTimeout,
			Run: func(ctx context.Context) error {
				_, err := campaignService.DispatchScheduled(ctx, time.Now())
				metrics.RecordTaskRun("send-scheduled-sms", err)
				return err
			},
		})
		if cfg.Monitor.Enabled {
			runner.Add(scheduler.Task{
				Name:     "ab-test-monitor",
				Interval: cfg.Monitor.Interval,
				Run: func(ctx context.Context) error {
					_, err := analyticsService.Monitor(ctx, monitorCfg)
					metrics.RecordTaskRun("ab-test-monitor", err)
					return err
				},
			})
		}
		if err := runner.Start(ctx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			_ = runner.Stop(stopCtx)
		}()
	}

	metrics.StartCollection(ctx, telemetry.NewGormStatsProvider(db.DB), cfg.Telemetry.MetricsInterval)

	// HTTP
	systemHandler := handler.NewSystemHandler(version)
	systemHandler.AddCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	if redisClient != nil {
		systemHandler.AddCheck("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	handlers := router.Handlers{
		System:    systemHandler,
		Auth:      handler.NewAuthHandler(authService, cfg.Cookie),
		Customer:  handler.NewCustomerHandler(customerService),
		Booking:   handler.NewBookingHandler(bookingService),
		Survey:    handler.NewSurveyHandler(surveyService),
		Product:   handler.NewProductHandler(productService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Gift:      handler.NewGiftHandler(giftService),
		Campaign:  handler.NewCampaignHandler(campaignService),
		Analytics: handler.NewAnalyticsHandler(analyticsService),
		Content:   handler.NewContentHandler(postService, imageService, planService),
		Cron:      handler.NewCronHandler(campaignService, analyticsService, monitorCfg),
	}
	if batchService != nil {
		handlers.Batch = handler.NewBatchHandler(batchService)
	}

	engineCfg := router.Config{
		Logger:         log,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		HSTS:           cfg.IsProduction(),
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			ExposeHeaders:    middleware.DefaultCORSConfig().ExposeHeaders,
			AllowCredentials: true,
			MaxAge:           middleware.DefaultCORSConfig().MaxAge,
		},
		MaxBodySize: cfg.HTTP.MaxBodySize,
		Session: middleware.SessionConfig{
			CookieName: cfg.Cookie.Name,
			Validator:  authService,
			LoginPath:  handler.LoginPath,
		},
		CronSecret: cfg.HTTP.CronSecret,
		Metrics:    metrics,
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
	}
	if cfg.Telemetry.Enabled {
		engineCfg.TracingService = cfg.Telemetry.ServiceName
	}
	if cfg.HTTP.RateLimitEnabled {
		engineCfg.RateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engineCfg.LoginLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        router.New(engineCfg, handlers),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Warn("Telemetry shutdown incomplete", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

// newObjectStorage returns S3 storage when enabled, otherwise process memory
func newObjectStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) *objectStorage {
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Bucket check failed", zap.String("bucket", s3.GetBucket()), zap.Error(err))
		}
		return &objectStorage{ObjectStorage: s3}
	}
	log.Warn("Object storage disabled, uploads are kept in memory and lost on restart")
	return &objectStorage{ObjectStorage: storage.NewMemoryObjectStorage(cfg.App.SiteURL + "/uploads")}
}

// objectStorage satisfies both the content and batch image ports
type objectStorage struct {
	contentapp.ObjectStorage
}

var _ batchapp.ImageStore = (*objectStorage)(nil)

// newAnalyticsService uses GA4 when a property is configured. Without one the
// service serves placeholder comparisons.
func newAnalyticsService(ctx context.Context, cfg *config.Config, settings *persistence.GormABTestSettingsRepository, log *zap.Logger) *analyticsapp.Service {
	r, err := ga4.NewReporter(ctx, cfg.GA4)
	switch {
	case errors.Is(err, ga4.ErrNotConfigured):
		log.Info("GA4 not configured, A/B results are placeholders")
		return analyticsapp.NewService(nil, settings, log)
	case err != nil:
		log.Warn("GA4 reporter unavailable", zap.Error(err))
		return analyticsapp.NewService(nil, settings, log)
	}
	return analyticsapp.NewService(r, settings, log)
}

// newBatchService wires the scraper, the AI backends and the worker pool.
// It returns a nil service when the analyzer or the image generator cannot be built.
func newBatchService(
	ctx context.Context,
	cfg *config.Config,
	repo *persistence.GormBatchJobRepository,
	images batchapp.ImageStore,
	events shared.EventPublisher,
	log *zap.Logger,
) (*batchapp.Service, *scheduler.WorkerPool, func()) {
	noop := func() {}
	analyzer, err := ai.NewOpenAIAnalyzer(cfg.AI.OpenAIKey, cfg.AI.OpenAIModel)
	if err != nil {
		log.Warn("Batch content pipeline disabled", zap.Error(err))
		return nil, nil, noop
	}
	generator, err := ai.NewImageGenerator(ctx, cfg.AI, log)
	if err != nil {
		log.Warn("Batch content pipeline disabled", zap.Error(err))
		return nil, nil, noop
	}

	scrapeCfg := scraper.Config{Timeout: cfg.Batch.ScrapeTimeout}
	closeFn := noop
	if cfg.Batch.RenderWithJS {
		renderer := scraper.NewChromeRenderer(scraper.ChromeConfig{Timeout: cfg.Batch.ScrapeTimeout, NoSandbox: true}, log)
		scrapeCfg.Renderer = renderer
		closeFn = renderer.Close
	}

	svc := batchapp.NewService(repo, scraper.New(scrapeCfg, log), analyzer, generator, log)
	svc.SetImageStore(images)
	svc.SetEventPublisher(events)

	pool, err := scheduler.NewWorkerPool("batch", scheduler.PoolConfig{
		Workers:    cfg.Batch.Workers,
		QueueSize:  cfg.Batch.QueueSize,
		JobTimeout: cfg.Scheduler.JobTimeout,
	}, scheduler.ExecutorFunc(svc.Process), log)
	if err != nil {
		log.Fatal("Failed to create batch worker pool", zap.Error(err))
	}
	svc.SetQueue(pool)
	return svc, pool, closeFn
}
