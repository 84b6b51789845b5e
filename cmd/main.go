package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/tokenflow-auth/config"
	"github.com/oksasatya/tokenflow-auth/internal/application"
	"github.com/oksasatya/tokenflow-auth/internal/container"
	"github.com/oksasatya/tokenflow-auth/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/tokenflow-auth/internal/infrastructure/mongodb"
	"github.com/oksasatya/tokenflow-auth/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/tokenflow-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/tokenflow-auth/internal/infrastructure/redisstore"
	"github.com/oksasatya/tokenflow-auth/internal/infrastructure/search"
	"github.com/oksasatya/tokenflow-auth/internal/interface/middleware"
	"github.com/oksasatya/tokenflow-auth/internal/router"
	"github.com/oksasatya/tokenflow-auth/pkg/helpers"
	"github.com/oksasatya/tokenflow-auth/pkg/mailer"
	tpl "github.com/oksasatya/tokenflow-auth/pkg/mailer/templates"
	"github.com/oksasatya/tokenflow-auth/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Identity store
	mongoClient, db, err := mongoinfra.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("failed to connect to mongo: %v", err)
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()
	if err := mongoinfra.NewUserRepository(db, cfg.MongoUsersCollection).EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to ensure mongo indexes: %v", err)
	}

	// Redis backs the rate limiter and, by default, pending registrations
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis unreachable; rate limits fail open")
	}

	switch cfg.PendingStore {
	case "memory":
		store := memory.NewPendingStore(cfg.PendingRetention)
		go store.RunSweeper(ctx, cfg.PendingSweepInterval, logger)
		container.SetPendingStore(store)
		logger.Warn("pending registrations are process-local; run a single instance")
	default:
		container.SetPendingStore(redisstore.NewPendingStore(rdb, cfg.PendingRetention))
	}

	// JWT
	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)
	if cfg.AccessTTL <= 0 {
		logger.Warn("JWT_ACCESS_TTL is 0; access tokens never expire")
	}

	notifier, closeNotifier := buildNotifier(cfg, logger)
	defer closeNotifier()
	container.SetNotifier(notifier)

	// Optional audit trail
	if cfg.AuditEnabled {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
			AppName:     cfg.AppName,
		})
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	}

	// Optional directory index
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled")
		} else if err := search.NewUserIndex(es, cfg.ESUsersIndex).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index unavailable; identities will not be indexed")
		} else {
			container.SetES(es)
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetMongo(db)
	container.SetRedis(rdb)
	container.SetJWT(jwtManager)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	stop()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
		return
	}
	logger.Info("server exited properly")
}

// buildNotifier picks how signup codes leave the process: logged only,
// sent inline through Mailgun, or queued on RabbitMQ for the email worker.
func buildNotifier(cfg *config.Config, logger *logrus.Logger) (application.Notifier, func()) {
	noop := func() {}
	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; verification codes are logged at debug level only")
		return notify.LogNotifier{Logger: logger}, noop
	}
	brand := tpl.Brand{
		AppName:        cfg.AppName,
		CompanyName:    cfg.CompanyName,
		CompanyAddress: cfg.CompanyAddress,
		LogoURL:        cfg.LogoURL,
		SupportURL:     cfg.SupportURL,
	}
	if cfg.MailTransport == "queue" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		pub.AppID = cfg.AppName
		return notify.NewQueueNotifier(pub, brand), pub.Close
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured; set MAILGUN_* or MAIL_SEND_ENABLED=false")
	}
	return notify.NewMailNotifier(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), brand), noop
}
