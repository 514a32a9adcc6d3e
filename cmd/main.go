package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/cipherhq/echohub-server/internal/docstore"
	"github.com/cipherhq/echohub-server/internal/docstore/memstore"
	"github.com/cipherhq/echohub-server/internal/docstore/pgstore"
	"github.com/cipherhq/echohub-server/internal/handlers"
	"github.com/cipherhq/echohub-server/internal/jwt"
	"github.com/cipherhq/echohub-server/internal/logger"
	"github.com/cipherhq/echohub-server/internal/mail"
	"github.com/cipherhq/echohub-server/internal/media"
	"github.com/cipherhq/echohub-server/internal/metrics"
	"github.com/cipherhq/echohub-server/internal/middlewares"
	"github.com/cipherhq/echohub-server/internal/repositories"
	"github.com/cipherhq/echohub-server/internal/services"
	"github.com/cipherhq/echohub-server/internal/ws"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// config holds everything parseConfig reads from the environment.
type config struct {
	appHost  string
	appPort  string
	logLevel string

	pgHost         string
	pgPort         int
	pgUser         string
	pgPassword     string
	pgDB           string
	pgMaxOpenConns int
	pgMaxIdleConns int

	redisAddr     string
	redisDB       int
	redisPassword string

	kafkaBrokers string
	kafkaTopic   string

	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	smtpFrom     string
	appURL       string

	cloudinaryName   string
	cloudinaryKey    string
	cloudinarySecret string

	adminKey          string
	jwtSecretKey      string
	jwtExpSecond      int
	reconcileInterval time.Duration
}

// @title EchoHub API
// @version 1.0.0
// @description Backend for the EchoHub chat application: accounts, contacts, chat logs and the realtime relay
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the full
// application configuration.
func parseConfig(path string) (cfg config, err error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}

	// Application config
	cfg.appHost = getEnv("APP_HOST", "localhost")
	cfg.appPort = getEnv("APP_PORT", "8080")
	cfg.logLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.appURL = getEnv("APP_URL", fmt.Sprintf("http://%s:%s", cfg.appHost, cfg.appPort))

	// PostgreSQL config; an empty host selects the in-memory store.
	cfg.pgHost = getEnv("POSTGRES_HOST", "")
	cfg.pgUser = getEnv("POSTGRES_USER", "user")
	cfg.pgPassword = getEnv("POSTGRES_PASSWORD", "password")
	cfg.pgDB = getEnv("POSTGRES_DB", "echohub")
	if cfg.pgPort, err = strconv.Atoi(getEnv("POSTGRES_PORT", "5432")); err != nil {
		return
	}
	if cfg.pgMaxOpenConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_OPEN_CONNS", "16")); err != nil {
		return
	}
	if cfg.pgMaxIdleConns, err = strconv.Atoi(getEnv("POSTGRES_MAX_IDLE_CONNS", "8")); err != nil {
		return
	}

	// Redis config; an empty addr disables cross-instance relay fan-out.
	cfg.redisAddr = getEnv("REDIS_ADDR", "")
	cfg.redisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.redisDB, err = strconv.Atoi(getEnv("REDIS_DB", "0")); err != nil {
		return
	}

	// Kafka config; empty brokers disable event publishing.
	cfg.kafkaBrokers = getEnv("KAFKA_BROKERS", "")
	cfg.kafkaTopic = getEnv("KAFKA_TOPIC", "echohub-messages")

	// SMTP config; an empty host logs emails instead of sending them.
	cfg.smtpHost = getEnv("SMTP_HOST", "")
	cfg.smtpPort = getEnv("SMTP_PORT", "587")
	cfg.smtpUsername = getEnv("SMTP_USERNAME", "")
	cfg.smtpPassword = getEnv("SMTP_PASSWORD", "")
	cfg.smtpFrom = getEnv("SMTP_FROM", "noreply@echohub.app")

	// Cloudinary config; empty credentials disable avatar uploads.
	cfg.cloudinaryName = getEnv("CLOUDINARY_CLOUD_NAME", "")
	cfg.cloudinaryKey = getEnv("CLOUDINARY_API_KEY", "")
	cfg.cloudinarySecret = getEnv("CLOUDINARY_API_SECRET", "")

	// Access control and JWT config
	cfg.adminKey = getEnv("ADMIN_PASS_KEY", "")
	cfg.jwtSecretKey = getEnv("JWT_SECRET_KEY", "my_super_secret_key")
	if cfg.jwtExpSecond, err = strconv.Atoi(getEnv("JWT_EXP_SECOND", "86400")); err != nil {
		return
	}

	reconcileSecond, err := strconv.Atoi(getEnv("RECONCILE_INTERVAL_SECOND", "300"))
	if err != nil {
		return
	}
	cfg.reconcileInterval = time.Duration(reconcileSecond) * time.Second

	return
}

// run initializes the logger, document store, Redis, Kafka, mail, media and
// HTTP server. It sets up routes, applies middleware, starts the background
// workers and handles graceful shutdown.
func run(ctx context.Context, cfg config) error {
	// Initialize logger
	log, err := logger.New(cfg.logLevel)
	if err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer log.Sync()
	log.Infof("Logger initialized with level %s", cfg.logLevel)

	metrics.Register()

	// Document store: PostgreSQL when configured, in-memory otherwise.
	var store docstore.Store
	if cfg.pgHost != "" {
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			cfg.pgUser, cfg.pgPassword, cfg.pgHost, cfg.pgPort, cfg.pgDB)
		log.Infof("Connecting to PostgreSQL at %s:%d", cfg.pgHost, cfg.pgPort)

		db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
		if err != nil {
			log.Fatal("PostgreSQL connection error:", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(cfg.pgMaxOpenConns)
		db.SetMaxIdleConns(cfg.pgMaxIdleConns)

		pg := pgstore.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("PostgreSQL schema setup failed:", err)
		}
		store = pg
	} else {
		log.Warn("POSTGRES_HOST not set, using the in-memory store; data is lost on restart")
		store = memstore.New()
	}

	// Connect to Redis when configured
	var rdb *redis.Client
	if cfg.redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("Redis connection error:", err)
		}
		defer rdb.Close()
	}

	// Kafka writer when configured
	var kafkaWriter services.KafkaWriter
	if cfg.kafkaBrokers != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(strings.Split(cfg.kafkaBrokers, ",")...),
			Topic:    cfg.kafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
	}

	// Media store when configured
	var mediaStore services.MediaUploader
	if cfg.cloudinaryName != "" {
		cld, err := media.NewCloudinaryStore(cfg.cloudinaryName, cfg.cloudinaryKey, cfg.cloudinarySecret)
		if err != nil {
			log.Fatal("Cloudinary setup failed:", err)
		}
		mediaStore = cld
	}

	mailer := mail.NewSender(cfg.smtpHost, cfg.smtpPort, cfg.smtpUsername, cfg.smtpPassword, cfg.smtpFrom, cfg.appURL)

	// Initialize JWT service
	jwt := jwt.New(cfg.jwtSecretKey, time.Duration(cfg.jwtExpSecond)*time.Second)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(store)
	userWriteRepo := repositories.NewUserWriteRepository(store)
	verificationRepo := repositories.NewVerificationRepository(store)
	resetRepo := repositories.NewResetRepository(store)
	chatLogRepo := repositories.NewChatLogRepository(store)
	contactIndexRepo := repositories.NewContactIndexRepository(store)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, verificationRepo, resetRepo, jwt, mailer)
	profileService := services.NewProfileService(userReadRepo, userWriteRepo, mediaStore)
	directoryService := services.NewChatDirectoryService(chatLogRepo, contactIndexRepo)
	messageService := services.NewMessageService(chatLogRepo, directoryService, contactIndexRepo, kafkaWriter)
	contactService := services.NewContactAggregatorService(userReadRepo, contactIndexRepo, chatLogRepo)
	reconciler := services.NewReconcilerService(userReadRepo, contactIndexRepo)

	// Realtime relay hub
	hub := ws.NewHub(rdb)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(log))
	r.Use(middlewares.MetricsMiddleware)

	// Core routes behind the shared admin pass key
	adminKey := middlewares.AdminKeyMiddleware(cfg.adminKey)
	r.Group(func(r chi.Router) {
		r.Use(adminKey)

		r.Post("/user/register", handlers.NewRegisterHandler(authService))
		r.Post("/user/login", handlers.NewLoginHandler(authService))
		r.Post("/user/verify", handlers.NewVerifyHandler(authService))
		r.Post("/user/resetpassword", handlers.NewResetPasswordHandler(authService))
		r.Post("/user/changepassword", handlers.NewChangePasswordHandler(authService))
		r.Post("/user/profile", handlers.NewProfileHandler(profileService))
		r.Post("/user/fetchbyusername", handlers.NewSearchHandler(profileService))
		r.Post("/user/fetchcontacts", handlers.NewContactsHandler(contactService))
		r.Post("/user/insertdata", handlers.NewUpdateDataHandler(profileService))
		r.Post("/user/removedata", handlers.NewRemoveDataHandler(profileService))
		r.Post("/messages/send", handlers.NewSendMessageHandler(messageService))
		r.Post("/messages/fetch", handlers.NewFetchMessagesHandler(messageService))
	})

	// Realtime relay behind JWT auth
	r.Group(func(r chi.Router) {
		r.Use(middlewares.AuthMiddleware(jwt))
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			ws.ServeWS(hub, w, req, middlewares.UserIDFromContext(req.Context()))
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.appHost, cfg.appPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.appHost, cfg.appPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	// Background workers stop with the shutdown context.
	go hub.Run(ctxShutdown)
	go hub.SubscribeToRedis(ctxShutdown)
	go reconciler.Run(ctxShutdown, cfg.reconcileInterval)

	go func() {
		log.Infof("HTTP server listening on %s:%s", cfg.appHost, cfg.appPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("HTTP server shutdown error", "error", err)
	}

	log.Info("HTTP server stopped gracefully")
	return nil
}
