package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"activeflow/auth"
	"activeflow/config"
	"activeflow/db"
	"activeflow/events"
	"activeflow/logging"
	"activeflow/server"
	"activeflow/services"
	"activeflow/store"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	gin.SetMode(cfg.GinMode)
	log := logging.New(cfg.LogLevel, cfg.GinMode == gin.ReleaseMode)
	if envErr != nil {
		log.WithError(envErr).Debug("no .env file found, relying on environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		workouts store.WorkoutStore
		identity store.Identity
		sessions store.SessionStore
	)

	switch cfg.StoreBackend {
	case config.BackendMongo:
		client, err := db.Connect(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Fatal("MongoDB connection failed")
		}
		defer func() {
			if err := db.Disconnect(client); err != nil {
				log.WithError(err).Warn("MongoDB disconnect failed")
			}
		}()
		log.WithField("database", cfg.MongoDatabase).Info("connected to MongoDB")

		database := client.Database(cfg.MongoDatabase)
		workouts = store.NewMongoStore(database)
		mongoIdentity := store.NewMongoIdentity(database)
		if err := mongoIdentity.EnsureIndexes(ctx); err != nil {
			log.WithError(err).Fatal("MongoDB index setup failed")
		}
		identity = mongoIdentity
		sessions = store.NewMongoSessions(database)
	default:
		log.Warn("using in-memory store, data is lost on restart")
		workouts = store.NewMemoryStore()
		identity = store.NewMemoryIdentity()
		sessions = store.NewMemorySessions()
	}

	if cfg.RedisURI != "" {
		rdb, err := db.ConnectRedis(ctx, cfg.RedisURI)
		if err != nil {
			log.WithError(err).Fatal("Redis connection failed")
		}
		defer rdb.Close()
		sessions = store.NewRedisSessions(rdb)
		log.Info("sessions stored in Redis")
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.WithFields(logrus.Fields{"brokers": cfg.KafkaBrokers, "topic": cfg.KafkaTopic}).Info("publishing workout events")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.WithError(err).Warn("event publisher close failed")
		}
	}()

	tokens := auth.NewTokens(cfg.JWTSecret)
	authHandler := &auth.Handler{
		Identity:    identity,
		Tokens:      tokens,
		Sessions:    sessions,
		Log:         log,
		FrontendURL: cfg.FrontendURL,
	}
	if cfg.GoogleEnabled() {
		authHandler.Google = auth.NewGoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
		log.WithField("redirect_url", cfg.GoogleRedirectURL).Info("Google sign-in enabled")
	}

	router := server.NewRouter(server.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		StaticDir:      cfg.StaticDir,
		Log:            log,
		Auth:           authHandler,
		Workouts: &services.Workouts{
			Store:    workouts,
			Events:   publisher,
			Tokens:   tokens,
			Sessions: sessions,
			Log:      log,
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
