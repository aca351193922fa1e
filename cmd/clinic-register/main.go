package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-register/internal/config"
	"clinic-register/internal/database"
	"clinic-register/internal/domain"
	"clinic-register/internal/events"
	httpapi "clinic-register/internal/http"
	"clinic-register/internal/logger"
	"clinic-register/internal/repository"
	"clinic-register/internal/service"
	"clinic-register/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "clinic-register")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	loc, _ := cfg.Location()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var redisClient *redis.Client
	if cfg.Store.Backend == config.BackendRedis || cfg.Events.Backend == config.EventsRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	kv, db, err := openStore(ctx, cfg, redisClient, log)
	if err != nil {
		log.Fatal("failed to open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}

	opts := repository.Options{
		Namespace:            cfg.Store.Namespace,
		Location:             loc,
		Transitions:          domain.ParseTransitionPolicy(cfg.Clinic.Transitions),
		RejectUnknownPatient: cfg.Clinic.RejectUnknownPatient,
	}
	if cfg.Clinic.SeedDefaults {
		opts.SeedPatients = repository.DefaultPatients()
		opts.SeedAppointments = repository.DefaultAppointments()
	}
	reg := repository.Open(ctx, kv, opts, log)

	pub, err := openPublisher(cfg, redisClient)
	if err != nil {
		log.Fatal("failed to open event publisher", zap.String("backend", cfg.Events.Backend), zap.Error(err))
	}
	notifier := events.NewNotifier(pub, log)
	svc := service.NewRegisterService(reg, notifier, log)

	router := httpapi.NewRouter(log)
	router.RegisterPatientRoutes(httpapi.NewPatientsHandler(svc, log))
	router.RegisterAppointmentRoutes(httpapi.NewAppointmentsHandler(svc, log))
	router.RegisterDashboardRoutes(httpapi.NewDashboardHandler(svc, log))

	srv := service.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	_ = notifier.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = database.Close(db)
}

// openStore selects the KV backend. db is non-nil only for postgres.
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client, log *zap.Logger) (store.KV, *sql.DB, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		log.Info("using redis store", zap.String("addr", cfg.Redis.Addr))
		return store.NewRedisKV(redisClient), nil, nil
	case config.BackendPostgres:
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		kv := store.NewPostgresKV(db)
		if err := kv.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		log.Info("using postgres store", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.Database))
		return kv, db, nil
	default:
		log.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryKV(), nil, nil
	}
}

func openPublisher(cfg *config.Config, redisClient *redis.Client) (events.Publisher, error) {
	switch cfg.Events.Backend {
	case config.EventsRedis:
		return events.NewRedisStreamPublisher(redisClient, cfg.Events.Stream, cfg.Events.StreamMaxLen), nil
	case config.EventsMQTT:
		pub, err := events.NewMQTTPublisher(events.MQTTConfig{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
			QoS:         byte(cfg.MQTT.QoS), // range-checked by Validate
		})
		if err != nil {
			return nil, err
		}
		return pub, nil
	default:
		return events.Nop{}, nil
	}
}
