package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/webstore/shopstock/internal/catalog"
	"github.com/webstore/shopstock/internal/config"
	"github.com/webstore/shopstock/internal/events"
	"github.com/webstore/shopstock/internal/httpx"
	"github.com/webstore/shopstock/internal/orders"
	"github.com/webstore/shopstock/internal/redisx"
	"github.com/webstore/shopstock/internal/store"
	"github.com/webstore/shopstock/internal/store/filestore"
	"github.com/webstore/shopstock/internal/store/mongostore"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("service", cfg.ServiceName))

	// Storage backend
	st, err := newStore(ctx, cfg)
	if err != nil {
		logger.Fatal("store init", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer st.Close(context.Background())
	logger.Info("store ready", zap.String("backend", cfg.StoreBackend))

	// Redis status cache (optional)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
	}

	// Kafka order events (optional)
	var emitter events.Emitter = events.Nop{}
	var created, cancelled *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		created = events.NewProducer(cfg.KafkaBrokers, events.TopicOrderCreated, 1024, logger)
		created.Start(ctx)
		cancelled = events.NewProducer(cfg.KafkaBrokers, events.TopicOrderCancelled, 1024, logger)
		cancelled.Start(ctx)
		emitter = &events.OrderEvents{Created: created, Cancelled: cancelled, Service: cfg.ServiceName}
	}

	// Services & router
	h := &httpx.Handler{
		Catalog: catalog.New(st, logger),
		Orders:  orders.New(st, emitter, logger),
		Redis:   rdb,
		Log:     logger,
	}
	router := httpx.NewRouter()
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	if created != nil {
		created.Close()
		cancelled.Close()
		cancel() // stop producer loops
		created.WaitClosed()
		cancelled.WaitClosed()
	}
}

func newStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case "file":
		return filestore.New(cfg.ProductsFile, cfg.OrdersFile)
	case "mongo":
		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return mongostore.New(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
