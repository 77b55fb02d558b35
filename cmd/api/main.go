package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/almasatelier/shop-bridge/internal/config"
	"github.com/almasatelier/shop-bridge/internal/httpx"
	kafkax "github.com/almasatelier/shop-bridge/internal/kafka"
	"github.com/almasatelier/shop-bridge/internal/postgres"
	"github.com/almasatelier/shop-bridge/internal/redisx"
	"github.com/almasatelier/shop-bridge/internal/state"
	"github.com/almasatelier/shop-bridge/internal/telegram"
	"github.com/almasatelier/shop-bridge/internal/wms"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, wms.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, wms.TopicOrderStatus, 1024)
	pStatus.Start(ctx)

	var notifier httpx.Notifier
	if cfg.TelegramToken != "" {
		notifier = telegram.New(cfg.TelegramToken)
	}

	router := httpx.NewRouter()
	bh := &httpx.BridgeHandler{
		Store:       &state.Store{DB: db},
		Cache:       redisx.Cache{R: rdb},
		Created:     pCreated,
		Status:      pStatus,
		Notifier:    notifier,
		DefaultChat: cfg.TelegramChat,
		Secret:      cfg.WebhookSecret,
		Service:     cfg.ServiceName,
	}
	bh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	pCreated.Close() // close inbox -> flush & close writer
	pStatus.Close()
	cancel() // stop producer loops
	pCreated.WaitClosed()
	pStatus.WaitClosed()
}
