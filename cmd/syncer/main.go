package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/almasatelier/shop-bridge/internal/config"
	kafkax "github.com/almasatelier/shop-bridge/internal/kafka"
	"github.com/almasatelier/shop-bridge/internal/redisx"
	"github.com/almasatelier/shop-bridge/internal/sync"
	"github.com/almasatelier/shop-bridge/internal/wms"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &sync.Service{
		Dedup:       redisx.Dedup{R: rdb, Service: "finolog"},
		ServiceName: cfg.ServiceName + "-syncer",
		APIKey:      cfg.FinologAPIKey,
	}

	// One consumer per order feed topic, same handler.
	for _, topic := range []string{wms.TopicOrderCreated, wms.TopicOrderStatus} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.SyncGroup, topic, cfg.SyncWorkers)
		go func(topic string) {
			log.Printf("syncer consumer started: group=%s topic=%s workers=%d", cfg.SyncGroup, topic, cfg.SyncWorkers)
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.Printf("consumer exit (%s): %v", topic, err)
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down syncer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}
