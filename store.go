package main

import (
	"context"
	"fmt"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/config"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/kafka"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/memory"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/mongodb"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/outbox"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/persistence"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/postgres"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/rabbitmq"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

// backend is the selected document store. tx is nil when the backend
// cannot group the order and payment writes, which puts the order workflow
// on its compensating path.
type backend struct {
	docstore.Store
	tx       docstore.Transactor
	shutdown func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg config.StoreConfig, log observability.Logger) (*backend, error) {
	switch cfg.Driver {
	case config.StoreMongo:
		s, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		for _, k := range persistence.UniqueKeys() {
			if err := s.EnsureUnique(ctx, k.Collection, k.Field); err != nil {
				_ = s.Close(ctx)
				return nil, fmt.Errorf("mongo: unique index %s.%s: %w", k.Collection, k.Field, err)
			}
		}
		b := &backend{Store: s, shutdown: s.Close}
		// Transactions need a replica set, so they are opt-in.
		if cfg.MongoTransactions {
			b.tx = s
		}
		log.Info("store_opened", observability.F("driver", cfg.Driver), observability.F("transactions", b.tx != nil))
		return b, nil

	case config.StorePostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		log.Info("store_opened", observability.F("driver", cfg.Driver), observability.F("transactions", true))
		return &backend{Store: s, tx: s, shutdown: func(context.Context) error { return s.Close() }}, nil

	default:
		log.Info("store_opened", observability.F("driver", config.StoreMemory), observability.F("transactions", false))
		return &backend{Store: memory.NewStore(), shutdown: func(context.Context) error { return nil }}, nil
	}
}

// openSink returns nil when events stay in process.
func openSink(cfg config.EventsConfig) (outbox.Sink, error) {
	switch cfg.Driver {
	case config.EventsKafka:
		p, err := kafka.NewPublisher(kafka.ParseBrokers(cfg.KafkaBrokers), cfg.KafkaTopic)
		if err != nil {
			return nil, err
		}
		return p, nil
	case config.EventsAMQP:
		p, err := rabbitmq.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, nil
	}
}
