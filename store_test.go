package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/config"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/kafka"
	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/observability"
)

func TestOpenStoreDefaultsToMemory(t *testing.T) {
	b, err := openStore(context.Background(), config.StoreConfig{Driver: config.StoreMemory}, observability.NopLogger())
	require.NoError(t, err)

	assert.NotNil(t, b.Collection("orders"))
	assert.Nil(t, b.tx, "memory store runs the compensating path")
	assert.NoError(t, b.shutdown(context.Background()))
}

func TestOpenSink(t *testing.T) {
	sink, err := openSink(config.EventsConfig{Driver: config.EventsNone})
	require.NoError(t, err)
	assert.Nil(t, sink)

	_, err = openSink(config.EventsConfig{Driver: config.EventsKafka})
	assert.ErrorIs(t, err, kafka.ErrNoBrokers)

	sink, err = openSink(config.EventsConfig{Driver: config.EventsKafka, KafkaBrokers: "localhost:9092", KafkaTopic: "orders"})
	require.NoError(t, err)
	assert.NoError(t, sink.Close())
}
