//go:build integration

package integration_test

import (
	"context"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/couchcryptid/destination-weather-etl/internal/adapter/objectstore"
	"github.com/couchcryptid/destination-weather-etl/internal/adapter/postgres"
)

const mockDataDir = "../../data/mock"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mockSource() *objectstore.Source {
	return objectstore.NewSource(objectstore.NewFileStore(mockDataDir), objectstore.Keys{
		Coordinates: "nominatim_cities.json",
		Forecasts:   "openweather_data.json",
		Hotels:      "booking_hotels_raw.csv",
	})
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()
	container, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0", tckafka.WithClusterID("destination-etl-test"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)
	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

const warehouseSchema = `
CREATE TABLE cities (
	rank_position  INTEGER PRIMARY KEY,
	name           TEXT NOT NULL,
	longitude      DOUBLE PRECISION NOT NULL,
	latitude       DOUBLE PRECISION NOT NULL,
	temp_day_mean  DOUBLE PRECISION NOT NULL,
	clouds_mean    DOUBLE PRECISION NOT NULL,
	pop_mean       DOUBLE PRECISION NOT NULL,
	temp_day_score INTEGER NOT NULL,
	clouds_score   INTEGER NOT NULL,
	pop_score      INTEGER NOT NULL,
	global_score   DOUBLE PRECISION NOT NULL,
	rank           TEXT NOT NULL,
	run_id         TEXT NOT NULL
);
CREATE TABLE hotels (
	id            SERIAL PRIMARY KEY,
	city          TEXT NOT NULL,
	attributes    JSONB NOT NULL,
	longitude     DOUBLE PRECISION,
	latitude      DOUBLE PRECISION,
	temp_day_mean DOUBLE PRECISION,
	clouds_mean   DOUBLE PRECISION,
	pop_mean      DOUBLE PRECISION,
	global_score  DOUBLE PRECISION,
	run_id        TEXT NOT NULL
);`

// startPostgres runs a Postgres container with the warehouse tables and
// returns a pool connected to it.
func startPostgres(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("destinations"),
		tcpostgres.WithUsername("etl"),
		tcpostgres.WithPassword("etl"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := postgres.Connect(ctx, url, 2, 0)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, warehouseSchema)
	require.NoError(t, err, "create warehouse tables")
	return pool
}
