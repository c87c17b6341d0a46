// Package postgres loads the selected cities and enriched hotels into the
// relational warehouse.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// Table names and columns written by the Warehouse. The tables must exist.
const (
	CitiesTable = "cities"
	HotelsTable = "hotels"
)

var (
	cityColumns = []string{
		"rank_position", "name", "longitude", "latitude",
		"temp_day_mean", "clouds_mean", "pop_mean",
		"temp_day_score", "clouds_score", "pop_score", "global_score",
		"rank", "run_id",
	}
	hotelColumns = []string{
		"city", "attributes",
		"longitude", "latitude", "temp_day_mean", "clouds_mean", "pop_mean", "global_score",
		"run_id",
	}
)

// Connect creates a connection pool for url and verifies it with a ping.
func Connect(ctx context.Context, url string, maxConns int32, maxConnLifetime time.Duration) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = maxConns
	}
	if maxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = maxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Warehouse replaces the cities and hotels tables with each run's output.
type Warehouse struct {
	pool *pgxpool.Pool
}

// NewWarehouse creates a Warehouse on pool.
func NewWarehouse(pool *pgxpool.Pool) *Warehouse {
	return &Warehouse{pool: pool}
}

func (w *Warehouse) Name() string { return "postgres" }

// Load replaces both tables in a single transaction, so readers see either
// the previous run or this one.
func (w *Warehouse) Load(ctx context.Context, report *domain.Report) error {
	hotels, err := hotelRows(report.Hotels, report.RunID)
	if err != nil {
		return err
	}

	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback error is not critical

	if err := replace(ctx, tx, CitiesTable, cityColumns, cityRows(report.Selection.Rows, report.RunID)); err != nil {
		return err
	}
	if err := replace(ctx, tx, HotelsTable, hotelColumns, hotels); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CheckReadiness pings the database.
func (w *Warehouse) CheckReadiness(ctx context.Context) error {
	return w.pool.Ping(ctx)
}

func replace(ctx context.Context, tx pgx.Tx, table string, columns []string, rows [][]any) error {
	if _, err := tx.Exec(ctx, "DELETE FROM "+pgx.Identifier{table}.Sanitize()); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy into %s: %w", table, err)
	}
	if int(n) != len(rows) {
		return fmt.Errorf("copy into %s: wrote %d of %d rows", table, n, len(rows))
	}
	return nil
}

func cityRows(rows []domain.OutputRow, runID string) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{
			r.Position, r.Name, r.Longitude, r.Latitude,
			r.TempDayMean, r.CloudsMean, r.PopMean,
			r.TempDayScore, r.CloudsScore, r.PopScore, r.GlobalScore,
			r.Rank, runID,
		}
	}
	return out
}

// hotelRows flattens enriched hotels. Attributes become a JSON object keyed
// by column name; hotels in unselected cities get NULL weather columns.
func hotelRows(hotels []domain.EnrichedHotel, runID string) ([][]any, error) {
	out := make([][]any, len(hotels))
	for i, h := range hotels {
		attrs := make(map[string]string, len(h.Columns))
		for j, col := range h.Columns {
			if j < len(h.Attributes) {
				attrs[col] = h.Attributes[j]
			}
		}
		attrJSON, err := json.Marshal(attrs)
		if err != nil {
			return nil, fmt.Errorf("encode attributes of hotel %d: %w", i, err)
		}

		row := []any{h.City, attrJSON, nil, nil, nil, nil, nil, nil, runID}
		if w := h.Weather; w != nil {
			row[2], row[3] = w.Longitude, w.Latitude
			row[4], row[5], row[6] = w.TempDayMean, w.CloudsMean, w.PopMean
			row[7] = w.GlobalScore
		}
		out[i] = row
	}
	return out, nil
}
