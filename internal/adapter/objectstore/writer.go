package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// SelectionWriter stores the selected rows as a CSV object.
type SelectionWriter struct {
	store Store
	key   string
}

// NewSelectionWriter creates a SelectionWriter writing to key.
func NewSelectionWriter(store Store, key string) *SelectionWriter {
	return &SelectionWriter{store: store, key: key}
}

func (w *SelectionWriter) Name() string { return "selection_csv" }

func (w *SelectionWriter) Load(ctx context.Context, report *domain.Report) error {
	var buf bytes.Buffer
	if err := EncodeSelection(&buf, report.Selection.Rows); err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	return w.store.Put(ctx, w.key, buf.Bytes(), ContentTypeCSV)
}

// RankingDocument is the JSON layout of the full ranking object.
type RankingDocument struct {
	RunID       string                  `json:"run_id"`
	EvaluatedAt time.Time               `json:"evaluated_at"`
	Ranking     []domain.ScoredLocation `json:"ranking"`
	Selection   domain.Selection        `json:"selection"`
	Issues      []domain.Issue          `json:"issues"`
}

// RankingWriter stores the full ranking with its issues as a JSON object.
type RankingWriter struct {
	store Store
	key   string
}

// NewRankingWriter creates a RankingWriter writing to key.
func NewRankingWriter(store Store, key string) *RankingWriter {
	return &RankingWriter{store: store, key: key}
}

func (w *RankingWriter) Name() string { return "ranking_json" }

func (w *RankingWriter) Load(ctx context.Context, report *domain.Report) error {
	doc := RankingDocument{
		RunID:       report.RunID,
		EvaluatedAt: report.EvaluatedAt,
		Ranking:     report.Ranking,
		Selection:   report.Selection,
		Issues:      report.Issues,
	}
	if doc.Ranking == nil {
		doc.Ranking = []domain.ScoredLocation{}
	}
	if doc.Issues == nil {
		doc.Issues = []domain.Issue{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}
	return w.store.Put(ctx, w.key, data, ContentTypeJSON)
}
