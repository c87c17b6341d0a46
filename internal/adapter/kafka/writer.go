package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/destination-weather-etl/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// SelectionEvent is the value of one published message.
type SelectionEvent struct {
	RunID       string           `json:"run_id"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
	Position    int              `json:"position"`
	Override    bool             `json:"override"`
	City        domain.OutputRow `json:"city"`
}

// Writer publishes the selected locations of a run to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Load publishes one message per selected row, keyed by location name, in a
// single WriteMessages call.
func (w *Writer) Load(ctx context.Context, report *domain.Report) error {
	rows := report.Selection.Rows
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(report, i)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish selection: %w", err)
	}
	w.logger.Debug("selection published", "messages", len(msgs), "run_id", report.RunID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals the i-th selected row into a Kafka message.
func serializeToMessage(report *domain.Report, i int) (kafkago.Message, error) {
	row := report.Selection.Rows[i]
	data, err := json.Marshal(SelectionEvent{
		RunID:       report.RunID,
		EvaluatedAt: report.EvaluatedAt,
		Position:    row.Position,
		Override:    report.Selection.Override,
		City:        row,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize selection %q: %w", row.Name, err)
	}
	return kafkago.Message{
		Key:   []byte(row.Name),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(report.RunID)},
			{Key: "rank", Value: []byte(strconv.Itoa(row.Position))},
		},
	}, nil
}
