package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/weather-report-etl/internal/config"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// Writer publishes cleaned observations to a Kafka topic.
// It implements pipeline.Loader.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic. Retries are
// left to the pipeline, so the producer makes a single attempt per call.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		MaxAttempts:            1,
		WriteTimeout:           cfg.SinkTimeout,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the sink in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Load serializes every row and publishes them in a single WriteMessages call.
func (w *Writer) Load(ctx context.Context, run domain.Run, rows []domain.CleanedRow) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(run, i, rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d observations: %w", len(msgs), err)
	}
	w.logger.Debug("observations published", "topic", w.writer.Topic, "count", len(msgs))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// observationMessage is the JSON value of a published row.
type observationMessage struct {
	RunID        string  `json:"run_id"`
	Date         string  `json:"date,omitempty"`
	TemperatureC float64 `json:"temperature_c"`
	RainfallMM   float64 `json:"rainfall_mm"`
	HumidityPct  int     `json:"humidity_per"`
	Season       string  `json:"season,omitempty"`
}

// serializeToMessage marshals a cleaned row into a Kafka message keyed by
// date, or by row position when the data has no date index.
func serializeToMessage(run domain.Run, pos int, row domain.CleanedRow) (kafkago.Message, error) {
	key := strconv.Itoa(pos)
	value := observationMessage{
		RunID:        run.ID,
		TemperatureC: row.TemperatureC,
		RainfallMM:   row.RainfallMM,
		HumidityPct:  row.HumidityPct,
		Season:       string(row.Season),
	}
	if run.Indexed {
		key = row.Date.Format(domain.DateLayout)
		value.Date = key
	}

	data, err := json.Marshal(value)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation %s: %w", key, err)
	}
	return kafkago.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(run.ID)},
			{Key: "source", Value: []byte(run.Source)},
			{Key: "processed_at", Value: []byte(run.StartedAt.Format(time.RFC3339))},
		},
	}, nil
}
