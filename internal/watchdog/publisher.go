package watchdog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"service-watchdog/pkg/infra"
)

// ResultPublisher streams classified probe outcomes to an external topic so
// other systems can aggregate availability. Publishing is best-effort and
// never affects monitoring.
type ResultPublisher interface {
	Publish(ctx context.Context, serviceName string, res ProbeResult)
}

type kafkaPublisher struct {
	writer infra.KafkaWriter
	logger *zap.Logger
}

func NewKafkaPublisher(writer infra.KafkaWriter, logger *zap.Logger) ResultPublisher {
	return &kafkaPublisher{writer: writer, logger: logger}
}

func (p *kafkaPublisher) Publish(ctx context.Context, serviceName string, res ProbeResult) {
	record := struct {
		Service       string    `json:"service"`
		Status        string    `json:"status"`
		StatusNumeric int       `json:"status_numeric"`
		Reason        string    `json:"reason,omitempty"`
		StatusCode    int       `json:"status_code,omitempty"`
		LatencyMs     int64     `json:"latency_ms"`
		Timestamp     time.Time `json:"timestamp"`
	}{
		Service:    serviceName,
		Status:     string(res.Status),
		Reason:     string(res.Reason),
		StatusCode: res.StatusCode,
		LatencyMs:  res.Latency.Milliseconds(),
		Timestamp:  res.Timestamp,
	}
	if res.Healthy() {
		record.StatusNumeric = 1
	}
	b, err := json.Marshal(record)
	if err != nil {
		p.logger.Warn("failed to encode probe result", zap.Error(fmt.Errorf("kafkaPublisher.Publish: %w", err)))
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(serviceName),
		Value: b,
	})
	if err != nil {
		p.logger.Warn("failed to publish probe result", zap.Error(fmt.Errorf("kafkaPublisher.Publish: %w", err)))
	}
}

type nopPublisher struct{}

func NewNopPublisher() ResultPublisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, string, ProbeResult) {}
