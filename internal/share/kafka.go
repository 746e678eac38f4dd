package share

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventType is set on the event_type header of every share message.
const EventType = "activity.exported"

// MessageWriter is the subset of *kafka.Writer used by KafkaSharer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ExportedEvent is the JSON payload published for each shared file.
type ExportedEvent struct {
	Title       string    `json:"title"`
	FileName    string    `json:"file_name"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	ExportedAt  time.Time `json:"exported_at"`
}

// KafkaSharer publishes an ExportedEvent per shared file so another process
// on the host can pick the document up.
type KafkaSharer struct {
	writer MessageWriter
	now    func() time.Time
}

// NewKafkaWriter builds a synchronous writer for topic.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.Hash{},
		Async:        false,
	}
}

// NewKafkaSharer wraps writer.
func NewKafkaSharer(writer MessageWriter) *KafkaSharer {
	return &KafkaSharer{writer: writer, now: time.Now}
}

// Share implements Sharer.
func (k *KafkaSharer) Share(ctx context.Context, req Request) error {
	event := ExportedEvent{
		Title:       req.Title,
		FileName:    filepath.Base(req.Path),
		Path:        req.Path,
		ContentType: req.ContentType,
		ExportedAt:  k.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal share event: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.FileName),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventType)},
			{Key: "content_type", Value: []byte(req.ContentType)},
		},
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish share event: %w", err)
	}
	return nil
}

// Close releases the underlying writer.
func (k *KafkaSharer) Close() error {
	return k.writer.Close()
}
