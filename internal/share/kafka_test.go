package share

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

func TestKafkaSharerPublishesEvent(t *testing.T) {
	writer := &stubWriter{}
	sharer := NewKafkaSharer(writer)
	sharer.now = func() time.Time { return time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC) }

	err := sharer.Share(context.Background(), Request{
		Title:       "Study-20240501.pdf",
		Path:        "/data/Study-20240501.pdf",
		ContentType: "application/pdf",
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)

	msg := writer.messages[0]
	require.Equal(t, "Study-20240501.pdf", string(msg.Key))
	require.Equal(t, []kafka.Header{
		{Key: "event_type", Value: []byte(EventType)},
		{Key: "content_type", Value: []byte("application/pdf")},
	}, msg.Headers)

	var event ExportedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	require.Equal(t, "/data/Study-20240501.pdf", event.Path)
	require.Equal(t, "Study-20240501.pdf", event.FileName)
	require.True(t, event.ExportedAt.Equal(time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)))

	require.NoError(t, sharer.Close())
	require.True(t, writer.closed)
}

func TestKafkaSharerWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	sharer := NewKafkaSharer(&stubWriter{err: boom})

	err := sharer.Share(context.Background(), Request{Path: "/tmp/a.pdf"})
	require.ErrorIs(t, err, boom)
}

func TestFuncAndNoop(t *testing.T) {
	var got Request
	f := Func(func(_ context.Context, req Request) error {
		got = req
		return nil
	})
	require.NoError(t, f.Share(context.Background(), Request{Path: "x"}))
	require.Equal(t, "x", got.Path)
	require.NoError(t, Noop{}.Share(context.Background(), Request{}))
}

type stubWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *stubWriter) Close() error {
	w.closed = true
	return nil
}
