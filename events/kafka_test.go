package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activeflow/models"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherEncodesEvent(t *testing.T) {
	writer := &recordingWriter{}
	p := &KafkaPublisher{writer: writer}

	now := time.Date(2025, time.May, 5, 12, 0, 0, 0, time.UTC)
	evt := NewWorkoutCreated(models.Workout{
		ID:              "w1",
		UserID:          "u1",
		Type:            "running",
		Date:            now.Add(-time.Hour),
		DurationMinutes: 30,
	}, now)

	require.NoError(t, p.PublishWorkoutCreated(context.Background(), evt))
	require.Len(t, writer.msgs, 1)

	msg := writer.msgs[0]
	assert.Equal(t, "u1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "workout.created", string(msg.Headers[0].Value))

	var decoded WorkoutCreated
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "w1", decoded.WorkoutID)
	assert.Equal(t, "running", decoded.Type)
	assert.True(t, now.Equal(decoded.OccurredAt))

	require.NoError(t, p.Close())
	assert.True(t, writer.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &recordingWriter{err: boom}}

	err := p.PublishWorkoutCreated(context.Background(), WorkoutCreated{UserID: "u1"})
	assert.ErrorIs(t, err, boom)
}
