package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"shelter-sync/core/reconcile"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestNotify(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, "changes", nil)

	at := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	err := p.Notify(context.Background(), []reconcile.Change{
		{Source: "animals", CycleID: "c1", Type: reconcile.ChangeInserted, Key: "448", At: at},
		{Source: "animals", CycleID: "c1", Type: reconcile.ChangeDeleted, Key: "449", At: at},
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 2)

	assert.Equal(t, "animals:448", string(w.msgs[0].Key))
	var got reconcile.Change
	require.NoError(t, json.Unmarshal(w.msgs[1].Value, &got))
	assert.Equal(t, reconcile.ChangeDeleted, got.Type)
	assert.Equal(t, "449", got.Key)

	headers := map[string]string{}
	for _, h := range w.msgs[0].Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "inserted", headers["type"])
	assert.Equal(t, "c1", headers["cycle_id"])
}

func TestNotify_Empty(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, "changes", nil)

	assert.NoError(t, p.Notify(context.Background(), nil))
	assert.Empty(t, w.msgs)
}

func TestNotify_WriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	p := newPublisher(w, "changes", nil)

	err := p.Notify(context.Background(), []reconcile.Change{{Source: "events", Key: "abc"}})
	assert.ErrorContains(t, err, "broker down")
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(w, "changes", nil)
	assert.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestConfig_BrokerList(t *testing.T) {
	cfg := Config{Brokers: " a:9092, b:9092 ,,"}
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.BrokerList())
}
