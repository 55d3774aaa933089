package events

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	ch        chan *pq.Notification
	listenErr error
	closed    bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan *pq.Notification, 8)}
}

func (f *fakeSource) Listen(string) error                    { return f.listenErr }
func (f *fakeSource) Notifications() <-chan *pq.Notification { return f.ch }
func (f *fakeSource) Ping() error                            { return nil }
func (f *fakeSource) Close() error                           { f.closed = true; return nil }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestParsePayload(t *testing.T) {
	ev, err := parsePayload(`{"table":"reservations","op":"UPDATE","id":7,"zone_id":2}`)

	require.NoError(t, err)
	assert.Equal(t, "reservations", ev.Table)
	assert.Equal(t, "UPDATE", ev.Op)
	assert.Equal(t, int64(7), ev.EntityID)
	assert.Equal(t, int64(2), ev.ZoneID)
}

func TestParsePayloadMalformed(t *testing.T) {
	_, err := parsePayload("not json")
	assert.Error(t, err)
}

func TestPublishFansOutToSubscribers(t *testing.T) {
	hub := NewHub(newFakeSource(), nil, nopLogger{})

	all := hub.Subscribe(0)
	zoneTwo := hub.Subscribe(2)
	defer hub.Unsubscribe(all.ID)
	defer hub.Unsubscribe(zoneTwo.ID)

	hub.Publish(Event{Table: "reservations", Op: "INSERT", EntityID: 1, ZoneID: 1})
	hub.Publish(Event{Table: "reservations", Op: "INSERT", EntityID: 2, ZoneID: 2})

	// Подписчик без фильтра видит оба события
	first := <-all.C
	second := <-all.C
	assert.Equal(t, int64(1), first.ZoneID)
	assert.Equal(t, int64(2), second.ZoneID)
	assert.Less(t, first.Seq, second.Seq)

	// Подписчик зоны 2 видит только своё
	ev := <-zoneTwo.C
	assert.Equal(t, int64(2), ev.ZoneID)
	select {
	case extra := <-zoneTwo.C:
		t.Fatalf("неожиданное событие zone=%d", extra.ZoneID)
	default:
	}
}

func TestSlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(newFakeSource(), nil, nopLogger{})

	sub := hub.Subscribe(0)
	defer hub.Unsubscribe(sub.ID)

	// Никто не читает канал: переполнение не должно блокировать Publish
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(Event{Table: "zones", Op: "UPDATE", EntityID: 1, ZoneID: 1})
	}

	assert.Len(t, sub.C, subscriberBuffer)
}

func TestReplayReturnsEventsAfterSeq(t *testing.T) {
	hub := NewHub(newFakeSource(), nil, nopLogger{})

	hub.Publish(Event{Table: "reservations", ZoneID: 1})
	hub.Publish(Event{Table: "reservations", ZoneID: 2})
	hub.Publish(Event{Table: "reservations", ZoneID: 1})

	replayed := hub.Replay(1, 0)
	require.Len(t, replayed, 2)
	assert.Equal(t, int64(2), replayed[0].Seq)
	assert.Equal(t, int64(3), replayed[1].Seq)

	onlyZoneOne := hub.Replay(0, 1)
	require.Len(t, onlyZoneOne, 2)
	for _, ev := range onlyZoneOne {
		assert.Equal(t, int64(1), ev.ZoneID)
	}
}

func TestRunDeliversNotificationsUntilCancelled(t *testing.T) {
	source := newFakeSource()
	hub := NewHub(source, nil, nopLogger{})

	sub := hub.Subscribe(0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.Run(ctx) }()

	source.ch <- &pq.Notification{
		Channel: Channel,
		Extra:   `{"table":"reservations","op":"INSERT","id":5,"zone_id":3}`,
	}

	select {
	case ev := <-sub.C:
		assert.Equal(t, int64(5), ev.EntityID)
		assert.Equal(t, int64(3), ev.ZoneID)
	case <-time.After(time.Second):
		t.Fatal("событие не доставлено")
	}

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
		assert.True(t, source.closed)
	case <-time.After(time.Second):
		t.Fatal("хаб не остановился после отмены контекста")
	}
}
