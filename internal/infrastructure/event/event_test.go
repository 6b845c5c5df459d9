package event

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/masgolf/backend/internal/domain/booking"
	"github.com/masgolf/backend/internal/domain/shared"
	"github.com/masgolf/backend/internal/infrastructure/config"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, uuid.New()),
		Data:            "test data",
	}
}

type recordingHandler struct {
	mu      sync.Mutex
	handled []shared.DomainEvent
	err     error
}

func (h *recordingHandler) Handle(_ context.Context, e shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, e)
	return h.err
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestEncodeDecode(t *testing.T) {
	b, err := booking.NewBooking("홍길동", "010-1234-5678", "2026-11-02", "10:00", 60, "fitting")
	require.NoError(t, err)
	evt := booking.NewCreatedEvent(b)

	data, err := Encode(evt)
	require.NoError(t, err)

	env, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, evt.EventID(), env.ID)
	assert.Equal(t, booking.EventTypeBookingCreated, env.Type)
	assert.Equal(t, b.ID, env.AggregateID)

	var payload booking.CreatedEvent
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "01012345678", payload.Phone)
	assert.Equal(t, "10:00", payload.Time)

	_, err = Decode([]byte(`{"id":"00000000-0000-0000-0000-000000000000"}`))
	assert.Error(t, err)
	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	typed := &recordingHandler{}
	wildcard := &recordingHandler{}
	failing := &recordingHandler{err: errors.New("boom")}
	bus.Subscribe(typed, "booking.created")
	bus.Subscribe(failing, "booking.created")
	bus.Subscribe(wildcard)

	err := bus.Publish(context.Background(), newTestEvent("booking.created"), newTestEvent("campaign.sent"))
	require.NoError(t, err)

	assert.Equal(t, 1, typed.count())
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 2, wildcard.count())
}

func TestInMemoryEventBus_RecoversFromPanic(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	after := &recordingHandler{}
	bus.Subscribe(HandlerFunc(func(context.Context, shared.DomainEvent) error {
		panic("handler bug")
	}), "x")
	bus.Subscribe(after, "x")

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("x"))
	})
	assert.Equal(t, 1, after.count())
}

func TestLogHandler(t *testing.T) {
	assert.NoError(t, LogHandler(zap.NewNop()).Handle(context.Background(), newTestEvent("x")))
}

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	f.records = append(f.records, rs...)
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func (f *fakeProducer) Close() { f.closed = true }

func TestKafkaPublisher_Publish(t *testing.T) {
	fake := &fakeProducer{}
	p := newKafkaPublisher(fake, "masgolf.events", nil)

	evt := newTestEvent("campaign.sent")
	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, fake.records, 1)

	rec := fake.records[0]
	assert.Equal(t, "masgolf.events", rec.Topic)
	assert.Equal(t, evt.AggregateID().String(), string(rec.Key))
	assert.Equal(t, []kgo.RecordHeader{{Key: headerEventType, Value: []byte("campaign.sent")}}, rec.Headers)

	env, err := Decode(rec.Value)
	require.NoError(t, err)
	assert.Equal(t, "campaign.sent", env.Type)

	require.NoError(t, p.Publish(context.Background()))
	assert.Len(t, fake.records, 1)

	p.Close()
	assert.True(t, fake.closed)
}

func TestKafkaPublisher_ProduceError(t *testing.T) {
	fake := &fakeProducer{err: errors.New("broker down")}
	p := newKafkaPublisher(fake, "t", zap.NewNop())

	err := p.Publish(context.Background(), newTestEvent("a"), newTestEvent("b"))
	assert.ErrorContains(t, err, "failed to produce 2 events")
	assert.ErrorContains(t, err, "broker down")
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := NewKafkaPublisher(config.KafkaConfig{Topic: "t"}, nil)
	assert.ErrorIs(t, err, ErrNoBrokers)

	_, err = NewKafkaPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}}, nil)
	assert.ErrorIs(t, err, ErrNoTopic)
}

type stubPublisher struct {
	calls int
	err   error
}

func (s *stubPublisher) Publish(context.Context, ...shared.DomainEvent) error {
	s.calls++
	return s.err
}

func TestFanoutPublisher(t *testing.T) {
	ok := &stubPublisher{}
	bad := &stubPublisher{err: errors.New("down")}
	last := &stubPublisher{}

	err := NewFanoutPublisher(ok, bad, last).Publish(context.Background(), newTestEvent("x"))
	assert.ErrorContains(t, err, "down")
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, last.calls)
}

func TestNewPublisher_Disabled(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	pub, closeFn, err := NewPublisher(config.KafkaConfig{}, bus, zap.NewNop())
	require.NoError(t, err)
	assert.Same(t, bus, pub)
	closeFn()
}
