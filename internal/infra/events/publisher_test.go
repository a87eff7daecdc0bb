package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	published []published
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:         42,
		UserID:     "user-1",
		BarberID:   7,
		BarberName: "Ivan Petrov",
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
		EndTime:    "11:00",
		Status:     domain.StatusPending,
		ServiceIDs: []int64{1, 2},
		SlotIDs:    []int64{2, 3},
		TotalPrice: 2500,
	}
}

func TestPublisher_PublishAppointmentCreated(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "barbershop", logger.NewNop())
	fixed := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	require.NoError(t, p.PublishAppointmentCreated(context.Background(), testAppointment()))
	require.Len(t, ch.published, 1)

	got := ch.published[0]
	assert.Equal(t, "barbershop", got.exchange)
	assert.Equal(t, RoutingKeyAppointmentCreated, got.key)
	assert.Equal(t, amqp.Persistent, got.msg.DeliveryMode)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var event AppointmentEvent
	require.NoError(t, json.Unmarshal(got.msg.Body, &event))
	assert.Equal(t, RoutingKeyAppointmentCreated, event.Type)
	assert.Equal(t, int64(42), event.AppointmentID)
	assert.Equal(t, "2025-03-11", event.Date)
	assert.Equal(t, []int64{2, 3}, event.SlotIDs)
	assert.True(t, fixed.Equal(event.OccurredAt))
}

func TestPublisher_PublishAppointmentCancelled(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "barbershop", logger.NewNop())

	appointment := testAppointment()
	appointment.Status = domain.StatusCancelledByUser
	reason := "plans changed"
	appointment.CancellationReason = &reason

	require.NoError(t, p.PublishAppointmentCancelled(context.Background(), appointment))
	require.Len(t, ch.published, 1)
	assert.Equal(t, RoutingKeyAppointmentCancelled, ch.published[0].key)

	var event AppointmentEvent
	require.NoError(t, json.Unmarshal(ch.published[0].msg.Body, &event))
	assert.Equal(t, "cancelled_by_user", event.Status)
	require.NotNil(t, event.CancellationReason)
	assert.Equal(t, reason, *event.CancellationReason)
}

func TestPublisher_PublishError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := newPublisher(ch, "barbershop", logger.NewNop())

	err := p.PublishAppointmentCreated(context.Background(), testAppointment())
	assert.ErrorIs(t, err, ErrPublish)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := newPublisher(ch, "barbershop", logger.NewNop())

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
