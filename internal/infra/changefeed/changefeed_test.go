package changefeed

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestSubscriber_PendingCounters(t *testing.T) {
	sub := NewSubscriber(nil, nopLogger{}, nil)

	sub.handle(&redis.Message{Channel: ChannelAppointments, Payload: "42"})
	sub.handle(&redis.Message{Channel: ChannelAvailability, Payload: "42"})
	sub.handle(&redis.Message{Channel: ChannelAppointments, Payload: "7"})

	assert.Equal(t, int64(2), sub.PendingUpdates(42))
	assert.Equal(t, int64(1), sub.PendingUpdates(7))
	assert.Equal(t, int64(0), sub.PendingUpdates(99))
}

func TestSubscriber_Ack(t *testing.T) {
	sub := NewSubscriber(nil, nopLogger{}, nil)

	sub.handle(&redis.Message{Channel: ChannelAppointments, Payload: "42"})
	sub.Ack(42)

	assert.Equal(t, int64(0), sub.PendingUpdates(42))

	// Ack без накопленных событий безопасен
	sub.Ack(42)
	assert.Equal(t, int64(0), sub.PendingUpdates(42))
}

func TestSubscriber_MalformedPayloadIgnored(t *testing.T) {
	sub := NewSubscriber(nil, nopLogger{}, nil)

	sub.handle(&redis.Message{Channel: ChannelAppointments, Payload: "not-a-number"})

	assert.Equal(t, int64(0), sub.PendingUpdates(0))
}
