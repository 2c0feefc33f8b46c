package kafka

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("TATU").
		WithEventType("reservation.created").
		WithSource("parking").
		WithValue(map[string]string{"slotNumber": "A1"}).
		Build()
	require.NoError(t, err)

	assert.Equal(t, "TATU", msg.Key)
	assert.JSONEq(t, `{"slotNumber":"A1"}`, string(msg.Value))
	assert.Equal(t, "reservation.created", msg.GetEventType())
	assert.NotEmpty(t, msg.GetEventID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])
}

func TestMessageBuilder_ReportsEncodingFailure(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(math.Inf(1)).Build()
	assert.Error(t, err)
}

func TestRetryCount(t *testing.T) {
	msg := Message{}
	assert.Equal(t, 0, msg.GetRetryCount())

	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
	assert.Equal(t, "12", msg.Headers[HeaderRetryCount])
}

func TestClassifyError(t *testing.T) {
	assert.Equal(t, ErrorTypeTransient, ClassifyError(errors.New("dial tcp: Connection Refused")))
	assert.Equal(t, ErrorTypeTransient, ClassifyError(NewTransientError("broker", nil)))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(errors.New("unknown event kind")))
	assert.Equal(t, ErrorTypePermanent, ClassifyError(NewPermanentError("decode", errors.New("i/o timeout"))))
	assert.Equal(t, ErrorTypeUnknown, ClassifyError(nil))
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("i/o timeout")
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(errors.New("bad payload"), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}
