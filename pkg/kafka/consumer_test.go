package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage() Message {
	return Message{Key: "k", Value: []byte(`{}`), Headers: map[string]string{}}
}

func TestShouldRetry(t *testing.T) {
	transient := errors.New("broker hiccup")

	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.True(t, ShouldRetry(transient, 2, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(Permanent(transient), 0, 3))
}

func TestPermanentUnwraps(t *testing.T) {
	base := errors.New("bad payload")
	err := Permanent(base)

	assert.True(t, errors.Is(err, base))
	assert.Nil(t, Permanent(nil))
}

func TestProcessMessageRetriesThenGivesUp(t *testing.T) {
	calls := 0
	c := &Consumer{
		maxRetries: 2,
		handler: func(_ context.Context, _ Message) error {
			calls++
			return errors.New("handler down")
		},
	}

	err := c.processMessage(context.Background(), testMessage())
	require.Error(t, err)
	// First attempt plus two retries.
	assert.Equal(t, 3, calls)
}

func TestProcessMessageStopsOnPermanentError(t *testing.T) {
	calls := 0
	c := &Consumer{
		maxRetries: 5,
		handler: func(_ context.Context, _ Message) error {
			calls++
			return Permanent(errors.New("undecodable"))
		},
	}

	err := c.processMessage(context.Background(), testMessage())
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestProcessMessageSucceedsAfterRetry(t *testing.T) {
	calls := 0
	c := &Consumer{
		maxRetries: 3,
		handler: func(_ context.Context, _ Message) error {
			calls++
			if calls < 2 {
				return errors.New("transient")
			}
			return nil
		},
	}

	require.NoError(t, c.processMessage(context.Background(), testMessage()))
	assert.Equal(t, 2, calls)
}
