package relay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_EnqueueDequeue(t *testing.T) {
	q := NewQueue(4)

	id, err := q.Enqueue(context.Background(), EnqueueRequest{SpaceID: "space-1", Query: "golang"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, q.Depth())

	d := <-q.Deliveries()
	assert.Equal(t, id, d.ID)
	assert.Equal(t, "space-1", d.SpaceID)
	assert.Equal(t, "golang", d.Query)
	assert.False(t, d.ReceivedAt.IsZero())
}

func TestQueue_EmptySpaceIDRejected(t *testing.T) {
	q := NewQueue(4)

	_, err := q.Enqueue(context.Background(), EnqueueRequest{Query: "golang"})
	require.Error(t, err)
	assert.Equal(t, 0, q.Depth())
}

func TestQueue_FullQueueDoesNotBlock(t *testing.T) {
	q := NewQueue(1)

	_, err := q.Enqueue(context.Background(), EnqueueRequest{SpaceID: "space-1"})
	require.NoError(t, err)

	_, err = q.Enqueue(context.Background(), EnqueueRequest{SpaceID: "space-2"})
	assert.True(t, errors.Is(err, ErrQueueFull))
}

func TestQueue_EmptyQueryAllowed(t *testing.T) {
	q := NewQueue(4)

	_, err := q.Enqueue(context.Background(), EnqueueRequest{SpaceID: "space-1", Query: ""})
	require.NoError(t, err)

	d := <-q.Deliveries()
	assert.Equal(t, "", d.Query)
}
