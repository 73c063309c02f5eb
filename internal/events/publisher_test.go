package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, any) error {
	return errors.New("broker down")
}

type recordingPublisher struct {
	keys []string
}

func (r *recordingPublisher) Publish(_ context.Context, routingKey string, _ any) error {
	r.keys = append(r.keys, routingKey)
	return nil
}

func TestEmitBestEffort(t *testing.T) {
	// A publish failure is logged, never surfaced; a nil publisher is a no-op.
	assert.NotPanics(t, func() {
		Emit(context.Background(), failingPublisher{}, TransferCompleted, nil)
		Emit(context.Background(), nil, TransferCompleted, nil)
	})
}

func TestEmitDispatches(t *testing.T) {
	rec := &recordingPublisher{}
	Emit(context.Background(), rec, OrderPaid, OrderPaidEvent{OrderID: "o1"})
	Emit(context.Background(), rec, OrderCancelled, OrderCancelledEvent{OrderID: "o1"})

	assert.Equal(t, []string{"order.paid", "order.cancelled"}, rec.keys)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), TransferCompleted, nil))
}
