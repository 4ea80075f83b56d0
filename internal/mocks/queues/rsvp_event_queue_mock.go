package queues

import (
	"context"

	"wedding-site-api/internal/model"
	"wedding-site-api/internal/queue"

	"github.com/stretchr/testify/mock"
)

type RsvpEventQueueMock struct {
	mock.Mock
}

func NewRsvpEventQueueMock() *RsvpEventQueueMock {
	return &RsvpEventQueueMock{}
}

func (m *RsvpEventQueueMock) Publish(ctx context.Context, event *model.RsvpEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *RsvpEventQueueMock) Subscribe(ctx context.Context) (<-chan queue.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan queue.Delivery), args.Error(1)
}
