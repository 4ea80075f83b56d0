package caches

import (
	"context"

	"wedding-site-api/internal/model"

	"github.com/stretchr/testify/mock"
)

type RsvpStatsCacheMock struct {
	mock.Mock
}

func NewRsvpStatsCacheMock() *RsvpStatsCacheMock {
	return &RsvpStatsCacheMock{}
}

func (m *RsvpStatsCacheMock) Get(ctx context.Context) (*model.RsvpStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RsvpStats), args.Error(1)
}

func (m *RsvpStatsCacheMock) Set(ctx context.Context, stats *model.RsvpStats) error {
	args := m.Called(ctx, stats)
	return args.Error(0)
}

func (m *RsvpStatsCacheMock) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
