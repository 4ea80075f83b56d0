package services

import (
	"context"

	"wedding-site-api/internal/model"

	"github.com/stretchr/testify/mock"
)

type RsvpServiceMock struct {
	mock.Mock
}

func NewRsvpServiceMock() *RsvpServiceMock {
	return &RsvpServiceMock{}
}

func (m *RsvpServiceMock) Submit(ctx context.Context, input model.RsvpInput) (*model.SubmitResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubmitResult), args.Error(1)
}

func (m *RsvpServiceMock) Stats(ctx context.Context) (*model.RsvpStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RsvpStats), args.Error(1)
}

func (m *RsvpServiceMock) RefreshStats(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
