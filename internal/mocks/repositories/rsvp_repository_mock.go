package repositories

import (
	"context"
	"time"

	"wedding-site-api/internal/model"

	"github.com/stretchr/testify/mock"
)

type RsvpRepositoryMock struct {
	mock.Mock
}

func NewRsvpRepositoryMock() *RsvpRepositoryMock {
	return &RsvpRepositoryMock{}
}

func (m *RsvpRepositoryMock) FindByEmail(ctx context.Context, email string) (*model.Rsvp, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Rsvp), args.Error(1)
}

func (m *RsvpRepositoryMock) Insert(ctx context.Context, input model.RsvpInput, now time.Time) (int64, error) {
	args := m.Called(ctx, input, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RsvpRepositoryMock) Update(ctx context.Context, email string, input model.RsvpInput, now time.Time) (int64, error) {
	args := m.Called(ctx, email, input, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RsvpRepositoryMock) Stats(ctx context.Context) (*model.RsvpStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RsvpStats), args.Error(1)
}
