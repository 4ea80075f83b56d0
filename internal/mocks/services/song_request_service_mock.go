package services

import (
	"context"

	"wedding-site-api/internal/model"

	"github.com/stretchr/testify/mock"
)

type SongRequestServiceMock struct {
	mock.Mock
}

func NewSongRequestServiceMock() *SongRequestServiceMock {
	return &SongRequestServiceMock{}
}

func (m *SongRequestServiceMock) Request(ctx context.Context, input model.SongRequestInput) (*model.SongRequest, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SongRequest), args.Error(1)
}

func (m *SongRequestServiceMock) List(ctx context.Context, rsvpID *int64) ([]*model.SongRequest, error) {
	args := m.Called(ctx, rsvpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SongRequest), args.Error(1)
}
