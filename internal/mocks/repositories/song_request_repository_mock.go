package repositories

import (
	"context"
	"time"

	"wedding-site-api/internal/model"

	"github.com/stretchr/testify/mock"
)

type SongRequestRepositoryMock struct {
	mock.Mock
}

func NewSongRequestRepositoryMock() *SongRequestRepositoryMock {
	return &SongRequestRepositoryMock{}
}

func (m *SongRequestRepositoryMock) ExistsDuplicate(ctx context.Context, songTitle string, artist *string) (bool, error) {
	args := m.Called(ctx, songTitle, artist)
	return args.Bool(0), args.Error(1)
}

func (m *SongRequestRepositoryMock) Create(ctx context.Context, input model.SongRequestInput, now time.Time) (*model.SongRequest, error) {
	args := m.Called(ctx, input, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SongRequest), args.Error(1)
}

func (m *SongRequestRepositoryMock) List(ctx context.Context, rsvpID *int64) ([]*model.SongRequest, error) {
	args := m.Called(ctx, rsvpID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.SongRequest), args.Error(1)
}
