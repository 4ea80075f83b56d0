package service

import (
	"context"
	"errors"
	"time"

	"wedding-site-api/internal/model"
	"wedding-site-api/internal/repository"
	apperrors "wedding-site-api/pkg/app_errors"
	"wedding-site-api/pkg/profanity"
)

type SongRequestService interface {
	// 檢查不雅字詞與重複後新增點歌
	Request(ctx context.Context, input model.SongRequestInput) (*model.SongRequest, error)
	List(ctx context.Context, rsvpID *int64) ([]*model.SongRequest, error)
}

type SongRequestServiceImpl struct {
	repository repository.SongRequestRepository
	checker    profanity.Checker
	now        Clock
}

func NewSongRequestService(
	songRequestRepository repository.SongRequestRepository,
	checker profanity.Checker,
	clock Clock,
) SongRequestService {
	if clock == nil {
		clock = time.Now
	}
	return &SongRequestServiceImpl{
		repository: songRequestRepository,
		checker:    checker,
		now:        clock,
	}
}

func (s *SongRequestServiceImpl) Request(ctx context.Context, input model.SongRequestInput) (*model.SongRequest, error) {
	if s.checker.IsProfane(input.SongTitle) || (input.Artist != nil && s.checker.IsProfane(*input.Artist)) {
		return nil, apperrors.ErrInappropriateContent
	}

	duplicate, err := s.repository.ExistsDuplicate(ctx, input.SongTitle, input.Artist)
	if err != nil {
		return nil, persistenceError(err)
	}
	if duplicate {
		return nil, apperrors.ErrDuplicateSongRequest
	}

	song, err := s.repository.Create(ctx, input, s.now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrRsvpNotFound) {
			return nil, err
		}
		return nil, persistenceError(err)
	}
	return song, nil
}

func (s *SongRequestServiceImpl) List(ctx context.Context, rsvpID *int64) ([]*model.SongRequest, error) {
	songs, err := s.repository.List(ctx, rsvpID)
	if err != nil {
		return nil, persistenceError(err)
	}
	return songs, nil
}
