package service_test

import (
	"context"
	"errors"
	"testing"

	profanitymocks "wedding-site-api/internal/mocks/profanity"
	"wedding-site-api/internal/mocks/repositories"
	"wedding-site-api/internal/model"
	"wedding-site-api/internal/repository"
	"wedding-site-api/internal/service"
	"wedding-site-api/internal/testutil"
	apperrors "wedding-site-api/pkg/app_errors"
	"wedding-site-api/pkg/profanity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSongRequestService_Request(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		checker := profanitymocks.NewCheckerMock()
		svc := service.NewSongRequestService(repo, checker, fixedClock(testNow))
		input := model.SongRequestInput{SongTitle: "September", Artist: strPtr("Earth, Wind & Fire")}
		created := &model.SongRequest{ID: 1, SongTitle: "September", Artist: input.Artist, CreatedAt: testNow}

		checker.On("IsProfane", "September").Return(false)
		checker.On("IsProfane", "Earth, Wind & Fire").Return(false)
		repo.On("ExistsDuplicate", mock.Anything, "September", input.Artist).Return(false, nil)
		repo.On("Create", mock.Anything, input, testNow).Return(created, nil)

		song, err := svc.Request(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, created, song)
		repo.AssertExpectations(t)
	})

	t.Run("ProfaneTitle", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		checker := profanitymocks.NewCheckerMock()
		svc := service.NewSongRequestService(repo, checker, nil)
		checker.On("IsProfane", "bad title").Return(true)

		_, err := svc.Request(ctx, model.SongRequestInput{SongTitle: "bad title"})

		assert.ErrorIs(t, err, apperrors.ErrInappropriateContent)
		repo.AssertNotCalled(t, "ExistsDuplicate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ProfaneArtist", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		checker := profanitymocks.NewCheckerMock()
		svc := service.NewSongRequestService(repo, checker, nil)
		checker.On("IsProfane", "Clean Song").Return(false)
		checker.On("IsProfane", "bad artist").Return(true)

		_, err := svc.Request(ctx, model.SongRequestInput{SongTitle: "Clean Song", Artist: strPtr("bad artist")})

		assert.ErrorIs(t, err, apperrors.ErrInappropriateContent)
	})

	t.Run("Duplicate", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		checker := profanitymocks.NewCheckerMock()
		svc := service.NewSongRequestService(repo, checker, nil)
		checker.On("IsProfane", mock.Anything).Return(false)
		repo.On("ExistsDuplicate", mock.Anything, "Shout", (*string)(nil)).Return(true, nil)

		_, err := svc.Request(ctx, model.SongRequestInput{SongTitle: "Shout"})

		assert.ErrorIs(t, err, apperrors.ErrDuplicateSongRequest)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownRsvp", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		checker := profanitymocks.NewCheckerMock()
		svc := service.NewSongRequestService(repo, checker, fixedClock(testNow))
		checker.On("IsProfane", mock.Anything).Return(false)
		repo.On("ExistsDuplicate", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		repo.On("Create", mock.Anything, mock.Anything, testNow).Return(nil, apperrors.ErrRsvpNotFound)

		_, err := svc.Request(ctx, model.SongRequestInput{SongTitle: "Shout"})

		assert.ErrorIs(t, err, apperrors.ErrRsvpNotFound)
		assert.NotErrorIs(t, err, apperrors.ErrPersistence)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		checker := profanitymocks.NewCheckerMock()
		svc := service.NewSongRequestService(repo, checker, nil)
		checker.On("IsProfane", mock.Anything).Return(false)
		repo.On("ExistsDuplicate", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("disk full"))

		_, err := svc.Request(ctx, model.SongRequestInput{SongTitle: "Shout"})

		assert.ErrorIs(t, err, apperrors.ErrPersistence)
	})

	t.Run("WithSQLiteAndFilter", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		rsvpRepo := repository.NewSQLiteRsvpRepository(db)
		rsvpID, err := rsvpRepo.Insert(ctx, johnInput(1), testNow)
		require.NoError(t, err)
		svc := service.NewSongRequestService(repository.NewSQLiteSongRequestRepository(db), profanity.NewFilter(), fixedClock(testNow))

		song, err := svc.Request(ctx, model.SongRequestInput{SongTitle: "September", RsvpID: &rsvpID})
		require.NoError(t, err)
		assert.Equal(t, rsvpID, *song.RsvpID)

		_, err = svc.Request(ctx, model.SongRequestInput{SongTitle: "SEPTEMBER"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateSongRequest)

		_, err = svc.Request(ctx, model.SongRequestInput{SongTitle: "fuck this song"})
		assert.ErrorIs(t, err, apperrors.ErrInappropriateContent)

		missing := rsvpID + 1
		_, err = svc.Request(ctx, model.SongRequestInput{SongTitle: "Shout", RsvpID: &missing})
		assert.ErrorIs(t, err, apperrors.ErrRsvpNotFound)

		songs, err := svc.List(ctx, &rsvpID)
		require.NoError(t, err)
		require.Len(t, songs, 1)
		assert.Equal(t, "John Doe", *songs[0].RequestedBy)
	})
}

func TestSongRequestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		svc := service.NewSongRequestService(repo, profanitymocks.NewCheckerMock(), nil)
		songs := []*model.SongRequest{{ID: 2}, {ID: 1}}
		repo.On("List", mock.Anything, (*int64)(nil)).Return(songs, nil)

		got, err := svc.List(ctx, nil)

		require.NoError(t, err)
		assert.Equal(t, songs, got)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		repo := repositories.NewSongRequestRepositoryMock()
		svc := service.NewSongRequestService(repo, profanitymocks.NewCheckerMock(), nil)
		repo.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

		_, err := svc.List(ctx, nil)

		assert.ErrorIs(t, err, apperrors.ErrPersistence)
	})
}
