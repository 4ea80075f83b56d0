package handler

import (
	"errors"
	"net/http"

	"wedding-site-api/internal/middleware"
	"wedding-site-api/internal/model"
	"wedding-site-api/internal/service"
	"wedding-site-api/internal/validation"
	apperrors "wedding-site-api/pkg/app_errors"
	"wedding-site-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	MsgSongCreated       = "Song request submitted successfully"
	MsgSongInappropriate = "Song request contains inappropriate content"
	MsgSongDuplicate     = "This song has already been requested"
	MsgSongRsvpNotFound  = "RSVP not found"
	MsgSongFailed        = "An error occurred while processing your song request"
	MsgSongListFailed    = "An error occurred while fetching song requests"
)

type MusicHandler struct {
	service service.SongRequestService
}

func NewMusicHandler(service service.SongRequestService) *MusicHandler {
	return &MusicHandler{service: service}
}

func (h *MusicHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/music")
	{
		router.POST("request", h.RequestSong)
		router.GET("list", h.ListSongs)
	}
}

func (h *MusicHandler) RequestSong(c *gin.Context) {
	var submission model.SongRequestSubmission
	if err := BindJson(c, &submission); err != nil {
		return
	}

	input, err := validation.ValidateSongRequest(submission)
	if err != nil {
		h.handleMusicError(c, err, "RequestSong")
		return
	}

	song, err := h.service.Request(c, input)
	if err != nil {
		h.handleMusicError(c, err, "RequestSong")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": MsgSongCreated,
		"id":      song.ID,
	})
}

func (h *MusicHandler) ListSongs(c *gin.Context) {
	var query model.ListSongRequestsQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	songs, err := h.service.List(c, query.RsvpID)
	if err != nil {
		h.handleMusicError(c, err, "ListSongs")
		return
	}

	c.JSON(http.StatusOK, songs)
}

func (h *MusicHandler) handleMusicError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(
		zap.String("operation", operation),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err),
	)

	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("Invalid song request")
		validationFailed(c, verr)
	case errors.Is(err, apperrors.ErrInappropriateContent):
		log.Warn("Inappropriate song request")
		c.JSON(http.StatusBadRequest, gin.H{
			"message": MsgSongInappropriate,
		})
	case errors.Is(err, apperrors.ErrDuplicateSongRequest):
		log.Info("Duplicate song request")
		c.JSON(http.StatusBadRequest, gin.H{
			"message": MsgSongDuplicate,
		})
	case errors.Is(err, apperrors.ErrRsvpNotFound):
		log.Warn("Song request for unknown rsvp")
		c.JSON(http.StatusNotFound, gin.H{
			"message": MsgSongRsvpNotFound,
		})
	case operation == "ListSongs":
		log.Error("Failed to list song requests")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": MsgSongListFailed,
		})
	default:
		log.Error("Failed to process song request")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": MsgSongFailed,
		})
	}
}
