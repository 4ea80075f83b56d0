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
	MsgRsvpCreated     = "RSVP submitted successfully"
	MsgRsvpUpdated     = "RSVP updated successfully"
	MsgRsvpFailed      = "An error occurred while processing your RSVP"
	MsgRsvpStatsFailed = "An error occurred while fetching RSVP statistics"
)

type RsvpHandler struct {
	service service.RsvpService
}

func NewRsvpHandler(service service.RsvpService) *RsvpHandler {
	return &RsvpHandler{service: service}
}

func (h *RsvpHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/rsvp")
	{
		router.POST("", h.SubmitRsvp)
		router.POST("submit", h.SubmitRsvp)
		router.GET("stats", h.GetStats)
	}
}

func (h *RsvpHandler) SubmitRsvp(c *gin.Context) {
	var submission model.RsvpSubmission
	if err := BindJson(c, &submission); err != nil {
		return
	}

	input, err := validation.ValidateRsvp(submission)
	if err != nil {
		h.handleRsvpError(c, err, "SubmitRsvp")
		return
	}

	result, err := h.service.Submit(c, input)
	if err != nil {
		h.handleRsvpError(c, err, "SubmitRsvp")
		return
	}

	if result.Created {
		c.JSON(http.StatusCreated, gin.H{
			"message": MsgRsvpCreated,
			"id":      result.Record.ID,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": MsgRsvpUpdated,
		"id":      result.Record.ID,
	})
}

func (h *RsvpHandler) GetStats(c *gin.Context) {
	stats, err := h.service.Stats(c)
	if err != nil {
		h.handleRsvpError(c, err, "GetStats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *RsvpHandler) handleRsvpError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(
		zap.String("operation", operation),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Error(err),
	)

	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Info("Invalid rsvp submission")
		validationFailed(c, verr)
	case operation == "GetStats":
		log.Error("Failed to fetch rsvp stats")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": MsgRsvpStatsFailed,
		})
	default:
		log.Error("Failed to process rsvp")
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": MsgRsvpFailed,
		})
	}
}
