package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wedding-site-api/internal/cache"
	"wedding-site-api/internal/model"
	"wedding-site-api/internal/queue"
	"wedding-site-api/internal/repository"
	apperrors "wedding-site-api/pkg/app_errors"
	"wedding-site-api/pkg/logger"

	"go.uber.org/zap"
)

// Clock 回傳目前時間；測試時注入固定時間
type Clock func() time.Time

type RsvpService interface {
	// 依 email upsert：不存在則新增，存在則覆寫內容並保留 id、created_at
	Submit(ctx context.Context, input model.RsvpInput) (*model.SubmitResult, error)
	// 優先讀快取，miss 時由資料庫計算並回填
	Stats(ctx context.Context) (*model.RsvpStats, error)
	// 重新計算統計並寫入快取 (worker 使用)
	RefreshStats(ctx context.Context) error
}

type RsvpServiceImpl struct {
	repository repository.RsvpRepository
	statsCache cache.RsvpStatsCache
	eventQueue queue.RsvpEventQueue
	now        Clock
}

func NewRsvpService(
	rsvpRepository repository.RsvpRepository,
	statsCache cache.RsvpStatsCache,
	eventQueue queue.RsvpEventQueue,
	clock Clock,
) RsvpService {
	if clock == nil {
		clock = time.Now
	}
	return &RsvpServiceImpl{
		repository: rsvpRepository,
		statsCache: statsCache,
		eventQueue: eventQueue,
		now:        clock,
	}
}

func (s *RsvpServiceImpl) Submit(ctx context.Context, input model.RsvpInput) (*model.SubmitResult, error) {
	now := s.now().UTC()
	if !input.Attending {
		input.GuestCount = 0
	}

	// 1. 先查是否已有同 email 的紀錄
	existing, err := s.repository.FindByEmail(ctx, input.Email)
	if err == nil {
		return s.update(ctx, existing, input, now)
	}
	if !errors.Is(err, apperrors.ErrRsvpNotFound) {
		return nil, persistenceError(err)
	}

	// 2. 新增；同時間另一個請求搶先寫入時，改走更新
	id, err := s.repository.Insert(ctx, input, now)
	if errors.Is(err, apperrors.ErrDuplicateEmail) {
		logger.WithComponent("service").Info("concurrent rsvp insert, retrying as update", zap.String("email", input.Email))
		existing, err = s.repository.FindByEmail(ctx, input.Email)
		if err != nil {
			return nil, persistenceError(err)
		}
		return s.update(ctx, existing, input, now)
	}
	if err != nil {
		return nil, persistenceError(err)
	}

	record := &model.Rsvp{
		ID:                  id,
		Name:                input.Name,
		Email:               input.Email,
		Attending:           input.Attending,
		GuestCount:          input.GuestCount,
		DietaryRestrictions: input.DietaryRestrictions,
		Message:             input.Message,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	s.afterWrite(ctx, record, true)

	return &model.SubmitResult{Created: true, Record: record}, nil
}

func (s *RsvpServiceImpl) update(ctx context.Context, existing *model.Rsvp, input model.RsvpInput, now time.Time) (*model.SubmitResult, error) {
	affected, err := s.repository.Update(ctx, existing.Email, input, now)
	if err != nil {
		return nil, persistenceError(err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: email %q", apperrors.ErrRsvpInvariant, existing.Email)
	}

	record := *existing
	record.Name = input.Name
	record.Attending = input.Attending
	record.GuestCount = input.GuestCount
	record.DietaryRestrictions = input.DietaryRestrictions
	record.Message = input.Message
	record.UpdatedAt = now
	s.afterWrite(ctx, &record, false)

	return &model.SubmitResult{Created: false, Record: &record}, nil
}

// afterWrite 清除統計快取並發佈事件；失敗只記 log，不影響回應
func (s *RsvpServiceImpl) afterWrite(ctx context.Context, record *model.Rsvp, created bool) {
	log := logger.WithComponent("service")

	if err := s.statsCache.Invalidate(ctx); err != nil {
		log.Warn("failed to invalidate rsvp stats cache", zap.Error(err))
	}

	event := &model.RsvpEvent{
		RsvpID:     record.ID,
		Email:      record.Email,
		Created:    created,
		OccurredAt: record.UpdatedAt,
	}
	if err := s.eventQueue.Publish(ctx, event); err != nil {
		log.Warn("failed to publish rsvp event", zap.Int64("rsvp_id", record.ID), zap.Error(err))
	}
}

func (s *RsvpServiceImpl) Stats(ctx context.Context) (*model.RsvpStats, error) {
	stats, err := s.statsCache.Get(ctx)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, apperrors.ErrStatsNotCached) {
		logger.WithComponent("service").Warn("failed to read rsvp stats cache", zap.Error(err))
	}

	stats, err = s.repository.Stats(ctx)
	if err != nil {
		return nil, persistenceError(err)
	}

	if err := s.statsCache.Set(ctx, stats); err != nil {
		logger.WithComponent("service").Warn("failed to cache rsvp stats", zap.Error(err))
	}
	return stats, nil
}

func (s *RsvpServiceImpl) RefreshStats(ctx context.Context) error {
	stats, err := s.repository.Stats(ctx)
	if err != nil {
		return persistenceError(err)
	}
	return s.statsCache.Set(ctx, stats)
}

func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
}
