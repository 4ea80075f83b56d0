package worker

import (
	"context"

	"wedding-site-api/internal/queue"
	"wedding-site-api/internal/service"
	"wedding-site-api/pkg/logger"

	"go.uber.org/zap"
)

type StatsWorker interface {
	// 訂閱 RSVP 事件並更新統計快取；回傳的 channel 在 worker 結束時關閉
	Start(ctx context.Context) (<-chan struct{}, error)
}

type StatsWorkerImpl struct {
	service service.RsvpService
	queue   queue.RsvpEventQueue
}

func NewStatsWorker(service service.RsvpService, queue queue.RsvpEventQueue) StatsWorker {
	return &StatsWorkerImpl{
		service: service,
		queue:   queue,
	}
}

func (w *StatsWorkerImpl) Start(ctx context.Context) (<-chan struct{}, error) {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		log := logger.WithComponent("worker")
		for msg := range msgs {
			if err := w.service.RefreshStats(ctx); err != nil {
				// 資料庫或 Redis 暫時失敗，交給 queue 重試
				log.Warn("failed to refresh rsvp stats", zap.Int64("rsvp_id", msg.Data.RsvpID), zap.Error(err))
				msg.Nack(ctx.Err() == nil)
				continue
			}
			msg.Ack()
		}
		log.Info("stats worker stopped")
	}()
	return done, nil
}
