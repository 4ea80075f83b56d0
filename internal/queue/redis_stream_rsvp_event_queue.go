package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"wedding-site-api/internal/model"
	"wedding-site-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey         = "rsvp:events"
	ConsumerGroupName = "stats-workers"

	eventField = "event"
	batchSize  = 10
)

// RedisStreamConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamConfig struct {
	ClaimMinIdleTime   time.Duration // nack 後的訊息閒置超過此時間才會被 XAUTOCLAIM 領回
	MaxRetryCount      int           // 投遞超過此次數視為毒藥消息並丟棄
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
	MaxLen             int64         // stream 保留的大約長度
}

func defaultRedisStreamConfig() RedisStreamConfig {
	return RedisStreamConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
		MaxLen:             10000,
	}
}

type RedisStreamRsvpEventQueue struct {
	client   *redis.Client
	consumer string
	cfg      RedisStreamConfig
}

// NewRedisStreamRsvpEventQueue 建立 Redis Stream 版 RsvpEventQueue。config 可為 nil。
func NewRedisStreamRsvpEventQueue(ctx context.Context, client *redis.Client, consumerID string, config *RedisStreamConfig) (RsvpEventQueue, error) {
	if consumerID == "" {
		consumerID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
		if config.MaxLen > 0 {
			cfg.MaxLen = config.MaxLen
		}
	}

	err := client.XGroupCreateMkStream(ctx, StreamKey, ConsumerGroupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return &RedisStreamRsvpEventQueue{
		client:   client,
		consumer: "worker:" + consumerID,
		cfg:      cfg,
	}, nil
}

func (q *RedisStreamRsvpEventQueue) Publish(ctx context.Context, event *model.RsvpEvent) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: q.cfg.MaxLen,
		Approx: true,
		Values: map[string]interface{}{eventField: string(eventJSON)},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

// Subscribe 新訊息由 XREADGROUP 讀取；nack 的訊息留在 PEL，由 XAUTOCLAIM 逾時後領回
func (q *RedisStreamRsvpEventQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		claimDone := make(chan struct{})
		go func() {
			defer close(claimDone)
			q.runAutoClaim(ctx, out)
		}()
		for ctx.Err() == nil {
			q.readNew(ctx, out)
		}
		<-claimDone
	}()
	return out, nil
}

func (q *RedisStreamRsvpEventQueue) readNew(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    ConsumerGroupName,
		Consumer: q.consumer,
		Streams:  []string{StreamKey, ">"},
		Count:    batchSize,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.WithComponent("mq").Error("XReadGroup failed", zap.Error(err))
		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
		}
		return
	}
	for _, stream := range streams {
		q.deliver(ctx, out, stream.Messages, false)
	}
}

func (q *RedisStreamRsvpEventQueue) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	start := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		claimed, next, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   StreamKey,
			Group:    ConsumerGroupName,
			Consumer: q.consumer,
			MinIdle:  q.cfg.ClaimMinIdleTime,
			Start:    start,
			Count:    batchSize,
		}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			if ctx.Err() == nil {
				logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
			}
			continue
		}
		// XAUTOCLAIM 掃描完 PEL 時回傳 0-0
		if next != "" {
			start = next
		}
		q.deliver(ctx, out, claimed, true)
	}
}

func (q *RedisStreamRsvpEventQueue) deliver(ctx context.Context, out chan<- Delivery, msgs []redis.XMessage, claimed bool) {
	for _, msg := range msgs {
		if claimed && q.exceededRetries(ctx, msg.ID) {
			continue
		}
		d, ok := q.newDelivery(ctx, msg)
		if !ok {
			continue
		}
		select {
		case out <- d:
		case <-ctx.Done():
			return
		}
	}
}

// exceededRetries 投遞次數超過上限的毒藥消息直接 ack 丟棄
func (q *RedisStreamRsvpEventQueue) exceededRetries(ctx context.Context, msgID string) bool {
	log := logger.WithComponent("mq")
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: StreamKey,
		Group:  ConsumerGroupName,
		Start:  msgID,
		End:    msgID,
		Count:  1,
	}).Result()
	if err != nil {
		log.Warn("XPendingExt failed", zap.String("message_id", msgID), zap.Error(err))
		return false
	}
	if len(pending) == 0 || int(pending[0].RetryCount) <= q.cfg.MaxRetryCount {
		return false
	}
	log.Warn("discard poison message",
		zap.String("message_id", msgID),
		zap.Int64("deliveries", pending[0].RetryCount),
		zap.Int("max_retries", q.cfg.MaxRetryCount))
	q.ack(ctx, msgID)
	return true
}

// newDelivery 格式錯誤的消息直接 ack 丟棄
func (q *RedisStreamRsvpEventQueue) newDelivery(ctx context.Context, msg redis.XMessage) (Delivery, bool) {
	log := logger.WithComponent("mq")
	raw, ok := msg.Values[eventField].(string)
	if !ok {
		log.Warn("invalid message: missing event field", zap.String("message_id", msg.ID))
		q.ack(ctx, msg.ID)
		return Delivery{}, false
	}
	var event model.RsvpEvent
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		log.Warn("unmarshal event failed", zap.String("message_id", msg.ID), zap.Error(err))
		q.ack(ctx, msg.ID)
		return Delivery{}, false
	}

	return Delivery{
		Data: &event,
		Ack:  func() { q.ack(ctx, msg.ID) },
		Nack: func(requeue bool) {
			if requeue {
				log.Debug("message nack, left pending for reclaim", zap.String("message_id", msg.ID))
				return
			}
			q.ack(ctx, msg.ID)
		},
	}, true
}

func (q *RedisStreamRsvpEventQueue) ack(ctx context.Context, msgID string) {
	if err := q.client.XAck(ctx, StreamKey, ConsumerGroupName, msgID).Err(); err != nil {
		logger.WithComponent("mq").Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
	}
}
