package queue

import (
	"context"
	"errors"
	"time"

	"wedding-site-api/internal/model"
	"wedding-site-api/pkg/logger"

	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("rsvp event queue is full")

type Delivery struct {
	Data *model.RsvpEvent
	Ack  func()
	Nack func(requeue bool)
}

type RsvpEventQueue interface {
	// 發送 RSVP 事件到隊列
	Publish(ctx context.Context, event *model.RsvpEvent) error
	// 訂閱 RSVP 事件；ctx 結束時關閉 channel
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// MemoryQueueConfig 重試設定；nil 或零值時使用預設。
type MemoryQueueConfig struct {
	MaxRetryCount int           // 處理失敗達此次數即丟棄
	RetryBackoff  time.Duration // 第 n 次失敗後等待 n * RetryBackoff 再重新投遞
}

func defaultMemoryQueueConfig() MemoryQueueConfig {
	return MemoryQueueConfig{
		MaxRetryCount: 5,
		RetryBackoff:  time.Second,
	}
}

type memoryMessage struct {
	event    *model.RsvpEvent
	attempts int
}

type MemoryRsvpEventQueue struct {
	// 使用 Go channel 來模擬 MQ 隊列
	ch  chan *memoryMessage
	cfg MemoryQueueConfig
}

func NewMemoryRsvpEventQueue(bufferSize int, config *MemoryQueueConfig) RsvpEventQueue {
	cfg := defaultMemoryQueueConfig()
	if config != nil {
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.RetryBackoff > 0 {
			cfg.RetryBackoff = config.RetryBackoff
		}
	}
	return &MemoryRsvpEventQueue{
		ch:  make(chan *memoryMessage, bufferSize),
		cfg: cfg,
	}
}

// Publish 不會阻塞請求；buffer 滿時回傳 ErrQueueFull
func (q *MemoryRsvpEventQueue) Publish(ctx context.Context, event *model.RsvpEvent) error {
	select {
	case q.ch <- &memoryMessage{event: event}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *MemoryRsvpEventQueue) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-q.ch:
				d := Delivery{
					Data: msg.event,
					Ack:  func() {},
					Nack: func(requeue bool) {
						if requeue {
							q.retry(ctx, msg)
						}
					},
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// retry 延遲後重新放回隊列，超過重試上限則丟棄
func (q *MemoryRsvpEventQueue) retry(ctx context.Context, msg *memoryMessage) {
	log := logger.WithComponent("mq")
	msg.attempts++
	if msg.attempts >= q.cfg.MaxRetryCount {
		log.Warn("discard rsvp event after max retries",
			zap.Int64("rsvp_id", msg.event.RsvpID), zap.Int("max_retries", q.cfg.MaxRetryCount))
		return
	}

	delay := q.cfg.RetryBackoff * time.Duration(msg.attempts)
	go func() {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
		select {
		case q.ch <- msg:
		default:
			log.Warn("drop rsvp event retry, queue is full", zap.Int64("rsvp_id", msg.event.RsvpID))
		}
	}()
}

// NopRsvpEventQueue 沒有統計快取時使用，事件不需要被處理
type NopRsvpEventQueue struct{}

func NewNopRsvpEventQueue() RsvpEventQueue {
	return NopRsvpEventQueue{}
}

func (NopRsvpEventQueue) Publish(context.Context, *model.RsvpEvent) error { return nil }

func (NopRsvpEventQueue) Subscribe(context.Context) (<-chan Delivery, error) {
	ch := make(chan Delivery)
	close(ch)
	return ch, nil
}
