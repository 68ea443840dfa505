package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"climbtracker/internal/logging"
	"climbtracker/internal/queue"
)

const (
	DefaultWorkerCount  = 2
	DefaultBatchSize    = 10
	DefaultBlockTimeout = 5 * time.Second

	readRetryDelay = time.Second
)

// EventHandler handles one decoded activity event.
type EventHandler interface {
	HandleEvent(ctx context.Context, event queue.ActivityEvent) error
}

// ManagerConfig tunes the consumer group readers. Zero values take the defaults.
type ManagerConfig struct {
	Stream       string
	Group        string
	WorkerCount  int
	BatchSize    int64
	BlockTimeout time.Duration // XREADGROUP BLOCK
}

func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Stream:       queue.StreamActivity,
		Group:        queue.ConsumerGroupFeed,
		WorkerCount:  DefaultWorkerCount,
		BatchSize:    DefaultBatchSize,
		BlockTimeout: DefaultBlockTimeout,
	}
}

func (c ManagerConfig) withDefaults() ManagerConfig {
	d := DefaultManagerConfig()
	if c.Stream == "" {
		c.Stream = d.Stream
	}
	if c.Group == "" {
		c.Group = d.Group
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = d.WorkerCount
	}
	if c.BatchSize <= 0 {
		c.BatchSize = d.BatchSize
	}
	if c.BlockTimeout <= 0 {
		c.BlockTimeout = d.BlockTimeout
	}
	return c
}

// Manager runs a fixed pool of goroutines reading the activity stream through
// one consumer group. Each goroutine is its own named consumer.
type Manager struct {
	consumer queue.Consumer
	handler  EventHandler
	cfg      ManagerConfig
	logger   zerolog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewManager(consumer queue.Consumer, handler EventHandler, cfg ManagerConfig) *Manager {
	return &Manager{
		consumer: consumer,
		handler:  handler,
		cfg:      cfg.withDefaults(),
		logger:   logging.Component("manager"),
	}
}

// Start creates the consumer group if needed and launches the pool.
// Workers run until ctx is cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(ctx, m.cfg.Stream, m.cfg.Group); err != nil {
		cancel()
		return fmt.Errorf("ensure consumer group: %w", err)
	}
	m.cancel = cancel

	for id := 1; id <= m.cfg.WorkerCount; id++ {
		m.wg.Add(1)
		go m.run(ctx, fmt.Sprintf("worker-%d", id))
	}

	m.logger.Info().
		Int("workers", m.cfg.WorkerCount).
		Str("stream", m.cfg.Stream).
		Str("group", m.cfg.Group).
		Msg("Workers started")
	return nil
}

// Stop cancels the pool and waits for every worker to return.
func (m *Manager) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()
	m.wg.Wait()
	m.logger.Info().Msg("All workers stopped")
}

func (m *Manager) run(ctx context.Context, consumer string) {
	defer m.wg.Done()
	log := m.logger.With().Str("consumer", consumer).Logger()

	// Entries delivered to this consumer before a crash are still pending.
	m.drainPending(ctx, log, consumer)

	for ctx.Err() == nil {
		batch, err := m.consumer.Read(ctx, m.cfg.Stream, m.cfg.Group, consumer, m.cfg.BatchSize, m.cfg.BlockTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Error().Err(err).Msg("Stream read failed")
			select {
			case <-ctx.Done():
			case <-time.After(readRetryDelay):
			}
			continue
		}
		m.dispatch(ctx, log, batch)
	}
	log.Debug().Msg("Worker stopped")
}

func (m *Manager) drainPending(ctx context.Context, log zerolog.Logger, consumer string) {
	for ctx.Err() == nil {
		batch, err := m.consumer.ReadPending(ctx, m.cfg.Stream, m.cfg.Group, consumer, m.cfg.BatchSize)
		if err != nil {
			log.Error().Err(err).Msg("Pending read failed")
			return
		}
		if len(batch) == 0 {
			return
		}
		log.Info().Int("messages", len(batch)).Msg("Replaying pending messages")
		m.dispatch(ctx, log, batch)
	}
}

// dispatch acks every message, failed ones included, so a poison event is
// never redelivered forever.
func (m *Manager) dispatch(ctx context.Context, log zerolog.Logger, batch []queue.Message) {
	for _, msg := range batch {
		if err := m.handler.HandleEvent(ctx, msg.Event); err != nil {
			log.Warn().Err(err).Str("msg_id", msg.ID).Str("type", msg.Event.Type).Msg("Event failed, acknowledging")
		}
		if err := m.consumer.Ack(ctx, m.cfg.Stream, m.cfg.Group, msg.ID); err != nil {
			log.Error().Err(err).Str("msg_id", msg.ID).Msg("Ack failed")
		}
	}
}
