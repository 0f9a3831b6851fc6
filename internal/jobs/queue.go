package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"
)

// Queue is the producer half of the job-execution runtime: immediate
// enqueue onto the job topic, or time-deferred scheduling. Consumers get
// at-least-once delivery with retry and dead-lettering (see Worker).
type Queue interface {
	EnqueueNow(ctx context.Context, kind Kind, payload interface{}) error
	ScheduleAt(ctx context.Context, kind Kind, payload interface{}, at time.Time) error
	Close() error
}

// scheduleSetKey is the redis sorted set holding deferred jobs, scored by
// their not-before time. The schedule poller moves due members onto the
// job topic.
const scheduleSetKey = "jobs:scheduled"

// KafkaQueue publishes jobs to Kafka via Watermill and parks deferred jobs
// in redis until they come due.
type KafkaQueue struct {
	publisher message.Publisher
	rdb       *redis.Client
	topic     string
	logger    *slog.Logger
}

// QueueConfig holds configuration for the Kafka-backed queue.
type QueueConfig struct {
	KafkaBrokers []string
	Topic        string
	Redis        *redis.Client
	Logger       *slog.Logger
}

func NewKafkaQueue(config QueueConfig) (*KafkaQueue, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
	}

	return &KafkaQueue{
		publisher: publisher,
		rdb:       config.Redis,
		topic:     config.Topic,
		logger:    config.Logger,
	}, nil
}

func (q *KafkaQueue) EnqueueNow(ctx context.Context, kind Kind, payload interface{}) error {
	job, err := NewJob(kind, payload)
	if err != nil {
		return err
	}
	return q.publishJob(ctx, job)
}

// ScheduleAt parks the job in the schedule set until its not-before time.
// Jobs already due go straight to the topic.
func (q *KafkaQueue) ScheduleAt(ctx context.Context, kind Kind, payload interface{}, at time.Time) error {
	if !at.After(time.Now()) {
		return q.EnqueueNow(ctx, kind, payload)
	}

	job, err := NewJob(kind, payload)
	if err != nil {
		return err
	}
	job.NotBefore = &at

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal scheduled job %s: %w", job.ID, err)
	}

	if err := q.rdb.ZAdd(ctx, scheduleSetKey, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: data,
	}).Err(); err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.ID, err)
	}

	q.logger.Info("Job scheduled",
		"job_id", job.ID,
		"job_kind", job.Kind,
		"not_before", at)

	return nil
}

func (q *KafkaQueue) publishJob(_ context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job %s: %w", job.ID, err)
	}

	msg := message.NewMessage(job.ID, data)
	msg.Metadata.Set("job_kind", string(job.Kind))
	msg.Metadata.Set("enqueued_at", job.EnqueuedAt.Format(time.RFC3339))

	if err := q.publisher.Publish(q.topic, msg); err != nil {
		q.logger.Error("Failed to publish job",
			"job_id", job.ID,
			"job_kind", job.Kind,
			"error", err)
		return fmt.Errorf("failed to publish job %s: %w", job.ID, err)
	}

	q.logger.Info("Job enqueued",
		"job_id", job.ID,
		"job_kind", job.Kind,
		"topic", q.topic)

	return nil
}

func (q *KafkaQueue) Close() error {
	return q.publisher.Close()
}

// MockQueue records jobs in memory for tests and for running without a
// broker.
type MockQueue struct {
	mu        sync.Mutex
	Enqueued  []Job
	Scheduled []Job
	Logger    *slog.Logger
}

func NewMockQueue(logger *slog.Logger) *MockQueue {
	return &MockQueue{Logger: logger}
}

func (m *MockQueue) EnqueueNow(_ context.Context, kind Kind, payload interface{}) error {
	job, err := NewJob(kind, payload)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.Enqueued = append(m.Enqueued, *job)
	m.mu.Unlock()

	m.Logger.Info("Mock: job enqueued", "job_kind", kind)
	return nil
}

func (m *MockQueue) ScheduleAt(_ context.Context, kind Kind, payload interface{}, at time.Time) error {
	job, err := NewJob(kind, payload)
	if err != nil {
		return err
	}
	job.NotBefore = &at

	m.mu.Lock()
	m.Scheduled = append(m.Scheduled, *job)
	m.mu.Unlock()

	m.Logger.Info("Mock: job scheduled", "job_kind", kind, "not_before", at)
	return nil
}

func (m *MockQueue) Close() error {
	return nil
}

// EnqueuedKinds returns the kinds of all immediately enqueued jobs, in
// order. Test helper.
func (m *MockQueue) EnqueuedKinds() []Kind {
	m.mu.Lock()
	defer m.mu.Unlock()

	kinds := make([]Kind, len(m.Enqueued))
	for i, job := range m.Enqueued {
		kinds[i] = job.Kind
	}
	return kinds
}
