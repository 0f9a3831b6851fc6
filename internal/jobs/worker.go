package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Worker consumes the job topic and runs each delivered job through the
// orchestrator. The middleware chain gives every job the same contract:
// panics become errors, errors retry with backoff, and jobs that exhaust
// their retries land on the poison topic instead of blocking the
// partition.
type Worker struct {
	router       *message.Router
	orchestrator *Orchestrator
	logger       *slog.Logger
}

// WorkerConfig holds configuration for the job consumer.
type WorkerConfig struct {
	KafkaBrokers  []string
	Topic         string
	PoisonTopic   string
	ConsumerGroup string
	MaxRetries    int
	Orchestrator  *Orchestrator
	Logger        *slog.Logger
}

func NewWorker(config WorkerConfig) (*Worker, error) {
	logger := watermill.NewSlogLogger(config.Logger)

	subscriber, err := kafka.NewSubscriber(kafka.SubscriberConfig{
		Brokers:       config.KafkaBrokers,
		Unmarshaler:   kafka.DefaultMarshaler{},
		ConsumerGroup: config.ConsumerGroup,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka subscriber: %w", err)
	}

	// Dead-lettered jobs keep their envelope, so they can be inspected and
	// re-published by hand once the underlying fault is fixed.
	poisonPublisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:   config.KafkaBrokers,
		Marshaler: kafka.DefaultMarshaler{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create poison publisher: %w", err)
	}

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create router: %w", err)
	}

	poisonQueue, err := middleware.PoisonQueue(poisonPublisher, config.PoisonTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create poison queue: %w", err)
	}

	router.AddMiddleware(
		middleware.Recoverer,
		poisonQueue,
		middleware.Retry{
			MaxRetries:      config.MaxRetries,
			InitialInterval: time.Second,
			MaxInterval:     time.Minute,
			Multiplier:      2,
			Logger:          logger,
		}.Middleware,
	)

	worker := &Worker{
		router:       router,
		orchestrator: config.Orchestrator,
		logger:       config.Logger,
	}

	router.AddNoPublisherHandler(
		"job_consumer",
		config.Topic,
		subscriber,
		worker.handleMessage,
	)

	return worker, nil
}

func (w *Worker) handleMessage(msg *message.Message) error {
	var job Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		// An envelope that never parses cannot succeed on retry; fail it
		// through to the poison queue with context attached.
		return fmt.Errorf("malformed job envelope %s: %w", msg.UUID, err)
	}

	return w.orchestrator.Handle(msg.Context(), &job)
}

// Run blocks consuming jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("Job worker started")
	return w.router.Run(ctx)
}

// Running closes once the router is up. Useful in tests and for readiness
// checks.
func (w *Worker) Running() chan struct{} {
	return w.router.Running()
}

func (w *Worker) Close() error {
	return w.router.Close()
}
