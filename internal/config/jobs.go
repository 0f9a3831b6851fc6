package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/training-service/internal/jobs"
	"github.com/redis/go-redis/v9"
)

// JobsConfig holds configuration for the job-execution runtime.
type JobsConfig struct {
	Enabled       bool
	Queue         string // kafka or mock
	KafkaBrokers  string
	JobsTopic     string
	PoisonTopic   string
	ConsumerGroup string
	MaxRetries    int
	PollInterval  time.Duration
}

func loadJobsConfig() JobsConfig {
	return JobsConfig{
		Enabled:       getEnv("JOBS_ENABLED", "true") == "true",
		Queue:         getEnv("JOBS_QUEUE", "kafka"),
		KafkaBrokers:  getEnv("KAFKA_BROKERS", "localhost:9092"),
		JobsTopic:     getEnv("JOBS_TOPIC", "jobs"),
		PoisonTopic:   getEnv("JOBS_POISON_TOPIC", "jobs_poison"),
		ConsumerGroup: getEnv("JOBS_CONSUMER_GROUP", "training-service-workers"),
		MaxRetries:    getEnvInt("JOBS_MAX_RETRIES", 5),
		PollInterval:  getEnvDuration("JOBS_POLL_INTERVAL", 5*time.Second),
	}
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *JobsConfig) GetKafkaBrokers() []string {
	return strings.Split(c.KafkaBrokers, ",")
}

// CreateQueue creates a job queue based on configuration
func (c *JobsConfig) CreateQueue(rdb *redis.Client, logger *slog.Logger) (jobs.Queue, error) {
	if !c.Enabled {
		logger.Info("Job publishing disabled, using mock queue")
		return jobs.NewMockQueue(logger), nil
	}

	switch c.Queue {
	case "kafka":
		logger.Info("Creating Kafka job queue",
			"brokers", c.KafkaBrokers,
			"topic", c.JobsTopic)

		return jobs.NewKafkaQueue(jobs.QueueConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			Topic:        c.JobsTopic,
			Redis:        rdb,
			Logger:       logger,
		})
	case "mock":
		logger.Info("Using mock job queue")
		return jobs.NewMockQueue(logger), nil
	default:
		logger.Warn("Unknown job queue type, falling back to mock", "queue", c.Queue)
		return jobs.NewMockQueue(logger), nil
	}
}
