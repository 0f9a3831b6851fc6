package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// scheduleStore is the sorted-set surface the poller drives. The redis
// implementation below is the production one; the seam exists so the
// claim/publish/re-park sequencing has unit coverage.
type scheduleStore interface {
	// Due returns the raw members scheduled at or before now.
	Due(ctx context.Context, now time.Time) ([]string, error)
	// Claim removes the member; false means another poller won it.
	Claim(ctx context.Context, member string) (bool, error)
	// Park re-adds the member scored at the given time.
	Park(ctx context.Context, member string, at time.Time) error
}

type redisScheduleStore struct {
	rdb *redis.Client
}

func (s *redisScheduleStore) Due(ctx context.Context, now time.Time) ([]string, error) {
	return s.rdb.ZRangeByScore(ctx, scheduleSetKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: formatScore(now),
	}).Result()
}

func (s *redisScheduleStore) Claim(ctx context.Context, member string) (bool, error) {
	removed, err := s.rdb.ZRem(ctx, scheduleSetKey, member).Result()
	if err != nil {
		return false, err
	}
	return removed > 0, nil
}

func (s *redisScheduleStore) Park(ctx context.Context, member string, at time.Time) error {
	return s.rdb.ZAdd(ctx, scheduleSetKey, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: member,
	}).Err()
}

type jobPublisher interface {
	publishJob(ctx context.Context, job *Job) error
}

// SchedulePoller moves due jobs from the redis schedule set onto the job
// topic. Claiming is remove-first: whichever poller instance removes the
// member owns the publish, so running several workers only risks the
// duplicate delivery the at-least-once contract already allows.
type SchedulePoller struct {
	store    scheduleStore
	queue    jobPublisher
	interval time.Duration
	logger   *slog.Logger
}

func NewSchedulePoller(rdb *redis.Client, queue *KafkaQueue, interval time.Duration, logger *slog.Logger) *SchedulePoller {
	return &SchedulePoller{
		store:    &redisScheduleStore{rdb: rdb},
		queue:    queue,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled.
func (p *SchedulePoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("Schedule poller started", "interval", p.interval.String())

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Schedule poller stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := p.PollOnce(ctx, time.Now()); err != nil {
				p.logger.Error("Schedule poll failed", "error", err)
			}
		}
	}
}

// PollOnce publishes every scheduled job due at or before now.
func (p *SchedulePoller) PollOnce(ctx context.Context, now time.Time) error {
	members, err := p.store.Due(ctx, now)
	if err != nil {
		return err
	}

	for _, member := range members {
		claimed, err := p.store.Claim(ctx, member)
		if err != nil {
			return err
		}
		if !claimed {
			// Another worker claimed it.
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			// A member that never parses would otherwise be claimed and
			// lost silently; log loudly and move on.
			p.logger.Error("Dropping malformed scheduled job", "error", err)
			continue
		}

		if err := p.queue.publishJob(ctx, &job); err != nil {
			// Publish failed after the claim; put the job back so the next
			// poll retries it.
			p.logger.Error("Failed to publish due job, rescheduling",
				"job_id", job.ID,
				"job_kind", job.Kind,
				"error", err)
			if parkErr := p.store.Park(ctx, member, now); parkErr != nil {
				// The claim already removed the member, so a failed re-add
				// drops the job. Make the loss diagnosable instead of silent.
				p.logger.Error("Failed to reschedule claimed job, job lost",
					"job_id", job.ID,
					"job_kind", job.Kind,
					"error", parkErr)
			}
			continue
		}

		p.logger.Info("Scheduled job released",
			"job_id", job.ID,
			"job_kind", job.Kind)
	}

	return nil
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
