package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultBatchSize         = 50
	defaultVisibilityTimeout = 5 * time.Minute
	defaultRetryBackoff      = 30 * time.Second
	defaultMaxAttempts       = 5
)

// Options настройки очереди
type Options struct {
	Prefix            string
	BatchSize         int64
	VisibilityTimeout time.Duration
	RetryBackoff      time.Duration
	MaxAttempts       int
	Now               func() time.Time
}

// Queue отложенная очередь задач на Redis.
//
// Ключи:
//   - <prefix>:jobs        HASH id -> закодированная задача
//   - <prefix>:scheduled   ZSET id, score = время запуска (мс)
//   - <prefix>:processing  ZSET id, score = дедлайн обработки (мс)
//
// Задача захватывается тем воркером, чей ZREM из scheduled вернул 1.
// Если воркер упал во время обработки, reaper вернёт задачу в scheduled
// после дедлайна, поэтому доставка как минимум однократная.
type Queue struct {
	rdb    redis.Cmdable
	logger *zap.Logger
	opts   Options

	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewQueue создаёт очередь
func NewQueue(rdb redis.Cmdable, logger *zap.Logger, opts Options) *Queue {
	if opts.Prefix == "" {
		opts.Prefix = "shelf:scheduler"
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.VisibilityTimeout <= 0 {
		opts.VisibilityTimeout = defaultVisibilityTimeout
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = defaultRetryBackoff
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Queue{
		rdb:      rdb,
		logger:   logger,
		opts:     opts,
		handlers: make(map[string]Handler),
	}
}

func (q *Queue) jobsKey() string       { return q.opts.Prefix + ":jobs" }
func (q *Queue) scheduledKey() string  { return q.opts.Prefix + ":scheduled" }
func (q *Queue) processingKey() string { return q.opts.Prefix + ":processing" }

func score(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// Work регистрирует обработчик для имени задачи
func (q *Queue) Work(name string, handler Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[name] = handler
	q.logger.Info("Job handler registered", zap.String("job", name))
}

func (q *Queue) handler(name string) (Handler, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	h, ok := q.handlers[name]
	return h, ok
}

// Schedule планирует задачу name для ключа key на время runAt
func (q *Queue) Schedule(ctx context.Context, name, key string, data any, runAt time.Time) error {
	job, err := NewJob(name, key, data, runAt)
	if err != nil {
		return err
	}

	if err := q.put(ctx, job); err != nil {
		return fmt.Errorf("schedule job %s: %w", job.ID, err)
	}

	q.logger.Debug("Job scheduled",
		zap.String("job_id", job.ID),
		zap.Time("run_at", job.RunAt),
	)

	return nil
}

func (q *Queue) put(ctx context.Context, job Job) error {
	payload, err := job.Marshal()
	if err != nil {
		return err
	}

	_, err = q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, q.jobsKey(), job.ID, payload)
		pipe.ZAdd(ctx, q.scheduledKey(), redis.Z{Score: score(job.RunAt), Member: job.ID})
		return nil
	})
	return err
}

// Cancel отменяет запланированную задачу
func (q *Queue) Cancel(ctx context.Context, name, key string) error {
	id := JobID(name, key)

	_, err := q.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, q.scheduledKey(), id)
		pipe.HDel(ctx, q.jobsKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cancel job %s: %w", id, err)
	}

	return nil
}

// CancelAll отменяет задачи с указанными именами для одного ключа
func (q *Queue) CancelAll(ctx context.Context, key string, names ...string) error {
	for _, name := range names {
		if err := q.Cancel(ctx, name, key); err != nil {
			return err
		}
	}
	return nil
}

// Tick выполняет один проход: возвращает зависшие задачи и обрабатывает созревшие.
// Возвращает количество обработанных задач.
func (q *Queue) Tick(ctx context.Context) (int, error) {
	if err := q.reap(ctx); err != nil {
		return 0, err
	}

	now := q.opts.Now()
	ids, err := q.rdb.ZRangeByScore(ctx, q.scheduledKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: q.opts.BatchSize,
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("fetch due jobs: %w", err)
	}

	processed := 0
	for _, id := range ids {
		job, ok, err := q.claim(ctx, id)
		if err != nil {
			return processed, err
		}
		if !ok {
			continue
		}

		q.process(ctx, job)
		processed++
	}

	return processed, nil
}

// claim забирает задачу из scheduled в processing
func (q *Queue) claim(ctx context.Context, id string) (Job, bool, error) {
	removed, err := q.rdb.ZRem(ctx, q.scheduledKey(), id).Result()
	if err != nil {
		return Job{}, false, fmt.Errorf("claim job %s: %w", id, err)
	}
	if removed == 0 {
		// Задачу забрал другой воркер
		return Job{}, false, nil
	}

	deadline := q.opts.Now().Add(q.opts.VisibilityTimeout)
	if err := q.rdb.ZAdd(ctx, q.processingKey(), redis.Z{Score: score(deadline), Member: id}).Err(); err != nil {
		return Job{}, false, fmt.Errorf("mark job %s processing: %w", id, err)
	}

	raw, err := q.rdb.HGet(ctx, q.jobsKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		// Отменена между выборкой и захватом
		q.rdb.ZRem(ctx, q.processingKey(), id)
		return Job{}, false, nil
	}
	if err != nil {
		return Job{}, false, fmt.Errorf("load job %s: %w", id, err)
	}

	job, err := unmarshalJob(raw)
	if err != nil {
		q.logger.Error("Dropping undecodable job", zap.String("job_id", id), zap.Error(err))
		q.ack(ctx, id)
		return Job{}, false, nil
	}

	return job, true, nil
}

func (q *Queue) process(ctx context.Context, job Job) {
	handler, ok := q.handler(job.Name)
	if !ok {
		q.retry(ctx, job, fmt.Errorf("no handler registered for %q", job.Name))
		return
	}

	if err := runSafely(ctx, handler, job); err != nil {
		q.retry(ctx, job, err)
		return
	}

	q.ack(ctx, job.ID)
}

func runSafely(ctx context.Context, handler Handler, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.ID, r)
		}
	}()
	return handler(ctx, job)
}

// ack завершает задачу. Если за время обработки задачу перепланировали
// с тем же ID, данные не удаляются.
func (q *Queue) ack(ctx context.Context, id string) {
	if err := q.rdb.ZRem(ctx, q.processingKey(), id).Err(); err != nil {
		q.logger.Error("Failed to ack job", zap.String("job_id", id), zap.Error(err))
		return
	}

	_, err := q.rdb.ZScore(ctx, q.scheduledKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		if err := q.rdb.HDel(ctx, q.jobsKey(), id).Err(); err != nil {
			q.logger.Error("Failed to delete job data", zap.String("job_id", id), zap.Error(err))
		}
		return
	}
	if err != nil {
		q.logger.Error("Failed to check job reschedule", zap.String("job_id", id), zap.Error(err))
	}
}

func (q *Queue) retry(ctx context.Context, job Job, cause error) {
	job.Attempt++

	if job.Attempt >= q.opts.MaxAttempts {
		q.logger.Error("Job failed permanently",
			zap.String("job_id", job.ID),
			zap.Int("attempts", job.Attempt),
			zap.Error(cause),
		)
		q.ack(ctx, job.ID)
		return
	}

	// Задачу отменили пока она выполнялась, возвращать её нельзя
	exists, err := q.rdb.HExists(ctx, q.jobsKey(), job.ID).Result()
	if err != nil {
		q.logger.Error("Failed to check job before retry", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if !exists {
		q.logger.Info("Job cancelled while running, not retrying", zap.String("job_id", job.ID))
		if err := q.rdb.ZRem(ctx, q.processingKey(), job.ID).Err(); err != nil {
			q.logger.Error("Failed to release job", zap.String("job_id", job.ID), zap.Error(err))
		}
		return
	}

	job.RunAt = q.opts.Now().Add(time.Duration(job.Attempt) * q.opts.RetryBackoff).UTC()

	q.logger.Warn("Job failed, retrying",
		zap.String("job_id", job.ID),
		zap.Int("attempt", job.Attempt),
		zap.Time("run_at", job.RunAt),
		zap.Error(cause),
	)

	if err := q.put(ctx, job); err != nil {
		q.logger.Error("Failed to reschedule job", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if err := q.rdb.ZRem(ctx, q.processingKey(), job.ID).Err(); err != nil {
		q.logger.Error("Failed to release job", zap.String("job_id", job.ID), zap.Error(err))
	}
}

// reap возвращает в scheduled задачи, чей дедлайн обработки истёк
func (q *Queue) reap(ctx context.Context) error {
	now := q.opts.Now()
	ids, err := q.rdb.ZRangeByScore(ctx, q.processingKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: q.opts.BatchSize,
	}).Result()
	if err != nil {
		return fmt.Errorf("fetch stalled jobs: %w", err)
	}

	for _, id := range ids {
		removed, err := q.rdb.ZRem(ctx, q.processingKey(), id).Result()
		if err != nil {
			return fmt.Errorf("release stalled job %s: %w", id, err)
		}
		if removed == 0 {
			continue
		}
		if err := q.rdb.ZAdd(ctx, q.scheduledKey(), redis.Z{Score: score(now), Member: id}).Err(); err != nil {
			return fmt.Errorf("requeue stalled job %s: %w", id, err)
		}
		q.logger.Warn("Stalled job requeued", zap.String("job_id", id))
	}

	return nil
}
