package jobs_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/Freeeeeet/shelf_server/internal/jobs"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	jobsKey       = "test:jobs"
	scheduledKey  = "test:scheduled"
	processingKey = "test:processing"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC)

type payload struct {
	ID string `json:"id"`
}

func newQueue(t *testing.T) (*jobs.Queue, redismock.ClientMock) {
	t.Helper()
	db, mock := redismock.NewClientMock()
	q := jobs.NewQueue(db, zap.NewNop(), jobs.Options{
		Prefix:            "test",
		BatchSize:         10,
		VisibilityTimeout: time.Minute,
		RetryBackoff:      30 * time.Second,
		MaxAttempts:       3,
		Now:               func() time.Time { return fixedNow },
	})
	return q, mock
}

func dueRange() *redis.ZRangeBy {
	return &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(fixedNow.UnixMilli(), 10),
		Count: 10,
	}
}

func encoded(t *testing.T, job jobs.Job) string {
	t.Helper()
	s, err := job.Marshal()
	require.NoError(t, err)
	return s
}

func TestQueue_Schedule(t *testing.T) {
	q, mock := newQueue(t)
	runAt := fixedNow.Add(time.Hour)

	job, err := jobs.NewJob("checkout-reminder", "booking-1", payload{ID: "booking-1"}, runAt)
	require.NoError(t, err)
	assert.Equal(t, "checkout-reminder:booking-1", job.ID)

	mock.ExpectTxPipeline()
	mock.ExpectHSet(jobsKey, job.ID, encoded(t, job)).SetVal(1)
	mock.ExpectZAdd(scheduledKey, redis.Z{Score: float64(runAt.UnixMilli()), Member: job.ID}).SetVal(1)
	mock.ExpectTxPipelineExec()

	err = q.Schedule(context.Background(), "checkout-reminder", "booking-1", payload{ID: "booking-1"}, runAt)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_Cancel(t *testing.T) {
	q, mock := newQueue(t)

	mock.ExpectTxPipeline()
	mock.ExpectZRem(scheduledKey, "overdue-handler:booking-1").SetVal(1)
	mock.ExpectHDel(jobsKey, "overdue-handler:booking-1").SetVal(1)
	mock.ExpectTxPipelineExec()

	err := q.Cancel(context.Background(), "overdue-handler", "booking-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_Tick_RunsDueJob(t *testing.T) {
	q, mock := newQueue(t)
	ctx := context.Background()

	job, err := jobs.NewJob("checkin-reminder", "booking-1", payload{ID: "booking-1"}, fixedNow)
	require.NoError(t, err)

	var got payload
	q.Work("checkin-reminder", func(ctx context.Context, j jobs.Job) error {
		return j.Decode(&got)
	})

	mock.ExpectZRangeByScore(processingKey, dueRange()).SetVal([]string{})
	mock.ExpectZRangeByScore(scheduledKey, dueRange()).SetVal([]string{job.ID})
	mock.ExpectZRem(scheduledKey, job.ID).SetVal(1)
	mock.ExpectZAdd(processingKey, redis.Z{Score: float64(fixedNow.Add(time.Minute).UnixMilli()), Member: job.ID}).SetVal(1)
	mock.ExpectHGet(jobsKey, job.ID).SetVal(encoded(t, job))
	mock.ExpectZRem(processingKey, job.ID).SetVal(1)
	mock.ExpectZScore(scheduledKey, job.ID).RedisNil()
	mock.ExpectHDel(jobsKey, job.ID).SetVal(1)

	n, err := q.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "booking-1", got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_Tick_RetriesFailedJob(t *testing.T) {
	q, mock := newQueue(t)
	ctx := context.Background()

	job, err := jobs.NewJob("overdue-handler", "booking-1", payload{ID: "booking-1"}, fixedNow)
	require.NoError(t, err)

	q.Work("overdue-handler", func(ctx context.Context, j jobs.Job) error {
		return errors.New("db is down")
	})

	retried := job
	retried.Attempt = 1
	retried.RunAt = fixedNow.Add(30 * time.Second)

	mock.ExpectZRangeByScore(processingKey, dueRange()).SetVal([]string{})
	mock.ExpectZRangeByScore(scheduledKey, dueRange()).SetVal([]string{job.ID})
	mock.ExpectZRem(scheduledKey, job.ID).SetVal(1)
	mock.ExpectZAdd(processingKey, redis.Z{Score: float64(fixedNow.Add(time.Minute).UnixMilli()), Member: job.ID}).SetVal(1)
	mock.ExpectHGet(jobsKey, job.ID).SetVal(encoded(t, job))
	mock.ExpectHExists(jobsKey, job.ID).SetVal(true)
	mock.ExpectTxPipeline()
	mock.ExpectHSet(jobsKey, job.ID, encoded(t, retried)).SetVal(0)
	mock.ExpectZAdd(scheduledKey, redis.Z{Score: float64(retried.RunAt.UnixMilli()), Member: job.ID}).SetVal(1)
	mock.ExpectTxPipelineExec()
	mock.ExpectZRem(processingKey, job.ID).SetVal(1)

	n, err := q.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_Tick_DoesNotRetryJobCancelledWhileRunning(t *testing.T) {
	q, mock := newQueue(t)
	ctx := context.Background()

	job, err := jobs.NewJob("overdue-handler", "booking-1", payload{ID: "booking-1"}, fixedNow)
	require.NoError(t, err)

	q.Work("overdue-handler", func(ctx context.Context, j jobs.Job) error {
		return errors.New("db is down")
	})

	mock.ExpectZRangeByScore(processingKey, dueRange()).SetVal([]string{})
	mock.ExpectZRangeByScore(scheduledKey, dueRange()).SetVal([]string{job.ID})
	mock.ExpectZRem(scheduledKey, job.ID).SetVal(1)
	mock.ExpectZAdd(processingKey, redis.Z{Score: float64(fixedNow.Add(time.Minute).UnixMilli()), Member: job.ID}).SetVal(1)
	mock.ExpectHGet(jobsKey, job.ID).SetVal(encoded(t, job))
	mock.ExpectHExists(jobsKey, job.ID).SetVal(false)
	mock.ExpectZRem(processingKey, job.ID).SetVal(1)

	n, err := q.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_Tick_SkipsJobClaimedByAnotherWorker(t *testing.T) {
	q, mock := newQueue(t)

	called := false
	q.Work("checkout-reminder", func(ctx context.Context, j jobs.Job) error {
		called = true
		return nil
	})

	mock.ExpectZRangeByScore(processingKey, dueRange()).SetVal([]string{})
	mock.ExpectZRangeByScore(scheduledKey, dueRange()).SetVal([]string{"checkout-reminder:booking-1"})
	mock.ExpectZRem(scheduledKey, "checkout-reminder:booking-1").SetVal(0)

	n, err := q.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueue_Tick_RequeuesStalledJobs(t *testing.T) {
	q, mock := newQueue(t)

	mock.ExpectZRangeByScore(processingKey, dueRange()).SetVal([]string{"overdue-reminder:booking-1"})
	mock.ExpectZRem(processingKey, "overdue-reminder:booking-1").SetVal(1)
	mock.ExpectZAdd(scheduledKey, redis.Z{Score: float64(fixedNow.UnixMilli()), Member: "overdue-reminder:booking-1"}).SetVal(1)
	mock.ExpectZRangeByScore(scheduledKey, dueRange()).SetVal([]string{})

	n, err := q.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJob_Decode(t *testing.T) {
	job, err := jobs.NewJob("overdue-reminder", "b-9", payload{ID: "b-9"}, fixedNow)
	require.NoError(t, err)

	var p payload
	require.NoError(t, job.Decode(&p))
	assert.Equal(t, "b-9", p.ID)
}
