package jobs

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Job запись отложенной задачи. ID = name:key, поэтому повторное планирование
// той же стадии для того же ключа заменяет предыдущую запись.
type Job struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Key     string              `json:"key"`
	Data    jsoniter.RawMessage `json:"data"`
	RunAt   time.Time           `json:"run_at"`
	Attempt int                 `json:"attempt"`
}

// Handler обработчик задачи. Возврат ошибки означает повторную попытку.
type Handler func(ctx context.Context, job Job) error

// Scheduler планирует и отменяет задачи
//
//go:generate mockery --name=Scheduler --output=../service/mocks --outpkg=mocks
type Scheduler interface {
	Schedule(ctx context.Context, name, key string, data any, runAt time.Time) error
	Cancel(ctx context.Context, name, key string) error
	CancelAll(ctx context.Context, key string, names ...string) error
}

// Registrar регистрирует обработчики по имени задачи
type Registrar interface {
	Work(name string, handler Handler)
}

// JobID строит идентификатор задачи
func JobID(name, key string) string {
	return name + ":" + key
}

// NewJob создаёт задачу с закодированными данными
func NewJob(name, key string, data any, runAt time.Time) (Job, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Job{}, fmt.Errorf("encode job data: %w", err)
	}
	return Job{
		ID:    JobID(name, key),
		Name:  name,
		Key:   key,
		Data:  raw,
		RunAt: runAt.UTC(),
	}, nil
}

// Decode раскодирует данные задачи в v
func (j Job) Decode(v any) error {
	if err := json.Unmarshal(j.Data, v); err != nil {
		return fmt.Errorf("decode job %s data: %w", j.ID, err)
	}
	return nil
}

// Marshal кодирует задачу для хранения
func (j Job) Marshal() (string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return "", fmt.Errorf("encode job %s: %w", j.ID, err)
	}
	return string(b), nil
}

func unmarshalJob(raw string) (Job, error) {
	var j Job
	if err := json.Unmarshal([]byte(raw), &j); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	return j, nil
}
