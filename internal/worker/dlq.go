package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Failed alert jobs land in a capped Redis list, dlq:{queue}, newest first.
const (
	DLQPrefix = "dlq:"
	DLQMaxLen = 1000
)

// DLQEntry is a dead job as stored in the list.
type DLQEntry struct {
	Queue    string          `json:"queue"`
	JobID    string          `json:"job_id"`
	JobType  string          `json:"job_type"`
	Payload  json.RawMessage `json:"payload"`
	Reason   string          `json:"reason"`
	Attempts int             `json:"attempts"`
	DeadAt   time.Time       `json:"dead_at"`
}

func newDLQEntry(queue string, job Job, reason string) DLQEntry {
	return DLQEntry{
		Queue:    queue,
		JobID:    job.ID,
		JobType:  job.Type,
		Payload:  job.Payload,
		Reason:   reason,
		Attempts: job.Attempts,
		DeadAt:   time.Now().UTC(),
	}
}

// SendToDLQ stores job in the dead letter list of queue and trims the list to
// DLQMaxLen. Errors are logged; the job is dropped if Redis refuses it.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue string, job Job, reason string) {
	entry := newDLQEntry(queue, job, reason)
	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("dlq: marshal")
		return
	}

	key := DLQPrefix + queue
	_, err = rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.LPush(ctx, key, data)
		p.LTrim(ctx, key, 0, DLQMaxLen-1)
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("dlq_key", key).Str("job_id", job.ID).Msg("dlq: push")
		return
	}

	log.Warn().
		Str("job_id", job.ID).
		Str("job_type", job.Type).
		Int("attempts", job.Attempts).
		Str("reason", reason).
		Msg("dlq: alerta descartado após tentativas")
}

// DLQLength reports how many dead jobs queue holds.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
