package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sevensystem/internal/infra"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueAlertas = "jobs:estoque_alertas"

	JobAlertaEstoque = "alerta_estoque"

	maxAttempts = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Handler processes the payload of one job type.
type Handler func(ctx context.Context, payload json.RawMessage) error

var errUnknownJob = errors.New("unknown job type")

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
	cb  *infra.CircuitBreaker
}

func NewDispatcher(rdb *redis.Client, cb *infra.CircuitBreaker) *Dispatcher {
	if cb == nil {
		cb = infra.NewCircuitBreaker(infra.DefaultCBConfig())
	}
	return &Dispatcher{rdb: rdb, cb: cb}
}

// EnqueueAlertaEstoque pushes a low-stock alert to Redis.
func (d *Dispatcher) EnqueueAlertaEstoque(ctx context.Context, payload AlertaEstoquePayload) error {
	return d.enqueue(ctx, QueueAlertas, JobAlertaEstoque, payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	encoded, err := encodeJob(jobType, payload)
	if err != nil {
		return err
	}
	return d.cb.Execute(func() error {
		return d.rdb.LPush(ctx, queue, encoded).Err()
	})
}

func encodeJob(jobType string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Job{
		ID:         uuid.NewString(),
		Type:       jobType,
		Payload:    data,
		EnqueuedAt: time.Now().UTC(),
	})
}

// StartWorkerPool launches numWorkers goroutines consuming the alert queue.
// Each goroutine blocks on BRPOP, so idle workers cost nothing.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers map[string]Handler) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, handlers)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, handlers map[string]Handler) {
	queues := []string{QueueAlertas}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop: waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				if !waitAfterPopError(ctx, err) {
					log.Info().Msgf("worker %d shutting down", id)
					return
				}
				continue
			}
			if len(result) < 2 {
				continue
			}
			queue, raw := result[0], result[1]
			job, err := processJob(ctx, handlers, raw)
			if err != nil {
				retryOrDeadLetter(ctx, rdb, queue, job, err)
			}
		}
	}
}

// popErrorBackoff is how long a worker waits after BRPOP failed for a reason
// other than an empty queue.
var popErrorBackoff = 2 * time.Second

// waitAfterPopError pauses after a failed BRPOP so an unreachable Redis does
// not spin the loop. It returns false once ctx is done.
func waitAfterPopError(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if errors.Is(err, redis.Nil) {
		return true
	}
	log.Warn().Err(err).Dur("backoff", popErrorBackoff).Msg("worker: brpop failed")
	t := time.NewTimer(popErrorBackoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// processJob decodes one envelope and runs its handler. The decoded job is
// returned even on failure so the caller can retry it.
func processJob(ctx context.Context, handlers map[string]Handler, raw string) (Job, error) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		return job, fmt.Errorf("unmarshal job: %w", err)
	}
	h, ok := handlers[job.Type]
	if !ok {
		return job, fmt.Errorf("%w: %q", errUnknownJob, job.Type)
	}
	log.Debug().Str("job_id", job.ID).Str("type", job.Type).Msg("processing job")
	return job, h(ctx, job.Payload)
}

func retryOrDeadLetter(ctx context.Context, rdb *redis.Client, queue string, job Job, cause error) {
	job.Attempts++
	if job.Type == "" || errors.Is(cause, errUnknownJob) || job.Attempts >= maxAttempts {
		SendToDLQ(ctx, rdb, queue, job, cause.Error())
		return
	}
	data, err := json.Marshal(job)
	if err != nil {
		SendToDLQ(ctx, rdb, queue, job, err.Error())
		return
	}
	if err := rdb.LPush(ctx, queue, data).Err(); err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("worker: failed to requeue job")
		return
	}
	log.Warn().Err(cause).Str("job_id", job.ID).Int("attempts", job.Attempts).Msg("worker: job requeued")
}
