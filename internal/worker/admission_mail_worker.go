package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stcolombus/campus-portal/internal/config"
	"github.com/stcolombus/campus-portal/internal/mailer"
	"github.com/stcolombus/campus-portal/internal/model"
)

// maxMailAttempts bounds how often one confirmation is retried before it is dropped.
const maxMailAttempts = 5

// mailJob is one queued confirmation email.
type mailJob struct {
	Admission model.Admission `json:"admission"`
	Attempts  int             `json:"attempts"`
}

// requeueTimeout bounds the push that returns a failed job to the queue.
const requeueTimeout = 5 * time.Second

// jobQueue is the list the mail worker consumes.
type jobQueue interface {
	// Pop blocks up to timeout for the next job. ok is false when none arrived.
	Pop(ctx context.Context, timeout time.Duration) (raw string, ok bool, err error)
	// TryPop returns the next job without blocking.
	TryPop(ctx context.Context) (raw string, ok bool, err error)
	Push(ctx context.Context, payload []byte) error
}

// redisQueue is a jobQueue over one Redis list.
type redisQueue struct {
	rdb *redis.Client
	key string
}

func (q redisQueue) Pop(ctx context.Context, timeout time.Duration) (string, bool, error) {
	result, err := q.rdb.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) || (err == nil && len(result) < 2) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return result[1], true, nil
}

func (q redisQueue) TryPop(ctx context.Context) (string, bool, error) {
	raw, err := q.rdb.LPop(ctx, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (q redisQueue) Push(ctx context.Context, payload []byte) error {
	return q.rdb.RPush(ctx, q.key, payload).Err()
}

// AdmissionMailQueue enqueues confirmation emails for new applications.
// It satisfies service.AdmissionNotifier.
type AdmissionMailQueue struct {
	queue jobQueue
}

// NewAdmissionMailQueue creates a new AdmissionMailQueue.
func NewAdmissionMailQueue(rdb *redis.Client) *AdmissionMailQueue {
	return &AdmissionMailQueue{queue: redisQueue{rdb: rdb, key: config.WorkerKey.AdmissionMailQueue}}
}

// AdmissionSubmitted queues the confirmation email for a.
func (q *AdmissionMailQueue) AdmissionSubmitted(ctx context.Context, a model.Admission) error {
	payload, err := json.Marshal(mailJob{Admission: a})
	if err != nil {
		return fmt.Errorf("marshal mail job: %w", err)
	}
	if err := q.queue.Push(ctx, payload); err != nil {
		return fmt.Errorf("enqueue mail job: %w", err)
	}
	return nil
}

// CollegeNamer supplies the sender institution shown in emails.
type CollegeNamer interface {
	CollegeName(ctx context.Context) string
}

// AdmissionMailWorker consumes admission_mail_queue and sends confirmations.
type AdmissionMailWorker struct {
	queue      jobQueue
	mailer     mailer.Mailer
	settings   CollegeNamer
	retryDelay time.Duration
	log        zerolog.Logger
}

// NewAdmissionMailWorker creates a new AdmissionMailWorker.
func NewAdmissionMailWorker(rdb *redis.Client, m mailer.Mailer, settings CollegeNamer, log zerolog.Logger) *AdmissionMailWorker {
	return &AdmissionMailWorker{
		queue:      redisQueue{rdb: rdb, key: config.WorkerKey.AdmissionMailQueue},
		mailer:     m,
		settings:   settings,
		retryDelay: 5 * time.Second,
		log:        log.With().Str("component", "admission_mail_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *AdmissionMailWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			drainCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			w.drain(drainCtx)
			cancel()
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *AdmissionMailWorker) processNext(ctx context.Context) {
	// Pop blocks until an item is available or timeout (1 second).
	raw, ok, err := w.queue.Pop(ctx, time.Second)
	if err != nil {
		if ctx.Err() == nil {
			w.log.Error().Err(err).Msg("Pop error")
		}
		return
	}
	if !ok {
		return
	}

	if retry, ok := w.handle(ctx, raw); ok {
		w.requeue(ctx, retry)
		w.wait(ctx)
	}
}

// wait pauses before the next attempt and returns early on shutdown.
func (w *AdmissionMailWorker) wait(ctx context.Context) {
	select {
	case <-time.After(w.retryDelay):
	case <-ctx.Done():
	}
}

// handle sends one queued job. It returns the job to push back when
// delivery failed and attempts remain.
func (w *AdmissionMailWorker) handle(ctx context.Context, raw string) (mailJob, bool) {
	var job mailJob
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return job, false
	}

	msg := mailer.AdmissionReceived(job.Admission, w.settings.CollegeName(ctx))
	if err := w.mailer.Send(ctx, msg); err != nil {
		job.Attempts++
		jobLog := w.log.With().
			Str("admission_id", job.Admission.ID.String()).
			Int("attempts", job.Attempts).
			Logger()
		if job.Attempts >= maxMailAttempts {
			jobLog.Error().Err(err).Msg("Giving up on confirmation email")
			return job, false
		}
		jobLog.Warn().Err(err).Msg("Send error, retrying")
		return job, true
	}

	w.log.Debug().Str("admission_id", job.Admission.ID.String()).Msg("Confirmation email sent")
	return job, false
}

// requeue pushes job back even when ctx is already cancelled, so a send
// interrupted by shutdown is picked up by drain or the next start.
func (w *AdmissionMailWorker) requeue(ctx context.Context, job mailJob) {
	payload, err := json.Marshal(job)
	if err != nil {
		return
	}
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requeueTimeout)
	defer cancel()
	if err := w.queue.Push(pushCtx, payload); err != nil {
		w.log.Error().Err(err).Str("admission_id", job.Admission.ID.String()).Msg("Requeue error")
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *AdmissionMailWorker) drain(ctx context.Context) {
	drained := 0
	for {
		raw, ok, err := w.queue.TryPop(ctx)
		if err != nil {
			w.log.Error().Err(err).Msg("Drain pop error")
			break
		}
		if !ok {
			break
		}

		if retry, ok := w.handle(ctx, raw); ok {
			// Leave it for the next start.
			w.requeue(ctx, retry)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
