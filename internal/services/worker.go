package services

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// NotificationJob asks the dispatcher to notify one shortlisted candidate.
type NotificationJob struct {
	Filename string
	Email    string
	Name     string
}

// Worker delivers notifications in the background so scoring never waits
// on SMTP.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job NotificationJob) bool
}

type worker struct {
	notifier    Notifier
	jobQueue    chan NotificationJob
	concurrency int
	logger      *zap.Logger
	wg          sync.WaitGroup
	stopChan    chan struct{}
	stopOnce    sync.Once
	onDelivered func(job NotificationJob, token string, err error)
}

func NewWorker(notifier Notifier, concurrency, queueSize int, logger *zap.Logger) Worker {
	if concurrency <= 0 {
		concurrency = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	return &worker{
		notifier:    notifier,
		jobQueue:    make(chan NotificationJob, queueSize),
		concurrency: concurrency,
		logger:      logger,
		stopChan:    make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}

	w.logger.Info("notification worker started", zap.Int("concurrency", w.concurrency))
}

// Stop implements Worker. Jobs still queued are dropped.
func (w *worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("notification worker stopped")
}

// Enqueue implements Worker. It never blocks: a full queue or a stopped
// worker drops the job and reports false.
func (w *worker) Enqueue(job NotificationJob) bool {
	select {
	case <-w.stopChan:
		w.logger.Warn("worker stopped, notification dropped", zap.String("filename", job.Filename))
		return false
	default:
	}

	select {
	case w.jobQueue <- job:
		return true
	default:
		w.logger.Warn("notification queue full, notification dropped", zap.String("filename", job.Filename))
		return false
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case job := <-w.jobQueue:
			token, err := w.notifier.Notify(ctx, job.Email, job.Name)
			if err != nil {
				w.logger.Warn("notification failed",
					zap.Int("worker", workerID),
					zap.String("filename", job.Filename),
					zap.Error(err))
			} else {
				w.logger.Info("candidate notified",
					zap.Int("worker", workerID),
					zap.String("filename", job.Filename),
					zap.String("token", token))
			}
			if w.onDelivered != nil {
				w.onDelivered(job, token, err)
			}
		}
	}
}
