package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/arnold/visionboard-api/internal/blobstore"
	"github.com/arnold/visionboard-api/internal/exporter"
	"github.com/arnold/visionboard-api/internal/mailer"
	"github.com/arnold/visionboard-api/internal/metrics"
	"github.com/arnold/visionboard-api/internal/models"
	"golang.org/x/sync/semaphore"
)

const defaultTimeout = 20 * time.Second

type SweepConfig struct {
	BatchSize   int
	Concurrency int
	// Timeout bounds each collaborator call made for one submission.
	Timeout time.Duration
}

type SweepResult struct {
	Date         string   `json:"date"`
	Sent         int      `json:"sent"`
	Failed       int      `json:"failed"`
	SentEmails   []string `json:"sentEmails"`
	FailedEmails []string `json:"failedEmails"`
}

// SweepNotifier is told the outcome of every sweep run.
type SweepNotifier interface {
	SweepFinished(ctx context.Context, result *SweepResult)
}

// Sweeper delivers due submissions: paid, unsent, and scheduled on or before
// today. Runs never overlap within a process. Each submission is marked
// sent on its own right after its email is accepted, so an interrupted run
// can simply be repeated.
type Sweeper struct {
	subs     SubmissionRepository
	exporter exporter.Exporter
	blobs    blobstore.Store
	mail     mailer.Mailer
	notifier SweepNotifier
	cfg      SweepConfig
	now      func() time.Time

	running sync.Mutex
}

func NewSweeper(subs SubmissionRepository, exp exporter.Exporter, blobs blobstore.Store, mail mailer.Mailer, notifier SweepNotifier, cfg SweepConfig) *Sweeper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Sweeper{
		subs:     subs,
		exporter: exp,
		blobs:    blobs,
		mail:     mail,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

func (s *Sweeper) Run(ctx context.Context) (*SweepResult, error) {
	if !s.running.TryLock() {
		return nil, ErrSweepInProgress
	}
	defer s.running.Unlock()

	started := time.Now()
	today := models.Today(s.now())

	due, err := s.subs.ListDue(ctx, today, s.cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	log.Printf("Sweep: %d submission(s) due on %s", len(due), today)

	outcomes := make([]error, len(due))
	sem := semaphore.NewWeighted(int64(s.cfg.Concurrency))
	var wg sync.WaitGroup
	for i := range due {
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(due); j++ {
				outcomes[j] = err
			}
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = s.deliver(ctx, &due[i], today)
		}(i)
	}
	wg.Wait()

	result := &SweepResult{Date: today, SentEmails: []string{}, FailedEmails: []string{}}
	for i, err := range outcomes {
		if err != nil {
			log.Printf("Sweep: failed to send email to %s: %v", due[i].Email, err)
			result.FailedEmails = append(result.FailedEmails, due[i].Email)
			continue
		}
		result.SentEmails = append(result.SentEmails, due[i].Email)
	}
	result.Sent = len(result.SentEmails)
	result.Failed = len(result.FailedEmails)

	metrics.RecordSweep(result.Sent, result.Failed, time.Since(started).Seconds())
	log.Printf("Sweep: %s done, sent=%d failed=%d", today, result.Sent, result.Failed)

	if s.notifier != nil {
		s.notifier.SweepFinished(ctx, result)
	}
	return result, nil
}

func (s *Sweeper) deliver(ctx context.Context, sub *models.Submission, today string) error {
	snap, err := sub.Snapshot()
	if err != nil {
		return err
	}

	var image []byte
	err = s.bounded(ctx, func(ctx context.Context) (err error) {
		image, err = s.exporter.Render(ctx, snap)
		return err
	})
	if err != nil {
		return err
	}

	var url string
	err = s.bounded(ctx, func(ctx context.Context) (err error) {
		url, err = s.blobs.Upload(ctx, image, fmt.Sprintf("vision-board-%s.png", sub.ID), "image/png")
		return err
	})
	if err != nil {
		return fmt.Errorf("upload board image: %w", err)
	}

	msg, err := mailer.Reminder(sub.Email, mailer.ReminderData{
		Name:     sub.DisplayName(),
		ImageURL: url,
		Year:     s.now().Year(),
	})
	if err != nil {
		return err
	}
	if err := s.bounded(ctx, func(ctx context.Context) error { return s.mail.Send(ctx, msg) }); err != nil {
		return err
	}

	marked, err := s.subs.MarkEmailSent(ctx, sub.ID, today, s.now())
	if err != nil {
		return fmt.Errorf("email sent but not recorded: %w", err)
	}
	if !marked {
		log.Printf("Sweep: submission %s was already marked sent", sub.ID)
	}
	return nil
}

func (s *Sweeper) bounded(ctx context.Context, call func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	return call(ctx)
}
