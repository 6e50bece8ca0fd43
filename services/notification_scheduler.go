package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/david801380511/timeflow/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCheckInterval is how often the scheduler scans the enabled rules.
const DefaultCheckInterval = 60 * time.Second

// NotificationScheduler periodically evaluates every enabled notification
// rule. It is owned by the process composition root: main starts it as a
// goroutine and stops it through Stop or by cancelling the context.
type NotificationScheduler struct {
	db       *gorm.DB
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewNotificationScheduler(db *gorm.DB, interval time.Duration) *NotificationScheduler {
	if db == nil {
		db = config.DB
	}
	if interval <= 0 {
		interval = DefaultCheckInterval
	}
	return &NotificationScheduler{
		db:       db,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs cycles until Stop is called or ctx is cancelled. It blocks,
// so callers launch it on its own goroutine. The first cycle runs
// immediately; afterwards one cycle per tick. Cycles never overlap: a
// slow cycle delays the next tick.
func (s *NotificationScheduler) Start(ctx context.Context) {
	log.Println("Notification scheduler started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Notification scheduler stopped")
			return
		case <-s.stop:
			log.Println("Notification scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// Stop is idempotent and takes effect before the next cycle begins; an
// in-flight cycle runs to completion.
func (s *NotificationScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}

func (s *NotificationScheduler) runCycle(ctx context.Context) {
	if err := s.RunCycle(ctx, time.Now()); err != nil {
		log.Printf("Notification cycle failed, will retry next tick: %v", err)
	}
}

// RunCycle evaluates all enabled rules once, inside a single transaction:
// either every notification generated this pass commits, or none do.
func (s *NotificationScheduler) RunCycle(ctx context.Context, now time.Time) error {
	cycleID := uuid.New().String()

	return s.db.Transaction(func(tx *gorm.DB) error {
		rules, err := NewRuleStore(tx).ListEnabledRules(ctx)
		if err != nil {
			return err
		}

		evaluator := NewRuleEvaluator(NewFactStore(tx), NewNotificationStore(tx))
		for i := range rules {
			if err := evaluator.Evaluate(ctx, &rules[i], now); err != nil {
				log.Printf("Notification cycle %s aborted at rule %d: %v", cycleID, rules[i].RuleID, err)
				return err
			}
		}
		return nil
	})
}
