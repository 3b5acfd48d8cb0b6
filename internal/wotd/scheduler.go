package wotd

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BlueberryTheta/wordGame/internal/daykey"
)

const rollTimeout = time.Minute

// Scheduler rolls every coordinator at the next local 00:01 and then once a
// day. Each process runs its own; the pin makes duplicate rolls harmless.
type Scheduler struct {
	days   *daykey.Calculator
	now    func() time.Time
	coords []*Coordinator
	log    zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	next    time.Time
	stopped bool
}

func NewScheduler(days *daykey.Calculator, now func() time.Time, log zerolog.Logger, coords ...*Coordinator) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		days:   days,
		now:    now,
		coords: coords,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Start arms the timer.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule()
}

// Next is when the timer fires.
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Stop cancels the pending roll.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// schedule must be called with mu held.
func (s *Scheduler) schedule() {
	if s.stopped {
		return
	}
	now := s.now()
	s.next = s.days.NextRoll(now)
	s.timer = time.AfterFunc(s.next.Sub(now), s.fire)
	s.log.Info().Time("next_roll", s.next).Msg("Scheduled daily roll")
}

func (s *Scheduler) fire() {
	s.roll()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule()
}

// roll makes sure today's word exists for every namespace.
func (s *Scheduler) roll() {
	ctx, cancel := context.WithTimeout(context.Background(), rollTimeout)
	defer cancel()
	for _, c := range s.coords {
		word, err := c.Word(ctx, false, "")
		if err != nil {
			s.log.Error().Err(err).Str("namespace", c.Namespace()).Msg("Daily roll failed")
			continue
		}
		s.log.Info().Str("namespace", c.Namespace()).Str("day", c.Day()).Int("length", len(word)).Msg("Daily roll complete")
	}
}
