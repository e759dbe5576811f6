// Package desk runs a sim.Desk as a service: one scheduled writer ticks it,
// any number of readers take snapshots.
package desk

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/fxdesk/internal/logger"
	"github.com/rustyeddy/fxdesk/journal"
	"github.com/rustyeddy/fxdesk/market"
	"github.com/rustyeddy/fxdesk/sim"
)

const DefaultInterval = 500 * time.Millisecond

// Service is the single entry point to a sim.Desk. Tick holds the write
// lock; State and Snapshot hold the read lock only long enough to copy the
// last result, which shares nothing with later ticks.
type Service struct {
	tickMu sync.Mutex // serializes Tick, including journaling

	mu   sync.RWMutex
	desk *sim.Desk
	last sim.TickResult

	interval    time.Duration
	journal     journal.Journal
	sampleEvery uint64
	journaled   map[market.AssetClass]int64 // highest log id recorded per class
	now         func() time.Time
	log         zerolog.Logger

	subsMu sync.Mutex
	subs   map[chan sim.TickResult]struct{}
}

type Option func(*Service)

// WithInterval sets the tick period used by Run.
func WithInterval(d time.Duration) Option {
	return func(s *Service) { s.interval = d }
}

// WithJournal records every new cycle log, and every strategy's equity on
// ticks that are a multiple of sampleEvery. Zero disables equity samples.
func WithJournal(j journal.Journal, sampleEvery int) Option {
	return func(s *Service) {
		s.journal = j
		if sampleEvery > 0 {
			s.sampleEvery = uint64(sampleEvery)
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithNow sets the clock used to stamp equity samples.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New wraps d. The service takes ownership; callers must not tick d
// directly afterwards.
func New(d *sim.Desk, opts ...Option) (*Service, error) {
	s := &Service{
		desk:      d,
		interval:  DefaultInterval,
		journal:   journal.Discard{},
		journaled: map[market.AssetClass]int64{},
		now:       time.Now,
		log:       logger.Logger,
		subs:      map[chan sim.TickResult]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %s", s.interval)
	}

	s.last.Seq = d.Seq()
	for _, class := range market.AssetClasses {
		st, err := d.State(class)
		if err != nil {
			return nil, err
		}
		s.last = withState(s.last, st)
	}
	return s, nil
}

func withState(r sim.TickResult, st sim.MarketState) sim.TickResult {
	switch st.AssetClass {
	case market.Spot:
		r.SpotState = st
	case market.Option:
		r.OptionState = st
	}
	return r
}

// State returns the latest snapshot for class.
func (s *Service) State(class market.AssetClass) (sim.MarketState, error) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	st, ok := last.State(class)
	if !ok {
		return sim.MarketState{}, fmt.Errorf("%w: %q", sim.ErrUnknownAssetClass, string(class))
	}
	return st, nil
}

// Snapshot returns the latest result for both classes.
func (s *Service) Snapshot() sim.TickResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Interval is the tick period used by Run.
func (s *Service) Interval() time.Duration { return s.interval }

// Tick advances the desk one step, journals what it produced and fans the
// result out to subscribers.
func (s *Service) Tick() sim.TickResult {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	s.mu.Lock()
	res := s.desk.Tick()
	s.last = res
	s.mu.Unlock()

	s.record(res)
	s.publish(res)
	return res
}

// record writes new cycle logs, oldest first, and periodic equity samples.
// Failures are logged and never stop the tick loop.
func (s *Service) record(res sim.TickResult) {
	for _, class := range market.AssetClasses {
		st, _ := res.State(class)
		seen := s.journaled[class]
		for i := len(st.Logs) - 1; i >= 0; i-- {
			l := st.Logs[i]
			if l.ID <= seen {
				continue
			}
			if err := s.journal.RecordCycle(journal.NewCycleRecord(class, l)); err != nil {
				s.log.Error().Err(err).Str("class", string(class)).Int64("cycle", l.ID).Msg("journal cycle")
			}
			s.journaled[class] = l.ID
		}

		if s.sampleEvery == 0 || res.Seq%s.sampleEvery != 0 {
			continue
		}
		at := s.now()
		for _, strat := range st.Strategies {
			if err := s.journal.RecordEquity(journal.NewEquitySample(at, res.Seq, strat)); err != nil {
				s.log.Error().Err(err).Str("strategy", strat.ID).Msg("journal equity")
			}
		}
	}
}

// Subscribe returns a channel that receives every tick result. A
// subscriber that falls more than buffer results behind misses ticks.
// Call cancel to unsubscribe; it closes the channel.
func (s *Service) Subscribe(buffer int) (<-chan sim.TickResult, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan sim.TickResult, buffer)

	s.subsMu.Lock()
	s.subs[ch] = struct{}{}
	s.subsMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, ch)
			s.subsMu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Service) publish(res sim.TickResult) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- res:
		default:
			s.log.Debug().Uint64("seq", res.Seq).Msg("subscriber behind, tick dropped")
		}
	}
}

// Run ticks the desk every interval until ctx is cancelled. Ticks never
// overlap; a slow tick delays the next one.
func (s *Service) Run(ctx context.Context) error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Tick() }),
		gocron.WithName("desk-tick"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule tick: %w", err)
	}

	s.log.Info().Dur("interval", s.interval).Msg("desk started")
	sched.Start()

	<-ctx.Done()

	if err := sched.Shutdown(); err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}
	s.log.Info().Uint64("seq", s.Snapshot().Seq).Msg("desk stopped")
	return nil
}
