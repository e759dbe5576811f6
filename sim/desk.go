package sim

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/fxdesk/market"
)

var ErrUnknownAssetClass = errors.New("unknown asset class")

// Desk owns the spot and option market states. It is the only writer of
// that state and is not safe for concurrent use; wrap it if several
// goroutines need it.
type Desk struct {
	profiles map[market.AssetClass]Profile
	states   map[market.AssetClass]MarketState
	src      Source
	clock    Clock
	seq      uint64
}

type deskOptions struct {
	src        Source
	clock      Clock
	profiles   map[market.AssetClass]Profile
	strategies map[market.AssetClass][]StrategySpec
	err        error // first option that named an unknown class
}

func (o *deskOptions) checkClass(what string, class market.AssetClass) bool {
	if class.Valid() {
		return true
	}
	if o.err == nil {
		o.err = fmt.Errorf("%w: %s for %q", ErrUnknownAssetClass, what, string(class))
	}
	return false
}

type Option func(*deskOptions)

// WithSource sets the random source. Tests pass a seeded source.
func WithSource(src Source) Option {
	return func(o *deskOptions) { o.src = src }
}

// WithSeed seeds a PCG source.
func WithSeed(seed uint64) Option {
	return func(o *deskOptions) { o.src = NewSource(seed) }
}

func WithClock(c Clock) Option {
	return func(o *deskOptions) { o.clock = c }
}

// WithProfile replaces the constants for p.Class.
func WithProfile(p Profile) Option {
	return func(o *deskOptions) {
		if o.checkClass("profile", p.Class) {
			o.profiles[p.Class] = p
		}
	}
}

// WithStrategies replaces the strategy line-up for class.
func WithStrategies(class market.AssetClass, specs []StrategySpec) Option {
	return func(o *deskOptions) {
		if o.checkClass("strategies", class) {
			o.strategies[class] = specs
		}
	}
}

// seedLogID is the id of the first seeded log; the second gets one less.
const seedLogID = 1000

// NewDesk builds both markets: strategies from each line-up and two seeded
// logs per class for the first two strategies.
func NewDesk(opts ...Option) (*Desk, error) {
	o := deskOptions{
		clock:      systemClock,
		profiles:   map[market.AssetClass]Profile{},
		strategies: map[market.AssetClass][]StrategySpec{},
	}
	for _, class := range market.AssetClasses {
		p, _ := ProfileFor(class)
		o.profiles[class] = p
		o.strategies[class] = DefaultStrategies(class)
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	if o.src == nil {
		o.src = NewSource(0)
	}

	d := &Desk{
		profiles: o.profiles,
		states:   make(map[market.AssetClass]MarketState, len(market.AssetClasses)),
		src:      o.src,
		clock:    o.clock,
	}

	for _, class := range market.AssetClasses {
		p := o.profiles[class]
		if p.Class != class {
			return nil, fmt.Errorf("profile for %s has class %q", class, p.Class)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		specs := o.strategies[class]
		if err := validateSpecs(class, specs); err != nil {
			return nil, err
		}
		d.states[class] = d.initialState(class, specs)
	}
	return d, nil
}

func (d *Desk) initialState(class market.AssetClass, specs []StrategySpec) MarketState {
	st := MarketState{
		AssetClass: class,
		Strategies: make([]Strategy, len(specs)),
		Positions:  []Position{},
	}
	for i, spec := range specs {
		st.Strategies[i] = NewStrategy(spec, class, d.src)
	}
	st.Logs = []CycleLog{
		NewCycleLog(specs[0].ID, seedLogID, class, d.src, d.clock),
		NewCycleLog(specs[1%len(specs)].ID, seedLogID-1, class, d.src, d.clock),
	}
	return st
}

func validateSpecs(class market.AssetClass, specs []StrategySpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%s: at least one strategy is required", class)
	}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.ID == "" {
			return fmt.Errorf("%s: strategy id is required", class)
		}
		if s.ID == GlobalStrategyID {
			return fmt.Errorf("%s: strategy id %q is reserved", class, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("%s: duplicate strategy id %q", class, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// State returns the current snapshot for class. Calling it never changes
// the desk.
func (d *Desk) State(class market.AssetClass) (MarketState, error) {
	st, ok := d.states[class]
	if !ok {
		return MarketState{}, fmt.Errorf("%w: %q", ErrUnknownAssetClass, class)
	}
	return st, nil
}

// Profile returns the constants in use for class.
func (d *Desk) Profile(class market.AssetClass) (Profile, bool) {
	p, ok := d.profiles[class]
	return p, ok
}

// Seq is the number of ticks taken so far.
func (d *Desk) Seq() uint64 { return d.seq }

// Tick advances both markets one step, whichever one a reader is watching,
// and returns the new snapshots.
func (d *Desk) Tick() TickResult {
	for _, class := range market.AssetClasses {
		d.states[class] = step(d.states[class], d.profiles[class], d.src, d.clock)
	}
	d.seq++
	return TickResult{
		Seq:         d.seq,
		SpotState:   d.states[market.Spot],
		OptionState: d.states[market.Option],
	}
}
