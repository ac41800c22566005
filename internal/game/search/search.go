// Package search finds the smallest attack boost that lets one faction win a
// battle without losing a single actor.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/skirmish/internal/game/combat"
)

// ErrExhausted is returned when no boost up to Options.MaxBoost yields a loss-free win.
var ErrExhausted = errors.New("no loss-free boost found")

// DeriveMaxBoost, as Options.MaxBoost, bounds the search at the boost where
// every hit is lethal, after which outcomes cannot change.
const DeriveMaxBoost = -1

// Options configures a Driver.
type Options struct {
	// Faction is the side whose attack is boosted.
	Faction combat.Faction
	// StartBoost is the first boost tried.
	StartBoost int
	// MaxBoost is the last boost tried, inclusive. Any negative value
	// (DeriveMaxBoost) derives it from the rules.
	MaxBoost int
	// Workers is the number of trials evaluated concurrently per batch; < 2
	// means strictly sequential.
	Workers int
	// StopOnLoss ends each trial at the boosted faction's first death.
	StopOnLoss bool
}

// Result is the first loss-free trial.
type Result struct {
	Boost int
	// AttackPower is the boosted faction's attack during the winning trial.
	AttackPower int
	Outcome     combat.Outcome
	// Trials counts simulations run, including concurrent ones past the answer.
	Trials int
}

// Driver runs independent trials over clones of one initial battlefield.
type Driver struct {
	initial *combat.Battlefield
	rules   combat.Rules
	opts    Options
	logger  *zap.Logger
	// trial runs one boost; Trial unless replaced in tests.
	trial func(ctx context.Context, boost int) (combat.Outcome, error)
}

// NewDriver prepares a search over initial, which is never mutated.
//
// Precondition: initial must be non-nil. A nil logger disables logging.
// Postcondition: Returns a Driver or an error for an invalid faction or boost range.
func NewDriver(initial *combat.Battlefield, rules combat.Rules, opts Options, logger *zap.Logger) (*Driver, error) {
	if opts.Faction != combat.Elf && opts.Faction != combat.Goblin {
		return nil, fmt.Errorf("search faction must be elf or goblin, got %s", opts.Faction)
	}
	if opts.StartBoost < 0 {
		return nil, fmt.Errorf("start boost must be >= 0, got %d", opts.StartBoost)
	}
	if opts.MaxBoost < 0 {
		opts.MaxBoost = max(rules.HitPoints-rules.AttackPower, opts.StartBoost)
	}
	if opts.MaxBoost < opts.StartBoost {
		return nil, fmt.Errorf("max boost %d is below start boost %d", opts.MaxBoost, opts.StartBoost)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{initial: initial, rules: rules, opts: opts, logger: logger}
	d.trial = d.Trial
	return d, nil
}

// Trial simulates a fresh clone of the initial battlefield with the boosted
// faction's attack raised by boost.
//
// Precondition: boost >= 0.
// Postcondition: The initial battlefield is unchanged.
func (d *Driver) Trial(ctx context.Context, boost int) (combat.Outcome, error) {
	field := d.initial.Clone()
	field.Boost(d.opts.Faction, boost)
	sim := combat.NewSimulation(field, d.rules, d.logger.With(zap.Int("boost", boost)))
	if d.opts.StopOnLoss {
		sim.StopOnLoss = d.opts.Faction
	}
	out, err := sim.Run(ctx)
	if err != nil {
		return out, fmt.Errorf("trial with boost %d: %w", boost, err)
	}
	d.logger.Info("trial finished",
		zap.String("run_id", out.RunID),
		zap.Int("boost", boost),
		zap.Stringer("state", out.State),
		zap.Bool("loss_free", out.LossFree(d.opts.Faction)),
	)
	return out, nil
}

// Search tries boosts in ascending order and returns the first loss-free win.
// With Workers > 1, consecutive boosts are evaluated in concurrent batches.
// Each batch is scanned in ascending order once every trial in it has
// finished, so the first success or the first trial error is reported exactly
// as the sequential search would report it.
//
// Postcondition: Returns the minimal boost in [StartBoost, MaxBoost] with a
// loss-free win, ErrExhausted if there is none, or the error of the lowest
// failing trial below any success.
func (d *Driver) Search(ctx context.Context) (Result, error) {
	workers := max(d.opts.Workers, 1)
	trials := 0
	for lo := d.opts.StartBoost; lo <= d.opts.MaxBoost; lo += workers {
		hi := min(lo+workers-1, d.opts.MaxBoost)
		outcomes := make([]combat.Outcome, hi-lo+1)
		errs := make([]error, len(outcomes))

		// Trial errors stay in errs: failing one boost must not cancel a
		// lower boost of the same batch.
		var g errgroup.Group
		for i := range outcomes {
			g.Go(func() error {
				outcomes[i], errs[i] = d.trial(ctx, lo+i)
				return nil
			})
		}
		_ = g.Wait()
		trials += len(outcomes)

		for i, out := range outcomes {
			if errs[i] != nil {
				return Result{Trials: trials}, errs[i]
			}
			if !out.LossFree(d.opts.Faction) {
				continue
			}
			boost := lo + i
			d.logger.Info("loss-free boost found",
				zap.Stringer("faction", d.opts.Faction),
				zap.Int("boost", boost),
				zap.Int("trials", trials),
			)
			return Result{
				Boost:       boost,
				AttackPower: d.rules.AttackPower + boost,
				Outcome:     out,
				Trials:      trials,
			}, nil
		}
	}
	return Result{Trials: trials}, fmt.Errorf("%w: %s boosts %d..%d", ErrExhausted, d.opts.Faction, d.opts.StartBoost, d.opts.MaxBoost)
}
