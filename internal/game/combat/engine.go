package combat

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNoActors is returned by Run when the battlefield starts empty.
	ErrNoActors = errors.New("battlefield has no actors")
	// ErrRoundLimit is returned by Run when Rules.MaxRounds is exceeded.
	ErrRoundLimit = errors.New("round limit exceeded")
)

// State is the round engine's state machine position.
type State int

const (
	StateRunning State = iota
	StateElvesEliminated
	StateGoblinsEliminated
	// StateDeadlock means a full round changed nothing, so no later round can.
	StateDeadlock
	// StateAborted means the protected faction lost an actor.
	StateAborted
)

// String returns a human-readable state label.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateElvesEliminated:
		return "elves eliminated"
	case StateGoblinsEliminated:
		return "goblins eliminated"
	case StateDeadlock:
		return "deadlock"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further rounds will be played.
func (s State) Terminal() bool { return s != StateRunning }

// Outcome summarises a simulation.
type Outcome struct {
	RunID string
	State State
	// Winner is FactionNone unless one faction eliminated the other.
	Winner Faction
	// Rounds counts completed rounds only.
	Rounds      int
	RemainingHP int
	Survivors   map[Faction]int
	Losses      map[Faction]int
}

// Score returns Rounds * RemainingHP.
func (o Outcome) Score() int { return o.Rounds * o.RemainingHP }

// LossFree reports whether f won without losing a single actor.
func (o Outcome) LossFree(f Faction) bool {
	return o.Winner == f && o.Losses[f] == 0
}

// Simulation drives one battlefield through rounds until a terminal state.
// A Simulation is not safe for concurrent use; give each goroutine its own
// cloned Battlefield.
type Simulation struct {
	// ID correlates log lines for this run.
	ID string
	// StopOnLoss, when not FactionNone, ends the run in StateAborted the moment
	// that faction loses an actor.
	StopOnLoss Faction

	field   *Battlefield
	rules   Rules
	logger  *zap.Logger
	state   State
	rounds  int
	initial map[Faction]int
}

// NewSimulation prepares a simulation over field. The simulation takes
// ownership of field and mutates it.
//
// Precondition: field must be non-nil. A nil logger disables logging.
// Postcondition: State() == StateRunning; Rounds() == 0.
func NewSimulation(field *Battlefield, rules Rules, logger *zap.Logger) *Simulation {
	if logger == nil {
		logger = zap.NewNop()
	}
	id := uuid.NewString()
	return &Simulation{
		ID:     id,
		field:  field,
		rules:  rules,
		logger: logger.With(zap.String("run_id", id)),
		state:  StateRunning,
		initial: map[Faction]int{
			Elf:    field.Living(Elf),
			Goblin: field.Living(Goblin),
		},
	}
}

// Field returns the battlefield being simulated.
func (s *Simulation) Field() *Battlefield { return s.field }

// State returns the current state.
func (s *Simulation) State() State { return s.state }

// Rounds returns the number of completed rounds.
func (s *Simulation) Rounds() int { return s.rounds }

// Outcome returns the summary of the simulation so far.
func (s *Simulation) Outcome() Outcome {
	out := Outcome{
		RunID:       s.ID,
		State:       s.state,
		Rounds:      s.rounds,
		RemainingHP: s.field.RemainingHP(),
		Survivors:   make(map[Faction]int, 2),
		Losses:      make(map[Faction]int, 2),
	}
	for _, f := range []Faction{Elf, Goblin} {
		alive := s.field.Living(f)
		out.Survivors[f] = alive
		out.Losses[f] = s.initial[f] - alive
	}
	switch s.state {
	case StateElvesEliminated:
		out.Winner = Goblin
	case StateGoblinsEliminated:
		out.Winner = Elf
	}
	return out
}

// Run steps rounds until the simulation reaches a terminal state.
//
// Postcondition: On nil error, Outcome().State.Terminal() is true. Returns
// ErrNoActors for an empty battlefield, ErrRoundLimit when Rules.MaxRounds is
// exceeded, or the wrapped context error on cancellation.
func (s *Simulation) Run(ctx context.Context) (Outcome, error) {
	if len(s.field.actors) == 0 {
		return s.Outcome(), ErrNoActors
	}
	for !s.state.Terminal() {
		if err := ctx.Err(); err != nil {
			return s.Outcome(), fmt.Errorf("simulation interrupted after %d rounds: %w", s.rounds, err)
		}
		if s.rules.MaxRounds > 0 && s.rounds >= s.rules.MaxRounds {
			return s.Outcome(), fmt.Errorf("%w: %d rounds", ErrRoundLimit, s.rules.MaxRounds)
		}
		report := s.Step()
		if ce := s.logger.Check(zap.DebugLevel, "round resolved"); ce != nil {
			ce.Write(
				zap.Int("round", report.Round),
				zap.Bool("complete", report.Complete),
				zap.Ints("killed", report.Killed),
				zap.String("board", "\n"+s.field.String()),
			)
		}
	}

	out := s.Outcome()
	s.logger.Info("simulation finished",
		zap.Stringer("state", out.State),
		zap.Stringer("winner", out.Winner),
		zap.Int("rounds", out.Rounds),
		zap.Int("remaining_hp", out.RemainingHP),
		zap.Int("score", out.Score()),
	)
	return out, nil
}
