package combat

import "go.uber.org/zap"

// RoundReport records what happened during one Step.
type RoundReport struct {
	// Round is the 1-based number of the round attempted.
	Round int
	// Turns holds one entry per actor in the round's turn order, including
	// TurnSkipped entries for actors killed before their turn.
	Turns []Turn
	// Killed lists the IDs of actors removed this round, in order of death.
	Killed []int
	// Complete is false when combat ended before every actor had its turn.
	Complete bool
}

// Step plays one round. Turn order is the reading order of live actor positions
// at the start of the round. Actors killed before their turn are skipped. If an
// actor finds no enemies left at the start of its turn, combat ends and the
// round does not count.
//
// Precondition: none; a terminal simulation returns an empty report.
// Postcondition: Rounds() is incremented iff the returned report is Complete.
func (s *Simulation) Step() RoundReport {
	report := RoundReport{Round: s.rounds + 1}
	if s.state.Terminal() {
		return report
	}

	progressed := false
	for _, id := range s.field.TurnOrder() {
		a, alive := s.field.actors[id]
		if !alive {
			report.Turns = append(report.Turns, Turn{ActorID: id, Action: TurnSkipped})
			continue
		}
		if s.field.Living(a.Faction.Opponent()) == 0 {
			s.settle()
			return report
		}

		turn := s.field.TakeTurn(id)
		report.Turns = append(report.Turns, turn)
		s.logTurn(report.Round, turn)
		if turn.Progressed() {
			progressed = true
		}
		if !turn.Killed {
			continue
		}
		report.Killed = append(report.Killed, turn.TargetID)
		if s.StopOnLoss != FactionNone && turn.TargetFaction == s.StopOnLoss {
			s.state = StateAborted
			s.logger.Debug("protected faction lost an actor",
				zap.Int("round", report.Round),
				zap.Stringer("faction", s.StopOnLoss),
				zap.Int("actor", turn.TargetID),
			)
			return report
		}
	}

	report.Complete = true
	s.rounds++
	switch {
	case s.field.Living(Elf) == 0 || s.field.Living(Goblin) == 0:
		s.settle()
	case !progressed:
		s.state = StateDeadlock
	}
	return report
}

// settle enters the elimination state matching the faction with no actors left.
func (s *Simulation) settle() {
	switch {
	case s.field.Living(Elf) == 0:
		s.state = StateElvesEliminated
	case s.field.Living(Goblin) == 0:
		s.state = StateGoblinsEliminated
	}
}

func (s *Simulation) logTurn(round int, t Turn) {
	ce := s.logger.Check(zap.DebugLevel, "turn")
	if ce == nil {
		return
	}
	fields := []zap.Field{
		zap.Int("round", round),
		zap.Int("actor", t.ActorID),
		zap.Stringer("faction", t.Faction),
		zap.Stringer("action", t.Action),
		zap.Any("from", t.From),
		zap.Any("to", t.To),
	}
	if t.Attacked {
		fields = append(fields,
			zap.Int("target", t.TargetID),
			zap.Int("damage", t.Damage),
			zap.Bool("killed", t.Killed),
		)
	}
	ce.Write(fields...)
}
