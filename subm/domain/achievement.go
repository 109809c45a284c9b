package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/olimps/backend/grade"
)

// Achievement is the stored outcome of one evaluation for one award of
// the submission's problem. Achievements are derived from the event
// stream when an evaluation succeeds and never mutated afterwards.
//
// Grade is kept as a single scalar regardless of the award's grade
// domain; interpretation happens at read time against the domain.
type Achievement struct {
	ID         int64
	EvalUUID   uuid.UUID
	AwardIndex int
	Grade      float64
	CreatedAt  time.Time
}

// ScoreGrade interprets the achievement against a score domain.
func (a *Achievement) ScoreGrade(d grade.ScoreDomain) grade.ScoreGrade {
	g, err := grade.NewScoreGrade(d.Range, a.Grade)
	if err != nil {
		// stored grade exceeds the domain; surface the raw value clipped
		// into range rather than dropping the achievement
		g, _ = grade.NewScoreGrade(d.Range, d.Range.Max)
	}
	return g
}

// FulfillmentGrade interprets the achievement against a fulfillment
// domain: the award counts as fulfilled when full normalized score was
// reached.
func (a *Achievement) FulfillmentGrade() grade.FulfillmentGrade {
	return grade.FulfillmentGrade{Fulfilled: a.Grade >= 1}
}
