package evalsrvc

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/olimps/backend/grade"
	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/task"
	"github.com/olimps/backend/taskmaker"
)

// achievementsFromEvents derives achievements from a successful
// evaluation's event stream. Only subtask-score events bear achievements;
// every other event kind contributes nothing. The stored grade is the
// absolute score for score-domain awards and the normalized score for
// fulfillment-domain awards, so that a single scalar column supports the
// best-achievement comparison for both variants.
func achievementsFromEvents(
	evalUUID uuid.UUID,
	material *task.Material,
	events []domain.EvalEvent,
) ([]domain.Achievement, error) {
	achievements := []domain.Achievement{}
	for _, event := range events {
		score, ok := event.Data.(taskmaker.SubtaskScore)
		if !ok {
			continue
		}
		if score.Subtask < 0 || score.Subtask >= len(material.Awards) {
			return nil, fmt.Errorf("worker reported subtask %d but the task has %d awards",
				score.Subtask, len(material.Awards))
		}
		award := material.Awards[score.Subtask]

		var value float64
		switch award.Domain.(type) {
		case grade.ScoreDomain:
			value = score.Score
		case grade.FulfillmentDomain:
			value = score.NormalizedScore
		default:
			return nil, grade.ErrUnknownDomain(award.Domain)
		}

		achievements = append(achievements, domain.Achievement{
			EvalUUID:   evalUUID,
			AwardIndex: award.Index,
			Grade:      value,
		})
	}
	return achievements, nil
}
