package subm

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/olimps/backend/grade"
	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/task"
)

// BestAchievement resolves the single achievement governing a user's
// standing on one award of a task: among the official evaluations of all
// the user's submissions to the task, the achievement at the award index
// with the highest grade, ties broken by the earliest creation time (the
// first attempt that reached the grade wins). The bool reports whether
// any achievement exists; none is not an error.
func (s *Srvc) BestAchievement(ctx context.Context, userUUID uuid.UUID, taskShortID string, awardIndex int) (domain.Achievement, bool, error) {
	ach, err := s.evalRepo.BestAchievement(ctx, userUUID, taskShortID, awardIndex)
	if errors.Is(err, domain.ErrNoAchievement) {
		return domain.Achievement{}, false, nil
	}
	if err != nil {
		return domain.Achievement{}, false, err
	}
	return ach, true, nil
}

// BestScoreGrade is the user's best achievement interpreted against a
// score domain; a zero grade over the domain's range when none exists.
func (s *Srvc) BestScoreGrade(ctx context.Context, userUUID uuid.UUID, taskShortID string, awardIndex int, d grade.ScoreDomain) (grade.ScoreGrade, error) {
	ach, found, err := s.BestAchievement(ctx, userUUID, taskShortID, awardIndex)
	if err != nil {
		return grade.ScoreGrade{}, err
	}
	if !found {
		return grade.ScoreGrade{Range: d.Range, Score: 0}, nil
	}
	return ach.ScoreGrade(d), nil
}

// BestFulfillmentGrade is the user's best achievement interpreted as a
// fulfillment; not fulfilled when none exists.
func (s *Srvc) BestFulfillmentGrade(ctx context.Context, userUUID uuid.UUID, taskShortID string, awardIndex int) (grade.FulfillmentGrade, error) {
	ach, found, err := s.BestAchievement(ctx, userUUID, taskShortID, awardIndex)
	if err != nil {
		return grade.FulfillmentGrade{}, err
	}
	if !found {
		return grade.FulfillmentGrade{Fulfilled: false}, nil
	}
	return ach.FulfillmentGrade(), nil
}

// BestGrade dispatches on the award's grade domain. A domain outside the
// closed score/fulfillment set is a programming error, reported as an
// internal error rather than defaulted.
func (s *Srvc) BestGrade(ctx context.Context, userUUID uuid.UUID, taskShortID string, award task.Award) (grade.Value, error) {
	switch d := award.Domain.(type) {
	case grade.ScoreDomain:
		return s.BestScoreGrade(ctx, userUUID, taskShortID, award.Index, d)
	case grade.FulfillmentDomain:
		return s.BestFulfillmentGrade(ctx, userUUID, taskShortID, award.Index)
	default:
		return nil, srvcInternal(grade.ErrUnknownDomain(award.Domain))
	}
}
