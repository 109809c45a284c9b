// Package subm is the submission service: creating and reading
// submissions, resolving achievements, and building the user-facing
// score summaries and feedback tables.
package subm

import (
	"context"

	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/task"
)

// Evaluator runs one grading attempt for a submission. Implemented by
// the evaluation orchestrator.
type Evaluator interface {
	Evaluate(ctx context.Context, subm domain.Subm) (domain.Eval, error)
}

// MaterialStore resolves the material of a task within a contest.
type MaterialStore interface {
	Material(ctx context.Context, contestShortID string, taskShortID string) (*task.Material, error)
}

type Srvc struct {
	submRepo  SubmRepo
	evalRepo  EvalRepo
	evaluator Evaluator
	materials MaterialStore
}

func NewSrvc(
	submRepo SubmRepo,
	evalRepo EvalRepo,
	evaluator Evaluator,
	materials MaterialStore,
) *Srvc {
	return &Srvc{
		submRepo:  submRepo,
		evalRepo:  evalRepo,
		evaluator: evaluator,
		materials: materials,
	}
}
