package subm

import (
	"context"

	"github.com/google/uuid"

	"github.com/olimps/backend/subm/domain"
)

// SubmRepo stores submissions. Submissions are write-once.
type SubmRepo interface {
	StoreSubm(ctx context.Context, subm domain.Subm) error
	GetSubm(ctx context.Context, submUUID uuid.UUID) (domain.Subm, error)
	ListSubms(ctx context.Context, limit int) ([]domain.Subm, error)
}

// EvalRepo stores evaluations, their event streams, and derived
// achievements. Events are append-only; AppendEvents must assign serials
// in call order so that listing returns events in arrival order.
type EvalRepo interface {
	CreateEval(ctx context.Context, eval domain.Eval) error
	SetEvalStage(ctx context.Context, evalUUID uuid.UUID, stage domain.EvalStage) error

	AppendEvents(ctx context.Context, evalUUID uuid.UUID, events []domain.EvalEvent) error
	ListEvents(ctx context.Context, evalUUID uuid.UUID) ([]domain.EvalEvent, error)

	StoreAchievements(ctx context.Context, achievements []domain.Achievement) error
	ListAchievements(ctx context.Context, evalUUID uuid.UUID) ([]domain.Achievement, error)

	// OfficialEval returns the most recently created successful
	// evaluation of the submission, or domain.ErrNoOfficialEval.
	OfficialEval(ctx context.Context, submUUID uuid.UUID) (domain.Eval, error)

	// BestAchievement returns, among the official evaluations of all the
	// user's submissions to the task, the achievement at the award index
	// with the highest grade; ties are broken by earliest creation time.
	// Returns domain.ErrNoAchievement when the user has none.
	BestAchievement(ctx context.Context, userUUID uuid.UUID, taskShortID string, awardIndex int) (domain.Achievement, error)
}
