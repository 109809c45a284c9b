// Package evalsrvc drives one evaluation attempt end to end: it extracts
// the contest archive and the submission, runs the grading worker,
// persists the worker's event stream in arrival order, and finalizes the
// evaluation status.
package evalsrvc

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/olimps/backend/archive"
	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/taskmaker"
)

// EvalRepo is the slice of storage the orchestrator needs.
type EvalRepo interface {
	CreateEval(ctx context.Context, eval domain.Eval) error
	SetEvalStage(ctx context.Context, evalUUID uuid.UUID, stage domain.EvalStage) error
	AppendEvents(ctx context.Context, evalUUID uuid.UUID, events []domain.EvalEvent) error
	ListEvents(ctx context.Context, evalUUID uuid.UUID) ([]domain.EvalEvent, error)
	StoreAchievements(ctx context.Context, achievements []domain.Achievement) error
}

// ContestStore maps a contest to the content archive holding its task
// directories.
type ContestStore interface {
	ArchiveID(ctx context.Context, contestShortID string) (string, error)
}

// StaticContestStore is a fixed contest-to-archive mapping, loaded from
// configuration.
type StaticContestStore map[string]string

func (s StaticContestStore) ArchiveID(ctx context.Context, contestShortID string) (string, error) {
	id, ok := s[contestShortID]
	if !ok {
		return "", ErrContestNotFound(contestShortID)
	}
	return id, nil
}

const DefaultTimeout = 5 * time.Minute

type Srvc struct {
	repo     EvalRepo
	archives archive.Store
	contests ContestStore
	runner   *taskmaker.Runner

	scratchDir string // submissions are extracted under here
	timeout    time.Duration
}

func NewSrvc(
	repo EvalRepo,
	archives archive.Store,
	contests ContestStore,
	runner *taskmaker.Runner,
	scratchDir string,
) *Srvc {
	return &Srvc{
		repo:       repo,
		archives:   archives,
		contests:   contests,
		runner:     runner,
		scratchDir: scratchDir,
		timeout:    DefaultTimeout,
	}
}

// SetTimeout overrides the wall-clock limit of one evaluation attempt.
// On expiry the worker is killed and the evaluation finalized as ERROR.
func (s *Srvc) SetTimeout(d time.Duration) {
	s.timeout = d
}
