package subm

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/olimps/backend/logger"
	"github.com/olimps/backend/subm/domain"
)

const maxSubmissionLengthKilobytes = 64

type CreateSubmParams struct {
	TaskShortID    string
	ContestShortID string
	AuthorUUID     uuid.UUID
	Files          []domain.SubmFile
}

func (p *CreateSubmParams) IsValid() error {
	if len(p.Files) == 0 {
		return ErrNoSubmFiles()
	}
	total := 0
	for _, file := range p.Files {
		total += len(file.Content)
	}
	if total > maxSubmissionLengthKilobytes*1000 {
		return ErrSubmissionTooLong(maxSubmissionLengthKilobytes)
	}
	return nil
}

// CreateSubm stores a new submission and starts grading it in the
// background. The submission itself is immutable from here on; grading
// progress is visible through its evaluations.
func (s *Srvc) CreateSubm(ctx context.Context, params CreateSubmParams) (domain.Subm, error) {
	if err := params.IsValid(); err != nil {
		return domain.Subm{}, err
	}

	submUUID, err := uuid.NewV7()
	if err != nil {
		return domain.Subm{}, err
	}
	subm := domain.Subm{
		UUID:           submUUID,
		TaskShortID:    params.TaskShortID,
		ContestShortID: params.ContestShortID,
		AuthorUUID:     params.AuthorUUID,
		Files:          params.Files,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.submRepo.StoreSubm(ctx, subm); err != nil {
		return domain.Subm{}, err
	}

	s.evaluateInBackground(ctx, subm)
	return subm, nil
}

// ReevalSubm starts a fresh grading attempt for an existing submission.
// Retrying is always a new evaluation; existing evaluations are never
// touched.
func (s *Srvc) ReevalSubm(ctx context.Context, submUUID uuid.UUID) error {
	subm, err := s.submRepo.GetSubm(ctx, submUUID)
	if err != nil {
		return mapRepoErr(err)
	}
	s.evaluateInBackground(ctx, subm)
	return nil
}

func (s *Srvc) evaluateInBackground(ctx context.Context, subm domain.Subm) {
	log := logger.FromContext(ctx)
	// detach from the request context; grading outlives the HTTP request
	bgCtx := logger.WithLogger(context.Background(), log)
	go func() {
		if _, err := s.evaluator.Evaluate(bgCtx, subm); err != nil {
			log.Error("failed to evaluate submission",
				"subm_uuid", subm.UUID, "error", err)
		}
	}()
}
