package subm

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/olimps/backend/srvcerror"
	"github.com/olimps/backend/subm/domain"
)

func (s *Srvc) GetSubm(ctx context.Context, submUUID uuid.UUID) (domain.Subm, error) {
	subm, err := s.submRepo.GetSubm(ctx, submUUID)
	if err != nil {
		return domain.Subm{}, mapRepoErr(err)
	}
	return subm, nil
}

func (s *Srvc) ListSubms(ctx context.Context, limit int) ([]domain.Subm, error) {
	return s.submRepo.ListSubms(ctx, limit)
}

// OfficialEval returns the submission's official evaluation: the most
// recently created one with SUCCESS status. The bool reports whether one
// exists; a submission without one simply has no official result yet.
func (s *Srvc) OfficialEval(ctx context.Context, submUUID uuid.UUID) (domain.Eval, bool, error) {
	eval, err := s.evalRepo.OfficialEval(ctx, submUUID)
	if errors.Is(err, domain.ErrNoOfficialEval) {
		return domain.Eval{}, false, nil
	}
	if err != nil {
		return domain.Eval{}, false, err
	}
	return eval, true, nil
}

func srvcInternal(err error) error {
	return srvcerror.ErrInternalSE().SetDebug(err)
}

func mapRepoErr(err error) error {
	if errors.Is(err, domain.ErrSubmNotFound) {
		return ErrSubmNotFound()
	}
	var srvcErr *srvcerror.Error
	if errors.As(err, &srvcErr) {
		return err
	}
	return srvcInternal(err)
}
