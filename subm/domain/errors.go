package domain

import "errors"

var (
	ErrSubmNotFound = errors.New("submission not found")
	ErrEvalNotFound = errors.New("evaluation not found")

	// absent derived state; not failures, resolved to zero values upstream
	ErrNoOfficialEval = errors.New("submission has no official evaluation")
	ErrNoAchievement  = errors.New("no achievement for award")
)
