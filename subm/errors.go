package subm

import (
	"fmt"
	"net/http"

	"github.com/olimps/backend/srvcerror"
)

const ErrCodeSubmNotFound = "submission_not_found"

func ErrSubmNotFound() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeSubmNotFound,
		"the submission was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeInvalidSubmDetails = "invalid_submission_details"

func ErrSubmissionTooLong(maxKB int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSubmDetails,
		fmt.Sprintf("submission is too long, the maximum total size is %d KB", maxKB),
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

func ErrNoSubmFiles() *srvcerror.Error {
	return srvcerror.New(
		ErrCodeInvalidSubmDetails,
		"a submission must contain at least one file",
	).SetHttpStatusCode(http.StatusUnprocessableEntity)
}

const ErrCodeAwardNotFound = "award_not_found"

func ErrAwardNotFound(awardIndex int) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeAwardNotFound,
		fmt.Sprintf("the task has no award with index %d", awardIndex),
	).SetHttpStatusCode(http.StatusNotFound)
}
