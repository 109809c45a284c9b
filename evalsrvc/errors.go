package evalsrvc

import (
	"fmt"
	"net/http"

	"github.com/olimps/backend/srvcerror"
)

const ErrCodeContestNotFound = "contest_not_found"

func ErrContestNotFound(contestShortID string) *srvcerror.Error {
	return srvcerror.New(
		ErrCodeContestNotFound,
		fmt.Sprintf("contest '%s' was not found", contestShortID),
	).SetHttpStatusCode(http.StatusNotFound)
}
