package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v2"
)

const defaultListLimit = 30

func (httpserver *HttpServer) listSubmissions(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	limit := defaultListLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	subms, err := httpserver.submSrvc.ListSubms(r.Context(), limit)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	response := make([]Submission, len(subms))
	for i, subm := range subms {
		response[i] = mapSubm(subm, nil)
	}

	writeJsonSuccessResponse(w, response)
}
