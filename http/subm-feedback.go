package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"
)

func (httpserver *HttpServer) getSubmissionFeedback(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	submUuid, err := uuid.Parse(chi.URLParam(r, "submUuid"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	table, err := httpserver.submSrvc.FeedbackTable(r.Context(), submUuid)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	writeJsonSuccessResponse(w, table)
}
