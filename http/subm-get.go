package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"

	"github.com/olimps/backend/subm/domain"
)

func (httpserver *HttpServer) getSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	submUuid, err := uuid.Parse(chi.URLParam(r, "submUuid"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	subm, err := httpserver.submSrvc.GetSubm(r.Context(), submUuid)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	var official *domain.Eval
	eval, found, err := httpserver.submSrvc.OfficialEval(r.Context(), submUuid)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}
	if found {
		official = &eval
	}

	writeJsonSuccessResponse(w, mapSubm(subm, official))
}
