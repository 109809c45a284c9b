package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"

	"github.com/olimps/backend/auth"
	"github.com/olimps/backend/subm"
)

// getBestGrade reports the requesting user's standing on one award of a
// task: their best achievement resolved against the award's grade domain.
func (httpserver *HttpServer) getBestGrade(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	userUUID, err := uuid.Parse(claims.UUID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	contestID := chi.URLParam(r, "contestId")
	taskID := chi.URLParam(r, "taskId")
	awardIndex, err := strconv.Atoi(chi.URLParam(r, "awardIndex"))
	if err != nil || awardIndex < 0 {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	material, err := httpserver.materials.Material(r.Context(), contestID, taskID)
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}
	if awardIndex >= len(material.Awards) {
		handleJsonSrvcError(logger, w, subm.ErrAwardNotFound(awardIndex))
		return
	}

	value, err := httpserver.submSrvc.BestGrade(r.Context(), userUUID, taskID, material.Awards[awardIndex])
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	writeJsonSuccessResponse(w, mapGradeValue(value))
}
