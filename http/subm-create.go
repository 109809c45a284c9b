package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"

	"github.com/olimps/backend/auth"
	"github.com/olimps/backend/subm"
	"github.com/olimps/backend/subm/domain"
)

func (httpserver *HttpServer) createSubmission(w http.ResponseWriter, r *http.Request) {
	logger := httplog.LogEntry(r.Context())

	type submFileRequest struct {
		FieldName string `json:"field_name"`
		TypeName  string `json:"type_name"`
		Content   string `json:"content"`
	}
	type createSubmissionRequest struct {
		TaskShortID    string            `json:"task_short_id"`
		ContestShortID string            `json:"contest_short_id"`
		Files          []submFileRequest `json:"files"`
	}

	var request createSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}
	authorUUID, err := uuid.Parse(claims.UUID)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	files := make([]domain.SubmFile, len(request.Files))
	for i, file := range request.Files {
		files[i] = domain.SubmFile{
			FieldName: file.FieldName,
			TypeName:  file.TypeName,
			Content:   []byte(file.Content),
		}
	}

	created, err := httpserver.submSrvc.CreateSubm(r.Context(), subm.CreateSubmParams{
		TaskShortID:    request.TaskShortID,
		ContestShortID: request.ContestShortID,
		AuthorUUID:     authorUUID,
		Files:          files,
	})
	if err != nil {
		handleJsonSrvcError(logger, w, err)
		return
	}

	writeJsonSuccessResponse(w, mapSubm(created, nil))
}
