// Package http is the JSON HTTP API of the grading service.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"

	"github.com/olimps/backend/auth"
	"github.com/olimps/backend/subm"
)

type HttpServer struct {
	submSrvc  *subm.Srvc
	materials subm.MaterialStore
	router    *chi.Mux
}

func NewHttpServer(
	submSrvc *subm.Srvc,
	materials subm.MaterialStore,
	jwtKey []byte,
	allowedOrigins []string,
) *HttpServer {
	router := chi.NewRouter()

	logger := httplog.NewLogger("olimps", httplog.Options{
		LogLevel:         slog.LevelDebug,
		Concise:          true,
		RequestHeaders:   true,
		MessageFieldName: "message",
	})

	router.Use(httplog.RequestLogger(logger))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           3000,
	}))

	router.Use(auth.GetJwtAuthMiddleware(jwtKey))

	server := &HttpServer{
		submSrvc:  submSrvc,
		materials: materials,
		router:    router,
	}

	server.routes()

	return server
}

func (httpserver *HttpServer) Start(address string) error {
	return http.ListenAndServe(address, httpserver.router)
}

func (httpserver *HttpServer) routes() {
	r := httpserver.router
	r.Post("/submissions", httpserver.createSubmission)
	r.Get("/submissions", httpserver.listSubmissions)
	r.Get("/submissions/{submUuid}", httpserver.getSubmission)
	r.Post("/submissions/{submUuid}/reeval", httpserver.reevalSubmission)
	r.Get("/submissions/{submUuid}/feedback", httpserver.getSubmissionFeedback)
	r.Get("/submissions/{submUuid}/summary", httpserver.getSubmissionSummary)
	r.Get("/contests/{contestId}/tasks/{taskId}/best/{awardIndex}", httpserver.getBestGrade)
}
