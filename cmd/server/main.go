package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/olimps/backend/archive"
	"github.com/olimps/backend/conf"
	"github.com/olimps/backend/evalsrvc"
	"github.com/olimps/backend/http"
	"github.com/olimps/backend/subm"
	"github.com/olimps/backend/subm/pgrepo"
	"github.com/olimps/backend/taskmaker"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		panic("Error loading .env file")
	}

	jwtKey := os.Getenv("JWT_KEY")
	if jwtKey == "" {
		slog.Error("JWT_KEY is not set")
		os.Exit(1)
	}

	pool, err := pgxpool.New(context.Background(), conf.GetPgConnStrFromEnv())
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	repo := pgrepo.NewPgRepo(pool)

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "/var/lib/olimps"
	}

	fetcher, err := archive.NewS3Fetcher(
		os.Getenv("S3_REGION"), os.Getenv("TASK_ARCHIVE_BUCKET"))
	if err != nil {
		slog.Error("failed to set up archive fetcher", "error", err)
		os.Exit(1)
	}
	archives := archive.NewRegistry(filepath.Join(dataDir, "archives"), fetcher)

	contestArchives, err := conf.GetContestArchivesFromEnv()
	if err != nil {
		slog.Error("failed to read contest archives", "error", err)
		os.Exit(1)
	}
	contests := evalsrvc.StaticContestStore(contestArchives)

	workerPath := os.Getenv("TASK_MAKER_PATH")
	if workerPath == "" {
		workerPath = "task-maker-rust"
	}
	runner := taskmaker.NewRunner(workerPath)

	evalSrvc := evalsrvc.NewSrvc(repo, archives, contests, runner,
		filepath.Join(dataDir, "scratch"))
	submSrvc := subm.NewSrvc(repo, repo, evalSrvc, evalSrvc)

	allowedOrigins := strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",")
	httpServer := http.NewHttpServer(submSrvc, evalSrvc, []byte(jwtKey), allowedOrigins)

	address := ":8080"
	log.Printf("Starting server on %s", address)
	err = httpServer.Start(address)
	log.Printf("Server stopped with error: %v", err)
}
