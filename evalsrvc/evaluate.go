package evalsrvc

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/olimps/backend/logger"
	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/task"
	"github.com/olimps/backend/taskmaker"
)

// Evaluate runs one grading attempt for the submission and returns the
// finalized evaluation. The evaluation transitions PENDING -> SUCCESS or
// PENDING -> ERROR exactly once; there are no retries here, re-grading
// is a new Evaluate call. Failures of the attempt itself (worker missing,
// nonzero exit, malformed stream, timeout) finalize the evaluation as
// ERROR and are not returned as errors; the returned error covers only
// the inability to even record the attempt.
//
// Concurrent attempts for the same submission are not serialized here;
// avoiding them is the caller's responsibility.
func (s *Srvc) Evaluate(ctx context.Context, subm domain.Subm) (domain.Eval, error) {
	ctx = logger.WithSubmID(ctx, subm.UUID.String())
	log := logger.FromContext(ctx)
	log.Info("evaluating submission", "task", subm.TaskShortID, "contest", subm.ContestShortID)

	taskDir, err := s.taskDir(ctx, subm.ContestShortID, subm.TaskShortID)
	if err != nil {
		return domain.Eval{}, err
	}
	material, err := task.LoadMaterial(taskDir)
	if err != nil {
		return domain.Eval{}, fmt.Errorf("failed to load task material: %w", err)
	}

	evalUUID, err := uuid.NewV7()
	if err != nil {
		return domain.Eval{}, fmt.Errorf("failed to generate UUID: %w", err)
	}
	ctx = logger.WithEvalID(ctx, evalUUID.String())
	log = logger.FromContext(ctx)

	// the solution path is unique per evaluation so that concurrent
	// attempts never collide on disk
	solutionPath, err := s.extractSolution(subm, evalUUID)
	if err != nil {
		return domain.Eval{}, fmt.Errorf("failed to extract solution: %w", err)
	}

	eval := domain.Eval{
		UUID:      evalUUID,
		SubmUUID:  subm.UUID,
		Stage:     domain.EvalStagePending,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateEval(ctx, eval); err != nil {
		return domain.Eval{}, fmt.Errorf("failed to create evaluation: %w", err)
	}

	stage := s.run(ctx, eval, material, taskDir, solutionPath)

	if err := s.repo.SetEvalStage(ctx, eval.UUID, stage); err != nil {
		return domain.Eval{}, fmt.Errorf("failed to finalize evaluation: %w", err)
	}
	eval.Stage = stage
	log.Info("evaluation finished", "stage", stage)
	return eval, nil
}

// run spawns the worker and drives it to completion, returning the final
// stage. All failure modes map to ERROR; the reasons are logged.
func (s *Srvc) run(
	ctx context.Context,
	eval domain.Eval,
	material *task.Material,
	taskDir string,
	solutionPath string,
) domain.EvalStage {
	log := logger.FromContext(ctx)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	worker, err := s.runner.Start(runCtx, taskDir, solutionPath)
	if err != nil {
		// spawn failure: no events were produced, nothing to persist
		log.Error("failed to spawn grading worker", "error", err)
		return domain.EvalStageError
	}

	events := make(chan taskmaker.Event, maxBatchSize)
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer close(events)
		scanner := bufio.NewScanner(worker.Stdout())
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			ev, err := taskmaker.Parse(line)
			if err != nil {
				// a malformed line is a fatal stream error: abort the
				// attempt rather than silently dropping output
				cancel()
				return err
			}
			select {
			case events <- ev:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return scanner.Err()
	})

	g.Go(func() error {
		return flushEvents(events, func(batch []domain.EvalEvent) error {
			log.Debug("persisting buffered events", "count", len(batch))
			return s.repo.AppendEvents(ctx, eval.UUID, batch)
		})
	})

	streamErr := g.Wait()
	exitCode, waitErr := worker.Wait()

	if streamErr != nil {
		log.Error("evaluation stream failed", "error", streamErr)
		return domain.EvalStageError
	}
	if waitErr != nil {
		log.Error("failed to observe worker exit", "error", waitErr)
		return domain.EvalStageError
	}
	if exitCode != 0 {
		// grading infrastructure failure; persisted events are kept for
		// diagnostics but yield no achievements
		log.Error("grading worker failed", "exit_code", exitCode)
		return domain.EvalStageError
	}

	if err := s.storeAchievements(ctx, eval.UUID, material); err != nil {
		log.Error("failed to store achievements", "error", err)
		return domain.EvalStageError
	}
	return domain.EvalStageSuccess
}

// storeAchievements rereads the persisted event stream and derives one
// achievement per achievement-bearing event.
func (s *Srvc) storeAchievements(ctx context.Context, evalUUID uuid.UUID, material *task.Material) error {
	events, err := s.repo.ListEvents(ctx, evalUUID)
	if err != nil {
		return fmt.Errorf("failed to list persisted events: %w", err)
	}
	achievements, err := achievementsFromEvents(evalUUID, material, events)
	if err != nil {
		return err
	}
	if err := s.repo.StoreAchievements(ctx, achievements); err != nil {
		return fmt.Errorf("failed to store achievements: %w", err)
	}
	return nil
}

// extractSolution writes the submission's files into a scratch directory
// and returns the path of the first file, which is the solution handed to
// the worker.
func (s *Srvc) extractSolution(subm domain.Subm, evalUUID uuid.UUID) (string, error) {
	if len(subm.Files) == 0 {
		return "", fmt.Errorf("submission %s has no files", subm.UUID)
	}
	dir := filepath.Join(s.scratchDir, "submission", subm.UUID.String(), evalUUID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create submission dir: %w", err)
	}
	solutionPath := ""
	for _, file := range subm.Files {
		path := filepath.Join(dir, fmt.Sprintf("%s.%s", file.FieldName, file.TypeName))
		if err := os.WriteFile(path, file.Content, 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %w", path, err)
		}
		if solutionPath == "" {
			solutionPath = path
		}
	}
	return solutionPath, nil
}
