// Package pgrepo implements the submission and evaluation repositories
// on Postgres via pgx.
package pgrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olimps/backend/logger"
	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/taskmaker"
)

type PgRepo struct {
	pool *pgxpool.Pool
}

func NewPgRepo(pool *pgxpool.Pool) *PgRepo {
	return &PgRepo{pool: pool}
}

func (r *PgRepo) StoreSubm(ctx context.Context, subm domain.Subm) error {
	log := logger.FromContext(ctx)
	log.Debug("storing submission", "subm_uuid", subm.UUID)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO submissions (uuid, task_short_id, contest_short_id, author_uuid, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, subm.UUID, subm.TaskShortID, subm.ContestShortID, subm.AuthorUUID, subm.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}

	for i, file := range subm.Files {
		_, err = tx.Exec(ctx, `
			INSERT INTO submission_files (subm_uuid, position, field_name, type_name, content)
			VALUES ($1, $2, $3, $4, $5)
		`, subm.UUID, i, file.FieldName, file.TypeName, file.Content)
		if err != nil {
			return fmt.Errorf("failed to insert submission file %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *PgRepo) GetSubm(ctx context.Context, submUUID uuid.UUID) (domain.Subm, error) {
	subm := domain.Subm{}
	err := r.pool.QueryRow(ctx, `
		SELECT uuid, task_short_id, contest_short_id, author_uuid, created_at
		FROM submissions WHERE uuid = $1
	`, submUUID).Scan(&subm.UUID, &subm.TaskShortID, &subm.ContestShortID,
		&subm.AuthorUUID, &subm.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Subm{}, domain.ErrSubmNotFound
	}
	if err != nil {
		return domain.Subm{}, fmt.Errorf("failed to query submission: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT field_name, type_name, content
		FROM submission_files WHERE subm_uuid = $1
		ORDER BY position
	`, submUUID)
	if err != nil {
		return domain.Subm{}, fmt.Errorf("failed to query submission files: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		file := domain.SubmFile{}
		if err := rows.Scan(&file.FieldName, &file.TypeName, &file.Content); err != nil {
			return domain.Subm{}, fmt.Errorf("failed to scan submission file: %w", err)
		}
		subm.Files = append(subm.Files, file)
	}
	if err := rows.Err(); err != nil {
		return domain.Subm{}, fmt.Errorf("failed to read submission files: %w", err)
	}
	return subm, nil
}

func (r *PgRepo) ListSubms(ctx context.Context, limit int) ([]domain.Subm, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT uuid, task_short_id, contest_short_id, author_uuid, created_at
		FROM submissions ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	res := []domain.Subm{}
	for rows.Next() {
		subm := domain.Subm{}
		err := rows.Scan(&subm.UUID, &subm.TaskShortID, &subm.ContestShortID,
			&subm.AuthorUUID, &subm.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		res = append(res, subm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return res, nil
}

func (r *PgRepo) CreateEval(ctx context.Context, eval domain.Eval) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO evaluations (uuid, subm_uuid, stage, created_at)
		VALUES ($1, $2, $3, $4)
	`, eval.UUID, eval.SubmUUID, eval.Stage, eval.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert evaluation: %w", err)
	}
	return nil
}

func (r *PgRepo) SetEvalStage(ctx context.Context, evalUUID uuid.UUID, stage domain.EvalStage) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE evaluations SET stage = $2 WHERE uuid = $1
	`, evalUUID, stage)
	if err != nil {
		return fmt.Errorf("failed to update evaluation stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEvalNotFound
	}
	return nil
}

// AppendEvents inserts one batch of events in a single transaction. The
// bigserial id assigns the arrival order; callers must not run two
// AppendEvents calls for the same evaluation concurrently.
func (r *PgRepo) AppendEvents(ctx context.Context, evalUUID uuid.UUID, events []domain.EvalEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, event := range events {
		data, err := taskmaker.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		batch.Queue(`
			INSERT INTO evaluation_events (eval_uuid, data) VALUES ($1, $2)
		`, evalUUID, data)
	}
	err := r.pool.SendBatch(ctx, batch).Close()
	if err != nil {
		return fmt.Errorf("failed to insert event batch: %w", err)
	}
	return nil
}

func (r *PgRepo) ListEvents(ctx context.Context, evalUUID uuid.UUID) ([]domain.EvalEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, eval_uuid, data, created_at
		FROM evaluation_events WHERE eval_uuid = $1
		ORDER BY id
	`, evalUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	res := []domain.EvalEvent{}
	for rows.Next() {
		event := domain.EvalEvent{}
		var data []byte
		if err := rows.Scan(&event.ID, &event.EvalUUID, &data, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event.Data, err = taskmaker.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stored event %d: %w", event.ID, err)
		}
		res = append(res, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return res, nil
}

func (r *PgRepo) StoreAchievements(ctx context.Context, achievements []domain.Achievement) error {
	if len(achievements) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ach := range achievements {
		batch.Queue(`
			INSERT INTO achievements (eval_uuid, award_index, grade) VALUES ($1, $2, $3)
		`, ach.EvalUUID, ach.AwardIndex, ach.Grade)
	}
	err := r.pool.SendBatch(ctx, batch).Close()
	if err != nil {
		return fmt.Errorf("failed to insert achievements: %w", err)
	}
	return nil
}

func (r *PgRepo) ListAchievements(ctx context.Context, evalUUID uuid.UUID) ([]domain.Achievement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, eval_uuid, award_index, grade, created_at
		FROM achievements WHERE eval_uuid = $1
		ORDER BY award_index
	`, evalUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	res := []domain.Achievement{}
	for rows.Next() {
		ach := domain.Achievement{}
		if err := rows.Scan(&ach.ID, &ach.EvalUUID, &ach.AwardIndex, &ach.Grade, &ach.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		res = append(res, ach)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}
	return res, nil
}

func (r *PgRepo) OfficialEval(ctx context.Context, submUUID uuid.UUID) (domain.Eval, error) {
	eval := domain.Eval{}
	err := r.pool.QueryRow(ctx, `
		SELECT uuid, subm_uuid, stage, created_at
		FROM evaluations
		WHERE subm_uuid = $1 AND stage = 'SUCCESS'
		ORDER BY created_at DESC
		LIMIT 1
	`, submUUID).Scan(&eval.UUID, &eval.SubmUUID, &eval.Stage, &eval.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Eval{}, domain.ErrNoOfficialEval
	}
	if err != nil {
		return domain.Eval{}, fmt.Errorf("failed to query official evaluation: %w", err)
	}
	return eval, nil
}

// BestAchievement selects the user's governing achievement for one award
// of a task: official (latest successful) evaluations only, maximum
// grade, ties broken by earliest achievement creation time.
func (r *PgRepo) BestAchievement(ctx context.Context, userUUID uuid.UUID, taskShortID string, awardIndex int) (domain.Achievement, error) {
	ach := domain.Achievement{}
	err := r.pool.QueryRow(ctx, `
		WITH official_evaluations AS (
			SELECT DISTINCT ON (e.subm_uuid) e.uuid, e.subm_uuid
			FROM evaluations e
			WHERE e.stage = 'SUCCESS'
			ORDER BY e.subm_uuid, e.created_at DESC
		)
		SELECT a.id, a.eval_uuid, a.award_index, a.grade, a.created_at
		FROM achievements a
			JOIN official_evaluations e ON a.eval_uuid = e.uuid
			JOIN submissions s ON e.subm_uuid = s.uuid
		WHERE s.author_uuid = $1
			AND s.task_short_id = $2
			AND a.award_index = $3
		ORDER BY a.grade DESC, a.created_at
		LIMIT 1
	`, userUUID, taskShortID, awardIndex).Scan(
		&ach.ID, &ach.EvalUUID, &ach.AwardIndex, &ach.Grade, &ach.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Achievement{}, domain.ErrNoAchievement
	}
	if err != nil {
		return domain.Achievement{}, fmt.Errorf("failed to query best achievement: %w", err)
	}
	return ach, nil
}
