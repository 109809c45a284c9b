package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/olimps/backend/taskmaker"
)

// EvalStage is the lifecycle state of an evaluation attempt. An
// evaluation is created pending and transitions exactly once to success
// or error, after which it is immutable.
type EvalStage string

const (
	EvalStagePending EvalStage = "PENDING"
	EvalStageSuccess EvalStage = "SUCCESS"
	EvalStageError   EvalStage = "ERROR"
)

// Eval is one grading attempt of a submission. A submission may have
// many evaluations (re-grading); the official one is the most recently
// created evaluation that succeeded.
type Eval struct {
	UUID      uuid.UUID
	SubmUUID  uuid.UUID
	Stage     EvalStage
	CreatedAt time.Time
}

// EvalEvent is one line of the grading worker's output, persisted in
// arrival order. Events are append-only. ID is the storage-assigned
// serial that preserves arrival order within an evaluation.
type EvalEvent struct {
	ID        int64
	EvalUUID  uuid.UUID
	Data      taskmaker.Event
	CreatedAt time.Time
}
