// Package domain holds the submission data model: submissions, their
// evaluations, the raw evaluation event stream, and derived achievements.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubmFile is one file owned by a submission. Files keep the order in
// which they were submitted.
type SubmFile struct {
	FieldName string // name of the submission field, e.g. "solution"
	TypeName  string // file type name, e.g. "cpp"
	Content   []byte
}

// Subm is a contestant's submission. Submissions are created once and
// never mutated; only their satellite evaluations change over time.
type Subm struct {
	UUID           uuid.UUID
	TaskShortID    string
	ContestShortID string
	AuthorUUID     uuid.UUID
	Files          []SubmFile
	CreatedAt      time.Time
}
