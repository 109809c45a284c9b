package http

import (
	"time"

	"github.com/olimps/backend/grade"
	"github.com/olimps/backend/subm/domain"
)

// SubmFile is one submitted file. Content is returned as-is; submissions
// are small source files.
type SubmFile struct {
	FieldName string `json:"field_name"`
	TypeName  string `json:"type_name"`
	Content   string `json:"content"`
}

// Evaluation is one grading attempt of a submission.
type Evaluation struct {
	UUID      string `json:"uuid"`
	Stage     string `json:"stage"`
	CreatedAt string `json:"created_at"`
}

// Submission is a contestant's submission together with its official
// evaluation, when one exists.
type Submission struct {
	SubmUUID       string      `json:"subm_uuid"`
	TaskShortID    string      `json:"task_short_id"`
	ContestShortID string      `json:"contest_short_id"`
	AuthorUUID     string      `json:"author_uuid"`
	Files          []SubmFile  `json:"files"`
	CreatedAt      string      `json:"created_at"`
	OfficialEval   *Evaluation `json:"official_eval,omitempty"`
}

// BestGrade is a user's standing on one award of a task.
type BestGrade struct {
	Kind       string            `json:"kind"` // "score" or "fulfillment"
	Score      *float64          `json:"score,omitempty"`
	ScoreRange *grade.ScoreRange `json:"score_range,omitempty"`
	Fulfilled  *bool             `json:"fulfilled,omitempty"`
}

func mapSubm(subm domain.Subm, official *domain.Eval) Submission {
	files := make([]SubmFile, len(subm.Files))
	for i, file := range subm.Files {
		files[i] = SubmFile{
			FieldName: file.FieldName,
			TypeName:  file.TypeName,
			Content:   string(file.Content),
		}
	}
	res := Submission{
		SubmUUID:       subm.UUID.String(),
		TaskShortID:    subm.TaskShortID,
		ContestShortID: subm.ContestShortID,
		AuthorUUID:     subm.AuthorUUID.String(),
		Files:          files,
		CreatedAt:      subm.CreatedAt.Format(time.RFC3339),
	}
	if official != nil {
		res.OfficialEval = &Evaluation{
			UUID:      official.UUID.String(),
			Stage:     string(official.Stage),
			CreatedAt: official.CreatedAt.Format(time.RFC3339),
		}
	}
	return res
}

func mapGradeValue(v grade.Value) BestGrade {
	switch g := v.(type) {
	case grade.ScoreGrade:
		score := g.Score
		r := g.Range
		return BestGrade{Kind: "score", Score: &score, ScoreRange: &r}
	case grade.FulfillmentGrade:
		fulfilled := g.Fulfilled
		return BestGrade{Kind: "fulfillment", Fulfilled: &fulfilled}
	}
	return BestGrade{}
}
