package subm

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/olimps/backend/grade"
	"github.com/olimps/backend/subm/domain"
)

const (
	SummaryFieldScore       = "score"
	SummaryFieldFulfillment = "fulfillment"
)

// SummaryField is one cell of a submission's summary row: either a score
// over a range or a fulfillment flag. Value pointers are nil while the
// submission has no official result for the award.
type SummaryField struct {
	Kind       string            `json:"kind"`
	Score      *float64          `json:"score,omitempty"`
	ScoreRange *grade.ScoreRange `json:"score_range,omitempty"`
	Fulfilled  *bool             `json:"fulfilled,omitempty"`
}

// SummaryRow is the per-award standing of one submission, closed by a
// total score field over the problem's full score range.
type SummaryRow struct {
	Fields []SummaryField `json:"fields"`
}

// SummaryRow builds the summary of one submission from its own official
// evaluation (not across submissions): one field per award, classified
// by the award's grade domain, plus a final total field summing all
// score-domain awards. Fulfillment awards never contribute to the total.
func (s *Srvc) SummaryRow(ctx context.Context, submUUID uuid.UUID) (SummaryRow, error) {
	subm, err := s.submRepo.GetSubm(ctx, submUUID)
	if err != nil {
		return SummaryRow{}, mapRepoErr(err)
	}
	material, err := s.materials.Material(ctx, subm.ContestShortID, subm.TaskShortID)
	if err != nil {
		return SummaryRow{}, err
	}

	achByAward := map[int]domain.Achievement{}
	hasOfficial := false
	official, err := s.evalRepo.OfficialEval(ctx, submUUID)
	if err != nil && !errors.Is(err, domain.ErrNoOfficialEval) {
		return SummaryRow{}, err
	}
	if err == nil {
		hasOfficial = true
		achievements, err := s.evalRepo.ListAchievements(ctx, official.UUID)
		if err != nil {
			return SummaryRow{}, err
		}
		for _, ach := range achievements {
			achByAward[ach.AwardIndex] = ach
		}
	}

	row := SummaryRow{}
	scoreGrades := []grade.ScoreGrade{}
	for _, award := range material.Awards {
		ach, found := achByAward[award.Index]
		switch d := award.Domain.(type) {
		case grade.ScoreDomain:
			field := SummaryField{Kind: SummaryFieldScore, ScoreRange: &d.Range}
			if found {
				g := ach.ScoreGrade(d)
				field.Score = &g.Score
				scoreGrades = append(scoreGrades, g)
			}
			row.Fields = append(row.Fields, field)
		case grade.FulfillmentDomain:
			field := SummaryField{Kind: SummaryFieldFulfillment}
			if found {
				g := ach.FulfillmentGrade()
				field.Fulfilled = &g.Fulfilled
			}
			row.Fields = append(row.Fields, field)
		default:
			return SummaryRow{}, srvcInternal(grade.ErrUnknownDomain(award.Domain))
		}
	}

	totalRange := material.ScoreRange()
	totalField := SummaryField{Kind: SummaryFieldScore, ScoreRange: &totalRange}
	if hasOfficial {
		total := grade.Total(scoreGrades)
		totalField.Score = &total.Score
	}
	row.Fields = append(row.Fields, totalField)
	return row, nil
}
