package subm

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/olimps/backend/grade"
	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/task"
	"github.com/olimps/backend/taskmaker"
)

// Valence classifies a measured resource usage against the task's limit.
type Valence string

const (
	ValenceNominal Valence = "NOMINAL"
	ValenceWarning Valence = "WARNING"
	ValenceFailure Valence = "FAILURE"
)

const (
	// display bound for usage gauges, as a multiple of the limit
	limitsMarginMultiplier = 2
	// the worker reports memory in kilobytes
	memoryUnitBytes = 1024
	// the configured memory limit is itself in units of 1024 kilobytes
	memoryLimitUnitMultiplier = 1024
	// usage below this share of the limit is nominal
	warningWatermarkMultiplier = 0.2
)

// FeedbackRow is the report of one test case. Usage, message, and score
// are nil until a matching event has been observed; valences are nil
// whenever the corresponding usage is.
type FeedbackRow struct {
	AwardIndex    int `json:"award_index"`
	TestcaseIndex int `json:"testcase_index"`

	TimeUsageSec       *float64 `json:"time_usage_s,omitempty"`
	TimeValence        *Valence `json:"time_valence,omitempty"`
	TimeWatermarkSec   float64  `json:"time_watermark_s"`
	TimeMaxRelevantSec float64  `json:"time_max_relevant_s"`

	MemoryUsageBytes       *int64   `json:"memory_usage_bytes,omitempty"`
	MemoryValence          *Valence `json:"memory_valence,omitempty"`
	MemoryWatermarkBytes   int64    `json:"memory_watermark_bytes"`
	MemoryMaxRelevantBytes int64    `json:"memory_max_relevant_bytes"`

	Message *string `json:"message,omitempty"`

	Score      *float64         `json:"score,omitempty"`
	ScoreRange grade.ScoreRange `json:"score_range"`
}

type FeedbackTable struct {
	Rows []FeedbackRow `json:"rows"`
}

// FeedbackTable builds the per-test-case report of a submission from the
// events of its official evaluation. Without an official evaluation the
// rows exist but all measured values are absent.
func (s *Srvc) FeedbackTable(ctx context.Context, submUUID uuid.UUID) (FeedbackTable, error) {
	subm, err := s.submRepo.GetSubm(ctx, submUUID)
	if err != nil {
		return FeedbackTable{}, mapRepoErr(err)
	}
	material, err := s.materials.Material(ctx, subm.ContestShortID, subm.TaskShortID)
	if err != nil {
		return FeedbackTable{}, err
	}

	events := []domain.EvalEvent{}
	official, err := s.evalRepo.OfficialEval(ctx, submUUID)
	if err != nil && !errors.Is(err, domain.ErrNoOfficialEval) {
		return FeedbackTable{}, err
	}
	if err == nil {
		events, err = s.evalRepo.ListEvents(ctx, official.UUID)
		if err != nil {
			return FeedbackTable{}, err
		}
	}

	table, err := BuildFeedbackTable(material, events)
	if err != nil {
		return FeedbackTable{}, srvcInternal(err)
	}
	return table, nil
}

// BuildFeedbackTable produces one row per test case, grouped in award
// order then test-case order within the award. Test case indices in
// events are global across the whole task. Score and resource events for
// the same test case may arrive in either order; a later event
// overwrites the earlier value for its fields only.
func BuildFeedbackTable(material *task.Material, events []domain.EvalEvent) (FeedbackTable, error) {
	limits := material.Limits

	timeWatermark := limits.TimeSec
	memoryWatermark := int64(limits.MemoryMiB) * memoryLimitUnitMultiplier * memoryUnitBytes

	rows := []FeedbackRow{}
	for _, award := range material.Awards {
		for i := 0; i < award.Testcases; i++ {
			rows = append(rows, FeedbackRow{
				AwardIndex:             award.Index,
				TestcaseIndex:          len(rows),
				TimeWatermarkSec:       timeWatermark,
				TimeMaxRelevantSec:     timeWatermark * limitsMarginMultiplier,
				MemoryWatermarkBytes:   memoryWatermark,
				MemoryMaxRelevantBytes: memoryWatermark * limitsMarginMultiplier,
				ScoreRange: grade.ScoreRange{
					Max:           1,
					DecimalDigits: 2,
					AllowPartial:  true,
				},
			})
		}
	}

	for _, event := range events {
		switch ev := event.Data.(type) {
		case taskmaker.TestcaseScore:
			if ev.Testcase < 0 || ev.Testcase >= len(rows) {
				return FeedbackTable{}, fmt.Errorf(
					"event for test case %d but the task has %d", ev.Testcase, len(rows))
			}
			score := ev.Score
			rows[ev.Testcase].Score = &score
			rows[ev.Testcase].Message = ev.Message
		case taskmaker.TestcaseDone:
			if ev.Testcase < 0 || ev.Testcase >= len(rows) {
				return FeedbackTable{}, fmt.Errorf(
					"event for test case %d but the task has %d", ev.Testcase, len(rows))
			}
			timeUsage := ev.Resources.CpuTimeSec
			memoryUsage := ev.Resources.MemoryKiB * memoryUnitBytes
			rows[ev.Testcase].TimeUsageSec = &timeUsage
			rows[ev.Testcase].MemoryUsageBytes = &memoryUsage
		}
	}

	for i := range rows {
		row := &rows[i]
		if row.TimeUsageSec != nil {
			row.TimeValence = valencePtr(valenceOf(*row.TimeUsageSec, timeWatermark))
		}
		if row.MemoryUsageBytes != nil {
			row.MemoryValence = valencePtr(valenceOf(float64(*row.MemoryUsageBytes), float64(memoryWatermark)))
		}
	}

	return FeedbackTable{Rows: rows}, nil
}

func valenceOf(usage float64, limit float64) Valence {
	switch {
	case usage <= warningWatermarkMultiplier*limit:
		return ValenceNominal
	case usage <= limit:
		return ValenceWarning
	default:
		return ValenceFailure
	}
}

func valencePtr(v Valence) *Valence {
	return &v
}
