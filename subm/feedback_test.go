package subm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/taskmaker"
)

func doneEvent(testcase int, cpuSec float64, memKiB int64) domain.EvalEvent {
	return domain.EvalEvent{Data: taskmaker.TestcaseDone{
		Testcase: testcase,
		Resources: taskmaker.Resources{
			CpuTimeSec: cpuSec,
			MemoryKiB:  memKiB,
		},
	}}
}

func scoreEvent(testcase int, score float64, message *string) domain.EvalEvent {
	return domain.EvalEvent{Data: taskmaker.TestcaseScore{
		Testcase: testcase,
		Score:    score,
		Message:  message,
	}}
}

func TestFeedbackRowsFollowAwardOrder(t *testing.T) {
	table, err := BuildFeedbackTable(testMaterial(), nil)
	require.NoError(t, err)
	require.Len(t, table.Rows, 5)

	wantAwards := []int{0, 0, 1, 1, 1}
	for i, row := range table.Rows {
		assert.Equal(t, wantAwards[i], row.AwardIndex)
		assert.Equal(t, i, row.TestcaseIndex)
		assert.Nil(t, row.TimeUsageSec)
		assert.Nil(t, row.TimeValence)
		assert.Nil(t, row.MemoryUsageBytes)
		assert.Nil(t, row.MemoryValence)
		assert.Nil(t, row.Message)
		assert.Nil(t, row.Score)
		assert.Equal(t, 1.0, row.ScoreRange.Max)
		assert.Equal(t, 2, row.ScoreRange.DecimalDigits)
		assert.True(t, row.ScoreRange.AllowPartial)
	}
}

func TestFeedbackTimeValenceThresholds(t *testing.T) {
	// limit is 1 second: nominal up to 0.2, warning up to 1.0
	events := []domain.EvalEvent{
		doneEvent(0, 0.1, 1000),
		doneEvent(1, 0.5, 1000),
		doneEvent(2, 1.5, 1000),
	}
	table, err := BuildFeedbackTable(testMaterial(), events)
	require.NoError(t, err)

	require.NotNil(t, table.Rows[0].TimeValence)
	assert.Equal(t, ValenceNominal, *table.Rows[0].TimeValence)
	assert.Equal(t, ValenceWarning, *table.Rows[1].TimeValence)
	assert.Equal(t, ValenceFailure, *table.Rows[2].TimeValence)
	assert.Nil(t, table.Rows[3].TimeValence)
	assert.Nil(t, table.Rows[4].TimeValence)

	assert.Equal(t, 1.0, table.Rows[0].TimeWatermarkSec)
	assert.Equal(t, 2.0, table.Rows[0].TimeMaxRelevantSec)
}

func TestFeedbackMemoryUnits(t *testing.T) {
	// worker reports kilobytes; the 256 MiB limit converts twice
	events := []domain.EvalEvent{doneEvent(0, 0.1, 250_000)}
	table, err := BuildFeedbackTable(testMaterial(), events)
	require.NoError(t, err)

	row := table.Rows[0]
	require.NotNil(t, row.MemoryUsageBytes)
	assert.Equal(t, int64(250_000*1024), *row.MemoryUsageBytes)
	assert.Equal(t, int64(256*1024*1024), row.MemoryWatermarkBytes)
	assert.Equal(t, int64(2*256*1024*1024), row.MemoryMaxRelevantBytes)
	require.NotNil(t, row.MemoryValence)
	assert.Equal(t, ValenceFailure, *row.MemoryValence)
}

func TestFeedbackScoreAndResourcesMergeInAnyOrder(t *testing.T) {
	msg := "wrong answer on line 3"
	events := []domain.EvalEvent{
		scoreEvent(2, 0.5, &msg),
		doneEvent(2, 0.3, 10_000),
	}
	table, err := BuildFeedbackTable(testMaterial(), events)
	require.NoError(t, err)

	row := table.Rows[2]
	require.NotNil(t, row.Score)
	assert.Equal(t, 0.5, *row.Score)
	require.NotNil(t, row.Message)
	assert.Equal(t, msg, *row.Message)
	require.NotNil(t, row.TimeUsageSec)
	assert.Equal(t, 0.3, *row.TimeUsageSec)
}

func TestFeedbackLaterEventOverwrites(t *testing.T) {
	events := []domain.EvalEvent{
		scoreEvent(0, 0.0, nil),
		scoreEvent(0, 1.0, nil),
	}
	table, err := BuildFeedbackTable(testMaterial(), events)
	require.NoError(t, err)
	require.NotNil(t, table.Rows[0].Score)
	assert.Equal(t, 1.0, *table.Rows[0].Score)
}

func TestFeedbackRejectsOutOfRangeTestcase(t *testing.T) {
	_, err := BuildFeedbackTable(testMaterial(), []domain.EvalEvent{
		scoreEvent(5, 1.0, nil),
	})
	require.Error(t, err)

	_, err = BuildFeedbackTable(testMaterial(), []domain.EvalEvent{
		doneEvent(-1, 0.1, 1000),
	})
	require.Error(t, err)
}

func TestFeedbackTableWithoutOfficialEval(t *testing.T) {
	repo := NewInMemRepo()
	srvc := newTestSrvc(repo)
	submUUID, _ := storeSubmWithEval(t, repo, uuid.New(), domain.EvalStageError, time.Now())

	table, err := srvc.FeedbackTable(context.Background(), submUUID)
	require.NoError(t, err)
	require.Len(t, table.Rows, 5)
	for _, row := range table.Rows {
		assert.Nil(t, row.Score)
		assert.Nil(t, row.TimeUsageSec)
	}
}

func TestFeedbackTableUsesOfficialEvalEvents(t *testing.T) {
	repo := NewInMemRepo()
	srvc := newTestSrvc(repo)
	ctx := context.Background()

	submUUID, evalUUID := storeSubmWithEval(t, repo, uuid.New(), domain.EvalStageSuccess, time.Now())
	require.NoError(t, repo.AppendEvents(ctx, evalUUID, []domain.EvalEvent{
		doneEvent(1, 0.4, 2000),
		scoreEvent(1, 1.0, nil),
	}))

	table, err := srvc.FeedbackTable(ctx, submUUID)
	require.NoError(t, err)
	row := table.Rows[1]
	require.NotNil(t, row.TimeUsageSec)
	assert.Equal(t, 0.4, *row.TimeUsageSec)
	require.NotNil(t, row.TimeValence)
	assert.Equal(t, ValenceWarning, *row.TimeValence)
	require.NotNil(t, row.Score)
	assert.Equal(t, 1.0, *row.Score)
}
