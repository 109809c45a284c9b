package subm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olimps/backend/subm/domain"
)

func TestSummaryRowWithOfficialEval(t *testing.T) {
	repo := NewInMemRepo()
	srvc := newTestSrvc(repo)
	ctx := context.Background()

	submUUID, evalUUID := storeSubmWithEval(t, repo, uuid.New(), domain.EvalStageSuccess, time.Now())
	storeAchievement(t, repo, evalUUID, 0, 1, time.Now())
	storeAchievement(t, repo, evalUUID, 1, 60, time.Now())

	row, err := srvc.SummaryRow(ctx, submUUID)
	require.NoError(t, err)
	require.Len(t, row.Fields, 3) // fulfillment award, score award, total

	assert.Equal(t, SummaryFieldFulfillment, row.Fields[0].Kind)
	require.NotNil(t, row.Fields[0].Fulfilled)
	assert.True(t, *row.Fields[0].Fulfilled)

	assert.Equal(t, SummaryFieldScore, row.Fields[1].Kind)
	require.NotNil(t, row.Fields[1].Score)
	assert.Equal(t, 60.0, *row.Fields[1].Score)
	require.NotNil(t, row.Fields[1].ScoreRange)
	assert.Equal(t, 100.0, row.Fields[1].ScoreRange.Max)

	// total sums score-domain awards only
	assert.Equal(t, SummaryFieldScore, row.Fields[2].Kind)
	require.NotNil(t, row.Fields[2].Score)
	assert.Equal(t, 60.0, *row.Fields[2].Score)
	assert.Equal(t, 100.0, row.Fields[2].ScoreRange.Max)
}

func TestSummaryRowWithoutOfficialEval(t *testing.T) {
	repo := NewInMemRepo()
	srvc := newTestSrvc(repo)

	submUUID, _ := storeSubmWithEval(t, repo, uuid.New(), domain.EvalStagePending, time.Now())

	row, err := srvc.SummaryRow(context.Background(), submUUID)
	require.NoError(t, err)
	require.Len(t, row.Fields, 3)
	for _, field := range row.Fields {
		assert.Nil(t, field.Score)
		assert.Nil(t, field.Fulfilled)
	}
	// ranges are known even when values are not
	require.NotNil(t, row.Fields[1].ScoreRange)
	assert.Equal(t, 100.0, row.Fields[1].ScoreRange.Max)
}

func TestSummaryRowWithPartialAchievements(t *testing.T) {
	repo := NewInMemRepo()
	srvc := newTestSrvc(repo)
	ctx := context.Background()

	// a successful evaluation that produced an achievement for only the
	// score award: the fulfillment field stays absent, the total is the
	// sum over what exists
	submUUID, evalUUID := storeSubmWithEval(t, repo, uuid.New(), domain.EvalStageSuccess, time.Now())
	storeAchievement(t, repo, evalUUID, 1, 40, time.Now())

	row, err := srvc.SummaryRow(ctx, submUUID)
	require.NoError(t, err)
	assert.Nil(t, row.Fields[0].Fulfilled)
	require.NotNil(t, row.Fields[1].Score)
	assert.Equal(t, 40.0, *row.Fields[1].Score)
	require.NotNil(t, row.Fields[2].Score)
	assert.Equal(t, 40.0, *row.Fields[2].Score)
}

func TestSummaryRowUnknownSubmission(t *testing.T) {
	repo := NewInMemRepo()
	srvc := newTestSrvc(repo)

	_, err := srvc.SummaryRow(context.Background(), uuid.New())
	require.Error(t, err)
}
