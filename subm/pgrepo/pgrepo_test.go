package pgrepo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/peterldowns/pgtestdb"
	"github.com/peterldowns/pgtestdb/migrators/golangmigrator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/taskmaker"
)

// NewDB returns a connection pool to a unique and isolated test database,
// fully migrated and ready for testing. Requires a local Postgres; set
// TEST_POSTGRES_HOST to enable.
func NewDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	host := os.Getenv("TEST_POSTGRES_HOST")
	if host == "" {
		t.Skip("TEST_POSTGRES_HOST not set, skipping Postgres repo tests")
	}
	ctx := context.Background()
	conf := pgtestdb.Config{
		DriverName: "pgx",
		User:       "olimps",
		Password:   "olimps",
		Host:       host,
		Port:       "5432",
		Options:    "sslmode=disable",
	}
	gm := golangmigrator.New("../../migrate")
	config := pgtestdb.Custom(t, conf, gm)

	pool, err := pgxpool.New(ctx, config.URL())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func storeSubmWithEval(t *testing.T, repo *PgRepo, author uuid.UUID, taskID string,
	submAt time.Time, stage domain.EvalStage) (domain.Subm, domain.Eval) {
	t.Helper()
	ctx := context.Background()

	subm := domain.Subm{
		UUID:           uuid.New(),
		TaskShortID:    taskID,
		ContestShortID: "contest",
		AuthorUUID:     author,
		Files: []domain.SubmFile{
			{FieldName: "solution", TypeName: "cpp", Content: []byte("int main() {}")},
		},
		CreatedAt: submAt,
	}
	require.NoError(t, repo.StoreSubm(ctx, subm))

	eval := domain.Eval{
		UUID:      uuid.New(),
		SubmUUID:  subm.UUID,
		Stage:     stage,
		CreatedAt: submAt,
	}
	require.NoError(t, repo.CreateEval(ctx, eval))
	return subm, eval
}

func TestStoreAndGetSubm(t *testing.T) {
	repo := NewPgRepo(NewDB(t))
	ctx := context.Background()

	subm, _ := storeSubmWithEval(t, repo, uuid.New(), "summation",
		time.Now().UTC(), domain.EvalStagePending)

	got, err := repo.GetSubm(ctx, subm.UUID)
	require.NoError(t, err)
	assert.Equal(t, subm.TaskShortID, got.TaskShortID)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "solution", got.Files[0].FieldName)

	_, err = repo.GetSubm(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSubmNotFound)
}

func TestEventsKeepArrivalOrder(t *testing.T) {
	repo := NewPgRepo(NewDB(t))
	ctx := context.Background()

	_, eval := storeSubmWithEval(t, repo, uuid.New(), "summation",
		time.Now().UTC(), domain.EvalStagePending)

	// two sequential batches, 25 events total
	first := []domain.EvalEvent{}
	for i := 0; i < 20; i++ {
		first = append(first, domain.EvalEvent{
			Data: taskmaker.TestcaseScore{Testcase: i, Score: 1},
		})
	}
	second := []domain.EvalEvent{}
	for i := 20; i < 25; i++ {
		second = append(second, domain.EvalEvent{
			Data: taskmaker.TestcaseScore{Testcase: i, Score: 1},
		})
	}
	require.NoError(t, repo.AppendEvents(ctx, eval.UUID, first))
	require.NoError(t, repo.AppendEvents(ctx, eval.UUID, second))

	events, err := repo.ListEvents(ctx, eval.UUID)
	require.NoError(t, err)
	require.Len(t, events, 25)
	for i, event := range events {
		score, ok := event.Data.(taskmaker.TestcaseScore)
		require.True(t, ok)
		assert.Equal(t, i, score.Testcase)
	}
}

func TestOfficialEvalIsLatestSuccess(t *testing.T) {
	repo := NewPgRepo(NewDB(t))
	ctx := context.Background()

	author := uuid.New()
	subm, _ := storeSubmWithEval(t, repo, author, "summation",
		time.Now().UTC().Add(-time.Hour), domain.EvalStageSuccess)

	// a later errored evaluation does not become official
	errored := domain.Eval{
		UUID:      uuid.New(),
		SubmUUID:  subm.UUID,
		Stage:     domain.EvalStageError,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateEval(ctx, errored))

	later := domain.Eval{
		UUID:      uuid.New(),
		SubmUUID:  subm.UUID,
		Stage:     domain.EvalStageSuccess,
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}
	require.NoError(t, repo.CreateEval(ctx, later))

	official, err := repo.OfficialEval(ctx, subm.UUID)
	require.NoError(t, err)
	assert.Equal(t, later.UUID, official.UUID)
}

func TestBestAchievementTieBreak(t *testing.T) {
	repo := NewPgRepo(NewDB(t))
	ctx := context.Background()

	author := uuid.New()
	base := time.Now().UTC().Add(-2 * time.Hour)

	_, evalA := storeSubmWithEval(t, repo, author, "summation", base, domain.EvalStageSuccess)
	_, evalB := storeSubmWithEval(t, repo, author, "summation", base.Add(time.Hour), domain.EvalStageSuccess)

	// A reaches grade 7 before B does: A must win the tie
	require.NoError(t, repo.StoreAchievements(ctx, []domain.Achievement{
		{EvalUUID: evalA.UUID, AwardIndex: 1, Grade: 7},
	}))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, repo.StoreAchievements(ctx, []domain.Achievement{
		{EvalUUID: evalB.UUID, AwardIndex: 1, Grade: 7},
	}))

	best, err := repo.BestAchievement(ctx, author, "summation", 1)
	require.NoError(t, err)
	assert.Equal(t, evalA.UUID, best.EvalUUID)

	_, err = repo.BestAchievement(ctx, author, "summation", 2)
	assert.ErrorIs(t, err, domain.ErrNoAchievement)
}
