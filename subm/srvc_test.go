package subm

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/olimps/backend/grade"
	"github.com/olimps/backend/subm/domain"
	"github.com/olimps/backend/task"
)

// testMaterial has a fulfillment award (2 test cases) followed by a
// 100-point score award (3 test cases), with a 1 second / 256 MiB limit.
func testMaterial() *task.Material {
	return &task.Material{
		Awards: []task.Award{
			{
				Index:     0,
				Name:      "subtask.0",
				Title:     "Subtask 0",
				Domain:    grade.FulfillmentDomain{},
				Testcases: 2,
			},
			{
				Index: 1,
				Name:  "subtask.1",
				Title: "Subtask 1",
				Domain: grade.ScoreDomain{Range: grade.ScoreRange{
					Max:          100,
					AllowPartial: true,
				}},
				Testcases: 3,
			},
		},
		Limits: task.Limits{TimeSec: 1.0, MemoryMiB: 256},
	}
}

type staticMaterials struct {
	material *task.Material
}

func (s staticMaterials) Material(ctx context.Context, contestShortID string, taskShortID string) (*task.Material, error) {
	return s.material, nil
}

type noopEvaluator struct{}

func (noopEvaluator) Evaluate(ctx context.Context, subm domain.Subm) (domain.Eval, error) {
	return domain.Eval{}, nil
}

func newTestSrvc(repo *InMemRepo) *Srvc {
	return NewSrvc(repo, repo, noopEvaluator{}, staticMaterials{material: testMaterial()})
}

// storeSubmWithEval seeds one submission with one evaluation in the
// given stage and returns both UUIDs.
func storeSubmWithEval(t *testing.T, repo *InMemRepo, author uuid.UUID,
	stage domain.EvalStage, createdAt time.Time) (uuid.UUID, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	submUUID := uuid.New()
	require.NoError(t, repo.StoreSubm(ctx, domain.Subm{
		UUID:           submUUID,
		TaskShortID:    "summing",
		ContestShortID: "contest",
		AuthorUUID:     author,
		Files:          []domain.SubmFile{{FieldName: "solution", TypeName: "cpp", Content: []byte("int main(){}")}},
		CreatedAt:      createdAt,
	}))

	evalUUID := uuid.New()
	require.NoError(t, repo.CreateEval(ctx, domain.Eval{
		UUID:      evalUUID,
		SubmUUID:  submUUID,
		Stage:     stage,
		CreatedAt: createdAt,
	}))
	return submUUID, evalUUID
}
