package taskmaker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTestcaseScore(t *testing.T) {
	line := `{"IOITestcaseScore":{"testcase":3,"score":0.5,"message":"Partially correct"}}`
	ev, err := Parse([]byte(line))
	require.NoError(t, err)

	score, ok := ev.(TestcaseScore)
	require.True(t, ok)
	assert.Equal(t, 3, score.Testcase)
	assert.Equal(t, 0.5, score.Score)
	require.NotNil(t, score.Message)
	assert.Equal(t, "Partially correct", *score.Message)
}

func TestParseTestcaseScoreNullMessage(t *testing.T) {
	line := `{"IOITestcaseScore":{"testcase":0,"score":1.0,"message":null}}`
	ev, err := Parse([]byte(line))
	require.NoError(t, err)

	score, ok := ev.(TestcaseScore)
	require.True(t, ok)
	assert.Nil(t, score.Message)
}

func TestParseTestcaseDone(t *testing.T) {
	line := `{"IOIEvaluation":{"testcase":1,"status":{"Done":{"result":{"resources":{"cpu_time":0.05,"memory":1024}}}}}}`
	ev, err := Parse([]byte(line))
	require.NoError(t, err)

	done, ok := ev.(TestcaseDone)
	require.True(t, ok)
	assert.Equal(t, 1, done.Testcase)
	assert.Equal(t, 0.05, done.Resources.CpuTimeSec)
	assert.Equal(t, int64(1024), done.Resources.MemoryKiB)
}

func TestParseNonDoneEvaluationIsRaw(t *testing.T) {
	line := `{"IOIEvaluation":{"testcase":1,"status":{"Started":{}}}}`
	ev, err := Parse([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, RawType, ev.Type())
}

func TestParseSubtaskScore(t *testing.T) {
	line := `{"IOISubtaskScore":{"subtask":2,"normalized_score":1.0,"score":40}}`
	ev, err := Parse([]byte(line))
	require.NoError(t, err)

	subtask, ok := ev.(SubtaskScore)
	require.True(t, ok)
	assert.Equal(t, 2, subtask.Subtask)
	assert.Equal(t, 40.0, subtask.Score)
}

func TestParseUnknownTagIsRaw(t *testing.T) {
	line := `{"Compiling":{"file":"solution.cpp"}}`
	ev, err := Parse([]byte(line))
	require.NoError(t, err)

	raw, ok := ev.(Raw)
	require.True(t, ok)
	assert.JSONEq(t, line, string(raw.Data))
}

func TestParseMalformedLineIsError(t *testing.T) {
	_, err := Parse([]byte(`this is not json`))
	assert.Error(t, err)
}

// Persisted events are stored in wire form; the nested "Done" shape has
// to survive the round trip.
func TestMarshalTestcaseDoneRoundTrip(t *testing.T) {
	done := TestcaseDone{Testcase: 4, Resources: Resources{CpuTimeSec: 1.5, MemoryKiB: 2048}}
	data, err := Marshal(done)
	require.NoError(t, err)

	ev, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, done, ev)
}
