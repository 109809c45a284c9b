// Package taskmaker speaks the task-maker grading worker protocol: it
// launches the worker as a child process and decodes its line-delimited
// JSON event stream.
package taskmaker

import (
	"encoding/json"
	"fmt"
)

const (
	TestcaseScoreType = "testcase_score"
	TestcaseDoneType  = "testcase_done"
	SubtaskScoreType  = "subtask_score"
	RawType           = "raw"
)

// Event is one decoded line of the worker's stdout. Lines with an
// unrecognized tag decode to Raw so that the full stream can be persisted
// verbatim; interpreters skip Raw events.
type Event interface {
	Type() string
}

// TestcaseScore reports the score and checker message of one test case.
type TestcaseScore struct {
	Testcase int     `json:"testcase"`
	Score    float64 `json:"score"`
	Message  *string `json:"message"`
}

func (TestcaseScore) Type() string { return TestcaseScoreType }

// Resources is the measured resource usage of one test case run.
// Memory is reported by the worker in kilobytes.
type Resources struct {
	CpuTimeSec float64 `json:"cpu_time"`
	MemoryKiB  int64   `json:"memory"`
}

// TestcaseDone reports that a test case finished running, with its
// resource usage. Only the "Done" status of the wire event carries
// resources; other statuses decode to Raw.
type TestcaseDone struct {
	Testcase  int `json:"testcase"`
	Resources Resources
}

func (TestcaseDone) Type() string { return TestcaseDoneType }

// SubtaskScore reports the final score of one subtask. This is the
// achievement-bearing event kind.
type SubtaskScore struct {
	Subtask         int     `json:"subtask"`
	NormalizedScore float64 `json:"normalized_score"`
	Score           float64 `json:"score"`
}

func (SubtaskScore) Type() string { return SubtaskScoreType }

// Raw is a stream line that carried no tag this service interprets.
type Raw struct {
	Data json.RawMessage
}

func (Raw) Type() string { return RawType }

// wire shapes, discriminated by the single top-level tag key

type wireDone struct {
	Result struct {
		Resources Resources `json:"resources"`
	} `json:"result"`
}

type wireEvaluationStatus struct {
	Done *wireDone `json:"Done"`
}

type wireEvaluation struct {
	Testcase int                  `json:"testcase"`
	Status   wireEvaluationStatus `json:"status"`
}

type wireEvent struct {
	IOITestcaseScore *TestcaseScore  `json:"IOITestcaseScore"`
	IOIEvaluation    *wireEvaluation `json:"IOIEvaluation"`
	IOISubtaskScore  *SubtaskScore   `json:"IOISubtaskScore"`
}

// Parse decodes one stdout line of the worker. A line that is not valid
// JSON is an error; a valid JSON line with an unknown tag is a Raw event.
func Parse(line []byte) (Event, error) {
	var wire wireEvent
	if err := json.Unmarshal(line, &wire); err != nil {
		return nil, fmt.Errorf("malformed worker event line: %w", err)
	}
	switch {
	case wire.IOITestcaseScore != nil:
		return *wire.IOITestcaseScore, nil
	case wire.IOISubtaskScore != nil:
		return *wire.IOISubtaskScore, nil
	case wire.IOIEvaluation != nil && wire.IOIEvaluation.Status.Done != nil:
		return TestcaseDone{
			Testcase:  wire.IOIEvaluation.Testcase,
			Resources: wire.IOIEvaluation.Status.Done.Result.Resources,
		}, nil
	}
	return Raw{Data: json.RawMessage(append([]byte(nil), line...))}, nil
}
