package task

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/olimps/backend/grade"
)

// Award is one scored unit of a problem, identified by its index within
// the problem. An IOI-style subtask maps to one award.
type Award struct {
	Index     int
	Name      string // identifier, shown to admins only
	Title     string // display name for contestants
	Domain    grade.Domain
	Testcases int // number of test cases covered by this award
}

// Limits are the resource constraints a solution is judged against.
type Limits struct {
	TimeSec   float64 // CPU time limit in seconds
	MemoryMiB int     // memory limit in mebibytes
}

// Material is everything read-side code needs to know about a problem:
// its awards with their grade domains, its limits, and the total score
// range over all score-domain awards.
type Material struct {
	Awards []Award
	Limits Limits
}

// ScoreRange is the problem's total score range: the sum of the ranges of
// all score-domain awards.
func (m *Material) ScoreRange() grade.ScoreRange {
	ranges := []grade.ScoreRange{}
	for _, award := range m.Awards {
		if d, ok := award.Domain.(grade.ScoreDomain); ok {
			ranges = append(ranges, d.Range)
		}
	}
	return grade.TotalScoreRange(ranges)
}

// Testcases is the total number of test cases over all awards.
func (m *Material) Testcases() int {
	n := 0
	for _, award := range m.Awards {
		n += award.Testcases
	}
	return n
}

type pTomlSubtask struct {
	MaxScore  float64 `toml:"max_score"`
	Testcases int     `toml:"testcases"`
}

type pTomlProblem struct {
	TaskName    string `toml:"task_name"`
	Constraints struct {
		CPUTimeLimitInSeconds  float64 `toml:"cpu_time_seconds"`
		MemoryLimitInMegabytes int     `toml:"memory_megabytes"`
	} `toml:"constraints"`
	Subtasks []pTomlSubtask `toml:"subtasks"`
}

// LoadMaterial reads and parses problem.toml from the given problem
// directory. A subtask with positive max_score becomes an award with a
// score domain; a zero-score subtask becomes a fulfillment award.
func LoadMaterial(problemDir string) (*Material, error) {
	bytes, err := os.ReadFile(filepath.Join(problemDir, "problem.toml"))
	if err != nil {
		return nil, fmt.Errorf("failed to read problem.toml: %w", err)
	}
	return ParseMaterial(bytes)
}

// ParseMaterial parses the problem.toml content of a problem.
func ParseMaterial(problemToml []byte) (*Material, error) {
	tomlStruct := pTomlProblem{}
	err := toml.Unmarshal(problemToml, &tomlStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal problem.toml: %w", err)
	}

	if tomlStruct.Constraints.CPUTimeLimitInSeconds <= 0 {
		return nil, fmt.Errorf("cpu_time_seconds must be positive")
	}
	if tomlStruct.Constraints.MemoryLimitInMegabytes <= 0 {
		return nil, fmt.Errorf("memory_megabytes must be positive")
	}
	if len(tomlStruct.Subtasks) == 0 {
		return nil, fmt.Errorf("at least one subtask is required")
	}

	awards := make([]Award, len(tomlStruct.Subtasks))
	for i, subtask := range tomlStruct.Subtasks {
		if subtask.Testcases <= 0 {
			return nil, fmt.Errorf("subtask %d has no testcases", i)
		}
		var domain grade.Domain
		if subtask.MaxScore > 0 {
			domain = grade.ScoreDomain{Range: grade.ScoreRange{
				Max:          subtask.MaxScore,
				AllowPartial: true,
			}}
		} else {
			domain = grade.FulfillmentDomain{}
		}
		awards[i] = Award{
			Index:     i,
			Name:      fmt.Sprintf("subtask.%d", i),
			Title:     fmt.Sprintf("Subtask %d", i),
			Domain:    domain,
			Testcases: subtask.Testcases,
		}
	}

	return &Material{
		Awards: awards,
		Limits: Limits{
			TimeSec:   tomlStruct.Constraints.CPUTimeLimitInSeconds,
			MemoryMiB: tomlStruct.Constraints.MemoryLimitInMegabytes,
		},
	}, nil
}
