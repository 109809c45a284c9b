package taskmaker

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Runner launches the task-maker worker executable with the fixed
// argument contract:
//
//	<worker> --ui=json --no-statement --task-dir <problemDir> --solution <solutionPath>
type Runner struct {
	execPath string
}

func NewRunner(execPath string) *Runner {
	return &Runner{execPath: execPath}
}

// Worker is a running grading process. Stdout must be consumed to EOF
// before Wait is called.
type Worker struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
}

// Start spawns the worker. The returned error covers spawn failure only
// (missing or unusable executable); grading failure is reported by Wait.
// Cancelling ctx kills the child process.
func (r *Runner) Start(ctx context.Context, taskDir string, solutionPath string) (*Worker, error) {
	args := []string{"--ui=json", "--no-statement", "--task-dir", taskDir, "--solution", solutionPath}
	cmd := exec.CommandContext(ctx, r.execPath, args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open worker stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to spawn worker %s: %w", r.execPath, err)
	}
	return &Worker{cmd: cmd, stdout: stdout}, nil
}

// Stdout is the worker's standard output stream, one JSON event per line.
func (w *Worker) Stdout() io.Reader {
	return w.stdout
}

// Wait blocks until the process exits and returns its exit code. Exit
// code 0 means grading completed, regardless of the solution's own
// correctness; any other code is a grading infrastructure failure.
func (w *Worker) Wait() (int, error) {
	err := w.cmd.Wait()
	if err == nil {
		return 0, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("failed to await worker exit: %w", err)
}
