package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Result is the captured output of a finished program
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// ExecRunner runs programs with os/exec
type ExecRunner struct{}

// Run starts name and waits for it to exit. A non-zero exit is reported
// through Result.ExitCode, not as an error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, fmt.Errorf("%s was interrupted: %w", name, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("failed to start %s: %w", name, err)
	}
	return res, nil
}

// ExitError reports a tool that ran but exited with a non-zero code
type ExitError struct {
	Tool   string
	Code   int
	Stdout []byte
	Stderr []byte
}

func (e *ExitError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Attempted running %s, found exit code %d\n", e.Tool, e.Code)
	writeStream(&b, "stdout", e.Stdout)
	b.WriteString("\n")
	writeStream(&b, "stderr", e.Stderr)
	return b.String()
}

func writeStream(b *strings.Builder, name string, data []byte) {
	if len(data) == 0 {
		fmt.Fprintf(b, "%s is empty", name)
		return
	}
	fmt.Fprintf(b, "%s is:\n%s", name, strings.TrimRight(string(data), "\n"))
}
