package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxOutputSize caps stdout/stderr captured from the subprocess.
const maxOutputSize = 100 * 1024 // 100 KB

// pythonPrelude feeds the workflow state to the script via stdin, so
// no user-controlled text is ever spliced into generated code.
const pythonPrelude = `import json, sys
_state = json.load(sys.stdin)
variables = _state["variables"]
results = _state["results"]
`

// PythonRunner executes Python in a time-limited subprocess. The
// script's stdout is its result; JSON output is decoded, anything
// else is returned as text.
type PythonRunner struct {
	Interpreter string // defaults to "python3"
	Timeout     time.Duration
}

func (p *PythonRunner) Language() string { return "python" }

func (p *PythonRunner) Run(ctx context.Context, code string, variables, results map[string]any) (any, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	interpreter := p.Interpreter
	if interpreter == "" {
		interpreter = "python3"
	}

	if variables == nil {
		variables = map[string]any{}
	}
	if results == nil {
		results = map[string]any{}
	}
	stateJSON, err := json.Marshal(map[string]any{"variables": variables, "results": results})
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}

	tmpFile, err := os.CreateTemp("", "weft-python-*.py")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(pythonPrelude + code); err != nil {
		tmpFile.Close()
		return nil, fmt.Errorf("write script: %w", err)
	}
	tmpFile.Close()

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, interpreter, tmpFile.Name())
	cmd.Stdin = bytes.NewReader(stateJSON)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if execCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("script timeout after %s", timeout)
		}
		return nil, fmt.Errorf("python exited with error: %v: %s", err, capOutput(stderr.String()))
	}

	out := strings.TrimSpace(capOutput(stdout.String()))
	if out == "" {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(out), &decoded); err == nil {
		return decoded, nil
	}
	return out, nil
}

func capOutput(s string) string {
	if len(s) > maxOutputSize {
		return s[:maxOutputSize] + "\n... [truncated at 100KB]"
	}
	return s
}
