// Package sandbox executes user-supplied scripts from "code" workflow
// nodes. User code never runs unrestricted in the host: JavaScript
// runs inside an embedded interpreter with an interrupt deadline, and
// Python runs in a separate time-limited subprocess.
package sandbox

import (
	"context"
	"time"
)

// defaultTimeout bounds a single script run.
const defaultTimeout = 30 * time.Second

// Runner executes a script against the run's variables and the
// accumulated node results, returning the script's value.
type Runner interface {
	Language() string
	Run(ctx context.Context, code string, variables, results map[string]any) (any, error)
}
