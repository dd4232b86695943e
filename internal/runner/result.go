package runner

import (
	"time"
)

// Result captures the outcome of one child-process invocation.
type Result struct {
	Command     []string  `json:"command" yaml:"command"`
	WorkDir     string    `json:"work_dir" yaml:"work_dir"`
	ExitCode    int       `json:"exit_code" yaml:"exit_code"`
	Output      []byte    `json:"-" yaml:"-"`
	DurationMs  int64     `json:"duration_ms" yaml:"duration_ms"`
	StartedAt   time.Time `json:"started_at" yaml:"started_at"`
	CompletedAt time.Time `json:"completed_at" yaml:"completed_at"`
}

// Success reports whether the process exited with status 0.
func (r *Result) Success() bool {
	return r != nil && r.ExitCode == 0
}
