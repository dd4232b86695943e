package verify

import (
	"time"

	"github.com/forge-lang/testwrap/internal/memcheck"
)

// Outcome is the result of one verification run. A run stopped by an error
// keeps the state in which the error occurred.
type Outcome struct {
	State    State    `json:"state" yaml:"state"`
	Mode     Mode     `json:"mode" yaml:"mode"`
	Artifact string   `json:"artifact" yaml:"artifact"`
	Args     []string `json:"args,omitempty" yaml:"args,omitempty"`
	ExitCode int      `json:"exit_code" yaml:"exit_code"`
	Path     []State  `json:"path" yaml:"path"`

	// Report is set once a valgrind log has been analyzed.
	Report *memcheck.Report `json:"report,omitempty" yaml:"report,omitempty"`

	// Output is the captured test or valgrind output of a failed run.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Log is the raw valgrind log of a run that failed classification.
	Log string `json:"log,omitempty" yaml:"log,omitempty"`

	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	DurationMs int64     `json:"duration_ms" yaml:"duration_ms"`
}

// Succeeded reports whether the run skipped or passed.
func (o *Outcome) Succeeded() bool {
	return o != nil && Succeeded(o.State)
}
