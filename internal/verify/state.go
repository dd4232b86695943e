package verify

import "slices"

// Mode selects which pipeline runs.
type Mode string

// Pipeline modes.
const (
	// ModePlain runs the test once and records its hash on success.
	ModePlain Mode = "plain"
	// ModeStrict also runs the test under valgrind and classifies the log.
	ModeStrict Mode = "strict"
)

// State is one step of a verification run.
type State string

// Run states.
const (
	StateStart                 State = "start"
	StateCheckSkip             State = "check_skip"
	StateSkipped               State = "skipped"
	StateRunNormal             State = "run_normal"
	StateFailedNormal          State = "failed_normal"
	StateRunInstrumented       State = "run_instrumented"
	StateFailedInstrumentation State = "failed_instrumentation"
	StateAnalyzeLog            State = "analyze_log"
	StatePass                  State = "pass"
	StateFail                  State = "fail"
)

// String returns the state's name.
func (s State) String() string {
	return string(s)
}

// strictTransitions is the full pipeline:
//
//	Start → CheckSkip
//	CheckSkip → Skipped, RunNormal
//	RunNormal → FailedNormal, RunInstrumented
//	RunInstrumented → FailedInstrumentation, AnalyzeLog
//	AnalyzeLog → Pass, Fail
//
//nolint:gochecknoglobals // Read-only lookup table
var strictTransitions = map[State][]State{
	StateStart:           {StateCheckSkip},
	StateCheckSkip:       {StateSkipped, StateRunNormal},
	StateRunNormal:       {StateFailedNormal, StateRunInstrumented},
	StateRunInstrumented: {StateFailedInstrumentation, StateAnalyzeLog},
	StateAnalyzeLog:      {StatePass, StateFail},
}

// plainTransitions stops after the normal run:
//
//	Start → CheckSkip
//	CheckSkip → Skipped, RunNormal
//	RunNormal → FailedNormal, Pass
//
//nolint:gochecknoglobals // Read-only lookup table
var plainTransitions = map[State][]State{
	StateStart:     {StateCheckSkip},
	StateCheckSkip: {StateSkipped, StateRunNormal},
	StateRunNormal: {StateFailedNormal, StatePass},
}

//nolint:gochecknoglobals // Read-only lookup table
var terminalStates = map[State]bool{
	StateSkipped:               true,
	StateFailedNormal:          true,
	StateFailedInstrumentation: true,
	StatePass:                  true,
	StateFail:                  true,
}

//nolint:gochecknoglobals // Read-only lookup table
var successStates = map[State]bool{
	StateSkipped: true,
	StatePass:    true,
}

func transitionsFor(mode Mode) map[State][]State {
	if mode == ModePlain {
		return plainTransitions
	}
	return strictTransitions
}

// IsValidTransition reports whether mode allows moving from one state to
// another.
func IsValidTransition(mode Mode, from, to State) bool {
	return slices.Contains(transitionsFor(mode)[from], to)
}

// ValidTargets returns a copy of the states reachable from from in mode.
// It returns nil for terminal or unknown states.
func ValidTargets(mode Mode, from State) []State {
	return slices.Clone(transitionsFor(mode)[from])
}

// IsTerminal reports whether no further transitions leave s.
func IsTerminal(s State) bool {
	return terminalStates[s]
}

// Succeeded reports whether s is a terminal success.
func Succeeded(s State) bool {
	return successStates[s]
}
