package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forge-lang/testwrap/internal/verify"
)

func TestIsValidTransition(t *testing.T) {
	tests := []struct {
		name     string
		mode     verify.Mode
		from     verify.State
		to       verify.State
		expected bool
	}{
		{"start to check_skip", verify.ModeStrict, verify.StateStart, verify.StateCheckSkip, true},
		{"check_skip to skipped", verify.ModeStrict, verify.StateCheckSkip, verify.StateSkipped, true},
		{"check_skip to run_normal", verify.ModePlain, verify.StateCheckSkip, verify.StateRunNormal, true},
		{"strict run_normal to run_instrumented", verify.ModeStrict, verify.StateRunNormal, verify.StateRunInstrumented, true},
		{"strict run_normal to pass", verify.ModeStrict, verify.StateRunNormal, verify.StatePass, false},
		{"plain run_normal to pass", verify.ModePlain, verify.StateRunNormal, verify.StatePass, true},
		{"plain run_normal to run_instrumented", verify.ModePlain, verify.StateRunNormal, verify.StateRunInstrumented, false},
		{"run_instrumented to analyze_log", verify.ModeStrict, verify.StateRunInstrumented, verify.StateAnalyzeLog, true},
		{"run_instrumented to pass", verify.ModeStrict, verify.StateRunInstrumented, verify.StatePass, false},
		{"analyze_log to fail", verify.ModeStrict, verify.StateAnalyzeLog, verify.StateFail, true},
		{"start to run_normal skips the check", verify.ModeStrict, verify.StateStart, verify.StateRunNormal, false},
		{"terminal has no targets", verify.ModeStrict, verify.StatePass, verify.StateStart, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, verify.IsValidTransition(tc.mode, tc.from, tc.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []verify.State{
		verify.StateSkipped, verify.StateFailedNormal, verify.StateFailedInstrumentation,
		verify.StatePass, verify.StateFail,
	}
	for _, s := range terminal {
		assert.True(t, verify.IsTerminal(s), s.String())
	}

	for _, s := range []verify.State{
		verify.StateStart, verify.StateCheckSkip, verify.StateRunNormal,
		verify.StateRunInstrumented, verify.StateAnalyzeLog,
	} {
		assert.False(t, verify.IsTerminal(s), s.String())
		assert.NotEmpty(t, verify.ValidTargets(verify.ModeStrict, s), s.String())
	}
}

func TestSucceeded(t *testing.T) {
	assert.True(t, verify.Succeeded(verify.StateSkipped))
	assert.True(t, verify.Succeeded(verify.StatePass))
	assert.False(t, verify.Succeeded(verify.StateFail))
	assert.False(t, verify.Succeeded(verify.StateFailedNormal))
	assert.False(t, verify.Succeeded(verify.StateRunNormal))
}

func TestValidTargets_ReturnsCopy(t *testing.T) {
	targets := verify.ValidTargets(verify.ModeStrict, verify.StateCheckSkip)
	targets[0] = verify.StateFail

	assert.Equal(t, []verify.State{verify.StateSkipped, verify.StateRunNormal},
		verify.ValidTargets(verify.ModeStrict, verify.StateCheckSkip))
	assert.Nil(t, verify.ValidTargets(verify.ModePlain, verify.StateRunInstrumented))
}
