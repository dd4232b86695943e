// Package verify sequences one verification run of a test executable:
// skip check, plain run, optional run under valgrind, log classification,
// and the hash update that only a full success earns.
//
// The run is an explicit state machine. Each non-terminal state has one
// handler that does its work and names the next state; the loop checks every
// transition against the mode's table and logs it.
//
// Import rules:
//   - CAN import: internal/clock, internal/config, internal/constants,
//     internal/ctxutil, internal/errors, internal/hashcache, internal/memcheck,
//     internal/runner, std lib
//   - MUST NOT import: internal/cli
package verify

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/forge-lang/testwrap/internal/clock"
	"github.com/forge-lang/testwrap/internal/config"
	"github.com/forge-lang/testwrap/internal/constants"
	"github.com/forge-lang/testwrap/internal/ctxutil"
	"github.com/forge-lang/testwrap/internal/errors"
	"github.com/forge-lang/testwrap/internal/hashcache"
	"github.com/forge-lang/testwrap/internal/memcheck"
	"github.com/forge-lang/testwrap/internal/runner"
)

// Runner runs the test executable. *runner.Runner satisfies it.
type Runner interface {
	RunPlain(ctx context.Context, exe string, args []string, workDir string) (*runner.Result, error)
	RunInstrumented(ctx context.Context, exe string, args []string, workDir string, tool runner.ToolConfig) (*runner.Result, string, error)
}

// Cache decides skips and records successes. *hashcache.Cache satisfies it.
type Cache interface {
	SkipEligible(ctx context.Context, policy hashcache.SkipPolicy, path string) (bool, error)
	Save(ctx context.Context, path string) error
}

// liveOutputSetter is implemented by runners that can stream a plain run's
// output while capturing it.
type liveOutputSetter interface {
	SetLiveOutput(w io.Writer)
}

// Orchestrator runs the verification pipeline for one executable at a time.
type Orchestrator struct {
	cfg    *config.Config
	runner Runner
	cache  Cache
	stdout io.Writer
	clock  clock.Clock
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the os/exec backed runner.
func WithRunner(r Runner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithCache replaces the sidecar hash cache.
func WithCache(c Cache) Option {
	return func(o *Orchestrator) { o.cache = c }
}

// WithStdout sets where the skip notice, forwarded output and failing logs
// are printed. Without it nothing is printed and callers read the Outcome.
func WithStdout(w io.Writer) Option {
	return func(o *Orchestrator) { o.stdout = w }
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// New creates an Orchestrator for cfg.
func New(cfg *config.Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:    cfg,
		runner: runner.New(),
		cache:  hashcache.New(),
		clock:  clock.RealClock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// run is the mutable state of one invocation.
type run struct {
	mode     Mode
	artifact string
	workDir  string
	args     []string
	tool     runner.ToolConfig
	logPath  string
	exitCode int
	streamed bool
	outcome  *Outcome
}

// Run verifies artifact in mode, forwarding args to it. It always returns an
// Outcome. The error is nil only for Skipped and Pass; a failing child's
// status travels in an *errors.ExitCodeError.
func (o *Orchestrator) Run(ctx context.Context, mode Mode, artifact string, args []string) (*Outcome, error) {
	startedAt := o.clock.Now()
	r := &run{
		mode: mode,
		args: args,
		outcome: &Outcome{
			State:     StateStart,
			Mode:      mode,
			Artifact:  artifact,
			Args:      args,
			Path:      []State{StateStart},
			StartedAt: startedAt,
		},
	}

	err := o.loop(ctx, r)

	out := r.outcome
	out.DurationMs = o.clock.Now().Sub(startedAt).Milliseconds()
	out.ExitCode = errors.ExitCode(err)
	if err != nil {
		out.Error = err.Error()
	}

	zerolog.Ctx(ctx).Info().
		Str("artifact", out.Artifact).
		Str("mode", string(mode)).
		Str("state", out.State.String()).
		Int("exit_code", out.ExitCode).
		Int64("duration_ms", out.DurationMs).
		Msg("verification finished")

	return out, err
}

func (o *Orchestrator) loop(ctx context.Context, r *run) error {
	log := zerolog.Ctx(ctx)
	state := StateStart

	for !IsTerminal(state) {
		next, err := o.step(ctx, r, state)
		if err != nil {
			return err
		}
		if !IsValidTransition(r.mode, state, next) {
			return errors.Wrapf(errors.ErrInvalidTransition, "%s mode: %s -> %s", r.mode, state, next)
		}

		log.Debug().
			Str("from", state.String()).
			Str("to", next.String()).
			Msg("state transition")

		state = next
		r.outcome.State = state
		r.outcome.Path = append(r.outcome.Path, state)
	}

	return o.finish(r, state)
}

func (o *Orchestrator) step(ctx context.Context, r *run, state State) (State, error) {
	switch state {
	case StateStart:
		return o.start(r)
	case StateCheckSkip:
		return o.checkSkip(ctx, r)
	case StateRunNormal:
		return o.runNormal(ctx, r)
	case StateRunInstrumented:
		return o.runInstrumented(ctx, r)
	case StateAnalyzeLog:
		return o.analyzeLog(ctx, r)
	default:
		return state, errors.Wrapf(errors.ErrInvalidTransition, "no handler for state %s", state)
	}
}

// start resolves the artifact and validates configuration. Nothing is
// spawned if either fails.
func (o *Orchestrator) start(r *run) (State, error) {
	if r.mode != ModePlain && r.mode != ModeStrict {
		return StateStart, errors.Wrapf(errors.ErrConfigInvalid, "unknown mode %q", r.mode)
	}

	artifact, err := ResolveArtifact(r.outcome.Artifact)
	if err != nil {
		return StateStart, err
	}
	r.artifact = artifact
	r.workDir = filepath.Dir(artifact)
	r.outcome.Artifact = artifact

	if r.mode == ModePlain {
		return StateCheckSkip, config.Validate(o.cfg)
	}

	if err := config.ValidateStrict(o.cfg); err != nil {
		return StateStart, err
	}
	r.tool = runner.ToolConfig{
		Path:         o.cfg.Valgrind.Path,
		Suppressions: o.cfg.Suppressions(),
		LogDir:       o.cfg.Valgrind.LogDir,
		ExtraArgs:    o.cfg.Valgrind.ExtraArgs,
	}
	if err := r.tool.Validate(); err != nil {
		return StateStart, err
	}

	return StateCheckSkip, nil
}

func (o *Orchestrator) checkSkip(ctx context.Context, r *run) (State, error) {
	skip, err := o.cache.SkipEligible(ctx, o.cfg, r.artifact)
	if err != nil {
		return StateCheckSkip, err
	}
	if skip {
		o.print([]byte(constants.SkipNotice + "\n"))
		return StateSkipped, nil
	}
	return StateRunNormal, nil
}

func (o *Orchestrator) runNormal(ctx context.Context, r *run) (State, error) {
	o.setLiveOutput(r)

	result, err := o.runner.RunPlain(ctx, r.artifact, r.args, r.workDir)
	if err != nil {
		return StateRunNormal, err
	}
	if err := ctxutil.Interrupted(ctx, StateRunNormal.String()); err != nil {
		return StateRunNormal, err
	}

	if !result.Success() {
		r.exitCode = result.ExitCode
		r.outcome.Output = string(result.Output)
		if !r.streamed {
			o.print(result.Output)
		}
		return StateFailedNormal, nil
	}

	if r.mode == ModeStrict {
		return StateRunInstrumented, nil
	}

	if err := o.cache.Save(ctx, r.artifact); err != nil {
		return StateRunNormal, err
	}
	return StatePass, nil
}

func (o *Orchestrator) runInstrumented(ctx context.Context, r *run) (State, error) {
	result, logPath, err := o.runner.RunInstrumented(ctx, r.artifact, r.args, r.workDir, r.tool)
	if err != nil {
		return StateRunInstrumented, err
	}
	if err := ctxutil.Interrupted(ctx, StateRunInstrumented.String()); err != nil {
		o.discardLog(ctx, logPath)
		return StateRunInstrumented, err
	}

	if !result.Success() {
		o.discardLog(ctx, logPath)
		r.exitCode = result.ExitCode
		r.outcome.Output = string(result.Output)
		o.print(result.Output)
		return StateFailedInstrumentation, nil
	}

	r.logPath = logPath
	return StateAnalyzeLog, nil
}

// analyzeLog consumes the log before looking at its content, so the file is
// gone on every path out of this state.
func (o *Orchestrator) analyzeLog(ctx context.Context, r *run) (State, error) {
	text, err := memcheck.ConsumeLog(r.logPath)
	r.logPath = ""
	if err != nil {
		return StateAnalyzeLog, err
	}

	report := memcheck.Analyze(text)
	r.outcome.Report = report

	event := zerolog.Ctx(ctx).Debug().
		Str("classification", report.Classification.String()).
		Str("rule", report.Rule).
		Int("categories", len(report.Categories))
	if leak, ok := report.Summary.Leaks[memcheck.DefinitelyLost]; ok {
		event = event.Int64("definitely_lost_bytes", leak.Bytes)
	}
	event.Msg("classified valgrind log")

	if !report.Passed() {
		r.outcome.Log = text
		o.print([]byte(text))
		return StateFail, nil
	}

	if err := ctxutil.Interrupted(ctx, StateAnalyzeLog.String()); err != nil {
		return StateAnalyzeLog, err
	}
	if err := o.cache.Save(ctx, r.artifact); err != nil {
		return StateAnalyzeLog, err
	}
	return StatePass, nil
}

// finish maps a terminal state to the error Run returns.
func (o *Orchestrator) finish(r *run, state State) error {
	switch state {
	case StateFailedNormal:
		return errors.NewExitCodeError(r.exitCode,
			errors.Wrapf(errors.ErrExecutionFailed, "%s exited with status %d", filepath.Base(r.artifact), r.exitCode))
	case StateFailedInstrumentation:
		return errors.NewExitCodeError(r.exitCode,
			errors.Wrapf(errors.ErrExecutionFailed, "valgrind exited with status %d", r.exitCode))
	case StateFail:
		return errors.Wrapf(errors.ErrClassificationFailed, "%s (%s)",
			r.outcome.Report.Classification, r.outcome.Report.Rule)
	default:
		return nil
	}
}

// setLiveOutput streams the plain run in plain mode when printing is on.
// Strict mode captures and only prints on failure.
func (o *Orchestrator) setLiveOutput(r *run) {
	setter, ok := o.runner.(liveOutputSetter)
	if !ok {
		return
	}
	if r.mode == ModePlain && o.stdout != nil {
		setter.SetLiveOutput(o.stdout)
		r.streamed = true
		return
	}
	setter.SetLiveOutput(nil)
}

func (o *Orchestrator) print(p []byte) {
	if o.stdout == nil || len(p) == 0 {
		return
	}
	_, _ = o.stdout.Write(p)
}

func (o *Orchestrator) discardLog(ctx context.Context, path string) {
	if err := memcheck.RemoveLog(path); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("log_file", path).Msg("failed to remove valgrind log")
	}
}

// ResolveArtifact returns the absolute, symlink-free path of a test
// executable. The path must name an existing file.
func ResolveArtifact(path string) (string, error) {
	if path == "" {
		return "", errors.Wrap(errors.ErrArtifactNotFound, "empty path")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(errors.ErrArtifactNotFound, "%s: %v", path, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(errors.ErrArtifactNotFound, "%s: %v", path, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.Wrapf(errors.ErrArtifactNotFound, "%s: %v", path, err)
	}
	if info.IsDir() {
		return "", errors.Wrapf(errors.ErrArtifactNotFound, "%s is a directory", path)
	}

	return resolved, nil
}
