package runner

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/forge-lang/testwrap/internal/errors"
)

// Runner runs test executables. It imposes no timeout; the caller's context
// and environment decide how long a test may take.
type Runner struct {
	runner     CommandRunner
	liveOutput io.Writer
	logPath    func(dir string) (string, error)
}

// New creates a Runner backed by os/exec.
func New() *Runner {
	return NewWithRunner(&DefaultCommandRunner{})
}

// NewWithRunner creates a Runner with a custom CommandRunner (for testing).
func NewWithRunner(cr CommandRunner) *Runner {
	return &Runner{
		runner:  cr,
		logPath: newLogPath,
	}
}

// SetLiveOutput streams the plain run's output to w as it is produced,
// in addition to capturing it.
func (r *Runner) SetLiveOutput(w io.Writer) {
	r.liveOutput = w
}

// RunPlain runs exe with args in workDir and blocks until it exits.
// workDir should be the executable's own directory so the test can find
// files placed next to it.
func (r *Runner) RunPlain(ctx context.Context, exe string, args []string, workDir string) (*Result, error) {
	log := zerolog.Ctx(ctx)
	log.Info().
		Str("artifact", exe).
		Strs("args", args).
		Str("work_dir", workDir).
		Msg("running test")

	result, err := r.execute(ctx, workDir, exe, args, r.liveOutput)
	if err != nil {
		return result, err
	}

	log.Debug().
		Int("exit_code", result.ExitCode).
		Int64("duration_ms", result.DurationMs).
		Msg("test finished")

	return result, nil
}

// RunInstrumented runs exe under valgrind memcheck and blocks until valgrind
// exits. It returns valgrind's own exit status and the path of the log file
// valgrind wrote. The caller owns the log file and must remove it.
//
// On a launch failure the log file is removed and no path is returned.
func (r *Runner) RunInstrumented(ctx context.Context, exe string, args []string, workDir string, tool ToolConfig) (*Result, string, error) {
	if err := tool.Validate(); err != nil {
		return nil, "", err
	}

	logPath, err := r.logPath(tool.LogDir)
	if err != nil {
		return nil, "", err
	}
	if err := removeStale(logPath); err != nil {
		return nil, "", err
	}

	log := zerolog.Ctx(ctx)
	log.Info().
		Str("artifact", exe).
		Str("valgrind", tool.Path).
		Strs("suppressions", tool.Suppressions).
		Str("log_file", logPath).
		Msg("running test under valgrind")

	result, err := r.execute(ctx, workDir, tool.Path, tool.Args(logPath, exe, args), nil)
	if err != nil {
		_ = removeStale(logPath)
		return result, "", err
	}

	log.Debug().
		Int("exit_code", result.ExitCode).
		Int64("duration_ms", result.DurationMs).
		Msg("valgrind finished")

	return result, logPath, nil
}

// execute runs one command and builds its Result.
func (r *Runner) execute(ctx context.Context, workDir, name string, args []string, liveOut io.Writer) (*Result, error) {
	startedAt := time.Now()
	output, exitCode, runErr := r.runner.Run(ctx, workDir, name, args, liveOut)
	completedAt := time.Now()

	result := &Result{
		Command:     append([]string{name}, args...),
		WorkDir:     workDir,
		ExitCode:    exitCode,
		Output:      output,
		DurationMs:  completedAt.Sub(startedAt).Milliseconds(),
		StartedAt:   startedAt,
		CompletedAt: completedAt,
	}

	if runErr != nil {
		zerolog.Ctx(ctx).Error().
			Err(runErr).
			Str("command", name).
			Str("work_dir", workDir).
			Msg("failed to launch process")
		return result, errors.Wrapf(errors.ErrLaunchFailed, "%s: %v", name, runErr)
	}

	return result, nil
}
