package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"resume-builder/internal/shared/telemetry"
)

const (
	inputToken  = "{input}"
	outdirToken = "{outdir}"

	maxCapturedOutput = 1 << 20
)

var errEmptyArtifact = errors.New("empty artifact")

// Local runs a LaTeX toolchain as a subprocess.
type Local struct {
	command  []string
	workRoot string
	timeout  time.Duration
}

// NewLocal builds a subprocess compiler. command is an argv in which
// {input} and {outdir} are replaced per job; when {input} is absent the
// source path is appended.
func NewLocal(command []string, workRoot string, timeout time.Duration) (*Local, error) {
	if len(command) == 0 || strings.TrimSpace(command[0]) == "" {
		return nil, errors.New("compiler command is empty")
	}
	return &Local{
		command:  append([]string(nil), command...),
		workRoot: workRoot,
		timeout:  timeout,
	}, nil
}

// Compile writes source into a fresh job directory, runs the toolchain and
// returns the produced PDF.
func (l *Local) Compile(ctx context.Context, source string) (Result, error) {
	start := time.Now()
	job, err := newJob(l.workRoot)
	if err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: "could not allocate working directory", Err: err}
	}
	defer job.cleanup()

	if err := job.writeSource(source); err != nil {
		return Result{}, &Error{Kind: KindUnavailable, Message: "could not write document", Err: err}
	}

	runCtx, cancel := detach(ctx, l.timeout)
	defer cancel()

	argv := expandCommand(l.command, job)
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Dir = job.Dir
	// Children of a killed toolchain can hold the pipes open.
	cmd.WaitDelay = 2 * time.Second
	stdout := &cappedBuffer{limit: maxCapturedOutput}
	stderr := &cappedBuffer{limit: maxCapturedOutput}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	if runErr != nil {
		cerr := &Error{Stdout: stdout.String(), Stderr: stderr.String(), Err: runErr}
		var exitErr *exec.ExitError
		switch {
		case errors.Is(runCtx.Err(), context.DeadlineExceeded):
			cerr.Kind = KindFailed
			cerr.Message = fmt.Sprintf("LaTeX compilation timed out after %s", l.effectiveTimeout())
		case errors.As(runErr, &exitErr):
			cerr.Kind = KindFailed
			cerr.Message = "LaTeX compilation failed"
		default:
			cerr.Kind = KindUnavailable
			cerr.Message = "LaTeX compiler unavailable"
		}
		telemetry.Info("compile.toolchain_failed", map[string]any{
			"compile_job_id": job.ID,
			"kind":           string(cerr.Kind),
			"error":          runErr.Error(),
			"stdout":         telemetry.Truncate(cerr.Stdout, 2048),
			"stderr":         telemetry.Truncate(cerr.Stderr, 2048),
		})
		return Result{}, cerr
	}

	pdf, err := os.ReadFile(job.ArtifactPath())
	if err != nil || len(pdf) == 0 {
		if err == nil {
			err = errEmptyArtifact
		}
		return Result{}, &Error{
			Kind:    KindNoArtifact,
			Message: "artifact not produced",
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	return Result{
		JobID:       job.ID,
		PDF:         pdf,
		ContentType: ContentTypePDF,
		Stdout:      stdout.String(),
		Stderr:      stderr.String(),
		Duration:    time.Since(start),
	}, nil
}

func (l *Local) effectiveTimeout() time.Duration {
	if l.timeout <= 0 {
		return defaultTimeout
	}
	return l.timeout
}

func expandCommand(command []string, job *Job) []string {
	argv := make([]string, 0, len(command)+1)
	sawInput := false
	for _, arg := range command {
		if strings.Contains(arg, inputToken) {
			sawInput = true
		}
		arg = strings.ReplaceAll(arg, inputToken, job.SourcePath())
		arg = strings.ReplaceAll(arg, outdirToken, job.Dir)
		argv = append(argv, arg)
	}
	if !sawInput {
		argv = append(argv, job.SourcePath())
	}
	return argv
}

// cappedBuffer keeps the first limit bytes written and drops the rest.
type cappedBuffer struct {
	buf   bytes.Buffer
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string { return b.buf.String() }
